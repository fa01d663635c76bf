package sentiment

import (
	"math"
	"strings"

	"pumpradar/internal/domain"

	"github.com/jonreiter/govader"
)

const keywordStep = 0.1

// Scorer wraps a VADER analyzer with a finance keyword adjustment. It is
// safe for concurrent use.
type Scorer struct {
	analyzer  *govader.SentimentIntensityAnalyzer
	overrides map[string]float64
	bullish   []string
	bearish   []string
}

type Option func(*Scorer)

// WithLexicon overlays valences onto the VADER lexicon. Keys are lowercased
// and the map is copied.
func WithLexicon(lexicon map[string]float64) Option {
	return func(s *Scorer) {
		if s.overrides == nil {
			s.overrides = make(map[string]float64, len(lexicon))
		}
		for k, v := range lexicon {
			s.overrides[strings.ToLower(k)] = v
		}
	}
}

// WithKeywords replaces the bullish and bearish keyword tables used by ScoreDomain.
func WithKeywords(bullish, bearish []string) Option {
	return func(s *Scorer) {
		s.bullish = normalizeKeywords(bullish)
		s.bearish = normalizeKeywords(bearish)
	}
}

func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		bullish: normalizeKeywords(defaultBullishKeywords),
		bearish: normalizeKeywords(defaultBearishKeywords),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.analyzer = defaultAnalyzer()
	if len(s.overrides) > 0 {
		s.analyzer = withOverrides(s.analyzer, s.overrides)
	}
	return s
}

// Score returns the compound polarity of text together with its
// positive/neutral/negative mass. Blank text yields the neutral-zero score.
func (s *Scorer) Score(text string) domain.SentimentScore {
	if strings.TrimSpace(text) == "" {
		return domain.NeutralScore()
	}
	v := s.analyzer.PolarityScores(text)
	return newScore(clamp(v.Compound, -1, 1), massOf(v))
}

// ScoreDomain adjusts the base score by a fixed step per matched bullish or
// bearish keyword. Each keyword contributes at most once.
func (s *Scorer) ScoreDomain(text string) domain.SentimentScore {
	base := s.Score(text)
	lower := strings.ToLower(text)

	adjusted := base.Score
	for _, kw := range s.bullish {
		if strings.Contains(lower, kw) {
			adjusted += keywordStep
		}
	}
	for _, kw := range s.bearish {
		if strings.Contains(lower, kw) {
			adjusted -= keywordStep
		}
	}
	return newScore(clamp(adjusted, -1, 1), base.Breakdown)
}

// massOf renormalizes the VADER mass. Text with no scorable tokens
// comes back all zero and maps to the neutral breakdown.
func massOf(v govader.Sentiment) domain.Breakdown {
	pos, neu, neg := clamp(v.Positive, 0, 1), clamp(v.Neutral, 0, 1), clamp(v.Negative, 0, 1)
	total := pos + neu + neg
	if total == 0 {
		return domain.NeutralBreakdown()
	}
	return domain.Breakdown{
		Positive: pos / total,
		Neutral:  neu / total,
		Negative: neg / total,
	}
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, kw := range in {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}

func newScore(score float64, breakdown domain.Breakdown) domain.SentimentScore {
	return domain.SentimentScore{
		Score:      score,
		Label:      domain.LabelForScore(score),
		Confidence: math.Abs(score),
		Breakdown:  breakdown,
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
