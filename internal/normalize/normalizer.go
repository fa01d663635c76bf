// Package normalize turns each collaborator's native response into a
// domain.SentimentDataPoint on the common [-1,1] scale.
package normalize

import (
	"math"
	"strings"
	"time"

	"pumpradar/internal/domain"
	"pumpradar/internal/sentiment"
)

type Config struct {
	// SocialWindow is how many of the most recent daily records are blended.
	SocialWindow int
	// NewsRelevanceThreshold excludes ticker entries at or below this relevance.
	NewsRelevanceThreshold  float64
	SocialMentionSaturation float64
	NewsVolumeSaturation    float64
	PostVolumeSaturation    float64
}

func DefaultConfig() Config {
	return Config{
		SocialWindow:            7,
		NewsRelevanceThreshold:  0.3,
		SocialMentionSaturation: 1000,
		NewsVolumeSaturation:    20,
		PostVolumeSaturation:    50,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SocialWindow <= 0 {
		c.SocialWindow = d.SocialWindow
	}
	if c.NewsRelevanceThreshold <= 0 {
		c.NewsRelevanceThreshold = d.NewsRelevanceThreshold
	}
	if c.SocialMentionSaturation <= 0 {
		c.SocialMentionSaturation = d.SocialMentionSaturation
	}
	if c.NewsVolumeSaturation <= 0 {
		c.NewsVolumeSaturation = d.NewsVolumeSaturation
	}
	if c.PostVolumeSaturation <= 0 {
		c.PostVolumeSaturation = d.PostVolumeSaturation
	}
	return c
}

const (
	newsVolumeWeight      = 0.5
	newsRelevanceWeight   = 0.5
	postVolumeWeight      = 0.4
	postConsistencyWeight = 0.6
)

type Normalizer struct {
	cfg    Config
	scorer *sentiment.Scorer
	now    func() time.Time
}

type Option func(*Normalizer)

// WithClock sets the time source used to stamp points whose source carries no date.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

func New(cfg Config, scorer *sentiment.Scorer, opts ...Option) *Normalizer {
	if scorer == nil {
		scorer = sentiment.NewScorer()
	}
	n := &Normalizer{
		cfg:    cfg.withDefaults(),
		scorer: scorer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Normalizer) Config() Config { return n.cfg }

// SocialAggregate blends the most recent daily records, weighting each day's
// score by its mention count. Records must be ordered most-recent-first.
func (n *Normalizer) SocialAggregate(ticker string, records []domain.DailySentiment) *domain.SentimentDataPoint {
	if len(records) == 0 {
		return nil
	}
	window := records
	if len(window) > n.cfg.SocialWindow {
		window = window[:n.cfg.SocialWindow]
	}

	total := 0
	weighted := 0.0
	var latest time.Time
	for _, r := range window {
		if r.MentionCount <= 0 {
			continue
		}
		total += r.MentionCount
		weighted += clampUnit(r.Score) * float64(r.MentionCount)
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	if total == 0 {
		return nil
	}

	return &domain.SentimentDataPoint{
		Source:       domain.SourceSocialAggregate,
		Score:        clampUnit(weighted / float64(total)),
		Confidence:   math.Min(float64(total)/n.cfg.SocialMentionSaturation, 1),
		MentionCount: intPtr(total),
		Timestamp:    n.stamp(latest),
	}
}

// News takes the relevance-weighted mean of the per-ticker sentiment of every
// article that is relevant enough to ticker.
func (n *Normalizer) News(ticker string, articles []domain.NewsArticle) *domain.SentimentDataPoint {
	count := 0
	relevanceSum := 0.0
	weighted := 0.0
	var latest time.Time
	for _, a := range articles {
		ts, ok := n.relevantEntry(ticker, a)
		if !ok {
			continue
		}
		count++
		relevanceSum += ts.Relevance
		weighted += clampUnit(ts.Score) * ts.Relevance
		if a.PublishedAt.After(latest) {
			latest = a.PublishedAt
		}
	}
	if count == 0 || relevanceSum <= 0 {
		return nil
	}

	avgRelevance := relevanceSum / float64(count)
	confidence := newsVolumeWeight*math.Min(float64(count)/n.cfg.NewsVolumeSaturation, 1) +
		newsRelevanceWeight*avgRelevance

	return &domain.SentimentDataPoint{
		Source:       domain.SourceNews,
		Score:        clampUnit(weighted / relevanceSum),
		Confidence:   clamp01(confidence),
		MentionCount: intPtr(count),
		Timestamp:    n.stamp(latest),
	}
}

func (n *Normalizer) relevantEntry(ticker string, a domain.NewsArticle) (domain.TickerSentiment, bool) {
	for _, ts := range a.TickerSentiment {
		if !strings.EqualFold(strings.TrimSpace(ts.Ticker), ticker) {
			continue
		}
		if ts.Relevance > n.cfg.NewsRelevanceThreshold {
			return ts, true
		}
	}
	return domain.TickerSentiment{}, false
}

// SocialDirect scores the fetched posts weighted by engagement and community
// weight. Confidence rewards both post volume and agreement between posts.
func (n *Normalizer) SocialDirect(ticker string, mentions []domain.Mention) *domain.SentimentDataPoint {
	items := make([]sentiment.WeightedText, 0, len(mentions))
	for _, m := range mentions {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		sourceWeight := m.SourceWeight
		if sourceWeight <= 0 || math.IsNaN(sourceWeight) {
			sourceWeight = 1
		}
		engagement := math.Max(m.Engagement, 0)
		items = append(items, sentiment.WeightedText{
			Text:   m.Text,
			Weight: (engagement + 1) * sourceWeight,
		})
	}
	if len(items) == 0 {
		return nil
	}

	res := n.scorer.WeightedBatchDetail(items)
	mean := res.Score.Score
	variance := 0.0
	for _, it := range res.Items {
		d := it.Score - mean
		variance += d * d
	}
	variance /= float64(len(res.Items))

	count := len(items)
	confidence := postVolumeWeight*math.Min(float64(count)/n.cfg.PostVolumeSaturation, 1) +
		postConsistencyWeight*(1-math.Min(variance, 1))

	return &domain.SentimentDataPoint{
		Source:       domain.SourceSocialDirect,
		Score:        mean,
		Confidence:   clamp01(confidence),
		MentionCount: intPtr(count),
		Timestamp:    n.now().UTC(),
	}
}

// Inputs bundles whatever each collaborator returned for one ticker.
// A nil slice means the source was unavailable.
type Inputs struct {
	Daily    []domain.DailySentiment
	Articles []domain.NewsArticle
	Mentions []domain.Mention
}

// Points runs every adapter and returns the points that have data, in
// social_aggregate, news, social_direct order.
func (n *Normalizer) Points(ticker string, in Inputs) []domain.SentimentDataPoint {
	points := make([]domain.SentimentDataPoint, 0, 3)
	for _, p := range []*domain.SentimentDataPoint{
		n.SocialAggregate(ticker, in.Daily),
		n.News(ticker, in.Articles),
		n.SocialDirect(ticker, in.Mentions),
	} {
		if p != nil {
			points = append(points, *p)
		}
	}
	return points
}

func (n *Normalizer) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return n.now().UTC()
	}
	return t.UTC()
}

func intPtr(v int) *int { return &v }

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
