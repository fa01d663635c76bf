// Package aggregate blends normalized per-source sentiment into one
// composite reading using source reliability weights.
package aggregate

import (
	"math"
	"time"

	"pumpradar/internal/domain"
)

const (
	pointConfidenceWeight = 0.7
	diversityWeight       = 0.3
	diversityTarget       = 3.0

	veryBullishAbove = 0.5
	bullishAbove     = 0.15
	neutralFrom      = -0.15
	bearishFrom      = -0.5
)

type Aggregator struct {
	table Table
	now   func() time.Time
}

type Option func(*Aggregator)

func WithTable(t Table) Option {
	return func(a *Aggregator) {
		a.table = append(Table(nil), t...)
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// New returns an aggregator over the default source table unless another is
// injected. Invalid tables are rejected.
func New(opts ...Option) (*Aggregator, error) {
	a := &Aggregator{table: DefaultTable(), now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.table.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Aggregator) Table() Table { return append(Table(nil), a.table...) }

type sourceAcc struct {
	weightedScore float64
	weight        float64
	scoreSum      float64
	confSum       float64
	count         int
}

// Aggregate combines any subset of source points. Points from sources outside
// the table are ignored.
func (a *Aggregator) Aggregate(points []domain.SentimentDataPoint) domain.AggregatedSentiment {
	acc := make([]sourceAcc, len(a.table))
	var (
		weightedSum float64
		weightSum   float64
		confSum     float64
		mentions    int
		used        int
	)
	for _, p := range points {
		i, ok := a.table.lookup(p.Source)
		if !ok {
			continue
		}
		score := clampUnit(p.Score)
		conf := clamp01(p.Confidence)
		cw := a.table[i].Weight * conf

		acc[i].weightedScore += score * cw
		acc[i].weight += cw
		acc[i].scoreSum += score
		acc[i].confSum += conf
		acc[i].count++

		weightedSum += score * cw
		weightSum += cw
		confSum += conf
		mentions += p.Mentions()
		used++
	}

	out := domain.AggregatedSentiment{
		Breakdown:     make(map[domain.SourceID]domain.SourceBreakdown),
		TotalMentions: mentions,
		SourcesUsed:   []string{},
		CalculatedAt:  a.now().UTC(),
	}
	if used == 0 {
		out.OverallLabel = LabelFor(0)
		return out
	}

	if weightSum > 0 {
		out.OverallScore = weightedSum / weightSum
	} else {
		out.OverallScore = a.fallbackScore(acc)
	}
	out.OverallScore = clampUnit(out.OverallScore)
	out.OverallLabel = LabelFor(out.OverallScore)
	out.Confidence = clamp01(pointConfidenceWeight*(confSum/float64(used)) +
		diversityWeight*math.Min(float64(used)/diversityTarget, 1))

	for i, row := range a.table {
		s := acc[i]
		if s.count == 0 {
			continue
		}
		score := s.scoreSum / float64(s.count)
		if s.weight > 0 {
			score = s.weightedScore / s.weight
		}
		out.Breakdown[row.Source] = domain.SourceBreakdown{
			Score:      score,
			Count:      s.count,
			Confidence: s.confSum / float64(s.count),
			Weight:     s.weight,
		}
		out.SourcesUsed = append(out.SourcesUsed, row.DisplayName)
	}
	return out
}

// fallbackScore is used when every contributing point has zero confidence:
// points are then blended by source weight alone.
func (a *Aggregator) fallbackScore(acc []sourceAcc) float64 {
	var num, den float64
	for i, row := range a.table {
		s := acc[i]
		if s.count == 0 {
			continue
		}
		w := row.Weight
		if w <= 0 {
			w = weightTolerance
		}
		num += (s.scoreSum / float64(s.count)) * w
		den += w
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// LabelFor maps an overall score to its five-way label.
func LabelFor(score float64) domain.OverallLabel {
	switch {
	case score > veryBullishAbove:
		return domain.LabelVeryBullish
	case score > bullishAbove:
		return domain.LabelBullish
	case score >= neutralFrom:
		return domain.LabelNeutralMood
	case score >= bearishFrom:
		return domain.LabelBearish
	default:
		return domain.LabelVeryBearish
	}
}

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
