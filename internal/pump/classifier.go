// Package pump classifies the pump phase of a ticker from one observation
// window of sentiment, mention and price data.
package pump

import (
	"fmt"
	"math"

	"pumpradar/internal/domain"
)

// Input is one observation window. Previous values are optional; without
// them the corresponding trend is stable.
type Input struct {
	Sentiment            domain.AggregatedSentiment
	Price                *domain.PriceSnapshot
	MentionCount         int
	PreviousMentionCount *int
	PreviousSentiment    *float64
}

type Classifier struct {
	th Thresholds
}

type Option func(*Classifier)

func WithThresholds(th Thresholds) Option {
	return func(c *Classifier) { c.th = th }
}

func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{th: DefaultThresholds()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Classifier) Thresholds() Thresholds { return c.th }

// Classify is total: any input, including the zero value, yields a result.
func (c *Classifier) Classify(in Input) domain.PumpDetectionResult {
	m := c.metrics(in)
	reasoning := c.observations(m, in)

	phase, why := c.phase(m)
	reasoning = append(reasoning, why)

	signal, why := c.signal(phase, m)
	reasoning = append(reasoning, why)

	return domain.PumpDetectionResult{
		Phase:      phase,
		Signal:     signal,
		Confidence: c.confidence(m),
		Reasoning:  reasoning,
		Metrics:    m,
	}
}

func (c *Classifier) metrics(in Input) domain.PumpMetrics {
	score := finite(in.Sentiment.OverallScore)
	mentions := in.MentionCount
	if mentions < 0 {
		mentions = 0
	}
	return domain.PumpMetrics{
		SentimentScore: score,
		SentimentTrend: c.sentimentTrend(score, in.PreviousSentiment),
		MentionVolume:  mentions,
		MentionTrend:   c.mentionTrend(mentions, in.PreviousMentionCount),
		PriceMomentum:  c.Momentum(in.Price),
		VolumeRatio:    VolumeRatio(in.Price),
	}
}

func (c *Classifier) sentimentTrend(score float64, prev *float64) domain.SentimentTrend {
	if prev == nil || math.IsNaN(*prev) || math.IsInf(*prev, 0) {
		return domain.SentimentStable
	}
	delta := score - *prev
	switch {
	case delta > c.th.SentimentTrendDelta:
		return domain.SentimentImproving
	case delta < -c.th.SentimentTrendDelta:
		return domain.SentimentDeclining
	default:
		return domain.SentimentStable
	}
}

func (c *Classifier) mentionTrend(current int, prev *int) domain.MentionTrend {
	if prev == nil || *prev <= 0 {
		return domain.MentionsStable
	}
	change := float64(current-*prev) / float64(*prev)
	switch {
	case change > c.th.MentionTrendChange:
		return domain.MentionsRising
	case change < -c.th.MentionTrendChange:
		return domain.MentionsDeclining
	default:
		return domain.MentionsStable
	}
}

// Momentum blends the present short-horizon changes; zero when none are present.
func (c *Classifier) Momentum(p *domain.PriceSnapshot) float64 {
	if p == nil {
		return 0
	}
	w := c.th.Momentum
	var sum, weights float64
	for _, part := range []struct {
		change *float64
		weight float64
	}{
		{p.Change1D, w.Day},
		{p.Change1W, w.Week},
		{p.Change2W, w.TwoWeek},
		{p.Change1M, w.Month},
	} {
		if part.change == nil || math.IsNaN(*part.change) || math.IsInf(*part.change, 0) {
			continue
		}
		sum += *part.change * part.weight
		weights += part.weight
	}
	if weights <= 0 {
		return 0
	}
	return sum / weights
}

// VolumeRatio is volume over average volume, or 1 without a usable average.
func VolumeRatio(p *domain.PriceSnapshot) float64 {
	if p == nil || !(p.AvgVolume > 0) || math.IsInf(p.AvgVolume, 0) {
		return 1
	}
	r := p.Volume / p.AvgVolume
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		return 1
	}
	return r
}

func (c *Classifier) phase(m domain.PumpMetrics) (domain.PumpPhase, string) {
	th := c.th
	s, mom, vr := m.SentimentScore, m.PriceMomentum, m.VolumeRatio

	switch {
	case m.MentionTrend == domain.MentionsRising &&
		s > th.EarlyMinSentiment &&
		m.SentimentTrend == domain.SentimentImproving &&
		mom > th.EarlyMinMomentum && mom < th.EarlyMaxMomentum &&
		vr > th.EarlyMinVolumeRatio:
		return domain.PhaseEarly, fmt.Sprintf(
			"Early phase: rising mentions, improving sentiment above %.2f, momentum between %.0f%% and %.0f%%, volume above %.1fx",
			th.EarlyMinSentiment, th.EarlyMinMomentum, th.EarlyMaxMomentum, th.EarlyMinVolumeRatio)

	case s > th.MidMinSentiment &&
		mom > th.MidMinMomentum && mom < th.MidMaxMomentum &&
		vr > th.MidMinVolumeRatio:
		return domain.PhaseMid, fmt.Sprintf(
			"Mid phase: sentiment above %.2f, momentum between %.0f%% and %.0f%%, volume above %.1fx",
			th.MidMinSentiment, th.MidMinMomentum, th.MidMaxMomentum, th.MidMinVolumeRatio)

	// Late is evaluated before post so its ordering wins any overlap.
	case s > th.LateMinSentiment &&
		mom > th.LateMinMomentum &&
		m.MentionTrend != domain.MentionsRising:
		return domain.PhaseLate, fmt.Sprintf(
			"Late phase: euphoric sentiment above %.2f with momentum above %.0f%% while mentions stop growing",
			th.LateMinSentiment, th.LateMinMomentum)

	case m.MentionTrend == domain.MentionsDeclining &&
		m.SentimentTrend == domain.SentimentDeclining &&
		mom < th.PostMaxMomentum &&
		vr < th.PostMaxVolumeRatio:
		return domain.PhasePost, fmt.Sprintf(
			"Post phase: mentions and sentiment declining, momentum below %.0f%%, volume below %.1fx",
			th.PostMaxMomentum, th.PostMaxVolumeRatio)
	}
	return domain.PhaseNone, "No pump pattern matched"
}

func (c *Classifier) signal(phase domain.PumpPhase, m domain.PumpMetrics) (domain.TradingSignal, string) {
	th := c.th
	s, mom := m.SentimentScore, m.PriceMomentum

	switch {
	case phase == domain.PhaseEarly:
		return domain.SignalGreen, "Green: early phase"
	case phase == domain.PhaseNone && s > th.GreenMinSentiment &&
		mom > th.GreenMinMomentum && mom < th.GreenMaxMomentum:
		return domain.SignalGreen, fmt.Sprintf(
			"Green: positive sentiment above %.2f with modest momentum under %.0f%%",
			th.GreenMinSentiment, th.GreenMaxMomentum)
	case phase == domain.PhaseLate || phase == domain.PhasePost:
		return domain.SignalRed, fmt.Sprintf("Red: %s phase", phase)
	case s < th.RedMaxSentiment || mom < th.RedMaxMomentum:
		return domain.SignalRed, fmt.Sprintf(
			"Red: sentiment below %.2f or momentum below %.0f%%",
			th.RedMaxSentiment, th.RedMaxMomentum)
	}
	return domain.SignalYellow, "Yellow: no decisive signal"
}

func (c *Classifier) confidence(m domain.PumpMetrics) float64 {
	th := c.th
	bonus := th.ConfUnalignedBonus
	if trendsAligned(m) {
		bonus = th.ConfAlignedBonus
	}
	momentumPart := 0.0
	if th.ConfMomentumScale > 0 {
		momentumPart = math.Min(1, math.Abs(m.PriceMomentum)/th.ConfMomentumScale)
	}
	conf := math.Abs(m.SentimentScore)*th.ConfSentimentWeight +
		math.Min(1, math.Abs(m.VolumeRatio-1))*th.ConfVolumeWeight +
		momentumPart*th.ConfMomentumWeight +
		bonus
	return clamp01(conf)
}

func trendsAligned(m domain.PumpMetrics) bool {
	return (m.SentimentTrend == domain.SentimentImproving && m.MentionTrend == domain.MentionsRising) ||
		(m.SentimentTrend == domain.SentimentDeclining && m.MentionTrend == domain.MentionsDeclining)
}

func (c *Classifier) observations(m domain.PumpMetrics, in Input) []string {
	out := make([]string, 0, 6)

	if in.PreviousSentiment != nil {
		out = append(out, fmt.Sprintf("Sentiment %.2f is %s (previous %.2f)",
			m.SentimentScore, m.SentimentTrend, *in.PreviousSentiment))
	} else {
		out = append(out, fmt.Sprintf("Sentiment %.2f, no previous reading", m.SentimentScore))
	}

	if in.PreviousMentionCount != nil && *in.PreviousMentionCount > 0 {
		prev := *in.PreviousMentionCount
		out = append(out, fmt.Sprintf("Mentions %s: %d vs %d (%+.0f%%)",
			m.MentionTrend, m.MentionVolume, prev, float64(m.MentionVolume-prev)/float64(prev)*100))
	} else {
		out = append(out, fmt.Sprintf("Mentions %d, no previous count", m.MentionVolume))
	}

	out = append(out,
		fmt.Sprintf("Price momentum %+.2f%%", m.PriceMomentum),
		fmt.Sprintf("Volume %.2fx average", m.VolumeRatio),
	)
	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
