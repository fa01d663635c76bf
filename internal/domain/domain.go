package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidTicker = errors.New("invalid ticker")
	ErrNotFound      = errors.New("not found")
)

// SentimentLabel is the 3-way polarity label of a single scored text.
type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNeutral  SentimentLabel = "neutral"
	LabelNegative SentimentLabel = "negative"
)

const (
	positiveLabelThreshold = 0.05
	negativeLabelThreshold = -0.05
)

// LabelForScore maps a compound score to its label. It is the only place
// label thresholds live, so a persisted score always re-derives the same label.
func LabelForScore(score float64) SentimentLabel {
	switch {
	case score >= positiveLabelThreshold:
		return LabelPositive
	case score <= negativeLabelThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

type Breakdown struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

func (b Breakdown) Sum() float64 {
	return b.Positive + b.Neutral + b.Negative
}

// NeutralBreakdown is the mass of a text with no sentiment-bearing tokens.
func NeutralBreakdown() Breakdown {
	return Breakdown{Neutral: 1}
}

type SentimentScore struct {
	Score      float64        `json:"score"`
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"`
	Breakdown  Breakdown      `json:"breakdown"`
}

// NeutralScore is returned for empty input instead of an error.
func NeutralScore() SentimentScore {
	return SentimentScore{
		Score:      0,
		Label:      LabelNeutral,
		Confidence: 0,
		Breakdown:  NeutralBreakdown(),
	}
}

// SourceID tags a normalized data point with the collaborator it came from.
type SourceID string

const (
	SourceSocialAggregate SourceID = "social_aggregate"
	SourceNews            SourceID = "news"
	SourceSocialDirect    SourceID = "social_direct"
)

// AllSources lists every source in evaluation order.
func AllSources() []SourceID {
	return []SourceID{SourceSocialAggregate, SourceNews, SourceSocialDirect}
}

type SentimentDataPoint struct {
	Source       SourceID  `json:"source"`
	Score        float64   `json:"score"`
	Confidence   float64   `json:"confidence"`
	MentionCount *int      `json:"mention_count,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Mentions returns the point's count metric, or zero when the source has none.
func (p SentimentDataPoint) Mentions() int {
	if p.MentionCount == nil || *p.MentionCount < 0 {
		return 0
	}
	return *p.MentionCount
}

type OverallLabel string

const (
	LabelVeryBullish OverallLabel = "Very Bullish"
	LabelBullish     OverallLabel = "Bullish"
	LabelNeutralMood OverallLabel = "Neutral"
	LabelBearish     OverallLabel = "Bearish"
	LabelVeryBearish OverallLabel = "Very Bearish"
)

type SourceBreakdown struct {
	Score      float64 `json:"score"`
	Count      int     `json:"count"`
	Confidence float64 `json:"confidence"`
	Weight     float64 `json:"weight"`
}

type AggregatedSentiment struct {
	OverallScore  float64                      `json:"overall_score"`
	OverallLabel  OverallLabel                 `json:"overall_label"`
	Confidence    float64                      `json:"confidence"`
	Breakdown     map[SourceID]SourceBreakdown `json:"breakdown"`
	TotalMentions int                          `json:"total_mentions"`
	SourcesUsed   []string                     `json:"sources_used"`
	CalculatedAt  time.Time                    `json:"calculated_at"`
}

type PumpPhase string

const (
	PhaseEarly PumpPhase = "early"
	PhaseMid   PumpPhase = "mid"
	PhaseLate  PumpPhase = "late"
	PhasePost  PumpPhase = "post"
	PhaseNone  PumpPhase = "none"
)

type TradingSignal string

const (
	SignalGreen  TradingSignal = "green"
	SignalYellow TradingSignal = "yellow"
	SignalRed    TradingSignal = "red"
)

type SentimentTrend string

const (
	SentimentImproving SentimentTrend = "improving"
	SentimentStable    SentimentTrend = "stable"
	SentimentDeclining SentimentTrend = "declining"
)

type MentionTrend string

const (
	MentionsRising    MentionTrend = "rising"
	MentionsStable    MentionTrend = "stable"
	MentionsDeclining MentionTrend = "declining"
)

type PumpMetrics struct {
	SentimentScore float64        `json:"sentiment_score"`
	SentimentTrend SentimentTrend `json:"sentiment_trend"`
	MentionVolume  int            `json:"mention_volume"`
	MentionTrend   MentionTrend   `json:"mention_trend"`
	PriceMomentum  float64        `json:"price_momentum"`
	VolumeRatio    float64        `json:"volume_ratio"`
}

type PumpDetectionResult struct {
	Phase      PumpPhase     `json:"phase"`
	Signal     TradingSignal `json:"signal"`
	Confidence float64       `json:"confidence"`
	Reasoning  []string      `json:"reasoning"`
	Metrics    PumpMetrics   `json:"metrics"`
}
