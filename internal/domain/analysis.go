package domain

import "time"

// TickerAnalysis is the full output of one analysis run for a ticker.
type TickerAnalysis struct {
	Ticker     string               `json:"ticker"`
	Sentiment  AggregatedSentiment  `json:"sentiment"`
	Pump       PumpDetectionResult  `json:"pump"`
	Price      *PriceSnapshot       `json:"price,omitempty"`
	DataPoints []SentimentDataPoint `json:"data_points"`
	AnalyzedAt time.Time            `json:"analyzed_at"`
}

// AnalysisSnapshot is the persisted summary of a TickerAnalysis, used to
// supply the "previous" inputs of the next classification.
type AnalysisSnapshot struct {
	ID             int64         `json:"id"`
	Ticker         string        `json:"ticker"`
	SentimentScore float64       `json:"sentiment_score"`
	SentimentLabel OverallLabel  `json:"sentiment_label"`
	SentimentConf  float64       `json:"sentiment_confidence"`
	TotalMentions  int           `json:"total_mentions"`
	SourcesUsed    []string      `json:"sources_used"`
	Phase          PumpPhase     `json:"phase"`
	Signal         TradingSignal `json:"signal"`
	PumpConfidence float64       `json:"pump_confidence"`
	PriceMomentum  float64       `json:"price_momentum"`
	VolumeRatio    float64       `json:"volume_ratio"`
	CurrentPrice   *float64      `json:"current_price,omitempty"`
	Reasoning      []string      `json:"reasoning"`
	AnalyzedAt     time.Time     `json:"analyzed_at"`
}

// SnapshotFromAnalysis flattens an analysis for storage.
func SnapshotFromAnalysis(a TickerAnalysis) AnalysisSnapshot {
	s := AnalysisSnapshot{
		Ticker:         a.Ticker,
		SentimentScore: a.Sentiment.OverallScore,
		SentimentLabel: a.Sentiment.OverallLabel,
		SentimentConf:  a.Sentiment.Confidence,
		TotalMentions:  a.Sentiment.TotalMentions,
		SourcesUsed:    append([]string(nil), a.Sentiment.SourcesUsed...),
		Phase:          a.Pump.Phase,
		Signal:         a.Pump.Signal,
		PumpConfidence: a.Pump.Confidence,
		PriceMomentum:  a.Pump.Metrics.PriceMomentum,
		VolumeRatio:    a.Pump.Metrics.VolumeRatio,
		Reasoning:      append([]string(nil), a.Pump.Reasoning...),
		AnalyzedAt:     a.AnalyzedAt,
	}
	if a.Price != nil {
		p := a.Price.CurrentPrice
		s.CurrentPrice = &p
	}
	return s
}

type WatchlistEntry struct {
	Ticker  string    `json:"ticker"`
	AddedAt time.Time `json:"added_at"`
}
