package domain

import "time"

// PriceSnapshot is the read-only price view supplied by the price collaborator.
// Percentage changes are nil when the history is too short to compute them.
type PriceSnapshot struct {
	Ticker        string    `json:"ticker"`
	CurrentPrice  float64   `json:"current_price"`
	PreviousClose float64   `json:"previous_close"`
	Volume        float64   `json:"volume"`
	AvgVolume     float64   `json:"avg_volume"`
	Change1D      *float64  `json:"change_1d,omitempty"`
	Change1W      *float64  `json:"change_1w,omitempty"`
	Change2W      *float64  `json:"change_2w,omitempty"`
	Change1M      *float64  `json:"change_1m,omitempty"`
	Change3M      *float64  `json:"change_3m,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// DailySentiment is one record of the pre-aggregated social feed.
type DailySentiment struct {
	Date          time.Time `json:"date"`
	MentionCount  int       `json:"mention_count"`
	PositiveCount int       `json:"positive_count"`
	NegativeCount int       `json:"negative_count"`
	Score         float64   `json:"score"`
}

type TickerSentiment struct {
	Ticker    string  `json:"ticker"`
	Relevance float64 `json:"relevance"`
	Score     float64 `json:"score"`
}

type NewsArticle struct {
	Title           string            `json:"title"`
	URL             string            `json:"url"`
	PublishedAt     time.Time         `json:"published_at"`
	Source          string            `json:"source"`
	OverallScore    float64           `json:"overall_score"`
	TickerSentiment []TickerSentiment `json:"ticker_sentiment"`
}

// Mention is one fetched social post. SourceWeight is the caller-assigned
// reliability multiplier of the community it was posted in.
type Mention struct {
	Text         string  `json:"text"`
	Engagement   float64 `json:"engagement"`
	SourceWeight float64 `json:"source_weight"`
	Origin       string  `json:"origin,omitempty"`
}
