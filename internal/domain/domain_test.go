package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestLabelForScoreThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  SentimentLabel
	}{
		{0.05, LabelPositive},
		{0.9, LabelPositive},
		{0.0499, LabelNeutral},
		{0, LabelNeutral},
		{-0.0499, LabelNeutral},
		{-0.05, LabelNegative},
		{-1, LabelNegative},
	}
	for _, tc := range cases {
		if got := LabelForScore(tc.score); got != tc.want {
			t.Errorf("LabelForScore(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestNeutralScore(t *testing.T) {
	s := NeutralScore()
	if s.Score != 0 || s.Label != LabelNeutral || s.Confidence != 0 {
		t.Fatalf("unexpected neutral score: %+v", s)
	}
	if s.Breakdown != (Breakdown{Neutral: 1}) {
		t.Fatalf("unexpected neutral breakdown: %+v", s.Breakdown)
	}
	if math.Abs(s.Breakdown.Sum()-1) > 1e-12 {
		t.Fatalf("breakdown must sum to 1, got %v", s.Breakdown.Sum())
	}
}

func TestDataPointMentions(t *testing.T) {
	if (SentimentDataPoint{}).Mentions() != 0 {
		t.Fatal("nil mention count should read as zero")
	}
	n := 42
	if (SentimentDataPoint{MentionCount: &n}).Mentions() != 42 {
		t.Fatal("expected mention count to be returned")
	}
	neg := -3
	if (SentimentDataPoint{MentionCount: &neg}).Mentions() != 0 {
		t.Fatal("negative mention count should read as zero")
	}
}

func TestNormalizeTicker(t *testing.T) {
	cases := map[string]string{
		"gme":    "GME",
		" $amc ": "AMC",
		"brk.b":  "BRK.B",
		"SNDL":   "SNDL",
	}
	for in, want := range cases {
		got, err := NormalizeTicker(in)
		if err != nil {
			t.Fatalf("NormalizeTicker(%q) unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("NormalizeTicker(%q) = %q, want %q", in, got, want)
		}
	}

	for _, bad := range []string{"", "TOOLONG", "12AB", "A-B", "$"} {
		if _, err := NormalizeTicker(bad); !errors.Is(err, ErrInvalidTicker) {
			t.Fatalf("NormalizeTicker(%q) expected ErrInvalidTicker, got %v", bad, err)
		}
	}
}

func TestSnapshotFromAnalysis(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := TickerAnalysis{
		Ticker: "GME",
		Sentiment: AggregatedSentiment{
			OverallScore:  0.4,
			OverallLabel:  LabelBullish,
			Confidence:    0.6,
			TotalMentions: 150,
			SourcesUsed:   []string{"News Sentiment"},
		},
		Pump: PumpDetectionResult{
			Phase:      PhaseEarly,
			Signal:     SignalGreen,
			Confidence: 0.7,
			Reasoning:  []string{"a", "b"},
			Metrics:    PumpMetrics{PriceMomentum: 6.6, VolumeRatio: 1.5},
		},
		Price:      &PriceSnapshot{CurrentPrice: 21.5},
		AnalyzedAt: now,
	}

	s := SnapshotFromAnalysis(a)
	if s.Ticker != "GME" || s.Phase != PhaseEarly || s.Signal != SignalGreen {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	if s.CurrentPrice == nil || *s.CurrentPrice != 21.5 {
		t.Fatalf("expected current price to be copied, got %v", s.CurrentPrice)
	}
	if len(s.Reasoning) != 2 || s.TotalMentions != 150 || !s.AnalyzedAt.Equal(now) {
		t.Fatalf("unexpected snapshot fields: %+v", s)
	}

	a.Sentiment.SourcesUsed[0] = "mutated"
	if s.SourcesUsed[0] != "News Sentiment" {
		t.Fatal("snapshot must not alias the analysis slices")
	}
}
