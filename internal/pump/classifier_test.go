package pump

import (
	"strings"
	"testing"

	"pumpradar/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }
func n(v int) *int         { return &v }

func sentiment(score float64) domain.AggregatedSentiment {
	return domain.AggregatedSentiment{OverallScore: score}
}

func TestClassifyEarlyPump(t *testing.T) {
	in := Input{
		Sentiment:            sentiment(0.4),
		PreviousSentiment:    f(0.2),
		MentionCount:         150,
		PreviousMentionCount: n(100),
		Price: &domain.PriceSnapshot{
			Change1D: f(5), Change1W: f(8), Change2W: f(10), Change1M: f(12),
			Volume: 1_500_000, AvgVolume: 1_000_000,
		},
	}

	got := NewClassifier().Classify(in)
	assert.Equal(t, domain.PhaseEarly, got.Phase)
	assert.Equal(t, domain.SignalGreen, got.Signal)
	assert.Equal(t, domain.SentimentImproving, got.Metrics.SentimentTrend)
	assert.Equal(t, domain.MentionsRising, got.Metrics.MentionTrend)
	assert.Equal(t, 150, got.Metrics.MentionVolume)
	assert.InDelta(t, 5*0.4+8*0.3+10*0.2+12*0.1, got.Metrics.PriceMomentum, 1e-9)
	assert.InDelta(t, 1.5, got.Metrics.VolumeRatio, 1e-12)
	assert.InDelta(t, 0.4*0.3+0.5*0.25+(7.6/20)*0.25+0.2, got.Confidence, 1e-9)

	require.Len(t, got.Reasoning, 6)
	assert.True(t, strings.HasPrefix(got.Reasoning[4], "Early phase"), got.Reasoning[4])
	assert.True(t, strings.HasPrefix(got.Reasoning[5], "Green"), got.Reasoning[5])
}

func TestClassifyLatePump(t *testing.T) {
	in := Input{
		Sentiment: sentiment(0.8),
		Price:     &domain.PriceSnapshot{Change1D: f(30), Volume: 500, AvgVolume: 500},
	}

	got := NewClassifier().Classify(in)
	assert.Equal(t, domain.PhaseLate, got.Phase)
	assert.Equal(t, domain.SignalRed, got.Signal)
	assert.InDelta(t, 30.0, got.Metrics.PriceMomentum, 1e-9)
	assert.Equal(t, 1.0, got.Metrics.VolumeRatio)
	assert.Equal(t, domain.MentionsStable, got.Metrics.MentionTrend)
	assert.InDelta(t, 0.8*0.3+0+0.25+0.1, got.Confidence, 1e-9)
}

func TestClassifyMidPump(t *testing.T) {
	got := NewClassifier().Classify(Input{
		Sentiment: sentiment(0.6),
		Price:     &domain.PriceSnapshot{Change1D: f(20), Volume: 200, AvgVolume: 100},
	})
	assert.Equal(t, domain.PhaseMid, got.Phase)
	assert.Equal(t, domain.SignalYellow, got.Signal)
}

func TestClassifyPostPump(t *testing.T) {
	got := NewClassifier().Classify(Input{
		Sentiment:            sentiment(-0.1),
		PreviousSentiment:    f(0.2),
		MentionCount:         50,
		PreviousMentionCount: n(100),
		Price:                &domain.PriceSnapshot{Change1D: f(-8), Volume: 50, AvgVolume: 100},
	})
	assert.Equal(t, domain.PhasePost, got.Phase)
	assert.Equal(t, domain.SignalRed, got.Signal)
	assert.Equal(t, domain.SentimentDeclining, got.Metrics.SentimentTrend)
	assert.Equal(t, domain.MentionsDeclining, got.Metrics.MentionTrend)
	assert.InDelta(t, 0.1*0.3+0.5*0.25+(8.0/20)*0.25+0.2, got.Confidence, 1e-9)
}

func TestClassifySignals(t *testing.T) {
	tests := []struct {
		name   string
		in     Input
		phase  domain.PumpPhase
		signal domain.TradingSignal
	}{
		{
			name:   "quiet positive drift is green",
			in:     Input{Sentiment: sentiment(0.5), Price: &domain.PriceSnapshot{Change1D: f(5)}},
			phase:  domain.PhaseNone,
			signal: domain.SignalGreen,
		},
		{
			name:   "positive sentiment without momentum is yellow",
			in:     Input{Sentiment: sentiment(0.5)},
			phase:  domain.PhaseNone,
			signal: domain.SignalYellow,
		},
		{
			name:   "negative sentiment is red",
			in:     Input{Sentiment: sentiment(-0.5)},
			phase:  domain.PhaseNone,
			signal: domain.SignalRed,
		},
		{
			name:   "falling price is red",
			in:     Input{Price: &domain.PriceSnapshot{Change1D: f(-12)}},
			phase:  domain.PhaseNone,
			signal: domain.SignalRed,
		},
		{
			name:   "zero input is yellow",
			in:     Input{},
			phase:  domain.PhaseNone,
			signal: domain.SignalYellow,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NewClassifier().Classify(tc.in)
			assert.Equal(t, tc.phase, got.Phase)
			assert.Equal(t, tc.signal, got.Signal)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
			assert.NotEmpty(t, got.Reasoning)
		})
	}
}

func TestClassifyZeroInput(t *testing.T) {
	got := NewClassifier().Classify(Input{})
	assert.Equal(t, 0.0, got.Metrics.PriceMomentum)
	assert.Equal(t, 1.0, got.Metrics.VolumeRatio)
	assert.Equal(t, domain.SentimentStable, got.Metrics.SentimentTrend)
	assert.Equal(t, domain.MentionsStable, got.Metrics.MentionTrend)
	assert.InDelta(t, 0.1, got.Confidence, 1e-12)
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := NewClassifier()
	in := Input{
		Sentiment:            sentiment(0.45),
		PreviousSentiment:    f(0.1),
		MentionCount:         300,
		PreviousMentionCount: n(120),
		Price:                &domain.PriceSnapshot{Change1D: f(4), Change1M: f(9), Volume: 3, AvgVolume: 2},
	}
	assert.Equal(t, c.Classify(in), c.Classify(in))
}

func TestMomentum(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, 0.0, c.Momentum(nil))
	assert.Equal(t, 0.0, c.Momentum(&domain.PriceSnapshot{Change3M: f(50)}))
	assert.InDelta(t, (10*0.3+20*0.1)/0.4, c.Momentum(&domain.PriceSnapshot{Change1W: f(10), Change1M: f(20)}), 1e-9)
	assert.InDelta(t, 7.0, c.Momentum(&domain.PriceSnapshot{Change2W: f(7)}), 1e-12)
}

func TestVolumeRatio(t *testing.T) {
	assert.Equal(t, 1.0, VolumeRatio(nil))
	assert.Equal(t, 1.0, VolumeRatio(&domain.PriceSnapshot{Volume: 900, AvgVolume: 0}))
	assert.Equal(t, 1.0, VolumeRatio(&domain.PriceSnapshot{Volume: 900, AvgVolume: -5}))
	assert.InDelta(t, 0.25, VolumeRatio(&domain.PriceSnapshot{Volume: 25, AvgVolume: 100}), 1e-12)
}

func TestTrendBoundaries(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, domain.MentionsStable, c.mentionTrend(120, n(100)))
	assert.Equal(t, domain.MentionsRising, c.mentionTrend(121, n(100)))
	assert.Equal(t, domain.MentionsDeclining, c.mentionTrend(79, n(100)))
	assert.Equal(t, domain.MentionsStable, c.mentionTrend(500, n(0)))
	assert.Equal(t, domain.MentionsStable, c.mentionTrend(500, nil))

	assert.Equal(t, domain.SentimentStable, c.sentimentTrend(0.5, nil))
	assert.Equal(t, domain.SentimentStable, c.sentimentTrend(0.5, f(0.45)))
	assert.Equal(t, domain.SentimentImproving, c.sentimentTrend(0.5, f(0.3)))
	assert.Equal(t, domain.SentimentDeclining, c.sentimentTrend(0.1, f(0.3)))
}

func TestConfidenceIsClamped(t *testing.T) {
	th := DefaultThresholds()
	th.ConfUnalignedBonus = 5
	got := NewClassifier(WithThresholds(th)).Classify(Input{Sentiment: sentiment(0.9)})
	assert.Equal(t, 1.0, got.Confidence)
}

func TestInjectedThresholdsChangePhase(t *testing.T) {
	th := DefaultThresholds()
	th.LateMinMomentum = 50
	in := Input{Sentiment: sentiment(0.8), Price: &domain.PriceSnapshot{Change1D: f(30)}}

	assert.Equal(t, domain.PhaseLate, NewClassifier().Classify(in).Phase)
	assert.Equal(t, domain.PhaseNone, NewClassifier(WithThresholds(th)).Classify(in).Phase)
}

func TestLateWinsOverlapWithPost(t *testing.T) {
	th := DefaultThresholds()
	th.PostMaxMomentum = 100
	th.PostMaxVolumeRatio = 10
	in := Input{
		Sentiment:            sentiment(0.8),
		PreviousSentiment:    f(1.0),
		MentionCount:         50,
		PreviousMentionCount: n(100),
		Price:                &domain.PriceSnapshot{Change1D: f(30), Volume: 100, AvgVolume: 100},
	}

	got := NewClassifier(WithThresholds(th)).Classify(in)
	require.Equal(t, domain.MentionsDeclining, got.Metrics.MentionTrend)
	require.Equal(t, domain.SentimentDeclining, got.Metrics.SentimentTrend)
	assert.Equal(t, domain.PhaseLate, got.Phase)
}
