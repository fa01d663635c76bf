package normalize

import (
	"testing"
	"time"

	"pumpradar/internal/domain"
	"pumpradar/internal/sentiment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

func newTestNormalizer(cfg Config) *Normalizer {
	scorer := sentiment.NewScorer(sentiment.WithLexicon(map[string]float64{
		"good": 1.9,
		"bad":  -2.5,
	}))
	return New(cfg, scorer, WithClock(func() time.Time { return fixedNow }))
}

func day(n int) time.Time {
	return time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC)
}

func TestConfigDefaults(t *testing.T) {
	n := New(Config{}, nil)
	assert.Equal(t, DefaultConfig(), n.Config())
}

func TestSocialAggregate(t *testing.T) {
	n := newTestNormalizer(Config{SocialWindow: 2})
	records := []domain.DailySentiment{
		{Date: day(3), MentionCount: 300, Score: 0.5},
		{Date: day(2), MentionCount: 100, Score: -0.5},
		{Date: day(1), MentionCount: 5000, Score: -1},
	}

	p := n.SocialAggregate("GME", records)
	require.NotNil(t, p)
	assert.Equal(t, domain.SourceSocialAggregate, p.Source)
	assert.InDelta(t, (0.5*300-0.5*100)/400, p.Score, 1e-12)
	assert.InDelta(t, 0.4, p.Confidence, 1e-12)
	assert.Equal(t, 400, p.Mentions())
	assert.Equal(t, day(3), p.Timestamp)
}

func TestSocialAggregateConfidenceSaturates(t *testing.T) {
	n := newTestNormalizer(Config{})
	p := n.SocialAggregate("GME", []domain.DailySentiment{{Date: day(1), MentionCount: 2500, Score: 0.2}})
	require.NotNil(t, p)
	assert.Equal(t, 1.0, p.Confidence)
}

func TestSocialAggregateNoData(t *testing.T) {
	n := newTestNormalizer(Config{})
	assert.Nil(t, n.SocialAggregate("GME", nil))
	assert.Nil(t, n.SocialAggregate("GME", []domain.DailySentiment{{Date: day(1), Score: 0.9}}))
}

func TestNews(t *testing.T) {
	n := newTestNormalizer(Config{})
	articles := []domain.NewsArticle{
		{PublishedAt: day(1), TickerSentiment: []domain.TickerSentiment{{Ticker: "GME", Relevance: 0.8, Score: 0.5}}},
		{PublishedAt: day(3), TickerSentiment: []domain.TickerSentiment{
			{Ticker: "AMC", Relevance: 0.9, Score: -0.9},
			{Ticker: "gme", Relevance: 0.4, Score: -0.2},
		}},
		{PublishedAt: day(5), TickerSentiment: []domain.TickerSentiment{{Ticker: "GME", Relevance: 0.3, Score: 1}}},
		{PublishedAt: day(6)},
	}

	p := n.News("GME", articles)
	require.NotNil(t, p)
	assert.Equal(t, domain.SourceNews, p.Source)
	assert.InDelta(t, (0.5*0.8-0.2*0.4)/1.2, p.Score, 1e-12)
	assert.InDelta(t, 0.5*(2.0/20)+0.5*0.6, p.Confidence, 1e-12)
	assert.Equal(t, 2, p.Mentions())
	assert.Equal(t, day(3), p.Timestamp)
}

func TestNewsNoRelevantArticles(t *testing.T) {
	n := newTestNormalizer(Config{})
	assert.Nil(t, n.News("GME", nil))
	assert.Nil(t, n.News("GME", []domain.NewsArticle{
		{TickerSentiment: []domain.TickerSentiment{{Ticker: "GME", Relevance: 0.1, Score: 0.9}}},
	}))
}

func TestSocialDirect(t *testing.T) {
	n := newTestNormalizer(Config{})
	mentions := []domain.Mention{
		{Text: "good", Engagement: 9, SourceWeight: 1.5},
		{Text: "bad", Engagement: -3, SourceWeight: 0},
		{Text: "   ", Engagement: 1000, SourceWeight: 2},
	}

	scorer := n.scorer
	good := scorer.Score("good").Score
	bad := scorer.Score("bad").Score
	mean := (good*15 + bad*1) / 16
	variance := ((good-mean)*(good-mean) + (bad-mean)*(bad-mean)) / 2

	p := n.SocialDirect("GME", mentions)
	require.NotNil(t, p)
	assert.Equal(t, domain.SourceSocialDirect, p.Source)
	assert.InDelta(t, mean, p.Score, 1e-12)
	assert.InDelta(t, 0.4*(2.0/50)+0.6*(1-variance), p.Confidence, 1e-12)
	assert.Equal(t, 2, p.Mentions())
	assert.Equal(t, fixedNow, p.Timestamp)
}

func TestSocialDirectHighVarianceFloorsConsistency(t *testing.T) {
	n := newTestNormalizer(Config{PostVolumeSaturation: 2})
	scorer := sentiment.NewScorer(sentiment.WithLexicon(map[string]float64{"up": 40, "down": -40}))
	n.scorer = scorer

	p := n.SocialDirect("GME", []domain.Mention{{Text: "up"}, {Text: "down"}})
	require.NotNil(t, p)
	// Scores near +1 and -1 around a mean of 0 give variance close to 1.
	assert.InDelta(t, 0.4, p.Confidence, 0.01)
}

func TestSocialDirectNoPosts(t *testing.T) {
	n := newTestNormalizer(Config{})
	assert.Nil(t, n.SocialDirect("GME", nil))
	assert.Nil(t, n.SocialDirect("GME", []domain.Mention{{Text: ""}, {Text: "\n"}}))
}

func TestPointsSkipsMissingSources(t *testing.T) {
	n := newTestNormalizer(Config{})
	points := n.Points("GME", Inputs{
		Daily:    []domain.DailySentiment{{Date: day(1), MentionCount: 10, Score: 0.1}},
		Mentions: []domain.Mention{{Text: "good"}},
	})
	require.Len(t, points, 2)
	assert.Equal(t, domain.SourceSocialAggregate, points[0].Source)
	assert.Equal(t, domain.SourceSocialDirect, points[1].Source)

	assert.Empty(t, n.Points("GME", Inputs{}))
}
