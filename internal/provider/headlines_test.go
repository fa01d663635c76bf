package provider

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"pumpradar/internal/domain"
)

type stubTextScorer struct{}

func (stubTextScorer) ScoreDomain(text string) domain.SentimentScore {
	if strings.Contains(strings.ToLower(text), "soar") {
		return domain.SentimentScore{Score: 0.6}
	}
	return domain.SentimentScore{Score: -0.2}
}

func TestHeadlineFetchNewsSentiment(t *testing.T) {
	p := NewHeadlineNewsProvider(testTracer(), stubTextScorer{})
	p.feedURL = "https://example.com/rss"
	p.client = stubClient(t, http.StatusOK, `<?xml version="1.0"?><rss version="2.0"><channel><title>Yahoo! Finance: GME News</title>
		<item><title>GME shares soar</title><link>https://news.example/1</link><description><![CDATA[<p>Retail frenzy</p>]]></description><pubDate>Fri, 13 Feb 2026 10:00:00 +0000</pubDate></item>
		<item><title>Retailers face headwinds</title><link>https://news.example/2</link><pubDate>bad date</pubDate></item>
		<item><title>   </title></item>
		</channel></rss>`,
		func(req *http.Request) {
			if req.URL.Query().Get("s") != "GME" {
				t.Fatalf("unexpected query: %s", req.URL.RawQuery)
			}
			if !strings.Contains(req.Header.Get("Accept"), "xml") {
				t.Fatalf("expected xml accept header, got %q", req.Header.Get("Accept"))
			}
		})

	articles, err := p.FetchNewsSentiment(context.Background(), "GME", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	first := articles[0].TickerSentiment[0]
	if first.Ticker != "GME" || first.Relevance != headlineRelevanceNamed || first.Score != 0.6 {
		t.Fatalf("unexpected first ticker sentiment: %+v", first)
	}
	second := articles[1].TickerSentiment[0]
	if second.Relevance != headlineRelevanceFeed || second.Score != -0.2 {
		t.Fatalf("unexpected second ticker sentiment: %+v", second)
	}
	if articles[1].PublishedAt.IsZero() {
		t.Fatalf("expected fallback publish time")
	}
}
