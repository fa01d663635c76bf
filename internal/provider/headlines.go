package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pumpradar/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	yahooHeadlinesURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"

	// Per-ticker feeds are on topic by construction; headlines that name the
	// ticker outright count as more relevant.
	headlineRelevanceNamed = 0.9
	headlineRelevanceFeed  = 0.5
)

// TextScorer scores a headline on the [-1,1] scale.
type TextScorer interface {
	ScoreDomain(text string) domain.SentimentScore
}

// HeadlineNewsProvider builds news sentiment from the per-ticker Yahoo Finance
// RSS feed by scoring each headline locally. It needs no API key and serves as
// the news source when Alpha Vantage is not configured.
type HeadlineNewsProvider struct {
	client  *http.Client
	feedURL string
	tracer  trace.Tracer
	limiter *rate.Limiter
	scorer  TextScorer
	now     func() time.Time
}

func NewHeadlineNewsProvider(tracer trace.Tracer, scorer TextScorer) *HeadlineNewsProvider {
	return &HeadlineNewsProvider{
		client:  &http.Client{Timeout: 20 * time.Second},
		feedURL: yahooHeadlinesURL,
		tracer:  tracer,
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
		scorer:  scorer,
		now:     time.Now,
	}
}

func (p *HeadlineNewsProvider) FetchNewsSentiment(ctx context.Context, ticker string, limit int) ([]domain.NewsArticle, error) {
	ctx, span := p.tracer.Start(ctx, "headlines.fetch-news-sentiment")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	if limit <= 0 {
		limit = defaultNewsLimit
	}
	q := url.Values{}
	q.Set("s", ticker)
	q.Set("region", "US")
	q.Set("lang", "en-US")
	header := http.Header{}
	header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	body, err := fetch(ctx, p.client, p.limiter, "headlines", p.feedURL+"?"+q.Encode(), header)
	if err != nil {
		return nil, fmt.Errorf("fetch headlines for %s: %w", ticker, err)
	}

	var rss struct {
		Channel struct {
			Title string `xml:"title"`
			Items []struct {
				Title       string `xml:"title"`
				Link        string `xml:"link"`
				Description string `xml:"description"`
				PubDate     string `xml:"pubDate"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal(body, &rss); err != nil {
		return nil, fmt.Errorf("decode rss payload: %w", err)
	}

	match := tickerMatcher(ticker)
	articles := make([]domain.NewsArticle, 0, min(limit, len(rss.Channel.Items)))
	for _, row := range rss.Channel.Items {
		if len(articles) >= limit {
			break
		}
		title := sanitizeText(row.Title, 300)
		if title == "" {
			continue
		}
		text := title + " " + sanitizeText(htmlStrip(row.Description), 420)
		publishedAt := parseRSSDate(row.PubDate)
		if publishedAt.IsZero() {
			publishedAt = p.now().UTC()
		}
		relevance := headlineRelevanceFeed
		if match.MatchString(text) {
			relevance = headlineRelevanceNamed
		}
		score := p.scorer.ScoreDomain(text).Score

		articles = append(articles, domain.NewsArticle{
			Title:        title,
			URL:          sanitizeText(row.Link, 500),
			PublishedAt:  publishedAt,
			Source:       sanitizeText(rss.Channel.Title, 120),
			OverallScore: score,
			TickerSentiment: []domain.TickerSentiment{
				{Ticker: ticker, Relevance: relevance, Score: score},
			},
		})
	}
	return articles, nil
}

func parseRSSDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func htmlStrip(in string) string {
	if strings.TrimSpace(in) == "" {
		return ""
	}
	var b strings.Builder
	inside := false
	for _, r := range in {
		switch r {
		case '<':
			inside = true
			continue
		case '>':
			inside = false
			continue
		}
		if !inside {
			b.WriteRune(r)
		}
	}
	return b.String()
}
