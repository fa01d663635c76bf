package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pumpradar/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	alphaVantageBaseURL    = "https://www.alphavantage.co"
	alphaVantageTimeLayout = "20060102T150405"
	defaultNewsLimit       = 50
)

// AlphaVantageNewsProvider reads the NEWS_SENTIMENT endpoint.
type AlphaVantageNewsProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	limiter *rate.Limiter
}

func NewAlphaVantageNewsProvider(tracer trace.Tracer, apiKey string) *AlphaVantageNewsProvider {
	return &AlphaVantageNewsProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: alphaVantageBaseURL,
		apiKey:  strings.TrimSpace(apiKey),
		tracer:  tracer,
		// Free tier: 5 requests per minute.
		limiter: rate.NewLimiter(rate.Every(12*time.Second), 5),
	}
}

func (p *AlphaVantageNewsProvider) Enabled() bool { return p.apiKey != "" }

func (p *AlphaVantageNewsProvider) FetchNewsSentiment(ctx context.Context, ticker string, limit int) ([]domain.NewsArticle, error) {
	if !p.Enabled() {
		return nil, nil
	}
	ctx, span := p.tracer.Start(ctx, "alphavantage.fetch-news-sentiment")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	if limit <= 0 {
		limit = defaultNewsLimit
	}
	q := url.Values{}
	q.Set("function", "NEWS_SENTIMENT")
	q.Set("tickers", ticker)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("apikey", p.apiKey)
	u := fmt.Sprintf("%s/query?%s", p.baseURL, q.Encode())

	body, err := fetch(ctx, p.client, p.limiter, "alphavantage", u, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch news sentiment for %s: %w", ticker, err)
	}

	var payload struct {
		Note        string `json:"Note"`
		Information string `json:"Information"`
		Feed        []struct {
			Title                 string  `json:"title"`
			URL                   string  `json:"url"`
			TimePublished         string  `json:"time_published"`
			Source                string  `json:"source"`
			OverallSentimentScore float64 `json:"overall_sentiment_score"`
			TickerSentiment       []struct {
				Ticker               string `json:"ticker"`
				RelevanceScore       string `json:"relevance_score"`
				TickerSentimentScore string `json:"ticker_sentiment_score"`
			} `json:"ticker_sentiment"`
		} `json:"feed"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse news sentiment for %s: %w", ticker, err)
	}
	// Throttled or invalid-key responses still come back as 200.
	if msg := strings.TrimSpace(payload.Note + " " + payload.Information); msg != "" && len(payload.Feed) == 0 {
		return nil, fmt.Errorf("alphavantage refused request: %s", excerpt(msg))
	}

	articles := make([]domain.NewsArticle, 0, len(payload.Feed))
	for _, row := range payload.Feed {
		publishedAt, _ := time.Parse(alphaVantageTimeLayout, strings.TrimSpace(row.TimePublished))
		article := domain.NewsArticle{
			Title:        sanitizeText(row.Title, 300),
			URL:          strings.TrimSpace(row.URL),
			PublishedAt:  publishedAt.UTC(),
			Source:       sanitizeText(row.Source, 120),
			OverallScore: row.OverallSentimentScore,
		}
		for _, ts := range row.TickerSentiment {
			relevance, err := strconv.ParseFloat(strings.TrimSpace(ts.RelevanceScore), 64)
			if err != nil {
				continue
			}
			score, err := strconv.ParseFloat(strings.TrimSpace(ts.TickerSentimentScore), 64)
			if err != nil {
				continue
			}
			article.TickerSentiment = append(article.TickerSentiment, domain.TickerSentiment{
				Ticker:    strings.ToUpper(strings.TrimSpace(ts.Ticker)),
				Relevance: relevance,
				Score:     score,
			})
		}
		articles = append(articles, article)
	}
	return articles, nil
}
