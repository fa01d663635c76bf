package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"pumpradar/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	finnhubBaseURL    = "https://finnhub.io/api/v1"
	finnhubLookback   = 14 * 24 * time.Hour
	finnhubTimeLayout = "2006-01-02 15:04:05"
)

// FinnhubSocialProvider reads pre-aggregated reddit and twitter sentiment.
type FinnhubSocialProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	limiter *rate.Limiter
	now     func() time.Time
}

func NewFinnhubSocialProvider(tracer trace.Tracer, apiKey string) *FinnhubSocialProvider {
	return &FinnhubSocialProvider{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: finnhubBaseURL,
		apiKey:  strings.TrimSpace(apiKey),
		tracer:  tracer,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		now:     time.Now,
	}
}

func (p *FinnhubSocialProvider) Enabled() bool { return p.apiKey != "" }

type finnhubSocialRow struct {
	AtTime          string  `json:"atTime"`
	Mention         int     `json:"mention"`
	PositiveMention int     `json:"positiveMention"`
	NegativeMention int     `json:"negativeMention"`
	Score           float64 `json:"score"`
}

// FetchDailySentiment returns per-day records, most recent first. Without an
// API key the source is disabled and returns nil, nil.
func (p *FinnhubSocialProvider) FetchDailySentiment(ctx context.Context, ticker string) ([]domain.DailySentiment, error) {
	if !p.Enabled() {
		return nil, nil
	}
	ctx, span := p.tracer.Start(ctx, "finnhub.fetch-social-sentiment")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	q := url.Values{}
	q.Set("symbol", ticker)
	q.Set("from", p.now().Add(-finnhubLookback).UTC().Format("2006-01-02"))
	q.Set("token", p.apiKey)
	u := fmt.Sprintf("%s/stock/social-sentiment?%s", p.baseURL, q.Encode())

	body, err := fetch(ctx, p.client, p.limiter, "finnhub", u, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch social sentiment for %s: %w", ticker, err)
	}

	var payload struct {
		Reddit  []finnhubSocialRow `json:"reddit"`
		Twitter []finnhubSocialRow `json:"twitter"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse social sentiment for %s: %w", ticker, err)
	}
	return mergeDailySentiment(append(payload.Reddit, payload.Twitter...)), nil
}

// mergeDailySentiment folds rows from every platform into one record per day.
// The day score is the mention-weighted mean of the row scores.
func mergeDailySentiment(rows []finnhubSocialRow) []domain.DailySentiment {
	type acc struct {
		rec      domain.DailySentiment
		weighted float64
	}
	byDay := make(map[time.Time]*acc)
	for _, row := range rows {
		at, err := time.Parse(finnhubTimeLayout, strings.TrimSpace(row.AtTime))
		if err != nil {
			continue
		}
		day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
		a, ok := byDay[day]
		if !ok {
			a = &acc{rec: domain.DailySentiment{Date: day}}
			byDay[day] = a
		}
		mentions := max(row.Mention, 0)
		a.rec.MentionCount += mentions
		a.rec.PositiveCount += max(row.PositiveMention, 0)
		a.rec.NegativeCount += max(row.NegativeMention, 0)
		a.weighted += row.Score * float64(mentions)
	}

	out := make([]domain.DailySentiment, 0, len(byDay))
	for _, a := range byDay {
		if a.rec.MentionCount > 0 {
			a.rec.Score = a.weighted / float64(a.rec.MentionCount)
		}
		out = append(out, a.rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
