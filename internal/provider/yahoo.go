package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"pumpradar/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	yahooChartBaseURL = "https://query1.finance.yahoo.com"
	avgVolumeSessions = 30
)

// Session offsets for the percentage change windows.
const (
	sessions1D = 1
	sessions1W = 5
	sessions2W = 10
	sessions1M = 21
	sessions3M = 63
)

// YahooPriceProvider reads daily bars from the Yahoo Finance chart API.
type YahooPriceProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *rate.Limiter
}

func NewYahooPriceProvider(tracer trace.Tracer) *YahooPriceProvider {
	return &YahooPriceProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: yahooChartBaseURL,
		tracer:  tracer,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 4),
	}
}

type yahooChart struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooChartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		ChartPreviousClose float64 `json:"chartPreviousClose"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []yahooQuote `json:"quote"`
	} `json:"indicators"`
}

// Closes and volumes are null for sessions without trades.
type yahooQuote struct {
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

func (p *YahooPriceProvider) FetchPriceSnapshot(ctx context.Context, ticker string) (*domain.PriceSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.fetch-price-snapshot")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=6mo&interval=1d", p.baseURL, url.PathEscape(ticker))
	body, err := fetch(ctx, p.client, p.limiter, "yahoo", u, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch chart for %s: %w", ticker, err)
	}

	var payload yahooChart
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse chart for %s: %w", ticker, err)
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error for %s: %s", ticker, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", ticker)
	}
	return buildPriceSnapshot(ticker, payload.Chart.Result[0])
}

type session struct {
	at     time.Time
	close  float64
	volume float64
}

// buildPriceSnapshot derives the snapshot from daily bars. Sessions without a
// close are skipped.
func buildPriceSnapshot(ticker string, res yahooChartResult) (*domain.PriceSnapshot, error) {
	var closes, volumes []*float64
	if len(res.Indicators.Quote) > 0 {
		closes = res.Indicators.Quote[0].Close
		volumes = res.Indicators.Quote[0].Volume
	}

	sessions := make([]session, 0, len(closes))
	for i, c := range closes {
		if c == nil || *c <= 0 {
			continue
		}
		s := session{close: *c}
		if i < len(volumes) && volumes[i] != nil {
			s.volume = *volumes[i]
		}
		if i < len(res.Timestamp) {
			s.at = time.Unix(res.Timestamp[i], 0).UTC()
		}
		sessions = append(sessions, s)
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("no closing prices for %s", ticker)
	}

	last := sessions[len(sessions)-1]
	snap := &domain.PriceSnapshot{
		Ticker:       ticker,
		CurrentPrice: last.close,
		Volume:       last.volume,
		Timestamp:    last.at,
	}
	if res.Meta.RegularMarketPrice > 0 {
		snap.CurrentPrice = res.Meta.RegularMarketPrice
	}
	if len(sessions) >= 2 {
		snap.PreviousClose = sessions[len(sessions)-2].close
	} else {
		snap.PreviousClose = res.Meta.ChartPreviousClose
	}

	prior := sessions[:len(sessions)-1]
	if len(prior) > avgVolumeSessions {
		prior = prior[len(prior)-avgVolumeSessions:]
	}
	if len(prior) > 0 {
		sum := 0.0
		for _, s := range prior {
			sum += s.volume
		}
		snap.AvgVolume = sum / float64(len(prior))
	}

	snap.Change1D = changeOver(sessions, snap.CurrentPrice, sessions1D)
	snap.Change1W = changeOver(sessions, snap.CurrentPrice, sessions1W)
	snap.Change2W = changeOver(sessions, snap.CurrentPrice, sessions2W)
	snap.Change1M = changeOver(sessions, snap.CurrentPrice, sessions1M)
	snap.Change3M = changeOver(sessions, snap.CurrentPrice, sessions3M)
	return snap, nil
}

func changeOver(sessions []session, current float64, back int) *float64 {
	i := len(sessions) - 1 - back
	if i < 0 || sessions[i].close <= 0 {
		return nil
	}
	pct := (current - sessions[i].close) / sessions[i].close * 100
	return &pct
}
