package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pumpradar/internal/advisor"
	"pumpradar/internal/domain"
	"pumpradar/internal/sentiment"
	"pumpradar/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type stubAnalyses struct {
	refreshed bool
	lastLimit int
	batch     []sentiment.WeightedText
	err       error
}

func (s *stubAnalyses) analysis(ticker string) (*domain.TickerAnalysis, error) {
	if s.err != nil {
		return nil, s.err
	}
	t, err := domain.NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	return &domain.TickerAnalysis{
		Ticker:    t,
		Sentiment: domain.AggregatedSentiment{OverallScore: 0.3, OverallLabel: domain.LabelBullish, SourcesUsed: []string{"Reddit"}},
		Pump:      domain.PumpDetectionResult{Phase: domain.PhaseMid, Signal: domain.SignalYellow},
	}, nil
}

func (s *stubAnalyses) Analyze(ctx context.Context, ticker string) (*domain.TickerAnalysis, error) {
	return s.analysis(ticker)
}

func (s *stubAnalyses) Refresh(ctx context.Context, ticker string) (*domain.TickerAnalysis, error) {
	s.refreshed = true
	return s.analysis(ticker)
}

func (s *stubAnalyses) History(ctx context.Context, ticker string, limit int) ([]domain.AnalysisSnapshot, error) {
	s.lastLimit = limit
	if _, err := domain.NormalizeTicker(ticker); err != nil {
		return nil, err
	}
	return []domain.AnalysisSnapshot{{ID: 2, Ticker: "GME"}, {ID: 1, Ticker: "GME"}}, nil
}

func (s *stubAnalyses) ScoreText(text string) service.TextScore {
	return service.TextScore{Text: text}
}

func (s *stubAnalyses) ScoreBatch(items []sentiment.WeightedText) service.BatchScore {
	s.batch = items
	out := service.BatchScore{}
	for _, it := range items {
		out.Items = append(out.Items, s.ScoreText(it.Text))
	}
	return out
}

type stubWatchlist struct {
	tickers []string
	err     error
}

func (s *stubWatchlist) Tickers(ctx context.Context) ([]string, error) { return s.tickers, s.err }

func (s *stubWatchlist) Add(ctx context.Context, ticker string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	t, err := domain.NormalizeTicker(ticker)
	if err != nil {
		return "", err
	}
	s.tickers = append(s.tickers, t)
	return t, nil
}

func (s *stubWatchlist) Remove(ctx context.Context, ticker string) error {
	if s.err != nil {
		return s.err
	}
	return fmt.Errorf("%s: %w", ticker, domain.ErrNotFound)
}

type stubExplainer struct{}

func (stubExplainer) ExplainTicker(ctx context.Context, ticker string) (*advisor.Explanation, error) {
	return &advisor.Explanation{Ticker: "GME", Summary: "mid stage", Source: advisor.SourceRules}, nil
}

func newTestRouter(apiKey string) (*gin.Engine, *stubAnalyses, *stubWatchlist) {
	gin.SetMode(gin.TestMode)
	analyses := &stubAnalyses{}
	watchlist := &stubWatchlist{}
	h := New(noop.NewTracerProvider().Tracer("test"), analyses, watchlist, stubExplainer{}, apiKey)
	r := gin.New()
	h.RegisterRoutes(r)
	return r, analyses, watchlist
}

func do(r *gin.Engine, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetAnalysis(t *testing.T) {
	r, analyses, _ := newTestRouter("")

	w := do(r, http.MethodGet, "/api/analysis/gme", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.TickerAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "GME", got.Ticker)
	assert.Equal(t, domain.PhaseMid, got.Pump.Phase)
	assert.False(t, analyses.refreshed)

	w = do(r, http.MethodGet, "/api/analysis/gme?refresh=true", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, analyses.refreshed)
}

func TestGetAnalysisErrors(t *testing.T) {
	r, analyses, _ := newTestRouter("")

	w := do(r, http.MethodGet, "/api/analysis/toolongticker", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	analyses.err = errors.New("boom")
	w = do(r, http.MethodGet, "/api/analysis/GME", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetHistory(t *testing.T) {
	r, analyses, _ := newTestRouter("")

	w := do(r, http.MethodGet, "/api/analysis/GME/history?limit=5", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, analyses.lastLimit)
	assert.Contains(t, w.Body.String(), `"count":2`)

	do(r, http.MethodGet, "/api/analysis/GME/history?limit=9999", nil, nil)
	assert.Equal(t, 50, analyses.lastLimit)
}

func TestExplainAnalysis(t *testing.T) {
	r, _, _ := newTestRouter("")
	w := do(r, http.MethodGet, "/api/analysis/GME/explain", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mid stage")

	gin.SetMode(gin.TestMode)
	h := New(noop.NewTracerProvider().Tracer("test"), &stubAnalyses{}, &stubWatchlist{}, nil, "")
	bare := gin.New()
	h.RegisterRoutes(bare)
	w = do(bare, http.MethodGet, "/api/analysis/GME/explain", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetSentiment(t *testing.T) {
	r, _, _ := newTestRouter("")
	w := do(r, http.MethodGet, "/api/sentiment/amc", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Ticker    string                     `json:"ticker"`
		Sentiment domain.AggregatedSentiment `json:"sentiment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "AMC", got.Ticker)
	assert.Equal(t, domain.LabelBullish, got.Sentiment.OverallLabel)
}

func TestScoreText(t *testing.T) {
	r, analyses, _ := newTestRouter("")

	w := do(r, http.MethodPost, "/api/sentiment/score", map[string]any{
		"text":  "to the moon",
		"texts": []map[string]any{{"text": "bagholding again", "weight": 3}},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, analyses.batch, 2)
	assert.Equal(t, "to the moon", analyses.batch[0].Text)
	assert.Equal(t, 3.0, analyses.batch[1].Weight)

	w = do(r, http.MethodPost, "/api/sentiment/score", map[string]any{"text": "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/sentiment/score", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWatchlistRoutes(t *testing.T) {
	r, _, wl := newTestRouter("")

	w := do(r, http.MethodPost, "/api/watchlist", map[string]string{"ticker": "$koss"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"KOSS"`)

	w = do(r, http.MethodGet, "/api/watchlist", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tickers":["KOSS"]`)

	w = do(r, http.MethodPost, "/api/watchlist", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, "/api/watchlist/AMC", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	wl.err = service.ErrUnavailable
	w = do(r, http.MethodPost, "/api/watchlist", map[string]string{"ticker": "GME"}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAPIKeyAuth(t *testing.T) {
	r, _, _ := newTestRouter("secret")

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/watchlist", nil, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/watchlist", nil, map[string]string{"X-API-Key": "nope"}).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/watchlist", nil, map[string]string{"X-API-Key": "secret"}).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/watchlist", nil, map[string]string{"Authorization": "Bearer secret"}).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/watchlist", nil, map[string]string{"Authorization": "Bearer secrets"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/watchlist", nil, map[string]string{"Authorization": "Basic c2VjcmV0"}).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", nil, nil).Code, "health stays public")
}
