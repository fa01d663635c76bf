package handler

import (
	"context"
	"errors"
	"net/http"

	"pumpradar/internal/advisor"
	"pumpradar/internal/domain"
	"pumpradar/internal/metrics"
	"pumpradar/internal/sentiment"
	"pumpradar/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type AnalysisService interface {
	Analyze(ctx context.Context, ticker string) (*domain.TickerAnalysis, error)
	Refresh(ctx context.Context, ticker string) (*domain.TickerAnalysis, error)
	History(ctx context.Context, ticker string, limit int) ([]domain.AnalysisSnapshot, error)
	ScoreText(text string) service.TextScore
	ScoreBatch(items []sentiment.WeightedText) service.BatchScore
}

type WatchlistService interface {
	Tickers(ctx context.Context) ([]string, error)
	Add(ctx context.Context, ticker string) (string, error)
	Remove(ctx context.Context, ticker string) error
}

type Explainer interface {
	ExplainTicker(ctx context.Context, ticker string) (*advisor.Explanation, error)
}

type Handler struct {
	tracer    trace.Tracer
	analyses  AnalysisService
	watchlist WatchlistService
	explainer Explainer
	apiKey    string
	checks    map[string]HealthCheck
}

func New(
	tracer trace.Tracer,
	analyses AnalysisService,
	watchlist WatchlistService,
	explainer Explainer,
	apiKey string,
) *Handler {
	return &Handler{
		tracer:    tracer,
		analyses:  analyses,
		watchlist: watchlist,
		explainer: explainer,
		apiKey:    apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api", APIKeyAuth(h.apiKey))
	api.GET("/analysis/:ticker", h.GetAnalysis)
	api.GET("/analysis/:ticker/history", h.GetHistory)
	api.GET("/analysis/:ticker/explain", h.ExplainAnalysis)
	api.GET("/sentiment/:ticker", h.GetSentiment)
	api.POST("/sentiment/score", h.ScoreText)
	api.GET("/watchlist", h.ListWatchlist)
	api.POST("/watchlist", h.AddToWatchlist)
	api.DELETE("/watchlist/:ticker", h.RemoveFromWatchlist)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidTicker):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}
