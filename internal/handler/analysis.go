package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetAnalysis godoc
// @Summary      Pump-phase analysis for a ticker
// @Description  Aggregates social, news and Reddit sentiment with price momentum and classifies the pump phase. Cached unless refresh=true.
// @Tags         analysis
// @Produce      json
// @Param        ticker   path   string  true   "Ticker symbol (e.g. GME)"
// @Param        refresh  query  bool    false  "Bypass the analysis cache"
// @Success      200  {object}  domain.TickerAnalysis
// @Failure      400  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/analysis/{ticker} [get]
func (h *Handler) GetAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-analysis")
	defer span.End()

	ticker := c.Param("ticker")
	refresh, _ := strconv.ParseBool(c.Query("refresh"))
	span.SetAttributes(attribute.String("ticker", ticker), attribute.Bool("refresh", refresh))

	analyze := h.analyses.Analyze
	if refresh {
		analyze = h.analyses.Refresh
	}
	a, err := analyze(ctx, ticker)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// GetHistory godoc
// @Summary      Stored analysis snapshots
// @Description  Returns persisted analyses for a ticker, newest first
// @Tags         analysis
// @Produce      json
// @Param        ticker  path   string  true   "Ticker symbol"
// @Param        limit   query  int     false  "Number of snapshots (default 50, max 500)"  default(50)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/analysis/{ticker}/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-history")
	defer span.End()

	limit := 50
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	snaps, err := h.analyses.History(ctx, c.Param("ticker"), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snaps, "count": len(snaps)})
}

// ExplainAnalysis godoc
// @Summary      Narrative explanation of an analysis
// @Description  Explains the current analysis in plain language, using an LLM when configured
// @Tags         analysis
// @Produce      json
// @Param        ticker  path  string  true  "Ticker symbol"
// @Success      200  {object}  advisor.Explanation
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/analysis/{ticker}/explain [get]
func (h *Handler) ExplainAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.explain-analysis")
	defer span.End()

	if h.explainer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "explanations not configured"})
		return
	}
	e, err := h.explainer.ExplainTicker(ctx, c.Param("ticker"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}
