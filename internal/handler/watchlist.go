package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type watchlistRequest struct {
	Ticker string `json:"ticker" binding:"required"`
}

// ListWatchlist godoc
// @Summary      Watched tickers
// @Description  Returns the persisted watchlist merged with the configured seed tickers
// @Tags         watchlist
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Security     ApiKeyAuth
// @Router       /api/watchlist [get]
func (h *Handler) ListWatchlist(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-watchlist")
	defer span.End()

	tickers, err := h.watchlist.Tickers(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickers": tickers})
}

// AddToWatchlist godoc
// @Summary      Watch a ticker
// @Tags         watchlist
// @Accept       json
// @Produce      json
// @Param        body  body  watchlistRequest  true  "Ticker to add"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/watchlist [post]
func (h *Handler) AddToWatchlist(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.add-watchlist")
	defer span.End()

	var req watchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker is required"})
		return
	}
	ticker, err := h.watchlist.Add(ctx, req.Ticker)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ticker": ticker})
}

// RemoveFromWatchlist godoc
// @Summary      Stop watching a ticker
// @Tags         watchlist
// @Param        ticker  path  string  true  "Ticker symbol"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/watchlist/{ticker} [delete]
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.remove-watchlist")
	defer span.End()

	if err := h.watchlist.Remove(ctx, c.Param("ticker")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
