package handler

import (
	"net/http"
	"strings"

	"pumpradar/internal/domain"
	"pumpradar/internal/sentiment"

	"github.com/gin-gonic/gin"
)

type sentimentResponse struct {
	Ticker     string                      `json:"ticker"`
	Sentiment  domain.AggregatedSentiment  `json:"sentiment"`
	DataPoints []domain.SentimentDataPoint `json:"data_points"`
}

// GetSentiment godoc
// @Summary      Aggregated sentiment for a ticker
// @Description  Returns the blended multi-source sentiment and the per-source data points
// @Tags         sentiment
// @Produce      json
// @Param        ticker  path  string  true  "Ticker symbol"
// @Success      200  {object}  sentimentResponse
// @Failure      400  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/sentiment/{ticker} [get]
func (h *Handler) GetSentiment(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-sentiment")
	defer span.End()

	a, err := h.analyses.Analyze(ctx, c.Param("ticker"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sentimentResponse{Ticker: a.Ticker, Sentiment: a.Sentiment, DataPoints: a.DataPoints})
}

type scoreRequest struct {
	Text  string                   `json:"text"`
	Texts []sentiment.WeightedText `json:"texts"`
}

const maxScoreTexts = 100

// ScoreText godoc
// @Summary      Score free text
// @Description  Scores one text, or a batch of weighted texts, with the lexicon scorer and the finance keyword adjustment
// @Tags         sentiment
// @Accept       json
// @Produce      json
// @Param        body  body  scoreRequest  true  "Text or weighted texts"
// @Success      200  {object}  service.BatchScore
// @Failure      400  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/sentiment/score [post]
func (h *Handler) ScoreText(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.score-text")
	defer span.End()

	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	items := req.Texts
	if strings.TrimSpace(req.Text) != "" {
		items = append([]sentiment.WeightedText{{Text: req.Text, Weight: 1}}, items...)
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text or texts is required"})
		return
	}
	if len(items) > maxScoreTexts {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many texts"})
		return
	}

	c.JSON(http.StatusOK, h.analyses.ScoreBatch(items))
}
