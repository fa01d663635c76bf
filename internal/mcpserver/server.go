// Package mcpserver exposes the analysis pipeline as Model Context Protocol
// tools so assistants can query pump phases directly.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"pumpradar/internal/advisor"
	"pumpradar/internal/domain"
	"pumpradar/internal/sentiment"
	"pumpradar/internal/service"
	"pumpradar/pkg/logger"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*domain.TickerAnalysis, error)
	Refresh(ctx context.Context, ticker string) (*domain.TickerAnalysis, error)
	ScoreText(text string) service.TextScore
	ScoreBatch(items []sentiment.WeightedText) service.BatchScore
}

type Watchlist interface {
	Tickers(ctx context.Context) ([]string, error)
}

type Explainer interface {
	ExplainTicker(ctx context.Context, ticker string) (*advisor.Explanation, error)
}

type AnalyzeInput struct {
	Ticker  string `json:"ticker" jsonschema:"stock ticker symbol such as GME or $AMC"`
	Refresh bool   `json:"refresh,omitempty" jsonschema:"bypass the cached analysis"`
}

type ScoreInput struct {
	Text  string   `json:"text,omitempty" jsonschema:"free text to score for market sentiment"`
	Texts []string `json:"texts,omitempty" jsonschema:"several texts to score together with their average and label distribution"`
}

type ExplainInput struct {
	Ticker string `json:"ticker" jsonschema:"stock ticker symbol to explain"`
}

type WatchlistInput struct{}

type Server struct {
	tracer    trace.Tracer
	analyses  Analyzer
	watchlist Watchlist
	explainer Explainer
	mcp       *mcp.Server
}

// New registers the tools. A nil watchlist or explainer omits its tool.
func New(tracer trace.Tracer, version string, analyses Analyzer, watchlist Watchlist, explainer Explainer) *Server {
	s := &Server{
		tracer:    tracer,
		analyses:  analyses,
		watchlist: watchlist,
		explainer: explainer,
		mcp:       mcp.NewServer(&mcp.Implementation{Name: "pumpradar", Version: version}, nil),
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "analyze_ticker",
		Description: "Aggregate social, news and price data for a ticker and classify its pump phase and trading signal.",
	}, s.analyzeTicker)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "score_text",
		Description: "Score text with the VADER lexicon and finance keyword adjustment. Pass texts to score a batch.",
	}, s.scoreText)
	if explainer != nil {
		mcp.AddTool(s.mcp, &mcp.Tool{
			Name:        "explain_ticker",
			Description: "Explain a ticker's current pump phase in plain language.",
		}, s.explainTicker)
	}
	if watchlist != nil {
		mcp.AddTool(s.mcp, &mcp.Tool{
			Name:        "list_watchlist",
			Description: "List the tickers monitored by the background watchlist job.",
		}, s.listWatchlist)
	}
	return s
}

func (s *Server) MCP() *mcp.Server { return s.mcp }

// RunStdio serves a single client over stdin/stdout until ctx ends.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler serves the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
}

func (s *Server) analyzeTicker(ctx context.Context, _ *mcp.CallToolRequest, in AnalyzeInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "mcp.analyze-ticker")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", in.Ticker), attribute.Bool("refresh", in.Refresh))

	run := s.analyses.Analyze
	if in.Refresh {
		run = s.analyses.Refresh
	}
	a, err := run(ctx, in.Ticker)
	if err != nil {
		span.RecordError(err)
		return nil, nil, toolError("analyze", err)
	}
	return jsonResult(a)
}

func (s *Server) scoreText(ctx context.Context, _ *mcp.CallToolRequest, in ScoreInput) (*mcp.CallToolResult, any, error) {
	_, span := s.tracer.Start(ctx, "mcp.score-text")
	defer span.End()

	if len(in.Texts) > 0 {
		items := make([]sentiment.WeightedText, len(in.Texts))
		for i, text := range in.Texts {
			items[i] = sentiment.WeightedText{Text: text}
		}
		return jsonResult(s.analyses.ScoreBatch(items))
	}
	if in.Text == "" {
		return nil, nil, errors.New("text or texts is required")
	}
	return jsonResult(s.analyses.ScoreText(in.Text))
}

func (s *Server) explainTicker(ctx context.Context, _ *mcp.CallToolRequest, in ExplainInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "mcp.explain-ticker")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", in.Ticker))

	e, err := s.explainer.ExplainTicker(ctx, in.Ticker)
	if err != nil {
		span.RecordError(err)
		return nil, nil, toolError("explain", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: e.Summary}},
	}, nil, nil
}

func (s *Server) listWatchlist(ctx context.Context, _ *mcp.CallToolRequest, _ WatchlistInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "mcp.list-watchlist")
	defer span.End()

	tickers, err := s.watchlist.Tickers(ctx)
	if err != nil {
		return nil, nil, toolError("watchlist", err)
	}
	if tickers == nil {
		tickers = []string{}
	}
	return jsonResult(map[string][]string{"tickers": tickers})
}

func toolError(op string, err error) error {
	logger.Get().Named("mcp").Warnw("tool failed", "op", op, "error", err)
	if errors.Is(err, domain.ErrInvalidTicker) {
		return err
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil, nil
}
