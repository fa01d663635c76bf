package advisor

import (
	"context"
	"fmt"
	"strings"

	"pumpradar/internal/domain"
	"pumpradar/pkg/logger"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// AnalysisQuerier supplies the analysis being explained.
type AnalysisQuerier interface {
	Analyze(ctx context.Context, ticker string) (*domain.TickerAnalysis, error)
}

const (
	SourceLLM   = "llm"
	SourceRules = "rules"
)

type Explanation struct {
	Ticker  string               `json:"ticker"`
	Phase   domain.PumpPhase     `json:"phase"`
	Signal  domain.TradingSignal `json:"signal"`
	Summary string               `json:"summary"`
	Source  string               `json:"source"`
}

// Explainer turns an analysis into a short narrative. Without an LLM client,
// or when the model call fails, it falls back to a rule-based summary.
type Explainer struct {
	tracer   trace.Tracer
	llm      LLMClient
	analyses AnalysisQuerier
	model    string
}

func NewExplainer(tracer trace.Tracer, llm LLMClient, analyses AnalysisQuerier, model string) *Explainer {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Explainer{tracer: tracer, llm: llm, analyses: analyses, model: model}
}

func (e *Explainer) ExplainTicker(ctx context.Context, ticker string) (*Explanation, error) {
	ctx, span := e.tracer.Start(ctx, "advisor.explain-ticker")
	defer span.End()

	a, err := e.analyses.Analyze(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return e.Explain(ctx, a), nil
}

func (e *Explainer) Explain(ctx context.Context, a *domain.TickerAnalysis) *Explanation {
	ctx, span := e.tracer.Start(ctx, "advisor.explain")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", a.Ticker))

	out := &Explanation{
		Ticker: a.Ticker,
		Phase:  a.Pump.Phase,
		Signal: a.Pump.Signal,
		Source: SourceRules,
	}

	if e.llm != nil {
		reply, err := e.callLLM(ctx, []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(BuildSystemPrompt()),
			openai.UserMessage(FormatAnalysisContext(a)),
		})
		if err == nil && strings.TrimSpace(reply) != "" {
			out.Summary = strings.TrimSpace(reply)
			out.Source = SourceLLM
			return out
		}
		if err != nil {
			span.RecordError(err)
			logger.Get().Warnw("llm explanation failed, using rule summary", "ticker", a.Ticker, "error", err)
		}
	}

	out.Summary = RuleSummary(a)
	return out
}

func (e *Explainer) callLLM(
	ctx context.Context,
	messages []openai.ChatCompletionMessageParamUnion,
) (string, error) {
	ctx, span := e.tracer.Start(ctx, "advisor.llm-call")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", e.model),
		attribute.Int("llm.message_count", len(messages)),
	)

	completion, err := e.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model:    e.model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in LLM response")
	}

	reply := completion.Choices[0].Message.Content
	span.SetAttributes(attribute.Int("llm.reply_length", len(reply)))
	return reply, nil
}

// RuleSummary renders the classifier's own reasoning as a paragraph.
func RuleSummary(a *domain.TickerAnalysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s is in phase %q with a %s signal (confidence %.0f%%). ",
		a.Ticker, a.Pump.Phase, a.Pump.Signal, a.Pump.Confidence*100)
	fmt.Fprintf(&sb, "Overall sentiment is %s (%.2f) from %d source(s)",
		a.Sentiment.OverallLabel, a.Sentiment.OverallScore, len(a.Sentiment.SourcesUsed))
	if a.Sentiment.TotalMentions > 0 {
		fmt.Fprintf(&sb, " across %d mentions", a.Sentiment.TotalMentions)
	}
	sb.WriteString(".")
	for _, r := range a.Pump.Reasoning {
		sb.WriteString(" ")
		sb.WriteString(strings.TrimSuffix(r, "."))
		sb.WriteString(".")
	}
	return sb.String()
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
