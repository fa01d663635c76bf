package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pumpradar/internal/advisor"
	"pumpradar/internal/domain"
	"pumpradar/internal/service"
	"pumpradar/pkg/logger"

	tele "gopkg.in/telebot.v3"
)

type Analyzer interface {
	Analyze(ctx context.Context, ticker string) (*domain.TickerAnalysis, error)
	ScoreText(text string) service.TextScore
}

type Watchlist interface {
	Tickers(ctx context.Context) ([]string, error)
	Add(ctx context.Context, ticker string) (string, error)
	Remove(ctx context.Context, ticker string) error
}

type Explainer interface {
	ExplainTicker(ctx context.Context, ticker string) (*advisor.Explanation, error)
}

// Commands renders replies for every bot command. It holds no telebot state
// so replies can be tested without a bot.
type Commands struct {
	analyses  Analyzer
	watchlist Watchlist
	explainer Explainer
	timeout   time.Duration
}

func NewCommands(analyses Analyzer, watchlist Watchlist, explainer Explainer) *Commands {
	return &Commands{analyses: analyses, watchlist: watchlist, explainer: explainer, timeout: 45 * time.Second}
}

var signalEmoji = map[domain.TradingSignal]string{
	domain.SignalGreen:  "🟢",
	domain.SignalYellow: "🟡",
	domain.SignalRed:    "🔴",
}

func (c *Commands) deadline() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

func userError(ticker string, err error) string {
	if errors.Is(err, domain.ErrInvalidTicker) {
		return fmt.Sprintf("%q is not a valid ticker. Try /pump GME", ticker)
	}
	return fmt.Sprintf("Error analyzing %s: %v", ticker, err)
}

func (c *Commands) Pump(args []string) string {
	if len(args) == 0 {
		return "Usage: /pump GME"
	}
	ctx, cancel := c.deadline()
	defer cancel()

	a, err := c.analyses.Analyze(ctx, args[0])
	if err != nil {
		return userError(args[0], err)
	}
	return FormatPump(a)
}

func (c *Commands) Sentiment(args []string) string {
	if len(args) == 0 {
		return "Usage: /sentiment GME"
	}
	ctx, cancel := c.deadline()
	defer cancel()

	a, err := c.analyses.Analyze(ctx, args[0])
	if err != nil {
		return userError(args[0], err)
	}
	return FormatSentiment(a)
}

func (c *Commands) Score(payload string) string {
	if strings.TrimSpace(payload) == "" {
		return "Usage: /score some text to score"
	}
	s := c.analyses.ScoreText(payload)
	return fmt.Sprintf("Base: %.3f (%s)\nFinance-adjusted: %.3f (%s)",
		s.Base.Score, s.Base.Label, s.Adjusted.Score, s.Adjusted.Label)
}

func (c *Commands) Explain(args []string) string {
	if len(args) == 0 {
		return "Usage: /explain GME"
	}
	if c.explainer == nil {
		return "Explanations are not configured."
	}
	ctx, cancel := c.deadline()
	defer cancel()

	e, err := c.explainer.ExplainTicker(ctx, args[0])
	if err != nil {
		return userError(args[0], err)
	}
	return fmt.Sprintf("%s %s (%s)\n%s", signalEmoji[e.Signal], e.Ticker, e.Phase, e.Summary)
}

func (c *Commands) Watch(args []string) string {
	ctx, cancel := c.deadline()
	defer cancel()

	if len(args) == 0 {
		tickers, err := c.watchlist.Tickers(ctx)
		if err != nil {
			return fmt.Sprintf("Error loading watchlist: %v", err)
		}
		if len(tickers) == 0 {
			return "Watchlist is empty. Add one with /watch add GME"
		}
		return "Watching: " + strings.Join(tickers, ", ")
	}

	if len(args) < 2 {
		return "Usage: /watch [add|remove] GME"
	}
	switch strings.ToLower(args[0]) {
	case "add":
		t, err := c.watchlist.Add(ctx, args[1])
		if err != nil {
			return userError(args[1], err)
		}
		return "Added " + t
	case "remove", "rm":
		if err := c.watchlist.Remove(ctx, args[1]); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return strings.ToUpper(args[1]) + " is not on the watchlist"
			}
			return userError(args[1], err)
		}
		return "Removed " + strings.ToUpper(args[1])
	default:
		return "Usage: /watch [add|remove] GME"
	}
}

// Mention answers free text that names a ticker with that ticker's pump view.
func (c *Commands) Mention(text string) (string, bool) {
	tickers := advisor.ExtractTickers(text)
	if len(tickers) == 0 {
		return "", false
	}
	return c.Pump(tickers[:1]), true
}

func FormatPump(a *domain.TickerAnalysis) string {
	var sb strings.Builder
	m := a.Pump.Metrics
	fmt.Fprintf(&sb, "%s %s: %s phase, %s signal (%.0f%%)\n",
		signalEmoji[a.Pump.Signal], a.Ticker, a.Pump.Phase, a.Pump.Signal, a.Pump.Confidence*100)
	if a.Price != nil {
		fmt.Fprintf(&sb, "Price: $%.2f\n", a.Price.CurrentPrice)
	}
	fmt.Fprintf(&sb, "Sentiment: %.2f %s (%s)\n", m.SentimentScore, a.Sentiment.OverallLabel, m.SentimentTrend)
	fmt.Fprintf(&sb, "Mentions: %d (%s)\n", m.MentionVolume, m.MentionTrend)
	fmt.Fprintf(&sb, "Momentum: %+.2f  Volume: %.2fx", m.PriceMomentum, m.VolumeRatio)
	return sb.String()
}

// FormatTransition is the alert pushed when a watched ticker changes phase.
func FormatTransition(ticker string, from, to domain.PumpPhase, signal domain.TradingSignal) string {
	return fmt.Sprintf("%s %s moved %s → %s (%s signal)", signalEmoji[signal], ticker, from, to, signal)
}

func FormatSentiment(a *domain.TickerAnalysis) string {
	var sb strings.Builder
	s := a.Sentiment
	fmt.Fprintf(&sb, "%s sentiment: %.3f %s (confidence %.0f%%)\n", a.Ticker, s.OverallScore, s.OverallLabel, s.Confidence*100)
	if len(s.SourcesUsed) == 0 {
		sb.WriteString("No sources had data.")
		return sb.String()
	}
	for _, src := range domain.AllSources() {
		b, ok := s.Breakdown[src]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "  %s: %.3f (conf %.2f)\n", src, b.Score, b.Confidence)
	}
	fmt.Fprintf(&sb, "Mentions: %d", s.TotalMentions)
	return sb.String()
}

// StartTelegramBot registers the commands and starts long polling in the
// background. An empty token disables the bot.
func StartTelegramBot(token string, cmds *Commands) (*tele.Bot, error) {
	log := logger.Get().Named("telegram")
	if token == "" {
		log.Info("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil, nil
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Warnw("telegram handler failed", "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create Telegram bot: %w", err)
	}

	b.Handle("/ping", func(c tele.Context) error { return c.Send("pong") })
	b.Handle("/pump", func(c tele.Context) error { return c.Send(cmds.Pump(c.Args())) })
	b.Handle("/sentiment", func(c tele.Context) error { return c.Send(cmds.Sentiment(c.Args())) })
	b.Handle("/explain", func(c tele.Context) error { return c.Send(cmds.Explain(c.Args())) })
	b.Handle("/watch", func(c tele.Context) error { return c.Send(cmds.Watch(c.Args())) })
	b.Handle("/score", func(c tele.Context) error { return c.Send(cmds.Score(c.Message().Payload)) })
	b.Handle(tele.OnText, func(c tele.Context) error {
		if reply, ok := cmds.Mention(c.Text()); ok {
			return c.Send(reply)
		}
		return nil
	})

	log.Info("Telegram bot started")
	go b.Start()
	return b, nil
}
