package config

import (
	"fmt"
	"strconv"
	"strings"

	"pumpradar/pkg/logger"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	RedisURL    string `envconfig:"REDIS_URL" default:"localhost:6379"`

	TelegramBotToken    string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramAlertChatID int64  `envconfig:"TELEGRAM_ALERT_CHAT_ID"`
	APIKey              string `envconfig:"API_KEY"`

	FinnhubAPIKey      string `envconfig:"FINNHUB_API_KEY"`
	AlphaVantageAPIKey string `envconfig:"ALPHAVANTAGE_API_KEY"`
	RedditSubreddits   string `envconfig:"REDDIT_SUBREDDITS" default:"pennystocks:1.2,wallstreetbets:1.0,Shortsqueeze:1.1,stocks:0.8"`
	RedditPostLimit    int    `envconfig:"REDDIT_POST_LIMIT" default:"40"`
	NewsLimit          int    `envconfig:"NEWS_LIMIT" default:"50"`

	Watchlist            []string `envconfig:"WATCHLIST"`
	WatchlistPollSecs    int      `envconfig:"WATCHLIST_POLL_SECS" default:"900"`
	AnalysisCacheSecs    int      `envconfig:"ANALYSIS_CACHE_SECS" default:"300"`
	AnalysisTimeoutSecs  int      `envconfig:"ANALYSIS_TIMEOUT_SECS" default:"20"`
	HistoryLookbackHours int      `envconfig:"HISTORY_LOOKBACK_HOURS" default:"24"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel  string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	SSHPort                   int      `envconfig:"SSH_PORT" default:"2222"`
	SSHHostKeyPath            string   `envconfig:"SSH_HOST_KEY_PATH" default:".ssh/pumpradar_ed25519"`
	SSHAuthorizedFingerprints []string `envconfig:"SSH_AUTHORIZED_FINGERPRINTS"`

	MCPTransport string `envconfig:"MCP_TRANSPORT" default:"stdio"`
	MCPHTTPAddr  string `envconfig:"MCP_HTTP_ADDR" default:"127.0.0.1:8090"`

	TracingEnabled   bool    `envconfig:"TRACING_ENABLED" default:"true"`
	OTLPEndpoint     string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	TraceSampleRatio float64 `envconfig:"OTEL_TRACES_SAMPLER_ARG" default:"1"`

	// Subreddits is RedditSubreddits parsed into name/weight pairs.
	Subreddits []Subreddit `ignored:"true"`
}

type Subreddit struct {
	Name   string
	Weight float64
}

// Load reads the environment. Malformed values are an error; missing
// credentials only disable the feature that needs them.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	subs, err := ParseSubreddits(cfg.RedditSubreddits)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Subreddits = subs
	cfg.Watchlist = normalizeList(cfg.Watchlist, strings.ToUpper)
	cfg.SSHAuthorizedFingerprints = normalizeList(cfg.SSHAuthorizedFingerprints, nil)

	cfg.applyBounds()
	cfg.warnMissing()
	return &cfg, nil
}

func (c *Config) applyBounds() {
	log := logger.Get()
	clampPositive := func(name string, v *int, def int) {
		if *v <= 0 {
			log.Warnw("non-positive config value, using default", "key", name, "value", *v, "default", def)
			*v = def
		}
	}
	clampPositive("REDDIT_POST_LIMIT", &c.RedditPostLimit, 40)
	clampPositive("NEWS_LIMIT", &c.NewsLimit, 50)
	clampPositive("WATCHLIST_POLL_SECS", &c.WatchlistPollSecs, 900)
	clampPositive("ANALYSIS_CACHE_SECS", &c.AnalysisCacheSecs, 300)
	clampPositive("ANALYSIS_TIMEOUT_SECS", &c.AnalysisTimeoutSecs, 20)
	clampPositive("HISTORY_LOOKBACK_HOURS", &c.HistoryLookbackHours, 24)
	clampPositive("SSH_PORT", &c.SSHPort, 2222)

	if c.RedditPostLimit > 100 {
		c.RedditPostLimit = 100
	}

	c.MCPTransport = strings.ToLower(strings.TrimSpace(c.MCPTransport))
	if c.MCPTransport != "stdio" && c.MCPTransport != "http" {
		log.Warnw("unsupported MCP_TRANSPORT, defaulting to stdio", "value", c.MCPTransport)
		c.MCPTransport = "stdio"
	}
	c.OpenAIModel = strings.TrimSpace(c.OpenAIModel)
	if c.OpenAIModel == "" {
		c.OpenAIModel = "gpt-4o-mini"
	}
}

func (c *Config) warnMissing() {
	log := logger.Get()
	if c.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, analysis history and watchlist persistence disabled")
	}
	if c.TelegramBotToken == "" {
		log.Warn("TELEGRAM_BOT_TOKEN not set, telegram bot disabled")
	}
	if c.FinnhubAPIKey == "" {
		log.Warn("FINNHUB_API_KEY not set, social sentiment feed disabled")
	}
	if c.AlphaVantageAPIKey == "" {
		log.Warn("ALPHAVANTAGE_API_KEY not set, news falls back to headline scoring")
	}
	if c.OpenAIAPIKey == "" {
		log.Warn("OPENAI_API_KEY not set, explanations use the built-in summary")
	}
	if c.APIKey == "" {
		log.Warn("API_KEY not set, /api routes are unauthenticated")
	}
}

// ParseSubreddits parses "name:weight,name:weight". A missing weight means 1.
func ParseSubreddits(raw string) ([]Subreddit, error) {
	var out []Subreddit
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, weightStr, hasWeight := strings.Cut(part, ":")
		name = strings.TrimPrefix(strings.TrimSpace(name), "r/")
		if name == "" {
			return nil, fmt.Errorf("subreddit entry %q has no name", part)
		}
		weight := 1.0
		if hasWeight {
			w, err := strconv.ParseFloat(strings.TrimSpace(weightStr), 64)
			if err != nil || w <= 0 {
				return nil, fmt.Errorf("subreddit %q has invalid weight %q", name, weightStr)
			}
			weight = w
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Subreddit{Name: name, Weight: weight})
	}
	return out, nil
}

func normalizeList(in []string, transform func(string) string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if transform != nil {
			v = transform(v)
		}
		out = append(out, v)
	}
	return out
}
