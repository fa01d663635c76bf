// Package app assembles the analysis stack from configuration so every
// binary serves the same pipeline.
package app

import (
	"time"

	"pumpradar/internal/advisor"
	"pumpradar/internal/cache"
	"pumpradar/internal/config"
	"pumpradar/internal/normalize"
	"pumpradar/internal/provider"
	"pumpradar/internal/repository"
	"pumpradar/internal/service"
	"pumpradar/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

type Components struct {
	Engine    service.Engine
	Providers service.Providers
	Analyses  *service.AnalysisService
	Watchlist *service.WatchlistService
	Explainer *advisor.Explainer
}

var (
	newEngineFunc       = service.NewEngine
	newOpenAIClientFunc = advisor.NewOpenAIClient
)

// Build wires providers, stores and services. A nil pool or redis client
// disables persistence or caching respectively.
func Build(cfg *config.Config, tracer trace.Tracer, pool *pgxpool.Pool, rdb *redis.Client) (*Components, error) {
	log := logger.Get().Named("app")

	engine, err := newEngineFunc(normalize.DefaultConfig())
	if err != nil {
		return nil, err
	}

	providers := BuildProviders(cfg, tracer, engine)

	var snapshots service.SnapshotStore
	var watchStore service.WatchlistStore
	if pool != nil {
		snapshots = repository.NewSnapshotRepository(pool, tracer)
		watchStore = repository.NewWatchlistRepository(pool, tracer)
	} else {
		log.Warn("no database pool; history and watchlist edits are disabled")
	}

	var kv cache.KV
	if rdb != nil {
		kv = rdb
	}

	analyses := service.NewAnalysisService(tracer, engine, providers, snapshots, kv, service.Options{
		CacheTTL:     time.Duration(cfg.AnalysisCacheSecs) * time.Second,
		Timeout:      time.Duration(cfg.AnalysisTimeoutSecs) * time.Second,
		Lookback:     time.Duration(cfg.HistoryLookbackHours) * time.Hour,
		NewsLimit:    cfg.NewsLimit,
		MentionLimit: cfg.RedditPostLimit,
	})
	watchlist := service.NewWatchlistService(tracer, watchStore, cfg.Watchlist)

	var llm advisor.LLMClient
	if cfg.OpenAIAPIKey != "" {
		llm = newOpenAIClientFunc(cfg.OpenAIAPIKey)
		log.Infow("LLM explanations enabled", "model", cfg.OpenAIModel)
	}
	explainer := advisor.NewExplainer(tracer, llm, analyses, cfg.OpenAIModel)

	return &Components{
		Engine:    engine,
		Providers: providers,
		Analyses:  analyses,
		Watchlist: watchlist,
		Explainer: explainer,
	}, nil
}

// BuildProviders picks the upstream sources. Keyed providers are left nil
// when their key is absent; headline scoring stands in for keyed news.
func BuildProviders(cfg *config.Config, tracer trace.Tracer, engine service.Engine) service.Providers {
	subs := make([]provider.Subreddit, 0, len(cfg.Subreddits))
	for _, s := range cfg.Subreddits {
		subs = append(subs, provider.Subreddit{Name: s.Name, Weight: s.Weight})
	}

	p := service.Providers{
		Price:        provider.NewYahooPriceProvider(tracer),
		NewsFallback: provider.NewHeadlineNewsProvider(tracer, engine.Scorer),
		Mentions:     provider.NewRedditProvider(tracer, subs),
	}
	if finnhub := provider.NewFinnhubSocialProvider(tracer, cfg.FinnhubAPIKey); finnhub.Enabled() {
		p.SocialFeed = finnhub
	}
	if av := provider.NewAlphaVantageNewsProvider(tracer, cfg.AlphaVantageAPIKey); av.Enabled() {
		p.News = av
	}
	return p
}
