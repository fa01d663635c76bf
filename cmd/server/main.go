package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pumpradar/internal/app"
	"pumpradar/internal/bot"
	"pumpradar/internal/cache"
	"pumpradar/internal/config"
	"pumpradar/internal/db"
	"pumpradar/internal/handler"
	"pumpradar/internal/job"
	"pumpradar/internal/metrics"
	"pumpradar/pkg/logger"
	"pumpradar/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	tele "gopkg.in/telebot.v3"

	_ "pumpradar/docs"
)

const version = "1.0.0"

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initMetricsFunc        = metrics.Init
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	buildAppFunc           = app.Build
	startJobFunc           = func(j *job.WatchlistJob, ctx context.Context) { go j.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.New
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           pumpradar API
// @version         1.0
// @description     Multi-source ticker sentiment aggregation and pump-phase classification.

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	if err := run(); err != nil {
		logger.Get().Fatalw("server failed", "error", err)
	}
}

func run() error {
	_ = loadEnvFunc()
	cfg, err := loadConfigFunc()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.AppEnv); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get().Named("server")

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	initMetricsFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := initPostgresFunc(ctx, cfg.DatabaseURL); err != nil {
		log.Warnw("postgres unavailable, running without history", "error", err)
	}
	defer db.Close()
	defer cache.Close()
	if err := initRedisFunc(ctx, cfg.RedisURL); err != nil {
		log.Warnw("redis unavailable, running without cache", "error", err)
	}

	tp, tracer, err := initTracerFunc(ctx, tracing.Config{
		Enabled:     cfg.TracingEnabled,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRatio: cfg.TraceSampleRatio,
		ServiceName: "pumpradar",
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warnw("tracer shutdown", "error", err)
		}
	}()

	components, err := buildAppFunc(cfg, tracer, db.Pool, cache.Client)
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}

	cmds := bot.NewCommands(components.Analyses, components.Watchlist, components.Explainer)
	tgBot, err := startTelegramBotFunc(cfg.TelegramBotToken, cmds)
	if err != nil {
		log.Warnw("telegram bot disabled", "error", err)
	}

	watchJob := job.NewWatchlistJob(tracer, components.Analyses, components.Watchlist, cfg.WatchlistPollSecs)
	if tgBot != nil && cfg.TelegramAlertChatID != 0 {
		chat := tele.ChatID(cfg.TelegramAlertChatID)
		watchJob.OnTransition(func(tr job.Transition) {
			msg := bot.FormatTransition(tr.Ticker, tr.From, tr.To, tr.Signal)
			if _, err := tgBot.Send(chat, msg); err != nil {
				log.Warnw("transition alert failed", "ticker", tr.Ticker, "error", err)
			}
		})
	}
	startJobFunc(watchJob, ctx)

	h := handler.New(tracer, components.Analyses, components.Watchlist, components.Explainer, cfg.APIKey)
	if db.Pool != nil {
		pool := db.Pool
		h.AddHealthCheck("postgres", func(ctx context.Context) error { return pool.Ping(ctx) })
	}
	if cache.Client != nil {
		h.AddHealthCheck("redis", cache.Ping)
	}

	r := newRouterFunc()
	r.Use(gin.Recovery(), otelgin.Middleware("pumpradar"), handler.RequestLogger())
	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("HTTP server listening", "addr", srv.Addr)
		if err := startHTTPServerFunc(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info("shutting down server")

	cancel()
	if tgBot != nil {
		tgBot.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}
