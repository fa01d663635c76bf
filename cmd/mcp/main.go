package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"pumpradar/internal/app"
	"pumpradar/internal/cache"
	"pumpradar/internal/config"
	"pumpradar/internal/db"
	"pumpradar/internal/mcpserver"
	"pumpradar/pkg/logger"
	"pumpradar/pkg/tracing"

	"github.com/joho/godotenv"
)

const version = "1.0.0"

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	buildAppFunc     = app.Build
	runStdioFunc     = func(ctx context.Context, s *mcpserver.Server) error { return s.RunStdio(ctx) }
	listenFunc       = func(srv *http.Server) error { return srv.ListenAndServe() }
	notifyContext    = ossignal.NotifyContext
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mcp server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = loadEnvFunc()
	cfg, err := loadConfigFunc()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// zap writes to stderr, which leaves stdout to the stdio transport.
	if err := logger.Init(cfg.LogLevel, cfg.AppEnv); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get().Named("mcp")

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := initPostgresFunc(ctx, cfg.DatabaseURL); err != nil {
		log.Warnw("postgres unavailable", "error", err)
	}
	defer db.Close()
	defer cache.Close()
	if err := initRedisFunc(ctx, cfg.RedisURL); err != nil {
		log.Warnw("redis unavailable", "error", err)
	}

	tp, tracer, err := initTracerFunc(ctx, tracing.Config{
		Enabled:     cfg.TracingEnabled,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRatio: cfg.TraceSampleRatio,
		ServiceName: "pumpradar-mcp",
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	components, err := buildAppFunc(cfg, tracer, db.Pool, cache.Client)
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}
	server := mcpserver.New(tracer, version, components.Analyses, components.Watchlist, components.Explainer)

	if cfg.MCPTransport != "http" {
		log.Info("serving MCP over stdio")
		return runStdioFunc(ctx, server)
	}

	srv := &http.Server{
		Addr:              cfg.MCPHTTPAddr,
		Handler:           server.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infow("serving MCP over streamable HTTP", "addr", cfg.MCPHTTPAddr)
		errCh <- listenFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mcp http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
