package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"slices"
	"syscall"
	"time"

	"pumpradar/internal/app"
	"pumpradar/internal/cache"
	"pumpradar/internal/config"
	"pumpradar/internal/db"
	"pumpradar/internal/tui"
	"pumpradar/pkg/logger"
	"pumpradar/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	gossh "golang.org/x/crypto/ssh"
)

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	initPostgresFunc  = db.InitPostgres
	initRedisFunc     = cache.InitRedis
	initTracerFunc    = tracing.InitTracer
	buildAppFunc      = app.Build
	newWishServerFunc = wish.NewServer
	setupSignalNotify = ossignal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalw("ssh dashboard failed", "error", err)
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
	log := logger.Get().Named("ssh")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
		ServiceName: "pumpradar-ssh",
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

	if len(cfg.SSHAuthorizedFingerprints) == 0 {
		log.Warn("SSH_AUTHORIZED_FINGERPRINTS is empty; every key will be rejected")
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)
	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(authorizer(cfg.SSHAuthorizedFingerprints)),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				model := tui.NewAppModel(tui.Services{
					Analyses:  components.Analyses,
					Watchlist: components.Watchlist,
					Explainer: components.Explainer,
					Username:  s.User(),
				})
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)
				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("create ssh server: %w", err)
	}

	if srv != nil {
		go func() {
			log.Infow("SSH dashboard listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Infow("SSH server stopped", "error", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info("shutting down SSH server")
	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnw("SSH server shutdown", "error", err)
		}
	}
	return nil
}

// authorizer accepts keys whose SHA256 fingerprint is on the allowlist.
func authorizer(allowed []string) func(ssh.Context, ssh.PublicKey) bool {
	return func(ctx ssh.Context, key ssh.PublicKey) bool {
		fingerprint, ok := allowedKey(allowed, key)
		logger.Get().Named("ssh").Infow("SSH auth", "user", ctx.User(), "fingerprint", fingerprint, "accepted", ok)
		return ok
	}
}

func allowedKey(allowed []string, key gossh.PublicKey) (string, bool) {
	fingerprint := gossh.FingerprintSHA256(key)
	return fingerprint, slices.Contains(allowed, fingerprint)
}
