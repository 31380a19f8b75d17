package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/okian/wordboard/internal/adapters/ai"
	"github.com/okian/wordboard/internal/adapters/http/api"
	"github.com/okian/wordboard/internal/adapters/http/swagger"
	"github.com/okian/wordboard/internal/adapters/repository"
	service "github.com/okian/wordboard/internal/app"
	"github.com/okian/wordboard/internal/config"
	"github.com/okian/wordboard/pkg/logger"
	"github.com/okian/wordboard/pkg/metrics"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// HTTP server timeout constants. Writes allow for a full model call.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	writeTimeoutSlack         = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

// loadConfig reads configuration and applies the log level.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// startService opens storage and the model client and starts the service.
func startService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, error) {
	db, err := repository.Open(ctx, cfg.DBDriver, cfg.DBDSN, cfg.DBMaxOpenConns)
	if err != nil {
		return nil, err
	}
	return startWithDB(ctx, cfg, db, log)
}

func startWithDB(ctx context.Context, cfg *config.Config, db *sqlx.DB, log logger.Logger) (*service.Service, error) {
	if cfg.GeminiAPIKey == "" {
		log.Warn(ctx, "no Gemini API key configured; /ai/get_answers will fail")
	}
	client, err := ai.New(ctx, cfg.GeminiAPIKey,
		ai.WithModel(cfg.GeminiModel),
		ai.WithDefaultInstruction(cfg.DefaultInstruction),
		ai.WithTimeout(cfg.AITimeout()),
		ai.WithLogger(log.Named("ai")),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	svc := service.New(
		service.WithDB(db),
		service.WithAI(client),
		service.WithLogger(log.Named("service")),
	)
	if err := svc.Start(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("start service: %w", err)
	}
	return svc, nil
}

// newHandler mounts the docs and business routes on one router.
func newHandler(ctx context.Context, svc *service.Service, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	api.NewServer(svc, api.WithLogger(log.Named("http"))).Register(ctx, r)
	swagger.Register(ctx, r)
	return r
}

func serve(ctx context.Context) error {
	log := logger.Get()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	svc, err := startService(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.AITimeout() + writeTimeoutSlack,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		runMetricsUpdater(gctx, svc, log)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	log.Info(context.Background(), "server stopped")
	return err
}

// runMetricsUpdater refreshes count gauges and runtime stats until ctx ends.
func runMetricsUpdater(ctx context.Context, svc *service.Service, log logger.Logger) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
			if err := svc.RefreshMetrics(ctx); err != nil && ctx.Err() == nil {
				log.Warn(ctx, "refresh metrics", logger.Error(err))
			}
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var lastPauseMs float64
	if m.NumGC > 0 {
		lastPauseMs = float64(m.PauseNs[(m.NumGC+255)%256]) / nanosecondsPerMillisecond
	}
	metrics.UpdateSystem(m.HeapAlloc, runtime.NumGoroutine(), lastPauseMs)
}
