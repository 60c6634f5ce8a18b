// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/vitalis/internal/api"
	"github.com/starford/vitalis/internal/history"
	"github.com/starford/vitalis/internal/runner"
	"github.com/starford/vitalis/internal/scenario"
	"github.com/starford/vitalis/internal/sse"
	"github.com/starford/vitalis/internal/watch"
)

// Run starts the evaluation server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("scenarios_path", cfg.Scenarios.Path),
		slog.String("history_path", cfg.History.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure scenario and report directories exist.
	if err := os.MkdirAll(cfg.Scenarios.Path, 0o755); err != nil {
		return fmt.Errorf("create scenarios dir: %w", err)
	}
	if cfg.Report.Dir != "" {
		if err := os.MkdirAll(cfg.Report.Dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}

	// Run-history database.
	db, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("init history: %w", err)
	}
	defer db.Close()

	// Scenario fixture loader.
	loader, err := scenario.NewLoader(cfg.Scenarios.Path)
	if err != nil {
		return fmt.Errorf("init loader: %w", err)
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Evaluation runner.
	runnerOpts := []runner.Option{
		runner.WithHistory(db),
		runner.WithPublisher(broker),
		runner.WithSynonyms(cfg.Synonyms),
		runner.WithLogger(logger),
	}
	if cfg.Report.Dir != "" {
		runnerOpts = append(runnerOpts, runner.WithReportDir(cfg.Report.Dir))
	}
	eval, err := runner.New(loader, cfg.Rubric, runnerOpts...)
	if err != nil {
		return fmt.Errorf("init runner: %w", err)
	}

	// Initial evaluation pass. An empty scenario directory is not fatal in
	// serve mode; the watcher will pick up fixtures as they appear.
	if _, runErr := eval.Run(ctx); runErr != nil {
		logger.Warn("initial evaluation failed", slog.String("error", runErr.Error()))
	}

	// Build API service and router.
	svc, err := api.NewService(cfg.Rubric, db, broker)
	if err != nil {
		return fmt.Errorf("init api: %w", err)
	}
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start fixture watcher that re-runs evaluation on changes.
	if cfg.App.Watch.Enabled {
		debounce := time.Duration(cfg.App.Watch.DebounceMs) * time.Millisecond
		g.Go(func() error {
			return watch.Watch(gCtx, cfg.Scenarios.Path, debounce, logger, func() {
				if _, runErr := eval.Run(gCtx); runErr != nil {
					logger.Warn("re-evaluation failed", slog.String("error", runErr.Error()))
				}
			})
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		broker.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
