// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/kennithz884/snapmind/internal/api"
	"github.com/kennithz884/snapmind/internal/autoindex"
	"github.com/kennithz884/snapmind/internal/catalog"
	"github.com/kennithz884/snapmind/internal/gallery"
	"github.com/kennithz884/snapmind/internal/importer"
	"github.com/kennithz884/snapmind/internal/library"
	"github.com/kennithz884/snapmind/internal/oracle"
	"github.com/kennithz884/snapmind/internal/sse"
)

// maxExtractions bounds the number of oracle calls in flight per batch.
const maxExtractions = 4

// Run starts the application with the given options.
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
		slog.String("library_path", cfg.Library.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("oracle_provider", cfg.Oracle.Provider),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure library and inbox directories exist.
	if err := os.MkdirAll(cfg.Library.Path, 0o755); err != nil {
		return fmt.Errorf("create library dir: %w", err)
	}
	inbox := filepath.Clean(cfg.Library.Inbox)
	if cfg.Library.AutoIndex {
		if err := os.MkdirAll(inbox, 0o755); err != nil {
			return fmt.Errorf("create inbox dir: %w", err)
		}
	}

	// Initialize image library.
	files, err := library.NewFS(cfg.Library.Path)
	if err != nil {
		return fmt.Errorf("init library: %w", err)
	}

	// Initialize SQLite catalog.
	db, err := catalog.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	defer db.Close()

	// Oracle client (overridable for tests).
	orc := app.oracle
	if orc == nil {
		orc, err = oracle.New(cfg.Oracle.Provider, oracle.Options{
			APIKey:  cfg.Oracle.APIKey,
			Model:   cfg.Oracle.Model,
			Timeout: cfg.Oracle.Timeout,
		})
		if err != nil {
			return fmt.Errorf("init oracle: %w", err)
		}
	}
	if closer, ok := orc.(io.Closer); ok {
		defer closer.Close()
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Build gallery service and router.
	imp := importer.New(db, files, orc, logger, maxExtractions)
	svc := gallery.NewService(db, orc, imp, logger)
	apiRouter := api.NewRouter(svc, files, broker, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

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

	g, gCtx := errgroup.WithContext(ctx)

	// Inbox watcher, when auto-indexing is enabled.
	if cfg.Library.AutoIndex {
		g.Go(func() error {
			if err := autoindex.Watch(gCtx, svc, inbox, logger, func(id string) {
				broker.PublishImported(id)
			}); err != nil {
				logger.Error("autoindex watcher failed", slog.String("error", err.Error()))
			}
			return nil
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

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
