package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kennithz884/snapmind/internal/catalog"
	"github.com/kennithz884/snapmind/internal/gallery"
	"github.com/kennithz884/snapmind/internal/importer"
	"github.com/kennithz884/snapmind/internal/library"
	"github.com/kennithz884/snapmind/internal/mcpserver"
	"github.com/kennithz884/snapmind/internal/oracle"
)

// RunMCP starts the MCP stdio server over the same catalog and library as
// the HTTP server. Logs go to stderr so stdout stays clean for the
// protocol stream.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	files, err := library.NewFS(cfg.Library.Path)
	if err != nil {
		return fmt.Errorf("init library: %w", err)
	}

	db, err := catalog.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	defer db.Close()

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

	imp := importer.New(db, files, orc, logger, maxExtractions)
	svc := gallery.NewService(db, orc, imp, logger)

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc).ServeStdio()
}
