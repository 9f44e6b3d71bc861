package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/arclabs/componentdb/internal/catalog"
	"github.com/arclabs/componentdb/internal/config"
	"github.com/arclabs/componentdb/internal/logging"
	"github.com/arclabs/componentdb/internal/sheet"
	"github.com/arclabs/componentdb/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"cache_ttl", cfg.Source.CacheTTL,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	fetcher := sheet.NewFetcher(cfg.Source.WorkbookURL, &http.Client{
		Timeout: cfg.Source.FetchTimeout,
	})
	fetcher.MaxBytes = cfg.Source.MaxBytes

	cache := catalog.NewSnapshotCache(fetcher, cfg.Source.CacheTTL)

	// Warm the cache before accepting traffic. A schema mismatch is a
	// misconfigured workbook and won't fix itself, so bail out; a transient
	// fetch failure just means the first request pays for the load instead.
	ctx := context.Background()
	snap, err := cache.Get(ctx)
	switch {
	case err == nil:
		slog.Info("catalog loaded",
			"snapshot_id", snap.ID,
			"components", len(snap.Records),
		)
	case isSchemaError(err):
		slog.Error("workbook schema mismatch", "error", err)
		os.Exit(1)
	default:
		slog.Warn("initial catalog load failed, will retry on first request", "error", err)
	}

	server := web.NewServer(cache, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

func isSchemaError(err error) bool {
	var se *catalog.SchemaError
	return errors.As(err, &se)
}
