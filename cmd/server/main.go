package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/entities/internal/config"
	"github.com/JonMunkholm/entities/internal/core"
	"github.com/JonMunkholm/entities/internal/logging"
	"github.com/JonMunkholm/entities/internal/persist"
	"github.com/JonMunkholm/entities/internal/seed"
	"github.com/JonMunkholm/entities/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		slog.Error("failed to create data directory", "dir", cfg.Storage.DataDir, "error", err)
		os.Exit(1)
	}

	handlers := []persist.Handler{
		persist.NewCSVHandler(cfg.Storage.CSVPath(), persist.WithTaggedRows(cfg.Storage.TaggedCSV)),
		persist.NewXMLHandler(cfg.Storage.XMLPath(), persist.WithIndent(cfg.Storage.Indent())),
	}

	ctx := context.Background()
	if cfg.Database.Enabled() {
		pool, err := connectDatabase(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pg := persist.NewPostgresHandler(pool, cfg.Database.Table)
		if err := pg.EnsureSchema(ctx); err != nil {
			slog.Error("failed to create entities table", "table", cfg.Database.Table, "error", err)
			os.Exit(1)
		}
		handlers = append(handlers, pg)
	}

	service := core.NewService(handlers...)
	slog.Info("handlers registered", "formats", service.Formats())

	records, err := seed.Load(cfg.Seed.File)
	if err != nil {
		slog.Error("failed to load seed records", "file", cfg.Seed.File, "error", err)
		os.Exit(1)
	}
	slog.Info("seed records loaded", "count", len(records))

	server := web.NewServer(service, cfg, records)

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
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// connectDatabase opens and pings a pool sized from cfg.
func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
