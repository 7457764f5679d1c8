package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gearrange/gearrange/internal/config"
	"github.com/gearrange/gearrange/internal/db"
	"github.com/gearrange/gearrange/internal/log"
	"github.com/gearrange/gearrange/internal/migrations"
	"github.com/gearrange/gearrange/internal/presets"
	"github.com/gearrange/gearrange/internal/seed"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		envFile string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web calculator",
		Long: `Start the web calculator and JSON API.

Configuration is read from a .env file (if present) and then the environment:
  APP_ENV                Environment name; "dev" enables /debug profiling (default: dev)
  HOST                   Host to bind to (default: 0.0.0.0)
  PORT                   Port to listen on (default: 8080)
  DB_PATH                Preset catalog SQLite database (default: ./gearrange.db)
  LOG_LEVEL              DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT             text or json (default: text)
  PRESETS_FILE           Optional YAML file with extra cassette and wheel presets
  CORS_ALLOWED_ORIGINS   Comma-separated origins for /api/v1 (default: *)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, envFile, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on, overrides PORT")

	return cmd
}

func runServe(ctx context.Context, envFile string, port int) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port > 0 {
		cfg.Port = port
	}

	logger := log.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)
	logger.LogAttrs(ctx, slog.LevelInfo, "starting gearrange", append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)...)

	database, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	srv, err := newServer(presets.NewStore(database), logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.routes(cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}

// openCatalog opens the preset database, migrates it and seeds the built-in
// and file presets.
func openCatalog(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := migrations.Up(ctx, database); err != nil {
		database.Close()
		return nil, fmt.Errorf("run database migrations: %w", err)
	}
	schemaVersion, err := migrations.Version(ctx, database)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("database ready", "path", cfg.DBPath, "schema_version", schemaVersion)

	extra, err := presets.LoadFile(cfg.PresetsFile)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("load presets file: %w", err)
	}
	stats, err := seed.Run(ctx, database, seed.Config{Extra: extra})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("seed presets: %w", err)
	}
	logger.Info("preset catalog ready", "inserts", stats.Inserts, "updates", stats.Updates)

	return database, nil
}
