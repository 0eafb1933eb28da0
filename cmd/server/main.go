// Package main implements the entry point for the hanzi strokes server,
// which judges drawn Chinese character strokes and schedules character and
// word reviews.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/hanzi-strokes/internal/config"
	"github.com/phrazzld/hanzi-strokes/internal/platform/logger"
)

// main is the entry point for the hanzi-strokes server.
// It loads configuration, sets up logging, wires the application and serves
// HTTP until SIGINT or SIGTERM.
func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default: ./config.yaml if present)")
	migrateOnly := flag.Bool("migrate", false, "apply database migrations and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *migrateOnly); err != nil {
		log.Printf("hanzi-strokes: %v", err)
		stop()
		os.Exit(1)
	}
}

// run loads configuration and starts the server, or only migrates the
// database when migrateOnly is set.
func run(ctx context.Context, configPath string, migrateOnly bool) error {
	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("database_configured", cfg.Database.URL != ""))

	if migrateOnly {
		return runMigrations(ctx, cfg, appLogger)
	}

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.startHTTPServer(ctx, app.setupRouter())
}

// loadAppConfig loads the application configuration from environment
// variables and the optional config file.
func loadAppConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
