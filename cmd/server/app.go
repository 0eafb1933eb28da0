package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/hanzi-strokes/internal/config"
	"github.com/phrazzld/hanzi-strokes/internal/domain/srs"
	"github.com/phrazzld/hanzi-strokes/internal/domain/stroke"
	"github.com/phrazzld/hanzi-strokes/internal/events"
	"github.com/phrazzld/hanzi-strokes/internal/platform/memstore"
	"github.com/phrazzld/hanzi-strokes/internal/platform/postgres"
	"github.com/phrazzld/hanzi-strokes/internal/platform/strokedata"
	"github.com/phrazzld/hanzi-strokes/internal/redact"
	"github.com/phrazzld/hanzi-strokes/internal/service/practice"
	"github.com/phrazzld/hanzi-strokes/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB // nil when running on the in-memory store

	// Stores (using interfaces for proper abstraction)
	cardStateStore store.CardStateStore
	references     *strokedata.Source

	// Service interfaces
	srsService      srs.Service
	practiceService practice.Service

	// Event system
	eventEmitter *events.InMemoryEventEmitter
}

// newApplication creates a new application instance with all dependencies initialized.
// With a database URL configured the card states live in PostgreSQL and pending
// migrations are applied first; otherwise they are kept in memory.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	// Initialize card state store
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %s", redact.Error(err))
		}
		app.db = db

		if err := postgres.Migrate(ctx, db, logger); err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		app.cardStateStore = postgres.NewPostgresCardStateStore(db, logger)
		logger.Info("Database connection established",
			slog.String("database_url", postgres.MaskDatabaseURL(cfg.Database.URL)))
	} else {
		app.cardStateStore = memstore.New(logger)
		logger.Warn("no database configured, card states are kept in memory")
	}

	// Load reference data
	refs, err := strokedata.Load(cfg.Practice.StrokeDataPath, cfg.Practice.WordListPath, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}
	app.references = refs

	// Initialize event emitter
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLogHandler(logger, slog.LevelInfo))

	// Initialize SRS service
	app.srsService, err = srs.NewServiceWithParams(srs.NewParams(cfg.SRS.ParamsConfig()))
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create SRS service: %w", err)
	}

	profile, err := stroke.ParseProfile(cfg.Practice.DefaultProfile)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("invalid practice.default_profile: %w", err)
	}

	// Initialize practice service
	app.practiceService, err = practice.NewService(
		app.cardStateStore,
		app.references,
		app.srsService,
		app.eventEmitter,
		practice.Options{
			DefaultProfile:  profile,
			SimplifyEpsilon: cfg.Practice.SimplifyEpsilon,
			DueLimit:        cfg.Practice.DueLimit,
		},
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create practice service: %w", err)
	}

	return app, nil
}

// runMigrations applies pending migrations to the configured database.
func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Database.URL == "" {
		return errors.New("database.url must be set to run migrations")
	}

	db, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %s", redact.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", redact.Attr(err))
		}
	}()

	return postgres.Migrate(ctx, db, logger)
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", redact.Attr(err))
		}
		app.db = nil
	}

	app.logger.Info("Application shutdown completed")
}
