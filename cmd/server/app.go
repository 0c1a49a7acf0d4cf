package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tasktrack/tasktrack-api/internal/config"
	"github.com/tasktrack/tasktrack-api/internal/platform/mongodb"
	"github.com/tasktrack/tasktrack-api/internal/platform/postgres"
	"github.com/tasktrack/tasktrack-api/internal/service/auth"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Exactly one of db / mongoClient is non-nil, matching the
	// configured backend.
	db          *sql.DB
	mongoClient *mongo.Client

	taskStore store.TaskStore
	verifier  auth.TokenVerifier
}

// newApplication creates an application instance with all dependencies
// initialized. The storage backend is chosen once here, from
// configuration; nothing downstream branches on it again.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.verifier, err = auth.NewTokenVerifier(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	switch cfg.Database.Backend {
	case config.BackendPostgres:
		app.db, err = setupPostgres(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		app.taskStore = postgres.NewPostgresTaskStore(
			app.db,
			logger.With(slog.String("component", "postgres_task_store")),
		)

	case config.BackendMongoDB:
		var db *mongo.Database
		app.mongoClient, db, err = setupMongo(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		mongoStore := mongodb.NewMongoTaskStore(
			db,
			logger.With(slog.String("component", "mongo_task_store")),
		)
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure mongodb indexes: %w", err)
		}
		app.taskStore = mongoStore

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Database.Backend)
	}

	logger.Info("Application initialized successfully",
		"backend", cfg.Database.Backend)
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
	if app.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		if err := app.mongoClient.Disconnect(ctx); err != nil {
			app.logger.Error("Error disconnecting mongodb client", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
