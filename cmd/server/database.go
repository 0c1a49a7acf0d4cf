package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tasktrack/tasktrack-api/internal/config"
	"github.com/tasktrack/tasktrack-api/internal/platform/postgres"
)

const (
	connectTimeout    = 5 * time.Second
	disconnectTimeout = 5 * time.Second
)

// setupPostgres establishes a connection to PostgreSQL and configures the
// connection pool. Returns the database handle if the server is reachable.
func setupPostgres(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established", "backend", config.BackendPostgres)
	return db, nil
}

// setupMongo connects to MongoDB and verifies the server is reachable.
// Returns both the client (for disconnect on shutdown) and the configured
// database handle.
func setupMongo(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(cfg.Database.URL).
		SetConnectTimeout(connectTimeout))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("Database connection established", "backend", config.BackendMongoDB)
	return client, client.Database(cfg.Database.MongoDatabase), nil
}

// runMigrations applies pending goose migrations. Only meaningful for the
// relational backend; the document backend has no schema to migrate.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	if cfg.Database.Backend != config.BackendPostgres {
		return fmt.Errorf("migrations only apply to the %s backend, configured backend is %s",
			config.BackendPostgres, cfg.Database.Backend)
	}

	db, err := setupPostgres(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	return postgres.MigrateUp(db)
}
