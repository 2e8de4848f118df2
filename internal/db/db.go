// Package database owns the Postgres pool and the embedded schema migrations.
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	uuid "github.com/vgarvardt/pgx-google-uuid/v5"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/pkg/config"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const defaultRetries = 5

// Pinger is the part of the pool WaitForDB needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WaitForDB pings the pool with exponential backoff until it answers or the
// retries run out.
func WaitForDB(ctx context.Context, pool Pinger, logger *zap.Logger) bool {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 200 * time.Millisecond
	expBackoff.MaxElapsedTime = 30 * time.Second

	attempt := 0
	operation := func() error {
		attempt++
		err := pool.Ping(ctx)
		if err != nil {
			logger.Warn("Database ping failed, retrying...",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", defaultRetries+1),
				zap.Error(err))
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(expBackoff, defaultRetries), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		logger.Error("Database connection failed after multiple retries", zap.Error(err))
		return false
	}

	logger.Info("Database connection successful")
	return true
}

// RunMigrations applies every embedded up migration through the pool.
func RunMigrations(pool *pgxpool.Pool, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		logger.Error("Failed to read embedded migrations", zap.Error(err))
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return fmt.Errorf("could not create pgx driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("migration up failed: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("Database migrations completed successfully",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}

// Init initializes the pgxpool connection pool.
func Init(pg config.PostgresConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	logger.Info("Initializing database connection pool...")
	cfg, err := pgxpool.ParseConfig(pg.DSN())
	if err != nil {
		logger.Error("Failed to parse database config", zap.Error(err))
		return nil, fmt.Errorf("failed parsing db config: %w", err)
	}

	// Register UUID type after connecting
	cfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		uuid.Register(conn.TypeMap())
		logger.Debug("Registered UUID type for database connection")
		return nil
	}
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to create database connection pool", zap.Error(err))
		return nil, fmt.Errorf("failed creating db pool: %w", err)
	}

	logger.Info("Database connection pool initialized",
		zap.String("host", pg.Host),
		zap.String("database", pg.DB))
	return pool, nil
}
