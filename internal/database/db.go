// Package database provides the SQL connection pool used by the SQL-backed
// state repository, with transaction and health check helpers.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/config"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
)

// Pool represents a database connection pool
type Pool struct {
	*sql.DB
	Dialect Dialect
}

// sqlitePragmas tune SQLite for a single-process writer.
var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
}

// Connect creates a new database connection pool for the configured storage driver
func Connect(ctx context.Context, cfg *config.AppConfig) (*Pool, error) {
	dialect, err := DialectFor(cfg.Storage.Driver)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DBConnectionTimeout)
	defer cancel()

	logEvent := log.Info().Str("driver", dialect.Name)
	if dialect.Name == constants.DriverSQLite {
		logEvent = logEvent.Str("path", cfg.Storage.SQLitePath)
		if dir := filepath.Dir(cfg.Storage.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	} else {
		logEvent = logEvent.
			Str("host", cfg.Database.Host).
			Int("port", cfg.Database.Port).
			Str("database", cfg.Database.Name).
			Str("user", cfg.Database.User)
	}
	logEvent.Msg("Connecting to database")

	db, err := sql.Open(dialect.DriverName, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect.Name == constants.DriverSQLite {
		// One writer at a time; WAL still allows concurrent readers.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.Database.MaxConns)
		db.SetMaxIdleConns(cfg.Database.MinConns)
	}
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if dialect.Name == constants.DriverSQLite {
		for _, pragma := range sqlitePragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
			}
		}
	}

	log.Info().Str("driver", dialect.Name).Msg("Successfully connected to database")

	return &Pool{DB: db, Dialect: dialect}, nil
}

// Close closes the database connection pool
func (p *Pool) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}
	log.Info().Msg("Closing database connection pool")
	return p.DB.Close()
}

// Transaction executes a function within a transaction
func (p *Pool) Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := p.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction after panic")
			}
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// HealthCheck performs a health check on the database connection
func (p *Pool) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBHealthCheckTimeout)
	defer cancel()

	if err := p.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := p.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query test failed: %w", err)
	}
	if result != 1 {
		return fmt.Errorf("database returned unexpected result: %d", result)
	}

	return nil
}

// Stats logs connection pool statistics
func (p *Pool) Stats() sql.DBStats {
	stats := p.DB.Stats()
	log.Debug().
		Int("open", stats.OpenConnections).
		Int("in_use", stats.InUse).
		Int("idle", stats.Idle).
		Dur("wait_duration", stats.WaitDuration).
		Msg("Database pool statistics")
	return stats
}

// QueryTimeout returns a context bounded by the default per-query timeout.
func QueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, constants.DBQueryTimeout)
}
