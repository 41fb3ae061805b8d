package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/database"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// maxWriteAttempts bounds retries of writes that failed with a transient error.
const maxWriteAttempts = 3

// SQLStateRepository stores entity values in the user_state table.
type SQLStateRepository struct {
	db          *database.Pool
	selectQuery string
	upsertQuery string
	deleteQuery string
	retryDelay  time.Duration
}

// NewSQLStateRepository creates a repository over an open pool.
// The user_state table must already exist.
func NewSQLStateRepository(db *database.Pool) *SQLStateRepository {
	d := db.Dialect
	return &SQLStateRepository{
		db: db,
		selectQuery: fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
			constants.ColumnStateValue, constants.TableUserState, constants.ColumnStateKey, d.Placeholder(1)),
		upsertQuery: d.Upsert(constants.TableUserState, constants.ColumnStateKey,
			[]string{constants.ColumnStateValue, constants.ColumnUpdatedAt}),
		deleteQuery: fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
			constants.TableUserState, constants.ColumnStateKey, d.Placeholder(1)),
		retryDelay: 50 * time.Millisecond,
	}
}

// Pool returns the underlying connection pool
func (r *SQLStateRepository) Pool() *database.Pool {
	return r.db
}

// Get returns the value stored under key
func (r *SQLStateRepository) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := database.QueryTimeout(ctx)
	defer cancel()

	startTime := time.Now()

	var value string
	err := r.db.QueryRowContext(ctx, r.selectQuery, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		utils.LogDBQuery(r.selectQuery, []interface{}{key}, time.Since(startTime), nil)
		return "", false, nil
	}
	utils.LogDBQuery(r.selectQuery, []interface{}{key}, time.Since(startTime), err)
	if err != nil {
		return "", false, fmt.Errorf("failed to get state %s: %w", key, err)
	}

	return value, true, nil
}

// Set replaces the value stored under key
func (r *SQLStateRepository) Set(ctx context.Context, key, value string) error {
	return r.withRetry(ctx, func() error {
		ctx, cancel := database.QueryTimeout(ctx)
		defer cancel()
		return r.upsert(ctx, r.db, key, value)
	})
}

// Delete removes key
func (r *SQLStateRepository) Delete(ctx context.Context, key string) error {
	ctx, cancel := database.QueryTimeout(ctx)
	defer cancel()

	startTime := time.Now()
	_, err := r.db.ExecContext(ctx, r.deleteQuery, key)
	utils.LogDBQuery(r.deleteQuery, []interface{}{key}, time.Since(startTime), err)
	if err != nil {
		return fmt.Errorf("failed to delete state %s: %w", key, err)
	}
	return nil
}

// SetMany writes every value inside one transaction
func (r *SQLStateRepository) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	keys := slices.Sorted(maps.Keys(values))

	return r.withRetry(ctx, func() error {
		ctx, cancel := database.QueryTimeout(ctx)
		defer cancel()
		return r.db.Transaction(ctx, func(tx *sql.Tx) error {
			for _, key := range keys {
				if err := r.upsert(ctx, tx, key, values[key]); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// HealthCheck pings the database
func (r *SQLStateRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// Close closes the connection pool
func (r *SQLStateRepository) Close() error {
	return r.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *SQLStateRepository) upsert(ctx context.Context, db execer, key, value string) error {
	startTime := time.Now()
	args := []interface{}{key, value, time.Now().UTC()}

	_, err := db.ExecContext(ctx, r.upsertQuery, args...)
	utils.LogDBQuery(r.upsertQuery, args, time.Since(startTime), err)
	if err != nil {
		return fmt.Errorf("failed to save state %s: %w", key, err)
	}
	return nil
}

// withRetry repeats fn while it fails with a transient database error
func (r *SQLStateRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		err = fn()
		if err == nil || !utils.IsRetryableDBError(err) {
			return err
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("Transient database error, retrying write")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.retryDelay * time.Duration(attempt)):
		}
	}
	return err
}
