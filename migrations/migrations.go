// Package migrations provides a framework for database schema management.
//
// The migrator tracks executed migrations in a dedicated table and is safe to
// run on every start: migrations that already ran are skipped, and a table
// that already exists is recorded as migrated without re-running its SQL.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/database"
)

// Migration represents a database migration.
// Each migration performs a specific schema change and is tracked
// to ensure it runs exactly once.
type Migration struct {
	// Name is a unique identifier for the migration
	Name string
	// Description is a human-readable explanation of what the migration does
	Description string
	// TableName is the table created by this migration, used for existence checks
	TableName string
	// RunSQL executes the migration SQL within a transaction
	RunSQL func(ctx context.Context, tx *sql.Tx, d database.Dialect) error
}

// Migrator handles database migrations.
type Migrator struct {
	db *database.Pool
}

// NewMigrator creates a new migrator.
//
// Parameters:
//   - db: A database connection pool to use for migrations
//
// Returns:
//   - *Migrator: A configured migrator
func NewMigrator(db *database.Pool) *Migrator {
	return &Migrator{
		db: db,
	}
}

// RunMigrations runs all pending database migrations.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - error: Any error encountered during migration, nil if successful
func (m *Migrator) RunMigrations(ctx context.Context) error {
	log.Info().Str("driver", m.db.Dialect.Name).Msg("Running database migrations")
	startTime := time.Now()

	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	executed, err := m.getExecutedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}

	migrations := GetMigrations()
	migrationsRun := 0
	migrationsRecorded := 0

	for _, migration := range migrations {
		if executed[migration.Name] {
			continue
		}

		if migration.TableName != "" {
			exists, err := m.tableExists(ctx, migration.TableName)
			if err != nil {
				return fmt.Errorf("failed to check if table %s exists: %w", migration.TableName, err)
			}
			if exists {
				log.Info().
					Str("migration", migration.Name).
					Str("table", migration.TableName).
					Msg("Table already exists, recording migration as completed")

				if err := m.recordMigration(ctx, m.db, migration); err != nil {
					return err
				}
				migrationsRecorded++
				continue
			}
		}

		log.Info().Str("migration", migration.Name).Msg("Running migration")
		if err := m.runMigration(ctx, migration); err != nil {
			return err
		}
		migrationsRun++
	}

	log.Info().
		Int("migrations_run", migrationsRun).
		Int("migrations_recorded", migrationsRecorded).
		Int("total_migrations", len(migrations)).
		Dur("duration", time.Since(startTime)).
		Msg("Database migrations completed")

	return nil
}

// createMigrationsTable creates the table used to track executed migrations
func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	d := m.db.Dialect
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		name VARCHAR(255) PRIMARY KEY,
		description TEXT,
		executed_at %s DEFAULT CURRENT_TIMESTAMP
	)`, constants.TableSchemaMigrations, d.TimestampType())
	_, err := m.db.ExecContext(ctx, query)
	return err
}

// getExecutedMigrations returns the names of migrations that already ran
func (m *Migrator) getExecutedMigrations(ctx context.Context) (map[string]bool, error) {
	query := fmt.Sprintf("SELECT name FROM %s", constants.TableSchemaMigrations)
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	executed := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		executed[name] = true
	}

	return executed, rows.Err()
}

// execer is satisfied by both *sql.Tx and *database.Pool.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// runMigration executes a migration and records it in one transaction
func (m *Migrator) runMigration(ctx context.Context, migration Migration) error {
	return m.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := migration.RunSQL(ctx, tx, m.db.Dialect); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.Name, err)
		}
		return m.recordMigration(ctx, tx, migration)
	})
}

// recordMigration marks a migration as executed
func (m *Migrator) recordMigration(ctx context.Context, db execer, migration Migration) error {
	query := fmt.Sprintf("INSERT INTO %s (name, description) VALUES (%s)",
		constants.TableSchemaMigrations, m.db.Dialect.Placeholders(2))
	if _, err := db.ExecContext(ctx, query, migration.Name, migration.Description); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migration.Name, err)
	}
	return nil
}

// tableExists checks the driver's catalog for a table
func (m *Migrator) tableExists(ctx context.Context, tableName string) (bool, error) {
	var query string
	switch m.db.Dialect.Name {
	case constants.DriverSQLite:
		query = "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?"
	case constants.DriverPostgres:
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1"
	default:
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?"
	}

	var count int
	if err := m.db.QueryRowContext(ctx, query, tableName).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetMigrations returns every migration in execution order
func GetMigrations() []Migration {
	return []Migration{
		createUserStateTable(),
		createUserStateUpdatedAtIndex(),
	}
}

// createUserStateTable creates the key-value table holding the serialized entities
func createUserStateTable() Migration {
	return Migration{
		Name:        "create_user_state_table",
		Description: "Creates the user_state key-value table",
		TableName:   constants.TableUserState,
		RunSQL: func(ctx context.Context, tx *sql.Tx, d database.Dialect) error {
			query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				%s %s NOT NULL PRIMARY KEY,
				%s %s NOT NULL,
				%s %s NOT NULL
			)`,
				constants.TableUserState,
				constants.ColumnStateKey, d.KeyType(),
				constants.ColumnStateValue, d.TextType(),
				constants.ColumnUpdatedAt, d.TimestampType(),
			)
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createUserStateUpdatedAtIndex indexes the modification time used by sync tooling
func createUserStateUpdatedAtIndex() Migration {
	return Migration{
		Name:        "create_user_state_updated_at_index",
		Description: "Indexes user_state by last modification time",
		RunSQL: func(ctx context.Context, tx *sql.Tx, d database.Dialect) error {
			ifNotExists := "IF NOT EXISTS "
			if d.Name == constants.DriverMySQL {
				ifNotExists = ""
			}
			query := fmt.Sprintf("CREATE INDEX %sidx_user_state_updated_at ON %s (%s)",
				ifNotExists, constants.TableUserState, constants.ColumnUpdatedAt)
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}
