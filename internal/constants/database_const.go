// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines the table, column and driver names used by
// the SQL-backed state repository and the migrator.
package constants

// Table Names define the names of database tables used in the application.
const (
	// TableUserState holds one row per state key.
	TableUserState = "user_state"

	// TableSchemaMigrations records which migrations have already been applied.
	TableSchemaMigrations = "schema_migrations"
)

// Column Names for the user_state table.
const (
	ColumnStateKey   = "state_key"
	ColumnStateValue = "state_value"
	ColumnUpdatedAt  = "updated_at"
)

// Storage drivers accepted by the storage.driver setting.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// PostgreSQL connection string parameters
const (
	PostgresSSLDisable = "sslmode=disable connect_timeout=15"
	PostgresSSLRequire = "sslmode=require connect_timeout=15"
)
