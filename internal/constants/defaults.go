// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// Changes to these values may significantly impact application behavior.
package constants

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP port for the server.
	DefaultServerPort = 8080

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 10

	// DefaultDBMinConnections is the default number of idle connections kept open.
	DefaultDBMinConnections = 2

	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default format for log output.
	DefaultLogFormat = "json"

	// DefaultStorageDriver is used when no storage driver is configured.
	DefaultStorageDriver = DriverSQLite

	// DefaultStateFilePath is where the file driver keeps its JSON document.
	DefaultStateFilePath = "./data/user-state.json"

	// DefaultSQLitePath is the database file used by the sqlite driver.
	DefaultSQLitePath = "./data/user-state.db"

	// DefaultRateLimitRPS is the default sustained request rate per client.
	DefaultRateLimitRPS = 10

	// DefaultRateLimitBurst is the default burst size per client.
	DefaultRateLimitBurst = 30
)

// Environment Types define the recognized application running environments.
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// Size Limits
const (
	// MaxRequestBodySize is the maximum size of a JSON request body.
	MaxRequestBodySize = 1048576 // 1MB in bytes

	// MaxImportSize is the maximum size of an uploaded state export.
	MaxImportSize = 5 * 1048576
)

// Default Password Hash Settings define the parameters for hashing the access key.
const (
	DefaultPasswordHashMemory      = 64 * 1024
	DefaultPasswordHashIterations  = 3
	DefaultPasswordHashParallelism = 2
	DefaultPasswordHashSaltLength  = 16
	DefaultPasswordHashKeyLength   = 32

	// DevPasswordHashMemory is a lower memory setting for development environments.
	DevPasswordHashMemory = 16 * 1024

	// DevPasswordHashIterations is a lower iteration count for development environments.
	DevPasswordHashIterations = 1
)

// Auth Constants
const (
	DefaultJWTIssuer  = "toolkit-api"
	BearerTokenPrefix = "Bearer "

	// OwnerSubject is the JWT subject issued to the holder of the access key.
	OwnerSubject = "owner"
)
