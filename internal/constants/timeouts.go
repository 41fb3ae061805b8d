package constants

import "time"

const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
)

const (
	DBConnectionTimeout   = 30 * time.Second
	DBQueryTimeout        = 15 * time.Second
	DBHealthCheckTimeout  = 5 * time.Second
	DBConnMaxLifetime     = 1 * time.Hour
	DBConnMaxIdleTime     = 30 * time.Minute
	DBMaintenanceInterval = 1 * time.Hour
)

const (
	DefaultJWTExpiry = 24 * time.Hour

	// RateLimitClientTTL is how long an idle client's limiter is kept.
	RateLimitClientTTL = 10 * time.Minute

	// RateLimitCleanupInterval is how often idle limiters are dropped.
	RateLimitCleanupInterval = time.Minute

	// FileWatchDebounce coalesces bursts of file system events.
	FileWatchDebounce = 100 * time.Millisecond
)
