package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App          AppSettings       `yaml:"app" toml:"app"`
	Server       ServerSettings    `yaml:"server" toml:"server"`
	Storage      StorageSettings   `yaml:"storage" toml:"storage"`
	Database     DatabaseSettings  `yaml:"database" toml:"database"`
	Auth         AuthSettings      `yaml:"auth" toml:"auth"`
	Logging      LoggingSettings   `yaml:"logging" toml:"logging"`
	CORS         CORSSettings      `yaml:"cors" toml:"cors"`
	RateLimit    RateLimitSettings `yaml:"rate_limit" toml:"rate_limit"`
	PasswordHash HashSettings      `yaml:"password_hash" toml:"password_hash"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" toml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" toml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" toml:"version" env:"APP_VERSION"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" toml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" toml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" toml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" toml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageSettings selects the persistence medium for user state
type StorageSettings struct {
	Driver     string `yaml:"driver" toml:"driver" env:"STORAGE_DRIVER"`
	FilePath   string `yaml:"file_path" toml:"file_path" env:"STORAGE_FILE_PATH"`
	WatchFile  bool   `yaml:"watch_file" toml:"watch_file" env:"STORAGE_WATCH_FILE"`
	SQLitePath string `yaml:"sqlite_path" toml:"sqlite_path" env:"STORAGE_SQLITE_PATH"`
}

// DatabaseSettings contains database connection settings for the mysql and postgres drivers
type DatabaseSettings struct {
	Host     string `yaml:"host" toml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" toml:"port" env:"DB_PORT"`
	Name     string `yaml:"name" toml:"name" env:"DB_NAME"`
	User     string `yaml:"user" toml:"user" env:"DB_USER"`
	Password string `yaml:"password" toml:"password" env:"DB_PASSWORD"`
	SSLMode  bool   `yaml:"ssl" toml:"ssl" env:"DB_SSL"`
	MaxConns int    `yaml:"max_conns" toml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" toml:"min_conns" env:"DB_MIN_CONNS"`
}

// AuthSettings controls the optional access-key protection of the API
type AuthSettings struct {
	Enabled   bool          `yaml:"enabled" toml:"enabled" env:"AUTH_ENABLED"`
	AccessKey string        `yaml:"access_key" toml:"access_key" env:"AUTH_ACCESS_KEY"`
	JWTSecret string        `yaml:"jwt_secret" toml:"jwt_secret" env:"JWT_SECRET"`
	Expiry    time.Duration `yaml:"expiry" toml:"expiry" env:"JWT_EXPIRY"`
	Issuer    string        `yaml:"issuer" toml:"issuer" env:"JWT_ISSUER"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" toml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" toml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" toml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" toml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" toml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// RateLimitSettings contains per-client request rate limits
type RateLimitSettings struct {
	Enabled           bool    `yaml:"enabled" toml:"enabled" env:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `yaml:"requests_per_second" toml:"requests_per_second" env:"RATE_LIMIT_RPS"`
	Burst             int     `yaml:"burst" toml:"burst" env:"RATE_LIMIT_BURST"`
}

// HashSettings contains access-key hashing settings
type HashSettings struct {
	Memory      uint32 `yaml:"memory" toml:"memory" env:"HASH_MEMORY"`
	Iterations  uint32 `yaml:"iterations" toml:"iterations" env:"HASH_ITERATIONS"`
	Parallelism uint8  `yaml:"parallelism" toml:"parallelism" env:"HASH_PARALLELISM"`
	SaltLength  uint32 `yaml:"salt_length" toml:"salt_length" env:"HASH_SALT_LENGTH"`
	KeyLength   uint32 `yaml:"key_length" toml:"key_length" env:"HASH_KEY_LENGTH"`
}

// ConnectionString returns the database/sql data source name for the configured driver
func (c *AppConfig) ConnectionString() string {
	switch c.Storage.Driver {
	case constants.DriverSQLite:
		return c.Storage.SQLitePath
	case constants.DriverPostgres:
		return c.Database.PostgresConnectionString()
	default:
		return c.Database.MySQLConnectionString()
	}
}

// MySQLConnectionString returns the MySQL/MariaDB connection string
func (dbs *DatabaseSettings) MySQLConnectionString() string {
	// username:password@tcp(host:port)/dbname
	password := dbs.Password
	if password != "" {
		password = ":" + password
	}

	return fmt.Sprintf(
		"%s%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		dbs.User, password, dbs.Host, dbs.Port, dbs.Name,
	)
}

// PostgresConnectionString returns the lib/pq keyword/value connection string
func (dbs *DatabaseSettings) PostgresConnectionString() string {
	ssl := constants.PostgresSSLDisable
	if dbs.SSLMode {
		ssl = constants.PostgresSSLRequire
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s %s",
		dbs.Host, dbs.Port, dbs.User, dbs.Password, dbs.Name, ssl)
}

// IsSQL reports whether the storage driver is backed by database/sql
func (s *StorageSettings) IsSQL() bool {
	switch s.Driver {
	case constants.DriverSQLite, constants.DriverMySQL, constants.DriverPostgres:
		return true
	}
	return false
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

var (
	// cfg holds the current application configuration
	cfg *AppConfig
)

// Load loads the configuration from a YAML or TOML file and environment variables.
// A missing file is not an error; environment variables and defaults still apply.
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	if _, err := os.Stat(configPath); err == nil {
		if err := decodeFile(configPath, config); err != nil {
			return nil, err
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = config

	logConfig(config)

	return config, nil
}

// decodeFile picks the decoder from the file extension.
func decodeFile(path string, config *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), config); err != nil {
			return fmt.Errorf("error parsing config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("error parsing config file: %w", err)
		}
	}
	return nil
}

// Get returns the current application configuration
func Get() *AppConfig {
	if cfg == nil {
		log.Fatal().Msg("configuration not loaded")
	}
	return cfg
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = "toolkit-state"
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}

	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	if config.Storage.Driver == "" {
		config.Storage.Driver = constants.DefaultStorageDriver
	}
	config.Storage.Driver = strings.ToLower(config.Storage.Driver)
	if config.Storage.FilePath == "" {
		config.Storage.FilePath = constants.DefaultStateFilePath
	}
	if config.Storage.SQLitePath == "" {
		config.Storage.SQLitePath = constants.DefaultSQLitePath
	}

	if config.Database.Port == 0 {
		if config.Storage.Driver == constants.DriverPostgres {
			config.Database.Port = 5432
		} else {
			config.Database.Port = 3306
		}
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}

	if config.Auth.Expiry == 0 {
		config.Auth.Expiry = constants.DefaultJWTExpiry
	}
	if config.Auth.Issuer == "" {
		config.Auth.Issuer = constants.DefaultJWTIssuer
	}

	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"*"}
	}

	if config.RateLimit.RequestsPerSecond == 0 {
		config.RateLimit.RequestsPerSecond = constants.DefaultRateLimitRPS
	}
	if config.RateLimit.Burst == 0 {
		config.RateLimit.Burst = constants.DefaultRateLimitBurst
	}

	// Lower hashing cost outside production
	if config.PasswordHash.Memory == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Memory = constants.DefaultPasswordHashMemory
		} else {
			config.PasswordHash.Memory = constants.DevPasswordHashMemory
		}
	}
	if config.PasswordHash.Iterations == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Iterations = constants.DefaultPasswordHashIterations
		} else {
			config.PasswordHash.Iterations = constants.DevPasswordHashIterations
		}
	}
	if config.PasswordHash.Parallelism == 0 {
		config.PasswordHash.Parallelism = constants.DefaultPasswordHashParallelism
	}
	if config.PasswordHash.SaltLength == 0 {
		config.PasswordHash.SaltLength = constants.DefaultPasswordHashSaltLength
	}
	if config.PasswordHash.KeyLength == 0 {
		config.PasswordHash.KeyLength = constants.DefaultPasswordHashKeyLength
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	switch config.Storage.Driver {
	case constants.DriverMemory, constants.DriverFile, constants.DriverSQLite:
	case constants.DriverMySQL, constants.DriverPostgres:
		if config.Database.User == "" {
			return fmt.Errorf("database user must be set for the %s driver", config.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver: %s", config.Storage.Driver)
	}

	if config.Auth.Enabled {
		if config.Auth.JWTSecret == "" || (config.App.IsProduction() && config.Auth.JWTSecret == "changeme") {
			return fmt.Errorf("JWT secret must be set when auth is enabled")
		}
		if len(config.Auth.AccessKey) < constants.MinAccessKeyLength {
			return fmt.Errorf("access key must be at least %d characters", constants.MinAccessKeyLength)
		}
	}

	if config.RateLimit.RequestsPerSecond < 0 || config.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}

	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	event := log.Info().
		Str("environment", config.App.Environment).
		Str("version", config.App.Version).
		Str("server", config.Server.ServerAddress()).
		Str("storage_driver", config.Storage.Driver).
		Bool("auth_enabled", config.Auth.Enabled).
		Str("log_level", config.Logging.Level)

	switch config.Storage.Driver {
	case constants.DriverFile:
		event = event.Str("state_file", config.Storage.FilePath)
	case constants.DriverSQLite:
		event = event.Str("sqlite_path", config.Storage.SQLitePath)
	case constants.DriverMySQL, constants.DriverPostgres:
		event = event.
			Str("db_host", config.Database.Host).
			Int("db_port", config.Database.Port).
			Str("db_name", config.Database.Name)
	}

	event.Msg("Configuration loaded")
}
