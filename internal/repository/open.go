package repository

import (
	"context"
	"fmt"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/config"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/database"
	"github.com/yasinhessnawi1/Toolkit_Backend/migrations"
)

// Open creates the repository selected by the storage driver.
// SQL drivers connect and run pending migrations before returning.
func Open(ctx context.Context, cfg *config.AppConfig) (StateRepository, error) {
	switch cfg.Storage.Driver {
	case constants.DriverMemory:
		return NewMemoryStateRepository(), nil

	case constants.DriverFile:
		return NewFileStateRepository(cfg.Storage.FilePath)

	case constants.DriverSQLite, constants.DriverMySQL, constants.DriverPostgres:
		pool, err := database.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := migrations.NewMigrator(pool).RunMigrations(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return NewSQLStateRepository(pool), nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}
