package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/config"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/repository"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := &config.AppConfig{}
		cfg.Storage.Driver = "memory"
		repo, err := repository.Open(ctx, cfg)
		require.NoError(t, err)
		assert.IsType(t, &repository.MemoryStateRepository{}, repo)
	})

	t.Run("file", func(t *testing.T) {
		cfg := &config.AppConfig{}
		cfg.Storage.Driver = "file"
		cfg.Storage.FilePath = filepath.Join(t.TempDir(), "state.json")
		repo, err := repository.Open(ctx, cfg)
		require.NoError(t, err)
		_, ok := repo.(repository.Watcher)
		assert.True(t, ok, "file repository should support watching")
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.AppConfig{}
		cfg.Storage.Driver = "sqlite"
		cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "state.db")
		repo, err := repository.Open(ctx, cfg)
		require.NoError(t, err)
		defer repo.Close()

		exerciseRepository(t, repo)

		checker, ok := repo.(repository.HealthChecker)
		require.True(t, ok)
		assert.NoError(t, checker.HealthCheck(ctx))
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &config.AppConfig{}
		cfg.Storage.Driver = "redis"
		_, err := repository.Open(ctx, cfg)
		assert.Error(t, err)
	})
}
