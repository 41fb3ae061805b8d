package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/repository"
)

// exerciseRepository runs the behaviour every StateRepository must share.
func exerciseRepository(t *testing.T, repo repository.StateRepository) {
	t.Helper()
	ctx := context.Background()

	_, found, err := repo.Get(ctx, "userProfile")
	require.NoError(t, err)
	assert.False(t, found, "empty repository should not find a key")

	require.NoError(t, repo.Set(ctx, "userProfile", `{"name":"Ada"}`))
	value, found, err := repo.Get(ctx, "userProfile")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"name":"Ada"}`, value)

	require.NoError(t, repo.Set(ctx, "userProfile", `{"name":"Grace"}`))
	value, _, err = repo.Get(ctx, "userProfile")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Grace"}`, value, "Set replaces the whole value")

	require.NoError(t, repo.SetMany(ctx, map[string]string{
		"userFavorites": `["a","b"]`,
		"userHistory":   `[]`,
	}))
	value, found, err = repo.Get(ctx, "userFavorites")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["a","b"]`, value)

	require.NoError(t, repo.Delete(ctx, "userProfile"))
	_, found, err = repo.Get(ctx, "userProfile")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, repo.Delete(ctx, "userProfile"), "deleting a missing key is not an error")
}

func TestMemoryStateRepository(t *testing.T) {
	repo := repository.NewMemoryStateRepository()
	exerciseRepository(t, repo)
	assert.NoError(t, repo.Close())
}
