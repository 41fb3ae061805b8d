package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/database"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/repository"
)

// setupSQLRepositoryTest creates a repository over a mocked pool
func setupSQLRepositoryTest(t *testing.T, driver string) (*repository.SQLStateRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dialect, err := database.DialectFor(driver)
	require.NoError(t, err)

	return repository.NewSQLStateRepository(&database.Pool{DB: db, Dialect: dialect}), mock
}

func TestSQLStateRepository_Get(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo, mock := setupSQLRepositoryTest(t, "postgres")
		mock.ExpectQuery(`SELECT state_value FROM user_state WHERE state_key = \$1`).
			WithArgs("userSettings").
			WillReturnRows(sqlmock.NewRows([]string{"state_value"}).AddRow(`{"darkMode":true}`))

		value, found, err := repo.Get(context.Background(), "userSettings")

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"darkMode":true}`, value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mock := setupSQLRepositoryTest(t, "mysql")
		mock.ExpectQuery(`SELECT state_value FROM user_state WHERE state_key = \?`).
			WithArgs("userProfile").
			WillReturnRows(sqlmock.NewRows([]string{"state_value"}))

		_, found, err := repo.Get(context.Background(), "userProfile")

		require.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		repo, mock := setupSQLRepositoryTest(t, "mysql")
		mock.ExpectQuery("SELECT state_value").
			WithArgs("userProfile").
			WillReturnError(errors.New("connection refused"))

		_, found, err := repo.Get(context.Background(), "userProfile")

		assert.Error(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLStateRepository_Set(t *testing.T) {
	t.Run("MySQL upsert", func(t *testing.T) {
		repo, mock := setupSQLRepositoryTest(t, "mysql")
		mock.ExpectExec(`INSERT INTO user_state \(state_key, state_value, updated_at\) VALUES \(\?, \?, \?\) ON DUPLICATE KEY UPDATE`).
			WithArgs("userFavorites", `["a"]`, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Set(context.Background(), "userFavorites", `["a"]`))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("PostgreSQL upsert", func(t *testing.T) {
		repo, mock := setupSQLRepositoryTest(t, "postgres")
		mock.ExpectExec(`VALUES \(\$1, \$2, \$3\) ON CONFLICT \(state_key\) DO UPDATE SET`).
			WithArgs("userFavorites", `[]`, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Set(context.Background(), "userFavorites", `[]`))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Retries transient errors", func(t *testing.T) {
		repo, mock := setupSQLRepositoryTest(t, "mysql")
		lockErr := &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
		mock.ExpectExec("INSERT INTO user_state").WillReturnError(lockErr)
		mock.ExpectExec("INSERT INTO user_state").WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Set(context.Background(), "userHistory", `[]`))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Permanent error is returned", func(t *testing.T) {
		repo, mock := setupSQLRepositoryTest(t, "mysql")
		mock.ExpectExec("INSERT INTO user_state").WillReturnError(errors.New("disk full"))

		err := repo.Set(context.Background(), "userHistory", `[]`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLStateRepository_Delete(t *testing.T) {
	repo, mock := setupSQLRepositoryTest(t, "sqlite")
	mock.ExpectExec(`DELETE FROM user_state WHERE state_key = \?`).
		WithArgs("userHistory").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "userHistory"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStateRepository_SetMany(t *testing.T) {
	t.Run("Writes in one transaction", func(t *testing.T) {
		repo, mock := setupSQLRepositoryTest(t, "sqlite")
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO user_state").
			WithArgs("userFavorites", `["a"]`, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO user_state").
			WithArgs("userProfile", `{}`, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SetMany(context.Background(), map[string]string{
			"userProfile":   `{}`,
			"userFavorites": `["a"]`,
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls back on failure", func(t *testing.T) {
		repo, mock := setupSQLRepositoryTest(t, "sqlite")
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO user_state").
			WithArgs("userFavorites", `["a"]`, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO user_state").
			WithArgs("userProfile", `{}`, sqlmock.AnyArg()).
			WillReturnError(errors.New("constraint failed"))
		mock.ExpectRollback()

		err := repo.SetMany(context.Background(), map[string]string{
			"userProfile":   `{}`,
			"userFavorites": `["a"]`,
		})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty map is a no-op", func(t *testing.T) {
		repo, mock := setupSQLRepositoryTest(t, "sqlite")
		require.NoError(t, repo.SetMany(context.Background(), nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
