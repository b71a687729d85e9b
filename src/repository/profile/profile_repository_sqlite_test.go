package profile_repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/accountd/api/src/database"
	domain "github.com/accountd/api/src/domain/account"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupSQLiteRepo exercises the real repository SQL, including the upsert,
// against an in-memory database.
func setupSQLiteRepo(t *testing.T) *ProfileRepository {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	db, err := database.NewTestDatabase(logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewProfileRepository(sqlx.NewDb(db.DB, "sqlite3"), logger)
}

func TestProfileRepository_SQLite_SaveAndGet(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	birthdate := time.Date(1990, time.June, 14, 0, 0, 0, 0, time.UTC)
	gender := "female"
	require.NoError(t, repo.Save(ctx, &domain.Profile{
		UserID:      "user-1",
		Email:       "test@example.com",
		DisplayName: "Test User",
		Birthdate:   &birthdate,
		Gender:      &gender,
	}))

	got, err := repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "test@example.com", got.Email)
	assert.Equal(t, "Test User", got.DisplayName)
	require.NotNil(t, got.Birthdate)
	assert.Equal(t, 1990, got.Birthdate.Year())
	require.NotNil(t, got.Gender)
	assert.Equal(t, "female", *got.Gender)
	assert.Nil(t, got.PhotoURL)
}

func TestProfileRepository_SQLite_SaveUpserts(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Profile{
		UserID:      "user-1",
		Email:       "test@example.com",
		DisplayName: "First",
	}))
	require.NoError(t, repo.Save(ctx, &domain.Profile{
		UserID:      "user-1",
		Email:       "renamed@example.com",
		DisplayName: "Second",
	}))

	got, err := repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed@example.com", got.Email)
	assert.Equal(t, "Second", got.DisplayName)
}

func TestProfileRepository_SQLite_GetUnknownIsNilNil(t *testing.T) {
	repo := setupSQLiteRepo(t)

	got, err := repo.GetByUserID(context.Background(), "ghost")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestProfileRepository_SQLite_Updates(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Profile{
		UserID:      "user-1",
		Email:       "test@example.com",
		DisplayName: "Old Name",
	}))

	require.NoError(t, repo.UpdateDisplayName(ctx, "user-1", "New Name"))
	require.NoError(t, repo.UpdatePhotoURL(ctx, "user-1", "/static/user-1/123_a.png"))

	got, err := repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.DisplayName)
	require.NotNil(t, got.PhotoURL)
	assert.Equal(t, "/static/user-1/123_a.png", *got.PhotoURL)

	assert.ErrorIs(t, repo.UpdateDisplayName(ctx, "ghost", "x"), sql.ErrNoRows)
}

func TestProfileRepository_SQLite_Delete(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Profile{
		UserID:      "user-1",
		Email:       "test@example.com",
		DisplayName: "Test User",
	}))
	require.NoError(t, repo.Delete(ctx, "user-1"))

	got, err := repo.GetByUserID(ctx, "user-1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
