package auth_repo

import (
	"context"
	"database/sql"
	"testing"

	"github.com/accountd/api/src/database"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupSQLiteRepo runs the real repository SQL against an in-memory database
// instead of matching query strings.
func setupSQLiteRepo(t *testing.T) *UserRepository {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	db, err := database.NewTestDatabase(logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewUserRepository(db, logger)
}

func TestUserRepository_SQLite_CreateAndFind(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, "test@example.com", "hashed-pw")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "test@example.com", created.Email)
	assert.Equal(t, "hashed-pw", created.PasswordHash)
	assert.False(t, created.EmailVerified)
	assert.Nil(t, created.VerifiedAt)

	byEmail, err := repo.FindByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "test@example.com", byID.Email)
}

func TestUserRepository_SQLite_FindUnknownIsNilNil(t *testing.T) {
	repo := setupSQLiteRepo(t)

	user, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_SQLite_DuplicateEmailRejected(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, "taken@example.com", "hash-1")
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, "taken@example.com", "hash-2")
	assert.Error(t, err)
}

func TestUserRepository_SQLite_UpdatePasswordHash(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, "test@example.com", "old-hash")
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePasswordHash(ctx, created.ID, "new-hash"))

	updated, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", updated.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePasswordHash(ctx, "ghost", "x"), sql.ErrNoRows)
}

func TestUserRepository_SQLite_MarkEmailVerified(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, "test@example.com", "hash")
	require.NoError(t, err)

	require.NoError(t, repo.MarkEmailVerified(ctx, created.ID))

	verified, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)
	assert.NotNil(t, verified.VerifiedAt)
}

func TestUserRepository_SQLite_DeleteUser(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, "test@example.com", "hash")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteUser(ctx, created.ID))

	gone, err := repo.FindByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Nil(t, gone)
}
