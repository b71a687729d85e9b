package auth_repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/accountd/api/src/database"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepoTest(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	databaseDB := &database.DB{DB: db} // Logger unexported

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	repo := NewUserRepository(databaseDB, logger)
	return repo, mock
}

func userRows(id, email, hash string, verified bool) *sqlmock.Rows {
	var verifiedAt interface{}
	if verified {
		verifiedAt = time.Now()
	}
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "email_verified", "verified_at", "created_at", "updated_at"}).
		AddRow(id, email, hash, verified, verifiedAt, time.Now(), time.Now())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	repo, mock := setupRepoTest(t)

	email := "test@example.com"

	mock.ExpectQuery("SELECT id, email, password_hash, email_verified, verified_at, created_at, updated_at FROM users WHERE email = \\$1").
		WithArgs(email).
		WillReturnRows(userRows("user-1", email, "hash", true))

	user, err := repo.FindByEmail(context.Background(), email)

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, email, user.Email)
	assert.True(t, user.EmailVerified)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	repo, mock := setupRepoTest(t)

	email := "missing@example.com"

	mock.ExpectQuery("SELECT id, email, password_hash, email_verified, verified_at, created_at, updated_at FROM users WHERE email = \\$1").
		WithArgs(email).
		WillReturnError(sql.ErrNoRows)

	user, err := repo.FindByEmail(context.Background(), email)

	assert.NoError(t, err) // Should return nil, nil
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUser(t *testing.T) {
	repo, mock := setupRepoTest(t)

	email := "new@example.com"
	hash := "hashed_password"

	mock.ExpectQuery("INSERT INTO users .* VALUES .* RETURNING .*").
		WithArgs(sqlmock.AnyArg(), email, hash).
		WillReturnRows(userRows("user-new", email, hash, false))

	user, err := repo.CreateUser(context.Background(), email, hash)

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, email, user.Email)
	assert.False(t, user.EmailVerified)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUser_DuplicateEmail(t *testing.T) {
	repo, mock := setupRepoTest(t)

	email := "taken@example.com"

	mock.ExpectQuery("INSERT INTO users .* VALUES .* RETURNING .*").
		WithArgs(sqlmock.AnyArg(), email, "hash").
		WillReturnError(&pq.Error{Code: "23505"})

	user, err := repo.CreateUser(context.Background(), email, "hash")

	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	repo, mock := setupRepoTest(t)

	mock.ExpectExec("UPDATE users SET password_hash = \\$1, updated_at = CURRENT_TIMESTAMP WHERE id = \\$2").
		WithArgs("new-hash", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePasswordHash(context.Background(), "user-1", "new-hash")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePasswordHash_NoSuchUser(t *testing.T) {
	repo, mock := setupRepoTest(t)

	mock.ExpectExec("UPDATE users SET password_hash = \\$1, updated_at = CURRENT_TIMESTAMP WHERE id = \\$2").
		WithArgs("new-hash", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePasswordHash(context.Background(), "ghost", "new-hash")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteUser(t *testing.T) {
	repo, mock := setupRepoTest(t)

	mock.ExpectExec("DELETE FROM users WHERE id = \\$1").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteUser(context.Background(), "user-1")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
