package auth_repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/accountd/api/src/database"
	domain "github.com/accountd/api/src/domain/account"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrEmailExists is returned when registering an email that is already taken
var ErrEmailExists = errors.New("email already exists")

const userColumns = "id, email, password_hash, email_verified, verified_at, created_at, updated_at"

// UserRepository persists credential records in PostgreSQL
type UserRepository struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB, logger *logrus.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureTable creates the users table if it does not exist yet
func (r *UserRepository) EnsureTable(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			email_verified BOOLEAN NOT NULL DEFAULT FALSE,
			verified_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure users table: %w", err)
	}
	return nil
}

// FindByEmail returns the user with the given email, or (nil, nil) when absent
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = $1"

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithError(err).WithField("email", email).Error("Failed to find user by email")
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID returns the user with the given id, or (nil, nil) when absent
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithError(err).WithField("user_id", id).Error("Failed to find user by id")
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return user, nil
}

// CreateUser inserts a new credential record. Returns ErrEmailExists on a
// unique constraint violation.
func (r *UserRepository) CreateUser(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, uuid.NewString(), email, passwordHash))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrEmailExists
		}
		r.logger.WithError(err).WithField("email", email).Error("Failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User created")

	return user, nil
}

// UpdatePasswordHash replaces the stored password hash
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	query := "UPDATE users SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2"

	res, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		r.logger.WithError(err).WithField("user_id", id).Error("Failed to update password hash")
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkEmailVerified flips the verification flag and records the timestamp
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	query := "UPDATE users SET email_verified = TRUE, verified_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = $1"

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.WithError(err).WithField("user_id", id).Error("Failed to mark email verified")
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteUser removes a credential record. Used to unwind registration when
// the profile write fails after the credential insert succeeded.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	query := "DELETE FROM users WHERE id = $1"

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		r.logger.WithError(err).WithField("user_id", id).Error("Failed to delete user")
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.EmailVerified,
		&u.VerifiedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
