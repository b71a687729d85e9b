package profile_repo

import (
	"context"
	"database/sql"
	"fmt"

	domain "github.com/accountd/api/src/domain/account"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// ProfileRepositoryInterface defines the contract for profile record operations
type ProfileRepositoryInterface interface {
	Save(ctx context.Context, profile *domain.Profile) error
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateDisplayName(ctx context.Context, userID, displayName string) error
	UpdatePhotoURL(ctx context.Context, userID, photoURL string) error
	Delete(ctx context.Context, userID string) error
}

// ProfileRepository persists user profile records in PostgreSQL
type ProfileRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

func NewProfileRepository(db *sqlx.DB, logger *logrus.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureTable creates the profiles table if it does not exist yet
func (r *ProfileRepository) EnsureTable(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS profiles (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			email TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			birthdate DATE,
			gender TEXT,
			photo_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure profiles table: %w", err)
	}
	return nil
}

// Save creates or replaces the profile record for a user
func (r *ProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (
			user_id, email, display_name, birthdate, gender, photo_url
		) VALUES (
			:user_id, :email, :display_name, :birthdate, :gender, :photo_url
		)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			birthdate = EXCLUDED.birthdate,
			gender = EXCLUDED.gender,
			photo_url = EXCLUDED.photo_url,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		r.logger.WithError(err).WithField("user_id", profile.UserID).Error("Failed to save profile")
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// GetByUserID retrieves a profile, or (nil, nil) when absent
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	query := `
		SELECT user_id, email, display_name, birthdate, gender, photo_url, created_at, updated_at
		FROM profiles WHERE user_id = $1
	`
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// UpdateDisplayName replaces the display name
func (r *ProfileRepository) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	query := `UPDATE profiles SET display_name = $1, updated_at = CURRENT_TIMESTAMP WHERE user_id = $2`

	res, err := r.db.ExecContext(ctx, query, displayName, userID)
	if err != nil {
		r.logger.WithError(err).WithField("user_id", userID).Error("Failed to update display name")
		return fmt.Errorf("update display name: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePhotoURL replaces the profile photo URL
func (r *ProfileRepository) UpdatePhotoURL(ctx context.Context, userID, photoURL string) error {
	query := `UPDATE profiles SET photo_url = $1, updated_at = CURRENT_TIMESTAMP WHERE user_id = $2`

	res, err := r.db.ExecContext(ctx, query, photoURL, userID)
	if err != nil {
		r.logger.WithError(err).WithField("user_id", userID).Error("Failed to update photo url")
		return fmt.Errorf("update photo url: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a profile record
func (r *ProfileRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM profiles WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
