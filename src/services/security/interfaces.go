package security

import (
	"context"
	"time"
)

// TokenIssuer defines the contract for session token operations
type TokenIssuer interface {
	GenerateAccessToken(userID, email string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// PasswordHasher defines the contract for password operations
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hash, password string) error
}

// TokenStore defines the contract for Redis-backed token state
type TokenStore interface {
	GenerateVerificationToken(ctx context.Context, userID string) (string, error)
	ValidateVerificationToken(ctx context.Context, token string) (string, error)
	GeneratePasswordResetToken(ctx context.Context, userID string) (string, error)
	ValidatePasswordResetToken(ctx context.Context, token string) (string, error)
	BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, tokenID string) bool
	InvalidateUserTokens(ctx context.Context, userID string) error
	IsTokenRevoked(ctx context.Context, userID string, tokenIssuedAtUnix int64) bool
}
