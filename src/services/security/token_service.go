package security

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/accountd/api/src/database"
	"github.com/sirupsen/logrus"
)

const redisOpTimeout = 2 * time.Second

// TokenService handles verification, reset, and revocation tokens in Redis
type TokenService struct {
	redis  *database.RedisClient
	logger *logrus.Logger
}

// NewTokenService creates a new token service
func NewTokenService(redis *database.RedisClient, logger *logrus.Logger) *TokenService {
	return &TokenService{
		redis:  redis,
		logger: logger,
	}
}

// GenerateVerificationToken generates a 32-byte random token for email verification
func (s *TokenService) GenerateVerificationToken(ctx context.Context, userID string) (string, error) {
	token, err := s.generateRandomToken()
	if err != nil {
		return "", err
	}

	redisCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	// 24-hour expiry
	key := "verify:" + token
	if err := s.redis.Set(redisCtx, key, userID, 24*time.Hour).Err(); err != nil {
		s.logger.WithError(err).Error("Failed to store verification token")
		return "", fmt.Errorf("failed to store verification token: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"token":   token[:8] + "...", // Log only first 8 chars
	}).Debug("Verification token generated")

	return token, nil
}

// ValidateVerificationToken validates and consumes a verification token
func (s *TokenService) ValidateVerificationToken(ctx context.Context, token string) (string, error) {
	redisCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	key := "verify:" + token
	userID, err := s.redis.Get(redisCtx, key).Result()
	if err != nil {
		s.logger.WithError(err).Debug("Verification token not found or expired")
		return "", fmt.Errorf("invalid or expired token")
	}

	// Single-use: delete under a fresh timeout context
	delCtx, delCancel := context.WithTimeout(ctx, redisOpTimeout)
	defer delCancel()
	if err := s.redis.Del(delCtx, key).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to delete verification token")
	}

	s.logger.WithField("user_id", userID).Info("Verification token validated")
	return userID, nil
}

// GeneratePasswordResetToken generates a 32-byte random token for password reset
func (s *TokenService) GeneratePasswordResetToken(ctx context.Context, userID string) (string, error) {
	token, err := s.generateRandomToken()
	if err != nil {
		return "", err
	}

	redisCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	// 1-hour expiry
	key := "reset:" + token
	if err := s.redis.Set(redisCtx, key, userID, 1*time.Hour).Err(); err != nil {
		s.logger.WithError(err).Error("Failed to store password reset token")
		return "", fmt.Errorf("failed to store password reset token: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"token":   token[:8] + "...",
	}).Debug("Password reset token generated")

	return token, nil
}

// ValidatePasswordResetToken validates and consumes a password reset token
func (s *TokenService) ValidatePasswordResetToken(ctx context.Context, token string) (string, error) {
	redisCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	key := "reset:" + token
	userID, err := s.redis.Get(redisCtx, key).Result()
	if err != nil {
		s.logger.WithError(err).Debug("Password reset token not found or expired")
		return "", fmt.Errorf("invalid or expired token")
	}

	delCtx, delCancel := context.WithTimeout(ctx, redisOpTimeout)
	defer delCancel()
	if err := s.redis.Del(delCtx, key).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to delete password reset token")
	}

	s.logger.WithField("user_id", userID).Info("Password reset token validated")
	return userID, nil
}

// BlacklistToken marks an access token as revoked until its natural expiry
func (s *TokenService) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Already expired, nothing to blacklist
	}

	redisCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	key := "blacklist:" + tokenID
	if err := s.redis.Set(redisCtx, key, "1", ttl).Err(); err != nil {
		s.logger.WithError(err).Error("Failed to blacklist token")
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsTokenBlacklisted reports whether an access token has been explicitly revoked.
// Fails open on Redis errors so an unstable Redis cannot lock everyone out.
func (s *TokenService) IsTokenBlacklisted(ctx context.Context, tokenID string) bool {
	redisCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	exists, err := s.redis.Exists(redisCtx, "blacklist:"+tokenID).Result()
	if err != nil {
		return false
	}
	return exists > 0
}

// generateRandomToken generates a 32-byte random token
func (s *TokenService) generateRandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// InvalidateUserTokens invalidates all current tokens for a user by setting a
// revocation timestamp. Used after password resets and other security events.
func (s *TokenService) InvalidateUserTokens(ctx context.Context, userID string) error {
	key := fmt.Sprintf("user_revocation:%s", userID)
	now := time.Now().Unix()

	// Long TTL: tokens older than this would have expired on their own
	err := s.redis.Set(ctx, key, now, 7*24*time.Hour).Err()
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to set revocation timestamp")
		return fmt.Errorf("failed to invalidate tokens: %w", err)
	}

	s.logger.WithField("user_id", userID).Info("All user tokens invalidated (MinIAT updated)")
	return nil
}

// IsTokenRevoked checks whether a token was implicitly revoked via the MinIAT
// policy: any token issued before the user's revocation timestamp is invalid.
// Fails open on Redis errors.
func (s *TokenService) IsTokenRevoked(ctx context.Context, userID string, tokenIssuedAtUnix int64) bool {
	key := fmt.Sprintf("user_revocation:%s", userID)
	revocationTimestamp, err := s.redis.Get(ctx, key).Int64()
	if err != nil {
		return false
	}

	if tokenIssuedAtUnix < revocationTimestamp {
		s.logger.WithFields(logrus.Fields{
			"user_id":      userID,
			"token_iat":    tokenIssuedAtUnix,
			"revocation_t": revocationTimestamp,
		}).Warn("Token rejected by MinIAT policy")
		return true
	}

	return false
}
