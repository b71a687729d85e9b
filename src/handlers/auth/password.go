package auth

import (
	"net/http"

	auth_repo "github.com/accountd/api/src/repository/auth"
	"github.com/accountd/api/src/services/operations"
	"github.com/accountd/api/src/services/security"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type resetPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordHandler generates a single-use reset token and emails the link
func ResetPasswordHandler(
	userRepo auth_repo.UserRepositoryInterface,
	tokenService security.TokenStore,
	mailer operations.Mailer,
	logger *logrus.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			validationError(c, map[string]string{"body": "request body must be valid JSON"})
			return
		}

		if fields := missingFields(map[string]string{"email": req.Email}); fields != nil {
			validationError(c, fields)
			return
		}

		ctx := c.Request.Context()

		user, err := userRepo.FindByEmail(ctx, req.Email)
		if err != nil {
			downstreamError(c, err.Error())
			return
		}
		if user == nil {
			// Faithful to the source provider, which errors on unknown addresses
			downstreamError(c, "There is no user record corresponding to this email")
			return
		}

		token, err := tokenService.GeneratePasswordResetToken(ctx, user.ID)
		if err != nil {
			downstreamError(c, err.Error())
			return
		}

		if err := mailer.SendPasswordResetEmail(ctx, user.Email, token); err != nil {
			downstreamError(c, err.Error())
			return
		}

		logger.WithFields(logrus.Fields{
			"user_id":    user.ID,
			"request_id": c.GetString("request_id"),
		}).Info("Password reset email dispatched")

		c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent successfully!"})
	}
}

type confirmResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ConfirmResetPasswordHandler consumes a reset token and sets the new
// password. All outstanding sessions are revoked afterwards.
func ConfirmResetPasswordHandler(
	userRepo auth_repo.UserRepositoryInterface,
	passwordService security.PasswordHasher,
	tokenService security.TokenStore,
	logger *logrus.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req confirmResetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			validationError(c, map[string]string{"body": "request body must be valid JSON"})
			return
		}

		if fields := missingFields(map[string]string{
			"token":       req.Token,
			"newPassword": req.NewPassword,
		}); fields != nil {
			validationError(c, fields)
			return
		}

		ctx := c.Request.Context()

		userID, err := tokenService.ValidatePasswordResetToken(ctx, req.Token)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid_token", "Invalid or expired reset token")
			return
		}

		hash, err := passwordService.HashPassword(req.NewPassword)
		if err != nil {
			validationError(c, map[string]string{"newPassword": err.Error()})
			return
		}

		if err := userRepo.UpdatePasswordHash(ctx, userID, hash); err != nil {
			downstreamError(c, err.Error())
			return
		}

		if err := tokenService.InvalidateUserTokens(ctx, userID); err != nil {
			logger.WithError(err).WithField("user_id", userID).Warn("Failed to revoke outstanding tokens")
		}

		logger.WithFields(logrus.Fields{
			"user_id":    userID,
			"request_id": c.GetString("request_id"),
		}).Info("Password reset completed")

		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	}
}

type changePasswordRequest struct {
	Email              string `json:"email"`
	OldPassword        string `json:"oldPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// ChangePasswordHandler re-authenticates with the old credential and sets the
// new password. Runs behind the auth middleware, so unauthenticated callers
// are rejected before validation.
func ChangePasswordHandler(
	userRepo auth_repo.UserRepositoryInterface,
	jwtService security.TokenIssuer,
	passwordService security.PasswordHasher,
	tokenService security.TokenStore,
	logger *logrus.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req changePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			validationError(c, map[string]string{"body": "request body must be valid JSON"})
			return
		}

		fields := missingFields(map[string]string{
			"email":              req.Email,
			"oldPassword":        req.OldPassword,
			"newPassword":        req.NewPassword,
			"confirmNewPassword": req.ConfirmNewPassword,
		})
		if fields == nil && req.NewPassword != req.ConfirmNewPassword {
			fields = map[string]string{"confirmNewPassword": "newPassword and confirmNewPassword must match"}
		}
		if fields != nil {
			// Mismatch is reported before any re-authentication happens
			validationError(c, fields)
			return
		}

		userID := c.GetString("user_id")
		ctx := c.Request.Context()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil || user == nil {
			downstreamError(c, "re-authentication failed")
			return
		}

		// Re-authenticate with the presented credential pair. A wrong email or
		// old password surfaces as a downstream failure, matching the source.
		if user.Email != req.Email {
			downstreamError(c, "re-authentication failed")
			return
		}
		if err := passwordService.VerifyPassword(user.PasswordHash, req.OldPassword); err != nil {
			logger.WithFields(logrus.Fields{
				"user_id":    userID,
				"request_id": c.GetString("request_id"),
			}).Warn("Password change rejected: re-authentication failed")
			downstreamError(c, "re-authentication failed")
			return
		}

		hash, err := passwordService.HashPassword(req.NewPassword)
		if err != nil {
			validationError(c, map[string]string{"newPassword": err.Error()})
			return
		}

		if err := userRepo.UpdatePasswordHash(ctx, userID, hash); err != nil {
			downstreamError(c, err.Error())
			return
		}

		// Revoke every outstanding session, then reissue one for this caller
		// so the password change does not log them out.
		if err := tokenService.InvalidateUserTokens(ctx, userID); err != nil {
			logger.WithError(err).WithField("user_id", userID).Warn("Failed to revoke outstanding tokens")
		}

		if token, err := jwtService.GenerateAccessToken(user.ID, user.Email); err == nil {
			SetSessionCookie(c, token)
		} else {
			logger.WithError(err).WithField("user_id", userID).Warn("Failed to reissue session after password change")
		}

		logger.WithFields(logrus.Fields{
			"user_id":    userID,
			"request_id": c.GetString("request_id"),
		}).Info("Password changed")

		c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
	}
}
