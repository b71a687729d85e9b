package auth

import (
	"net/http"

	auth_repo "github.com/accountd/api/src/repository/auth"
	"github.com/accountd/api/src/services/security"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type verifyEmailRequest struct {
	Token string `json:"token"`
}

// VerifyEmailHandler consumes a verification token and activates the account
func VerifyEmailHandler(
	userRepo auth_repo.UserRepositoryInterface,
	tokenService security.TokenStore,
	logger *logrus.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			validationError(c, map[string]string{"body": "request body must be valid JSON"})
			return
		}

		if fields := missingFields(map[string]string{"token": req.Token}); fields != nil {
			validationError(c, fields)
			return
		}

		ctx := c.Request.Context()

		userID, err := tokenService.ValidateVerificationToken(ctx, req.Token)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid_token", "Invalid or expired verification token")
			return
		}

		if err := userRepo.MarkEmailVerified(ctx, userID); err != nil {
			downstreamError(c, err.Error())
			return
		}

		logger.WithFields(logrus.Fields{
			"user_id":    userID,
			"request_id": c.GetString("request_id"),
		}).Info("Email verified")

		c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
	}
}
