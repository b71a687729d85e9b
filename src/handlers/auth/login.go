package auth

import (
	"net/http"

	auth_repo "github.com/accountd/api/src/repository/auth"
	"github.com/accountd/api/src/services/security"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler verifies credentials and issues the session cookie
func LoginHandler(
	userRepo auth_repo.UserRepositoryInterface,
	jwtService security.TokenIssuer,
	passwordService security.PasswordHasher,
	logger *logrus.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			validationError(c, map[string]string{"body": "request body must be valid JSON"})
			return
		}

		// Presence check happens before any lookup
		if fields := missingFields(map[string]string{
			"email":    req.Email,
			"password": req.Password,
		}); fields != nil {
			validationError(c, fields)
			return
		}

		user, err := userRepo.FindByEmail(c.Request.Context(), req.Email)
		if err != nil {
			downstreamError(c, err.Error())
			return
		}
		// Credential failures surface as downstream errors, not 401; the 401
		// code is reserved for missing sessions on guarded routes.
		if user == nil {
			downstreamError(c, "There is no user record corresponding to this email")
			return
		}

		if err := passwordService.VerifyPassword(user.PasswordHash, req.Password); err != nil {
			logger.WithFields(logrus.Fields{
				"user_id":    user.ID,
				"ip":         c.ClientIP(),
				"request_id": c.GetString("request_id"),
			}).Warn("Login failed: wrong password")
			downstreamError(c, "The password is invalid or the user does not have a password")
			return
		}

		token, err := jwtService.GenerateAccessToken(user.ID, user.Email)
		if err != nil {
			downstreamError(c, err.Error())
			return
		}

		SetSessionCookie(c, token)

		logger.WithFields(logrus.Fields{
			"user_id":    user.ID,
			"request_id": c.GetString("request_id"),
		}).Info("User logged in")

		c.JSON(http.StatusOK, gin.H{
			"message": "User logged in successfully",
			"user": gin.H{
				"userId":        user.ID,
				"email":         user.Email,
				"emailVerified": user.EmailVerified,
			},
		})
	}
}
