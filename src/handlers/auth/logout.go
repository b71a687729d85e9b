package auth

import (
	"net/http"
	"time"

	"github.com/accountd/api/src/middleware/logic"
	"github.com/accountd/api/src/services/security"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LogoutHandler ends the session. It carries no auth precondition: a request
// without a valid token still gets its cookie cleared and a 200. When a valid
// token is presented it is blacklisted for its remaining lifetime.
func LogoutHandler(
	jwtService security.TokenIssuer,
	tokenService security.TokenStore,
	logger *logrus.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := logic.ExtractAccessToken(c)
		if tokenString != "" {
			if claims, err := jwtService.ValidateToken(tokenString); err == nil {
				ttl := time.Duration(0)
				if claims.ExpiresAt != nil {
					ttl = time.Until(claims.ExpiresAt.Time)
				}
				if err := tokenService.BlacklistToken(c.Request.Context(), claims.ID, ttl); err != nil {
					logger.WithError(err).WithField("user_id", claims.UserID).Warn("Failed to blacklist token on logout")
				}
				logger.WithFields(logrus.Fields{
					"user_id":    claims.UserID,
					"request_id": c.GetString("request_id"),
				}).Info("User logged out")
			}
		}

		ClearSessionCookie(c)
		c.JSON(http.StatusOK, gin.H{"message": "User logged out successfully"})
	}
}
