package logic

import (
	"net/http"
	"strings"

	"github.com/accountd/api/src/services/security"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AccessTokenCookieName is the HTTP-only session cookie
const AccessTokenCookieName = "access_token"

// ExtractAccessToken pulls the session token from the cookie, falling back to
// a Bearer Authorization header for non-browser clients.
func ExtractAccessToken(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookieName); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// AuthMiddleware authenticates the request and stores the caller identity in
// the gin context. Handlers read identity from the context only; there is no
// ambient current-user state anywhere else.
func AuthMiddleware(jwtService security.TokenIssuer, tokenService security.TokenStore, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractAccessToken(c)
		if tokenString == "" {
			unauthorized(c, "missing authentication token")
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			logger.WithError(err).WithField("request_id", c.GetString("request_id")).Debug("Token validation failed")
			unauthorized(c, "invalid or expired token")
			return
		}

		if tokenService.IsTokenBlacklisted(c.Request.Context(), claims.ID) {
			unauthorized(c, "token has been revoked")
			return
		}

		if claims.IssuedAt != nil &&
			tokenService.IsTokenRevoked(c.Request.Context(), claims.UserID, claims.IssuedAt.Unix()) {
			unauthorized(c, "token has been revoked")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("token_claims", claims)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":       "unauthorized",
			"message":    message,
			"request_id": c.GetString("request_id"),
		},
	})
}
