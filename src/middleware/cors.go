package middleware

import (
	"net/http"

	"github.com/accountd/api/src/config"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CORS applies strict origin validation against the configured whitelist.
// Credentials are allowed because the session rides an HTTP-only cookie.
func CORS(cfg *config.Config, logger *logrus.Logger) gin.HandlerFunc {
	allowedOrigins := cfg.CORSOrigins

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && isOriginAllowed(origin, allowedOrigins) {
			reqHeaders := c.Request.Header.Get("Access-Control-Request-Headers")
			allowHeaders := "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With"
			if reqHeaders != "" {
				allowHeaders = allowHeaders + ", " + reqHeaders
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", allowHeaders)
			c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
			c.Header("Access-Control-Max-Age", "86400")
		} else if origin != "" {
			// Log rejected origins for security monitoring
			logger.WithFields(logrus.Fields{
				"origin":     origin,
				"ip":         c.ClientIP(),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"request_id": c.GetString("request_id"),
			}).Warn("CORS: Rejected origin not in whitelist")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// isOriginAllowed checks the whitelist. An empty whitelist denies all.
func isOriginAllowed(origin string, allowedOrigins []string) bool {
	if len(allowedOrigins) == 0 {
		return false
	}

	for _, allowed := range allowedOrigins {
		if origin == allowed {
			return true
		}
	}

	return false
}
