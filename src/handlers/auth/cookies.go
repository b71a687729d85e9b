package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/accountd/api/src/middleware/logic"
	"github.com/accountd/api/src/services/security"
	"github.com/gin-gonic/gin"
)

// SessionCookieMaxAge matches the access token lifetime
const SessionCookieMaxAge = int(security.AccessTokenTTL / time.Second)

// CookieConfig holds the configuration for the session cookie
type CookieConfig struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// getCookieConfig returns the cookie configuration based on environment
func getCookieConfig(c *gin.Context) CookieConfig {
	env := c.GetString("environment")
	isProduction := env == "production"

	domain := c.GetString("cookie_domain")
	if domain == "" {
		host := c.Request.Host
		if colonIdx := strings.LastIndex(host, ":"); colonIdx != -1 {
			host = host[:colonIdx]
		}
		// Prefix with dot in production for subdomain support;
		// for localhost leave empty so the browser uses the request origin
		if isProduction && !isLocalhost(host) {
			domain = "." + getBaseDomain(host)
		}
	}

	return CookieConfig{
		Domain:   domain,
		Secure:   isProduction || c.Request.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	}
}

func isLocalhost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || strings.HasPrefix(host, "192.168.")
}

// getBaseDomain extracts the base domain (e.g. "example.com" from "api.example.com")
func getBaseDomain(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return host
}

// SetSessionCookie sets the access token as an HttpOnly cookie
func SetSessionCookie(c *gin.Context, accessToken string) {
	cfg := getCookieConfig(c)

	c.SetSameSite(cfg.SameSite)
	c.SetCookie(
		logic.AccessTokenCookieName,
		accessToken,
		SessionCookieMaxAge,
		"/",
		cfg.Domain,
		cfg.Secure,
		true, // HttpOnly - not accessible via JavaScript
	)
}

// ClearSessionCookie removes the session cookie (used during logout)
func ClearSessionCookie(c *gin.Context) {
	cfg := getCookieConfig(c)

	c.SetSameSite(cfg.SameSite)
	c.SetCookie(
		logic.AccessTokenCookieName,
		"",
		-1, // Negative MaxAge deletes the cookie
		"/",
		cfg.Domain,
		cfg.Secure,
		true,
	)
}
