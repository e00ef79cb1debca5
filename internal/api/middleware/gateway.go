package middleware

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/magda-patterns/internal/config"
)

const anonymousUser = "anonymous"

// Auth picks the auth middleware for the configured AUTH_MODE
func Auth(cfg *config.Config) gin.HandlerFunc {
	if cfg.IsGatewayMode() {
		return GatewayAuth()
	}
	return NoAuth()
}

// GatewayAuth trusts user info from gateway headers (X-User-ID, X-User-Email, X-User-Role).
// This is used when the API runs behind the gateway, which handles token
// validation and quotas.
//
// When AUTH_MODE=gateway, the API trusts these headers unconditionally.
// This should ONLY be used in the hosted environment with proper network isolation.
func GatewayAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Missing X-User-ID header from gateway",
			})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("user_email", c.GetHeader("X-User-Email"))
		c.Set("user_role", c.GetHeader("X-User-Role"))
		setSentryUser(c)

		c.Next()
	}
}

// NoAuth is a pass-through middleware for AUTH_MODE=none.
// Every request runs as the anonymous user.
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", anonymousUser)
		setSentryUser(c)
		c.Next()
	}
}

// GetUserID returns the caller's user id set by the auth middleware
func GetUserID(c *gin.Context) (string, bool) {
	return getString(c, "user_id")
}

// GetUserEmail returns the caller's email from gateway headers
func GetUserEmail(c *gin.Context) (string, bool) {
	return getString(c, "user_email")
}

// GetUserRole returns the caller's role from gateway headers
func GetUserRole(c *gin.Context) (string, bool) {
	return getString(c, "user_role")
}

func getString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// sentryUser describes the caller for Sentry events
func sentryUser(c *gin.Context) sentry.User {
	user := sentry.User{IPAddress: c.ClientIP()}
	user.ID, _ = GetUserID(c)
	user.Email, _ = GetUserEmail(c)
	if role, ok := GetUserRole(c); ok {
		user.Data = map[string]string{"role": role}
	}
	return user
}

func setSentryUser(c *gin.Context) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.Scope().SetUser(sentryUser(c))
	}
}
