package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maulidiphilip/money-manager-api/internal/service"
)

const authEmailKey = "auth_email"

// Authentication resolves a caller identity from a Bearer token when one is
// present and verifies. It never rejects a request itself: on a missing or
// invalid token the request simply proceeds without an identity and
// RequireAuth denies it on protected groups. Activation state is not
// re-checked here; an issued token stays good until it expires.
func Authentication(codec *service.TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token != "" {
				if subject, err := codec.Verify(token); err == nil {
					c.Set(authEmailKey, subject)
				}
			}
		}
		c.Next()
	}
}

// RequireAuth denies requests that reached a protected group without a
// resolved identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if AuthEmail(c) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthEmail returns the authenticated caller's email, or "" when the request
// carries no verified identity.
func AuthEmail(c *gin.Context) string {
	if value, ok := c.Get(authEmailKey); ok {
		if email, ok := value.(string); ok {
			return email
		}
	}
	return ""
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
