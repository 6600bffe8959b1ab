package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"freshtrack/api/internal/config"
	"freshtrack/api/internal/security"
)

const userIDKey = "user_id"

// Auth resolves the verified user identity from a bearer token. It is the
// only authentication step here; issuing tokens is the external auth
// service's job.
func Auth(cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "missing bearer token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseIdentityToken(tokenStr, cfg.Security.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "invalid token"})
			return
		}

		c.Set(userIDKey, claims.UserID)

		c.Next()
	}
}

// UserID returns the identity set by Auth for the current request.
func UserID(c *gin.Context) (string, bool) {
	val, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
