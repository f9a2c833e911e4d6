package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"taskmanager/internal/auth"
)

// UserIDKey is the gin context key holding the authenticated caller.
const UserIDKey = "userID"

type TokenParser interface {
	Parse(token string) (string, error)
}

var _ TokenParser = (*auth.TokenManager)(nil)

// JWTAuthMiddleware rejects requests without a valid bearer token and stores
// the token subject under UserIDKey.
func JWTAuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		userID, err := tokens.Parse(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, userID)
		l := zerolog.Ctx(c.Request.Context()).With().Str("user_id", userID).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
		c.Next()
	}
}

// UserID returns the authenticated caller, or "" when auth is disabled.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
