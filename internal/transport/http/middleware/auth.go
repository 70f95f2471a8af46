package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	errBadAuthHeader = "Authorization header must start with Bearer"
	errTokenMissing  = "Token is missing"
	errTokenInvalid  = "Invalid or expired token"
	errLoginRequired = "You must be logged in to access this resource"
	userIDContextKey = "userID"
)

// TokenVerifier resolves a bearer token to a user ID.
type TokenVerifier interface {
	Verify(rawToken string) (string, error)
}

// Auth extracts an optional bearer identity. Three outcomes per request:
// no Authorization header passes through anonymously, a malformed header
// short-circuits with 400, and a well-formed token is verified — 401 on
// failure, "userID" set in the gin context on success. Routes that
// require identity add RequireUser on top.
func Auth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		if !strings.HasPrefix(header, "Bearer") {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errBadAuthHeader})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) < 2 || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errTokenMissing})
			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
			return
		}

		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// RequireUser runs after Auth and rejects requests that carry no
// resolved identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(userIDContextKey) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errLoginRequired})
			return
		}
		c.Next()
	}
}
