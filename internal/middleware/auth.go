package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipeshare/backend/internal/types"
)

const (
	// StatusNoToken is returned when a protected route is called without a
	// bearer token. Clients depend on this code, it is not a typo for 401.
	StatusNoToken = http.StatusPaymentRequired

	msgNoToken      = "Unathorized. No token. Login to continue..!"
	msgInvalidToken = "Unathorized. Invalid token. Login again..!"

	userIDKey = "user_id"
	nameKey   = "user_name"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that validates bearer tokens and puts
// the caller's id into the context
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer") {
			c.AbortWithStatusJSON(StatusNoToken, gin.H{"message": msgNoToken})
			return
		}

		// The token is whatever follows the first space
		_, token, _ := strings.Cut(authHeader, " ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgInvalidToken})
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgInvalidToken})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(nameKey, claims.Name)
		c.Next()
	}
}

// UserID returns the authenticated caller set by AuthMiddleware
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
