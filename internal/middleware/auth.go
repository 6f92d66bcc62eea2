package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// PrincipalKey is the gin context key holding the verified principal.
const PrincipalKey = "principal"

// TokenVerifier checks a bearer token and returns the principal it encodes.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth gates a route behind a valid bearer token and stores the
// principal in the request context.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "authorization header required")
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(c, "invalid authorization header format")
			return
		}

		principal, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
