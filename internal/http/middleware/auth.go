// README: Auth middleware. Verifies Firebase ID tokens when a verifier is configured.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/infra"
)

const (
	callerUIDKey = "caller_uid"
	// UserIDHeader identifies the caller when no verifier is configured.
	UserIDHeader = "X-User-ID"
	AnonymousUID = "anonymous"
)

// Auth requires a valid "Bearer <id token>" when verifier is non-nil. With a
// nil verifier the caller is taken from the X-User-ID header, or anonymous.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			uid := strings.TrimSpace(c.GetHeader(UserIDHeader))
			if uid == "" {
				uid = AnonymousUID
			}
			c.Set(callerUIDKey, uid)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		caller, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(callerUIDKey, caller.UID)
		c.Next()
	}
}

// CallerUID returns the authenticated caller id set by Auth.
func CallerUID(c *gin.Context) string {
	return c.GetString(callerUIDKey)
}
