package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const SecretHeader = "X-Sync-Secret"

// SharedSecret admits requests carrying the secret as a bearer token or in
// the X-Sync-Secret header. With an empty secret every request is refused.
func SharedSecret(secret string) gin.HandlerFunc {
	want := []byte(secret)

	return func(c *gin.Context) {
		got := c.GetHeader(SecretHeader)
		if got == "" {
			auth := c.GetHeader("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				got = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			}
		}

		if len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
