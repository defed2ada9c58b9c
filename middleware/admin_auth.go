package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"wedding-rsvp/utils"
)

// AdminAuth guards admin routes with a static bearer key. With keyHash set
// the presented key is checked against that bcrypt hash instead of key.
// No key configured at all rejects every request.
func AdminAuth(key, keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		presented, ok := strings.CutPrefix(header, "Bearer ")

		if !ok || presented == "" || !adminKeyMatches(presented, key, keyHash) {
			log.Warn().Str("path", c.FullPath()).Str("ip", c.ClientIP()).Msg("🔒 admin auth rejected")
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

func adminKeyMatches(presented, key, keyHash string) bool {
	if keyHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(presented)) == nil
	}
	if key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(key)) == 1
}
