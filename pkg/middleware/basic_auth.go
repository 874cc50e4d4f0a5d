package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gallerytour/internal/config"
	"gallerytour/pkg/utils"
)

// AdminBasicAuth gates the admin surface with HTTP Basic credentials
// from the environment. Comparison is constant-time; the password may
// be stored as a bcrypt hash.
func AdminBasicAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()

		userOK := ok && utils.ConstantTimeEquals(username, cfg.AdminUsername)
		passOK := ok && utils.CheckPassword(cfg.AdminPassword, password)

		if !userOK || !passOK {
			c.Header("WWW-Authenticate", `Basic realm="gallerytour admin"`)
			utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		c.Next()
	}
}
