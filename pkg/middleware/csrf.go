package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gallerytour/internal/services"
	"gallerytour/pkg/utils"
)

// RequireCSRF verifies the csrf_token form field against the session
// resolved for this request. Applied to every state-changing POST.
// A form posted without the field is a validation failure (400); a
// token that fails verification is a forbidden request (403).
func RequireCSRF(csrf services.CSRFServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFromContext(c)
		if session == nil {
			utils.HandleServiceError(c, utils.ErrCSRFInvalid)
			c.Abort()
			return
		}

		token := c.PostForm("csrf_token")
		if token == "" {
			utils.RespondError(c, http.StatusBadRequest, "Missing CSRF token")
			c.Abort()
			return
		}

		if err := csrf.Verify(token, session.UUID.String()); err != nil {
			utils.HandleServiceError(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}
