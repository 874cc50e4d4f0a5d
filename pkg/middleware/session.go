package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"gallerytour/internal/models/db_models"
	"gallerytour/internal/services"
	"gallerytour/pkg/logger"
	"gallerytour/pkg/utils"
)

const (
	SessionCookieName = "gallery_session_id"
	sessionContextKey = "visitor_session"
)

// SessionMiddleware owns the cookie side of visitor identity: resolve
// (or create) the session before the handler, commit the activity
// refresh after it, and write the cookie back whenever the token
// changed. Bad tokens never surface as errors.
func SessionMiddleware(sessions services.SessionServiceInterface, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		inbound, _ := c.Cookie(SessionCookieName)

		session, err := sessions.Resolve(c.Request.Context(), inbound)
		if err != nil {
			log.Error("session resolve failed", "error", err)
			utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
			c.Abort()
			return
		}

		created := false
		if session == nil {
			session, err = sessions.Create(c.Request.Context(), services.SessionMeta{
				UserAgent:  c.Request.UserAgent(),
				AcceptLang: c.GetHeader("Accept-Language"),
			})
			if err != nil {
				log.Error("session create failed", "error", err)
				utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
				c.Abort()
				return
			}
			created = true
		}

		token := session.UUID.String()
		if token != inbound {
			// behind the reverse proxy the scheme arrives as a header
			secure := c.GetHeader("X-Forwarded-Proto") == "https"
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, token, int(sessions.TTL().Seconds()), "/", "", secure, true)
		}

		c.Set(sessionContextKey, session)
		c.Next()

		if !created {
			// the refresh must land even if the client hung up mid-response
			ctx := context.WithoutCancel(c.Request.Context())
			if err := sessions.CommitActivityRefresh(ctx, session.ID); err != nil {
				log.Error("activity refresh failed", "session", token, "error", err)
			}
		}
	}
}

// SessionFromContext returns the session the middleware resolved for
// this request. It is always present on routes behind the middleware.
func SessionFromContext(c *gin.Context) *db_models.Session {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	session, _ := value.(*db_models.Session)
	return session
}
