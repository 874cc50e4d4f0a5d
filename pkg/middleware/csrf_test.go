package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"gallerytour/internal/services"
)

func csrfRouter(t *testing.T, csrf services.CSRFServiceInterface) (*gin.Engine, func() string) {
	t.Helper()
	db := newTestDB(t)
	engine := gin.New()
	engine.Use(SessionMiddleware(newSessionService(t, db), newTestLogger(t)))
	engine.POST("/", RequireCSRF(csrf), okHandler)

	// Capture the session token a first GET establishes.
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, SessionFromContext(c).UUID.String())
	})
	establish := func() string {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec.Body.String()
	}
	return engine, establish
}

func postForm(engine *gin.Engine, sessionToken string, form url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionToken})
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRequireCSRFAcceptsValidToken(t *testing.T) {
	csrf := services.NewCSRFService("test-secret")
	engine, establish := csrfRouter(t, csrf)
	sessionToken := establish()

	token, err := csrf.Issue(sessionToken)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	form := url.Values{}
	form.Set("csrf_token", token)
	if rec := postForm(engine, sessionToken, form); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireCSRFMissingTokenIsValidationFailure(t *testing.T) {
	csrf := services.NewCSRFService("test-secret")
	engine, establish := csrfRouter(t, csrf)
	sessionToken := establish()

	// No csrf_token field at all: the form is incomplete, not forged.
	if rec := postForm(engine, sessionToken, url.Values{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRequireCSRFRejectsGarbageToken(t *testing.T) {
	csrf := services.NewCSRFService("test-secret")
	engine, establish := csrfRouter(t, csrf)
	sessionToken := establish()

	form := url.Values{}
	form.Set("csrf_token", "not-a-token")
	if rec := postForm(engine, sessionToken, form); rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireCSRFRejectsForeignSessionToken(t *testing.T) {
	csrf := services.NewCSRFService("test-secret")
	engine, establish := csrfRouter(t, csrf)
	victim := establish()
	attacker := establish()

	// A token issued for the attacker's session must not pass on the
	// victim's.
	token, err := csrf.Issue(attacker)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	form := url.Values{}
	form.Set("csrf_token", token)
	if rec := postForm(engine, victim, form); rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
