// README: Tests for the auth, recovery and logging middleware.
package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"wayfarer/internal/http/middleware"
	"wayfarer/internal/infra"
	"wayfarer/internal/logging"
)

// stubVerifier is a test double for infra.TokenVerifier.
type stubVerifier struct {
	caller *infra.Caller
	err    error
	got    string
}

func (s *stubVerifier) Verify(_ context.Context, token string) (*infra.Caller, error) {
	s.got = token
	return s.caller, s.err
}

func newTestRouter(verifier infra.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth(verifier))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": middleware.CallerUID(c)})
	})
	return r
}

func serve(r http.Handler, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader(t *testing.T) {
	w := serve(newTestRouter(&stubVerifier{caller: &infra.Caller{UID: "user1"}}), "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidBearerPrefix(t *testing.T) {
	w := serve(newTestRouter(&stubVerifier{caller: &infra.Caller{UID: "user1"}}), "Authorization", "Token sometoken")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_VerifierError(t *testing.T) {
	w := serve(newTestRouter(&stubVerifier{err: errors.New("bad token")}), "Authorization", "Bearer invalidtoken")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ValidToken(t *testing.T) {
	v := &stubVerifier{caller: &infra.Caller{UID: "traveler123"}}
	w := serve(newTestRouter(v), "Authorization", "Bearer validtoken")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "validtoken", v.got)
	assert.JSONEq(t, `{"uid":"traveler123"}`, w.Body.String())
}

func TestAuth_NoVerifierUsesHeader(t *testing.T) {
	r := newTestRouter(nil)

	w := serve(r, middleware.UserIDHeader, "demo-user")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":"demo-user"}`, w.Body.String())

	w = serve(r, "", "")
	assert.JSONEq(t, `{"uid":"anonymous"}`, w.Body.String())
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(middleware.Recovery(logging.New(&buf, "info", false)))
	r.GET("/test", func(*gin.Context) { panic("boom") })

	w := serve(r, "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "handler panic")
}

func TestLogging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(middleware.Auth(nil), middleware.Logging(logging.New(&buf, "info", true)))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	serve(r, middleware.UserIDHeader, "u1")
	assert.Contains(t, buf.String(), `"path":"/test"`)
	assert.Contains(t, buf.String(), `"caller":"u1"`)
}
