package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/freshfold/laundry-api/internal/config"
	"github.com/freshfold/laundry-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
)

func serveWithHeaders(cfg *config.SecurityConfig, path string) *httptest.ResponseRecorder {
	h := middleware.SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSecurityHeaders_Defaults(t *testing.T) {
	w := serveWithHeaders(&config.SecurityConfig{
		ContentTypeNosniff:    true,
		FrameOptions:          "DENY",
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}, "/api/v1/orders")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	w := serveWithHeaders(&config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: 31536000}, "/health")
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_SwaggerSkipsCSP(t *testing.T) {
	w := serveWithHeaders(&config.SecurityConfig{ContentSecurityPolicy: "default-src 'self'"}, "/swagger/index.html")
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
}
