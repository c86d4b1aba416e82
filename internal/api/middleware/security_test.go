package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serveWithSecurityHeaders(isDevelopment bool) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecurityHeaders(isDevelopment))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestSecurityHeadersProduction(t *testing.T) {
	resp := serveWithSecurityHeaders(false)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "DENY", resp.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "1; mode=block", resp.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "no-referrer", resp.Header().Get("Referrer-Policy"))

	csp := resp.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "frame-ancestors 'none'")

	pp := resp.Header().Get("Permissions-Policy")
	assert.Contains(t, pp, "camera=()")
	assert.Contains(t, pp, "microphone=()")

	hsts := resp.Header().Get("Strict-Transport-Security")
	assert.Contains(t, hsts, "max-age=31536000")
	assert.Contains(t, hsts, "includeSubDomains")
}

func TestSecurityHeadersDevelopmentSkipsHSTS(t *testing.T) {
	resp := serveWithSecurityHeaders(true)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "DENY", resp.Header().Get("X-Frame-Options"))
}
