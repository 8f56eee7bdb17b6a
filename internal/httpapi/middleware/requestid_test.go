package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDMintsWhenHeaderAbsent(t *testing.T) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFrom(c))
	})

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, c.Request)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header to be set")
	}
	if w.Body.String() != w.Header().Get("X-Request-ID") {
		t.Error("handler-visible request id should match the response header")
	}
}

func TestRequestIDReusesSaneClientHeader(t *testing.T) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-Request-ID", "client-supplied-id")
	r.ServeHTTP(w, c.Request)

	if got := w.Header().Get("X-Request-ID"); got != "client-supplied-id" {
		t.Errorf("X-Request-ID = %q, want client-supplied-id", got)
	}
}

func TestRequestIDRejectsOversizedClientHeader(t *testing.T) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	oversized := make([]byte, 100)
	for i := range oversized {
		oversized[i] = 'x'
	}

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-Request-ID", string(oversized))
	r.ServeHTTP(w, c.Request)

	if got := w.Header().Get("X-Request-ID"); got == string(oversized) {
		t.Error("oversized client header should be replaced with a minted id")
	}
}
