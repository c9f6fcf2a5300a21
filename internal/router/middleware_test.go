package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eshop-next/internal/config"

	"github.com/gin-gonic/gin"
)

func TestRequestIDMiddlewareGenerates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id header")
	}
}

func TestRequestIDMiddlewarePreservesInbound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-abc")
	r.ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "req-abc" {
		t.Fatalf("request id want req-abc got %s", got)
	}
}

func TestUserIdentityMiddlewareRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(UserIdentityMiddleware())
	r.GET("/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `"status_code":401`) {
		t.Fatalf("expected unauthorized envelope, got %s", w.Body.String())
	}
}

func TestUserIdentityMiddlewareInjectsUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(UserIdentityMiddleware())
	r.GET("/cart", func(c *gin.Context) {
		value, _ := c.Get(userIDKey)
		c.JSON(http.StatusOK, gin.H{"user_id": value})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(userIDHeader, "  user-7  ")
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `"user_id":"user-7"`) {
		t.Fatalf("expected trimmed user id, got %s", w.Body.String())
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"https://shop.example.com"}}))
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	r.ServeHTTP(w, req)

	if w.Code != 204 {
		t.Fatalf("preflight status want 204 got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("allow origin want configured origin got %q", got)
	}
}

func TestResolveAllowedOrigin(t *testing.T) {
	if got := resolveAllowedOrigin("https://a.com", []string{"*"}, false); got != "*" {
		t.Fatalf("wildcard want * got %s", got)
	}
	if got := resolveAllowedOrigin("https://a.com", []string{"*"}, true); got != "https://a.com" {
		t.Fatalf("credentials wildcard must echo origin, got %s", got)
	}
	if got := resolveAllowedOrigin("https://b.com", []string{"https://a.com"}, false); got != "" {
		t.Fatalf("unlisted origin want empty got %s", got)
	}
}
