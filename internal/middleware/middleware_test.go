package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hdbaza/helpdesk-api/internal/auth"
	"github.com/hdbaza/helpdesk-api/internal/repository/memstore"
	"github.com/hdbaza/helpdesk-api/internal/service"
)

func init() { gin.SetMode(gin.TestMode) }

func newAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	tokens, err := auth.ParseStaticTokens(
		"tok-admin:szef:admin;tok-user:ola:user:ola@firma.pl;tok-dir:it:user:IT@firma.pl",
	)
	if err != nil {
		t.Fatalf("ParseStaticTokens: %v", err)
	}
	store := memstore.New()
	admins := service.NewAdminService(store.Admins, []string{"it@firma.pl"}, zerolog.Nop())
	if _, err := admins.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}
	return service.NewAuthService(service.AuthConfig{Verifier: tokens}, admins, zerolog.Nop())
}

func TestRequireAuthAndAdmin(t *testing.T) {
	svc := newAuthService(t)
	r := gin.New()
	r.GET("/me", RequireAuth(svc), func(c *gin.Context) {
		c.String(http.StatusOK, Actor(c))
	})
	r.GET("/admin", RequireAuth(svc), RequireAdmin(svc), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
		body   string
	}{
		{"no token", "/me", "", http.StatusUnauthorized, ""},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized, ""},
		{"user by header", "/me", "Bearer tok-user", http.StatusOK, "ola@firma.pl"},
		{"username fallback", "/me", "bearer tok-admin", http.StatusOK, "szef"},
		{"query token", "/me?token=tok-user", "", http.StatusOK, "ola@firma.pl"},
		{"user on admin route", "/admin", "Bearer tok-user", http.StatusForbidden, ""},
		{"admin role", "/admin", "Bearer tok-admin", http.StatusNoContent, ""},
		{"admin by directory", "/admin", "Bearer tok-dir", http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 2, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := send(); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	w := send()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After missing")
	}

	now = now.Add(time.Minute)
	if w := send(); w.Code != http.StatusOK {
		t.Errorf("after refill: status %d", w.Code)
	}

	if ok, _ := rl.Allow("10.0.0.2"); !ok {
		t.Error("other client throttled")
	}
}

func TestCompression(t *testing.T) {
	large := strings.Repeat("Brak internetu w sali 204. ", 100)
	r := gin.New()
	r.Use(Compression())
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusOK, large) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/large", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("Content-Encoding = %q, want br", w.Header().Get("Content-Encoding"))
	}
	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(plain) != large {
		t.Error("decompressed body differs")
	}

	req = httptest.NewRequest(http.MethodGet, "/small", nil)
	req.Header.Set("Accept-Encoding", "br")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != "ok" {
		t.Errorf("small body: encoding %q body %q", w.Header().Get("Content-Encoding"), w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/large", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != large {
		t.Error("compressed without Accept-Encoding: br")
	}
}
