package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/config"
	"github.com/futsalhq/stadium-booking/internal/utils"
)

// The limiter sits after JWTAuth on authenticated groups; rateKey must see
// the resolved user id there, not "anon".
func TestRateKeySeesUserBehindJWTAuth(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, 1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/reservation/my", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/reservation/my")

	var key string
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		key = rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}, c)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(key, ":user:42:") {
		t.Fatalf("expected user segment in key, got %q", key)
	}
	if strings.Contains(key, "anon") {
		t.Fatalf("key still anonymous: %q", key)
	}
}

func TestAsInt64(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int64
	}{
		{int64(5), 5},
		{3, 3},
		{2.9, 2},
		{"17", 17},
		{"junk", 0},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := asInt64(tc.in); got != tc.want {
			t.Errorf("asInt64(%v): got %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/match", nil)
	req.Header.Set("X-Real-IP", "10.0.0.9")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/match")
	c.Set("user_id", uint64(12))

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}
	if key := rateKey(cfg, c); key != "rl:ip:10.0.0.9" {
		t.Fatalf("ip strategy: got %q", key)
	}

	cfg.KeyStrategy = "user"
	if key := rateKey(cfg, c); key != "rl:user:12" {
		t.Fatalf("user strategy: got %q", key)
	}

	cfg.KeyStrategy = "anything-else"
	key := rateKey(cfg, c)
	for _, part := range []string{"ip:10.0.0.9", "user:12", "route:GET /api/match"} {
		if !strings.Contains(key, part) {
			t.Fatalf("default strategy key %q missing %q", key, part)
		}
	}
}

func TestRateKeyAnonymousUser(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	if key := rateKey(cfg, c); key != "rl:user:anon" {
		t.Fatalf("expected anon key, got %q", key)
	}
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := RateLimit(config.RateLimitConfig{Enabled: false}, nil)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("disabled limiter must pass requests through")
	}
}
