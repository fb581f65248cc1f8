package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/config"
)

func testCacheContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/match")
	return c
}

func TestCacheKeyStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}
	withQuery := testCacheContext("/api/match?date=2026-09-01")
	otherQuery := testCacheContext("/api/match?date=2026-09-02")

	if cacheKey(cfg, withQuery) != cacheKey(cfg, otherQuery) {
		t.Fatal("route strategy must ignore the query string")
	}

	cfg.KeyStrategy = "route_query"
	if cacheKey(cfg, withQuery) == cacheKey(cfg, otherQuery) {
		t.Fatal("route_query strategy must include the query string")
	}
}

func TestCacheKeyUsesPrefix(t *testing.T) {
	c := testCacheContext("/api/match")
	a := cacheKey(config.CacheConfig{Prefix: "one", KeyStrategy: "route"}, c)
	b := cacheKey(config.CacheConfig{Prefix: "two", KeyStrategy: "route"}, c)
	if a == b {
		t.Fatal("different prefixes must yield different keys")
	}
}

func TestResponseCacheDisabledPassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := ResponseCache(config.CacheConfig{Enabled: false}, nil)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("disabled cache must pass requests through")
	}
	if got := rec.Header().Get("X-Cache"); got != "" {
		t.Fatalf("disabled cache must not set X-Cache, got %q", got)
	}
}

func TestBodyRecorderHonorsLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	br := &bodyRecorder{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	if _, err := br.Write([]byte("abcd")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := br.Write([]byte("efgh")); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Client still receives everything.
	if rec.Body.String() != "abcdefgh" {
		t.Fatalf("client body truncated: %q", rec.Body.String())
	}
	// The capture buffer stops at the limit.
	if br.buf.String() != "abcd" {
		t.Fatalf("capture buffer exceeded the limit: %q", br.buf.String())
	}
	if br.size != 8 {
		t.Fatalf("size should track all written bytes, got %d", br.size)
	}
}
