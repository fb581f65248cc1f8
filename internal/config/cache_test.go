package config

import (
	"testing"
	"time"
)

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, Post ,HEAD")
	for _, want := range []string{"GET", "POST", "HEAD"} {
		if !m[want] {
			t.Errorf("expected %s to be cacheable", want)
		}
	}
	if m["PUT"] {
		t.Error("PUT must not be cacheable")
	}
	if len(parseMethods("")) != 0 {
		t.Error("empty list must parse to no methods")
	}
}

func TestParseDur(t *testing.T) {
	if d := parseDur("45s"); d != 45*time.Second {
		t.Fatalf("got %v", d)
	}
	if d := parseDur("bogus"); d != time.Second {
		t.Fatalf("bad input should fall back to one second, got %v", d)
	}
}

func TestLoadRateLimitConfigNormalizes(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "0s")
	t.Setenv("RATE_LIMIT_TTL", "1ms")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity < 1 {
		t.Fatalf("capacity must be normalized up, got %d", cfg.Capacity)
	}
	if cfg.RefillTokens < 1 {
		t.Fatalf("refill tokens must be normalized up, got %d", cfg.RefillTokens)
	}
	if cfg.RefillInterval <= 0 {
		t.Fatalf("refill interval must be positive, got %v", cfg.RefillInterval)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Fatalf("ttl %v must cover several refill intervals", cfg.TTL)
	}
}
