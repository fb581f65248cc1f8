package utils

import (
	"errors"
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, 1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("expected a non-empty token")
	}

	uid, err := VerifyAccessToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if uid != 42 {
		t.Fatalf("expected subject 42, got %d", uid)
	}
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("secret", 7, 1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := VerifyAccessToken("other-secret", tok.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken("secret", 7, -1) // already expired
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := VerifyAccessToken("secret", tok.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyAccessTokenGarbage(t *testing.T) {
	if _, err := VerifyAccessToken("secret", "not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefreshTokenHashIsStable(t *testing.T) {
	ref, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	if len(ref.Raw) != 96 {
		t.Fatalf("expected 96 hex chars, got %d", len(ref.Raw))
	}
	if HashRefreshRaw(ref.Raw) != HashRefreshRaw(ref.Raw) {
		t.Fatal("hash must be deterministic")
	}
	other, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	if ref.Raw == other.Raw {
		t.Fatal("two refresh tokens must not collide")
	}
}
