package handler

import (
	"net/http"
	"testing"

	"github.com/futsalhq/stadium-booking/internal/config"
)

func TestSignupValidation(t *testing.T) {
	h := NewAuthHandler(config.Config{}, nil, nil)

	cases := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing password", `{"email":"a@b.com","name":"A"}`},
		{"missing name", `{"email":"a@b.com","password":"pw"}`},
		{"missing email", `{"password":"pw","name":"A"}`},
		{"bad birth format", `{"email":"a@b.com","password":"pw","name":"A","birth":"14-03-2026"}`},
		{"not json", `email=a@b.com`},
	}
	for _, tc := range cases {
		c, rec := newJSONContext(t, http.MethodPost, "/api/user/signup", tc.body)
		if err := h.Signup(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestSigninValidation(t *testing.T) {
	h := NewAuthHandler(config.Config{}, nil, nil)
	c, rec := newJSONContext(t, http.MethodPost, "/api/user/signin", `{"email":"a@b.com"}`)
	if err := h.Signin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDetailRequiresPassword(t *testing.T) {
	h := NewAuthHandler(config.Config{}, nil, nil)
	c, rec := newJSONContext(t, http.MethodPost, "/api/user/detail", `{}`)
	c.Set("user_id", uint64(1))
	if err := h.Detail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestParseBirth(t *testing.T) {
	if b, err := parseBirth(""); err != nil || b != nil {
		t.Fatalf("empty birth should be nil, got %v %v", b, err)
	}
	b, err := parseBirth("1999-12-31")
	if err != nil {
		t.Fatalf("valid birth: %v", err)
	}
	if b.Year() != 1999 || b.Month() != 12 || b.Day() != 31 {
		t.Fatalf("parsed wrong date: %v", b)
	}
	if _, err := parseBirth("31/12/1999"); err == nil {
		t.Fatal("expected error for slashed date")
	}
}
