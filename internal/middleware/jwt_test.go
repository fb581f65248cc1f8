package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/utils"
)

const testSecret = "test-secret"

func runJWT(t *testing.T, decorate func(*http.Request)) (*httptest.ResponseRecorder, uint64, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUID uint64
	var called bool
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		called = true
		gotUID, _ = c.Get("user_id").(uint64)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, gotUID, called
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec, _, called := runJWT(t, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if called {
		t.Fatal("next handler must not run without a token")
	}
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec, _, called := runJWT(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer garbage")
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a present but invalid token, got %d", rec.Code)
	}
	if called {
		t.Fatal("next handler must not run with an invalid token")
	}
}

func TestJWTAuthBearerToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 99, 1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rec, uid, called := runJWT(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tok.Token)
	})
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("expected 200 and handler call, got %d called=%v", rec.Code, called)
	}
	if uid != 99 {
		t.Fatalf("expected user_id 99 in context, got %d", uid)
	}
}

func TestJWTAuthCookieToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, 1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rec, uid, called := runJWT(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "token", Value: tok.Token})
	})
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("expected 200 and handler call, got %d called=%v", rec.Code, called)
	}
	if uid != 7 {
		t.Fatalf("expected user_id 7 in context, got %d", uid)
	}
}

func TestJWTAuthCookieBeatsHeader(t *testing.T) {
	cookieTok, err := utils.NewAccessToken(testSecret, 1, 1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	headerTok, err := utils.NewAccessToken(testSecret, 2, 1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	_, uid, _ := runJWT(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "token", Value: cookieTok.Token})
		r.Header.Set("Authorization", "Bearer "+headerTok.Token)
	})
	if uid != 1 {
		t.Fatalf("cookie token should win, got user %d", uid)
	}
}
