package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestMatchByDateValidation(t *testing.T) {
	h := NewMatchHandler(nil)

	for _, q := range []string{"", "?date=14-03-2026", "?date=notadate"} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/match"+q, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := h.ByDate(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestMatchCreateValidation(t *testing.T) {
	h := NewMatchHandler(nil)

	cases := []struct {
		name string
		body string
	}{
		{"missing sub_field_id", `{"starts_at":"2026-09-01T18:00:00Z","maximum_players":10}`},
		{"missing starts_at", `{"sub_field_id":1,"maximum_players":10}`},
		{"missing maximum_players", `{"sub_field_id":1,"starts_at":"2026-09-01T18:00:00Z"}`},
		{"min exceeds max", `{"sub_field_id":1,"starts_at":"2026-09-01T18:00:00Z","minimum_players":12,"maximum_players":10}`},
	}
	for _, tc := range cases {
		c, rec := newJSONContext(t, http.MethodPost, "/api/match", tc.body)
		if err := h.Create(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestMatchUpdateRejectsInvertedPlayerBounds(t *testing.T) {
	h := NewMatchHandler(nil)

	cases := []struct {
		name string
		body string
	}{
		{"min exceeds max", `{"minimum_players":12,"maximum_players":10}`},
		{"zero max", `{"maximum_players":0}`},
	}
	for _, tc := range cases {
		c, rec := newJSONContext(t, http.MethodPut, "/api/match/4", tc.body)
		c.SetParamNames("id")
		c.SetParamValues("4")
		if err := h.Update(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestMatchUpdateRejectsUnknownStatus(t *testing.T) {
	h := NewMatchHandler(nil)
	c, rec := newJSONContext(t, http.MethodPut, "/api/match/4", `{"status":"postponed"}`)
	c.SetParamNames("id")
	c.SetParamValues("4")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
