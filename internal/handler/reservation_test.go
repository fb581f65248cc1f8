package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var m map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("response is not a JSON error body: %v", err)
	}
	return m["error"]
}

func TestReservationCreateRequiresAuth(t *testing.T) {
	h := NewReservationHandler(nil, nil, nil)
	c, rec := newJSONContext(t, http.MethodPost, "/api/reservation", `{"match_id":1}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestReservationCreateRequiresMatchID(t *testing.T) {
	h := NewReservationHandler(nil, nil, nil)
	c, rec := newJSONContext(t, http.MethodPost, "/api/reservation", `{}`)
	c.Set("user_id", uint64(1))
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestReservationUpdateRejectsBothFields(t *testing.T) {
	h := NewReservationHandler(nil, nil, nil)
	c, rec := newJSONContext(t, http.MethodPut, "/api/reservation/3", `{"match_id":5,"status":"cancelled"}`)
	c.SetParamNames("id")
	c.SetParamValues("3")
	c.Set("user_id", uint64(1))
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when both fields change, got %d", rec.Code)
	}
}

func TestReservationUpdateRejectsNoFields(t *testing.T) {
	h := NewReservationHandler(nil, nil, nil)
	c, rec := newJSONContext(t, http.MethodPut, "/api/reservation/3", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("3")
	c.Set("user_id", uint64(1))
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when nothing changes, got %d", rec.Code)
	}
}

func TestReservationUpdateRejectsUnknownStatus(t *testing.T) {
	h := NewReservationHandler(nil, nil, nil)
	c, rec := newJSONContext(t, http.MethodPut, "/api/reservation/3", `{"status":"paused"}`)
	c.SetParamNames("id")
	c.SetParamValues("3")
	c.Set("user_id", uint64(1))
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := errorBody(t, rec); !strings.Contains(msg, "status") {
		t.Fatalf("error should mention status, got %q", msg)
	}
}

func TestReservationUpdateRejectsBadID(t *testing.T) {
	h := NewReservationHandler(nil, nil, nil)
	c, rec := newJSONContext(t, http.MethodPut, "/api/reservation/abc", `{"status":"cancelled"}`)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	c.Set("user_id", uint64(1))
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-numeric id, got %d", rec.Code)
	}
}
