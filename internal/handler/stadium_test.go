package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestStadiumCreateRequiresName(t *testing.T) {
	h := NewStadiumHandler(nil)
	c, rec := newJSONContext(t, http.MethodPost, "/api/stadium", `{"city":"Seoul"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestStadiumCreateRejectsUnnamedSubField(t *testing.T) {
	h := NewStadiumHandler(nil)
	body := `{"name":"Arena","sub_fields":[{"width":20,"height":40}]}`
	c, rec := newJSONContext(t, http.MethodPost, "/api/stadium", body)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubFieldCreateValidation(t *testing.T) {
	h := NewSubFieldHandler(nil)

	cases := []struct {
		name string
		body string
	}{
		{"missing stadium_id", `{"field_name":"A"}`},
		{"missing field_name", `{"stadium_id":3}`},
	}
	for _, tc := range cases {
		c, rec := newJSONContext(t, http.MethodPost, "/api/stadium/subField", tc.body)
		if err := h.Create(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestSearchEmptyKeyword(t *testing.T) {
	h := NewSearchHandler(nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/search?keyword=", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected an empty list, got %s", body)
	}
}
