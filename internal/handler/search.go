package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/repository"
)

// SearchHandler serves keyword search over stadiums.
type SearchHandler struct {
	Stadiums *repository.StadiumRepo
}

func NewSearchHandler(s *repository.StadiumRepo) *SearchHandler {
	return &SearchHandler{Stadiums: s}
}

// Search matches the keyword case-insensitively against stadium name and
// location columns. An empty keyword returns an empty list rather than the
// whole table.
func (h *SearchHandler) Search(c echo.Context) error {
	keyword := strings.TrimSpace(c.QueryParam("keyword"))
	if keyword == "" {
		return c.JSON(http.StatusOK, []repository.SearchRow{})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	rows, err := h.Stadiums.Search(ctx, keyword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, rows)
}
