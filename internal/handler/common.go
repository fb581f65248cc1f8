package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/repository"
)

// reqCtx derives a bounded context for database work from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// currentUserID reads the authenticated user ID placed in the context by the
// JWT middleware.
func currentUserID(c echo.Context) (uint64, bool) {
	uid, ok := c.Get("user_id").(uint64)
	return uid, ok
}

// pathID parses the :id route parameter as an unsigned integer.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// isAdmin reports whether the user's stored role is "admin". The role is
// read from the database on every call so demotions apply immediately.
func isAdmin(ctx context.Context, users *repository.UserRepo, uid uint64) bool {
	u, err := users.GetByID(ctx, uid)
	return err == nil && u.Role == "admin"
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
