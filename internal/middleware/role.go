package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/repository"
)

// RequireAdmin restricts a route to users whose stored role is "admin".
// The role lives only in the users table, never in the token, so a role
// change takes effect on the next request without reissuing tokens. This
// middleware must run after JWTAuth.
func RequireAdmin(users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := c.Get("user_id").(uint64)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByID(ctx, uid)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			if u.Role != "admin" {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin only"})
			}
			c.Set("role", u.Role)
			return next(c)
		}
	}
}
