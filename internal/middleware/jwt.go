package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/utils"
)

// JWTAuth validates the access token on protected routes. The token is read
// from the "token" cookie first, then from an Authorization Bearer header.
// A request with no token at all gets 401; a token that fails verification
// gets 403. On success the numeric user ID is stored in the context under
// "user_id" for handlers and downstream middleware.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if ck, err := c.Cookie("token"); err == nil && ck.Value != "" {
				raw = ck.Value
			} else if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				raw = strings.TrimPrefix(auth, "Bearer ")
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			uid, err := utils.VerifyAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", uid)
			return next(c)
		}
	}
}
