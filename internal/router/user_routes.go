package router

import (
	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/middleware"
)

// registerUser wires the endpoints that need a signed-in user. Ownership
// checks beyond authentication happen in the handlers, since several of
// these routes are also usable by admins on other users' resources.
func registerUser(api *echo.Group, d Deps, rl echo.MiddlewareFunc) {
	g := api.Group("", middleware.JWTAuth(d.Cfg.JWTSecret), rl)

	g.GET("/user/get-user", d.Auth.GetUser)
	g.POST("/user/detail", d.Auth.Detail)
	g.GET("/user/:id", d.User.Get)
	g.PUT("/user/:id", d.User.Update)
	g.DELETE("/user/:id", d.User.Delete)

	g.POST("/reservation", d.Reservation.Create)
	g.GET("/reservation/my", d.Reservation.My)
	g.GET("/reservation/:id", d.Reservation.Get)
	g.PUT("/reservation/:id", d.Reservation.Update)
	g.DELETE("/reservation/:id", d.Reservation.Delete)

	g.POST("/upload/profile", d.Upload.Profile)
}
