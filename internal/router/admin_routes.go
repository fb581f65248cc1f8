package router

import (
	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/middleware"
)

// registerAdmin wires the management endpoints. Middleware order matters: a
// valid token first, the limiter keyed on that user, then the stored-role
// check against the users table.
func registerAdmin(api *echo.Group, d Deps, rl echo.MiddlewareFunc) {
	g := api.Group("",
		middleware.JWTAuth(d.Cfg.JWTSecret),
		rl,
		middleware.RequireAdmin(d.Users),
	)

	g.GET("/user/all", d.User.ListAll)

	g.POST("/stadium", d.Stadium.Create)
	g.PUT("/stadium/:id", d.Stadium.Update)
	g.DELETE("/stadium/:id", d.Stadium.Delete)

	g.POST("/stadium/subField", d.SubField.Create)
	g.PUT("/stadium/subField/:id", d.SubField.Update)
	g.DELETE("/stadium/subField/:id", d.SubField.Delete)

	g.POST("/match", d.Match.Create)
	g.PUT("/match/:id", d.Match.Update)
	g.DELETE("/match/:id", d.Match.Delete)

	g.GET("/reservation/all", d.Reservation.All)

	g.POST("/upload/stadium/:id", d.Upload.Stadium)
}
