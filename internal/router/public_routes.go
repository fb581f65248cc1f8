package router

import (
	"github.com/labstack/echo/v4"

	"github.com/futsalhq/stadium-booking/internal/config"
	"github.com/futsalhq/stadium-booking/internal/middleware"
)

// registerPublic wires the guest-reachable endpoints: signup/signin, match
// and stadium browsing, and keyword search. Browse GETs sit behind the
// Redis response cache.
func registerPublic(api *echo.Group, d Deps, rl echo.MiddlewareFunc) {
	pub := api.Group("", rl)
	pub.POST("/user/signup", d.Auth.Signup)
	pub.POST("/user/signin", d.Auth.Signin)
	pub.POST("/user/logout", d.Auth.Logout)
	pub.POST("/user/refresh", d.Auth.Refresh)

	browse := pub.Group("", middleware.ResponseCache(config.LoadCacheConfig(), d.Redis))
	browse.GET("/match", d.Match.ByDate)
	browse.GET("/match/all", d.Match.ListAll)
	browse.GET("/match/:id", d.Match.Get)
	browse.GET("/stadium", d.Stadium.List)
	browse.GET("/stadium/subField/:id", d.SubField.Get)
	browse.GET("/stadium/:id", d.Stadium.Get)
	browse.GET("/search", d.Search.Search)
}
