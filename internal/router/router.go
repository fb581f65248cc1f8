// Package router maps URLs to handlers and applies the auth middleware
// chain. Routes are grouped by access level: public, authenticated and
// admin.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/futsalhq/stadium-booking/internal/config"
	"github.com/futsalhq/stadium-booking/internal/handler"
	"github.com/futsalhq/stadium-booking/internal/middleware"
	"github.com/futsalhq/stadium-booking/internal/repository"
)

// Deps carries everything route registration needs.
type Deps struct {
	Cfg   config.Config
	Redis *redis.Client
	Users *repository.UserRepo

	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Stadium     *handler.StadiumHandler
	SubField    *handler.SubFieldHandler
	Match       *handler.MatchHandler
	Reservation *handler.ReservationHandler
	Upload      *handler.UploadHandler
	Search      *handler.SearchHandler
}

// Register wires every route under /api plus the static uploads dir.
// The rate limiter covers every API route except /health; on authenticated
// groups it is installed after JWTAuth so per-user key strategies see the
// resolved user id instead of "anon". The response cache covers only the
// public read endpoints, where staleness is tolerable.
func Register(e *echo.Echo, d Deps) {
	rl := middleware.RateLimit(config.LoadRateLimitConfig(), d.Redis)
	e.Static("/uploads", d.Cfg.UploadDir)

	api := e.Group("/api")
	api.GET("/health", handler.Health)

	registerPublic(api, d, rl)
	registerUser(api, d, rl)
	registerAdmin(api, d, rl)
}
