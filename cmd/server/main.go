package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/futsalhq/stadium-booking/internal/config"
	"github.com/futsalhq/stadium-booking/internal/database"
	"github.com/futsalhq/stadium-booking/internal/handler"
	"github.com/futsalhq/stadium-booking/internal/queue"
	"github.com/futsalhq/stadium-booking/internal/repository"
	"github.com/futsalhq/stadium-booking/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; middleware degrades

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	stadiums := repository.NewStadiumRepo(db)
	subFields := repository.NewSubFieldRepo(db)
	matches := repository.NewMatchRepo(db)
	reservations := repository.NewReservationRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, router.Deps{
		Cfg:         cfg,
		Redis:       rdb,
		Users:       users,
		Auth:        handler.NewAuthHandler(cfg, users, tokens),
		User:        handler.NewUserHandler(users),
		Stadium:     handler.NewStadiumHandler(stadiums),
		SubField:    handler.NewSubFieldHandler(subFields),
		Match:       handler.NewMatchHandler(matches),
		Reservation: handler.NewReservationHandler(reservations, matches, users),
		Upload:      handler.NewUploadHandler(cfg, users, stadiums),
		Search:      handler.NewSearchHandler(stadiums),
	})

	go queue.StartReservationConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
