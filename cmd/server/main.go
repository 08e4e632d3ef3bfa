package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/bookmyvenue/venue-booking/internal/config"
	"github.com/bookmyvenue/venue-booking/internal/database"
	"github.com/bookmyvenue/venue-booking/internal/handler"
	"github.com/bookmyvenue/venue-booking/internal/middleware"
	"github.com/bookmyvenue/venue-booking/internal/queue"
	"github.com/bookmyvenue/venue-booking/internal/repository"
	"github.com/bookmyvenue/venue-booking/internal/router"
	queuepublisher "github.com/bookmyvenue/venue-booking/internal/service"
)

func main() {
	// Load .env when present; in production the variables come from the
	// environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the public browse endpoints simply
	// run uncached and unlimited.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiter disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	venues := repository.NewVenueRepo(db)
	bookings := repository.NewBookingRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	bookingH := handler.NewBookingHandler(bookings, venues, users, queuepublisher.PublishBookingEvent)
	ownerBookingH := handler.NewOwnerBookingHandler(bookings, queuepublisher.PublishBookingEvent)
	venueH := handler.NewVenueHandler(venues)
	adminH := handler.NewAdminHandler(venues)
	browseH := handler.NewBrowseHandler(venues)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)

	var publicMW []echo.MiddlewareFunc
	if rdb != nil {
		publicMW = append(publicMW,
			middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
			middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		)
	}
	router.RegisterPublic(e, browseH, publicMW...)
	router.RegisterCustomer(e, bookingH, cfg.JWTSecret)
	router.RegisterOwner(e, venueH, ownerBookingH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Background consumer writing booking lifecycle events to
	// logs/booking.log.  It reconnects on its own; a missing broker
	// never blocks startup.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
