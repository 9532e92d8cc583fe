package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/theatre-reservation/internal/booking"
	"github.com/iliyamo/theatre-reservation/internal/config"
	"github.com/iliyamo/theatre-reservation/internal/database"
	"github.com/iliyamo/theatre-reservation/internal/handler"
	"github.com/iliyamo/theatre-reservation/internal/middleware"
	"github.com/iliyamo/theatre-reservation/internal/queue"
	"github.com/iliyamo/theatre-reservation/internal/repository"
	"github.com/iliyamo/theatre-reservation/internal/router"
	queue_publisher "github.com/iliyamo/theatre-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	genres := repository.NewGenreRepo(db)
	actors := repository.NewActorRepo(db)
	plays := repository.NewPlayRepo(db)
	halls := repository.NewHallRepo(db)
	performances := repository.NewPerformanceRepo(db)
	reservations := repository.NewReservationRepo(db)

	engine := booking.NewEngine(reservations)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	catalogH := handler.NewCatalogHandler(genres, actors, plays, halls, performances)
	reservationH := handler.NewReservationHandler(engine, reservations, queue_publisher.PublishReservationCreated)

	// Redis backs the rate limiter and the response cache.  Both degrade
	// to no-ops when the server is unreachable.
	rdb := config.NewRedisClient()
	var limiter, cache echo.MiddlewareFunc
	if rdb != nil {
		if rl := config.LoadRateLimitConfig(); rl.Enabled {
			limiter = middleware.NewTokenBucket(rl, rdb)
		}
		if cc := config.LoadCacheConfig(); cc.Enabled {
			cache = middleware.NewRedisCache(cc, rdb)
		}
	} else {
		log.Printf("redis unavailable, rate limiting and response cache disabled")
	}

	e := echo.New()
	e.Use(echomw.Logger(), echomw.Recover())
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCatalog(e, catalogH, cfg.JWTSecret, cache)
	router.RegisterReservations(e, reservationH, cfg.JWTSecret, limiter)

	// Background consumer mirrors committed reservations into
	// logs/reservations.log.  It reconnects on its own and never stops
	// the server.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	// Expired refresh tokens are dead rows; sweep them daily.
	go func() {
		for {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if n, err := tokens.DeleteExpired(ctx, time.Now().UTC()); err != nil {
				log.Printf("refresh token sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("swept %d expired refresh tokens", n)
			}
			cancel()
			time.Sleep(24 * time.Hour)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
