package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Load .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/railway-ticket-reservation/internal/booking"
	"github.com/iliyamo/railway-ticket-reservation/internal/config"
	"github.com/iliyamo/railway-ticket-reservation/internal/database"
	"github.com/iliyamo/railway-ticket-reservation/internal/handler"
	"github.com/iliyamo/railway-ticket-reservation/internal/queue"
	"github.com/iliyamo/railway-ticket-reservation/internal/repository"
	"github.com/iliyamo/railway-ticket-reservation/internal/router"
	queue_publisher "github.com/iliyamo/railway-ticket-reservation/internal/service"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	seatRepo := repository.NewSeatRepo(db)
	store := booking.NewStore(seatRepo)
	tickets := handler.NewTicketHandler(store, seatRepo, queue_publisher.PublishTicketsBooked)

	// Background consumer appends committed bookings to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterTickets(e, tickets, rdb)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
