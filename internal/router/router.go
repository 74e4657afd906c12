package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework for routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/railway-ticket-reservation/internal/config"
	"github.com/iliyamo/railway-ticket-reservation/internal/handler"
	"github.com/iliyamo/railway-ticket-reservation/internal/middleware"
)

// RegisterRoutes registers routes that need no store access on the provided
// Echo instance.  Currently it exposes only a health check used by load
// balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterTickets registers the reservation endpoints.  The availability
// read sits behind the Redis response cache; the whole group sits behind
// the token-bucket rate limiter.  A nil Redis client disables both
// middlewares, leaving the endpoints fully functional.
func RegisterTickets(e *echo.Echo, t *handler.TicketHandler, rdb *redis.Client) {
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	g := e.Group("/v1", rl)
	// The structured-call contract consumed from the intent resolver.
	g.POST("/tools/call", t.HandleToolCall)
	// Native endpoints for the same two operations.
	g.GET("/tickets/availability", t.CheckAvailability, cache)
	g.POST("/tickets/book", t.BookSeats)
	// Inventory provisioning; seats must exist before bookings can.
	g.POST("/routes/seats", t.ProvisionSeats)
}
