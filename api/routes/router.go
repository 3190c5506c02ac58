// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"parkly/internal/bookings"
	"parkly/internal/notifications"
	"parkly/internal/shared/config"
	"parkly/internal/shared/database"
	"parkly/internal/spots"
	"parkly/internal/system"
	"parkly/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	db           *database.DB
	cacheService cache.Service
	producer     notifications.Producer

	spotService    spots.Service
	bookingService bookings.Service
}

// NewRouter creates a new router instance. cacheService and producer may be
// nil; the services degrade to uncached, event-less operation.
func NewRouter(cfg *config.Config, db *database.DB, cacheService cache.Service, producer notifications.Producer) *Router {
	return &Router{
		config:       cfg,
		db:           db,
		cacheService: cacheService,
		producer:     producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Spot routes first so the listing cache can be handed to the ledger
		r.setupSpotRoutes(api)
		r.setupBookingRoutes(api)
		r.setupSystemRoutes(api)
	}
}

// BookingService exposes the ledger service for the expiry sweeper. Valid
// only after SetupRoutes.
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "parkly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "parkly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupSpotRoutes configures the spot registry routes
func (r *Router) setupSpotRoutes(rg *gin.RouterGroup) {
	spotRepo := spots.NewRepository(r.db.GetPostgreSQL())
	r.spotService = spots.NewService(spotRepo, r.cacheService, r.config.Redis.SpotListTTL)
	spotController := spots.NewController(r.spotService)

	spots.SetupSpotRoutes(rg, spotController)
}

// setupBookingRoutes configures the booking ledger routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	r.bookingService = bookings.NewService(bookingRepo, r.config.Booking, r.spotService, r.producer)
	bookingController := bookings.NewController(r.bookingService)

	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupSystemRoutes configures the operational routes
func (r *Router) setupSystemRoutes(rg *gin.RouterGroup) {
	systemRepo := system.NewRepository(r.db.GetPostgreSQL())
	systemService := system.NewService(systemRepo, r.bookingService, r.cacheService, r.config.Redis.StatsTTL)
	systemController := system.NewController(systemService)

	system.SetupSystemRoutes(rg, systemController)
}
