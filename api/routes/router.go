// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"seatgrid/internal/holds"
	"seatgrid/internal/layouts"
	"seatgrid/internal/pricing"
	"seatgrid/internal/seating"
	"seatgrid/internal/shared/config"
	"seatgrid/internal/shared/database"
	"seatgrid/internal/stream"
	"seatgrid/internal/tiers"
	"seatgrid/pkg/cache"
	"seatgrid/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer stream.Producer
	logger   *logger.Logger

	// Services shared across packages and with main (sweep job)
	cacheService   cache.Service
	tierRepo       tiers.Repository
	layoutService  layouts.Service
	pricingService pricing.Service
	seatingService seating.Service
	holdService    holds.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer stream.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
		logger:   logger.GetDefault(),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Services are wired bottom-up: tiers and layouts feed seating, which
	// feeds holds; pricing sits beside seating and is consumed by it.
	r.buildServices()

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		tiers.SetupTierRoutes(api, tiers.NewController(r.tierService()))
		layouts.SetupLayoutRoutes(api, layouts.NewController(r.layoutService))
		pricing.SetupPricingRoutes(api, pricing.NewController(r.pricingService))
		seating.SetupSeatingRoutes(api, seating.NewController(r.seatingService))
		holds.SetupHoldRoutes(api, holds.NewController(r.holdService), r.config)
	}
}

func (r *Router) buildServices() {
	pg := r.db.GetPostgreSQL()
	r.cacheService = cache.NewService(r.db.GetRedisClient())

	r.tierRepo = tiers.NewRepository(pg)
	r.layoutService = layouts.NewService(layouts.NewRepository(pg), r.cacheService)
	r.pricingService = pricing.NewService(pricing.NewRepository(pg), r.logger)

	seatingRepo := seating.NewRepository(pg)
	r.seatingService = seating.NewService(seatingRepo, r.layoutService, r.tierRepo,
		r.pricingService, r.cacheService, r.producer, r.logger, r.config.Redis.SeatMapTTL)

	holdRepo := holds.NewRepository(pg, seatingRepo)
	r.holdService = holds.NewService(holdRepo, r.seatingService, r.producer, r.logger, r.config.Holds)
}

func (r *Router) tierService() tiers.Service {
	return tiers.NewService(r.tierRepo, r.cacheService)
}

// HoldService exposes the hold manager so main can start the expiry sweep.
func (r *Router) HoldService() holds.Service {
	return r.holdService
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "seatgrid",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "seatgrid",
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
