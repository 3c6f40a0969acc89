package tiers

import (
	"seatgrid/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTierRoutes(router *gin.RouterGroup, controller Controller) {
	tiers := router.Group("/tiers")
	tiers.Use(middleware.RequireTenant())
	{
		tiers.POST("", controller.CreateTier)           // POST /api/v1/tiers - Create price tier
		tiers.GET("", controller.GetAllTiers)           // GET /api/v1/tiers - List tiers (with filters)
		tiers.GET("/active", controller.GetActiveTiers) // GET /api/v1/tiers/active - Active tiers, cached
		tiers.GET("/:id", controller.GetTier)           // GET /api/v1/tiers/:id - Get tier by ID
		tiers.PUT("/:id", controller.UpdateTier)        // PUT /api/v1/tiers/:id - Update tier
	}
}
