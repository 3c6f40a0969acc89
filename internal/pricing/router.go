package pricing

import (
	"seatgrid/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPricingRoutes(router *gin.RouterGroup, controller Controller) {
	rules := router.Group("/rules")
	rules.Use(middleware.RequireTenant())
	{
		rules.POST("", controller.CreateRule)         // POST /api/v1/rules - Create pricing rule
		rules.GET("/:id", controller.GetRule)         // GET /api/v1/rules/:id - Get rule by ID
		rules.PATCH("/:id", controller.SetRuleActive) // PATCH /api/v1/rules/:id - Activate/deactivate
	}

	overrides := router.Group("/overrides")
	overrides.Use(middleware.RequireTenant())
	{
		overrides.POST("", controller.CreateOverride) // POST /api/v1/overrides - Manual price override
	}

	seatings := router.Group("/seatings/:seatingId")
	seatings.Use(middleware.RequireTenant())
	{
		seatings.GET("/rules", controller.ListRules)               // GET /api/v1/seatings/:seatingId/rules
		seatings.POST("/rules/evaluate", controller.EvaluateRules) // POST /api/v1/seatings/:seatingId/rules/evaluate
		seatings.GET("/overrides", controller.ListOverrides)       // GET /api/v1/seatings/:seatingId/overrides
	}
}
