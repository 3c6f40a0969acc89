package holds

import (
	"seatgrid/internal/shared/config"
	"seatgrid/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupHoldRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	holds := router.Group("/seatings/:seatingId/holds")
	holds.Use(middleware.SessionAuth(cfg))
	{
		holds.POST("", controller.HoldSeats)                  // POST /api/v1/seatings/:seatingId/holds - Hold a batch
		holds.GET("", controller.GetSessionHolds)             // GET /api/v1/seatings/:seatingId/holds - Session's holds
		holds.DELETE("/:seatUid", controller.ReleaseHold)     // DELETE /api/v1/seatings/:seatingId/holds/:seatUid
		holds.POST("/:seatUid/commit", controller.CommitHold) // POST /api/v1/seatings/:seatingId/holds/:seatUid/commit
	}
}
