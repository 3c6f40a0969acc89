package seating

import (
	"seatgrid/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSeatingRoutes(router *gin.RouterGroup, controller Controller) {
	seatings := router.Group("/seatings")
	seatings.Use(middleware.RequireTenant())
	{
		seatings.POST("", controller.CreateSnapshot)                                // POST /api/v1/seatings - Snapshot a published layout
		seatings.GET("/by-event/:eventId", controller.GetSnapshotByEvent)           // GET /api/v1/seatings/by-event/:eventId
		seatings.GET("/:seatingId", controller.GetSnapshot)                         // GET /api/v1/seatings/:seatingId
		seatings.GET("/:seatingId/seat-map", controller.GetSeatMap)                 // GET /api/v1/seatings/:seatingId/seat-map - Cached read model
		seatings.GET("/:seatingId/seats/:seatUid/price", controller.QuoteSeatPrice) // GET .../seats/:seatUid/price?at=RFC3339

		// Operator withholding
		seatings.POST("/:seatingId/seats/block", controller.BlockSeats)
		seatings.POST("/:seatingId/seats/unblock", controller.UnblockSeats)
		seatings.POST("/:seatingId/seats/disable", controller.DisableSeats)
		seatings.POST("/:seatingId/seats/enable", controller.EnableSeats)
		seatings.POST("/:seatingId/seats/block-by-location", controller.BlockSeatsByLocation)
	}
}
