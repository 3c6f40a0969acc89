package layouts

import (
	"seatgrid/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupLayoutRoutes(router *gin.RouterGroup, controller Controller) {
	layouts := router.Group("/layouts")
	layouts.Use(middleware.RequireTenant())
	{
		layouts.POST("", controller.CreateLayout)              // POST /api/v1/layouts - Create draft layout
		layouts.GET("", controller.ListLayouts)                // GET /api/v1/layouts - List layouts
		layouts.GET("/:id", controller.GetLayout)              // GET /api/v1/layouts/:id - Get layout with seats
		layouts.PUT("/:id", controller.UpdateLayout)           // PUT /api/v1/layouts/:id - Update draft metadata
		layouts.POST("/:id/publish", controller.PublishLayout) // POST /api/v1/layouts/:id/publish - Freeze layout
		layouts.POST("/:id/archive", controller.ArchiveLayout) // POST /api/v1/layouts/:id/archive - Retire layout
		layouts.POST("/:id/clone", controller.CloneLayout)     // POST /api/v1/layouts/:id/clone - Copy to new draft
	}
}
