package system

import (
	"parkly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSystemRoutes configures the operational routes
func SetupSystemRoutes(rg *gin.RouterGroup, controller Controller) {
	sys := rg.Group("/system")
	{
		// Sweep trigger is reserved for the scheduler's service token
		internal := sys.Group("")
		internal.Use(middleware.JWTAuth(), middleware.RequireInternal())
		{
			internal.POST("/refresh-availability", controller.RefreshAvailability) // POST /api/v1/system/refresh-availability
		}

		sys.GET("/stats", controller.GetStats) // GET /api/v1/system/stats
	}
}
