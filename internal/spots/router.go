package spots

import (
	"parkly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSpotRoutes configures all spot registry routes
func SetupSpotRoutes(rg *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse listed spots
	publicSpots := rg.Group("/spots")
	{
		publicSpots.GET("", controller.ListAvailableSpots)                  // GET /api/v1/spots
		publicSpots.GET("/:spotId", controller.GetSpot)                     // GET /api/v1/spots/:spotId
		publicSpots.GET("/:spotId/availability", controller.GetAvailability) // GET /api/v1/spots/:spotId/availability
	}

	// Owner routes - manage own spots
	ownerSpots := rg.Group("/spots")
	ownerSpots.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleOwner, middleware.RoleAdmin))
	{
		ownerSpots.POST("", controller.CreateSpot)           // POST /api/v1/spots
		ownerSpots.GET("/mine", controller.ListMySpots)      // GET /api/v1/spots/mine
		ownerSpots.PUT("/:spotId", controller.UpdateSpot)    // PUT /api/v1/spots/:spotId
		ownerSpots.DELETE("/:spotId", controller.DeleteSpot) // DELETE /api/v1/spots/:spotId
	}
}
