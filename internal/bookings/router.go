package bookings

import (
	"parkly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking ledger routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin))
	{
		bookings.POST("/reserve/:spotId", controller.ReserveBooking)    // POST /api/v1/bookings/reserve/:spotId
		bookings.DELETE("/cancel/:bookingId", controller.CancelBooking) // DELETE /api/v1/bookings/cancel/:bookingId
		bookings.GET("/my-reservations", controller.MyReservations)     // GET /api/v1/bookings/my-reservations
		bookings.GET("/:bookingId", controller.GetBooking)              // GET /api/v1/bookings/:bookingId
	}
}
