package bookings

import (
	"errors"
	"net/http"

	"parkly/internal/shared/middleware"
	"parkly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller interface {
	ReserveBooking(c *gin.Context)
	CancelBooking(c *gin.Context)
	MyReservations(c *gin.Context)
	GetBooking(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// ReserveBooking handles POST /api/v1/bookings/reserve/:spotId
func (ctrl *controller) ReserveBooking(c *gin.Context) {
	spotID, err := uuid.Parse(c.Param("spotId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid spot ID", nil, err.Error())
		return
	}

	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// A failed binding tag on duration_hours is a policy rejection, not
		// a malformed body.
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.RespondError(c, http.StatusBadRequest, "invalid_duration", "Duration must be between 1 and 8 hours", verrs.Error())
			return
		}
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	reservation, err := ctrl.service.Reserve(c.Request.Context(), userID, spotID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDuration):
			response.RespondError(c, http.StatusBadRequest, Reason(err), "Duration must be between 1 and 8 hours", nil)
		case errors.Is(err, ErrSpotNotFound):
			response.RespondError(c, http.StatusNotFound, Reason(err), "Spot not found", nil)
		case errors.Is(err, ErrSpotNotListed), errors.Is(err, ErrSpotUnavailable):
			response.RespondError(c, http.StatusConflict, Reason(err), "Spot is not available for booking", nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to reserve spot", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Spot reserved successfully", reservation, nil)
}

// CancelBooking handles DELETE /api/v1/bookings/cancel/:bookingId
func (ctrl *controller) CancelBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	cancellation, err := ctrl.service.Cancel(c.Request.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondError(c, http.StatusNotFound, Reason(err), "Booking not found", nil)
		case errors.Is(err, ErrNotOwner):
			response.RespondError(c, http.StatusForbidden, Reason(err), "Booking does not belong to you", nil)
		case errors.Is(err, ErrAlreadyCancelled):
			response.RespondError(c, http.StatusBadRequest, Reason(err), "Booking is already cancelled", CancelResponse{
				BookingID: bookingID.String(),
				Status:    StatusCancelled,
				CanCancel: false,
			})
		case errors.Is(err, ErrAlreadyExpired):
			response.RespondError(c, http.StatusBadRequest, Reason(err), "Booking has already expired", CancelResponse{
				BookingID: bookingID.String(),
				Status:    StatusExpired,
				CanCancel: false,
			})
		case errors.Is(err, ErrWindowExpired):
			response.RespondError(c, http.StatusBadRequest, Reason(err), "Cancellation window has passed", CancelResponse{
				BookingID: bookingID.String(),
				Status:    StatusActive,
				CanCancel: false,
			})
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to cancel booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking cancelled successfully", cancellation, nil)
}

// MyReservations handles GET /api/v1/bookings/my-reservations
func (ctrl *controller) MyReservations(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	reservations, err := ctrl.service.ListMyReservations(c.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list reservations", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Reservations retrieved successfully", gin.H{
		"reservations": reservations,
		"count":        len(reservations),
	}, nil)
}

// GetBooking handles GET /api/v1/bookings/:bookingId
func (ctrl *controller) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.RespondError(c, http.StatusNotFound, Reason(err), "Booking not found", nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get booking", nil, err.Error())
		return
	}

	// Non-admin users can only see their own bookings
	roleValue, _ := c.Get("user_role")
	role, _ := roleValue.(string)
	if role != string(middleware.RoleAdmin) && booking.UserID != userID {
		response.RespondError(c, http.StatusForbidden, "forbidden", "Access denied", nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// callerID extracts the authenticated user's UUID set by the JWT middleware.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	userIDValue, exists := c.Get("user_id")
	if !exists {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", "User not authenticated", nil)
		return uuid.Nil, false
	}

	userIDStr, ok := userIDValue.(string)
	if !ok {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Invalid user ID format", nil, nil)
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid user ID", nil, nil)
		return uuid.Nil, false
	}

	return userID, true
}
