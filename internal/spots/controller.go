package spots

import (
	"errors"
	"net/http"

	"parkly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreateSpot(c *gin.Context)
	GetSpot(c *gin.Context)
	UpdateSpot(c *gin.Context)
	DeleteSpot(c *gin.Context)
	ListAvailableSpots(c *gin.Context)
	ListMySpots(c *gin.Context)
	GetAvailability(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateSpot(c *gin.Context) {
	var req CreateSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	spot, err := ctrl.service.CreateSpot(c.Request.Context(), ownerID, req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Spot created successfully", spot.ToResponse(), nil)
}

func (ctrl *controller) GetSpot(c *gin.Context) {
	spotID, err := uuid.Parse(c.Param("spotId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid spot ID", nil, err.Error())
		return
	}

	spot, err := ctrl.service.GetSpot(c.Request.Context(), spotID)
	if err != nil {
		if errors.Is(err, ErrSpotNotFound) {
			response.RespondError(c, http.StatusNotFound, "spot_not_found", "Spot not found", nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Spot retrieved successfully", spot.ToResponse(), nil)
}

func (ctrl *controller) UpdateSpot(c *gin.Context) {
	spotID, err := uuid.Parse(c.Param("spotId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid spot ID", nil, err.Error())
		return
	}

	var req UpdateSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	spot, err := ctrl.service.UpdateSpot(c.Request.Context(), spotID, ownerID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSpotNotFound):
			response.RespondError(c, http.StatusNotFound, "spot_not_found", "Spot not found", nil)
		case errors.Is(err, ErrNotOwner):
			response.RespondError(c, http.StatusForbidden, "forbidden", "Spot does not belong to you", nil)
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Spot updated successfully", spot.ToResponse(), nil)
}

func (ctrl *controller) DeleteSpot(c *gin.Context) {
	spotID, err := uuid.Parse(c.Param("spotId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid spot ID", nil, err.Error())
		return
	}

	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	err = ctrl.service.DeleteSpot(c.Request.Context(), spotID, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSpotNotFound):
			response.RespondError(c, http.StatusNotFound, "spot_not_found", "Spot not found", nil)
		case errors.Is(err, ErrNotOwner):
			response.RespondError(c, http.StatusForbidden, "forbidden", "Spot does not belong to you", nil)
		case errors.Is(err, ErrActiveBookingExists):
			response.RespondError(c, http.StatusConflict, "active_booking_exists", "Spot has an active booking and cannot be deleted", nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Spot deleted successfully", nil, nil)
}

func (ctrl *controller) ListAvailableSpots(c *gin.Context) {
	spots, err := ctrl.service.ListAvailableSpots(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list available spots", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Available spots retrieved successfully", gin.H{
		"spots": spots,
		"count": len(spots),
	}, nil)
}

func (ctrl *controller) ListMySpots(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	spots, err := ctrl.service.ListOwnerSpots(c.Request.Context(), ownerID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list spots", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Spots retrieved successfully", gin.H{
		"spots": spots,
		"count": len(spots),
	}, nil)
}

func (ctrl *controller) GetAvailability(c *gin.Context) {
	spotID, err := uuid.Parse(c.Param("spotId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid spot ID", nil, err.Error())
		return
	}

	available, err := ctrl.service.GetAvailability(c.Request.Context(), spotID)
	if err != nil {
		if errors.Is(err, ErrSpotNotFound) {
			response.RespondError(c, http.StatusNotFound, "spot_not_found", "Spot not found", nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Availability retrieved successfully", AvailabilityResponse{
		SpotID:      spotID.String(),
		IsAvailable: available,
	}, nil)
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
