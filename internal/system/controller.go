package system

import (
	"net/http"

	"parkly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	RefreshAvailability(c *gin.Context)
	GetStats(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// RefreshAvailability handles POST /api/v1/system/refresh-availability
func (ctrl *controller) RefreshAvailability(c *gin.Context) {
	result, err := ctrl.service.RefreshAvailability(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to refresh availability", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Availability refreshed successfully", result, nil)
}

// GetStats handles GET /api/v1/system/stats
func (ctrl *controller) GetStats(c *gin.Context) {
	stats, err := ctrl.service.GetStats(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to get stats", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Stats retrieved successfully", stats, nil)
}
