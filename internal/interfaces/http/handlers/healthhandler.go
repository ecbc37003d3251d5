package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickpay/internal/shared/utils"
)

type HealthHandler struct {
	gateway string
}

// NewHealthHandler reports gatewayName in health responses.
func NewHealthHandler(gatewayName string) *HealthHandler {
	return &HealthHandler{gateway: gatewayName}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Gateway string `json:"gateway"`
}

// @Summary		Health check
// @Description	Report service liveness and the active payment gateway
// @Tags			health
// @Produce		json
// @Success		200	{object}	utils.APIResponse{data=HealthResponse}	"Service is healthy"
// @Router			/health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", HealthResponse{
		Status:  "ok",
		Gateway: h.gateway,
	})
}
