package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickpay/internal/application/payment/paymentgateway"
	"quickpay/internal/application/payment/usecases"
	apperrors "quickpay/internal/shared/errors"
	"quickpay/internal/shared/logger"
	"quickpay/internal/shared/utils"
)

type OrderHandler struct {
	createOrderUC createOrderUseCase
	logger        logger.Interface
}

func NewOrderHandler(createOrderUC createOrderUseCase, logger logger.Interface) *OrderHandler {
	return &OrderHandler{
		createOrderUC: createOrderUC,
		logger:        logger,
	}
}

type CreateOrderRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0" example:"500"`
	Currency string  `json:"currency" binding:"omitempty,len=3,alpha" example:"INR"`
}

// GatewayErrorResponse forwards a gateway failure to the client.
type GatewayErrorResponse struct {
	StatusCode int              `json:"statusCode"`
	Error      GatewayErrorBody `json:"error"`
}

type GatewayErrorBody struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// @Summary		Create order
// @Description	Create a gateway order for the given amount in major units
// @Tags			orders
// @Accept			json
// @Produce		json
// @Param			Idempotency-Key	header		string					false	"Replays the first response for a repeated key"
// @Param			order			body		CreateOrderRequest		true	"Order data"
// @Success		200				{object}	map[string]interface{}	"Gateway order merged with key_id"
// @Failure		400				{object}	utils.APIResponse		"Bad request"
// @Failure		409				{object}	utils.APIResponse		"Idempotency key conflict"
// @Failure		429				{object}	utils.APIResponse		"Rate limit exceeded"
// @Failure		500				{object}	GatewayErrorResponse	"Gateway error"
// @Router			/create-order [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	cmd := usecases.CreateOrderCommand{
		AmountMajor: req.Amount,
		Currency:    req.Currency,
	}

	result, err := h.createOrderUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result.Payload)
}

func (h *OrderHandler) handleError(c *gin.Context, err error) {
	var gwErr *paymentgateway.GatewayError
	if errors.As(err, &gwErr) {
		statusCode := gwErr.StatusCode
		if statusCode == 0 {
			statusCode = http.StatusInternalServerError
		}
		c.JSON(gwErr.HTTPStatus(), GatewayErrorResponse{
			StatusCode: statusCode,
			Error: GatewayErrorBody{
				Code:        gwErr.Code,
				Description: gwErr.Description,
			},
		})
		return
	}

	if apperrors.GetAppError(err) == nil {
		h.logger.Errorw("failed to create order", "error", err)
	}
	utils.ErrorResponseWithError(c, err)
}
