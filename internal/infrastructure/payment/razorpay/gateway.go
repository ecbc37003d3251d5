// Package razorpay adapts the Razorpay orders API to paymentgateway.OrderGateway.
package razorpay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	rzpsdk "github.com/razorpay/razorpay-go"

	"quickpay/internal/application/payment/paymentgateway"
	"quickpay/internal/shared/logger"
)

const (
	gatewayName = "razorpay"

	defaultErrorCode = "GATEWAY_ERROR"
)

// orderCreator is the subset of the SDK order resource the gateway uses.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Gateway creates Razorpay orders. The key secret stays inside the SDK client.
type Gateway struct {
	orders orderCreator
	logger logger.Interface
}

// NewGateway creates a gateway authenticated with the given key pair.
func NewGateway(keyID, keySecret string, logger logger.Interface) *Gateway {
	client := rzpsdk.NewClient(keyID, keySecret)
	return newGateway(client.Order, logger)
}

func newGateway(orders orderCreator, logger logger.Interface) *Gateway {
	return &Gateway{
		orders: orders,
		logger: logger,
	}
}

// Ensure Gateway implements OrderGateway
var _ paymentgateway.OrderGateway = (*Gateway)(nil)

func (g *Gateway) Name() string {
	return gatewayName
}

// CreateOrder issues a single order request. The SDK call is not
// cancellable, so ctx is only checked before the request starts.
func (g *Gateway) CreateOrder(ctx context.Context, req paymentgateway.CreateOrderRequest) (*paymentgateway.GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		notes := make(map[string]interface{}, len(req.Notes))
		for k, v := range req.Notes {
			notes[k] = v
		}
		data["notes"] = notes
	}

	raw, err := g.orders.Create(data, nil)
	if err != nil {
		g.logger.Warnw("razorpay order request failed",
			"error", err,
			"receipt", req.Receipt,
		)
		return nil, toGatewayError(err)
	}

	order, err := parseOrder(raw)
	if err != nil {
		return nil, &paymentgateway.GatewayError{
			StatusCode:  http.StatusBadGateway,
			Code:        defaultErrorCode,
			Description: err.Error(),
			Err:         err,
		}
	}

	return order, nil
}

func parseOrder(raw map[string]interface{}) (*paymentgateway.GatewayOrder, error) {
	id, _ := raw["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("order response has no id")
	}

	amount, ok := toInt64(raw["amount"])
	if !ok {
		return nil, fmt.Errorf("order %s has invalid amount %v", id, raw["amount"])
	}

	currency, _ := raw["currency"].(string)
	receipt, _ := raw["receipt"].(string)
	status, _ := raw["status"].(string)

	return &paymentgateway.GatewayOrder{
		ID:       id,
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   status,
		Raw:      raw,
	}, nil
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), n == float64(int64(n))
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

// toGatewayError keeps the SDK message as the description. The SDK does not
// expose the upstream HTTP status, so the code is inferred from the message.
func toGatewayError(err error) *paymentgateway.GatewayError {
	desc := err.Error()
	code := defaultErrorCode
	lower := strings.ToLower(desc)
	switch {
	case strings.Contains(lower, "authentication"):
		code = "BAD_REQUEST_ERROR"
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "connection"):
		code = "SERVER_ERROR"
	}
	return &paymentgateway.GatewayError{
		StatusCode:  http.StatusInternalServerError,
		Code:        code,
		Description: desc,
		Err:         err,
	}
}
