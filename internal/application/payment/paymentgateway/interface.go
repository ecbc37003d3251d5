package paymentgateway

import (
	"context"
	"fmt"
	"net/http"
)

// OrderGateway creates orders with the external payment gateway.
// Implementations must not retry: every call may create a billable order.
type OrderGateway interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*GatewayOrder, error)
	// Name identifies the gateway in logs and health output.
	Name() string
}

// CreateOrderRequest is the payload sent to the gateway.
type CreateOrderRequest struct {
	Amount   int64 // Amount in smallest currency unit (paise: 100 = 1 INR)
	Currency string
	Receipt  string
	Notes    map[string]string
}

// GatewayOrder is the order as reported by the gateway. Raw keeps every field
// the gateway returned so it can be forwarded to the client untouched.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
	Raw      map[string]any
}

// GatewayError carries an upstream failure so it can be forwarded verbatim.
type GatewayError struct {
	StatusCode  int
	Code        string
	Description string
	Err         error
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway error %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("gateway error: %s", e.Description)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// HTTPStatus is the status reported to clients; upstream 4xx from the
// gateway is still a server-side failure for our callers.
func (e *GatewayError) HTTPStatus() int {
	if e.StatusCode >= http.StatusInternalServerError {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}
