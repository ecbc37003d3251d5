package paymentgateway

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// MockGateway fabricates orders locally. It backs `razorpay.mock: true`.
type MockGateway struct {
	shouldSucceed bool
	seq           atomic.Int64
}

func NewMockGateway(shouldSucceed bool) *MockGateway {
	return &MockGateway{shouldSucceed: shouldSucceed}
}

func (m *MockGateway) Name() string {
	return "mock"
}

func (m *MockGateway) CreateOrder(ctx context.Context, req CreateOrderRequest) (*GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !m.shouldSucceed {
		return nil, &GatewayError{
			StatusCode:  400,
			Code:        "BAD_REQUEST_ERROR",
			Description: "mock gateway rejected the order",
		}
	}

	id := fmt.Sprintf("order_mock%010d", m.seq.Add(1))
	notes := make(map[string]any, len(req.Notes))
	for k, v := range req.Notes {
		notes[k] = v
	}

	return &GatewayOrder{
		ID:       id,
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
		Raw: map[string]any{
			"id":          id,
			"entity":      "order",
			"amount":      req.Amount,
			"amount_paid": 0,
			"amount_due":  req.Amount,
			"currency":    req.Currency,
			"receipt":     req.Receipt,
			"status":      "created",
			"attempts":    0,
			"notes":       notes,
			"created_at":  time.Now().Unix(),
		},
	}, nil
}
