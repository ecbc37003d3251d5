package usecases

import (
	"context"
	"fmt"

	"quickpay/internal/application/payment/paymentgateway"
	"quickpay/internal/domain/payment"
	vo "quickpay/internal/domain/payment/valueobjects"
	"quickpay/internal/shared/errors"
	"quickpay/internal/shared/logger"
)

type CreateOrderCommand struct {
	AmountMajor float64
	Currency    string
}

type CreateOrderResult struct {
	Order *payment.Order
	// Payload is the gateway order merged with key_id, ready to send to the client.
	Payload map[string]any
}

type receiptGenerator interface {
	Next() string
}

type CreateOrderUseCase struct {
	gateway  paymentgateway.OrderGateway
	receipts receiptGenerator
	logger   logger.Interface
	config   OrderConfig
}

type OrderConfig struct {
	// KeyID is the publishable key returned to clients. Never the secret.
	KeyID string
	Notes map[string]string
}

func NewCreateOrderUseCase(
	gateway paymentgateway.OrderGateway,
	receipts receiptGenerator,
	logger logger.Interface,
	config OrderConfig,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		gateway:  gateway,
		receipts: receipts,
		logger:   logger,
		config:   config,
	}
}

// Execute creates exactly one gateway order. Errors from the gateway are
// returned as *paymentgateway.GatewayError and are never retried.
func (uc *CreateOrderUseCase) Execute(ctx context.Context, cmd CreateOrderCommand) (*CreateOrderResult, error) {
	minor, err := vo.MajorToMinor(cmd.AmountMajor)
	if err != nil {
		return nil, errors.NewValidationError("invalid amount", err.Error())
	}

	currency, err := vo.ParseCurrency(cmd.Currency)
	if err != nil {
		return nil, errors.NewValidationError("invalid currency", err.Error())
	}

	req := paymentgateway.CreateOrderRequest{
		Amount:   minor,
		Currency: currency.String(),
		Receipt:  uc.receipts.Next(),
		Notes:    uc.config.Notes,
	}

	gwOrder, err := uc.gateway.CreateOrder(ctx, req)
	if err != nil {
		uc.logger.Errorw("failed to create order in gateway",
			"error", err,
			"gateway", uc.gateway.Name(),
			"receipt", req.Receipt,
			"amount", req.Amount,
		)
		return nil, err
	}

	amount, err := vo.AmountFromMinor(gwOrder.Amount)
	if err != nil {
		return nil, fmt.Errorf("gateway returned invalid order: %w", err)
	}

	receipt := gwOrder.Receipt
	if receipt == "" {
		receipt = req.Receipt
	}

	order, err := payment.NewOrder(gwOrder.ID, amount, vo.Currency(gwOrder.Currency), receipt, uc.config.KeyID)
	if err != nil {
		return nil, fmt.Errorf("gateway returned invalid order: %w", err)
	}

	payload := make(map[string]any, len(gwOrder.Raw)+1)
	for k, v := range gwOrder.Raw {
		payload[k] = v
	}
	payload["key_id"] = order.KeyID()

	uc.logger.Infow("order created successfully",
		"order_id", order.ID(),
		"receipt", order.Receipt(),
		"amount", order.Amount().Minor(),
		"currency", order.Currency(),
	)

	return &CreateOrderResult{
		Order:   order,
		Payload: payload,
	}, nil
}
