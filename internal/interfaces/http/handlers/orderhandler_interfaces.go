package handlers

import (
	"context"

	"quickpay/internal/application/payment/usecases"
)

type createOrderUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateOrderCommand) (*usecases.CreateOrderResult, error)
}
