package payment

import (
	"fmt"

	vo "quickpay/internal/domain/payment/valueobjects"
)

// Order is a gateway order for one payment attempt. It is never persisted.
type Order struct {
	id       string
	amount   vo.Amount
	currency vo.Currency
	receipt  string
	keyID    string
}

func NewOrder(id string, amount vo.Amount, currency vo.Currency, receipt, keyID string) (*Order, error) {
	if id == "" {
		return nil, fmt.Errorf("order id is required")
	}
	if amount.Minor() <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if currency == "" {
		return nil, fmt.Errorf("currency is required")
	}
	if keyID == "" {
		return nil, fmt.Errorf("key id is required")
	}

	return &Order{
		id:       id,
		amount:   amount,
		currency: currency,
		receipt:  receipt,
		keyID:    keyID,
	}, nil
}

func (o *Order) ID() string {
	return o.id
}

func (o *Order) Amount() vo.Amount {
	return o.amount
}

func (o *Order) Currency() vo.Currency {
	return o.currency
}

func (o *Order) Receipt() string {
	return o.receipt
}

// KeyID is the publishable key the checkout widget is opened with.
func (o *Order) KeyID() string {
	return o.keyID
}
