// Package checkout orchestrates one client-side payment session: order
// request, widget configuration and outcome capture.
package checkout

import (
	"context"
	"errors"
)

// EventPaymentFailed is the widget event carrying a gateway decline.
const EventPaymentFailed = "payment.failed"

// ErrCheckoutNotReady is returned when a widget is requested before the
// checkout library has loaded.
var ErrCheckoutNotReady = errors.New("checkout library is not loaded")

// Order is the order-creation response the client consumes.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	KeyID    string `json:"key_id"`
}

// OrderClient requests an order from the backend. It must not retry.
type OrderClient interface {
	CreateOrder(ctx context.Context, amountMajor int64, currency string) (*Order, error)
}

// Loader guarantees the checkout library is present before widgets are built.
type Loader interface {
	// EnsureReady loads the library at most once and never panics.
	EnsureReady(ctx context.Context) bool
	NewWidget(opts WidgetOptions) (Widget, error)
}

// Widget is an opened hosted checkout. Callbacks may fire on any goroutine.
type Widget interface {
	On(event string, fn func(PaymentFailure))
	Open() error
}

// PaymentResponse is passed to the success handler.
type PaymentResponse struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id,omitempty"`
	RazorpaySignature string `json:"razorpay_signature,omitempty"`
}

// PaymentFailure is the payload of the payment.failed event.
type PaymentFailure struct {
	Error PaymentError `json:"error"`
}

type PaymentError struct {
	Code        string            `json:"code,omitempty"`
	Description string            `json:"description,omitempty"`
	Source      string            `json:"source,omitempty"`
	Step        string            `json:"step,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type Theme struct {
	Color string `json:"color"`
}

type Modal struct {
	OnDismiss func() `json:"-"`
}

// WidgetOptions is the configuration object handed to the checkout widget.
// Callbacks are excluded from the JSON form.
type WidgetOptions struct {
	Key         string                `json:"key"`
	Amount      int64                 `json:"amount"`
	Currency    string                `json:"currency"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	OrderID     string                `json:"order_id"`
	Handler     func(PaymentResponse) `json:"-"`
	Prefill     Prefill               `json:"prefill"`
	Notes       map[string]string     `json:"notes"`
	Theme       Theme                 `json:"theme"`
	Modal       Modal                 `json:"modal"`
}

// Merchant is the static part of the widget configuration.
type Merchant struct {
	Name        string
	Description string
	Currency    string
	Prefill     Prefill
	Notes       map[string]string
	ThemeColor  string
}
