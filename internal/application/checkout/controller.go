package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"

	domain "quickpay/internal/domain/checkout"
	vo "quickpay/internal/domain/payment/valueobjects"
	"quickpay/internal/shared/logger"
)

// Controller owns a single payment session. All state changes go through
// Dispatch; network calls and listeners run without holding the lock.
type Controller struct {
	orders   OrderClient
	loader   Loader
	merchant Merchant
	logger   logger.Interface

	mu        sync.Mutex
	session   domain.Session
	ready     bool
	closed    bool
	pending   []domain.Event
	listeners map[int]func(domain.Session)
	nextID    int
}

func NewController(orders OrderClient, loader Loader, merchant Merchant, log logger.Interface) *Controller {
	if merchant.Currency == "" {
		merchant.Currency = vo.CurrencyINR.String()
	}
	return &Controller{
		orders:    orders,
		loader:    loader,
		merchant:  merchant,
		logger:    log,
		session:   domain.NewSession(),
		listeners: make(map[int]func(domain.Session)),
	}
}

// Mount waits for the checkout library. A failure leaves the session Failed
// with a blocking message.
func (c *Controller) Mount(ctx context.Context) bool {
	ready := c.loader.EnsureReady(ctx)

	c.mu.Lock()
	c.ready = ready
	c.mu.Unlock()

	if !ready {
		c.logger.Warnw("checkout library failed to load")
		c.Dispatch(domain.ScriptLoadFailed())
	}
	return ready
}

// Submit starts a payment attempt for rawAmount. It returns false when the
// submit was ignored.
func (c *Controller) Submit(ctx context.Context, rawAmount string) bool {
	if strings.TrimSpace(rawAmount) == "" {
		return false
	}
	amount := vo.NormalizeAmount(rawAmount)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	if !c.ready {
		c.mu.Unlock()
		c.Dispatch(domain.ScriptLoadFailed())
		return false
	}
	next, ok := domain.Transition(c.session, domain.Submit())
	if !ok {
		status := c.session.Status
		c.mu.Unlock()
		c.logger.Debugw("submit ignored while payment is in flight", "status", status)
		return false
	}
	c.session = next
	c.pending = nil
	attempt := next.Attempt
	listeners := c.snapshotListeners()
	c.mu.Unlock()
	notify(listeners, next)

	order, err := c.orders.CreateOrder(ctx, amount.Major(), c.merchant.Currency)
	if err != nil {
		c.logger.Warnw("order request failed", "error", err, "attempt", attempt)
		c.Dispatch(domain.OrderRequestFailed(attempt, domain.MessageOrderFailed))
		return true
	}

	if err := c.openWidget(order, attempt); err != nil {
		c.logger.Warnw("failed to open checkout widget", "error", err, "order_id", order.ID)
		reason := domain.MessageCheckoutFailed
		if errors.Is(err, ErrCheckoutNotReady) {
			reason = domain.MessageScriptLoadFailed
		}
		c.Dispatch(domain.OrderRequestFailed(attempt, reason))
		return true
	}

	c.logger.Infow("checkout opened", "order_id", order.ID, "amount", order.Amount, "attempt", attempt)
	c.dispatchOpened(domain.OrderCreated(attempt, order.ID))
	return true
}

func (c *Controller) openWidget(order *Order, attempt uint64) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return errors.New("controller closed")
	}

	widget, err := c.loader.NewWidget(c.widgetOptions(order, attempt))
	if err != nil {
		return err
	}
	widget.On(EventPaymentFailed, func(f PaymentFailure) {
		c.widgetEvent(domain.PaymentFailed(attempt, f.Error.Description))
	})
	return widget.Open()
}

func (c *Controller) widgetOptions(order *Order, attempt uint64) WidgetOptions {
	currency := order.Currency
	if currency == "" {
		currency = c.merchant.Currency
	}
	notes := make(map[string]string, len(c.merchant.Notes))
	for k, v := range c.merchant.Notes {
		notes[k] = v
	}

	return WidgetOptions{
		Key:         order.KeyID,
		Amount:      order.Amount,
		Currency:    currency,
		Name:        c.merchant.Name,
		Description: c.merchant.Description,
		OrderID:     order.ID,
		Handler: func(resp PaymentResponse) {
			if resp.RazorpayPaymentID == "" {
				c.widgetEvent(domain.PaymentFailed(attempt, ""))
				return
			}
			c.widgetEvent(domain.PaymentSucceeded(attempt, resp.RazorpayPaymentID))
		},
		Prefill: c.merchant.Prefill,
		Notes:   notes,
		Theme:   Theme{Color: c.merchant.ThemeColor},
		Modal: Modal{
			OnDismiss: func() {
				c.widgetEvent(domain.Dismissed(attempt))
			},
		},
	}
}

// widgetEvent holds outcomes that arrive before Open has returned so they are
// applied after the session is awaiting a result.
func (c *Controller) widgetEvent(e domain.Event) {
	c.mu.Lock()
	if !c.closed && c.session.Attempt == e.Attempt && c.session.Status == domain.StatusLoading {
		c.pending = append(c.pending, e)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.Dispatch(e)
}

func (c *Controller) dispatchOpened(opened domain.Event) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	events := append([]domain.Event{opened}, c.pending...)
	c.pending = nil

	var changed []domain.Session
	for _, e := range events {
		if next, ok := domain.Transition(c.session, e); ok {
			c.session = next
			changed = append(changed, next)
		}
	}
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	for _, s := range changed {
		notify(listeners, s)
	}
}

// Dispatch applies e to the session. It reports whether the session changed.
func (c *Controller) Dispatch(e domain.Event) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	next, ok := domain.Transition(c.session, e)
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.session = next
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	notify(listeners, next)
	return true
}

func (c *Controller) Session() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Subscribe registers fn for every session change.
func (c *Controller) Subscribe(fn func(domain.Session)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Close detaches the controller. Late widget callbacks become no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.pending = nil
	c.listeners = make(map[int]func(domain.Session))
	c.mu.Unlock()
}

// snapshotListeners must be called with mu held.
func (c *Controller) snapshotListeners() []func(domain.Session) {
	out := make([]func(domain.Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []func(domain.Session), s domain.Session) {
	for _, fn := range listeners {
		fn(s)
	}
}
