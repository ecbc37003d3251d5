package checkout

type EventKind string

const (
	EventSubmit             EventKind = "submit"
	EventOrderCreated       EventKind = "order_created"
	EventOrderRequestFailed EventKind = "order_request_failed"
	EventPaymentSucceeded   EventKind = "payment_succeeded"
	EventPaymentFailed      EventKind = "payment_failed"
	EventDismissed          EventKind = "dismissed"
	EventScriptLoadFailed   EventKind = "script_load_failed"
)

// Event is a message into the session transition function. Attempt binds
// asynchronous outcome events to the attempt that opened the widget.
type Event struct {
	Kind      EventKind
	Attempt   uint64
	OrderID   string
	PaymentID string
	Reason    string
}

func Submit() Event {
	return Event{Kind: EventSubmit}
}

func OrderCreated(attempt uint64, orderID string) Event {
	return Event{Kind: EventOrderCreated, Attempt: attempt, OrderID: orderID}
}

func OrderRequestFailed(attempt uint64, reason string) Event {
	return Event{Kind: EventOrderRequestFailed, Attempt: attempt, Reason: reason}
}

func PaymentSucceeded(attempt uint64, paymentID string) Event {
	return Event{Kind: EventPaymentSucceeded, Attempt: attempt, PaymentID: paymentID}
}

func PaymentFailed(attempt uint64, description string) Event {
	return Event{Kind: EventPaymentFailed, Attempt: attempt, Reason: description}
}

func Dismissed(attempt uint64) Event {
	return Event{Kind: EventDismissed, Attempt: attempt}
}

func ScriptLoadFailed() Event {
	return Event{Kind: EventScriptLoadFailed}
}
