// Package checkout holds the client-side payment session state machine.
package checkout

import "fmt"

const (
	MessageScriptLoadFailed = "Razorpay SDK failed to load. Are you online?"
	MessageOrderFailed      = "Could not create order. Please try again."
	MessagePaymentFailed    = "Payment failed. Please try again."
	MessageCheckoutFailed   = "Could not open checkout. Please try again."

	paymentSucceededFormat = "Payment successful! Payment ID: %s"
)

// Session is the user-visible state of one controller. Error and PaymentStatus
// are never set at the same time.
type Session struct {
	Status        Status
	Error         string
	PaymentStatus string
	PaymentID     string
	OrderID       string
	Attempt       uint64
	// Dismissed is set when the last attempt ended with the widget closed.
	Dismissed bool
}

// NewSession returns the initial idle session.
func NewSession() Session {
	return Session{Status: StatusIdle}
}

// Transition applies e to s. It returns the next session and whether e was
// accepted; rejected events leave s unchanged.
func Transition(s Session, e Event) (Session, bool) {
	switch e.Kind {
	case EventSubmit:
		if s.Status.InFlight() {
			return s, false
		}
		return Session{Status: StatusLoading, Attempt: s.Attempt + 1}, true

	case EventScriptLoadFailed:
		if s.Status.InFlight() {
			return s, false
		}
		return fail(s, MessageScriptLoadFailed), true
	}

	// everything below belongs to a specific attempt
	if e.Attempt != s.Attempt {
		return s, false
	}

	switch e.Kind {
	case EventOrderCreated:
		if s.Status != StatusLoading {
			return s, false
		}
		s.Status = StatusAwaitingResult
		s.OrderID = e.OrderID
		return s, true

	case EventOrderRequestFailed:
		if s.Status != StatusLoading {
			return s, false
		}
		reason := e.Reason
		if reason == "" {
			reason = MessageOrderFailed
		}
		return fail(s, reason), true

	case EventPaymentSucceeded:
		if s.Status != StatusAwaitingResult {
			return s, false
		}
		s.Status = StatusSucceeded
		s.PaymentID = e.PaymentID
		s.PaymentStatus = fmt.Sprintf(paymentSucceededFormat, e.PaymentID)
		s.Error = ""
		return s, true

	case EventPaymentFailed:
		if s.Status != StatusAwaitingResult {
			return s, false
		}
		reason := e.Reason
		if reason == "" {
			reason = MessagePaymentFailed
		}
		return fail(s, reason), true

	case EventDismissed:
		if s.Status != StatusAwaitingResult {
			return s, false
		}
		s.Status = StatusIdle
		s.Error = ""
		s.PaymentStatus = ""
		s.Dismissed = true
		return s, true
	}

	return s, false
}

func fail(s Session, reason string) Session {
	s.Status = StatusFailed
	s.Error = reason
	s.PaymentStatus = ""
	s.PaymentID = ""
	s.Dismissed = false
	return s
}
