package checkout

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	appcheckout "quickpay/internal/application/checkout"
	"quickpay/internal/shared/goroutine"
	"quickpay/internal/shared/logger"
)

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota + 1
	outcomeFailure
	outcomeDismiss
)

type outcome struct {
	kind  outcomeKind
	value string
}

// parseOutcome reads one line typed by the buyer:
// "success <payment_id>", "fail [description]" or "dismiss".
func parseOutcome(line string) (outcome, error) {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "success":
		if rest == "" {
			return outcome{}, fmt.Errorf("success needs a payment id")
		}
		return outcome{kind: outcomeSuccess, value: rest}, nil
	case "fail":
		return outcome{kind: outcomeFailure, value: rest}, nil
	case "dismiss":
		return outcome{kind: outcomeDismiss}, nil
	default:
		return outcome{}, fmt.Errorf("unknown outcome %q", verb)
	}
}

// NewConsoleWidgetFactory returns widgets that print their configuration to
// out and read the payment outcome from in.
func NewConsoleWidgetFactory(in io.Reader, out io.Writer, log logger.Interface) WidgetFactory {
	reader := bufio.NewReader(in)
	return func(opts appcheckout.WidgetOptions) (appcheckout.Widget, error) {
		return &ConsoleWidget{
			opts:   opts,
			in:     reader,
			out:    out,
			logger: log,
		}, nil
	}
}

// ConsoleWidget stands in for the hosted checkout in a terminal.
type ConsoleWidget struct {
	opts   appcheckout.WidgetOptions
	in     *bufio.Reader
	out    io.Writer
	logger logger.Interface

	mu       sync.Mutex
	onFailed []func(appcheckout.PaymentFailure)
}

func (w *ConsoleWidget) On(event string, fn func(appcheckout.PaymentFailure)) {
	if event != appcheckout.EventPaymentFailed {
		return
	}
	w.mu.Lock()
	w.onFailed = append(w.onFailed, fn)
	w.mu.Unlock()
}

// Open prints the checkout configuration and waits for the outcome in the background.
func (w *ConsoleWidget) Open() error {
	config, err := json.MarshalIndent(w.opts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode widget options: %w", err)
	}
	if _, err := fmt.Fprintf(w.out, "Checkout\n%s\nEnter outcome (success <payment_id> | fail [description] | dismiss): ", config); err != nil {
		return fmt.Errorf("write widget: %w", err)
	}

	goroutine.SafeGo(w.logger, "console-widget", w.await)
	return nil
}

func (w *ConsoleWidget) await() {
	for {
		line, err := w.in.ReadString('\n')
		if strings.TrimSpace(line) == "" && err != nil {
			// closed input behaves like closing the modal
			w.opts.Modal.OnDismiss()
			return
		}

		o, perr := parseOutcome(line)
		if perr != nil {
			fmt.Fprintf(w.out, "%v, try again: ", perr)
			if err != nil {
				w.opts.Modal.OnDismiss()
				return
			}
			continue
		}

		w.deliver(o)
		return
	}
}

func (w *ConsoleWidget) deliver(o outcome) {
	switch o.kind {
	case outcomeSuccess:
		w.opts.Handler(appcheckout.PaymentResponse{
			RazorpayPaymentID: o.value,
			RazorpayOrderID:   w.opts.OrderID,
		})
	case outcomeFailure:
		w.mu.Lock()
		handlers := append([]func(appcheckout.PaymentFailure){}, w.onFailed...)
		w.mu.Unlock()
		failure := appcheckout.PaymentFailure{Error: appcheckout.PaymentError{
			Code:        "BAD_REQUEST_ERROR",
			Description: o.value,
			Source:      "customer",
			Step:        "payment_authorization",
		}}
		for _, fn := range handlers {
			fn(failure)
		}
	case outcomeDismiss:
		w.opts.Modal.OnDismiss()
	}
}
