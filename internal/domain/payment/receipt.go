package payment

import (
	"fmt"
	"sync"
	"time"
)

const receiptPrefix = "receipt_order_"

// ReceiptGenerator derives receipts from wall-clock milliseconds.
// Values are strictly increasing for the life of the generator even when the
// clock stalls or steps backwards.
type ReceiptGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewReceiptGenerator() *ReceiptGenerator {
	return NewReceiptGeneratorWithClock(time.Now)
}

func NewReceiptGeneratorWithClock(now func() time.Time) *ReceiptGenerator {
	return &ReceiptGenerator{now: now}
}

func (g *ReceiptGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.now().UnixMilli()
	if ts <= g.last {
		ts = g.last + 1
	}
	g.last = ts

	return fmt.Sprintf("%s%d", receiptPrefix, ts)
}
