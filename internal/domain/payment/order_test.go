package payment

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "quickpay/internal/domain/payment/valueobjects"
)

func TestNewOrder(t *testing.T) {
	amount := vo.NormalizeAmount("100")

	o, err := NewOrder("order_abc", amount, vo.CurrencyINR, "receipt_order_1", "rzp_test_x")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", o.ID())
	assert.Equal(t, int64(10000), o.Amount().Minor())
	assert.Equal(t, vo.CurrencyINR, o.Currency())
	assert.Equal(t, "receipt_order_1", o.Receipt())
	assert.Equal(t, "rzp_test_x", o.KeyID())
}

func TestNewOrder_Invalid(t *testing.T) {
	amount := vo.NormalizeAmount("1")
	tests := []struct {
		name     string
		id       string
		amount   vo.Amount
		currency vo.Currency
		keyID    string
		wantErr  string
	}{
		{"missing id", "", amount, vo.CurrencyINR, "rzp_test_x", "order id is required"},
		{"zero amount", "order_abc", vo.Amount{}, vo.CurrencyINR, "rzp_test_x", "amount must be positive"},
		{"missing currency", "order_abc", amount, "", "rzp_test_x", "currency is required"},
		{"missing key", "order_abc", amount, vo.CurrencyINR, "", "key id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder(tt.id, tt.amount, tt.currency, "r", tt.keyID)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReceiptGenerator_UsesClock(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	g := NewReceiptGeneratorWithClock(func() time.Time { return at })

	assert.Equal(t, "receipt_order_1700000000123", g.Next())
}

func TestReceiptGenerator_StrictlyIncreasingOnStalledClock(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	g := NewReceiptGeneratorWithClock(func() time.Time { return at })

	assert.Equal(t, "receipt_order_1700000000000", g.Next())
	assert.Equal(t, "receipt_order_1700000000001", g.Next())

	at = at.Add(-time.Second)
	assert.Equal(t, "receipt_order_1700000000002", g.Next())
}

func TestReceiptGenerator_UniqueUnderConcurrency(t *testing.T) {
	g := NewReceiptGenerator()

	const n = 200
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, n)
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := g.Next()
			mu.Lock()
			seen[r] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}
