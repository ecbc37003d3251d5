package pay

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcheckout "quickpay/internal/application/checkout"
	domain "quickpay/internal/domain/checkout"
	"quickpay/internal/infrastructure/checkout"
	sharedConfig "quickpay/internal/shared/config"
	"quickpay/internal/shared/logger"
)

// ===== Helpers =====

type fakeBackend struct {
	server      *httptest.Server
	orderStatus int
}

func newFakeBackend(t *testing.T, scriptStatus, orderStatus int) *fakeBackend {
	t.Helper()

	b := &fakeBackend{orderStatus: orderStatus}
	mux := http.NewServeMux()
	mux.HandleFunc("/checkout.js", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(scriptStatus)
		_, _ = w.Write([]byte("window.Razorpay = function() {};"))
	})
	mux.HandleFunc("/create-order", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(b.orderStatus)
		if b.orderStatus != http.StatusOK {
			_, _ = w.Write([]byte(`{"statusCode":500,"error":{"code":"SERVER_ERROR","description":"down"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       "order_test",
			"amount":   body.Amount * 100,
			"currency": body.Currency,
			"receipt":  "receipt_order_1",
			"key_id":   "rzp_test_x",
		})
	})
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func newTestController(b *fakeBackend, input string, out *bytes.Buffer) *appcheckout.Controller {
	log := logger.NewNop()
	factory := checkout.NewConsoleWidgetFactory(strings.NewReader(input), out, log)
	loader := checkout.NewScriptLoader(b.server.URL+"/checkout.js", time.Second, factory, log)
	orders := checkout.NewOrderClient(b.server.URL, time.Second, log)
	return appcheckout.NewController(orders, loader, appcheckout.Merchant{Name: "Demo Payment"}, log)
}

func withTimeout(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// ===== Tests =====

func TestRunSession_Outcomes(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantStatus    domain.Status
		wantDismissed bool
		wantError     string
	}{
		{name: "success", input: "success pay_123\n", wantStatus: domain.StatusSucceeded},
		{name: "failure", input: "fail Card declined\n", wantStatus: domain.StatusFailed, wantError: "Card declined"},
		{name: "dismiss", input: "dismiss\n", wantStatus: domain.StatusIdle, wantDismissed: true},
		{name: "closed input", input: "", wantStatus: domain.StatusIdle, wantDismissed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend(t, http.StatusOK, http.StatusOK)
			var out bytes.Buffer
			ctrl := newTestController(backend, tt.input, &out)
			defer ctrl.Close()

			session, err := runSession(withTimeout(t), ctrl, "500")
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, session.Status)
			assert.Equal(t, tt.wantDismissed, session.Dismissed)
			assert.Equal(t, tt.wantError, session.Error)
			assert.Equal(t, "order_test", session.OrderID)
			assert.Contains(t, out.String(), `"order_id": "order_test"`)
			assert.Contains(t, out.String(), `"amount": 50000`)
		})
	}
}

func TestCommand_RunsWithoutGatewayCredentials(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "")
	t.Setenv("RAZORPAY_KEY_SECRET", "")
	t.Setenv("QUICKPAY_RAZORPAY_MOCK", "")

	backend := newFakeBackend(t, http.StatusOK, http.StatusOK)
	t.Setenv("QUICKPAY_CHECKOUT_SCRIPT_URL", backend.server.URL+"/checkout.js")

	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetIn(strings.NewReader("success pay_123\n"))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--amount", "5", "--server-url", backend.server.URL})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), `"order_id": "order_test"`)
	assert.Contains(t, out.String(), `"amount": 500`)
	assert.Contains(t, out.String(), "Payment successful! Payment ID: pay_123")
	assert.NotContains(t, out.String(), "key_secret")
}

func TestRunSession_ScriptLoadFailure(t *testing.T) {
	backend := newFakeBackend(t, http.StatusServiceUnavailable, http.StatusOK)
	var out bytes.Buffer
	ctrl := newTestController(backend, "success pay_123\n", &out)
	defer ctrl.Close()

	session, err := runSession(withTimeout(t), ctrl, "500")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, session.Status)
	assert.Equal(t, domain.MessageScriptLoadFailed, session.Error)
	assert.Empty(t, out.String())
}

func TestRunSession_OrderFailure(t *testing.T) {
	backend := newFakeBackend(t, http.StatusOK, http.StatusInternalServerError)
	var out bytes.Buffer
	ctrl := newTestController(backend, "success pay_123\n", &out)
	defer ctrl.Close()

	session, err := runSession(withTimeout(t), ctrl, "500")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, session.Status)
	assert.Equal(t, domain.MessageOrderFailed, session.Error)
	assert.Empty(t, out.String())
}

func TestRunSession_BlankAmount(t *testing.T) {
	backend := newFakeBackend(t, http.StatusOK, http.StatusOK)
	var out bytes.Buffer
	ctrl := newTestController(backend, "", &out)
	defer ctrl.Close()

	_, err := runSession(withTimeout(t), ctrl, "  ")
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	tests := []struct {
		name    string
		session domain.Session
		want    string
		wantErr bool
	}{
		{
			name:    "succeeded",
			session: domain.Session{Status: domain.StatusSucceeded, PaymentStatus: "Payment successful! Payment ID: pay_1"},
			want:    "Payment successful! Payment ID: pay_1\n",
		},
		{
			name:    "failed",
			session: domain.Session{Status: domain.StatusFailed, Error: "Card declined"},
			want:    "Card declined\n",
			wantErr: true,
		},
		{
			name:    "dismissed",
			session: domain.Session{Status: domain.StatusIdle, Dismissed: true},
			want:    "Checkout closed before payment.\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := report(&out, tt.session)

			assert.Equal(t, tt.want, out.String())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPaymentNotCompleted)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMerchantFromConfig(t *testing.T) {
	cfg := &sharedConfig.CheckoutConfig{
		Name:        "Demo Payment",
		Description: "Test payment",
		ThemeColor:  "#3399cc",
		Prefill: sharedConfig.PrefillConfig{
			Name:    "Demo User",
			Email:   "demo@example.com",
			Contact: "9999999999",
		},
		Notes: map[string]string{"address": "Razorpay Corporate Office"},
	}

	m := merchantFromConfig(cfg)

	assert.Equal(t, "Demo Payment", m.Name)
	assert.Equal(t, "Test payment", m.Description)
	assert.Equal(t, "#3399cc", m.ThemeColor)
	assert.Equal(t, appcheckout.Prefill{Name: "Demo User", Email: "demo@example.com", Contact: "9999999999"}, m.Prefill)
	assert.Equal(t, cfg.Notes, m.Notes)
	assert.Empty(t, m.Currency)
}
