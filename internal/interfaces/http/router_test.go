package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickpay/internal/application/payment/paymentgateway"
	"quickpay/internal/application/payment/usecases"
	"quickpay/internal/domain/payment"
	"quickpay/internal/infrastructure/config"
	"quickpay/internal/infrastructure/idempotency"
	"quickpay/internal/infrastructure/ratelimit"
	sharedConfig "quickpay/internal/shared/config"
	"quickpay/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countingLimiter struct {
	max   int
	count int
}

func (l *countingLimiter) Allow(ctx context.Context, key string, limits ratelimit.Limits) (bool, error) {
	l.count++
	return l.count <= l.max, nil
}

func newTestRouter(t *testing.T, gateway paymentgateway.OrderGateway, limiter ratelimit.RateLimiter) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Server:    sharedConfig.ServerConfig{AllowedOrigins: []string{"*"}},
		RateLimit: sharedConfig.RateLimitConfig{Enabled: limiter != nil, RequestsPerMinute: 1},
	}
	uc := usecases.NewCreateOrderUseCase(gateway, payment.NewReceiptGenerator(), logger.NewNop(), usecases.OrderConfig{KeyID: "rzp_test_x"})

	r := NewRouter(RouterDeps{
		Config:           cfg,
		CreateOrder:      uc,
		GatewayName:      gateway.Name(),
		Limiter:          limiter,
		IdempotencyStore: idempotency.NewMemoryStore(time.Hour, logger.NewNop()),
		Logger:           logger.NewNop(),
	})
	r.SetupRoutes()
	return r.GetEngine()
}

func post(engine *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/create-order", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter_CreateOrder(t *testing.T) {
	engine := newTestRouter(t, paymentgateway.NewMockGateway(true), nil)

	w := post(engine, `{"amount":100,"currency":"INR"}`, map[string]string{"Origin": "http://shop.example"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	for _, field := range []string{"id", "amount", "currency", "receipt", "key_id"} {
		assert.Contains(t, body, field)
	}
	assert.Equal(t, float64(10000), body["amount"])
}

func TestRouter_CreateOrder_GatewayFailure(t *testing.T) {
	engine := newTestRouter(t, paymentgateway.NewMockGateway(false), nil)

	w := post(engine, `{"amount":100}`, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"statusCode":400,"error":{"code":"BAD_REQUEST_ERROR","description":"mock gateway rejected the order"}}`, w.Body.String())
}

func TestRouter_CreateOrder_IdempotencyKey(t *testing.T) {
	engine := newTestRouter(t, paymentgateway.NewMockGateway(true), nil)
	headers := map[string]string{"Idempotency-Key": "attempt-1"}

	first := post(engine, `{"amount":100}`, headers)
	second := post(engine, `{"amount":100}`, headers)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Cache-Hit"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestRouter_CreateOrder_RateLimited(t *testing.T) {
	engine := newTestRouter(t, paymentgateway.NewMockGateway(true), &countingLimiter{max: 1})

	assert.Equal(t, http.StatusOK, post(engine, `{"amount":100}`, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(engine, `{"amount":100}`, nil).Code)
}

func TestRouter_Health(t *testing.T) {
	engine := newTestRouter(t, paymentgateway.NewMockGateway(true), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"gateway":"mock"`)
}
