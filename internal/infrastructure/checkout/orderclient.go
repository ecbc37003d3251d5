package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	appcheckout "quickpay/internal/application/checkout"
	"quickpay/internal/shared/logger"
)

const (
	createOrderPath = "/create-order"

	// IdempotencyKeyHeader lets the server replay a duplicate order request.
	IdempotencyKeyHeader = "Idempotency-Key"

	// Maximum order response size (64KB)
	maxOrderResponseSize = 64 << 10
)

// StatusError is returned when the order endpoint answers with a non-2xx status.
// Body holds the forwarded upstream payload.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// OrderClient calls the order-creation endpoint exactly once per attempt.
type OrderClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Interface
}

func NewOrderClient(baseURL string, timeout time.Duration, log logger.Interface) *OrderClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OrderClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// Ensure OrderClient implements OrderClient port
var _ appcheckout.OrderClient = (*OrderClient)(nil)

type createOrderBody struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (c *OrderClient) CreateOrder(ctx context.Context, amountMajor int64, currency string) (*appcheckout.Order, error) {
	payload, err := json.Marshal(createOrderBody{Amount: amountMajor, Currency: currency})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createOrderPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	key := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyKeyHeader, key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxOrderResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warnw("order endpoint returned error",
			"status", resp.StatusCode,
			"idempotency_key", key,
		)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var order appcheckout.Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if order.ID == "" || order.Amount <= 0 || order.KeyID == "" {
		return nil, fmt.Errorf("incomplete order response: %s", body)
	}

	return &order, nil
}
