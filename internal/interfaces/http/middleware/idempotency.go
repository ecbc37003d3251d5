package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickpay/internal/infrastructure/idempotency"
	"quickpay/internal/shared/errors"
	"quickpay/internal/shared/logger"
	"quickpay/internal/shared/utils"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	CacheHitHeader       = "X-Cache-Hit"

	maxIdempotencyKeyLength = 255

	// Maximum request body hashed for idempotency (1MB)
	maxIdempotentBodySize = 1 << 20
)

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Requests without the header pass through. A key reused with a different
// body is rejected with 409; concurrent duplicates wait for the first request.
// Server errors are not stored, so the key can be retried.
func Idempotency(store *idempotency.MemoryStore, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			utils.ErrorResponseWithError(c, errors.NewBadRequestError("Idempotency-Key header is too long"))
			c.Abort()
			return
		}

		rawBody, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIdempotentBodySize))
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewBadRequestError("failed to read request body"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(rawBody))
		bodyHash := hashBody(rawBody)

		for {
			existing, owned := store.Begin(key, bodyHash)
			if owned {
				break
			}

			if existing.BodyHash != bodyHash {
				log.Warnw("idempotency key reused with different body", "idempotency_key", key)
				utils.ErrorResponseWithError(c, errors.NewConflictError("Idempotency key already used for a different request body"))
				c.Abort()
				return
			}

			if existing.State == idempotency.StateProcessing {
				// re-check once the first request completed or released the key
				store.Wait(key)
				continue
			}

			replay(c, existing)
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder

		completed := false
		defer func() {
			// a panicking handler must not leave waiters blocked on the key
			if !completed {
				store.Release(key)
			}
		}()

		c.Next()

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			return
		}
		store.Complete(key, status, recorder.Header().Get("Content-Type"), recorder.body.Bytes())
		completed = true
	}
}

func replay(c *gin.Context, entry *idempotency.Entry) {
	contentType := entry.ContentType
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}
	c.Header(CacheHitHeader, "true")
	c.Data(entry.StatusCode, contentType, entry.Body)
	c.Abort()
}

func hashBody(body []byte) string {
	h := sha256.Sum256(body)
	return hex.EncodeToString(h[:])
}
