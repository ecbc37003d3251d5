// Package ratelimit limits order creation per client.
package ratelimit

import "context"

// Limits holds per-window request ceilings. Zero disables a window.
type Limits struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limits Limits) (bool, error)
}
