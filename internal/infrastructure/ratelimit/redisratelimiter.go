package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "quickpay:ratelimit"

// RedisRateLimiter is a sliding-window limiter backed by Redis sorted sets,
// shared across server instances.
type RedisRateLimiter struct {
	client *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client}
}

// Ensure RedisRateLimiter implements RateLimiter
var _ RateLimiter = (*RedisRateLimiter)(nil)

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, limits Limits) (bool, error) {
	now := time.Now()

	windows := []struct {
		duration time.Duration
		limit    int
	}{
		{time.Minute, limits.RequestsPerMinute},
		{time.Hour, limits.RequestsPerHour},
	}

	for _, window := range windows {
		if window.limit <= 0 {
			continue
		}

		allowed, err := l.checkWindow(ctx, key, window.duration, window.limit, now)
		if err != nil {
			return false, err
		}

		if !allowed {
			return false, nil
		}
	}

	return true, nil
}

func (l *RedisRateLimiter) checkWindow(ctx context.Context, key string, window time.Duration, limit int, now time.Time) (bool, error) {
	zkey := redisKey(key, window)
	windowStart := now.Add(-window).UnixNano()
	nowNano := now.UnixNano()

	pipe := l.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, zkey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(ctx, zkey)
	pipe.ZAdd(ctx, zkey, redis.Z{Score: float64(nowNano), Member: nowNano})
	pipe.Expire(ctx, zkey, window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	return zcard.Val() < int64(limit), nil
}

func redisKey(identifier string, window time.Duration) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, identifier, window.String())
}
