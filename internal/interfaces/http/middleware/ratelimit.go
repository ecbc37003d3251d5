package middleware

import (
	"github.com/gin-gonic/gin"

	"quickpay/internal/infrastructure/ratelimit"
	"quickpay/internal/shared/errors"
	"quickpay/internal/shared/logger"
	"quickpay/internal/shared/utils"
)

// RateLimiter limits requests per client IP.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	limits  ratelimit.Limits
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, limits ratelimit.Limits, log logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		limits:  limits,
		logger:  log,
	}
}

// Limit returns a Gin middleware that enforces the limits per client IP.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, err := rl.limiter.Allow(c.Request.Context(), "ip:"+clientIP, rl.limits)
		if err != nil {
			// If Redis is unavailable, allow the request to avoid blocking all traffic
			rl.logger.Warnw("rate limiter unavailable, allowing request",
				"error", err,
				"client_ip", clientIP,
			)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponseWithError(c, errors.NewTooManyRequestsError("rate limit exceeded, please try again later"))
			c.Abort()
			return
		}

		c.Next()
	}
}
