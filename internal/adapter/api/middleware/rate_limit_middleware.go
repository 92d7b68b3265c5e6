package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"agrirent/internal/infrastructure/ratelimit"
	"agrirent/pkg/errors"
	"agrirent/pkg/logger"
)

// RateLimit spends one token of action per request. Callers are keyed by user id when
// authenticated and by client IP otherwise.
func RateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := CurrentUserID(c)
			if key == "" {
				key = "ip:" + c.RealIP()
			}

			allowed, wait := limiter.Allow(key, action)
			if !allowed {
				logger.Warn("rate limit hit: %s on %s", key, action)
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				return errors.TooManyRequests("Too many requests, please slow down")
			}
			return next(c)
		}
	}
}
