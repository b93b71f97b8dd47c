package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window limiter backed by redis INCR/EXPIRE. A nil
// redis client disables limiting, which keeps local development dependency
// free.
type RateLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// ByPrincipal limits per authenticated user; it must run after RequireAuth.
func (r *RateLimiter) ByPrincipal(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if r.rdb == nil {
			return next(c)
		}
		p, ok := GetPrincipal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}
		ctx := c.Request().Context()
		key := fmt.Sprintf("%s:%d", r.prefix, p.UserID)
		count, err := r.rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down should not take messaging down with it.
			return next(c)
		}
		if count == 1 {
			r.rdb.Expire(ctx, key, r.window)
		}
		if count > int64(r.limit) {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		}
		return next(c)
	}
}
