package middleware

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// CounterStore is the part of *redis.Client the limiter uses.
type CounterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RateLimiter allows maxRequests per window per client IP, method and
// route. A nil store disables limiting. When the store fails the request
// is let through: the catalog is read-only and stays available without redis.
func RateLimiter(store CounterStore, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		ip := c.ClientIP()
		endpoint := c.FullPath() // /api/v1/store/products, /api/v1/store/products/:id, etc.
		method := c.Request.Method

		// Key is per-IP, per-method, per-endpoint
		key := "rl:" + ip + ":" + method + ":" + endpoint
		resetKey := key + ":resetAt"

		count, err := store.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("⚠️ rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}

		// First request → set expiry and stable resetAt
		if count == 1 {
			store.Expire(ctx, key, window)
			store.Set(ctx, resetKey, time.Now().Add(window).Unix(), window)
		}

		resetAt := time.Now().Add(window)
		if resetAtUnix, err := store.Get(ctx, resetKey).Int64(); err == nil {
			resetAt = time.Unix(resetAtUnix, 0)
		}

		remaining := max(maxRequests-int(count), 0)
		resetInSeconds := max(int(time.Until(resetAt).Seconds()), 0)

		rate := &models.RateLimiter{
			Limit:          maxRequests,
			Remaining:      remaining,
			ResetAt:        resetAt,
			ResetInSeconds: resetInSeconds,
		}

		c.Set(models.RateLimiterContextKey, rate)
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > maxRequests {
			c.Header("Retry-After", strconv.Itoa(resetInSeconds))
			c.JSON(http.StatusTooManyRequests, models.ApiResponse{
				Message: "Too many requests",
				Error:   true,
				Rate:    rate,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
