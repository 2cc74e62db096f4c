// internal/middleware/ratelimit_middleware.go
package middleware

import (
	"fmt"
	"net/http"
	"time"

	xerrors "padel-academy-service/internal/pkg/errors"
	"padel-academy-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitMiddleware caps requests per client IP inside a fixed
// window, counted in Redis so limits hold across instances. Fails open
// when Redis is unreachable.
func RateLimitMiddleware(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())

		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			logger.Warn("rate limit counter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count == 1 {
			client.Expire(c.Request.Context(), key, window)
		}

		if count > int64(limit) {
			response.Error(c, http.StatusTooManyRequests, "too many requests", xerrors.ErrRateLimited)
			return
		}

		c.Next()
	}
}
