package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/crisis_response_system/internal/config"
	"github.com/sirupsen/logrus"
)

// RateLimiter считает обращения в фиксированном окне. Hit увеличивает
// счетчик ключа и возвращает его новое значение.
type RateLimiter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisRateLimiter реализует фиксированное окно поверх INCR + EXPIRE
type RedisRateLimiter struct {
	redisClient *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) RateLimiter {
	return &RedisRateLimiter{redisClient: client}
}

// Hit инкрементирует счетчик окна; первый запрос задает TTL окна
func (l *RedisRateLimiter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := l.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := l.redisClient.Expire(ctx, key, window).Err(); err != nil {
			return count, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}
	return count, nil
}

// AnalyzeRateLimitMiddleware ограничивает частоту запросов к AI-анализу
// по фиксированному окну на IP клиента. При недоступном счетчике запросы
// пропускаются: лимитер защищает бюджет внешней модели, а не безопасность.
func AnalyzeRateLimitMiddleware(limiter RateLimiter, cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:analyze:%s", c.ClientIP())

		count, err := limiter.Hit(c.Request.Context(), key, cfg.AnalyzeRateWindow)
		if err != nil {
			log.WithError(err).Warn("Rate limiter unavailable, request allowed")
			c.Next()
			return
		}

		if count > int64(cfg.AnalyzeRateLimit) {
			log.WithField("ip", c.ClientIP()).Warn("Analyze rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again later"})
			return
		}

		c.Next()
	}
}
