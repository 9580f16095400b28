package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"aegis/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Redis     *redis.Client
	Requests  int
	Window    time.Duration
	KeyPrefix string
	SkipPaths []string
}

// RateLimiter throttles requests per user (or per IP before auth) with
// a fixed Redis window. When Redis is unavailable requests pass
// through; the limiter must not become a point of failure.
type RateLimiter struct {
	config RateLimitConfig
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.Requests == 0 {
		config.Requests = 100
	}
	if config.Window == 0 {
		config.Window = time.Minute
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "ratelimit"
	}

	return &RateLimiter{config: config}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.config.Redis == nil || rl.shouldSkip(c.Request.URL.Path) {
			c.Next()
			return
		}

		key := rl.buildKey(c)

		count, err := rl.config.Redis.Incr(c.Request.Context(), key).Result()
		if err != nil {
			logrus.Warn("Rate limiter unavailable: ", err)
			c.Next()
			return
		}

		if count == 1 {
			rl.config.Redis.Expire(c.Request.Context(), key, rl.config.Window)
		}

		remaining := rl.config.Requests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > rl.config.Requests {
			c.Header("Retry-After", strconv.Itoa(int(rl.config.Window.Seconds())))
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "RATE_LIMITED",
				Message: "Too many requests, slow down",
				Code:    "RATE_LIMIT_EXCEEDED",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) buildKey(c *gin.Context) string {
	if userID, ok := c.Get("userID"); ok {
		return fmt.Sprintf("%s:user:%v", rl.config.KeyPrefix, userID)
	}
	return fmt.Sprintf("%s:ip:%s", rl.config.KeyPrefix, c.ClientIP())
}

func (rl *RateLimiter) shouldSkip(path string) bool {
	for _, p := range rl.config.SkipPaths {
		if p == path {
			return true
		}
	}
	return false
}
