package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"recipe-cleaner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter 全域令牌桶
// 本地 UI 只有一個使用者，擋的是前端失控重試，不需要按 IP 分桶。
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	refill   float64 // 每秒補充令牌數
	last     time.Time
}

// NewRateLimiter 時窗內允許 requests 次請求
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   float64(requests),
		capacity: float64(requests),
		refill:   float64(requests) / window.Seconds(),
		last:     time.Now(),
	}
}

// Allow 取一枚令牌，桶空則拒絕
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.tokens += now.Sub(rl.last).Seconds() * rl.refill
	if rl.tokens > rl.capacity {
		rl.tokens = rl.capacity
	}
	rl.last = now

	if rl.tokens < 1 {
		return false
	}
	rl.tokens--
	return true
}

// RateLimit 限流中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(requests, window)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			common.LogWarn("請求超出限流",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
				"code":  "TOO_MANY_REQUESTS",
			})
			return
		}

		c.Next()
	}
}
