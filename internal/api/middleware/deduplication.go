package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-cleaner/internal/infrastructure/config"
	"recipe-cleaner/internal/pkg/common"
)

// 擷取請求去重：雙擊送出會在時窗內重送一模一樣的輸入，
// 第二發直接 429，不讓它去撞 loading 旗標。
// 鍵取客戶端 IP 加輸入內容雜湊，不同輸入互不影響。

type dedupCache struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// admit 時窗內見過相同鍵即拒絕，否則記下這一發
func (d *dedupCache) admit(key string, window time.Duration) bool {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.seen[key]; ok && now.Sub(last) <= window {
		return false
	}
	d.seen[key] = now
	return true
}

// prune 週期清掉過期紀錄，照片 dataURI 的雜湊鍵不值得留
func (d *dedupCache) prune(window time.Duration) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-10 * window)
		d.mu.Lock()
		for key, at := range d.seen {
			if at.Before(cutoff) {
				delete(d.seen, key)
			}
		}
		d.mu.Unlock()
	}
}

// Deduplication 擷取提交去重中間件，時窗取自 config 的 dedup_window
func Deduplication(cfg *config.Config) gin.HandlerFunc {
	window := 1 * time.Second
	if cfg != nil && cfg.DedupWindow > 0 {
		window = cfg.DedupWindow
	}

	cache := &dedupCache{seen: make(map[string]time.Time)}
	go cache.prune(window)

	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("讀取擷取請求內容失敗", zap.Error(err))
				c.Next()
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		sum := sha256.Sum256(body)
		key := c.ClientIP() + ":" + hex.EncodeToString(sum[:])

		if !cache.admit(key, window) {
			common.LogWarn("重複的擷取提交",
				zap.String("ip", c.ClientIP()),
				zap.Duration("window", window),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Duplicate submission",
				"code":  "TOO_MANY_REQUESTS",
			})
			return
		}

		c.Next()
	}
}
