package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"recipe-cleaner/internal/infrastructure/config"
	"recipe-cleaner/internal/pkg/common"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newDedupRouter(window time.Duration) *gin.Engine {
	cfg := &config.Config{DedupWindow: window}
	router := gin.New()
	router.POST("/acquire", Deduplication(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func postBody(router *gin.Engine, body string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/acquire", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w.Code
}

func TestDeduplicationBlocksRepeatWithinWindow(t *testing.T) {
	router := newDedupRouter(200 * time.Millisecond)

	// 雙擊送出：第二發相同輸入被擋
	assert.Equal(t, http.StatusOK, postBody(router, `{"kind":"url","url":"https://example.com/a"}`))
	assert.Equal(t, http.StatusTooManyRequests, postBody(router, `{"kind":"url","url":"https://example.com/a"}`))

	// 不同輸入不互相影響
	assert.Equal(t, http.StatusOK, postBody(router, `{"kind":"url","url":"https://example.com/b"}`))
}

func TestDeduplicationAllowsAfterWindow(t *testing.T) {
	router := newDedupRouter(20 * time.Millisecond)

	body := `{"kind":"url","url":"https://example.com/slow"}`
	assert.Equal(t, http.StatusOK, postBody(router, body))
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, http.StatusOK, postBody(router, body))
}
