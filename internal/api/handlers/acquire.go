package handlers

import (
	"net/http"

	"recipe-cleaner/internal/core/acquire"
	"recipe-cleaner/internal/core/store"
	"recipe-cleaner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AcquireRequest POST /app/acquire
type AcquireRequest struct {
	Kind   store.InputKind `json:"kind" binding:"required"`
	URL    string          `json:"url,omitempty"`
	Photos []string        `json:"photos,omitempty"`
}

// HandleAcquire 發起一次擷取（連結 / 照片組 / 影片連結）
func (h *Handler) HandleAcquire(c *gin.Context) {
	var req AcquireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !store.ValidInputKind(req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown input kind"})
		return
	}

	err := h.acquire.Submit(c.Request.Context(), acquire.Input{
		Kind:   req.Kind,
		URL:    req.URL,
		Photos: req.Photos,
	})
	if err != nil {
		// 分流旗標（註冊/方案/內嵌錯誤）已寫入狀態，前端照狀態渲染
		respondError(c, err)
		return
	}

	h.respondState(c)
}

// InputKindRequest POST /app/input-kind
type InputKindRequest struct {
	Kind store.InputKind `json:"kind" binding:"required"`
}

// HandleInputKind 切換輸入模式；載入中切換會讓輪播對新序列重頭開始
func (h *Handler) HandleInputKind(c *gin.Context) {
	var req InputKindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !store.ValidInputKind(req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown input kind"})
		return
	}

	if h.state.SetInputKind(req.Kind) {
		h.acquire.RestartRotation()
	}
	h.respondState(c)
}

// InputsRequest POST /app/inputs（文字輸入欄位綁定）
type InputsRequest struct {
	URL        string `json:"url"`
	Video      string `json:"video"`
	PhotoCount int    `json:"photo_count"`
}

// HandleInputs 同步輸入欄位值
func (h *Handler) HandleInputs(c *gin.Context) {
	var req InputsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	h.state.SetInputs(req.URL, req.Video, req.PhotoCount)
	h.respondState(c)
}

// HandleDismiss POST /app/dismiss（關閉註冊/方案導向與升級提示）
func (h *Handler) HandleDismiss(c *gin.Context) {
	h.state.DismissRoutes()
	h.state.DismissUpgradePrompt()
	h.respondState(c)
}
