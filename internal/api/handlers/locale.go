package handlers

import (
	"net/http"

	"recipe-cleaner/internal/core/i18n"
	"recipe-cleaner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LocaleRequest POST /app/locale
type LocaleRequest struct {
	Locale i18n.Locale `json:"locale" binding:"required"`
}

// HandleLocale 切換介面語系
// 顯示中的食譜內容語系不同時順帶翻譯；載入中切換會讓輪播改用新語系重頭播
func (h *Handler) HandleLocale(c *gin.Context) {
	var req LocaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	changed, err := h.translator.SetLocale(c.Request.Context(), req.Locale)
	if err != nil {
		respondError(c, err)
		return
	}

	if changed {
		common.LogInfo("語系已切換", zap.String("locale", string(req.Locale)))
		h.acquire.RestartRotation()
	}
	h.respondState(c)
}
