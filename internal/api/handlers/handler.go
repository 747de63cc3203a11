package handlers

import (
	"errors"
	"net/http"

	"recipe-cleaner/internal/core/acquire"
	"recipe-cleaner/internal/core/billing"
	"recipe-cleaner/internal/core/feedback"
	"recipe-cleaner/internal/core/i18n"
	"recipe-cleaner/internal/core/session"
	"recipe-cleaner/internal/core/store"
	"recipe-cleaner/internal/infrastructure/config"
	"recipe-cleaner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Handler 前端綁定的本地 JSON 介面
// 每個 handler 都是薄薄的轉接層：解 JSON、叫對應服務、回狀態投影。
type Handler struct {
	config     *config.Config
	state      *store.Store
	session    *session.Manager
	acquire    *acquire.Controller
	translator *i18n.Translator
	locales    *i18n.Manager
	billing    *billing.Service
	feedback   *feedback.Service
}

// NewHandler 創建處理程序
func NewHandler(
	cfg *config.Config,
	state *store.Store,
	sess *session.Manager,
	acquireCtrl *acquire.Controller,
	translator *i18n.Translator,
	locales *i18n.Manager,
	billingSvc *billing.Service,
	feedbackSvc *feedback.Service,
) *Handler {
	return &Handler{
		config:     cfg,
		state:      state,
		session:    sess,
		acquire:    acquireCtrl,
		translator: translator,
		locales:    locales,
		billing:    billingSvc,
		feedback:   feedbackSvc,
	}
}

// respondError 統一錯誤回應
// 驗證錯誤 → 400；後端歸類錯誤帶原狀態碼與代碼；其餘 500。
// 任何錯誤都不致命：回應後 UI 一定回到可互動狀態。
func respondError(c *gin.Context, err error) {
	if common.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": common.ErrCodeInvalidRequest, "message": err.Error()},
		})
		return
	}

	var ce *common.CustomError
	if errors.As(err, &ce) {
		status := ce.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{
			"error": gin.H{"code": ce.Code, "message": ce.Message},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{"code": common.ErrCodeInternalError, "message": err.Error()},
	})
}

// respondState 操作成功後直接回最新狀態投影，前端不用再拉一次
func (h *Handler) respondState(c *gin.Context) {
	c.JSON(http.StatusOK, h.composeState())
}
