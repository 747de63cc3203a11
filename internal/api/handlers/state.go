package handlers

import (
	"recipe-cleaner/internal/core/i18n"
	"recipe-cleaner/internal/core/store"
	"recipe-cleaner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// StateResponse 完整 UI 狀態：store 投影加上會話與語系
type StateResponse struct {
	store.Snapshot
	User           *common.User  `json:"user,omitempty"`
	SignedIn       bool          `json:"signed_in"`
	QuotaRemaining int           `json:"quota_remaining"`
	QuotaUnlimited bool          `json:"quota_unlimited"`
	Locale         i18n.Locale   `json:"locale"`
	Locales        []i18n.Locale `json:"locales"`
}

func (h *Handler) composeState() StateResponse {
	quota := h.session.QuotaRemaining()
	return StateResponse{
		Snapshot:       h.state.Snapshot(),
		User:           h.session.User(),
		SignedIn:       h.session.SignedIn(),
		QuotaRemaining: quota,
		QuotaUnlimited: quota == common.QuotaUnlimited,
		Locale:         h.locales.Active(),
		Locales:        i18n.Locales(),
	}
}

// HandleState GET /app/state
func (h *Handler) HandleState(c *gin.Context) {
	h.respondState(c)
}

// HandleReturnToInput POST /app/view/input
// 回到輸入視圖：丟棄目前食譜並清空進度
func (h *Handler) HandleReturnToInput(c *gin.Context) {
	h.state.ReturnToInput()
	h.respondState(c)
}
