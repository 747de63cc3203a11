package handlers

import (
	"net/http"
	"strconv"

	"recipe-cleaner/internal/core/workflow"

	"github.com/gin-gonic/gin"
)

func parseItemKind(raw string) (workflow.ItemKind, bool) {
	switch workflow.ItemKind(raw) {
	case workflow.KindIngredient:
		return workflow.KindIngredient, true
	case workflow.KindStep:
		return workflow.KindStep, true
	}
	return "", false
}

// HandleComplete POST /app/progress/:kind/:index
// 勾選一項食材或步驟；重複勾選無效果
func (h *Handler) HandleComplete(c *gin.Context) {
	kind, ok := parseItemKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown item kind"})
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
		return
	}

	if err := h.state.Complete(kind, index); err != nil {
		respondError(c, err)
		return
	}
	h.respondState(c)
}

// UndoRequest POST /app/progress/undo
type UndoRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// HandleUndo 取消最近一次勾選（索引最大的已完成項）
func (h *Handler) HandleUndo(c *gin.Context) {
	var req UndoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	kind, ok := parseItemKind(req.Kind)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown item kind"})
		return
	}

	h.state.Undo(kind)
	h.respondState(c)
}

// HandleResetProgress POST /app/progress/reset
// 全部重來：清空兩類勾選、回到備料階段，本次評分鎖也一併解除
func (h *Handler) HandleResetProgress(c *gin.Context) {
	h.state.ResetProgress()
	h.respondState(c)
}

// PhaseRequest POST /app/progress/phase
type PhaseRequest struct {
	Phase workflow.Phase `json:"phase" binding:"required"`
}

// HandlePhase 手動切換備料/烹飪分頁
func (h *Handler) HandlePhase(c *gin.Context) {
	var req PhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.state.SetPhase(req.Phase); err != nil {
		respondError(c, err)
		return
	}
	h.respondState(c)
}

// ServingsRequest POST /app/servings
type ServingsRequest struct {
	Servings int `json:"servings" binding:"required"`
}

// HandleServings 調整份量；超出範圍直接拒絕，顯示值不變
func (h *Handler) HandleServings(c *gin.Context) {
	var req ServingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.state.SetServings(req.Servings); err != nil {
		respondError(c, err)
		return
	}
	h.respondState(c)
}
