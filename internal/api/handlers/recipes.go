package handlers

import (
	"net/http"

	"recipe-cleaner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleListSaved GET /app/recipes
// 回傳已登入使用者的食譜集；每次進集合頁都重新拉一次
func (h *Handler) HandleListSaved(c *gin.Context) {
	if !h.session.SignedIn() {
		respondError(c, common.ErrSignupRequired)
		return
	}

	if err := h.session.ReloadSaved(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": h.session.Saved()})
}

// HandleSaveRecipe POST /app/recipes
// 儲存目前顯示中的食譜；匿名使用者導向註冊
func (h *Handler) HandleSaveRecipe(c *gin.Context) {
	recipe := h.state.Recipe()
	if recipe == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No recipe to save"})
		return
	}

	if !h.state.BeginSaving() {
		c.JSON(http.StatusConflict, gin.H{"error": "Save already in progress"})
		return
	}
	defer h.state.EndSaving()

	if err := h.session.SaveRecipe(c.Request.Context(), recipe); err != nil {
		if common.IsSignupRequired(err) {
			h.state.RouteSignup()
		}
		respondError(c, err)
		return
	}

	common.LogInfo("食譜已儲存", zap.String("title", recipe.Title))
	h.respondState(c)
}

// HandleDeleteSaved DELETE /app/recipes/:id
func (h *Handler) HandleDeleteSaved(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing recipe id"})
		return
	}

	if err := h.session.DeleteSaved(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": h.session.Saved()})
}
