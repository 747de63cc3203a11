package handlers

import (
	"net/http"

	"recipe-cleaner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// HandlePlans GET /app/plans
func (h *Handler) HandlePlans(c *gin.Context) {
	plans, err := h.billing.Plans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// CheckoutRequest POST /app/checkout
type CheckoutRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// HandleCheckout 建立結帳連結；匿名使用者先導向註冊
func (h *Handler) HandleCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	url, err := h.billing.StartCheckout(c.Request.Context(), req.Plan)
	if err != nil {
		if common.IsSignupRequired(err) {
			h.state.RouteSignup()
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": url})
}
