package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FeedbackRequest POST /app/feedback
type FeedbackRequest struct {
	Message string `json:"message" binding:"required"`
	Type    string `json:"type"`
}

// HandleFeedback 送出意見回饋；成功後「已送出」狀態會短暫顯示再自動還原
func (h *Handler) HandleFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.feedback.Send(c.Request.Context(), req.Message, req.Type); err != nil {
		respondError(c, err)
		return
	}
	h.respondState(c)
}

// RatingRequest POST /app/rating
type RatingRequest struct {
	Stars int `json:"stars" binding:"required"`
}

// HandleRating 提交星等；一次會話只收一次
func (h *Handler) HandleRating(c *gin.Context) {
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.feedback.Rate(c.Request.Context(), req.Stars); err != nil {
		respondError(c, err)
		return
	}
	h.respondState(c)
}

// HandleRatingSummary GET /app/ratings/summary
func (h *Handler) HandleRatingSummary(c *gin.Context) {
	summary, err := h.feedback.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
