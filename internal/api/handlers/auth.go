package handlers

import (
	"net/http"

	"recipe-cleaner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CredentialsRequest 信箱密碼登入/註冊
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleAuthRequest Google 憑證登入
type GoogleAuthRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// HandleRegister POST /app/auth/register
func (h *Handler) HandleRegister(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if !h.state.BeginAuth() {
		c.JSON(http.StatusConflict, gin.H{"error": "Authentication already in progress"})
		return
	}
	defer h.state.EndAuth()

	user, err := h.session.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("註冊成功", zap.String("email", req.Email), zap.String("plan", user.Plan))
	h.state.DismissRoutes()
	h.respondState(c)
}

// HandleLogin POST /app/auth/login
func (h *Handler) HandleLogin(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if !h.state.BeginAuth() {
		c.JSON(http.StatusConflict, gin.H{"error": "Authentication already in progress"})
		return
	}
	defer h.state.EndAuth()

	if _, err := h.session.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		respondError(c, err)
		return
	}

	h.state.DismissRoutes()
	h.respondState(c)
}

// HandleGoogleLogin POST /app/auth/google
func (h *Handler) HandleGoogleLogin(c *gin.Context) {
	var req GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if !h.state.BeginAuth() {
		c.JSON(http.StatusConflict, gin.H{"error": "Authentication already in progress"})
		return
	}
	defer h.state.EndAuth()

	if _, err := h.session.GoogleLogin(c.Request.Context(), req.Credential); err != nil {
		respondError(c, err)
		return
	}

	h.state.DismissRoutes()
	h.respondState(c)
}

// HandleLogout POST /app/auth/logout
// 後端登出失敗也照樣清本地身份，配額回到匿名基準
func (h *Handler) HandleLogout(c *gin.Context) {
	h.session.Logout(c.Request.Context())
	h.respondState(c)
}
