package api

import (
	"context"
	"net/http"
	"time"

	"recipe-cleaner/internal/api/handlers"
	"recipe-cleaner/internal/api/handlers/health"
	"recipe-cleaner/internal/api/middleware"
	"recipe-cleaner/internal/core/acquire"
	"recipe-cleaner/internal/core/billing"
	"recipe-cleaner/internal/core/cache"
	"recipe-cleaner/internal/core/feedback"
	"recipe-cleaner/internal/core/i18n"
	"recipe-cleaner/internal/core/session"
	"recipe-cleaner/internal/core/store"
	"recipe-cleaner/internal/infrastructure/config"
	"recipe-cleaner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置：涵蓋最慢的影片擷取
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (16MB)：base64 照片組要塞得下
	maxBodySize = 16 << 20
)

// Services 路由需要的全部服務
type Services struct {
	State      *store.Store
	Session    *session.Manager
	Acquire    *acquire.Controller
	Translator *i18n.Translator
	Locales    *i18n.Manager
	Billing    *billing.Service
	Feedback   *feedback.Service
	Cache      *cache.Manager
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svcs *Services) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置：只服務本機前端
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 速率限制
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 全局中間件：設置超時和依賴
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("cache_manager", svcs.Cache)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
			})
			c.Abort()
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	h := handlers.NewHandler(
		cfg,
		svcs.State,
		svcs.Session,
		svcs.Acquire,
		svcs.Translator,
		svcs.Locales,
		svcs.Billing,
		svcs.Feedback,
	)

	// UI 狀態與操作路由組
	app := router.Group("/app")
	{
		app.GET("/state", h.HandleState)
		app.POST("/view/input", h.HandleReturnToInput)
		app.POST("/dismiss", h.HandleDismiss)

		// 擷取：去重中間件擋連點
		app.POST("/acquire", middleware.Deduplication(cfg), h.HandleAcquire)
		app.POST("/input-kind", h.HandleInputKind)
		app.POST("/inputs", h.HandleInputs)

		// 備料/烹飪進度
		app.POST("/progress/:kind/:index", h.HandleComplete)
		app.POST("/progress/undo", h.HandleUndo)
		app.POST("/progress/reset", h.HandleResetProgress)
		app.POST("/progress/phase", h.HandlePhase)
		app.POST("/servings", h.HandleServings)

		// 會話
		app.POST("/auth/register", h.HandleRegister)
		app.POST("/auth/login", h.HandleLogin)
		app.POST("/auth/google", h.HandleGoogleLogin)
		app.POST("/auth/logout", h.HandleLogout)

		// 食譜集
		app.GET("/recipes", h.HandleListSaved)
		app.POST("/recipes", h.HandleSaveRecipe)
		app.DELETE("/recipes/:id", h.HandleDeleteSaved)

		// 訂閱方案
		app.GET("/plans", h.HandlePlans)
		app.POST("/checkout", h.HandleCheckout)

		// 回饋與評分
		app.POST("/feedback", h.HandleFeedback)
		app.POST("/rating", h.HandleRating)
		app.GET("/ratings/summary", h.HandleRatingSummary)

		// 語系
		app.POST("/locale", h.HandleLocale)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_manager_initialized", svcs.Cache != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
