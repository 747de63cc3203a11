package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-cleaner/internal/api"
	"recipe-cleaner/internal/backend"
	"recipe-cleaner/internal/core/acquire"
	"recipe-cleaner/internal/core/billing"
	"recipe-cleaner/internal/core/cache"
	"recipe-cleaner/internal/core/feedback"
	"recipe-cleaner/internal/core/i18n"
	"recipe-cleaner/internal/core/session"
	"recipe-cleaner/internal/core/store"
	"recipe-cleaner/internal/infrastructure/config"
	"recipe-cleaner/internal/pkg/common"
	"recipe-cleaner/internal/pkg/localstore"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 使用 logger 記錄啟動信息
	common.LogInfo("載入設定",
		zap.String("backend_base_url", cfg.Backend.BaseURL),
		zap.Duration("backend_timeout", cfg.Backend.Timeout),
	)

	// 初始化快取（快取開啟但初始化失敗時才 Fatal）
	cacheManager, err := cache.NewManager(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize cache manager", zap.Error(err))
	}
	defer cacheManager.Close()

	// 初始化本地儲存（token、語系、指紋）
	local, err := localstore.New("")
	if err != nil {
		common.LogFatal("Failed to initialize local store", zap.Error(err))
	}

	// 初始化核心服務
	client := backend.NewClient(cfg)
	state := store.New()
	locales := i18n.NewManager(local, cfg.Locale.Default)
	sess := session.NewManager(cfg, client, local, func() string {
		return string(locales.Active())
	})
	translator := i18n.NewTranslator(cfg, client, state, sess, cacheManager, locales)
	acquireCtrl := acquire.NewController(cfg, client, state, sess, locales)
	billingSvc := billing.NewService(client, sess)
	feedbackSvc := feedback.NewService(cfg, client, sess, state)

	// 啟動時恢復會話、預載方案（兩者失敗都不致命）
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 15*time.Second)
	sess.Bootstrap(startupCtx)
	if err := billingSvc.LoadPlans(startupCtx); err != nil {
		common.LogError("Failed to preload plans", zap.Error(err))
	}
	startupCancel()

	// 設置路由
	router, err := api.SetupRouter(cfg, &api.Services{
		State:      state,
		Session:    sess,
		Acquire:    acquireCtrl,
		Translator: translator,
		Locales:    locales,
		Billing:    billingSvc,
		Feedback:   feedbackSvc,
		Cache:      cacheManager,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
