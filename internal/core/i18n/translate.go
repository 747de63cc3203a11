package i18n

import (
	"context"
	"fmt"
	"time"

	"recipe-cleaner/internal/backend"
	"recipe-cleaner/internal/core/cache"
	"recipe-cleaner/internal/core/session"
	"recipe-cleaner/internal/core/store"
	"recipe-cleaner/internal/infrastructure/config"
	"recipe-cleaner/internal/pkg/common"

	"go.uber.org/zap"
)

// Translator 語系切換與食譜翻譯
// 切換語系先立即更新靜態字串（查表），再視需要對目前顯示的食譜
// 發出翻譯請求；翻譯成功整份替換並更新內容語系。
type Translator struct {
	config  *config.Config
	client  *backend.Client
	state   *store.Store
	session *session.Manager
	cache   *cache.Manager
	locales *Manager
}

// NewTranslator 創建翻譯服務
func NewTranslator(cfg *config.Config, client *backend.Client, state *store.Store, sess *session.Manager, cacheManager *cache.Manager, locales *Manager) *Translator {
	return &Translator{
		config:  cfg,
		client:  client,
		state:   state,
		session: sess,
		cache:   cacheManager,
		locales: locales,
	}
}

// SetLocale 切換啟用語系
// 回傳值表示語系是否真的變了（載入中切換要重啟輪播用）。
func (t *Translator) SetLocale(ctx context.Context, locale Locale) (bool, error) {
	if !ValidLocale(locale) {
		return false, common.NewValidationError("unsupported locale")
	}

	changed := t.locales.Set(locale)
	if !changed {
		return false, nil
	}

	// 目前有顯示食譜且內容語系不同 → 觸發翻譯
	recipe, gen := t.state.DisplayedRecipe()
	if recipe != nil && recipe.ContentLocale != string(locale) {
		t.translate(ctx, recipe, gen, locale)
	}
	return true, nil
}

// translate 對整份食譜發出翻譯請求
// upgrade_required 走可關閉提示（計時自動關閉），不走內嵌錯誤；
// 其他失敗記日誌、顯示中的食譜保持不動。
// gen 是發出時的顯示世代，回寫前驗過才能落地，過期結果只進快取。
func (t *Translator) translate(ctx context.Context, recipe *common.Recipe, gen uint64, target Locale) {
	if !t.state.BeginTranslating() {
		common.LogDebug("翻譯已在進行中，忽略重入")
		return
	}
	defer t.state.EndTranslating()

	// 先查快取：同一份食譜翻到同一目標語言不再打後端
	cacheKey := t.cacheKey(recipe, target)
	if cached, err := t.cache.Get(ctx, "translate", cacheKey); err == nil {
		var translated common.Recipe
		if err := common.ParseJSON(cached, &translated); err == nil {
			t.state.ReplaceRecipe(&translated, gen)
			return
		}
	}

	translated, err := t.client.Translate(ctx, recipe, string(target), t.session.Auth())
	if err != nil {
		if common.IsUpgradeRequired(err) {
			t.state.ShowUpgradePrompt()
			time.AfterFunc(t.config.Prompt.AutoDismiss, t.state.DismissUpgradePrompt)
			return
		}
		common.LogError("翻譯失敗，保留原文",
			zap.String("target", string(target)),
			zap.Error(err),
		)
		return
	}

	if !t.state.ReplaceRecipe(translated, gen) {
		common.LogWarn("丟棄過期的翻譯結果",
			zap.String("title", recipe.Title),
			zap.String("target", string(target)),
		)
	}

	if data, err := common.ToJSON(translated); err == nil {
		if err := t.cache.Set(ctx, "translate", cacheKey, data); err != nil {
			common.LogDebug("翻譯結果快取寫入失敗", zap.Error(err))
		}
	}
}

// cacheKey 以食譜內容加目標語言為鍵
func (t *Translator) cacheKey(recipe *common.Recipe, target Locale) string {
	data, err := common.ToJSON(recipe)
	if err != nil {
		data = recipe.Title
	}
	return fmt.Sprintf("%s→%s:%s", recipe.ContentLocale, target, data)
}
