package acquire

import (
	"context"
	"strings"
	"sync"

	"recipe-cleaner/internal/backend"
	"recipe-cleaner/internal/core/i18n"
	"recipe-cleaner/internal/core/photo"
	"recipe-cleaner/internal/core/session"
	"recipe-cleaner/internal/core/store"
	"recipe-cleaner/internal/infrastructure/config"
	"recipe-cleaner/internal/pkg/common"

	"go.uber.org/zap"
)

// Controller 擷取控制器
// 三種輸入模式各自驗證非空後，對後端發出恰好一次請求（帶啟用語系），
// 解析為食譜或結構化失敗。UI 視角下同時最多一次擷取在途：
// loading 旗標為 true 時拒絕重入，沒有請求取消機制。
// 每次嘗試記下發出時的顯示世代，期間世代推進（使用者回到輸入視圖）
// 代表回應已過期，不得覆蓋較新狀態。
type Controller struct {
	config  *config.Config
	client  *backend.Client
	state   *store.Store
	session *session.Manager
	locales *i18n.Manager
	photos  *photo.Validator

	rotMu  sync.Mutex
	rotGen uint64 // 輪播世代，+1 即讓舊輪播失效
}

// Input 一次擷取的輸入
type Input struct {
	Kind   store.InputKind
	URL    string   // Kind == url / video
	Photos []string // Kind == photo，dataURI 列表
}

// NewController 創建擷取控制器
func NewController(cfg *config.Config, client *backend.Client, state *store.Store, sess *session.Manager, locales *i18n.Manager) *Controller {
	return &Controller{
		config:  cfg,
		client:  client,
		state:   state,
		session: sess,
		locales: locales,
		photos:  photo.NewValidator(cfg),
	}
}

// Submit 發起一次擷取
func (c *Controller) Submit(ctx context.Context, input Input) error {
	locale := c.locales.Active()

	// 本地驗證：空輸入不出網路
	if err := c.validate(input, locale); err != nil {
		return err
	}

	// 同時最多一次在途
	if !c.state.BeginLoading() {
		return common.ErrTooManyRequests
	}

	attempt := c.state.Generation()
	requestID := common.GenerateUUID()
	c.startRotation(input.Kind, locale)

	common.LogInfo("開始擷取",
		zap.String("kind", string(input.Kind)),
		zap.String("locale", string(locale)),
		zap.String("request_id", requestID),
	)

	recipe, err := c.dispatch(ctx, input, locale)

	c.stopRotation()
	c.state.EndLoading()

	// 等待期間畫面世代已推進（例如使用者切回輸入視圖），遲到回應直接丟棄
	if c.state.Generation() != attempt {
		common.LogWarn("丟棄過期的擷取回應",
			zap.Uint64("generation", attempt),
			zap.String("request_id", requestID),
		)
		return nil
	}

	if err != nil {
		return c.classify(err, locale)
	}

	// 成功：整份替換、樂觀扣額、清空這次用到的輸入欄位、進度歸零
	c.session.DecrementQuota()
	c.state.SetRecipe(recipe)
	c.state.ClearInput(input.Kind)

	common.LogInfo("擷取成功",
		zap.String("title", recipe.Title),
		zap.Int("servings", recipe.Servings),
		zap.Int("quota_remaining", c.session.QuotaRemaining()),
		zap.String("request_id", requestID),
	)
	return nil
}

// validate 本地輸入驗證，訊息用啟用語系
func (c *Controller) validate(input Input, locale i18n.Locale) error {
	switch input.Kind {
	case store.InputURL:
		if strings.TrimSpace(input.URL) == "" {
			return common.NewValidationError(i18n.T(locale, "input.empty_url"))
		}
	case store.InputVideo:
		if strings.TrimSpace(input.URL) == "" {
			return common.NewValidationError(i18n.T(locale, "input.empty_video"))
		}
	case store.InputPhoto:
		if len(input.Photos) == 0 {
			return common.NewValidationError(i18n.T(locale, "input.empty_photos"))
		}
		return c.photos.Validate(input.Photos)
	default:
		return common.NewValidationError("unknown input kind")
	}
	return nil
}

// dispatch 依輸入模式呼叫對應的後端端點
func (c *Controller) dispatch(ctx context.Context, input Input, locale i18n.Locale) (*common.Recipe, error) {
	auth := c.session.Auth()
	switch input.Kind {
	case store.InputPhoto:
		return c.client.CleanPhotos(ctx, input.Photos, string(locale), auth)
	case store.InputVideo:
		return c.client.CleanVideo(ctx, input.URL, string(locale), auth)
	default:
		return c.client.CleanURL(ctx, input.URL, string(locale), auth)
	}
}

// classify 後端失敗分流：需要註冊 → 註冊流程，需要升級 → 方案流程，
// 其餘內嵌顯示訊息並停留在輸入視圖。
func (c *Controller) classify(err error, locale i18n.Locale) error {
	switch {
	case common.IsSignupRequired(err):
		c.state.RouteSignup()
	case common.IsUpgradeRequired(err):
		c.state.RoutePricing()
	default:
		msg := err.Error()
		if msg == "" {
			msg = i18n.T(locale, "error.generic")
		}
		c.state.SetInlineError(msg)
	}

	common.LogError("擷取失敗", zap.Error(err))
	return err
}
