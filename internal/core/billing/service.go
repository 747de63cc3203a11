package billing

import (
	"context"
	"sync"

	"recipe-cleaner/internal/backend"
	"recipe-cleaner/internal/core/session"
	"recipe-cleaner/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 訂閱方案閘門
// 方案資料啟動時抓取一次，之後視為唯讀設定。
// 本地配額餘額永遠只是顯示提示，後端可能在本地餘額為正時仍拒絕
//（跨裝置競態），拒絕時由擷取控制器導向方案流程。
type Service struct {
	client  *backend.Client
	session *session.Manager

	mu    sync.RWMutex
	plans *common.PlanSet
}

// NewService 創建訂閱服務
func NewService(client *backend.Client, sess *session.Manager) *Service {
	return &Service{
		client:  client,
		session: sess,
	}
}

// LoadPlans 啟動時抓取方案資料；失敗不致命，下次查詢時補抓
func (s *Service) LoadPlans(ctx context.Context) error {
	plans, err := s.client.Plans(ctx)
	if err != nil {
		common.LogWarn("方案資料抓取失敗", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.plans = plans
	s.mu.Unlock()

	common.LogInfo("方案資料已載入")
	return nil
}

// Plans 取得方案資料，尚未載入成功時補抓一次
func (s *Service) Plans(ctx context.Context) (*common.PlanSet, error) {
	s.mu.RLock()
	plans := s.plans
	s.mu.RUnlock()

	if plans != nil {
		return plans, nil
	}
	if err := s.LoadPlans(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plans, nil
}

// StartCheckout 發起升級
// 需要已登入身份（匿名先導向註冊）；成功後瀏覽器重導到外部付款頁，
// 本地不再有狀態變化，會話在下次載入時刷新。
func (s *Service) StartCheckout(ctx context.Context, plan string) (string, error) {
	if plan != "basic" && plan != "pro" {
		return "", common.NewValidationError("unknown plan")
	}
	if !s.session.SignedIn() {
		return "", common.ErrSignupRequired
	}

	url, err := s.client.CreateCheckout(ctx, plan, s.session.Token())
	if err != nil {
		common.LogError("結帳發起失敗", zap.String("plan", plan), zap.Error(err))
		return "", err
	}

	common.LogInfo("結帳已發起", zap.String("plan", plan))
	return url, nil
}
