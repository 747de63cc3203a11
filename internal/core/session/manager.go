package session

import (
	"context"
	"sync"

	"recipe-cleaner/internal/backend"
	"recipe-cleaner/internal/infrastructure/config"
	"recipe-cleaner/internal/pkg/common"
	"recipe-cleaner/internal/pkg/localstore"

	"go.uber.org/zap"
)

// Manager 身份與會話管理
// 持有 token、使用者記錄、配額餘額與收藏清單。
// 配額餘額只是顯示提示，後端才是權威：每次權威回應（登入、身份重查）
// 都會重算，本地的樂觀遞減不拿來做任何授權判斷。
type Manager struct {
	mu          sync.Mutex
	config      *config.Config
	client      *backend.Client
	local       *localstore.Store
	locale      func() string // 收藏清單解析時的語系回退
	token       string
	user        *common.User
	quota       int
	saved       []common.SavedRecipe
	fingerprint string
}

// NewManager 創建會話管理器，啟動時讀回持久化的 token 與指紋
func NewManager(cfg *config.Config, client *backend.Client, local *localstore.Store, locale func() string) *Manager {
	m := &Manager{
		config:      cfg,
		client:      client,
		local:       local,
		locale:      locale,
		token:       local.Get(localstore.KeyToken),
		fingerprint: ensureFingerprint(local),
	}
	m.quota = cfg.Quota.AnonymousBaseline
	return m
}

// Bootstrap 啟動時以現存 token 檢查身份；token 失效就丟棄
func (m *Manager) Bootstrap(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token == "" {
		return
	}

	user, err := m.client.Me(ctx, token)
	if err != nil || user == nil {
		common.LogWarn("現存 token 已失效，回到匿名身份", zap.Error(err))
		m.clearIdentity()
		return
	}

	m.adoptIdentity(user, token)
	if err := m.ReloadSaved(ctx); err != nil {
		common.LogWarn("收藏清單載入失敗", zap.Error(err))
	}
}

// Login 以 email+密碼登入
func (m *Manager) Login(ctx context.Context, email, password string) (*common.User, error) {
	user, token, err := m.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.finishAuth(ctx, user, token)
}

// Register 以 email+密碼註冊
func (m *Manager) Register(ctx context.Context, email, password string) (*common.User, error) {
	user, token, err := m.client.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.finishAuth(ctx, user, token)
}

// GoogleLogin 以外部身份憑證登入
func (m *Manager) GoogleLogin(ctx context.Context, credential string) (*common.User, error) {
	user, token, err := m.client.GoogleLogin(ctx, credential)
	if err != nil {
		return nil, err
	}
	return m.finishAuth(ctx, user, token)
}

// finishAuth 任一種認證成功後的共同收尾：換 token、換使用者、重算配額、重載收藏
func (m *Manager) finishAuth(ctx context.Context, user *common.User, token string) (*common.User, error) {
	m.adoptIdentity(user, token)
	if err := m.ReloadSaved(ctx); err != nil {
		common.LogWarn("收藏清單載入失敗", zap.Error(err))
	}
	common.LogInfo("登入成功", zap.String("plan", user.Plan))
	return user, nil
}

// Logout 登出：後端呼叫盡力而為，本地狀態一定清
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token != "" {
		if err := m.client.Logout(ctx, token); err != nil {
			common.LogWarn("後端登出失敗，仍清除本地身份", zap.Error(err))
		}
	}
	m.clearIdentity()
}

func (m *Manager) adoptIdentity(user *common.User, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	m.user = user
	m.quota = m.baselineFor(user)
	if err := m.local.Set(localstore.KeyToken, token); err != nil {
		common.LogWarn("token 持久化失敗")
	}
}

func (m *Manager) clearIdentity() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""
	m.user = nil
	m.saved = nil
	m.quota = m.config.Quota.AnonymousBaseline
	_ = m.local.Delete(localstore.KeyToken)
}

// baselineFor 依身份層級回推配額基準；付費方案無上限
func (m *Manager) baselineFor(user *common.User) int {
	if user == nil {
		return m.config.Quota.AnonymousBaseline
	}
	switch user.Plan {
	case "basic", "pro":
		return common.QuotaUnlimited
	default:
		return m.config.Quota.FreeBaseline
	}
}

// --- 配額 ---

// QuotaRemaining 目前剩餘配額（顯示用）
func (m *Manager) QuotaRemaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quota
}

// DecrementQuota 成功擷取後樂觀遞減 1；到 0 飽和，無上限哨兵豁免
func (m *Manager) DecrementQuota() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota == common.QuotaUnlimited {
		return
	}
	if m.quota > 0 {
		m.quota--
	}
}

// --- 收藏 ---

// ReloadSaved 重新載入收藏清單（需登入）
func (m *Manager) ReloadSaved(ctx context.Context) error {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token == "" {
		return common.ErrUnauthorized
	}

	saved, err := m.client.ListSaved(ctx, token, m.locale())
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.saved = saved
	m.mu.Unlock()
	return nil
}

// Saved 收藏清單快照
func (m *Manager) Saved() []common.SavedRecipe {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]common.SavedRecipe, len(m.saved))
	copy(out, m.saved)
	return out
}

// SaveRecipe 收藏目前食譜並重載清單
func (m *Manager) SaveRecipe(ctx context.Context, recipe *common.Recipe) error {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token == "" {
		return common.ErrSignupRequired
	}
	if err := m.client.SaveRecipe(ctx, recipe, token); err != nil {
		return err
	}
	return m.ReloadSaved(ctx)
}

// DeleteSaved 刪除一筆收藏並重載清單
func (m *Manager) DeleteSaved(ctx context.Context, id string) error {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token == "" {
		return common.ErrUnauthorized
	}
	if err := m.client.DeleteSaved(ctx, id, token); err != nil {
		return err
	}
	return m.ReloadSaved(ctx)
}

// --- 身份查詢 ---

// User 目前使用者（匿名時為 nil）
func (m *Manager) User() *common.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// SignedIn 是否已登入
func (m *Manager) SignedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

// Auth 組出這次請求的憑證：登入帶 token，匿名帶指紋
func (m *Manager) Auth() backend.Auth {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" {
		return backend.Auth{Token: m.token}
	}
	return backend.Auth{Fingerprint: m.fingerprint}
}

// Token 目前 token（空字串表示匿名）
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Fingerprint 匿名指紋
func (m *Manager) Fingerprint() string {
	return m.fingerprint
}
