package store

import (
	"sync"

	"recipe-cleaner/internal/core/workflow"
	"recipe-cleaner/internal/pkg/common"
)

// InputKind 三種輸入模式
type InputKind string

const (
	InputURL   InputKind = "url"
	InputPhoto InputKind = "photo"
	InputVideo InputKind = "video"
)

// ValidInputKind 檢查輸入模式
func ValidInputKind(k InputKind) bool {
	return k == InputURL || k == InputPhoto || k == InputVideo
}

// Store 整個 UI 的狀態物件，單一持有者
// 瀏覽器前端是無狀態的投影，所有追蹤值都集中在這裡，
// 每個轉移在鎖內一次跑完（單執行緒 UI 事件迴圈的 Go 對應）。
// 網路呼叫在鎖外進行，完成後的回寫由呼叫端先驗序號再進來。
type Store struct {
	mu sync.Mutex

	// 目前顯示的食譜，擷取/翻譯/載入收藏時整個替換
	// generation 在每次顯示對象更換時 +1，慢回應帶著發出當下的世代回寫
	recipe     *common.Recipe
	generation uint64
	progress   *workflow.Progress

	// 份量縮放目標，只影響渲染
	targetServings int

	// 輸入視圖
	inputKind  InputKind
	urlInput   string
	videoInput string
	photoCount int

	// 進行中旗標：旗標為 true 時對應操作禁止重入
	loading      bool
	translating  bool
	authLoading  bool
	savingRecipe bool

	// 載入訊息輪播目前顯示的訊息
	loadingMessage string

	// 回饋
	feedbackSent        bool
	hasRatedThisSession bool

	// 錯誤與導向
	inlineError   string
	showSignup    bool
	showPricing   bool
	upgradePrompt bool
}

// New 建立初始狀態
func New() *Store {
	return &Store{
		progress:  workflow.NewProgress(),
		inputKind: InputURL,
	}
}

// --- 食譜生命週期 ---

// SetRecipe 擷取/翻譯/載入成功：整個替換，進度歸零，縮放目標回到食譜本身份量
func (s *Store) SetRecipe(r *common.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recipe = r
	s.generation++
	s.progress = workflow.NewProgress()
	s.targetServings = r.Servings
	s.inlineError = ""
}

// ReplaceRecipe 翻譯成功：只換內容，進度與縮放目標保留
// gen 是翻譯發出當下記下的世代，期間畫面已換人（新擷取、回到輸入視圖）
// 就丟棄這份結果，回傳是否有回寫。
func (s *Store) ReplaceRecipe(r *common.Recipe, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return false
	}
	s.recipe = r
	return true
}

// Recipe 目前顯示的食譜（可能為 nil）
func (s *Store) Recipe() *common.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recipe
}

// DisplayedRecipe 目前顯示的食譜與其世代序號，給翻譯這類慢回寫用
func (s *Store) DisplayedRecipe() (*common.Recipe, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recipe, s.generation
}

// Generation 顯示世代序號
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// ReturnToInput 回到輸入視圖：丟棄食譜、清空進度
func (s *Store) ReturnToInput() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recipe = nil
	s.generation++
	s.progress = workflow.NewProgress()
	s.targetServings = 0
	s.inlineError = ""
}

// --- 烹飪進度 ---

// Complete 標記食材或步驟完成；食材全數完成時自動進入 cook
func (s *Store) Complete(kind workflow.ItemKind, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recipe == nil {
		return common.NewValidationError("no recipe loaded")
	}
	s.progress.Complete(kind, index, s.total(kind))
	return nil
}

// Undo 還原該類完成表中索引最大的一筆
func (s *Store) Undo(kind workflow.ItemKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.Undo(kind)
}

// ResetProgress 完整重置：回 prep、清空兩張表、本次評分旗標歸零
func (s *Store) ResetProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.progress.Reset()
	s.hasRatedThisSession = false
}

// SetPhase 手動切換階段
func (s *Store) SetPhase(phase workflow.Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.progress.SetPhase(phase) {
		return common.NewValidationError("invalid phase")
	}
	return nil
}

// SetServings 設定縮放目標，範圍外直接拒絕、不動任何狀態
func (s *Store) SetServings(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !workflow.ValidServings(n) {
		return common.NewValidationError("servings out of range")
	}
	s.targetServings = n
	return nil
}

func (s *Store) total(kind workflow.ItemKind) int {
	if s.recipe == nil {
		return 0
	}
	if kind == workflow.KindStep {
		return len(s.recipe.Steps)
	}
	return len(s.recipe.Ingredients)
}

// --- 輸入視圖 ---

// SetInputKind 切換輸入模式，回傳是否真的變了（載入中切換要重啟輪播）
func (s *Store) SetInputKind(kind InputKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inputKind == kind {
		return false
	}
	s.inputKind = kind
	return true
}

// InputKind 目前輸入模式
func (s *Store) InputKind() InputKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputKind
}

// SetInputs 綁定輸入欄位值
func (s *Store) SetInputs(url, video string, photoCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.urlInput = url
	s.videoInput = video
	s.photoCount = photoCount
}

// ClearInput 擷取成功後清掉這次用到的輸入欄位
func (s *Store) ClearInput(kind InputKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case InputURL:
		s.urlInput = ""
	case InputVideo:
		s.videoInput = ""
	case InputPhoto:
		s.photoCount = 0
	}
}

// --- 進行中旗標 ---

// BeginLoading 嘗試進入載入狀態；已有擷取在途時回傳 false
func (s *Store) BeginLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return false
	}
	s.loading = true
	s.inlineError = ""
	s.showSignup = false
	s.showPricing = false
	return true
}

// EndLoading 擷取結束（成功或失敗）
func (s *Store) EndLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	s.loadingMessage = ""
}

// Loading 是否有擷取在途
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetLoadingMessage 輪播更新目前訊息；載入已結束時忽略
func (s *Store) SetLoadingMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		s.loadingMessage = msg
	}
}

// BeginTranslating 嘗試進入翻譯狀態
func (s *Store) BeginTranslating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.translating {
		return false
	}
	s.translating = true
	return true
}

// EndTranslating 翻譯結束
func (s *Store) EndTranslating() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.translating = false
}

// BeginAuth 嘗試進入認證狀態
func (s *Store) BeginAuth() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.authLoading {
		return false
	}
	s.authLoading = true
	return true
}

// EndAuth 認證結束
func (s *Store) EndAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authLoading = false
}

// BeginSaving 嘗試進入收藏狀態
func (s *Store) BeginSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.savingRecipe {
		return false
	}
	s.savingRecipe = true
	return true
}

// EndSaving 收藏結束
func (s *Store) EndSaving() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savingRecipe = false
}

// --- 回饋 ---

// SetFeedbackSent 回饋已送出旗標（計時還原由 feedback service 排程）
func (s *Store) SetFeedbackSent(sent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedbackSent = sent
}

// MarkRated 標記本次已評分；已評過回傳 false
func (s *Store) MarkRated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasRatedThisSession {
		return false
	}
	s.hasRatedThisSession = true
	return true
}

// UnmarkRated 評分送出失敗時回滾旗標，保住使用者唯一的評分機會
func (s *Store) UnmarkRated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasRatedThisSession = false
}

// HasRated 本次是否已評分
func (s *Store) HasRated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasRatedThisSession
}

// --- 錯誤與導向 ---

// SetInlineError 內嵌錯誤訊息（generic 失敗路徑）
func (s *Store) SetInlineError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inlineError = msg
}

// RouteSignup 匿名配額用盡：導向註冊流程
func (s *Store) RouteSignup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showSignup = true
}

// RoutePricing 配額用盡或被拒：導向訂閱方案
func (s *Store) RoutePricing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showPricing = true
}

// ShowUpgradePrompt 翻譯的 upgrade_required 走可關閉提示，不走內嵌錯誤
func (s *Store) ShowUpgradePrompt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upgradePrompt = true
}

// DismissUpgradePrompt 關閉升級提示（手動或計時自動）
func (s *Store) DismissUpgradePrompt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upgradePrompt = false
}

// DismissRoutes 關閉註冊/方案導向
func (s *Store) DismissRoutes() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.showSignup = false
	s.showPricing = false
}
