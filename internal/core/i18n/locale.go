package i18n

import (
	"sync"

	"recipe-cleaner/internal/pkg/localstore"
)

// Locale 支援的語系，固定枚舉
type Locale string

const (
	LocaleEN   Locale = "en"
	LocaleZhTW Locale = "zh-TW"
	LocaleJA   Locale = "ja"
	LocaleES   Locale = "es"
)

// BaseLocale 任何缺鍵都保證回退到這個基準語系
const BaseLocale = LocaleEN

// ValidLocale 檢查語系是否在枚舉內
func ValidLocale(l Locale) bool {
	switch l {
	case LocaleEN, LocaleZhTW, LocaleJA, LocaleES:
		return true
	}
	return false
}

// Locales 全部支援語系
func Locales() []Locale {
	return []Locale{LocaleEN, LocaleZhTW, LocaleJA, LocaleES}
}

// Manager 管理目前啟用的 UI 語系（單一持久化選擇）
// 注意與「內容語系」的區別：食譜內文實際的語言記在 Recipe.ContentLocale。
type Manager struct {
	mu     sync.Mutex
	active Locale
	local  *localstore.Store
}

// NewManager 啟動時讀回持久化的語系選擇，無效或缺失時用預設值
func NewManager(local *localstore.Store, fallback string) *Manager {
	active := Locale(local.Get(localstore.KeyLocale))
	if !ValidLocale(active) {
		active = Locale(fallback)
	}
	if !ValidLocale(active) {
		active = BaseLocale
	}
	return &Manager{active: active, local: local}
}

// Active 目前語系
func (m *Manager) Active() Locale {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Set 切換語系並持久化；回傳是否真的變了
func (m *Manager) Set(l Locale) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == l {
		return false
	}
	m.active = l
	_ = m.local.Set(localstore.KeyLocale, string(l))
	return true
}
