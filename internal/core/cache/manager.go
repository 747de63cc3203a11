package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"recipe-cleaner/internal/infrastructure/config"
	"recipe-cleaner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Manager 回應快取管理器
// 設定 redis_addr 時使用 Redis，否則退回進程內記憶體快取。
// 用於翻譯與擷取回應：同一輸入加同一目標語言重複出現時不再打後端。
type Manager struct {
	config *config.Config
	client *redis.Client
	mu     sync.RWMutex
	store  map[string]cacheEntry
	stats  cacheStats
}

// cacheEntry 記憶體快取條目
type cacheEntry struct {
	value       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 快取統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

// NewManager 創建快取管理器
func NewManager(cfg *config.Config) (*Manager, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}

	m := &Manager{
		config: cfg,
		store:  make(map[string]cacheEntry),
	}

	if cfg.Cache.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
		})

		// 測試連接
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		m.client = client
	} else {
		// 啟動清理過期緩存的協程（僅記憶體後端需要）
		go m.startCleanup()
	}

	common.LogInfo("快取管理員已初始化",
		zap.Bool("redis", m.client != nil),
		zap.Int("最大容量", cfg.Cache.MaxSize),
		zap.Duration("存活時間", cfg.Cache.TTL),
	)

	return m, nil
}

// Get 獲取快取值；kind 區分用途（translate / acquire），避免鍵空間互撞
func (m *Manager) Get(ctx context.Context, kind, key string) (string, error) {
	if m == nil || !m.config.Cache.Enabled {
		return "", common.ErrCacheDisabled
	}

	storageKey := m.generateKey(kind, key)

	if m.client != nil {
		data, err := m.client.Get(ctx, storageKey).Result()
		if err != nil {
			if err == redis.Nil {
				common.LogCacheMiss(kind, storageKey)
				return "", common.ErrCacheMiss
			}
			return "", fmt.Errorf("failed to get cache: %w", err)
		}
		common.LogCacheHit(kind, storageKey)
		return data, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[storageKey]
	if !exists {
		m.stats.misses++
		common.LogCacheMiss(kind, storageKey)
		return "", common.ErrCacheMiss
	}

	// 檢查是否過期
	if time.Now().After(entry.expiresAt) {
		delete(m.store, storageKey)
		m.stats.evictions++
		m.stats.misses++
		common.LogCacheMiss(kind, storageKey)
		return "", common.ErrCacheMiss
	}

	// 更新訪問統計
	entry.lastAccess = time.Now()
	entry.accessCount++
	m.store[storageKey] = entry
	m.stats.hits++

	common.LogCacheHit(kind, storageKey)
	return entry.value, nil
}

// Set 設置快取值
func (m *Manager) Set(ctx context.Context, kind, key, value string) error {
	if m == nil || !m.config.Cache.Enabled {
		return nil
	}

	storageKey := m.generateKey(kind, key)

	if m.client != nil {
		if err := m.client.Set(ctx, storageKey, value, m.config.Cache.TTL).Err(); err != nil {
			return fmt.Errorf("failed to set cache: %w", err)
		}
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// 檢查快取大小
	if len(m.store) >= m.config.Cache.MaxSize {
		evicted := m.cleanupLocked()
		if evicted > 0 {
			common.LogInfo("快取清理執行", zap.Int("清理數量", evicted))
		}

		// 如果仍然超過大小限制，執行 LRU 清理
		if len(m.store) >= m.config.Cache.MaxSize {
			m.evictLRULocked()
		}

		if len(m.store) >= m.config.Cache.MaxSize {
			m.stats.errors++
			common.LogWarn("快取已滿", zap.Int("目前容量", len(m.store)))
			return common.ErrCacheFull
		}
	}

	now := time.Now()
	m.store[storageKey] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(m.config.Cache.TTL),
		createdAt:  now,
		lastAccess: now,
	}

	return nil
}

// generateKey 生成快取鍵
func (m *Manager) generateKey(kind, key string) string {
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%s:%s", kind, hex.EncodeToString(hash[:]))
}

// startCleanup 啟動清理過期緩存的協程
func (m *Manager) startCleanup() {
	interval := m.config.Cache.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		m.cleanupLocked()
		m.mu.Unlock()
	}
}

// cleanupLocked 清理過期的快取，呼叫端必須持鎖
func (m *Manager) cleanupLocked() int {
	now := time.Now()
	count := 0

	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}

	return count
}

// evictLRULocked 執行 LRU 清理，呼叫端必須持鎖
func (m *Manager) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	// 找到最少訪問的項目
	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
		common.LogInfo("快取已淘汰(LRU)", zap.String("鍵", oldestKey))
	}
}

// GetStats 獲取快取統計信息
func (m *Manager) GetStats() map[string]interface{} {
	if m == nil {
		return map[string]interface{}{"enabled": false}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"enabled":   true,
		"redis":     m.client != nil,
		"size":      len(m.store),
		"max_size":  m.config.Cache.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"errors":    m.stats.errors,
	}
}

// Close 關閉快取管理器
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.store = make(map[string]cacheEntry)
	if m.client != nil {
		return m.client.Close()
	}
	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
	)
	return nil
}
