package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// 本地持久化的三個獨立值：認證 token、語系選擇、匿名指紋。
// 各自獨立儲存、啟動時各自獨立讀取，任一缺失不影響其他。
const (
	KeyToken       = "token"
	KeyLocale      = "locale"
	KeyFingerprint = "fingerprint"
)

// Store 檔案型本地儲存
type Store struct {
	mu  sync.Mutex
	dir string
}

// New 建立本地儲存，dir 留空時使用使用者設定目錄
func New(dir string) (*Store, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user config dir: %w", err)
		}
		dir = filepath.Join(base, "recipe-cleaner")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create local store dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

type entry struct {
	Value string `json:"value"`
}

// Get 讀取單一值，不存在時回傳空字串
func (s *Store) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return ""
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return ""
	}
	return e.Value
}

// Set 寫入單一值
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(entry{Value: value})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0600)
}

// Delete 移除單一值（值不存在不視為錯誤）
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
