package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"

	"recipe-cleaner/internal/pkg/common"
	"recipe-cleaner/internal/pkg/localstore"
)

// ensureFingerprint 取得匿名指紋：已持久化就沿用，否則生成一次並持久化。
// 指紋是環境粗粒度信號的雜湊，附在所有未認證請求上，
// 讓後端能對單一裝置執行匿名配額。
func ensureFingerprint(local *localstore.Store) string {
	if fp := local.Get(localstore.KeyFingerprint); fp != "" {
		return fp
	}

	hostname, _ := os.Hostname()
	seed := fmt.Sprintf("%s|%s|%s|%s",
		hostname,
		runtime.GOOS,
		runtime.GOARCH,
		common.GenerateUUID(), // 一次性鹽，避免同機多安裝互撞
	)

	hash := sha256.Sum256([]byte(seed))
	fp := hex.EncodeToString(hash[:])

	if err := local.Set(localstore.KeyFingerprint, fp); err != nil {
		common.LogWarn("指紋持久化失敗，本次將使用暫時指紋")
	}
	return fp
}
