package acquire

import (
	"time"

	"recipe-cleaner/internal/core/i18n"
	"recipe-cleaner/internal/core/store"
)

// 載入訊息輪播：固定間隔單調推進到序列最後一則後停住。
// 新擷取開始、或載入中切換輸入模式/語系時，對新序列重頭開始。
// 世代計數讓舊輪播自行失效，載入結束時也必須停掉計時器。

// startRotation 啟動（或重啟）輪播
func (c *Controller) startRotation(kind store.InputKind, locale i18n.Locale) {
	c.rotMu.Lock()
	c.rotGen++
	gen := c.rotGen
	c.rotMu.Unlock()

	messages := i18n.LoadingMessages(locale, string(kind))
	c.state.SetLoadingMessage(messages[0])

	go func() {
		ticker := time.NewTicker(c.config.Loading.RotateInterval)
		defer ticker.Stop()

		index := 0
		for range ticker.C {
			if !c.alive(gen) || !c.state.Loading() {
				return
			}
			if index < len(messages)-1 {
				index++
			}
			c.state.SetLoadingMessage(messages[index])
			if index == len(messages)-1 {
				// 停在最後一則
				return
			}
		}
	}()
}

// stopRotation 讓目前輪播失效
func (c *Controller) stopRotation() {
	c.rotMu.Lock()
	c.rotGen++
	c.rotMu.Unlock()
}

// alive 輪播世代是否仍是最新
func (c *Controller) alive(gen uint64) bool {
	c.rotMu.Lock()
	defer c.rotMu.Unlock()
	return gen == c.rotGen
}

// RestartRotation 載入中切換輸入模式或語系時，對新序列重頭輪播
func (c *Controller) RestartRotation() {
	if !c.state.Loading() {
		return
	}
	c.startRotation(c.state.InputKind(), c.locales.Active())
}
