package photo

import (
	"strings"

	"recipe-cleaner/internal/infrastructure/config"
	"recipe-cleaner/internal/pkg/common"
)

// Validator 照片負載驗證
// 照片的縮放、裁切與辨識都在後端，客戶端只擋明顯不合法的負載，
// 避免整包 dataURI 白白上傳。
type Validator struct {
	maxSizeBytes int64
	maxCount     int
}

// NewValidator 創建照片驗證器
func NewValidator(cfg *config.Config) *Validator {
	return &Validator{
		maxSizeBytes: cfg.Photo.MaxSizeBytes,
		maxCount:     cfg.Photo.MaxCount,
	}
}

// Validate 檢查一組照片 dataURI
func (v *Validator) Validate(photos []string) error {
	if len(photos) == 0 {
		return common.NewValidationError("no photos provided")
	}
	if len(photos) > v.maxCount {
		return common.ErrInvalidPhotoSize
	}

	for _, p := range photos {
		if !strings.HasPrefix(p, "data:image/") || !strings.Contains(p, ";base64,") {
			return common.ErrInvalidPhotoFormat
		}
		// base64 文字長度約為原始位元組的 4/3
		if int64(len(p))*3/4 > v.maxSizeBytes {
			return common.ErrInvalidPhotoSize
		}
	}
	return nil
}
