package common

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultServings 份量缺失或無法解析時的預設值
const DefaultServings = 4

// QuotaUnlimited 配額無上限的哨兵值（付費方案）
const QuotaUnlimited = -1

// StepKind 步驟的表示形式，建構 Recipe 時解析一次，渲染時不再判斷形狀
type StepKind string

const (
	StepPlain      StepKind = "plain"      // 純文字步驟
	StepStructured StepKind = "structured" // 帶食材清單的結構化步驟
)

// Step 食譜步驟（tagged variant）
type Step struct {
	Kind        StepKind `json:"kind"`
	Text        string   `json:"text,omitempty"`        // Kind == plain
	Instruction string   `json:"instruction,omitempty"` // Kind == structured
	Ingredients []string `json:"ingredients,omitempty"` // Kind == structured 的簡短食材提及
}

// Recipe 清理後的食譜實體
// 每次擷取、翻譯或載入收藏時整個替換，絕不就地修改
type Recipe struct {
	Title         string   `json:"title"`
	Author        string   `json:"author,omitempty"`
	Source        string   `json:"source,omitempty"`
	SourceURL     string   `json:"source_url,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	Servings      int      `json:"servings"`
	PrepTime      string   `json:"prep_time,omitempty"`
	CookTime      string   `json:"cook_time,omitempty"`
	Ingredients   []string `json:"ingredients"`
	Steps         []Step   `json:"steps"`
	Tips          []string `json:"tips,omitempty"`
	ContentLocale string   `json:"content_locale"`
}

// User 已登入的使用者
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Plan  string `json:"plan,omitempty"` // free / basic / pro
}

// SavedRecipe 收藏清單中的一筆（順序由後端決定，以 id 為鍵）
type SavedRecipe struct {
	ID     string `json:"id"`
	Recipe Recipe `json:"recipe"`
}

// Plan 訂閱方案（啟動時抓取一次，之後視為唯讀設定）
type Plan struct {
	Name     string   `json:"name"`
	Monthly  Price    `json:"monthly"`
	Features []string `json:"features"`
}

// Price 方案價格
type Price struct {
	Price string `json:"price"`
}

// PlanSet 全部方案
type PlanSet struct {
	Basic Plan `json:"basic"`
	Pro   Plan `json:"pro"`
}

// RatingSummary 評分摘要
type RatingSummary struct {
	Average float64 `json:"average"`
	Total   int     `json:"total"`
}

var servingsPattern = regexp.MustCompile(`\d+`)

// ParseServings 解析份量字串，取第一段數字；缺失、為零或無法解析時回傳預設值
func ParseServings(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultServings
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n > 0 {
			return n
		}
		return DefaultServings
	}
	if m := servingsPattern.FindString(raw); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			return n
		}
	}
	return DefaultServings
}

// FilterEmpty 過濾空白字串（tips 清單用）
func FilterEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
