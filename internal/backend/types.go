package backend

import (
	"encoding/json"
	"net/http"
	"strings"

	"recipe-cleaner/internal/pkg/common"
)

// recipeWire 後端回傳的食譜格式
// servings 可能是數字或字串，steps 每一項可能是純文字或結構化物件，
// 在這裡解析一次成 tagged variant，渲染端不再判斷形狀。
type recipeWire struct {
	Title       string            `json:"title"`
	Author      string            `json:"author"`
	Source      string            `json:"source"`
	SourceURL   string            `json:"sourceUrl"`
	ImageURL    string            `json:"imageUrl"`
	Servings    json.RawMessage   `json:"servings"`
	PrepTime    string            `json:"prepTime"`
	CookTime    string            `json:"cookTime"`
	Ingredients []string          `json:"ingredients"`
	Steps       []json.RawMessage `json:"steps"`
	Tips        []string          `json:"tips"`
	Language    string            `json:"language"`
}

// structuredStepWire 結構化步驟
type structuredStepWire struct {
	Instruction string   `json:"instruction"`
	Ingredients []string `json:"ingredients"`
}

// toRecipe 將 wire 格式轉為領域實體
func (w *recipeWire) toRecipe(fallbackLocale string) *common.Recipe {
	r := &common.Recipe{
		Title:         w.Title,
		Author:        w.Author,
		Source:        w.Source,
		SourceURL:     w.SourceURL,
		ImageURL:      w.ImageURL,
		Servings:      parseServingsRaw(w.Servings),
		PrepTime:      w.PrepTime,
		CookTime:      w.CookTime,
		Ingredients:   w.Ingredients,
		Tips:          common.FilterEmpty(w.Tips),
		ContentLocale: w.Language,
	}
	if r.ContentLocale == "" {
		r.ContentLocale = fallbackLocale
	}
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}

	r.Steps = make([]common.Step, 0, len(w.Steps))
	for _, raw := range w.Steps {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			r.Steps = append(r.Steps, common.Step{Kind: common.StepPlain, Text: text})
			continue
		}
		var structured structuredStepWire
		if err := json.Unmarshal(raw, &structured); err == nil && structured.Instruction != "" {
			r.Steps = append(r.Steps, common.Step{
				Kind:        common.StepStructured,
				Instruction: structured.Instruction,
				Ingredients: structured.Ingredients,
			})
		}
		// 兩種形狀都解析失敗的步驟直接略過
	}

	return r
}

// parseServingsRaw servings 欄位可能是 6、"6" 或 "6 people"
func parseServingsRaw(raw json.RawMessage) int {
	if len(raw) == 0 {
		return common.DefaultServings
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if n > 0 {
			return n
		}
		return common.DefaultServings
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return common.ParseServings(s)
	}
	return common.DefaultServings
}

// savedRecipeWire 收藏清單一筆，欄位可能是 snake_case 或 camelCase
type savedRecipeWire map[string]json.RawMessage

// pick 依序嘗試多個鍵名
func (w savedRecipeWire) pick(keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := w[k]; ok {
			return v
		}
	}
	return nil
}

func (w savedRecipeWire) str(keys ...string) string {
	raw := w.pick(keys...)
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (w savedRecipeWire) strSlice(keys ...string) []string {
	raw := w.pick(keys...)
	if raw == nil {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// toSaved 還原為 SavedRecipe
func (w savedRecipeWire) toSaved(fallbackLocale string) common.SavedRecipe {
	wire := recipeWire{
		Title:       w.str("title"),
		Author:      w.str("author"),
		Source:      w.str("source"),
		SourceURL:   w.str("sourceUrl", "source_url"),
		ImageURL:    w.str("imageUrl", "image_url"),
		Servings:    w.pick("servings"),
		PrepTime:    w.str("prepTime", "prep_time"),
		CookTime:    w.str("cookTime", "cook_time"),
		Ingredients: w.strSlice("ingredients"),
		Tips:        w.strSlice("tips"),
		Language:    w.str("language"),
	}
	if raw := w.pick("steps"); raw != nil {
		_ = json.Unmarshal(raw, &wire.Steps)
	}
	return common.SavedRecipe{
		ID:     w.str("id"),
		Recipe: *wire.toRecipe(fallbackLocale),
	}
}

// errorWire 後端錯誤格式，支援 {"error":{"code","message"}} 與 {"error":"..."} 兩種
type errorWire struct {
	Error json.RawMessage `json:"error"`
}

type errorDetailWire struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decodeError 解析後端失敗回應並歸類到錯誤分類法
// 「需要註冊」與「需要升級」各自導向不同的 UI 流程，其餘訊息原樣內嵌顯示。
func decodeError(status int, body []byte) error {
	code := ""
	message := ""

	var wire errorWire
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error != nil {
		var detail errorDetailWire
		if err := json.Unmarshal(wire.Error, &detail); err == nil && (detail.Code != "" || detail.Message != "") {
			code = detail.Code
			message = detail.Message
		} else {
			var s string
			if err := json.Unmarshal(wire.Error, &s); err == nil {
				message = s
				// 扁平格式有時直接回代碼字串（如 {"error":"upgrade_required"}），視同 code
				switch token := strings.ToLower(strings.TrimSpace(s)); token {
				case "signup_required", "auth_required", "upgrade_required", "quota_exceeded", "forbidden":
					code = token
				}
			}
		}
	}
	if message == "" {
		message = http.StatusText(status)
	}

	return classify(status, code, message)
}

// classify 後端代碼 → 本地錯誤分類
func classify(status int, code, message string) *common.CustomError {
	lowCode := strings.ToLower(code)
	lowMsg := strings.ToLower(message)

	switch {
	case lowCode == "signup_required" || lowCode == "auth_required":
		return common.NewError(common.ErrCodeSignupRequired, message, status, nil)
	case lowCode == "quota_exceeded" && (strings.Contains(lowMsg, "sign up") || strings.Contains(lowMsg, "signup")):
		// 匿名配額用盡時後端以訊息提示註冊
		return common.NewError(common.ErrCodeSignupRequired, message, status, nil)
	case lowCode == "upgrade_required" || lowCode == "quota_exceeded" || lowCode == "forbidden":
		return common.NewError(common.ErrCodeUpgradeRequired, message, status, nil)
	case status == http.StatusForbidden:
		return common.NewError(common.ErrCodeUpgradeRequired, message, status, nil)
	default:
		return common.NewError(common.ErrCodeBackendError, message, status, nil)
	}
}
