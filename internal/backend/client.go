package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recipe-cleaner/internal/infrastructure/config"
	"recipe-cleaner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// Client 食譜清理後端客戶端
// 所有「困難」的工作（HTML/照片/影片擷取、翻譯、配額、金流）都在後端，
// 這裡只負責請求組裝、憑證附加與錯誤歸類。
type Client struct {
	config *config.Config
	client *resty.Client
}

// Auth 單次請求的憑證：登入後帶 bearer token，匿名帶 fingerprint
type Auth struct {
	Token       string
	Fingerprint string
}

// NewClient 創建後端客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.Backend.BaseURL).
		SetTimeout(cfg.Backend.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Client", "recipe-cleaner")

	return &Client{
		config: cfg,
		client: client,
	}
}

// request 構建帶認證的請求
func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.client.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// check 統一處理非 2xx 回應
func check(resp *resty.Response, err error, operation string) error {
	if err != nil {
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	if !resp.IsSuccess() {
		return decodeError(resp.StatusCode(), resp.Body())
	}
	return nil
}

// --- 身份 ---

// meResponse GET /api/auth/me 回應
type meResponse struct {
	User *common.User `json:"user"`
}

// Me 以現存 token 檢查身份；回傳 nil user 表示 token 已失效
func (c *Client) Me(ctx context.Context, token string) (*common.User, error) {
	resp, err := c.request(ctx, token).Get("/api/auth/me")
	if err := check(resp, err, "identity check"); err != nil {
		return nil, err
	}

	var result meResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse identity response: %w", err)
	}
	return result.User, nil
}

// authResponse 登入/註冊回應
type authResponse struct {
	User  *common.User `json:"user"`
	Token string       `json:"token"`
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (*common.User, string, error) {
	start := time.Now()
	resp, err := c.request(ctx, "").SetBody(body).Post(path)
	common.LogBackendCall(path, time.Since(start), err, "")
	if err := check(resp, err, "authentication"); err != nil {
		return nil, "", err
	}

	var result authResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, "", fmt.Errorf("failed to parse auth response: %w", err)
	}
	if result.User == nil || result.Token == "" {
		return nil, "", common.NewError(common.ErrCodeBackendError, "auth response missing user or token", resp.StatusCode(), nil)
	}
	return result.User, result.Token, nil
}

// Register 以 email+密碼註冊
func (c *Client) Register(ctx context.Context, email, password string) (*common.User, string, error) {
	return c.authenticate(ctx, "/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Login 以 email+密碼登入
func (c *Client) Login(ctx context.Context, email, password string) (*common.User, string, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// GoogleLogin 以外部身份憑證登入
func (c *Client) GoogleLogin(ctx context.Context, credential string) (*common.User, string, error) {
	return c.authenticate(ctx, "/api/auth/google", map[string]string{
		"credential": credential,
	})
}

// Logout 登出（後端失敗不阻止本地清除）
func (c *Client) Logout(ctx context.Context, token string) error {
	resp, err := c.request(ctx, token).Post("/api/auth/logout")
	return check(resp, err, "logout")
}

// --- 食譜擷取 ---

// recipeResponse 擷取/翻譯回應
type recipeResponse struct {
	Recipe *recipeWire `json:"recipe"`
}

func (c *Client) cleanRequest(ctx context.Context, path string, body map[string]interface{}, auth Auth, language string) (*common.Recipe, error) {
	if auth.Token == "" && auth.Fingerprint != "" {
		body["fingerprint"] = auth.Fingerprint
	}

	start := time.Now()
	resp, err := c.request(ctx, auth.Token).SetBody(body).Post(path)
	common.LogBackendCall(path, time.Since(start), err, "")
	if err := check(resp, err, "recipe clean"); err != nil {
		return nil, err
	}

	var result recipeResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse recipe response: %w", err)
	}
	if result.Recipe == nil {
		return nil, common.NewError(common.ErrCodeBackendError, "response missing recipe", resp.StatusCode(), nil)
	}
	return result.Recipe.toRecipe(language), nil
}

// CleanURL 從食譜連結擷取
func (c *Client) CleanURL(ctx context.Context, url, language string, auth Auth) (*common.Recipe, error) {
	return c.cleanRequest(ctx, "/api/recipe/clean-url", map[string]interface{}{
		"url":      url,
		"language": language,
	}, auth, language)
}

// CleanPhotos 從照片組擷取，photos 為 dataURI 列表
func (c *Client) CleanPhotos(ctx context.Context, photos []string, language string, auth Auth) (*common.Recipe, error) {
	return c.cleanRequest(ctx, "/api/recipe/clean-photo", map[string]interface{}{
		"photos":   photos,
		"language": language,
	}, auth, language)
}

// CleanVideo 從影片連結擷取
func (c *Client) CleanVideo(ctx context.Context, url, language string, auth Auth) (*common.Recipe, error) {
	return c.cleanRequest(ctx, "/api/recipe/clean-youtube", map[string]interface{}{
		"url":      url,
		"language": language,
	}, auth, language)
}

// Translate 翻譯整份食譜到目標語言
func (c *Client) Translate(ctx context.Context, recipe *common.Recipe, targetLanguage string, auth Auth) (*common.Recipe, error) {
	body := map[string]interface{}{
		"recipe":         recipeToWire(recipe),
		"targetLanguage": targetLanguage,
	}
	if auth.Token == "" && auth.Fingerprint != "" {
		body["fingerprint"] = auth.Fingerprint
	}

	start := time.Now()
	resp, err := c.request(ctx, auth.Token).SetBody(body).Post("/api/recipe/translate")
	common.LogBackendCall("/api/recipe/translate", time.Since(start), err, "")
	if err := check(resp, err, "translate"); err != nil {
		return nil, err
	}

	var result recipeResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse translate response: %w", err)
	}
	if result.Recipe == nil {
		return nil, common.NewError(common.ErrCodeBackendError, "response missing recipe", resp.StatusCode(), nil)
	}
	return result.Recipe.toRecipe(targetLanguage), nil
}

// --- 收藏 ---

// SaveRecipe 收藏目前食譜（攤平欄位）
func (c *Client) SaveRecipe(ctx context.Context, recipe *common.Recipe, token string) error {
	resp, err := c.request(ctx, token).SetBody(recipeToWire(recipe)).Post("/api/recipes/save")
	return check(resp, err, "save recipe")
}

// savedListResponse 收藏清單回應
type savedListResponse struct {
	Recipes []savedRecipeWire `json:"recipes"`
}

// ListSaved 取得收藏清單（順序由後端決定）
func (c *Client) ListSaved(ctx context.Context, token, fallbackLocale string) ([]common.SavedRecipe, error) {
	resp, err := c.request(ctx, token).Get("/api/recipes/saved")
	if err := check(resp, err, "list saved"); err != nil {
		return nil, err
	}

	var result savedListResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse saved recipes: %w", err)
	}

	saved := make([]common.SavedRecipe, 0, len(result.Recipes))
	for _, wire := range result.Recipes {
		saved = append(saved, wire.toSaved(fallbackLocale))
	}
	return saved, nil
}

// DeleteSaved 刪除一筆收藏
func (c *Client) DeleteSaved(ctx context.Context, id, token string) error {
	resp, err := c.request(ctx, token).Delete("/api/recipes/" + id)
	return check(resp, err, "delete saved")
}

// --- 訂閱 ---

// Plans 取得方案資料（啟動時抓一次）
func (c *Client) Plans(ctx context.Context) (*common.PlanSet, error) {
	resp, err := c.request(ctx, "").Get("/api/payments/plans")
	if err := check(resp, err, "plans"); err != nil {
		return nil, err
	}

	var result common.PlanSet
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse plans: %w", err)
	}
	return &result, nil
}

// checkoutResponse 結帳回應
type checkoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

// CreateCheckout 發起升級，回傳外部付款頁 URL
func (c *Client) CreateCheckout(ctx context.Context, plan, token string) (string, error) {
	resp, err := c.request(ctx, token).
		SetBody(map[string]string{"plan": plan}).
		Post("/api/payments/create-checkout")
	if err := check(resp, err, "checkout"); err != nil {
		return "", err
	}

	var result checkoutResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse checkout response: %w", err)
	}
	if result.CheckoutURL == "" {
		return "", common.NewError(common.ErrCodeBackendError, "checkout response missing url", resp.StatusCode(), nil)
	}
	return result.CheckoutURL, nil
}

// --- 回饋 ---

// SendFeedback 送出意見回饋
func (c *Client) SendFeedback(ctx context.Context, message, feedbackType string, auth Auth) error {
	body := map[string]interface{}{
		"message": message,
		"type":    feedbackType,
	}
	if auth.Token == "" && auth.Fingerprint != "" {
		body["fingerprint"] = auth.Fingerprint
	}
	resp, err := c.request(ctx, auth.Token).SetBody(body).Post("/api/feedback")
	return check(resp, err, "feedback")
}

// SubmitRating 送出星級評分
func (c *Client) SubmitRating(ctx context.Context, stars int, auth Auth) error {
	body := map[string]interface{}{"stars": stars}
	if auth.Token == "" && auth.Fingerprint != "" {
		body["fingerprint"] = auth.Fingerprint
	}
	resp, err := c.request(ctx, auth.Token).SetBody(body).Post("/api/feedback/rating")
	return check(resp, err, "rating")
}

// RatingsSummary 取得評分摘要
func (c *Client) RatingsSummary(ctx context.Context) (*common.RatingSummary, error) {
	resp, err := c.request(ctx, "").Get("/api/feedback/ratings/summary")
	if err := check(resp, err, "ratings summary"); err != nil {
		return nil, err
	}

	var result common.RatingSummary
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse ratings summary: %w", err)
	}
	return &result, nil
}

// recipeToWire 將領域實體轉回 wire 格式（翻譯與收藏用）
func recipeToWire(r *common.Recipe) map[string]interface{} {
	steps := make([]interface{}, 0, len(r.Steps))
	for _, s := range r.Steps {
		if s.Kind == common.StepStructured {
			steps = append(steps, map[string]interface{}{
				"instruction": s.Instruction,
				"ingredients": s.Ingredients,
			})
			continue
		}
		steps = append(steps, s.Text)
	}

	wire := map[string]interface{}{
		"title":       r.Title,
		"servings":    r.Servings,
		"ingredients": r.Ingredients,
		"steps":       steps,
		"language":    r.ContentLocale,
	}
	if r.Author != "" {
		wire["author"] = r.Author
	}
	if r.Source != "" {
		wire["source"] = r.Source
	}
	if r.SourceURL != "" {
		wire["sourceUrl"] = r.SourceURL
	}
	if r.ImageURL != "" {
		wire["imageUrl"] = r.ImageURL
	}
	if r.PrepTime != "" {
		wire["prepTime"] = r.PrepTime
	}
	if r.CookTime != "" {
		wire["cookTime"] = r.CookTime
	}
	if len(r.Tips) > 0 {
		wire["tips"] = r.Tips
	}
	return wire
}
