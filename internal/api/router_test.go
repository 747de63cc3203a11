package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"recipe-cleaner/internal/backend"
	"recipe-cleaner/internal/core/acquire"
	"recipe-cleaner/internal/core/billing"
	"recipe-cleaner/internal/core/feedback"
	"recipe-cleaner/internal/core/i18n"
	"recipe-cleaner/internal/core/session"
	"recipe-cleaner/internal/core/store"
	"recipe-cleaner/internal/infrastructure/config"
	"recipe-cleaner/internal/pkg/common"
	"recipe-cleaner/internal/pkg/localstore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeBackend 提供一路綠燈的後端
func fakeBackend() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/recipe/clean-url":
			_, _ = w.Write([]byte(`{"recipe":{
				"title":"Ramen","servings":2,
				"ingredients":["2 packs noodles","4 cups broth"],
				"steps":["Boil the broth",{"instruction":"Add the noodles","ingredients":["noodles"]}],
				"language":"en"}}`))
		case "/api/payments/plans":
			_, _ = w.Write([]byte(`{"basic":{"name":"Basic","monthly":{"price":"$3"},"features":["more cleanings"]},"pro":{"name":"Pro","monthly":{"price":"$6"},"features":["unlimited"]}}`))
		case "/api/feedback/ratings/summary":
			_, _ = w.Write([]byte(`{"average":4.6,"total":128}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
		}
	}))
}

func newTestRouter(t *testing.T, backendURL string) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		App:     config.AppConfig{Debug: true, Version: "test"},
		Backend: config.BackendConfig{BaseURL: backendURL, Timeout: 5 * time.Second},
		Quota:   config.QuotaConfig{AnonymousBaseline: 10, FreeBaseline: 13},
		Loading: config.LoadingConfig{RotateInterval: 50 * time.Millisecond},
		Photo:   config.PhotoConfig{MaxSizeBytes: 1 << 20, MaxCount: 5},
		Locale:  config.LocaleConfig{Default: "en"},
	}

	local, err := localstore.New(t.TempDir())
	require.NoError(t, err)

	client := backend.NewClient(cfg)
	state := store.New()
	locales := i18n.NewManager(local, cfg.Locale.Default)
	sess := session.NewManager(cfg, client, local, func() string { return string(locales.Active()) })

	router, err := SetupRouter(cfg, &Services{
		State:      state,
		Session:    sess,
		Acquire:    acquire.NewController(cfg, client, state, sess, locales),
		Translator: i18n.NewTranslator(cfg, client, state, sess, nil, locales),
		Locales:    locales,
		Billing:    billing.NewService(client, sess),
		Feedback:   feedback.NewService(cfg, client, sess, state),
	})
	require.NoError(t, err)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:0")

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := doJSON(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestInitialState(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:0")

	w := doJSON(router, http.MethodGet, "/app/state", "")
	require.Equal(t, http.StatusOK, w.Code)

	var state map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))

	assert.Equal(t, false, state["has_recipe"])
	assert.Equal(t, false, state["signed_in"])
	assert.Equal(t, float64(10), state["quota_remaining"])
	assert.Equal(t, "url", state["input_kind"])
	assert.Equal(t, "en", state["locale"])
}

func TestAcquireFlow(t *testing.T) {
	srv := fakeBackend()
	defer srv.Close()
	router := newTestRouter(t, srv.URL)

	w := doJSON(router, http.MethodPost, "/app/acquire", `{"kind":"url","url":"https://example.com/ramen"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var state map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, true, state["has_recipe"])
	assert.Equal(t, float64(9), state["quota_remaining"])
	assert.Equal(t, "prep", state["phase"])

	// 備料：兩個食材勾完自動進入 cook
	w = doJSON(router, http.MethodPost, "/app/progress/ingredient/0", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodPost, "/app/progress/ingredient/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "cook", state["phase"])
	assert.Equal(t, true, state["all_ingredients_done"])

	// 份量加倍：顯示文字縮放，實體不變
	w = doJSON(router, http.MethodPost, "/app/servings", `{"servings":4}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	display := state["display_ingredients"].([]interface{})
	assert.Equal(t, "4 packs noodles", display[0])
	assert.Equal(t, "8 cups broth", display[1])

	// 範圍外的份量被拒
	w = doJSON(router, http.MethodPost, "/app/servings", `{"servings":21}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 回到輸入視圖
	w = doJSON(router, http.MethodPost, "/app/view/input", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, false, state["has_recipe"])
}

func TestAcquireValidationError(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:0")

	w := doJSON(router, http.MethodPost, "/app/acquire", `{"kind":"url","url":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	errObj := resp["error"].(map[string]interface{})
	assert.Equal(t, common.ErrCodeInvalidRequest, errObj["code"])
}

func TestAcquireUnknownKind(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:0")

	w := doJSON(router, http.MethodPost, "/app/acquire", `{"kind":"telegram","url":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProgressWithoutRecipe(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:0")

	w := doJSON(router, http.MethodPost, "/app/progress/ingredient/0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUndoAndReset(t *testing.T) {
	srv := fakeBackend()
	defer srv.Close()
	router := newTestRouter(t, srv.URL)

	w := doJSON(router, http.MethodPost, "/app/acquire", `{"kind":"url","url":"https://example.com/undo"}`)
	require.Equal(t, http.StatusOK, w.Code)

	doJSON(router, http.MethodPost, "/app/progress/ingredient/0", "")
	doJSON(router, http.MethodPost, "/app/progress/ingredient/1", "")

	var state map[string]interface{}
	w = doJSON(router, http.MethodPost, "/app/progress/undo", `{"kind":"ingredient"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	done := state["ingredients_done"].([]interface{})
	require.Len(t, done, 1)
	assert.Equal(t, float64(0), done[0])

	w = doJSON(router, http.MethodPost, "/app/progress/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Empty(t, state["ingredients_done"])
	assert.Equal(t, "prep", state["phase"])
}

func TestLocaleSwitch(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:0")

	w := doJSON(router, http.MethodPost, "/app/locale", `{"locale":"zh-TW"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var state map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "zh-TW", state["locale"])

	w = doJSON(router, http.MethodPost, "/app/locale", `{"locale":"tlh"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlansAndRatingSummary(t *testing.T) {
	srv := fakeBackend()
	defer srv.Close()
	router := newTestRouter(t, srv.URL)

	w := doJSON(router, http.MethodGet, "/app/plans", "")
	require.Equal(t, http.StatusOK, w.Code)
	var plans map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plans))
	assert.Contains(t, plans, "basic")
	assert.Contains(t, plans, "pro")

	w = doJSON(router, http.MethodGet, "/app/ratings/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 4.6, summary["average"])
}

func TestCheckoutRequiresSignIn(t *testing.T) {
	srv := fakeBackend()
	defer srv.Close()
	router := newTestRouter(t, srv.URL)

	w := doJSON(router, http.MethodPost, "/app/checkout", `{"plan":"pro"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 匿名結帳導向註冊
	state := doJSON(router, http.MethodGet, "/app/state", "")
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(state.Body.Bytes(), &body))
	assert.Equal(t, true, body["show_signup"])
}

func TestSavedRecipesRequireSignIn(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:0")

	w := doJSON(router, http.MethodGet, "/app/recipes", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
