package backend

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"recipe-cleaner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeWireMixedSteps(t *testing.T) {
	body := []byte(`{
		"title": "Pad Thai",
		"servings": "4 servings",
		"ingredients": ["200g rice noodles", "2 eggs"],
		"steps": [
			"Soak the noodles",
			{"instruction": "Scramble the eggs", "ingredients": ["eggs"]},
			42
		],
		"language": "en"
	}`)

	var wire recipeWire
	require.NoError(t, json.Unmarshal(body, &wire))
	r := wire.toRecipe("en")

	assert.Equal(t, "Pad Thai", r.Title)
	assert.Equal(t, 4, r.Servings)
	require.Len(t, r.Steps, 2) // 無法解析的步驟被略過

	assert.Equal(t, common.StepPlain, r.Steps[0].Kind)
	assert.Equal(t, "Soak the noodles", r.Steps[0].Text)

	assert.Equal(t, common.StepStructured, r.Steps[1].Kind)
	assert.Equal(t, "Scramble the eggs", r.Steps[1].Instruction)
	assert.Equal(t, []string{"eggs"}, r.Steps[1].Ingredients)
}

func TestRecipeWireLocaleFallback(t *testing.T) {
	var wire recipeWire
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &wire))

	r := wire.toRecipe("zh-TW")
	assert.Equal(t, "zh-TW", r.ContentLocale)
	assert.NotNil(t, r.Ingredients)
}

func TestParseServingsRaw(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`6`, 6},
		{`"6"`, 6},
		{`"6 people"`, 6},
		{`0`, common.DefaultServings},
		{`null`, common.DefaultServings},
		{`{"n":1}`, common.DefaultServings},
		{``, common.DefaultServings},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseServingsRaw(json.RawMessage(tt.raw)), "raw=%s", tt.raw)
	}
}

func TestSavedRecipeWireKeyVariants(t *testing.T) {
	snake := []byte(`{
		"id": "r1",
		"title": "Soup",
		"source_url": "https://example.com/soup",
		"prep_time": "10 min",
		"servings": 2,
		"ingredients": ["1 onion"],
		"steps": ["Chop the onion"]
	}`)
	camel := []byte(`{
		"id": "r2",
		"title": "Soup",
		"sourceUrl": "https://example.com/soup",
		"prepTime": "10 min",
		"servings": 2,
		"ingredients": ["1 onion"],
		"steps": ["Chop the onion"]
	}`)

	var a, b savedRecipeWire
	require.NoError(t, json.Unmarshal(snake, &a))
	require.NoError(t, json.Unmarshal(camel, &b))

	sa := a.toSaved("en")
	sb := b.toSaved("en")

	assert.Equal(t, "r1", sa.ID)
	assert.Equal(t, "r2", sb.ID)
	assert.Equal(t, sa.Recipe.SourceURL, sb.Recipe.SourceURL)
	assert.Equal(t, sa.Recipe.PrepTime, sb.Recipe.PrepTime)
	assert.Equal(t, 2, sa.Recipe.Servings)
	require.Len(t, sa.Recipe.Steps, 1)
	assert.Equal(t, "Chop the onion", sa.Recipe.Steps[0].Text)
}

func TestDecodeErrorStructuredAndPlain(t *testing.T) {
	err := decodeError(http.StatusUnauthorized, []byte(`{"error":{"code":"signup_required","message":"Sign up to continue"}}`))
	assert.True(t, common.IsSignupRequired(err))

	err = decodeError(http.StatusInternalServerError, []byte(`{"error":"extraction failed"}`))
	var ce *common.CustomError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, common.ErrCodeBackendError, ce.Code)
	assert.Equal(t, "extraction failed", ce.Message)
}

func TestDecodeErrorFlatCodeToken(t *testing.T) {
	// 扁平字串就是代碼本身時要當 code 處理，不依賴狀態碼
	err := decodeError(http.StatusPaymentRequired, []byte(`{"error":"upgrade_required"}`))
	assert.True(t, common.IsUpgradeRequired(err))

	err = decodeError(http.StatusTooManyRequests, []byte(`{"error":"quota_exceeded"}`))
	assert.True(t, common.IsUpgradeRequired(err))

	err = decodeError(http.StatusUnauthorized, []byte(`{"error":"signup_required"}`))
	assert.True(t, common.IsSignupRequired(err))
}

func TestDecodeErrorEmptyBodyUsesStatusText(t *testing.T) {
	err := decodeError(http.StatusBadGateway, nil)
	var ce *common.CustomError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusText(http.StatusBadGateway), ce.Message)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		code    string
		message string
		want    string
	}{
		{"signup code", 401, "signup_required", "", common.ErrCodeSignupRequired},
		{"auth required", 401, "auth_required", "", common.ErrCodeSignupRequired},
		{"quota with signup hint", 429, "quota_exceeded", "Sign up for more", common.ErrCodeSignupRequired},
		{"quota exceeded", 429, "quota_exceeded", "Daily limit reached", common.ErrCodeUpgradeRequired},
		{"upgrade code", 403, "upgrade_required", "", common.ErrCodeUpgradeRequired},
		{"forbidden status", 403, "", "nope", common.ErrCodeUpgradeRequired},
		{"generic", 500, "", "boom", common.ErrCodeBackendError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := classify(tt.status, tt.code, tt.message)
			assert.Equal(t, tt.want, ce.Code)
			assert.Equal(t, tt.status, ce.Status)
		})
	}
}
