package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"recipe-cleaner/internal/backend"
	"recipe-cleaner/internal/infrastructure/config"
	"recipe-cleaner/internal/pkg/common"
	"recipe-cleaner/internal/pkg/localstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func backendClient(cfg *config.Config) *backend.Client {
	return backend.NewClient(cfg)
}

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Backend: config.BackendConfig{BaseURL: baseURL, Timeout: 5 * time.Second},
		Quota:   config.QuotaConfig{AnonymousBaseline: 10, FreeBaseline: 13},
	}
}

func newTestManager(t *testing.T, baseURL string) (*Manager, *localstore.Store) {
	t.Helper()
	local, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	cfg := testConfig(baseURL)
	return NewManager(cfg, backendClient(cfg), local, func() string { return "en" }), local
}

func TestAnonymousBaseline(t *testing.T) {
	m, _ := newTestManager(t, "http://127.0.0.1:0")

	assert.False(t, m.SignedIn())
	assert.Equal(t, 10, m.QuotaRemaining())
	assert.NotEmpty(t, m.Fingerprint())

	auth := m.Auth()
	assert.Empty(t, auth.Token)
	assert.Equal(t, m.Fingerprint(), auth.Fingerprint)
}

func TestFingerprintPersistsAcrossManagers(t *testing.T) {
	dir := t.TempDir()
	local, err := localstore.New(dir)
	require.NoError(t, err)

	cfg := testConfig("http://127.0.0.1:0")
	first := NewManager(cfg, backendClient(cfg), local, func() string { return "en" })
	second := NewManager(cfg, backendClient(cfg), local, func() string { return "en" })

	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
}

func TestDecrementQuotaSaturatesAtZero(t *testing.T) {
	m, _ := newTestManager(t, "http://127.0.0.1:0")

	for i := 0; i < 15; i++ {
		m.DecrementQuota()
	}
	assert.Equal(t, 0, m.QuotaRemaining())
}

func TestLoginAdoptsIdentityAndQuota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"a@b.c","plan":"free"},"token":"tok-1"}`))
		case "/api/recipes/saved":
			_, _ = w.Write([]byte(`{"recipes":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	m, local := newTestManager(t, srv.URL)
	user, err := m.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	assert.Equal(t, "u1", user.ID)
	assert.True(t, m.SignedIn())
	assert.Equal(t, 13, m.QuotaRemaining())
	assert.Equal(t, "tok-1", local.Get(localstore.KeyToken))
	assert.Equal(t, "tok-1", m.Auth().Token)
}

func TestPaidPlanIsUnlimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			_, _ = w.Write([]byte(`{"user":{"id":"u2","email":"p@b.c","plan":"pro"},"token":"tok-2"}`))
		case "/api/recipes/saved":
			_, _ = w.Write([]byte(`{"recipes":[]}`))
		}
	}))
	defer srv.Close()

	m, _ := newTestManager(t, srv.URL)
	_, err := m.Login(context.Background(), "p@b.c", "pw")
	require.NoError(t, err)

	assert.Equal(t, common.QuotaUnlimited, m.QuotaRemaining())
	m.DecrementQuota()
	assert.Equal(t, common.QuotaUnlimited, m.QuotaRemaining())
}

func TestLogoutClearsIdentityEvenIfBackendFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"a@b.c","plan":"free"},"token":"tok-1"}`))
		case "/api/recipes/saved":
			_, _ = w.Write([]byte(`{"recipes":[]}`))
		case "/api/auth/logout":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
		}
	}))
	defer srv.Close()

	m, local := newTestManager(t, srv.URL)
	_, err := m.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	m.DecrementQuota()

	m.Logout(context.Background())

	assert.False(t, m.SignedIn())
	assert.Equal(t, 10, m.QuotaRemaining()) // 回到匿名基準
	assert.Empty(t, local.Get(localstore.KeyToken))
	assert.Empty(t, m.Saved())
}

func TestBootstrapDropsStaleToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/me", r.URL.Path)
		_, _ = w.Write([]byte(`{"user":null}`))
	}))
	defer srv.Close()

	local, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, local.Set(localstore.KeyToken, "stale"))

	cfg := testConfig(srv.URL)
	m := NewManager(cfg, backendClient(cfg), local, func() string { return "en" })
	m.Bootstrap(context.Background())

	assert.False(t, m.SignedIn())
	assert.Empty(t, local.Get(localstore.KeyToken))
}

func TestBootstrapRestoresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/me":
			require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"a@b.c","plan":"free"}}`))
		case "/api/recipes/saved":
			_, _ = w.Write([]byte(`{"recipes":[{"id":"r1","title":"Soup","servings":2,"ingredients":[],"steps":[]}]}`))
		}
	}))
	defer srv.Close()

	local, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, local.Set(localstore.KeyToken, "tok-1"))

	cfg := testConfig(srv.URL)
	m := NewManager(cfg, backendClient(cfg), local, func() string { return "en" })
	m.Bootstrap(context.Background())

	assert.True(t, m.SignedIn())
	assert.Equal(t, 13, m.QuotaRemaining())
	require.Len(t, m.Saved(), 1)
	assert.Equal(t, "r1", m.Saved()[0].ID)
}

func TestSaveRecipeRequiresSignIn(t *testing.T) {
	m, _ := newTestManager(t, "http://127.0.0.1:0")

	err := m.SaveRecipe(context.Background(), &common.Recipe{Title: "x", Servings: 2})
	assert.True(t, common.IsSignupRequired(err))
}
