package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/config"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/repository"
)

const testAccessKey = "open-sesame-123456"

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		App: config.AppSettings{Environment: "test", Name: "toolkit", Version: "1.2.3"},
		Server: config.ServerSettings{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
		},
		Storage: config.StorageSettings{Driver: constants.DriverMemory},
		Auth: config.AuthSettings{
			AccessKey: testAccessKey,
			JWTSecret: "server-test-secret-0123456789abcdef",
			Expiry:    time.Hour,
			Issuer:    "toolkit-test",
		},
		CORS: config.CORSSettings{AllowedOrigins: []string{"http://localhost:5173"}},
		PasswordHash: config.HashSettings{
			Memory:      1024,
			Iterations:  1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.AppConfig) *Server {
	t.Helper()
	s, err := NewServerWithRepository(cfg, repository.NewMemoryStateRepository())
	require.NoError(t, err)
	return s
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func do(t *testing.T, s *Server, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	s.GetRouter().ServeHTTP(rr, req)

	var env envelope
	if rr.Header().Get("Content-Type") == constants.ContentTypeJSON {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	}
	return rr, env
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(t, testConfig())

	rr, env := do(t, s, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(env.Data), "healthy")

	rr, env = do(t, s, http.MethodGet, "/version", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(env.Data), "1.2.3")
}

func TestStateRoutes(t *testing.T) {
	s := newTestServer(t, testConfig())

	t.Run("Profile", func(t *testing.T) {
		rr, env := do(t, s, http.MethodGet, "/api/profile", nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var profile models.Profile
		require.NoError(t, json.Unmarshal(env.Data, &profile))
		assert.Empty(t, profile.Name)
		assert.Equal(t, constants.DefaultTimezone, profile.Timezone)

		rr, _ = do(t, s, http.MethodPatch, "/api/profile", map[string]string{"name": "Ada"}, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		rr, _ = do(t, s, http.MethodPut, "/api/profile/fields/location", map[string]string{"value": "Oslo"}, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		_, env = do(t, s, http.MethodGet, "/api/profile", nil, nil)
		require.NoError(t, json.Unmarshal(env.Data, &profile))
		assert.Equal(t, "Ada", profile.Name)
		assert.Equal(t, "Oslo", profile.Location)
	})

	t.Run("Settings", func(t *testing.T) {
		rr, env := do(t, s, http.MethodPut, "/api/settings/fields/darkMode", map[string]bool{"value": true}, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var settings models.Settings
		require.NoError(t, json.Unmarshal(env.Data, &settings))
		assert.True(t, settings.DarkMode)

		rr, _ = do(t, s, http.MethodPost, "/api/settings/reset", nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		_, env = do(t, s, http.MethodGet, "/api/settings", nil, nil)
		require.NoError(t, json.Unmarshal(env.Data, &settings))
		assert.Equal(t, models.DefaultSettings(), settings)
	})

	t.Run("Favorites", func(t *testing.T) {
		rr, env := do(t, s, http.MethodPost, "/api/favorites/base64/toggle", nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var status models.FavoriteStatus
		require.NoError(t, json.Unmarshal(env.Data, &status))
		assert.True(t, status.Favorite)

		rr, _ = do(t, s, http.MethodPut, "/api/favorites/regex", nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		_, env = do(t, s, http.MethodGet, "/api/favorites", nil, nil)
		var list models.FavoritesList
		require.NoError(t, json.Unmarshal(env.Data, &list))
		assert.Equal(t, []string{"base64", "regex"}, list.Favorites)

		rr, _ = do(t, s, http.MethodDelete, "/api/favorites/base64", nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		_, env = do(t, s, http.MethodGet, "/api/favorites/base64", nil, nil)
		require.NoError(t, json.Unmarshal(env.Data, &status))
		assert.False(t, status.Favorite)
	})

	t.Run("History", func(t *testing.T) {
		for _, id := range []string{"a", "b", "a"} {
			rr, _ := do(t, s, http.MethodPost, "/api/history", models.ToolVisit{ToolID: id, ToolName: id}, nil)
			require.Equal(t, http.StatusCreated, rr.Code)
		}

		_, env := do(t, s, http.MethodGet, "/api/history", nil, nil)
		var list models.HistoryList
		require.NoError(t, json.Unmarshal(env.Data, &list))
		require.Len(t, list.History, 2)
		assert.Equal(t, "a", list.History[0].ToolID)

		_, env = do(t, s, http.MethodGet, "/api/history?limit=1", nil, nil)
		require.NoError(t, json.Unmarshal(env.Data, &list))
		assert.Len(t, list.History, 1)

		rr, _ := do(t, s, http.MethodDelete, "/api/history", nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Unknown route", func(t *testing.T) {
		rr, env := do(t, s, http.MethodGet, "/api/nothing", nil, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, constants.CodeNotFound, env.Error.Code)
	})
}

func TestExportImportAcrossServers(t *testing.T) {
	source := newTestServer(t, testConfig())
	do(t, source, http.MethodPut, "/api/settings/fields/language", map[string]string{"value": "fr"}, nil)
	do(t, source, http.MethodPut, "/api/favorites/uuid", nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/state/export", nil)
	rr := httptest.NewRecorder()
	source.GetRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	exported := rr.Body.Bytes()

	target := newTestServer(t, testConfig())
	req = httptest.NewRequest(http.MethodPost, "/api/state/import", bytes.NewReader(exported))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	target.GetRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	_, env := do(t, target, http.MethodGet, "/api/settings", nil, nil)
	var settings models.Settings
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Equal(t, "fr", settings.Language)

	_, env = do(t, target, http.MethodGet, "/api/favorites", nil, nil)
	var list models.FavoritesList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, []string{"uuid"}, list.Favorites)
}

func TestAuthEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Enabled = true
	s := newTestServer(t, cfg)

	rr, _ := do(t, s, http.MethodGet, "/api/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, _ = do(t, s, http.MethodPost, "/api/auth/token", models.AccessKeyRequest{AccessKey: "wrong-key-wrong-key"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, env := do(t, s, http.MethodPost, "/api/auth/token", models.AccessKeyRequest{AccessKey: testAccessKey}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var token models.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &token))
	require.NotEmpty(t, token.AccessToken)

	rr, _ = do(t, s, http.MethodGet, "/api/profile", nil, map[string]string{
		constants.HeaderAuthorization: "Bearer " + token.AccessToken,
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	// health stays public
	rr, _ = do(t, s, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthEnabledRejectsShortKey(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.AccessKey = "short"

	_, err := NewServerWithRepository(cfg, repository.NewMemoryStateRepository())
	assert.Error(t, err)
}

func TestAuthDisabledTokenRoute(t *testing.T) {
	s := newTestServer(t, testConfig())

	rr, _ := do(t, s, http.MethodPost, "/api/auth/token", models.AccessKeyRequest{AccessKey: testAccessKey}, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, testConfig())

	t.Run("Allowed preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/profile", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rr := httptest.NewRecorder()
		s.GetRouter().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	})

	t.Run("Unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example")
		rr := httptest.NewRecorder()
		s.GetRouter().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimiting(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitSettings{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}
	s := newTestServer(t, cfg)

	rr, _ := do(t, s, http.MethodGet, "/api/favorites", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, env := do(t, s, http.MethodGet, "/api/favorites", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, constants.CodeRateLimited, env.Error.Code)
}

func TestGetAPIRoutes(t *testing.T) {
	s := newTestServer(t, testConfig())

	rr, env := do(t, s, http.MethodGet, "/api/routes", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Routes map[string][]string `json:"routes"`
		Auth   bool                `json:"auth"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.False(t, body.Auth)
	assert.Contains(t, body.Routes, "/api/state/export")
	assert.Contains(t, body.Routes["/api/favorites/{toolID}/toggle"], http.MethodPost)
}

func TestFileWatchInvalidatesCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	cfg := testConfig()
	cfg.Storage = config.StorageSettings{Driver: constants.DriverFile, FilePath: path, WatchFile: true}

	repo, err := repository.NewFileStateRepository(path)
	require.NoError(t, err)
	s, err := NewServerWithRepository(cfg, repo)
	require.NoError(t, err)
	require.NoError(t, s.StartWatching(context.Background()))

	// prime the cache
	_, env := do(t, s, http.MethodGet, "/api/favorites", nil, nil)
	assert.JSONEq(t, `{"favorites":[]}`, string(env.Data))

	other, err := repository.NewFileStateRepository(path)
	require.NoError(t, err)
	require.NoError(t, other.Set(context.Background(), constants.KeyUserFavorites, `["from-elsewhere"]`))

	require.Eventually(t, func() bool {
		_, env := do(t, s, http.MethodGet, "/api/favorites", nil, nil)
		return string(env.Data) == `{"favorites":["from-elsewhere"]}`
	}, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	require.NoError(t, other.Close())
}

func TestShutdownWithoutStart(t *testing.T) {
	s := newTestServer(t, testConfig())
	s.SetupMaintenanceTasks()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))
}
