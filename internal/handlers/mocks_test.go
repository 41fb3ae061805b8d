package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
)

// MockProfileService is a mock implementation of ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Get(ctx context.Context) models.Profile {
	args := m.Called(ctx)
	return args.Get(0).(models.Profile)
}

func (m *MockProfileService) Update(ctx context.Context, update models.ProfileUpdate) (models.Profile, error) {
	args := m.Called(ctx, update)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *MockProfileService) Set(ctx context.Context, key, value string) (models.Profile, error) {
	args := m.Called(ctx, key, value)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *MockProfileService) Reset(ctx context.Context) (models.Profile, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Profile), args.Error(1)
}

// MockSettingsService is a mock implementation of SettingsService
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context) models.Settings {
	args := m.Called(ctx)
	return args.Get(0).(models.Settings)
}

func (m *MockSettingsService) Update(ctx context.Context, update models.SettingsUpdate) (models.Settings, error) {
	args := m.Called(ctx, update)
	return args.Get(0).(models.Settings), args.Error(1)
}

func (m *MockSettingsService) Set(ctx context.Context, key string, value any) (models.Settings, error) {
	args := m.Called(ctx, key, value)
	return args.Get(0).(models.Settings), args.Error(1)
}

func (m *MockSettingsService) Reset(ctx context.Context) (models.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Settings), args.Error(1)
}

// MockFavoritesService is a mock implementation of FavoritesService
type MockFavoritesService struct {
	mock.Mock
}

func (m *MockFavoritesService) List(ctx context.Context) []string {
	args := m.Called(ctx)
	return args.Get(0).([]string)
}

func (m *MockFavoritesService) Has(ctx context.Context, toolID string) bool {
	args := m.Called(ctx, toolID)
	return args.Bool(0)
}

func (m *MockFavoritesService) Toggle(ctx context.Context, toolID string) (bool, error) {
	args := m.Called(ctx, toolID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoritesService) Add(ctx context.Context, toolID string) error {
	return m.Called(ctx, toolID).Error(0)
}

func (m *MockFavoritesService) Remove(ctx context.Context, toolID string) error {
	return m.Called(ctx, toolID).Error(0)
}

func (m *MockFavoritesService) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockHistoryService is a mock implementation of HistoryService
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) List(ctx context.Context) []models.HistoryEntry {
	args := m.Called(ctx)
	return args.Get(0).([]models.HistoryEntry)
}

func (m *MockHistoryService) Append(ctx context.Context, visit models.ToolVisit) (models.HistoryEntry, error) {
	args := m.Called(ctx, visit)
	return args.Get(0).(models.HistoryEntry), args.Error(1)
}

func (m *MockHistoryService) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockHistoryService) Recent(ctx context.Context, n int) []models.HistoryEntry {
	args := m.Called(ctx, n)
	return args.Get(0).([]models.HistoryEntry)
}

func (m *MockHistoryService) Since(ctx context.Context, window time.Duration) []models.HistoryEntry {
	args := m.Called(ctx, window)
	return args.Get(0).([]models.HistoryEntry)
}

// MockTransferService is a mock implementation of TransferService
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) ExportAll(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockTransferService) ImportAll(ctx context.Context, blob []byte) error {
	return m.Called(ctx, blob).Error(0)
}

// MockTokenService is a mock implementation of TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueToken(ctx context.Context, accessKey string) (*models.TokenResponse, error) {
	args := m.Called(ctx, accessKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

// testResponse mirrors the response envelope
type testResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

// newJSONRequest builds a request with a JSON body
func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withURLParams attaches chi URL parameters to the request
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// decodeResponse parses the envelope and optionally its data
func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, data interface{}) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}
