package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils/ratelimit"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimit(t *testing.T) {
	store := ratelimit.NewStore(ratelimit.Rate{RequestsPerSecond: 0.001, Burst: 2}, time.Minute)
	handler := RateLimit(store)(okHandler)

	send := func(path, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = ip + ":1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, send("/api/profile", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, send("/api/profile", "10.0.0.1").Code)

	limited := send("/api/profile", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get(constants.HeaderRetryAfter))
	assert.Contains(t, limited.Body.String(), constants.CodeRateLimited)

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, send("/api/profile", "10.0.0.2").Code)

	// health checks are never limited
	assert.Equal(t, http.StatusOK, send(constants.HealthPath, "10.0.0.1").Code)
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 1},
		{-time.Second, 1},
		{200 * time.Millisecond, 1},
		{1500 * time.Millisecond, 2},
		{3 * time.Second, 3},
		{48 * time.Hour, 3600},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, retryAfterSeconds(tt.in), tt.in.String())
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{
			name:     "X-Forwarded-For",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"},
			remote:   "10.0.0.1:5000",
			expected: "203.0.113.5",
		},
		{
			name:     "X-Real-IP",
			headers:  map[string]string{"X-Real-IP": "198.51.100.7"},
			remote:   "10.0.0.1:5000",
			expected: "198.51.100.7",
		},
		{
			name:     "RemoteAddr",
			remote:   "192.0.2.1:8080",
			expected: "192.0.2.1",
		},
		{
			name:     "RemoteAddr without port",
			remote:   "192.0.2.1",
			expected: "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, getClientIP(req))
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders()(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, constants.ContentTypeOptionsNoSniff, rr.Header().Get(constants.HeaderXContentTypeOptions))
	assert.Equal(t, constants.FrameOptionsDeny, rr.Header().Get(constants.HeaderXFrameOptions))
	assert.Equal(t, constants.CSPDefaultSrc, rr.Header().Get(constants.HeaderContentSecurityPolicy))
}

func TestRequestLogging(t *testing.T) {
	handler := RequestLogging()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestIsExemptedPath(t *testing.T) {
	assert.True(t, isExemptedPath("/health"))
	assert.True(t, isExemptedPath("/version"))
	assert.False(t, isExemptedPath("/api/favorites"))
}
