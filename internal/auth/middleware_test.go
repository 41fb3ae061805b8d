package auth_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/auth"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// MockAuthProvider implements the AuthProvider interface for testing
type MockAuthProvider struct {
	AuthenticateFunc func(r *http.Request) (string, error)
}

func (m *MockAuthProvider) Authenticate(r *http.Request) (string, error) {
	return m.AuthenticateFunc(r)
}

func TestGetSubject(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if _, ok := auth.GetSubject(r); ok {
		t.Error("Expected no subject on a bare request")
	}

	ctx := context.WithValue(r.Context(), auth.SubjectContextKey, "owner")
	r = r.WithContext(ctx)

	subject, ok := auth.GetSubject(r)
	if !ok || subject != "owner" {
		t.Errorf("Expected subject 'owner', got %q", subject)
	}
}

func TestGetRequestID(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if _, ok := auth.GetRequestID(r); ok {
		t.Error("Expected no request ID on a bare request")
	}

	ctx := context.WithValue(r.Context(), middleware.RequestIDKey, "router-id")
	id, ok := auth.GetRequestID(r.WithContext(ctx))
	if !ok || id != "router-id" {
		t.Errorf("Expected router request ID, got %q", id)
	}

	ctx = context.WithValue(ctx, auth.RequestIDContextKey, "req123")
	id, ok = auth.GetRequestID(r.WithContext(ctx))
	if !ok || id != "req123" {
		t.Errorf("Expected request ID 'req123', got %q", id)
	}
}

func TestJWTAuthProvider_Authenticate(t *testing.T) {
	service := auth.NewJWTService(testAuthSettings())
	provider := auth.NewJWTAuthProvider(service)

	token, _, err := service.GenerateAccessToken("owner")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	subject, err := provider.Authenticate(r)
	if err != nil {
		t.Fatalf("Expected authentication to succeed, got %v", err)
	}
	if subject != "owner" {
		t.Errorf("Expected subject 'owner', got %q", subject)
	}

	r = httptest.NewRequest("GET", "/", nil)
	if _, err := provider.Authenticate(r); err != utils.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized without a header, got %v", err)
	}

	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	if _, err := provider.Authenticate(r); err == nil {
		t.Error("Expected failure for a non-bearer header")
	}

	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer invalid")
	if _, err := provider.Authenticate(r); err == nil {
		t.Error("Expected failure for an invalid token")
	}

	stranger, _, err := service.GenerateAccessToken("someone-else")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+stranger)
	if _, err := provider.Authenticate(r); err != utils.ErrForbidden {
		t.Errorf("Expected ErrForbidden for a foreign subject, got %v", err)
	}
}

func TestAuthMiddleware_ForeignSubjectIsForbidden(t *testing.T) {
	service := auth.NewJWTService(testAuthSettings())
	token, _, err := service.GenerateAccessToken("someone-else")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	called := false
	handler := auth.RequireAuth(auth.NewJWTAuthProvider(service))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	r := httptest.NewRequest("GET", "/api/profile", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if called {
		t.Error("Expected handler not to be called")
	}
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status code %d, got %d", http.StatusForbidden, w.Code)
	}
	if !strings.Contains(w.Body.String(), "forbidden") {
		t.Errorf("Expected forbidden error code in body, got %s", w.Body.String())
	}
}

func TestAuthMiddleware(t *testing.T) {
	successProvider := &MockAuthProvider{
		AuthenticateFunc: func(r *http.Request) (string, error) {
			return "owner", nil
		},
	}
	failProvider := &MockAuthProvider{
		AuthenticateFunc: func(r *http.Request) (string, error) {
			return "", fmt.Errorf("authentication failed")
		},
	}

	var handlerCalled bool
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true

		subject, ok := auth.GetSubject(r)
		if !ok || subject != "owner" {
			t.Errorf("Expected subject 'owner' in context, got %q", subject)
		}
		requestID, ok := auth.GetRequestID(r)
		if !ok || requestID != "req123" {
			t.Errorf("Expected request ID 'req123' in context, got %q", requestID)
		}

		w.WriteHeader(http.StatusOK)
	})

	// Successful authentication
	handlerCalled = false
	handler := auth.AuthMiddleware(nextHandler, failProvider, successProvider)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Request-ID", "req123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, w.Code)
	}

	// Failed authentication
	handlerCalled = false
	handler = auth.AuthMiddleware(nextHandler, failProvider)

	r = httptest.NewRequest("GET", "/", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if handlerCalled {
		t.Error("Expected handler not to be called")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, w.Code)
	}
	if r.Header.Get("X-Request-ID") == "" {
		t.Error("Expected a request ID to be generated")
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	provider := &MockAuthProvider{
		AuthenticateFunc: func(r *http.Request) (string, error) {
			return "", utils.NewExpiredTokenError()
		},
	}

	handler := auth.RequireAuth(provider)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected handler not to be called")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequireAuth(t *testing.T) {
	provider := &MockAuthProvider{
		AuthenticateFunc: func(r *http.Request) (string, error) {
			return "owner", nil
		},
	}

	var handlerCalled bool
	handler := auth.RequireAuth(provider)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
}
