// Package auth provides authentication and authorization functionality for the toolkit API.
//
// The API serves a single local user. When authentication is enabled the
// holder of the configured access key exchanges it for a short-lived JWT,
// and every state route requires that token.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// ContextKey is a custom type for context keys to prevent collisions.
type ContextKey string

// Context keys for storing the authenticated subject and request metadata.
const (
	// SubjectContextKey is the context key for the authenticated token subject.
	SubjectContextKey ContextKey = constants.SubjectContextKey

	// RequestIDContextKey is the context key for storing the unique request ID.
	RequestIDContextKey ContextKey = constants.RequestIDContextKey
)

// AuthProvider defines methods for different authentication mechanisms.
type AuthProvider interface {
	// Authenticate checks the request and returns the authenticated subject.
	Authenticate(r *http.Request) (string, error)
}

// JWTAuthProvider implements JWT-based authentication.
type JWTAuthProvider struct {
	jwtService JWTValidator
}

// NewJWTAuthProvider creates a new JWTAuthProvider with the specified JWT validator.
func NewJWTAuthProvider(jwtService JWTValidator) *JWTAuthProvider {
	return &JWTAuthProvider{
		jwtService: jwtService,
	}
}

// Authenticate extracts the bearer token from the Authorization header and validates it.
// A valid token issued to any subject other than the owner is forbidden.
func (p *JWTAuthProvider) Authenticate(r *http.Request) (string, error) {
	authHeader := r.Header.Get(constants.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, constants.BearerTokenPrefix) {
		return "", utils.ErrUnauthorized
	}

	token := strings.TrimPrefix(authHeader, constants.BearerTokenPrefix)

	claims, err := p.jwtService.ValidateToken(token, constants.TokenTypeAccess)
	if err != nil {
		return "", err
	}
	if claims.Subject != constants.OwnerSubject {
		return "", utils.ErrForbidden
	}

	return claims.Subject, nil
}

// AuthMiddleware wraps an HTTP handler with authentication.
// It tries each provider and lets the request through if any succeeds.
func AuthMiddleware(next http.Handler, providers ...AuthProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := ensureRequestID(r)
		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)

		var lastErr error = utils.ErrUnauthorized
		for _, provider := range providers {
			subject, err := provider.Authenticate(r)
			if err == nil {
				ctx = context.WithValue(ctx, SubjectContextKey, subject)

				log.Debug().
					Str(constants.SubjectContextKey, subject).
					Str("request_id", requestID).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Request authenticated")

				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			lastErr = err
		}

		log.Info().
			Err(lastErr).
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Authentication failed")

		var appErr *utils.AppError
		if errors.Is(lastErr, utils.ErrForbidden) {
			utils.Forbidden(w, "")
		} else if errors.As(lastErr, &appErr) {
			utils.ErrorFromAppError(w, appErr)
		} else {
			utils.Unauthorized(w, constants.MsgAuthRequired)
		}
	})
}

// RequireAuth is a middleware that requires authentication.
func RequireAuth(providers ...AuthProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return AuthMiddleware(next, providers...)
	}
}

// ensureRequestID returns the request ID set by the router, the client, or a new one
func ensureRequestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	requestID := r.Header.Get(constants.HeaderXRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
		r.Header.Set(constants.HeaderXRequestID, requestID)
	}
	return requestID
}

// GetSubject extracts the authenticated subject from the request context.
func GetSubject(r *http.Request) (string, bool) {
	subject, ok := r.Context().Value(SubjectContextKey).(string)
	return subject, ok
}

// GetRequestID extracts the request ID from the request context.
func GetRequestID(r *http.Request) (string, bool) {
	if requestID, ok := r.Context().Value(RequestIDContextKey).(string); ok {
		return requestID, true
	}
	if requestID := middleware.GetReqID(r.Context()); requestID != "" {
		return requestID, true
	}
	return "", false
}
