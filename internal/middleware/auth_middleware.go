package middleware

import (
	"net/http"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/auth"
)

// JWTAuth is a middleware that requires a valid JWT token
func JWTAuth(jwtService auth.JWTValidator) func(http.Handler) http.Handler {
	provider := auth.NewJWTAuthProvider(jwtService)
	return auth.RequireAuth(provider)
}

// Passthrough is a no-op middleware used when authentication is disabled
func Passthrough() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return next
	}
}
