package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/auth"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/config"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

type staticVerifier string

func (v staticVerifier) Verify(candidate string) bool {
	return candidate == string(v)
}

func TestAuthService_IssueToken(t *testing.T) {
	jwtService := auth.NewJWTService(&config.AuthSettings{
		Enabled:   true,
		JWTSecret: "secret",
		Expiry:    time.Hour,
		Issuer:    "toolkit-api",
	})
	svc := NewAuthService(jwtService, staticVerifier("right-access-key"))

	resp, err := svc.IssueToken(context.Background(), "right-access-key")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := jwtService.ValidateToken(resp.AccessToken, "access")
	require.NoError(t, err)
	assert.Equal(t, "owner", claims.Subject)

	_, err = svc.IssueToken(context.Background(), "wrong-access-key")
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}
