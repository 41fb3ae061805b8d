package service

import (
	"context"
	"fmt"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/auth"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// KeyVerifier checks a candidate access key
type KeyVerifier interface {
	Verify(candidate string) bool
}

// AuthService exchanges the access key for API tokens
type AuthService struct {
	jwtService *auth.JWTService
	verifier   KeyVerifier
}

// NewAuthService creates a new AuthService
func NewAuthService(jwtService *auth.JWTService, verifier KeyVerifier) *AuthService {
	return &AuthService{
		jwtService: jwtService,
		verifier:   verifier,
	}
}

// IssueToken returns an access token if accessKey matches the configured key
func (s *AuthService) IssueToken(_ context.Context, accessKey string) (*models.TokenResponse, error) {
	if !s.verifier.Verify(accessKey) {
		utils.LogAuth(constants.LogEventTokenIssued, constants.OwnerSubject, false, "invalid access key")
		return nil, utils.NewInvalidCredentialsError()
	}

	token, jwtID, err := s.jwtService.GenerateAccessToken(constants.OwnerSubject)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	utils.LogAuth(constants.LogEventTokenIssued, constants.OwnerSubject, true, "jti="+jwtID)

	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtService.GetConfig().Expiry.Seconds()),
	}, nil
}
