package models

// AccessKeyRequest is the body of a token request
type AccessKeyRequest struct {
	AccessKey string `json:"access_key" validate:"required"`
}

// TokenResponse is returned after a successful token request
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
