package handlers

import (
	"net/http"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// AuthHandler handles authentication routes
type AuthHandler struct {
	tokenService TokenService
}

// NewAuthHandler creates a new AuthHandler. A nil service means authentication is disabled.
func NewAuthHandler(tokenService TokenService) *AuthHandler {
	return &AuthHandler{
		tokenService: tokenService,
	}
}

// IssueToken exchanges the access key for an access token
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	if h.tokenService == nil {
		utils.Error(w, http.StatusNotFound, constants.CodeNotFound, constants.MsgAuthDisabled, nil)
		return
	}

	var req models.AccessKeyRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	token, err := h.tokenService.IssueToken(r.Context(), req.AccessKey)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, token)
}
