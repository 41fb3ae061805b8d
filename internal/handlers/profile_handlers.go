package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// ProfileHandler handles profile-related routes
type ProfileHandler struct {
	profileService ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetProfile returns the current profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.profileService.Get(r.Context()))
}

// UpdateProfile merges a partial profile into the current one
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update models.ProfileUpdate
	if err := utils.DecodeJSON(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	if update.IsEmpty() {
		utils.BadRequest(w, "No profile fields to update", nil)
		return
	}

	profile, err := h.profileService.Update(r.Context(), update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, profile)
}

// SetProfileField updates one profile field named in the URL
func (h *ProfileHandler) SetProfileField(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, constants.ParamField)

	var req models.FieldUpdateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	value, ok := req.Value.(string)
	if !ok {
		utils.ErrorFromAppError(w, utils.NewValidationError("value", "Must be a string"))
		return
	}

	profile, err := h.profileService.Set(r.Context(), field, value)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, profile)
}

// ResetProfile restores the default profile
func (h *ProfileHandler) ResetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.Reset(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, profile)
}
