package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// SettingsHandler handles settings-related routes
type SettingsHandler struct {
	settingsService SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// GetSettings returns the current settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.settingsService.Get(r.Context()))
}

// UpdateSettings merges partial settings into the current ones
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var update models.SettingsUpdate
	if err := utils.DecodeJSON(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	if update.IsEmpty() {
		utils.BadRequest(w, "No settings to update", nil)
		return
	}

	settings, err := h.settingsService.Update(r.Context(), update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, settings)
}

// SetSetting updates one setting named in the URL
func (h *SettingsHandler) SetSetting(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, constants.ParamField)

	var req models.FieldUpdateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	settings, err := h.settingsService.Set(r.Context(), field, req.Value)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, settings)
}

// ResetSettings restores the default settings
func (h *SettingsHandler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Reset(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, settings)
}
