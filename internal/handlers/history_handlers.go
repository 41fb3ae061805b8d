package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// HistoryHandler handles history-related routes
type HistoryHandler struct {
	historyService HistoryService
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(historyService HistoryService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

// GetHistory returns history entries, most recent first.
//
// Query parameters:
//   - within: a duration such as 24h; only newer entries are returned
//   - days: shorthand for within=N*24h
//   - limit: the maximum number of entries
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if raw := query.Get(constants.QueryParamLimit); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > constants.MaxHistoryEntries {
			utils.ErrorFromAppError(w, utils.NewValidationError(constants.QueryParamLimit, "Must be a number between 1 and 100"))
			return
		}
		limit = n
	}

	var window time.Duration
	if raw := query.Get(constants.QueryParamWithin); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			utils.ErrorFromAppError(w, utils.NewValidationError(constants.QueryParamWithin, "Must be a positive duration such as 24h"))
			return
		}
		window = d
	} else if raw := query.Get(constants.QueryParamDays); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 {
			utils.ErrorFromAppError(w, utils.NewValidationError(constants.QueryParamDays, "Must be a positive number of days"))
			return
		}
		window = time.Duration(days) * 24 * time.Hour
	}

	var entries []models.HistoryEntry
	switch {
	case window > 0:
		entries = h.historyService.Since(r.Context(), window)
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}
	case limit > 0:
		entries = h.historyService.Recent(r.Context(), limit)
	default:
		entries = h.historyService.List(r.Context())
	}

	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	utils.JSON(w, http.StatusOK, models.HistoryList{History: entries, Count: len(entries)})
}

// AppendHistory records a visit of a tool
func (h *HistoryHandler) AppendHistory(w http.ResponseWriter, r *http.Request) {
	var visit models.ToolVisit
	if err := utils.DecodeAndValidate(r, &visit); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	entry, err := h.historyService.Append(r.Context(), visit)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, entry)
}

// ClearHistory removes every history entry
func (h *HistoryHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.historyService.Clear(r.Context()); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, models.HistoryList{History: []models.HistoryEntry{}})
}
