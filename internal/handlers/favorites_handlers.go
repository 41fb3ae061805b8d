package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// FavoritesHandler handles favorites-related routes
type FavoritesHandler struct {
	favoritesService FavoritesService
}

// NewFavoritesHandler creates a new FavoritesHandler
func NewFavoritesHandler(favoritesService FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{
		favoritesService: favoritesService,
	}
}

// ListFavorites returns every favorite tool ID
func (h *FavoritesHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites := h.favoritesService.List(r.Context())
	if favorites == nil {
		favorites = []string{}
	}
	utils.JSON(w, http.StatusOK, models.FavoritesList{Favorites: favorites})
}

// ClearFavorites removes every favorite
func (h *FavoritesHandler) ClearFavorites(w http.ResponseWriter, r *http.Request) {
	if err := h.favoritesService.Clear(r.Context()); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, models.FavoritesList{Favorites: []string{}})
}

// GetFavorite reports whether the tool in the URL is a favorite
func (h *FavoritesHandler) GetFavorite(w http.ResponseWriter, r *http.Request) {
	toolID := chi.URLParam(r, constants.ParamToolID)
	utils.JSON(w, http.StatusOK, models.FavoriteStatus{
		ToolID:   toolID,
		Favorite: h.favoritesService.Has(r.Context(), toolID),
	})
}

// AddFavorite makes the tool in the URL a favorite
func (h *FavoritesHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	toolID := chi.URLParam(r, constants.ParamToolID)
	if err := h.favoritesService.Add(r.Context(), toolID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, models.FavoriteStatus{ToolID: toolID, Favorite: true})
}

// RemoveFavorite drops the tool in the URL from the favorites
func (h *FavoritesHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	toolID := chi.URLParam(r, constants.ParamToolID)
	if err := h.favoritesService.Remove(r.Context(), toolID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, models.FavoriteStatus{ToolID: toolID, Favorite: false})
}

// ToggleFavorite flips the membership of the tool in the URL
func (h *FavoritesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	toolID := chi.URLParam(r, constants.ParamToolID)
	favorite, err := h.favoritesService.Toggle(r.Context(), toolID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	utils.JSON(w, http.StatusOK, models.FavoriteStatus{ToolID: toolID, Favorite: favorite})
}
