package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// FavoritesStore is the accessor for the favorites entity, a set of tool IDs
type FavoritesStore struct {
	s *UserStateService
}

// List returns the favorite tool IDs in insertion order
func (f *FavoritesStore) List(ctx context.Context) []string {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return slices.Clone(f.s.favoritesLocked(ctx))
}

// Has reports whether toolID is a favorite
func (f *FavoritesStore) Has(ctx context.Context, toolID string) bool {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return utils.ContainsString(f.s.favoritesLocked(ctx), toolID)
}

// Toggle adds toolID if absent and removes it if present.
// It returns whether toolID is a favorite afterwards.
func (f *FavoritesStore) Toggle(ctx context.Context, toolID string) (bool, error) {
	if err := validateToolID(toolID); err != nil {
		return false, err
	}

	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	current := f.s.favoritesLocked(ctx)
	if utils.ContainsString(current, toolID) {
		return false, f.s.saveFavoritesLocked(ctx, utils.RemoveString(current, toolID), "remove", toolID)
	}
	return true, f.s.saveFavoritesLocked(ctx, append(slices.Clone(current), toolID), "add", toolID)
}

// Add makes toolID a favorite. Adding an existing favorite writes nothing.
func (f *FavoritesStore) Add(ctx context.Context, toolID string) error {
	if err := validateToolID(toolID); err != nil {
		return err
	}

	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	current := f.s.favoritesLocked(ctx)
	if utils.ContainsString(current, toolID) {
		return nil
	}
	return f.s.saveFavoritesLocked(ctx, append(slices.Clone(current), toolID), "add", toolID)
}

// Remove drops toolID from the favorites. Removing a missing favorite writes nothing.
func (f *FavoritesStore) Remove(ctx context.Context, toolID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	current := f.s.favoritesLocked(ctx)
	if !utils.ContainsString(current, toolID) {
		return nil
	}
	return f.s.saveFavoritesLocked(ctx, utils.RemoveString(current, toolID), "remove", toolID)
}

// Clear removes every favorite
func (f *FavoritesStore) Clear(ctx context.Context) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.saveFavoritesLocked(ctx, []string{}, "clear", "")
}

// Reset is Clear; favorites have no non-empty default
func (f *FavoritesStore) Reset(ctx context.Context) error {
	return f.Clear(ctx)
}

func (s *UserStateService) favoritesLocked(ctx context.Context) []string {
	if s.favorites != nil {
		return *s.favorites
	}
	favorites, cacheable := loadEntity(ctx, s.repo, constants.KeyUserFavorites, func() []string { return []string{} })
	favorites = dedupeFavorites(favorites)
	if cacheable {
		s.favorites = &favorites
	}
	return favorites
}

func (s *UserStateService) saveFavoritesLocked(ctx context.Context, next []string, action, toolID string) error {
	if next == nil {
		next = []string{}
	}
	if err := s.persist(ctx, constants.KeyUserFavorites, next); err != nil {
		return err
	}
	s.favorites = &next

	fields := map[string]interface{}{"action": action, "count": len(next)}
	if toolID != "" {
		fields["tool_id"] = toolID
	}
	utils.LogStateChange(constants.LogEventFavoritesUpdate, constants.KeyUserFavorites, fields)
	return nil
}

// dedupeFavorites keeps the first occurrence of every ID; a stored null decodes to an empty set
func dedupeFavorites(ids []string) []string {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if !utils.ContainsString(result, id) {
			result = append(result, id)
		}
	}
	return result
}

func validateToolID(toolID string) error {
	if !utils.IsValidToolID(toolID) {
		return utils.NewValidationError("toolId", fmt.Sprintf("Must be a non-empty tool identifier of at most %d characters", constants.MaxToolIDLength))
	}
	return nil
}
