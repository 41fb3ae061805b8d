package service

import (
	"context"
	"slices"
	"time"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// HistoryStore is the accessor for the tool usage history, most recent first
type HistoryStore struct {
	s *UserStateService
}

// List returns every history entry, most recent first
func (h *HistoryStore) List(ctx context.Context) []models.HistoryEntry {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return slices.Clone(h.s.historyLocked(ctx))
}

// Append records a visit of a tool.
//
// The entry is stamped with the current time and placed first. An older
// entry for the same tool is removed, and the list is cut to the
// MaxHistoryEntries most recent entries.
//
// Parameters:
//   - ctx: Context for the operation
//   - visit: The tool being visited
//
// Returns:
//   - The stored entry
//   - A validation or storage error; the cached history is unchanged on error
func (h *HistoryStore) Append(ctx context.Context, visit models.ToolVisit) (models.HistoryEntry, error) {
	if err := utils.ValidateStruct(&visit); err != nil {
		return models.HistoryEntry{}, err
	}

	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	entry := models.NewHistoryEntry(visit, h.s.now())
	next := prependEntry(h.s.historyLocked(ctx), entry)

	if err := h.s.saveHistoryLocked(ctx, next, "append", visit.ToolID); err != nil {
		return models.HistoryEntry{}, err
	}
	return entry, nil
}

// Clear removes every history entry
func (h *HistoryStore) Clear(ctx context.Context) error {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return h.s.saveHistoryLocked(ctx, []models.HistoryEntry{}, "clear", "")
}

// Reset is Clear; history has no non-empty default
func (h *HistoryStore) Reset(ctx context.Context) error {
	return h.Clear(ctx)
}

// Recent returns up to n of the most recent entries.
// A non-positive n uses DefaultRecentHistoryLimit.
func (h *HistoryStore) Recent(ctx context.Context, n int) []models.HistoryEntry {
	if n <= 0 {
		n = constants.DefaultRecentHistoryLimit
	}

	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	history := h.s.historyLocked(ctx)
	if n > len(history) {
		n = len(history)
	}
	return slices.Clone(history[:n])
}

// Since returns the entries visited within the given window before now
func (h *HistoryStore) Since(ctx context.Context, window time.Duration) []models.HistoryEntry {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	cutoff := h.s.now().Add(-window).UnixMilli()
	result := make([]models.HistoryEntry, 0)
	for _, entry := range h.s.historyLocked(ctx) {
		if entry.Timestamp > cutoff {
			result = append(result, entry)
		}
	}
	return result
}

func (s *UserStateService) historyLocked(ctx context.Context) []models.HistoryEntry {
	if s.history != nil {
		return *s.history
	}
	history, cacheable := loadEntity(ctx, s.repo, constants.KeyUserHistory, func() []models.HistoryEntry {
		return []models.HistoryEntry{}
	})
	history = normalizeHistory(history)
	if cacheable {
		s.history = &history
	}
	return history
}

func (s *UserStateService) saveHistoryLocked(ctx context.Context, next []models.HistoryEntry, action, toolID string) error {
	if err := s.persist(ctx, constants.KeyUserHistory, next); err != nil {
		return err
	}
	s.history = &next

	fields := map[string]interface{}{"action": action, "count": len(next)}
	if toolID != "" {
		fields["tool_id"] = toolID
	}
	utils.LogStateChange(constants.LogEventHistoryUpdate, constants.KeyUserHistory, fields)
	return nil
}

// prependEntry returns a new list with entry first and no other entry for the same tool
func prependEntry(history []models.HistoryEntry, entry models.HistoryEntry) []models.HistoryEntry {
	next := make([]models.HistoryEntry, 0, len(history)+1)
	next = append(next, entry)
	for _, e := range history {
		if e.ToolID != entry.ToolID {
			next = append(next, e)
		}
	}
	if len(next) > constants.MaxHistoryEntries {
		next = next[:constants.MaxHistoryEntries]
	}
	return next
}

// normalizeHistory enforces one entry per tool and the length bound on loaded data
func normalizeHistory(history []models.HistoryEntry) []models.HistoryEntry {
	result := make([]models.HistoryEntry, 0, len(history))
	seen := make(map[string]bool, len(history))
	for _, e := range history {
		if seen[e.ToolID] {
			continue
		}
		seen[e.ToolID] = true
		result = append(result, e)
		if len(result) == constants.MaxHistoryEntries {
			break
		}
	}
	return result
}
