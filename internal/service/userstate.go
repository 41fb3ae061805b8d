// Package service provides business logic implementations for the toolkit backend.
//
// This file implements the user-state service, which owns the four entities
// stored for the single local user (profile, settings, favorites and history).
// Each entity is loaded lazily from the repository, cached in memory, and
// written back as a whole record on every change.
package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/repository"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// Option configures a UserStateService.
type Option func(*UserStateService)

// WithClock replaces the time source used for history timestamps, the
// default profile join date and export timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *UserStateService) {
		s.now = now
	}
}

// UserStateService manages the user's profile, settings, favorites and history.
// All operations are serialized by one mutex; the repository is never
// accessed concurrently through a single service.
type UserStateService struct {
	mu   sync.Mutex
	repo repository.StateRepository
	now  func() time.Time

	// Cached entities; nil means not loaded.
	profile   *models.Profile
	settings  *models.Settings
	favorites *[]string
	history   *[]models.HistoryEntry
}

// NewUserStateService creates a new UserStateService over a repository.
//
// Parameters:
//   - repo: The persistence medium holding the raw entity values
//   - opts: Optional settings such as WithClock
//
// Returns:
//   - A service with empty caches; nothing is read until first access
func NewUserStateService(repo repository.StateRepository, opts ...Option) *UserStateService {
	s := &UserStateService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile returns the profile accessor
func (s *UserStateService) Profile() *ProfileStore {
	return &ProfileStore{s: s}
}

// Settings returns the settings accessor
func (s *UserStateService) Settings() *SettingsStore {
	return &SettingsStore{s: s}
}

// Favorites returns the favorites accessor
func (s *UserStateService) Favorites() *FavoritesStore {
	return &FavoritesStore{s: s}
}

// History returns the history accessor
func (s *UserStateService) History() *HistoryStore {
	return &HistoryStore{s: s}
}

// Invalidate drops every cached entity so the next read goes to the repository.
// It is called when the medium was modified outside this service.
func (s *UserStateService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked()
}

func (s *UserStateService) invalidateLocked(keys ...string) {
	if len(keys) == 0 {
		keys = constants.StateKeys
	}
	for _, key := range keys {
		switch key {
		case constants.KeyUserProfile:
			s.profile = nil
		case constants.KeyUserSettings:
			s.settings = nil
		case constants.KeyUserFavorites:
			s.favorites = nil
		case constants.KeyUserHistory:
			s.history = nil
		}
	}
}

// loadEntity reads key and decodes it onto the default record. The boolean
// reports whether the result may be cached: a missing or corrupt value falls
// back to the default for good, a read failure is retried on the next access.
func loadEntity[T any](ctx context.Context, repo repository.StateRepository, key string, def func() T) (T, bool) {
	raw, found, err := repo.Get(ctx, key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to read user state, using default")
		return def(), false
	}
	if !found {
		return def(), true
	}

	v := def()
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Warn().
			Err(err).
			Str("key", key).
			Int("size", len(raw)).
			Msg("Stored user state is corrupt, using default")
		return def(), true
	}
	return v, true
}

// persist writes v under key as a whole record
func (s *UserStateService) persist(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return utils.NewInternalServerError(err)
	}
	if err := s.repo.Set(ctx, key, string(data)); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to save user state")
		return utils.NewStorageError(key, err)
	}
	return nil
}
