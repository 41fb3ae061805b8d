package service

import (
	"context"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// SettingsStore is the accessor for the settings entity
type SettingsStore struct {
	s *UserStateService
}

// Get returns the current settings, or the defaults when none are stored
func (st *SettingsStore) Get(ctx context.Context) models.Settings {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	return st.s.settingsLocked(ctx)
}

// Update merges a partial change onto the current settings and persists the result.
// The cached settings are unchanged if validation or the write fails.
func (st *SettingsStore) Update(ctx context.Context, update models.SettingsUpdate) (models.Settings, error) {
	if err := utils.ValidateStruct(&update); err != nil {
		return models.Settings{}, err
	}

	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	next := st.s.settingsLocked(ctx)
	next.Apply(&update)

	if err := st.s.persist(ctx, constants.KeyUserSettings, next); err != nil {
		return models.Settings{}, err
	}
	st.s.settings = &next

	utils.LogStateChange(constants.LogEventSettingsUpdate, constants.KeyUserSettings, map[string]interface{}{
		"settings": next,
	})

	return next, nil
}

// Set changes a single setting by its JSON name.
// Boolean settings take a bool and language takes a string.
func (st *SettingsStore) Set(ctx context.Context, key string, value any) (models.Settings, error) {
	update, err := models.SettingsUpdateFromField(key, value)
	if err != nil {
		return models.Settings{}, err
	}
	return st.Update(ctx, update)
}

// Reset overwrites the settings with the defaults
func (st *SettingsStore) Reset(ctx context.Context) (models.Settings, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	def := models.DefaultSettings()
	if err := st.s.persist(ctx, constants.KeyUserSettings, def); err != nil {
		return models.Settings{}, err
	}
	st.s.settings = &def

	utils.LogStateChange(constants.LogEventReset, constants.KeyUserSettings, nil)

	return def, nil
}

func (s *UserStateService) settingsLocked(ctx context.Context) models.Settings {
	if s.settings != nil {
		return *s.settings
	}
	settings, cacheable := loadEntity(ctx, s.repo, constants.KeyUserSettings, models.DefaultSettings)
	if cacheable {
		s.settings = &settings
	}
	return settings
}
