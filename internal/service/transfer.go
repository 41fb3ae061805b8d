package service

import (
	"context"
	"encoding/json"
	"maps"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/models"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// ExportAll returns every stored entity value as a pretty-printed export document.
// Entities that were never written are exported as null.
func (s *UserStateService) ExportAll(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := make(map[string]string, len(constants.StateKeys))
	for _, key := range constants.StateKeys {
		value, found, err := s.repo.Get(ctx, key)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("Failed to read user state for export")
			return nil, utils.NewStorageError(key, err)
		}
		if found {
			raw[key] = value
		}
	}

	export := models.NewStateExport(raw, s.now().UTC().Format(models.JoinedDateLayout))
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, utils.NewInternalServerError(err)
	}

	utils.LogStateChange(constants.LogEventExport, "", map[string]interface{}{
		"entities": len(raw),
		"size":     len(data),
	})

	return data, nil
}

// ImportAll restores entity values from an export document.
//
// The whole document is parsed before anything is written. Entity fields
// holding a string are written verbatim in one SetMany call; null or missing
// fields leave the stored value alone. A malformed document writes nothing.
// Cached copies of the written entities are dropped afterwards.
func (s *UserStateService) ImportAll(ctx context.Context, blob []byte) error {
	values, err := models.ParseStateImport(blob)
	if err != nil {
		return utils.NewMalformedImportError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(values) == 0 {
		log.Info().Msg("Import document contains no entities")
		return nil
	}

	if err := s.repo.SetMany(ctx, values); err != nil {
		log.Error().Err(err).Msg("Failed to import user state")
		return utils.NewStorageError("", err)
	}

	keys := slices.Sorted(maps.Keys(values))
	s.invalidateLocked(keys...)

	utils.LogStateChange(constants.LogEventImport, "", map[string]interface{}{
		"keys": keys,
	})

	return nil
}
