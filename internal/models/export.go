package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
)

// StateExport is the export-all document. Each entity field carries the raw
// stored string, or null when the entity was never written.
type StateExport struct {
	Profile    *string `json:"profile"`
	Settings   *string `json:"settings"`
	Favorites  *string `json:"favorites"`
	History    *string `json:"history"`
	ExportedAt string  `json:"exportedAt"`
}

// exportFields maps export document fields to storage keys.
var exportFields = map[string]string{
	"profile":   constants.KeyUserProfile,
	"settings":  constants.KeyUserSettings,
	"favorites": constants.KeyUserFavorites,
	"history":   constants.KeyUserHistory,
}

// ErrImportNotObject is returned when an import document is not a JSON object.
var ErrImportNotObject = errors.New("import document must be a JSON object")

// NewStateExport builds an export document from raw stored values keyed by storage key.
// Missing keys are exported as null.
func NewStateExport(raw map[string]string, exportedAt string) StateExport {
	pick := func(key string) *string {
		if v, ok := raw[key]; ok {
			return &v
		}
		return nil
	}
	return StateExport{
		Profile:    pick(constants.KeyUserProfile),
		Settings:   pick(constants.KeyUserSettings),
		Favorites:  pick(constants.KeyUserFavorites),
		History:    pick(constants.KeyUserHistory),
		ExportedAt: exportedAt,
	}
}

// ParseStateImport parses an export document into raw values keyed by storage key.
// Entity fields that are null or missing are left out of the result; any
// entity field holding something other than a string or null fails the whole
// document. Unknown fields such as exportedAt are ignored.
func ParseStateImport(blob []byte) (map[string]string, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrImportNotObject
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	values := make(map[string]string)
	for field, key := range exportFields {
		raw, ok := doc[field]
		if !ok || string(raw) == "null" {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("field %s must be a string or null", field)
		}
		values[key] = value
	}

	return values, nil
}
