package models

import (
	"fmt"

	"github.com/yasinhessnawi1/Toolkit_Backend/internal/constants"
	"github.com/yasinhessnawi1/Toolkit_Backend/internal/utils"
)

// Settings represents the user's display, notification and privacy preferences.
type Settings struct {
	DarkMode      bool   `json:"darkMode"`
	HighContrast  bool   `json:"highContrast"`
	EmailUpdates  bool   `json:"emailUpdates"`
	BrowserAlerts bool   `json:"browserAlerts"`
	TwoFactorAuth bool   `json:"twoFactorAuth"`
	PublicProfile bool   `json:"publicProfile"`
	Language      string `json:"language"`
}

// DefaultSettings returns the settings used when nothing is stored yet.
// Only email updates are enabled by default.
func DefaultSettings() Settings {
	return Settings{
		EmailUpdates: true,
		Language:     constants.DefaultLanguage,
	}
}

// SettingsUpdate represents a partial settings change.
type SettingsUpdate struct {
	DarkMode      *bool   `json:"darkMode,omitempty"`
	HighContrast  *bool   `json:"highContrast,omitempty"`
	EmailUpdates  *bool   `json:"emailUpdates,omitempty"`
	BrowserAlerts *bool   `json:"browserAlerts,omitempty"`
	TwoFactorAuth *bool   `json:"twoFactorAuth,omitempty"`
	PublicProfile *bool   `json:"publicProfile,omitempty"`
	Language      *string `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
}

// IsEmpty reports whether the update changes nothing.
func (u *SettingsUpdate) IsEmpty() bool {
	return u.DarkMode == nil && u.HighContrast == nil && u.EmailUpdates == nil &&
		u.BrowserAlerts == nil && u.TwoFactorAuth == nil && u.PublicProfile == nil && u.Language == nil
}

// Apply merges the non-nil fields of the update onto the settings.
func (s *Settings) Apply(update *SettingsUpdate) {
	if update.DarkMode != nil {
		s.DarkMode = *update.DarkMode
	}
	if update.HighContrast != nil {
		s.HighContrast = *update.HighContrast
	}
	if update.EmailUpdates != nil {
		s.EmailUpdates = *update.EmailUpdates
	}
	if update.BrowserAlerts != nil {
		s.BrowserAlerts = *update.BrowserAlerts
	}
	if update.TwoFactorAuth != nil {
		s.TwoFactorAuth = *update.TwoFactorAuth
	}
	if update.PublicProfile != nil {
		s.PublicProfile = *update.PublicProfile
	}
	if update.Language != nil {
		s.Language = *update.Language
	}
}

// SettingsUpdateFromField builds a single-field update from a JSON field name.
// Boolean fields require a bool value and language requires a string.
func SettingsUpdateFromField(key string, value any) (SettingsUpdate, error) {
	var update SettingsUpdate

	if key == constants.FieldLanguage {
		lang, ok := value.(string)
		if !ok {
			return update, utils.NewValidationError(key, "Must be a string")
		}
		update.Language = &lang
		return update, nil
	}

	var target **bool
	switch key {
	case constants.FieldDarkMode:
		target = &update.DarkMode
	case constants.FieldHighContrast:
		target = &update.HighContrast
	case constants.FieldEmailUpdates:
		target = &update.EmailUpdates
	case constants.FieldBrowserAlerts:
		target = &update.BrowserAlerts
	case constants.FieldTwoFactorAuth:
		target = &update.TwoFactorAuth
	case constants.FieldPublicProfile:
		target = &update.PublicProfile
	default:
		return update, utils.NewValidationError(key, fmt.Sprintf("Unknown settings field %q", key))
	}

	flag, ok := value.(bool)
	if !ok {
		return update, utils.NewValidationError(key, "Must be a boolean")
	}
	*target = &flag
	return update, nil
}
