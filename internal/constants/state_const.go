package constants

// Storage keys for the four user-state entities. These names are part of the
// export format and must not change.
const (
	KeyUserProfile   = "userProfile"
	KeyUserSettings  = "userSettings"
	KeyUserFavorites = "userFavorites"
	KeyUserHistory   = "userHistory"
)

// StateKeys lists every entity key in export order.
var StateKeys = []string{KeyUserProfile, KeyUserSettings, KeyUserFavorites, KeyUserHistory}

const (
	// MaxHistoryEntries bounds the history list; the oldest entry is dropped first.
	MaxHistoryEntries = 100

	// DefaultRecentHistoryLimit is used when a recent-history query gives no limit.
	DefaultRecentHistoryLimit = 10

	// MaxToolIDLength bounds a tool identifier in characters. Identifiers are otherwise opaque.
	MaxToolIDLength = 128

	// HistoryDateLayout renders the display date stored next to each history timestamp.
	HistoryDateLayout = "1/2/2006"

	// DefaultTimezone is the timezone of a freshly created profile.
	DefaultTimezone = "UTC"

	// DefaultLanguage is the language of freshly created settings.
	DefaultLanguage = "en"

	// ExportFilenamePrefix is used for downloaded export files.
	ExportFilenamePrefix = "user-state-export"
)

// Profile field names accepted by single-field updates.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldAvatar     = "avatar"
	FieldLocation   = "location"
	FieldTimezone   = "timezone"
	FieldBio        = "bio"
	FieldJoinedDate = "joinedDate"
)

// Settings field names accepted by single-field updates.
const (
	FieldDarkMode      = "darkMode"
	FieldHighContrast  = "highContrast"
	FieldEmailUpdates  = "emailUpdates"
	FieldBrowserAlerts = "browserAlerts"
	FieldTwoFactorAuth = "twoFactorAuth"
	FieldPublicProfile = "publicProfile"
	FieldLanguage      = "language"
)
