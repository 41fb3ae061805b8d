package constants

// Base Routes
const (
	APIBasePath = "/api"
	HealthPath  = "/health"
	VersionPath = "/version"
)

// Authentication Routes
const (
	AuthTokenPath = "/api/auth/token"
)

// State Routes
const (
	ProfileBasePath   = "/api/profile"
	SettingsBasePath  = "/api/settings"
	FavoritesBasePath = "/api/favorites"
	HistoryBasePath   = "/api/history"
	StateExportPath   = "/api/state/export"
	StateImportPath   = "/api/state/import"
)

// URL Parameters define path parameter names used in route definitions.
const (
	ParamField  = "field"
	ParamToolID = "toolID"
)

// Query Parameters define common query string parameter names.
const (
	QueryParamLimit  = "limit"
	QueryParamWithin = "within"
	QueryParamDays   = "days"
)

// ImportFormField is the multipart field carrying an uploaded export file.
const ImportFormField = "file"
