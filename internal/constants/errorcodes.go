// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling and messaging.
// User-facing messages are informative without revealing implementation details.
package constants

// User-Facing Error Messages define standardized messages that can be safely presented to users.
const (
	MsgAuthRequired        = "Authentication required"
	MsgInvalidAccessKey    = "Invalid access key"
	MsgAccessDenied        = "You don't have permission to access this resource"
	MsgInternalServerError = "An internal server error occurred"
	MsgTokenExpired        = "Authentication token has expired"
	MsgInvalidToken        = "Invalid token"
	MsgRequestBodyTooLarge = "Request body too large"
	MsgEmptyRequestBody    = "Request body must not be empty"
	MsgMalformedJSON       = "Request body contains malformed JSON"
	MsgResourceNotFound    = "The requested resource could not be found"
	MsgMethodNotAllowed    = "This method is not allowed for this resource"
	MsgStorageUnavailable  = "User state could not be saved"
	MsgInvalidImport       = "Import data is not a valid state export"
	MsgStateImported       = "State imported successfully"
	MsgRateLimited         = "Too many requests, please slow down"
	MsgAuthDisabled        = "Authentication is not enabled on this server"
)

// Database Error Types define constants for recognizing database-specific errors.
const (
	PGErrorDuplicateConstraint  = "23505"
	PGErrorForeignKeyConstraint = "23503"
	PGErrorNotNullConstraint    = "23502"

	// MySQLErrorDuplicateEntry is the MySQL error number for a duplicate key.
	MySQLErrorDuplicateEntry = 1062

	// MySQLErrorLockWaitTimeout is raised when a row lock cannot be acquired.
	MySQLErrorLockWaitTimeout = 1205
)

// Logger Constants define values used for structured logging.
const (
	LogCategoryState = "state"
	LogCategoryAuth  = "auth"

	LogEventProfileUpdate   = "profile_update"
	LogEventSettingsUpdate  = "settings_update"
	LogEventFavoritesUpdate = "favorites_update"
	LogEventHistoryUpdate   = "history_update"
	LogEventReset           = "reset"
	LogEventExport          = "export"
	LogEventImport          = "import"
	LogEventTokenIssued     = "token_issued"

	LogRedactedValue = "[REDACTED]"
)
