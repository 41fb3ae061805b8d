package constants

const (
	SubjectContextKey   = "subject"
	RequestIDContextKey = "request_id"
)

const (
	TokenTypeAccess = "access"
)

const (
	MinAccessKeyLength = 12
)
