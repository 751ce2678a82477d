package constants

// Session and context keys
const (
	SessionCookieName   = "flightdocs_session"
	ContextKeyUserID    = "user_id"
	ContextKeyActor     = "actor"
	ContextKeyFlight    = "flight"
	ContextKeyDocument  = "document"
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Account rules
const (
	MinPasswordLength   = 8
	ResetPasswordLength = 12
	DefaultEmailDomain  = "@vietjetair.com"
)

// Uploads
const (
	DefaultMaxUploadBytes int64 = 20 << 20
	UploadFormField             = "file"
)
