package constants

// Session
const (
	SessionCookieName   = "timesheet_session"
	SessionKeyUserID    = "user_id"
	SessionKeyUserEmail = "user_email"
	SessionKeyUserRole  = "user_role"
)

// Gin context keys
const (
	ContextKeyIdentity = "identity"
	ContextKeyProject  = "project"
)

// Validation limits
const (
	MinPasswordLength = 8
	MaxEntryHours     = 24
	MaxPlannedHours   = 10000
)

// DateFormat is the wire format for entry dates.
const DateFormat = "2006-01-02"

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
