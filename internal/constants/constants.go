package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserName  = "user_name"
	ContextKeyBoard     = "board"
	ContextKeyBoardRole = "board_role"
)

// Pagination bounds for the list view
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Limits
const (
	MinPasswordLength   = 8
	MaxAIGeneratedTasks = 20
	MaxReminderDays     = 365
	SessionMaxAge       = 86400 * 7 // 7 days
)

// SessionName is the cookie name used by the session store
const SessionName = "taskboard_session"

// Localization
const (
	ContextKeyLanguage   = "lang"
	ContextKeyTranslator = "translator"
)
