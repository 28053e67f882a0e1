package constants

const (
	// ContextKeyUserID is the session and gin context key holding the current user ID.
	ContextKeyUserID = "user_id"
	// ContextKeySession holds the resolved middleware.Session.
	ContextKeySession = "session"
	// ContextKeyLang holds the negotiated response language.
	ContextKeyLang = "lang"

	SessionCookieName = "teamdesk_session"

	MinPasswordLength = 8

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	MaxAIGeneratedTasks = 20

	// GeneralTeamID is the team sentinel for company-wide tasks and events.
	GeneralTeamID = "general"
)
