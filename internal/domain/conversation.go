package domain

// Content types stored on messages, mirroring the result variant that produced them.
const (
	ContentText       = "text"
	ContentCommand    = "command"
	ContentStructured = "structured"
	ContentChitChat   = "chit-chat"
)

// Message represents any message in a session timeline (user or assistant)
type Message struct {
	ID        MessageID
	SessionID SessionID
	Author    Role
	Text      string
	CreatedAt Timestamp

	// Metadata holds additional information about the message
	Language    LanguageCode
	ContentType string // text, command, structured, chit-chat
}

// Session represents a conversation between a user and Ruhaan (could last days)
type Session struct {
	ID        SessionID
	UserID    UserID
	CreatedAt Timestamp
	UpdatedAt Timestamp

	Title string
}
