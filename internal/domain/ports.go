package domain

import "context"

// Purpose tags a model call so adapters can log and measure it.
type Purpose string

const (
	PurposeClassify    Purpose = "classify"
	PurposeStructured  Purpose = "structured"
	PurposeChitChat    Purpose = "chitchat"
	PurposeCommand     Purpose = "command"
	PurposeTranslate   Purpose = "translate"
	PurposeGoalPlanner Purpose = "goal_planner"
)

// ChatMessage is one entry of a chat-completion request.
type ChatMessage struct {
	Role    Role
	Content string
}

// CompletionRequest describes a single chat-completion call.
type CompletionRequest struct {
	Purpose     Purpose
	Messages    []ChatMessage
	Model       string // empty means the client's default model
	Temperature float32
	MaxTokens   int
}

// ChatClient defines how the core application talks to a chat-completion provider.
// Implementations return the content of the first choice.
type ChatClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Translator turns user-facing text into the target language.
type Translator interface {
	Translate(ctx context.Context, text string, target LanguageCode) (string, error)
}

// SessionStore defines session's persistence
type SessionStore interface {
	CreateSession(ctx context.Context, session *Session) error
	UpdateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id SessionID) (*Session, error)
	ListSessionsByUser(ctx context.Context, userID UserID, limit int) ([]*Session, error)
}

// MessageStore defines message's persistence. It is the full, append-only
// conversation log of a session.
type MessageStore interface {
	AppendMessage(ctx context.Context, msg *Message) error
	// GetMessagesBySession returns the last `limit` messages oldest first (all if limit <= 0).
	GetMessagesBySession(ctx context.Context, sessionID SessionID, limit int) ([]*Message, error)
}

// BrowserLauncher opens a URL for the user.
type BrowserLauncher interface {
	Open(ctx context.Context, url string) error
}

// Notifier delivers a notification on a side channel (desktop, push, log).
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}
