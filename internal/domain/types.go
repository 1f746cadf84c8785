package domain

import (
	"errors"
	"time"
)

type SessionID string
type UserID string
type MessageID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// LanguageCode is one of the two locales the product answers in.
type LanguageCode string

const (
	LangEnglish LanguageCode = "en-IN"
	LangHindi   LanguageCode = "hi-IN"
)

// IsEnglish reports whether replies in this language need no translation.
func (l LanguageCode) IsEnglish() bool {
	return l != LangHindi
}

// Intent is the label the classifier assigns to an utterance.
type Intent string

const (
	IntentCommand    Intent = "command"
	IntentStructured Intent = "structured"
	IntentChitChat   Intent = "chit-chat"
)

type Timestamp = time.Time

var (
	ErrNotFound        = errors.New("not found")
	ErrSessionNotFound = errors.New("session not found")
)
