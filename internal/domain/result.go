package domain

// Result is the outcome of classifying and answering one utterance.
// Exactly one of CommandResult, StructuredResult or ChitChatResult is produced.
type Result interface {
	Intent() Intent
	Language() LanguageCode
	// ReplyText is the plain text that goes into the conversation log and,
	// for speech callers, to synthesis.
	ReplyText() string

	isResult()
}

// CommandResult is produced for utterances routed to a tool.
type CommandResult struct {
	LanguageCode LanguageCode
	Tool         string // empty when the general model fallback answered
	Reply        string
}

// StructuredResult carries the four-perspective answer and its derived texts.
type StructuredResult struct {
	Response     StructuredAnswer
	Summary      string
	NextSteps    []string
	VoiceMessage string
	LanguageCode LanguageCode
}

// ChitChatResult is a single plain-text reply.
type ChitChatResult struct {
	Message      string
	LanguageCode LanguageCode
}

func (r CommandResult) Intent() Intent         { return IntentCommand }
func (r CommandResult) Language() LanguageCode { return r.LanguageCode }
func (r CommandResult) ReplyText() string      { return r.Reply }
func (CommandResult) isResult()                {}

func (r StructuredResult) Intent() Intent         { return IntentStructured }
func (r StructuredResult) Language() LanguageCode { return r.LanguageCode }
func (r StructuredResult) ReplyText() string      { return r.VoiceMessage }
func (StructuredResult) isResult()                {}

func (r ChitChatResult) Intent() Intent         { return IntentChitChat }
func (r ChitChatResult) Language() LanguageCode { return r.LanguageCode }
func (r ChitChatResult) ReplyText() string      { return r.Message }
func (ChitChatResult) isResult()                {}
