package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/ruhaan-agent/internal/app/agentflow"
	"github.com/PabloGalante/ruhaan-agent/internal/app/tools"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

// ErrEmptyText is returned when an utterance has no content.
var ErrEmptyText = errors.New("text is required")

const welcomeText = "Hi, I'm Ruhaan. What would you like to work on today?"

type Service struct {
	sessionStore  domain.SessionStore
	messageStore  domain.MessageStore
	orchestrator  *agentflow.Orchestrator
	historyWindow int
	now           func() time.Time
}

// NewService builds the service. historyWindow is the number of recent turns given to the
// model; zero or less means domain.DefaultHistoryWindow.
func NewService(
	orchestrator *agentflow.Orchestrator,
	sessionStore domain.SessionStore,
	messageStore domain.MessageStore,
	historyWindow int,
) *Service {
	if historyWindow <= 0 {
		historyWindow = domain.DefaultHistoryWindow
	}
	return &Service{
		sessionStore:  sessionStore,
		messageStore:  messageStore,
		orchestrator:  orchestrator,
		historyWindow: historyWindow,
		now:           time.Now,
	}
}

type StartSessionInput struct {
	UserID domain.UserID
	Title  string
}

type StartSessionOutput struct {
	Session *domain.Session
	Welcome *domain.Message
}

func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	now := s.now()

	log := observability.LoggerFromContext(ctx).With("user_id", in.UserID)
	log.Info("starting new session")

	session := &domain.Session{
		ID:        domain.SessionID(uuid.NewString()),
		UserID:    in.UserID,
		CreatedAt: now,
		UpdatedAt: now,
		Title:     in.Title,
	}

	if err := s.sessionStore.CreateSession(ctx, session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, fmt.Errorf("create session: %w", err)
	}

	welcome := &domain.Message{
		ID:          domain.MessageID(uuid.NewString()),
		SessionID:   session.ID,
		Author:      domain.RoleAssistant,
		Text:        welcomeText,
		CreatedAt:   now,
		Language:    domain.LangEnglish,
		ContentType: domain.ContentText,
	}

	if err := s.messageStore.AppendMessage(ctx, welcome); err != nil {
		log.Error("failed to append welcome message", "error", err)
		return nil, fmt.Errorf("append welcome message: %w", err)
	}

	log.Info("session started", "session_id", session.ID)

	return &StartSessionOutput{
		Session: session,
		Welcome: welcome,
	}, nil
}

type SendMessageInput struct {
	SessionID    domain.SessionID
	UserID       domain.UserID
	Text         string
	LanguageHint string
}

type SendMessageOutput struct {
	Session      *domain.Session
	UserMessage  *domain.Message
	AgentMessage *domain.Message
	Result       domain.Result
}

// SendMessage answers one utterance inside an existing session and records both turns.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrEmptyText
	}

	session, err := s.sessionStore.GetSession(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if in.UserID != "" && session.UserID != in.UserID {
		return nil, domain.ErrSessionNotFound
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
		"user_id", session.UserID,
	)
	log.Info("sending message", "chars", len([]rune(in.Text)))

	history, err := s.history(ctx, session.ID)
	if err != nil {
		log.Error("failed to load history", "error", err)
		return nil, err
	}

	userMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: session.ID,
		Author:    domain.RoleUser,
		Text:      in.Text,
		CreatedAt: s.now(),
	}

	res := s.orchestrator.Run(ctx, agentflow.Input{
		Text:         in.Text,
		LanguageHint: in.LanguageHint,
		History:      history,
		Tool: tools.ToolContext{
			UserID:    string(session.UserID),
			SessionID: string(session.ID),
			RequestID: observability.RequestIDFromContext(ctx),
		},
	})

	userMsg.Language = res.Language()
	userMsg.ContentType = ContentType(res)
	if err := s.messageStore.AppendMessage(ctx, userMsg); err != nil {
		log.Error("failed to append user message", "error", err)
		return nil, fmt.Errorf("append user message: %w", err)
	}

	agentMsg := &domain.Message{
		ID:          domain.MessageID(uuid.NewString()),
		SessionID:   session.ID,
		Author:      domain.RoleAssistant,
		Text:        res.ReplyText(),
		CreatedAt:   s.now(),
		Language:    res.Language(),
		ContentType: ContentType(res),
	}

	if err := s.messageStore.AppendMessage(ctx, agentMsg); err != nil {
		log.Error("failed to append agent message", "error", err)
		return nil, fmt.Errorf("append agent message: %w", err)
	}

	session.UpdatedAt = s.now()
	if err := s.sessionStore.UpdateSession(ctx, session); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, fmt.Errorf("update session: %w", err)
	}

	log.Info("send message completed", "type", res.Intent())

	return &SendMessageOutput{
		Session:      session,
		UserMessage:  userMsg,
		AgentMessage: agentMsg,
		Result:       res,
	}, nil
}

type ChatInput struct {
	UserID       domain.UserID
	SessionID    domain.SessionID // empty starts a new session
	Text         string
	LanguageHint string
}

// Chat is SendMessage with an implicit session: a missing session ID opens a new one.
func (s *Service) Chat(ctx context.Context, in ChatInput) (*SendMessageOutput, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrEmptyText
	}

	sessionID := in.SessionID
	if sessionID == "" {
		out, err := s.StartSession(ctx, StartSessionInput{UserID: in.UserID, Title: title(in.Text)})
		if err != nil {
			return nil, err
		}
		sessionID = out.Session.ID
	}

	return s.SendMessage(ctx, SendMessageInput{
		SessionID:    sessionID,
		UserID:       in.UserID,
		Text:         in.Text,
		LanguageHint: in.LanguageHint,
	})
}

type TranscriptInput struct {
	UserID        domain.UserID
	SessionID     domain.SessionID
	Transcription string
	LanguageHint  string // the speech-to-text language guess
}

// HandleTranscript answers an already transcribed utterance. The speech service's language
// guess is only a hint; the detector may override it.
func (s *Service) HandleTranscript(ctx context.Context, in TranscriptInput) (*SendMessageOutput, error) {
	observability.LoggerFromContext(ctx).Debug("transcript received", "hint", in.LanguageHint)
	return s.Chat(ctx, ChatInput{
		UserID:       in.UserID,
		SessionID:    in.SessionID,
		Text:         strings.TrimSpace(in.Transcription),
		LanguageHint: in.LanguageHint,
	})
}

// Ask runs one utterance without a session or history.
func (s *Service) Ask(ctx context.Context, userID domain.UserID, text, languageHint string) (domain.Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	return s.orchestrator.Run(ctx, agentflow.Input{
		Text:         text,
		LanguageHint: languageHint,
		Tool: tools.ToolContext{
			UserID:    string(userID),
			RequestID: observability.RequestIDFromContext(ctx),
		},
	}), nil
}

func (s *Service) GetSessionTimeline(
	ctx context.Context,
	sessionID domain.SessionID,
	limit int,
) (*domain.Session, []*domain.Message, error) {

	log := observability.LoggerFromContext(ctx).With(
		"session_id", sessionID,
		"limit", limit,
	)

	session, err := s.sessionStore.GetSession(ctx, sessionID)
	if err != nil {
		log.Warn("failed to get session", "error", err)
		return nil, nil, err
	}

	msgs, err := s.messageStore.GetMessagesBySession(ctx, sessionID, limit)
	if err != nil {
		log.Error("failed to get messages", "error", err)
		return nil, nil, err
	}

	log.Info("fetched session timeline", "message_count", len(msgs))

	return session, msgs, nil
}

// ListSessions returns the user's most recently updated sessions.
func (s *Service) ListSessions(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Session, error) {
	return s.sessionStore.ListSessionsByUser(ctx, userID, limit)
}

// history builds the model context from the session's last non-command turns.
func (s *Service) history(ctx context.Context, sessionID domain.SessionID) (*domain.History, error) {
	msgs, err := s.messageStore.GetMessagesBySession(ctx, sessionID, s.historyWindow*4)
	if err != nil {
		return nil, err
	}

	h := domain.NewHistory(s.historyWindow)
	for _, m := range msgs {
		if m.ContentType == domain.ContentCommand {
			continue
		}
		h.Append(m.Author, m.Text)
	}
	return h, nil
}

// ContentType maps a result onto the content type stored on its messages.
func ContentType(res domain.Result) string {
	switch res.(type) {
	case domain.CommandResult:
		return domain.ContentCommand
	case domain.StructuredResult:
		return domain.ContentStructured
	case domain.ChitChatResult:
		return domain.ContentChitChat
	default:
		return domain.ContentText
	}
}

func title(text string) string {
	const maxTitle = 40
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > maxTitle {
		return string(r[:maxTitle]) + "…"
	}
	return text
}
