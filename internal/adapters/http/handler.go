package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PabloGalante/ruhaan-agent/internal/adapters/notify"
	"github.com/PabloGalante/ruhaan-agent/internal/app/command"
	"github.com/PabloGalante/ruhaan-agent/internal/app/conversation"
	journalapp "github.com/PabloGalante/ruhaan-agent/internal/app/journal"
	"github.com/PabloGalante/ruhaan-agent/internal/app/language"
	"github.com/PabloGalante/ruhaan-agent/internal/app/tools"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

// anonymousUser owns requests that carry no user_id.
const anonymousUser = "anonymous"

// Deps are the application services behind the HTTP surface. Journal, Commands and
// Notifications may be nil; their routes then answer with empty lists or 404.
type Deps struct {
	Conversation  *conversation.Service
	Journal       *journalapp.Service
	Commands      *command.Dispatcher
	Notifications *notify.Inbox
}

type Server struct {
	svc        *conversation.Service
	journalSvc *journalapp.Service
	commands   *command.Dispatcher
	inbox      *notify.Inbox
}

func NewServer(deps Deps) http.Handler {
	s := &Server{
		svc:        deps.Conversation,
		journalSvc: deps.Journal,
		commands:   deps.Commands,
		inbox:      deps.Notifications,
	}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())

	// /sessions → create session (POST), list a user's sessions (GET)
	mux.HandleFunc("/sessions", s.handleSessions)

	// /sessions/{id}         →  GET: get session + messages
	// /sessions/{id}/messages → POST: send message
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	// single-shot entry points, one per transport
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/speech/transcript", s.handleTranscript)
	mux.HandleFunc("/api/command", s.handleCommand)

	// read-only views of the tools
	mux.HandleFunc("/api/tools", s.handleTools)
	mux.HandleFunc("/api/reminders", s.handleReminders)
	mux.HandleFunc("/api/plans", s.handlePlans)
	mux.HandleFunc("/api/habits", s.handleHabits)
	mux.HandleFunc("/api/tasks", s.handleTasks)
	mux.HandleFunc("/api/notifications", s.handleNotifications)

	return chainMiddlewares(mux, withMetrics, withLogging, withRequestID, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

// envelope is the body of every pipeline response.
type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// resultData serializes one domain.Result. Which fields are set depends on the variant.
type resultData struct {
	Type          string       `json:"type"`
	LanguageCode  string       `json:"language_code"`
	Response      any          `json:"response,omitempty"`
	Message       string       `json:"message,omitempty"`
	ResponseText  string       `json:"response_text"`
	VoiceMessage  string       `json:"voice_message,omitempty"`
	Summary       string       `json:"summary,omitempty"`
	NextSteps     []string     `json:"next_steps,omitempty"`
	Tool          string       `json:"tool,omitempty"`
	Transcription string       `json:"transcription,omitempty"`
	SessionID     string       `json:"session_id,omitempty"`
	Messages      *exchangeDTO `json:"messages,omitempty"`
}

type exchangeDTO struct {
	User  messageResponse `json:"user"`
	Agent messageResponse `json:"agent"`
}

type createSessionRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title,omitempty"`
}

type createSessionResponse struct {
	Session sessionResponse  `json:"session"`
	Welcome *messageResponse `json:"welcome_message,omitempty"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type messageResponse struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	Language    string    `json:"language,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type sendMessageRequest struct {
	UserID       string `json:"user_id"`
	Text         string `json:"text"`
	LanguageCode string `json:"language_code,omitempty"`
}

type sendMessageResponse struct {
	UserMessage  messageResponse `json:"user_message"`
	AgentMessage messageResponse `json:"agent_message"`
	Result       resultData      `json:"result"`
}

type getSessionResponse struct {
	Session  sessionResponse   `json:"session"`
	Messages []messageResponse `json:"messages"`
}

type chatRequest struct {
	Message      string `json:"message"`
	UserID       string `json:"user_id,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

type transcriptRequest struct {
	Transcription string `json:"transcription"`
	LanguageCode  string `json:"language_code,omitempty"` // speech-to-text guess
	UserID        string `json:"user_id,omitempty"`
	SessionID     string `json:"session_id,omitempty"`
}

type commandRequest struct {
	Command      string `json:"command"`
	UserID       string `json:"user_id,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	case http.MethodGet:
		s.handleListSessions(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/{id} or /sessions/{id}/messages
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	parts := strings.Split(path, "/")
	id := parts[0]

	if id == "" {
		notFound(w, "session not found")
		return
	}

	if len(parts) == 1 {
		// /sessions/{id}
		switch r.Method {
		case http.MethodGet:
			s.handleGetSession(w, r, domain.SessionID(id))
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 && parts[1] == "messages" {
		// /sessions/{id}/messages
		switch r.Method {
		case http.MethodPost:
			s.handleSendMessage(w, r, domain.SessionID(id))
		default:
			methodNotAllowed(w)
		}
		return
	}

	http.NotFound(w, r)
}

// ─────────────────────────────────────────────
// Session handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}

	out, err := s.svc.StartSession(r.Context(), conversation.StartSessionInput{
		UserID: domain.UserID(req.UserID),
		Title:  req.Title,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}

	welcome := toMessageResponse(out.Welcome)
	writeJSON(w, http.StatusCreated, createSessionResponse{
		Session: toSessionResponse(out.Session),
		Welcome: &welcome,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		badRequest(w, "user_id is required")
		return
	}

	sessions, err := s.svc.ListSessions(r.Context(), domain.UserID(userID), queryInt(r, "limit", 20))
	if err != nil {
		internalError(w, r, err)
		return
	}

	out := make([]sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, toSessionResponse(sess))
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	session, msgs, err := s.svc.GetSessionTimeline(r.Context(), id, queryInt(r, "limit", 0))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, getSessionResponse{
		Session:  toSessionResponse(session),
		Messages: toMessagesResponse(msgs),
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, sessionID domain.SessionID) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}

	out, err := s.svc.SendMessage(r.Context(), conversation.SendMessageInput{
		SessionID:    sessionID,
		UserID:       domain.UserID(req.UserID),
		Text:         req.Text,
		LanguageHint: req.LanguageCode,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	data, err := toResultData(out.Result)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		UserMessage:  toMessageResponse(out.UserMessage),
		AgentMessage: toMessageResponse(out.AgentMessage),
		Result:       data,
	})
}

// ─────────────────────────────────────────────
// Pipeline handlers
// ─────────────────────────────────────────────

// POST /api/chat
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.svc.Chat(r.Context(), conversation.ChatInput{
		UserID:       userOrAnonymous(req.UserID),
		SessionID:    domain.SessionID(req.SessionID),
		Text:         req.Message,
		LanguageHint: req.LanguageCode,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.writeExchange(w, r, out, "")
}

// POST /api/speech/transcript
func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req transcriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.svc.HandleTranscript(r.Context(), conversation.TranscriptInput{
		UserID:        userOrAnonymous(req.UserID),
		SessionID:     domain.SessionID(req.SessionID),
		Transcription: req.Transcription,
		LanguageHint:  req.LanguageCode,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.writeExchange(w, r, out, out.UserMessage.Text)
}

// POST /api/command runs the dispatcher directly, without classification or a session.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if s.commands == nil {
		notFound(w, "commands are disabled")
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		badRequest(w, "command is required")
		return
	}

	lang, _ := language.Resolve(req.Command, req.LanguageCode)
	res := s.commands.Dispatch(r.Context(), tools.ToolContext{
		UserID:    string(userOrAnonymous(req.UserID)),
		RequestID: observability.RequestIDFromContext(r.Context()),
	}, req.Command, lang)

	data, err := toResultData(res)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: data})
}

func (s *Server) writeExchange(w http.ResponseWriter, r *http.Request, out *conversation.SendMessageOutput, transcription string) {
	data, err := toResultData(out.Result)
	if err != nil {
		internalError(w, r, err)
		return
	}
	data.Transcription = transcription
	data.SessionID = string(out.Session.ID)
	data.Messages = &exchangeDTO{
		User:  toMessageResponse(out.UserMessage),
		Agent: toMessageResponse(out.AgentMessage),
	}
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: data})
}

// ─────────────────────────────────────────────
// Tool views
// ─────────────────────────────────────────────

// GET /api/tools
func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	infos := []tools.Info{}
	if s.commands != nil {
		infos = tools.Describe(s.commands.Tools()...)
	}
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: map[string]any{"tools": infos}})
}

// GET /api/reminders?user_id=...&active=true
func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userQuery(w, r)
	if !ok {
		return
	}

	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))
	reminders, err := s.journalSvc.GetUserReminders(r.Context(), userID, activeOnly)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: map[string]any{"reminders": reminders}})
}

// GET /api/plans?user_id=...&limit=N
func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userQuery(w, r)
	if !ok {
		return
	}

	plans, err := s.journalSvc.GetUserPlans(r.Context(), userID, queryInt(r, "limit", 0))
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: map[string]any{"plans": plans}})
}

// GET /api/habits?user_id=...
func (s *Server) handleHabits(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userQuery(w, r)
	if !ok {
		return
	}

	habits, err := s.journalSvc.GetUserHabits(r.Context(), userID)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: map[string]any{"habits": habits}})
}

// GET /api/tasks?user_id=...
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userQuery(w, r)
	if !ok {
		return
	}

	tasks, err := s.journalSvc.GetUserTasks(r.Context(), userID)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: map[string]any{"tasks": tasks}})
}

// GET /api/notifications
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	items := []notify.Notification{}
	if s.inbox != nil {
		items = s.inbox.Recent()
	}
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: map[string]any{"notifications": items}})
}

func (s *Server) userQuery(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return "", false
	}
	if s.journalSvc == nil {
		notFound(w, "records are disabled")
		return "", false
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		badRequest(w, "user_id is required")
		return "", false
	}
	return domain.UserID(userID), true
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

// toResultData switches over every Result variant.
func toResultData(res domain.Result) (resultData, error) {
	switch v := res.(type) {
	case domain.CommandResult:
		return resultData{
			Type:         string(domain.IntentCommand),
			LanguageCode: string(v.LanguageCode),
			Response:     v.Reply,
			ResponseText: v.Reply,
			Tool:         v.Tool,
		}, nil
	case domain.StructuredResult:
		return resultData{
			Type:         string(domain.IntentStructured),
			LanguageCode: string(v.LanguageCode),
			Response:     v.Response.MarshalMap(),
			ResponseText: v.VoiceMessage,
			VoiceMessage: v.VoiceMessage,
			Summary:      v.Summary,
			NextSteps:    v.NextSteps,
		}, nil
	case domain.ChitChatResult:
		return resultData{
			Type:         string(domain.IntentChitChat),
			LanguageCode: string(v.LanguageCode),
			Message:      v.Message,
			ResponseText: v.Message,
		}, nil
	default:
		return resultData{}, fmt.Errorf("unknown result type %T", res)
	}
}

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		ID:        string(s.ID),
		UserID:    string(s.UserID),
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:          string(m.ID),
		SessionID:   string(m.SessionID),
		Author:      string(m.Author),
		Text:        m.Text,
		Language:    string(m.Language),
		ContentType: m.ContentType,
		CreatedAt:   m.CreatedAt,
	}
}

func toMessagesResponse(msgs []*domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}

func userOrAnonymous(id string) domain.UserID {
	if strings.TrimSpace(id) == "" {
		return anonymousUser
	}
	return domain.UserID(id)
}

func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Status: "error", Error: msg})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, msg)
}

func notFound(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusNotFound, msg)
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeServiceError maps conversation errors onto status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, conversation.ErrEmptyText):
		badRequest(w, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		notFound(w, err.Error())
	default:
		internalError(w, r, err)
	}
}
