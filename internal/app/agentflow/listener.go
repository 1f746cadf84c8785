package agentflow

import (
	"context"
	"strings"
	"time"

	"github.com/PabloGalante/ruhaan-agent/internal/app/language"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

const (
	chitChatTemperature = 0.7
	chitChatMaxTokens   = 300
	chitChatTimeout     = 20 * time.Second
)

const chitChatPrompt = `You are Ruhaan, a warm and friendly personal assistant.
Keep replies short and conversational, two or three sentences at most.
If the user wants something done (a reminder, a habit, a task, a search) tell them the command to use.
Always reply in %LANG%.`

// ChitChatAgent: answers small talk and general questions with a short reply.
type ChitChatAgent struct {
	llm        domain.ChatClient
	translator domain.Translator
	model      string
	timeout    time.Duration
}

// NewChitChatAgent builds the agent. translator may be nil; it is used only when the model
// answers a Hindi utterance without Devanagari.
func NewChitChatAgent(llm domain.ChatClient, translator domain.Translator, model string, timeout time.Duration) *ChitChatAgent {
	if timeout <= 0 {
		timeout = chitChatTimeout
	}
	return &ChitChatAgent{llm: llm, translator: translator, model: model, timeout: timeout}
}

func (a *ChitChatAgent) Name() string {
	return "chitchat"
}

func (a *ChitChatAgent) Run(ctx context.Context, in AgentInput) domain.Result {
	return a.Reply(ctx, in.Text, in.History, in.Language)
}

// CouldNotUnderstand is the reply when the model call fails.
func CouldNotUnderstand(lang domain.LanguageCode) string {
	if lang == domain.LangHindi {
		return "माफ़ कीजिए, मैं समझ नहीं पाया। कृपया अंग्रेज़ी या हिंदी में बोलिए।"
	}
	return "Sorry, I could not understand. Please speak in English or Hindi."
}

// Reply never fails: model errors become the could-not-understand message.
func (a *ChitChatAgent) Reply(ctx context.Context, text string, hist *domain.History, lang domain.LanguageCode) domain.ChitChatResult {
	log := observability.LoggerFromContext(ctx).With("agent", a.Name())

	reply, err := a.complete(ctx, text, hist, lang)
	if err != nil || reply == "" {
		log.Warn("chit-chat call failed", "error", err)
		return domain.ChitChatResult{Message: CouldNotUnderstand(lang), LanguageCode: lang}
	}

	if !lang.IsEnglish() && !language.ContainsDevanagari(reply) && a.translator != nil {
		if out, err := a.translator.Translate(ctx, reply, lang); err == nil && strings.TrimSpace(out) != "" {
			reply = out
		} else if err != nil {
			log.Warn("chit-chat translation failed, keeping original", "error", err)
		}
	}

	return domain.ChitChatResult{Message: reply, LanguageCode: lang}
}

func (a *ChitChatAgent) complete(ctx context.Context, text string, hist *domain.History, lang domain.LanguageCode) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	langName := "English"
	if lang == domain.LangHindi {
		langName = "Hindi (Devanagari script)"
	}

	msgs := make([]domain.ChatMessage, 0, hist.Len()+2)
	msgs = append(msgs, domain.ChatMessage{Role: domain.RoleSystem, Content: strings.ReplaceAll(chitChatPrompt, "%LANG%", langName)})
	for _, t := range hist.Turns() {
		msgs = append(msgs, domain.ChatMessage{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, domain.ChatMessage{Role: domain.RoleUser, Content: text})

	out, err := a.llm.Complete(ctx, domain.CompletionRequest{
		Purpose:     domain.PurposeChitChat,
		Messages:    msgs,
		Model:       a.model,
		Temperature: chitChatTemperature,
		MaxTokens:   chitChatMaxTokens,
	})
	return strings.TrimSpace(out), err
}
