// Package structured builds the four-perspective answer for advice and decision questions.
package structured

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PabloGalante/ruhaan-agent/internal/app/language"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

const (
	structuredTemperature = 0.7
	structuredMaxTokens   = 1500
	defaultTimeout        = 60 * time.Second
	fallbackMinLen        = 10
)

var apologies = map[domain.LanguageCode]string{
	domain.LangEnglish: "I'm sorry, I couldn't put together a proper answer this time. Could you ask me again in a slightly different way?",
	domain.LangHindi:   "माफ़ कीजिए, इस बार मैं ठीक से जवाब तैयार नहीं कर पाया। क्या आप अपना सवाल थोड़ा अलग तरीके से पूछ सकते हैं?",
}

// Apology returns the structured-failure message for lang.
func Apology(lang domain.LanguageCode) string {
	if s, ok := apologies[lang]; ok {
		return s
	}
	return apologies[domain.LangEnglish]
}

const systemPromptTemplate = `You are Ruhaan, a wise and direct life coach. Answer the user's question from four perspectives.

Respond with VALID JSON ONLY. No markdown, no code fences, no text before or after the JSON.
Use exactly this structure with exactly these four keys:
{
  "psychological": {"analysis": "one brief sentence", "key_points": ["point", "point", "point"]},
  "philosophical": {"perspective": "one brief sentence", "key_points": ["point", "point", "point"]},
  "autobiographical": {"story": "one brief sentence", "key_points": ["point", "point", "point"]},
  "logical": {"framework": "one brief sentence", "key_points": ["point", "point", "point"]}
}

Rules:
- Each section has a brief lead sentence and 2 to 3 key points.
- Each key point is 2 to 3 sentences and starts with a concrete action when possible.
- Write every value in %LANG%.`

// Builder issues the structured request and turns the reply into a Result.
type Builder struct {
	llm        domain.ChatClient
	translator domain.Translator
	phrases    PhraseBank
	model      string
	timeout    time.Duration
}

// NewBuilder wires a builder. A nil translator disables translation, a nil bank uses the built-in phrases.
func NewBuilder(llm domain.ChatClient, translator domain.Translator, phrases PhraseBank, model string, timeout time.Duration) *Builder {
	if phrases == nil {
		phrases = NewRandomBank()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Builder{
		llm:        llm,
		translator: translator,
		phrases:    phrases,
		model:      model,
		timeout:    timeout,
	}
}

// Build returns a StructuredResult, or a ChitChatResult when the model output cannot be
// turned into a complete four-section answer.
func (b *Builder) Build(ctx context.Context, text string, hist *domain.History, lang domain.LanguageCode) domain.Result {
	log := observability.LoggerFromContext(ctx).With("component", "structured")

	raw, err := b.generate(ctx, text, hist, lang)
	if err != nil {
		log.Warn("structured generation failed", "error", err)
		return b.fallback("model_error", Apology(lang), lang)
	}

	parsed, ok := Parse(raw)
	if !ok {
		log.Warn("structured output could not be parsed", "raw_len", len(raw))
		return b.fallback("parse_failed", Apology(lang), lang)
	}

	answer, err := Validate(parsed.Doc)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			log.Warn("structured output incomplete", "bad_sections", verr.Sections, "repair_step", parsed.Step)
		}
		if msg, ok := firstLongString(parsed.Text, fallbackMinLen); ok {
			return b.fallback("invalid_salvaged", msg, lang)
		}
		return b.fallback("invalid", Apology(lang), lang)
	}
	observability.StructuredOutcomes.WithLabelValues(parsed.Step).Inc()

	answer = postProcess(answer)
	voice := BuildVoiceMessage(answer.AllKeyPoints(), b.phrases)

	if !lang.IsEnglish() {
		answer = b.translateAnswer(ctx, answer, lang)
		voice = b.translate(ctx, voice, lang)
	}

	return domain.StructuredResult{
		Response:     answer,
		Summary:      Summary(answer),
		NextSteps:    NextSteps(answer),
		VoiceMessage: voice,
		LanguageCode: lang,
	}
}

func (b *Builder) generate(ctx context.Context, text string, hist *domain.History, lang domain.LanguageCode) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	system := strings.ReplaceAll(systemPromptTemplate, "%LANG%", languageName(lang))
	msgs := make([]domain.ChatMessage, 0, hist.Len()+2)
	msgs = append(msgs, domain.ChatMessage{Role: domain.RoleSystem, Content: system})
	for _, t := range hist.Turns() {
		msgs = append(msgs, domain.ChatMessage{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, domain.ChatMessage{Role: domain.RoleUser, Content: text})

	return b.llm.Complete(ctx, domain.CompletionRequest{
		Purpose:     domain.PurposeStructured,
		Messages:    msgs,
		Model:       b.model,
		Temperature: structuredTemperature,
		MaxTokens:   structuredMaxTokens,
	})
}

func (b *Builder) fallback(outcome, msg string, lang domain.LanguageCode) domain.Result {
	observability.StructuredOutcomes.WithLabelValues(outcome).Inc()
	return domain.ChitChatResult{Message: msg, LanguageCode: lang}
}

// Summary joins the four lead texts.
func Summary(a domain.StructuredAnswer) string {
	leads := make([]string, 0, len(domain.Sections))
	for _, name := range domain.Sections {
		if l := strings.TrimSpace(a.Section(name).Lead); l != "" {
			leads = append(leads, l)
		}
	}
	return strings.Join(leads, " ")
}

// NextSteps returns the logical section's key points, or all key points when it has none.
func NextSteps(a domain.StructuredAnswer) []string {
	if len(a.Logical.KeyPoints) > 0 {
		return append([]string(nil), a.Logical.KeyPoints...)
	}
	return a.AllKeyPoints()
}

func (b *Builder) translateAnswer(ctx context.Context, a domain.StructuredAnswer, lang domain.LanguageCode) domain.StructuredAnswer {
	for _, name := range domain.Sections {
		sec := a.Section(name)
		sec.Lead = b.translate(ctx, sec.Lead, lang)
		points := make([]string, len(sec.KeyPoints))
		for i, p := range sec.KeyPoints {
			points[i] = b.translate(ctx, p, lang)
		}
		sec.KeyPoints = points
	}
	return a
}

// translate keeps the original text when it is already in Devanagari or the call fails.
func (b *Builder) translate(ctx context.Context, text string, lang domain.LanguageCode) string {
	if b.translator == nil || text == "" || language.ContainsDevanagari(text) {
		return text
	}
	out, err := b.translator.Translate(ctx, text, lang)
	if err != nil || strings.TrimSpace(out) == "" {
		if err != nil {
			observability.LoggerFromContext(ctx).Warn("translation failed, keeping original", "error", err)
		}
		return text
	}
	return out
}

func languageName(lang domain.LanguageCode) string {
	if lang == domain.LangHindi {
		return "Hindi (Devanagari script)"
	}
	return "English"
}
