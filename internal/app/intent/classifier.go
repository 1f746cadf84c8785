// Package intent decides whether an utterance is a command, a structured question or small talk.
package intent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

// Stage names the step that produced the final label.
type Stage string

const (
	StageFastPath           Stage = "fast_path"
	StageModel              Stage = "model"
	StageModelFailed        Stage = "model_failed"
	StageStructuredOverride Stage = "structured_override"
	StageCommandOverride    Stage = "command_override"
)

const (
	classifyTemperature = 0.1
	classifyMaxTokens   = 10
	defaultTimeout      = 10 * time.Second
)

const classificationPrompt = `You are an intent classifier for a personal assistant. Classify the user's message into exactly one category and answer with that single word only.

Categories:
- command: the user wants an action done. Reminders, notes, habits, goals, tasks, timers, opening the browser, searching Google or YouTube.
- structured: the user asks for life advice, help with a decision, or talks about an emotional struggle and wants a thoughtful answer.
- chit-chat: everything else. Greetings, small talk, facts, jokes, casual questions.

Examples:
"remind me to drink water in 10 minutes" -> command
"open youtube and search for lofi music" -> command
"log habit: meditation" -> command
"break down: learn guitar" -> command
"should I quit my job to start a business?" -> structured
"I feel stuck and unmotivated in my career, what should I do?" -> structured
"how do I deal with fear of failure?" -> structured
"what is the capital of France" -> chit-chat
"tell me a joke" -> chit-chat
"I had pizza today" -> chit-chat

Answer with one word: command, structured or chit-chat.`

// Decision is the classifier's verdict for one utterance.
type Decision struct {
	Intent domain.Intent
	Stage  Stage
	// Reply is set only on the fast path.
	Reply string
}

// Classifier combines the small-talk fast path, one model call and deterministic overrides.
type Classifier struct {
	llm     domain.ChatClient
	model   string
	timeout time.Duration
}

// NewClassifier builds a classifier. A zero timeout falls back to ten seconds.
func NewClassifier(llm domain.ChatClient, model string, timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Classifier{llm: llm, model: model, timeout: timeout}
}

// Classify never fails: model errors degrade to chit-chat before the overrides run.
func (c *Classifier) Classify(ctx context.Context, text string, lang domain.LanguageCode, hist *domain.History) Decision {
	log := observability.LoggerFromContext(ctx)

	if m, ok := FastPath(text, lang); ok {
		log.Debug("fast path hit", "category", m.Category)
		return c.record(Decision{Intent: domain.IntentChitChat, Stage: StageFastPath, Reply: m.Reply})
	}

	label, stage := c.askModel(ctx, text, hist)
	d := ApplyOverrides(text, label)
	if d.Stage == "" {
		d.Stage = stage
	}

	log.Info("utterance classified", "intent", d.Intent, "stage", d.Stage, "model_label", label)
	return c.record(d)
}

func (c *Classifier) askModel(ctx context.Context, text string, hist *domain.History) (domain.Intent, Stage) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msgs := make([]domain.ChatMessage, 0, hist.Len()+2)
	msgs = append(msgs, domain.ChatMessage{Role: domain.RoleSystem, Content: classificationPrompt})
	for _, t := range hist.Turns() {
		msgs = append(msgs, domain.ChatMessage{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, domain.ChatMessage{Role: domain.RoleUser, Content: text})

	out, err := c.llm.Complete(ctx, domain.CompletionRequest{
		Purpose:     domain.PurposeClassify,
		Messages:    msgs,
		Model:       c.model,
		Temperature: classifyTemperature,
		MaxTokens:   classifyMaxTokens,
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("classification call failed, defaulting to chit-chat", "error", err)
		return domain.IntentChitChat, StageModelFailed
	}

	label, ok := ParseLabel(out)
	if !ok {
		return domain.IntentChitChat, StageModelFailed
	}
	return label, StageModel
}

// ParseLabel maps raw model output onto an intent. Empty output is not a label.
func ParseLabel(raw string) (domain.Intent, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return domain.IntentChitChat, false
	case strings.Contains(s, "command"):
		return domain.IntentCommand, true
	case strings.Contains(s, "structured"):
		return domain.IntentStructured, true
	default:
		return domain.IntentChitChat, true
	}
}

// ApplyOverrides runs the deterministic pass over a model label. The returned Stage is
// empty when no override fired.
//
// A long utterance with an advice keyword becomes structured. An explicit command phrasing
// then always becomes a command; a bare command keyword only does so when the label is
// not structured.
func ApplyOverrides(text string, label domain.Intent) Decision {
	d := Decision{Intent: label}

	if wordCount(text) >= structuredMinWords && structuredKeywords.matches(text) && d.Intent != domain.IntentStructured {
		d = Decision{Intent: domain.IntentStructured, Stage: StageStructuredOverride}
	}

	if d.Intent != domain.IntentCommand {
		switch {
		case isExplicitCommand(text):
			d = Decision{Intent: domain.IntentCommand, Stage: StageCommandOverride}
		case d.Intent != domain.IntentStructured && commandKeywords.matches(text):
			d = Decision{Intent: domain.IntentCommand, Stage: StageCommandOverride}
		}
	}
	return d
}

func (c *Classifier) record(d Decision) Decision {
	observability.IntentDecisions.WithLabelValues(string(d.Intent), string(d.Stage)).Inc()
	return d
}

func (d Decision) String() string {
	return fmt.Sprintf("%s (%s)", d.Intent, d.Stage)
}
