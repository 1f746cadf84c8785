// Package agentflow runs one utterance through language resolution, intent classification
// and the agent that owns the chosen intent.
package agentflow

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/ruhaan-agent/internal/app/intent"
	"github.com/PabloGalante/ruhaan-agent/internal/app/language"
	"github.com/PabloGalante/ruhaan-agent/internal/app/tools"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

// Input is one utterance to answer.
type Input struct {
	Text         string
	LanguageHint string // speech-to-text language guess, may be empty
	History      *domain.History
	Tool         tools.ToolContext
}

// AgentInput is what an agent receives once language and intent are decided.
type AgentInput struct {
	Text     string
	Language domain.LanguageCode
	History  *domain.History
	Tool     tools.ToolContext
}

// Agent answers one kind of utterance. Agents never fail; errors degrade into a reply.
type Agent interface {
	Name() string
	Run(ctx context.Context, in AgentInput) domain.Result
}

// Orchestrator is responsible for routing an utterance to the right agent.
type Orchestrator struct {
	classifier *intent.Classifier
	chitchat   Agent
	reflector  Agent
	commander  Agent
}

// NewOrchestrator wires the classifier with one agent per intent.
func NewOrchestrator(classifier *intent.Classifier, chitchat, reflector, commander Agent) *Orchestrator {
	return &Orchestrator{
		classifier: classifier,
		chitchat:   chitchat,
		reflector:  reflector,
		commander:  commander,
	}
}

// Run resolves the reply language, classifies the utterance and runs the owning agent.
func (o *Orchestrator) Run(ctx context.Context, in Input) domain.Result {
	log := observability.LoggerFromContext(ctx).With(
		"session_id", in.Tool.SessionID,
		"user_id", in.Tool.UserID,
	)

	lang, explicit := language.Resolve(in.Text, in.LanguageHint)
	log.Debug("language resolved", "language", lang, "explicit", explicit, "hint", in.LanguageHint)

	d := o.classifier.Classify(ctx, in.Text, lang, in.History)
	if d.Stage == intent.StageFastPath {
		return domain.ChitChatResult{Message: d.Reply, LanguageCode: lang}
	}

	ag, err := o.agentFor(d.Intent)
	if err != nil {
		log.Error("no agent for intent", "error", err)
		ag = o.chitchat
	}

	start := time.Now()
	log.Info("agent run start", "agent", ag.Name(), "intent", d.Intent, "stage", d.Stage)

	res := ag.Run(ctx, AgentInput{
		Text:     in.Text,
		Language: lang,
		History:  in.History,
		Tool:     in.Tool,
	})

	log.Info("agent run end", "agent", ag.Name(), "result", res.Intent(), "elapsed_ms", time.Since(start).Milliseconds())
	return res
}

func (o *Orchestrator) agentFor(i domain.Intent) (Agent, error) {
	switch i {
	case domain.IntentCommand:
		return o.commander, nil
	case domain.IntentStructured:
		return o.reflector, nil
	case domain.IntentChitChat:
		return o.chitchat, nil
	default:
		return nil, fmt.Errorf("unknown intent %q", i)
	}
}
