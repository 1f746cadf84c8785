package agentflow

import (
	"context"

	"github.com/PabloGalante/ruhaan-agent/internal/app/structured"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

// ReflectorAgent: answers deep questions with the four-perspective structured response.
type ReflectorAgent struct {
	builder *structured.Builder
}

func NewReflectorAgent(builder *structured.Builder) *ReflectorAgent {
	return &ReflectorAgent{builder: builder}
}

func (a *ReflectorAgent) Name() string {
	return "reflector"
}

func (a *ReflectorAgent) Run(ctx context.Context, in AgentInput) domain.Result {
	log := observability.LoggerFromContext(ctx).With("agent", a.Name())
	log.Info("reflector agent running")

	res := a.builder.Build(ctx, in.Text, in.History, in.Language)
	if _, ok := res.(domain.StructuredResult); !ok {
		log.Warn("structured answer degraded to plain reply")
	}
	return res
}
