package agentflow

import (
	"context"

	"github.com/PabloGalante/ruhaan-agent/internal/app/command"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

// CommandAgent: hands command utterances to the dispatcher.
type CommandAgent struct {
	dispatcher *command.Dispatcher
}

func NewCommandAgent(dispatcher *command.Dispatcher) *CommandAgent {
	return &CommandAgent{dispatcher: dispatcher}
}

func (a *CommandAgent) Name() string {
	return "command"
}

func (a *CommandAgent) Run(ctx context.Context, in AgentInput) domain.Result {
	return a.dispatcher.Dispatch(ctx, in.Tool, in.Text, in.Language)
}
