// Package command maps command utterances to deterministic tools, with a model fallback.
package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/ruhaan-agent/internal/app/tools"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

const (
	fallbackTemperature = 0.7
	fallbackMaxTokens   = 500
	defaultTimeout      = 15 * time.Second

	// FallbackTool is the metric label for commands no tool matched.
	FallbackTool = "fallback"
)

const fallbackSystemPrompt = "You are Ruhaan, a helpful AI assistant. Provide concise, helpful responses. If the user asks about specific tools or features, guide them to use the appropriate commands like 'remind me to...', 'note: ...', 'break down: ...', 'log habit: ...', or 'open chrome'."

// Dispatcher routes a command to the first matching tool.
type Dispatcher struct {
	routes  []Route
	llm     domain.ChatClient
	model   string
	timeout time.Duration
}

// NewDispatcher builds a dispatcher over routes. llm may be nil, in which case unmatched
// commands get the static help message.
func NewDispatcher(llm domain.ChatClient, model string, timeout time.Duration, routes []Route) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{routes: routes, llm: llm, model: model, timeout: timeout}
}

// Tools lists the routed tools in priority order.
func (d *Dispatcher) Tools() []tools.Tool {
	out := make([]tools.Tool, 0, len(d.routes))
	for _, r := range d.routes {
		out = append(out, r.Tool)
	}
	return out
}

// Match returns the tool that would handle text, if any.
func (d *Dispatcher) Match(text string) (tools.Tool, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, r := range d.routes {
		if r.Match(lower) {
			return r.Tool, true
		}
	}
	return nil, false
}

// Dispatch runs text through the matched tool or the model fallback. It never fails;
// tool and model errors become a reply the user can act on.
func (d *Dispatcher) Dispatch(ctx context.Context, tctx tools.ToolContext, text string, lang domain.LanguageCode) domain.CommandResult {
	log := observability.LoggerFromContext(ctx)

	tool, ok := d.Match(text)
	if !ok {
		observability.CommandDispatches.WithLabelValues(FallbackTool).Inc()
		return domain.CommandResult{LanguageCode: lang, Reply: d.fallback(ctx, text)}
	}

	name := tool.Name()
	observability.CommandDispatches.WithLabelValues(name).Inc()
	log.Info("dispatching command", "tool", name)

	reply, err := tool.Call(ctx, tctx, text)
	if err != nil {
		log.Error("tool call failed", "tool", name, "error", err)
		reply = fmt.Sprintf("Sorry, I couldn't complete that %s command right now. Please try again.", name)
	}
	return domain.CommandResult{LanguageCode: lang, Tool: name, Reply: reply}
}

func (d *Dispatcher) fallback(ctx context.Context, text string) string {
	if d.llm != nil {
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		out, err := d.llm.Complete(ctx, domain.CompletionRequest{
			Purpose: domain.PurposeCommand,
			Model:   d.model,
			Messages: []domain.ChatMessage{
				{Role: domain.RoleSystem, Content: fallbackSystemPrompt},
				{Role: domain.RoleUser, Content: text},
			},
			Temperature: fallbackTemperature,
			MaxTokens:   fallbackMaxTokens,
		})
		if err == nil && strings.TrimSpace(out) != "" {
			return strings.TrimSpace(out)
		}
		observability.LoggerFromContext(ctx).Warn("command fallback failed", "error", err)
	}
	return UnknownCommandMessage(text)
}

// UnknownCommandMessage is the reply when neither a tool nor the model could handle text.
func UnknownCommandMessage(text string) string {
	return fmt.Sprintf("I couldn't understand the command: %s. Try commands like 'remind me to...', 'note: ...', 'break down: ...', 'log habit: ...', or 'open chrome'.", text)
}
