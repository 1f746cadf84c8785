package llm

import (
	"context"
	"errors"
	"time"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

// Instrumented wraps a ChatClient with logging and metrics.
type Instrumented struct {
	next     domain.ChatClient
	provider string
}

func NewInstrumented(next domain.ChatClient, provider string) *Instrumented {
	return &Instrumented{next: next, provider: provider}
}

func (i *Instrumented) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	log := observability.LoggerFromContext(ctx).With(
		"provider", i.provider,
		"purpose", req.Purpose,
		"model", req.Model,
	)

	start := time.Now()
	out, err := i.next.Complete(ctx, req)
	elapsed := time.Since(start)

	observability.LLMLatency.WithLabelValues(string(req.Purpose)).Observe(elapsed.Seconds())
	outcome := "ok"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	}
	observability.LLMCalls.WithLabelValues(string(req.Purpose), outcome).Inc()

	if err != nil {
		log.Warn("llm call failed", "elapsed_ms", elapsed.Milliseconds(), "error", err)
		return "", err
	}
	log.Debug("llm call done", "elapsed_ms", elapsed.Milliseconds(), "chars", len(out))
	return out, nil
}
