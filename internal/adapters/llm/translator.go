package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

const (
	translateTemperature = 0.2
	translateMaxTokens   = 1000
)

// Translator implements domain.Translator on top of a chat model.
type Translator struct {
	llm     domain.ChatClient
	model   string
	timeout time.Duration
}

func NewTranslator(llm domain.ChatClient, model string, timeout time.Duration) *Translator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Translator{llm: llm, model: model, timeout: timeout}
}

// Translate returns text unchanged for English targets and for empty input.
func (t *Translator) Translate(ctx context.Context, text string, target domain.LanguageCode) (string, error) {
	if strings.TrimSpace(text) == "" || target.IsEnglish() {
		return text, nil
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	out, err := t.llm.Complete(ctx, domain.CompletionRequest{
		Purpose:     domain.PurposeTranslate,
		Messages:    BuildTranslationPrompt(text, target),
		Model:       t.model,
		Temperature: translateTemperature,
		MaxTokens:   translateMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", target, err)
	}
	return strings.Trim(strings.TrimSpace(out), `"`), nil
}
