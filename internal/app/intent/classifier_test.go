package intent_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/ruhaan-agent/internal/adapters/llm"
	"github.com/PabloGalante/ruhaan-agent/internal/app/intent"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

func labelLLM(label string) *llm.MockLLM {
	return llm.NewScriptedLLM(func(domain.CompletionRequest) (string, error) {
		return label, nil
	})
}

func TestClassifyReminderIsCommand(t *testing.T) {
	for _, label := range []string{"chit-chat", "structured", "command"} {
		c := intent.NewClassifier(labelLLM(label), "", time.Second)
		d := c.Classify(context.Background(), "remind me to call mom at 5pm", domain.LangEnglish, nil)
		assert.Equal(t, domain.IntentCommand, d.Intent, "model label %q", label)
	}
}

func TestClassifyLongStruggleIsStructured(t *testing.T) {
	for _, label := range []string{"chit-chat", "command", "structured"} {
		c := intent.NewClassifier(labelLLM(label), "", time.Second)
		d := c.Classify(context.Background(), "Why am I scared of leaving my job for a startup?", domain.LangEnglish, nil)
		assert.Equal(t, domain.IntentStructured, d.Intent, "model label %q", label)
	}
}

func TestClassifyGreetingUsesFastPath(t *testing.T) {
	mock := llm.NewMockLLM()
	c := intent.NewClassifier(mock, "", time.Second)

	d := c.Classify(context.Background(), "hi", domain.LangEnglish, nil)

	assert.Equal(t, domain.IntentChitChat, d.Intent)
	assert.Equal(t, intent.StageFastPath, d.Stage)
	assert.NotEmpty(t, d.Reply)
	assert.Empty(t, mock.Calls())
}

func TestClassifyModelFailureDefaultsToChitChat(t *testing.T) {
	failing := llm.NewScriptedLLM(func(domain.CompletionRequest) (string, error) {
		return "", errors.New("boom")
	})
	c := intent.NewClassifier(failing, "", time.Second)

	d := c.Classify(context.Background(), "what is the capital of France", domain.LangEnglish, nil)
	assert.Equal(t, domain.IntentChitChat, d.Intent)
	assert.Equal(t, intent.StageModelFailed, d.Stage)
}

func TestClassifySendsHistoryAndLowTemperature(t *testing.T) {
	mock := labelLLM("  Structured\n")
	c := intent.NewClassifier(mock, "classifier-model", time.Second)

	h := domain.NewHistory(5)
	h.Append(domain.RoleUser, "earlier question")
	h.Append(domain.RoleAssistant, "earlier answer")

	d := c.Classify(context.Background(), "what do you think about moving cities", domain.LangEnglish, h)
	assert.Equal(t, domain.IntentStructured, d.Intent)
	assert.Equal(t, intent.StageModel, d.Stage)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	req := calls[0]
	assert.Equal(t, domain.PurposeClassify, req.Purpose)
	assert.Equal(t, "classifier-model", req.Model)
	assert.InDelta(t, 0.1, req.Temperature, 0.001)
	assert.Equal(t, 10, req.MaxTokens)
	require.Len(t, req.Messages, 4)
	assert.Equal(t, domain.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, "earlier question", req.Messages[1].Content)
	assert.Equal(t, "what do you think about moving cities", req.Messages[3].Content)
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		raw    string
		want   domain.Intent
		wantOK bool
	}{
		{"command", domain.IntentCommand, true},
		{"Command.", domain.IntentCommand, true},
		{"STRUCTURED", domain.IntentStructured, true},
		{"chit-chat", domain.IntentChitChat, true},
		{"banana", domain.IntentChitChat, true},
		{"   ", domain.IntentChitChat, false},
	}
	for _, tt := range tests {
		got, ok := intent.ParseLabel(tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.Equal(t, tt.wantOK, ok, tt.raw)
	}
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label domain.Intent
		want  domain.Intent
	}{
		{
			name:  "command keyword upgrades chit-chat",
			text:  "my goal is guitar",
			label: domain.IntentChitChat,
			want:  domain.IntentCommand,
		},
		{
			name:  "keyword alone does not beat structured",
			text:  "what is the point of any goal",
			label: domain.IntentStructured,
			want:  domain.IntentStructured,
		},
		{
			name:  "explicit command beats structured",
			text:  "I am so stressed about my job that I forget things, remind me to call the doctor",
			label: domain.IntentStructured,
			want:  domain.IntentCommand,
		},
		{
			name:  "short advice stays with the model",
			text:  "am I scared",
			label: domain.IntentChitChat,
			want:  domain.IntentChitChat,
		},
		{
			name:  "long advice keyword forces structured over command",
			text:  "I feel really lost and confused about what to do with my life now",
			label: domain.IntentCommand,
			want:  domain.IntentStructured,
		},
		{
			name:  "hindi reminder",
			text:  "मुझे कल सुबह याद दिलाना",
			label: domain.IntentChitChat,
			want:  domain.IntentCommand,
		},
		{
			name:  "browser search",
			text:  "search google for best biryani",
			label: domain.IntentChitChat,
			want:  domain.IntentCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, intent.ApplyOverrides(tt.text, tt.label).Intent)
		})
	}
}

func TestFastPath(t *testing.T) {
	tests := []struct {
		text     string
		lang     domain.LanguageCode
		category intent.FastPathCategory
		ok       bool
	}{
		{"Hello!", domain.LangEnglish, intent.CategoryGreeting, true},
		{"  what's your name?", domain.LangEnglish, intent.CategoryName, true},
		{"hey, how are you", domain.LangEnglish, intent.CategoryWellbeing, true},
		{"thank you so much", domain.LangEnglish, intent.CategoryThanks, true},
		{"नमस्ते", domain.LangHindi, intent.CategoryGreeting, true},
		{"tumhara naam kya hai", domain.LangEnglish, intent.CategoryName, true},
		{"hi can you remind me to call mom", domain.LangEnglish, "", false},
		{"how are you going to help me plan my week", domain.LangEnglish, "", false},
		{"", domain.LangEnglish, "", false},
	}

	for _, tt := range tests {
		m, ok := intent.FastPath(tt.text, tt.lang)
		assert.Equal(t, tt.ok, ok, tt.text)
		if ok {
			assert.Equal(t, tt.category, m.Category, tt.text)
			assert.NotEmpty(t, m.Reply)
		}
	}
}

func TestFastPathRepliesInHindi(t *testing.T) {
	en, ok := intent.FastPath("hello", domain.LangEnglish)
	require.True(t, ok)
	hi, ok := intent.FastPath("hello", domain.LangHindi)
	require.True(t, ok)
	assert.NotEqual(t, en.Reply, hi.Reply)
}
