package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/ruhaan-agent/internal/adapters/llm"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

func TestMockCannedRepliesAndCalls(t *testing.T) {
	mock := llm.NewMockLLM()
	ctx := context.Background()

	label, err := mock.Complete(ctx, domain.CompletionRequest{Purpose: domain.PurposeClassify})
	require.NoError(t, err)
	assert.Equal(t, "chit-chat", label)

	doc, err := mock.Complete(ctx, domain.CompletionRequest{Purpose: domain.PurposeStructured})
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(doc)))

	assert.Len(t, mock.Calls(), 2)
	assert.Equal(t, 1, mock.CallCount(domain.PurposeClassify))
	assert.Zero(t, mock.CallCount(domain.PurposeCommand))
}

func TestMockHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := llm.NewMockLLM().Complete(ctx, domain.CompletionRequest{Purpose: domain.PurposeChitChat})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTranslatorSkipsEnglish(t *testing.T) {
	mock := llm.NewMockLLM()
	tr := llm.NewTranslator(mock, "", 0)

	out, err := tr.Translate(context.Background(), "take a walk", domain.LangEnglish)
	require.NoError(t, err)
	assert.Equal(t, "take a walk", out)

	out, err = tr.Translate(context.Background(), "  ", domain.LangHindi)
	require.NoError(t, err)
	assert.Equal(t, "  ", out)
	assert.Empty(t, mock.Calls())
}

func TestTranslatorHindi(t *testing.T) {
	var got domain.CompletionRequest
	mock := llm.NewScriptedLLM(func(req domain.CompletionRequest) (string, error) {
		got = req
		return `  "टहलने जाइए"  `, nil
	})

	out, err := llm.NewTranslator(mock, "small-model", 0).Translate(context.Background(), "take a walk", domain.LangHindi)
	require.NoError(t, err)
	assert.Equal(t, "टहलने जाइए", out)

	assert.Equal(t, domain.PurposeTranslate, got.Purpose)
	assert.Equal(t, "small-model", got.Model)
	assert.InDelta(t, 0.2, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 2)
	assert.Contains(t, got.Messages[0].Content, "Hindi (Devanagari script)")
	assert.Equal(t, "take a walk", got.Messages[1].Content)
}

func TestTranslatorError(t *testing.T) {
	boom := errors.New("boom")
	mock := llm.NewScriptedLLM(func(domain.CompletionRequest) (string, error) { return "", boom })

	_, err := llm.NewTranslator(mock, "", 0).Translate(context.Background(), "hello", domain.LangHindi)
	assert.ErrorIs(t, err, boom)
}

func TestInstrumentedPassesThrough(t *testing.T) {
	boom := errors.New("upstream down")
	calls := 0
	inner := llm.NewScriptedLLM(func(req domain.CompletionRequest) (string, error) {
		calls++
		if req.Purpose == domain.PurposeCommand {
			return "", boom
		}
		return "ok", nil
	})
	client := llm.NewInstrumented(inner, "mock")

	out, err := client.Complete(context.Background(), domain.CompletionRequest{Purpose: domain.PurposeChitChat})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	_, err = client.Complete(context.Background(), domain.CompletionRequest{Purpose: domain.PurposeCommand})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", llm.LanguageName(domain.LangEnglish))
	assert.Equal(t, "Hindi (Devanagari script)", llm.LanguageName(domain.LangHindi))
	assert.Equal(t, "English", llm.LanguageName("ta-IN"))
}

func TestOpenAIClient(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  command  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	client, err := llm.NewOpenAIClient(llm.OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/", Model: "llama3-8b-8192"})
	require.NoError(t, err)

	out, err := client.Complete(context.Background(), domain.CompletionRequest{
		Purpose: domain.PurposeClassify,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: "classify"},
			{Role: domain.RoleAssistant, Content: "earlier"},
			{Role: domain.RoleUser, Content: "remind me to call mom"},
		},
		MaxTokens: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "command", out)

	assert.Equal(t, "llama3-8b-8192", body["model"])
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 3)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", msgs[1].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[2].(map[string]any)["role"])
}

func TestOpenAIClientRequiresKeyAndModel(t *testing.T) {
	_, err := llm.NewOpenAIClient(llm.OpenAIConfig{Model: "m"})
	assert.Error(t, err)

	_, err = llm.NewOpenAIClient(llm.OpenAIConfig{APIKey: "k"})
	assert.Error(t, err)
}
