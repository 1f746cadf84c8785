package agentflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/ruhaan-agent/internal/adapters/llm"
	"github.com/PabloGalante/ruhaan-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/ruhaan-agent/internal/app/agentflow"
	"github.com/PabloGalante/ruhaan-agent/internal/app/command"
	"github.com/PabloGalante/ruhaan-agent/internal/app/intent"
	"github.com/PabloGalante/ruhaan-agent/internal/app/structured"
	"github.com/PabloGalante/ruhaan-agent/internal/app/tools"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

func newOrchestrator(client domain.ChatClient) *agentflow.Orchestrator {
	records := memory.NewRecordStore()
	translator := llm.NewTranslator(client, "", 0)

	dispatcher := command.NewDispatcher(client, "", 0, command.DefaultRoutes(command.Toolset{
		Reminder: tools.NewReminderTool(records, nil, nil),
		Goal:     tools.NewGoalBreakdownTool(agentflow.NewPlannerAgent(client, "", 0), records),
		Habit:    tools.NewHabitTool(records),
		Task:     tools.NewTaskTool(records, nil, nil),
	}))
	builder := structured.NewBuilder(client, translator, structured.FixedBank{OpenerText: "Listen up.", CloserText: "Go."}, "", 0)

	return agentflow.NewOrchestrator(
		intent.NewClassifier(client, "", 0),
		agentflow.NewChitChatAgent(client, translator, "", 0),
		agentflow.NewReflectorAgent(builder),
		agentflow.NewCommandAgent(dispatcher),
	)
}

func TestRunGreetingSkipsModel(t *testing.T) {
	mock := llm.NewMockLLM()

	res := newOrchestrator(mock).Run(context.Background(), agentflow.Input{Text: "hi"})

	chat, ok := res.(domain.ChitChatResult)
	require.True(t, ok, "got %T", res)
	assert.NotEmpty(t, chat.Message)
	assert.Equal(t, domain.LangEnglish, chat.LanguageCode)
	assert.Empty(t, mock.Calls())
}

func TestRunReminderGoesToTool(t *testing.T) {
	mock := llm.NewMockLLM()

	res := newOrchestrator(mock).Run(context.Background(), agentflow.Input{
		Text: "remind me to call mom at 5pm",
		Tool: tools.ToolContext{UserID: "u1"},
	})

	cmd, ok := res.(domain.CommandResult)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, "reminder", cmd.Tool)
	assert.Contains(t, cmd.Reply, "call mom")
	assert.Equal(t, 1, mock.CallCount(domain.PurposeClassify))
}

func TestRunDeepQuestionBuildsStructuredAnswer(t *testing.T) {
	mock := llm.NewMockLLM()

	res := newOrchestrator(mock).Run(context.Background(), agentflow.Input{
		Text: "Why am I scared of leaving my job for a startup?",
	})

	sr, ok := res.(domain.StructuredResult)
	require.True(t, ok, "got %T", res)
	assert.Equal(t, domain.IntentStructured, sr.Intent())
	assert.NotEmpty(t, sr.VoiceMessage)
	assert.NotEmpty(t, sr.Summary)
	assert.Equal(t, 1, mock.CallCount(domain.PurposeStructured))
}

func TestRunSmallTalkUsesChitChatAgent(t *testing.T) {
	mock := llm.NewMockLLM()

	res := newOrchestrator(mock).Run(context.Background(), agentflow.Input{Text: "I had pizza for dinner"})

	chat, ok := res.(domain.ChitChatResult)
	require.True(t, ok, "got %T", res)
	assert.Contains(t, chat.Message, "I had pizza for dinner")
	assert.Equal(t, 1, mock.CallCount(domain.PurposeChitChat))
}

func TestRunExplicitLanguageRequest(t *testing.T) {
	mock := llm.NewMockLLM()

	res := newOrchestrator(mock).Run(context.Background(), agentflow.Input{
		Text:         "tell me about the monsoon in hindi",
		LanguageHint: "en-IN",
	})

	assert.Equal(t, domain.LangHindi, res.Language())
}

func TestRunBlockedHintFallsBackToEnglish(t *testing.T) {
	mock := llm.NewMockLLM()

	res := newOrchestrator(mock).Run(context.Background(), agentflow.Input{
		Text:         "what is the weather like",
		LanguageHint: "ta-IN",
	})

	assert.Equal(t, domain.LangEnglish, res.Language())
}

func TestChitChatFailureReply(t *testing.T) {
	failing := llm.NewScriptedLLM(func(domain.CompletionRequest) (string, error) {
		return "", errors.New("unavailable")
	})
	agent := agentflow.NewChitChatAgent(failing, nil, "", 0)

	en := agent.Reply(context.Background(), "what's up", nil, domain.LangEnglish)
	assert.Equal(t, "Sorry, I could not understand. Please speak in English or Hindi.", en.Message)

	hi := agent.Reply(context.Background(), "क्या हाल है", nil, domain.LangHindi)
	assert.Equal(t, agentflow.CouldNotUnderstand(domain.LangHindi), hi.Message)
	assert.Equal(t, domain.LangHindi, hi.LanguageCode)
}

func TestChitChatRequestShape(t *testing.T) {
	mock := llm.NewScriptedLLM(func(domain.CompletionRequest) (string, error) { return " hello there ", nil })
	agent := agentflow.NewChitChatAgent(mock, nil, "chat-model", 0)

	h := domain.NewHistory(5)
	h.Append(domain.RoleUser, "hey")

	res := agent.Reply(context.Background(), "how are things", h, domain.LangEnglish)
	assert.Equal(t, "hello there", res.Message)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.PurposeChitChat, calls[0].Purpose)
	assert.Equal(t, "chat-model", calls[0].Model)
	assert.Equal(t, 300, calls[0].MaxTokens)
	assert.Len(t, calls[0].Messages, 3)
}

func TestPlannerAgent(t *testing.T) {
	mock := llm.NewMockLLM()
	planner := agentflow.NewPlannerAgent(mock, "", 0)

	out, err := planner.Plan(context.Background(), "learn guitar")
	require.NoError(t, err)
	assert.Contains(t, out, "Step 1:")

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.PurposeGoalPlanner, calls[0].Purpose)
	assert.Equal(t, 2000, calls[0].MaxTokens)
	assert.Contains(t, calls[0].Messages[1].Content, `"learn guitar"`)

	empty := agentflow.NewPlannerAgent(llm.NewScriptedLLM(func(domain.CompletionRequest) (string, error) { return "  ", nil }), "", 0)
	_, err = empty.Plan(context.Background(), "learn guitar")
	require.Error(t, err)
}
