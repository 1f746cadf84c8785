package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/ruhaan-agent/internal/adapters/llm"
	"github.com/PabloGalante/ruhaan-agent/internal/app/command"
	"github.com/PabloGalante/ruhaan-agent/internal/app/tools"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

type recordingTool struct {
	name  string
	calls []string
	err   error
}

func (t *recordingTool) Name() string        { return t.name }
func (t *recordingTool) Description() string { return t.name + " tool" }

func (t *recordingTool) Call(_ context.Context, _ tools.ToolContext, cmd string) (string, error) {
	t.calls = append(t.calls, cmd)
	if t.err != nil {
		return "", t.err
	}
	return t.name + " handled", nil
}

func newToolset() command.Toolset {
	return command.Toolset{
		Browser:  &recordingTool{name: "browser"},
		Reminder: &recordingTool{name: "reminder"},
		Goal:     &recordingTool{name: "goal_breakdown"},
		Habit:    &recordingTool{name: "habit_log"},
		Task:     &recordingTool{name: "quick_task"},
	}
}

func TestDispatchRoutesInPriorityOrder(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"open chrome", "browser"},
		{"search google for golang", "browser"},
		{"chrome and search for body training", "browser"},
		{"google for pizza", "browser"},
		{"open youtube and set a reminder", "browser"},
		{"यूट्यूब खोलो", "browser"},
		{"Remind me to call mom at 5pm", "reminder"},
		{"list reminders", "reminder"},
		{"mujhe 5 baje yaad dila dena", "reminder"},
		{"Break down: launch a website", "goal_breakdown"},
		{"my goal is to track my runs", "goal_breakdown"},
		{"Log habit: exercise", "habit_log"},
		{"track meditation", "habit_log"},
		{"habit stats", "habit_log"},
		{"start a 25 minute timer", "quick_task"},
		{"add task: review email", "quick_task"},
		{"start focus session", "quick_task"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d := command.NewDispatcher(nil, "", 0, command.DefaultRoutes(newToolset()))

			res := d.Dispatch(context.Background(), tools.ToolContext{}, tt.text, domain.LangEnglish)
			assert.Equal(t, tt.want, res.Tool)
			assert.Equal(t, tt.want+" handled", res.Reply)
			assert.Equal(t, domain.LangEnglish, res.LanguageCode)
		})
	}
}

func TestDispatchPassesFullUtterance(t *testing.T) {
	ts := newToolset()
	d := command.NewDispatcher(nil, "", 0, command.DefaultRoutes(ts))

	d.Dispatch(context.Background(), tools.ToolContext{}, "  Remind me to Stretch in 10 minutes ", domain.LangEnglish)

	assert.Equal(t, []string{"  Remind me to Stretch in 10 minutes "}, ts.Reminder.(*recordingTool).calls)
}

func TestDispatchToolErrorBecomesReply(t *testing.T) {
	ts := newToolset()
	ts.Browser.(*recordingTool).err = errors.New("no display")
	d := command.NewDispatcher(nil, "", 0, command.DefaultRoutes(ts))

	res := d.Dispatch(context.Background(), tools.ToolContext{}, "open chrome", domain.LangEnglish)
	assert.Equal(t, "browser", res.Tool)
	assert.Contains(t, res.Reply, "couldn't complete that browser command")
}

func TestDispatchFallsBackToModel(t *testing.T) {
	mock := llm.NewScriptedLLM(func(req domain.CompletionRequest) (string, error) {
		return "  Try 'open chrome'.  ", nil
	})
	d := command.NewDispatcher(mock, "m", 0, command.DefaultRoutes(newToolset()))

	res := d.Dispatch(context.Background(), tools.ToolContext{}, "do the thing", domain.LangEnglish)
	assert.Empty(t, res.Tool)
	assert.Equal(t, "Try 'open chrome'.", res.Reply)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.PurposeCommand, calls[0].Purpose)
	assert.InDelta(t, 0.7, calls[0].Temperature, 0.001)
	assert.Equal(t, 500, calls[0].MaxTokens)
	assert.Equal(t, "do the thing", calls[0].Messages[1].Content)
}

func TestDispatchStaticMessageWhenModelFails(t *testing.T) {
	mock := llm.NewScriptedLLM(func(domain.CompletionRequest) (string, error) {
		return "", context.DeadlineExceeded
	})
	d := command.NewDispatcher(mock, "", 0, command.DefaultRoutes(newToolset()))

	res := d.Dispatch(context.Background(), tools.ToolContext{}, "do the thing", domain.LangEnglish)
	assert.Equal(t, command.UnknownCommandMessage("do the thing"), res.Reply)
	assert.Contains(t, res.Reply, "I couldn't understand the command: do the thing.")
}

func TestDefaultRoutesSkipMissingTools(t *testing.T) {
	routes := command.DefaultRoutes(command.Toolset{Habit: &recordingTool{name: "habit_log"}})
	require.Len(t, routes, 1)

	d := command.NewDispatcher(nil, "", 0, routes)
	_, ok := d.Match("open chrome")
	assert.False(t, ok)
	tool, ok := d.Match("log habit: read")
	require.True(t, ok)
	assert.Equal(t, "habit_log", tool.Name())
}
