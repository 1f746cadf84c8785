package tools_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/ruhaan-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/ruhaan-agent/internal/app/tools"
)

func TestParseTimerDuration(t *testing.T) {
	tests := []struct {
		in        string
		wantDur   time.Duration
		wantLabel string
	}{
		{"start 25 minute timer", 25 * time.Minute, "25 minutes"},
		{"1 min timer", time.Minute, "1 minute"},
		{"set a 2 hour timer", 2 * time.Hour, "2 hours"},
		{"30 sec timer", 30 * time.Second, "30 seconds"},
		{"start pomodoro", 25 * time.Minute, "25 minutes (Pomodoro)"},
		{"set a timer", 5 * time.Minute, "5 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, label := tools.ParseTimerDuration(tt.in)
			assert.Equal(t, tt.wantDur, d)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestTaskToolListFlow(t *testing.T) {
	ctx := context.Background()
	tool := tools.NewTaskTool(memory.NewRecordStore(), nil, nil)
	tctx := tools.ToolContext{UserID: "u1"}

	call := func(cmd string) string {
		t.Helper()
		out, err := tool.Call(ctx, tctx, cmd)
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, "📋 No tasks in your list. Add some with 'add task: [description]'", call("list tasks"))
	assert.Equal(t, "✅ Added task: Review email (Total: 1)", call("Add task: Review email"))
	assert.Equal(t, "✅ Added task: Write report (Total: 2)", call("new task: Write report"))
	assert.Equal(t, "📋 Your tasks:\n1. Review email\n2. Write report", call("list tasks"))
	assert.Equal(t, "✅ Completed: Write report\nRemaining tasks: 1", call("complete task 2"))
	assert.Equal(t, "❌ Task number 9 not found. You have 1 tasks.", call("complete task 9"))
	assert.Equal(t, "🗑️ Cleared 1 tasks from your list", call("clear tasks"))
	assert.Equal(t, "📋 Task list is already empty", call("clear tasks"))
	assert.Equal(t, "📋 No tasks to complete!", call("finish task"))
}

func TestTaskToolTimers(t *testing.T) {
	ctx := context.Background()
	scheduler := tools.NewScheduler()
	t.Cleanup(scheduler.Stop)
	tool := tools.NewTaskTool(memory.NewRecordStore(), scheduler, newFakeNotifier())

	out, err := tool.Call(ctx, tools.ToolContext{UserID: "u1"}, "Start 25 minute timer")
	require.NoError(t, err)
	assert.Equal(t, "⏰ Started 25 minutes timer. You'll get a notification when it's done!", out)

	out, err = tool.Call(ctx, tools.ToolContext{UserID: "u1"}, "start focus session")
	require.NoError(t, err)
	assert.Contains(t, out, "50-minute deep work session")
	assert.Equal(t, 2, scheduler.Pending())
}

func TestTaskToolTimerNotifies(t *testing.T) {
	scheduler := tools.NewScheduler()
	t.Cleanup(scheduler.Stop)
	notifier := newFakeNotifier()
	tool := tools.NewTaskTool(memory.NewRecordStore(), scheduler, notifier)

	_, err := tool.Call(context.Background(), tools.ToolContext{UserID: "u1"}, "1 sec timer")
	require.NoError(t, err)

	select {
	case n := <-notifier.ch:
		assert.Equal(t, "⏰ Timer Complete!", n.Title)
		assert.Equal(t, "1 second timer finished", n.Message)
	case <-time.After(3 * time.Second):
		t.Fatal("timer notification not delivered")
	}
}
