package tools_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/ruhaan-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/ruhaan-agent/internal/app/tools"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

func TestParseReminderTime(t *testing.T) {
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		content   string
		wantRest  string
		wantLabel string
		wantDelay time.Duration
	}{
		{"call mom in 30 minutes", "call mom", "in 30 minutes", 30 * time.Minute},
		{"call dad in 1 hour", "call dad", "in 1 hour", time.Hour},
		{"workout at 6pm", "workout", "at 6pm", 8 * time.Hour},
		{"standup at 9:30am", "standup", "at 9:30am", 23*time.Hour + 30*time.Minute},
		{"deploy at 14:00", "deploy", "at 14:00", 4 * time.Hour},
		{"stretch after 10min", "stretch", "in 10 minutes", 10 * time.Minute},
		{"buy milk", "buy milk", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			rest, label, delay := tools.ParseReminderTime(tt.content, now)
			assert.Equal(t, tt.wantRest, rest)
			assert.Equal(t, tt.wantLabel, label)
			assert.Equal(t, tt.wantDelay, delay)
		})
	}
}

func TestReminderToolSchedulesAndLists(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecordStore()
	scheduler := tools.NewScheduler()
	t.Cleanup(scheduler.Stop)

	tool := tools.NewReminderTool(store, scheduler, newFakeNotifier())
	tctx := tools.ToolContext{UserID: "u1"}

	out, err := tool.Call(ctx, tctx, "Remind me to call mom in 5 minutes")
	require.NoError(t, err)
	assert.Equal(t, "⏰ Reminder set: 'call mom' will pop up in 5 minutes", out)
	assert.Equal(t, 1, scheduler.Pending())

	out, err = tool.Call(ctx, tctx, "remind me to buy milk")
	require.NoError(t, err)
	assert.Equal(t, "📝 Reminder saved: 'buy milk'", out)
	assert.Equal(t, 1, scheduler.Pending())

	saved, err := store.ListReminders(ctx, domain.UserID("u1"))
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.False(t, saved[0].DueAt.IsZero())
	assert.True(t, saved[1].DueAt.IsZero())

	out, err = tool.Call(ctx, tctx, "list reminders")
	require.NoError(t, err)
	assert.Equal(t, "Active reminders:\n- call mom (in 5 minutes)\n- buy milk", out)

	require.NoError(t, store.MarkReminderTriggered(ctx, "u1", saved[0].ID))
	out, err = tool.Call(ctx, tctx, "show my reminders")
	require.NoError(t, err)
	assert.Equal(t, "Active reminders:\n- buy milk", out)
}

func TestReminderToolListEmpty(t *testing.T) {
	tool := tools.NewReminderTool(memory.NewRecordStore(), nil, nil)

	out, err := tool.Call(context.Background(), tools.ToolContext{UserID: "u1"}, "get reminders")
	require.NoError(t, err)
	assert.Equal(t, "No reminders set.", out)
}
