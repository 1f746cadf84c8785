package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/ruhaan-agent/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "data", "ruhaan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var base = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func TestSessionsAndMessages(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	older := &domain.Session{ID: "s1", UserID: "u1", Title: "first", CreatedAt: base, UpdatedAt: base}
	newer := &domain.Session{ID: "s2", UserID: "u1", Title: "second", CreatedAt: base, UpdatedAt: base.Add(time.Hour)}
	require.NoError(t, s.CreateSession(ctx, older))
	require.NoError(t, s.CreateSession(ctx, newer))

	got, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), got.UserID)
	assert.True(t, got.CreatedAt.Equal(base))

	_, err = s.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, s.UpdateSession(ctx, &domain.Session{ID: "missing"}), domain.ErrSessionNotFound)

	list, err := s.ListSessionsByUser(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.SessionID("s2"), list[0].ID)

	for i, text := range []string{"one", "two", "three"} {
		require.NoError(t, s.AppendMessage(ctx, &domain.Message{
			ID:          domain.MessageID(text),
			SessionID:   "s1",
			Author:      domain.RoleUser,
			Text:        text,
			Language:    domain.LangEnglish,
			ContentType: domain.ContentText,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}))
	}

	msgs, err := s.GetMessagesBySession(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "two", msgs[0].Text)
	assert.Equal(t, "three", msgs[1].Text)

	all, err := s.GetMessagesBySession(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestReminders(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.AddReminder(ctx, &domain.Reminder{
		ID: "r1", UserID: "u1", Content: "drink water", TimeLabel: "in 5 minutes",
		DueAt: base.Add(5 * time.Minute), CreatedAt: base,
	}))
	require.NoError(t, s.AddReminder(ctx, &domain.Reminder{
		ID: "r2", UserID: "u1", Content: "call mom", CreatedAt: base.Add(time.Second),
	}))

	require.NoError(t, s.MarkReminderTriggered(ctx, "u1", "r1"))
	assert.ErrorIs(t, s.MarkReminderTriggered(ctx, "u2", "r1"), domain.ErrNotFound)

	list, err := s.ListReminders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Triggered)
	assert.True(t, list[0].DueAt.Equal(base.Add(5*time.Minute)))
	assert.False(t, list[1].Triggered)
	assert.True(t, list[1].DueAt.IsZero())
}

func TestHabits(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.GetHabit(ctx, "u1", "meditate")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	h := &domain.Habit{UserID: "u1", Name: "meditate", Dates: []string{"2026-10-14"}, Streak: 1, BestStreak: 1, LastDate: "2026-10-14"}
	require.NoError(t, s.SaveHabit(ctx, h))

	h.Dates = append(h.Dates, "2026-10-15")
	h.Streak, h.BestStreak, h.LastDate = 2, 2, "2026-10-15"
	require.NoError(t, s.SaveHabit(ctx, h))
	require.NoError(t, s.SaveHabit(ctx, &domain.Habit{UserID: "u1", Name: "exercise"}))

	got, err := s.GetHabit(ctx, "u1", "meditate")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10-14", "2026-10-15"}, got.Dates)
	assert.Equal(t, 2, got.Streak)

	list, err := s.ListHabits(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "exercise", list[0].Name)
	assert.Empty(t, list[0].Dates)

	require.NoError(t, s.DeleteHabit(ctx, "u1", "meditate"))
	assert.ErrorIs(t, s.DeleteHabit(ctx, "u1", "meditate"), domain.ErrNotFound)
}

func TestTasks(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for i, d := range []string{"write report", "email team", "book flight"} {
		require.NoError(t, s.AddTask(ctx, &domain.Task{
			ID: d, UserID: "u1", Description: d, CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	require.NoError(t, s.RemoveTask(ctx, "u1", "email team"))
	assert.ErrorIs(t, s.RemoveTask(ctx, "u1", "email team"), domain.ErrNotFound)

	list, err := s.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "write report", list[0].Description)
	assert.Equal(t, "book flight", list[1].Description)

	n, err := s.ClearTasks(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.ClearTasks(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPlans(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for i, goal := range []string{"learn go", "run 5k", "read more"} {
		require.NoError(t, s.AppendPlan(ctx, &domain.GoalPlan{
			ID:        goal,
			UserID:    "u1",
			Goal:      goal,
			Steps:     []domain.PlanStep{{Title: "Step 1", Details: []string{"start"}}},
			Text:      "plan for " + goal,
			Generated: i%2 == 0,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	last, err := s.ListPlansByUser(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "run 5k", last[0].Goal)
	assert.Equal(t, "read more", last[1].Goal)
	assert.True(t, last[1].Generated)
	assert.Equal(t, []domain.PlanStep{{Title: "Step 1", Details: []string{"start"}}}, last[0].Steps)

	all, err := s.ListPlansByUser(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
