package domain

import (
	"context"
	"time"
)

// Reminder is a message the user wants to be reminded of, optionally at a time.
type Reminder struct {
	ID        string    `json:"id"`
	UserID    UserID    `json:"user_id"`
	Content   string    `json:"content"`
	TimeLabel string    `json:"time,omitempty"`   // "3pm", "in 5 minutes"
	DueAt     time.Time `json:"due_at,omitempty"` // zero when no time was given
	CreatedAt time.Time `json:"created"`
	Triggered bool      `json:"triggered"`
}

// Habit holds the tracking state of one habit.
type Habit struct {
	UserID     UserID   `json:"user_id"`
	Name       string   `json:"name"`
	Dates      []string `json:"dates"` // ISO dates (2006-01-02), unique
	Streak     int      `json:"streak"`
	BestStreak int      `json:"best_streak"`
	LastDate   string   `json:"last_date,omitempty"`
}

// TotalDays is the number of distinct days the habit was completed.
func (h *Habit) TotalDays() int {
	return len(h.Dates)
}

// HasDate reports whether the habit was logged on the given ISO date.
func (h *Habit) HasDate(day string) bool {
	for _, d := range h.Dates {
		if d == day {
			return true
		}
	}
	return false
}

// Task is an entry of the user's quick task list.
type Task struct {
	ID          string    `json:"id"`
	UserID      UserID    `json:"user_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlanStep represents a concrete step within a goal breakdown.
type PlanStep struct {
	Title   string   `json:"title"`
	Details []string `json:"details"`
}

// GoalPlan is the saved breakdown of a goal into actionable steps.
type GoalPlan struct {
	ID        string     `json:"id"`
	UserID    UserID     `json:"user_id"`
	Goal      string     `json:"goal"`
	Steps     []PlanStep `json:"steps"`
	Text      string     `json:"text"` // full text shown to the user
	Generated bool       `json:"generated"`
	CreatedAt time.Time  `json:"created_at"`
}

// ReminderStore persists reminders.
type ReminderStore interface {
	AddReminder(ctx context.Context, r *Reminder) error
	MarkReminderTriggered(ctx context.Context, userID UserID, id string) error
	ListReminders(ctx context.Context, userID UserID) ([]*Reminder, error)
}

// HabitStore persists habit tracking state.
type HabitStore interface {
	GetHabit(ctx context.Context, userID UserID, name string) (*Habit, error) // ErrNotFound when missing
	SaveHabit(ctx context.Context, h *Habit) error
	DeleteHabit(ctx context.Context, userID UserID, name string) error // ErrNotFound when missing
	ListHabits(ctx context.Context, userID UserID) ([]*Habit, error)
}

// TaskStore persists the ordered quick task list.
type TaskStore interface {
	AddTask(ctx context.Context, t *Task) error
	ListTasks(ctx context.Context, userID UserID) ([]*Task, error)
	RemoveTask(ctx context.Context, userID UserID, id string) error
	ClearTasks(ctx context.Context, userID UserID) (int, error)
}

// PlanStore defines the minimum operations to persist goal plans
type PlanStore interface {
	AppendPlan(ctx context.Context, plan *GoalPlan) error
	ListPlansByUser(ctx context.Context, userID UserID, limit int) ([]*GoalPlan, error)
}

// RecordStores groups the tool stores so a backend can provide all of them.
type RecordStores struct {
	Reminders ReminderStore
	Habits    HabitStore
	Tasks     TaskStore
	Plans     PlanStore
}
