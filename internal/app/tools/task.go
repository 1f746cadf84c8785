package tools

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

const (
	defaultTimer  = 5 * time.Minute
	pomodoroTimer = 25 * time.Minute
	focusSession  = 50 * time.Minute
)

var (
	addTaskPattern    = regexp.MustCompile(`(?i)(?:add task|new task):?\s*(.+)`)
	taskNumberPattern = regexp.MustCompile(`(?i)(?:task\s*)?(\d+)`)
	timerPatterns     = []struct {
		re   *regexp.Regexp
		unit time.Duration
		name string
	}{
		{regexp.MustCompile(`(\d+)\s*(?:minute|min)s?`), time.Minute, "minute"},
		{regexp.MustCompile(`(\d+)\s*(?:hour|hr)s?`), time.Hour, "hour"},
		{regexp.MustCompile(`(\d+)\s*(?:second|sec)s?`), time.Second, "second"},
	}
)

// TaskTool manages timers, focus sessions and the quick task list.
type TaskTool struct {
	store     domain.TaskStore
	scheduler *Scheduler
	notifier  domain.Notifier
	now       func() time.Time
}

func NewTaskTool(store domain.TaskStore, scheduler *Scheduler, notifier domain.Notifier) *TaskTool {
	return &TaskTool{
		store:     store,
		scheduler: scheduler,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (t *TaskTool) Name() string { return "quick_task" }

func (t *TaskTool) Description() string {
	return "Enhanced productivity: timers, task management, focus sessions (e.g., 'Start 25 minute timer', 'Add task: Review email', 'List tasks', 'Start focus session')."
}

func (t *TaskTool) Call(ctx context.Context, tctx ToolContext, command string) (string, error) {
	userID := domain.UserID(tctx.UserID)
	lower := strings.ToLower(strings.TrimSpace(command))

	switch {
	case containsAny(lower, "add task", "new task"):
		return t.add(ctx, userID, command)
	case strings.Contains(lower, "list") && strings.Contains(lower, "task"):
		return t.list(ctx, userID)
	case containsAny(lower, "complete task", "done task", "finish task"):
		return t.complete(ctx, userID, lower)
	case containsAny(lower, "clear tasks", "reset tasks"):
		return t.clear(ctx, userID)
	case containsAny(lower, "focus", "deep work"):
		t.notifyAfter(focusSession, "focus_session", "🎯 Focus Session Complete!", "Great work! Time for a 10-minute break.")
		return fmt.Sprintf("🎯 Started %d-minute deep work session. Stay focused! Break notification coming up.", int(focusSession.Minutes())), nil
	case containsAny(lower, "timer", "pomodoro", "start a"):
		d, label := ParseTimerDuration(lower)
		t.notifyAfter(d, "timer", "⏰ Timer Complete!", label+" timer finished")
		return fmt.Sprintf("⏰ Started %s timer. You'll get a notification when it's done!", label), nil
	default:
		return fmt.Sprintf("⚡ Task noted: %s\n\nAvailable commands:\n• 'Start 25 minute timer'\n• 'Add task: [description]'\n• 'List tasks'\n• 'Complete task 1'\n• 'Start focus session'", command), nil
	}
}

// ParseTimerDuration reads the first duration in text. "pomodoro" means 25 minutes,
// anything else without a duration means 5 minutes.
func ParseTimerDuration(lower string) (time.Duration, string) {
	for _, p := range timerPatterns {
		m := p.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			break
		}
		return time.Duration(n) * p.unit, fmt.Sprintf("%d %s", n, plural(n, p.name))
	}
	if strings.Contains(lower, "pomodoro") {
		return pomodoroTimer, "25 minutes (Pomodoro)"
	}
	return defaultTimer, "5 minutes"
}

func (t *TaskTool) notifyAfter(d time.Duration, job, title, message string) {
	if t.scheduler == nil {
		return
	}
	t.scheduler.After(d, job, func(ctx context.Context) {
		if t.notifier == nil {
			return
		}
		if err := t.notifier.Notify(ctx, title, message); err != nil {
			observability.Logger().Error("task notification failed", "job", job, "error", err)
		}
	})
}

func (t *TaskTool) add(ctx context.Context, userID domain.UserID, command string) (string, error) {
	m := addTaskPattern.FindStringSubmatch(command)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return "Please specify the task. Example: 'Add task: Review project proposal'", nil
	}
	desc := strings.TrimSpace(m[1])

	if err := t.store.AddTask(ctx, &domain.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Description: desc,
		CreatedAt:   t.now(),
	}); err != nil {
		return "", fmt.Errorf("quick_task: add: %w", err)
	}

	tasks, err := t.store.ListTasks(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("quick_task: list: %w", err)
	}
	return fmt.Sprintf("✅ Added task: %s (Total: %d)", desc, len(tasks)), nil
}

func (t *TaskTool) list(ctx context.Context, userID domain.UserID) (string, error) {
	tasks, err := t.store.ListTasks(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("quick_task: list: %w", err)
	}
	if len(tasks) == 0 {
		return "📋 No tasks in your list. Add some with 'add task: [description]'", nil
	}

	lines := make([]string, len(tasks))
	for i, task := range tasks {
		lines[i] = fmt.Sprintf("%d. %s", i+1, task.Description)
	}
	return "📋 Your tasks:\n" + strings.Join(lines, "\n"), nil
}

func (t *TaskTool) complete(ctx context.Context, userID domain.UserID, lower string) (string, error) {
	tasks, err := t.store.ListTasks(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("quick_task: list: %w", err)
	}
	if len(tasks) == 0 {
		return "📋 No tasks to complete!", nil
	}

	idx := 0
	if m := taskNumberPattern.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n < 1 || n > len(tasks) {
			return fmt.Sprintf("❌ Task number %d not found. You have %d tasks.", n, len(tasks)), nil
		}
		idx = n - 1
	}

	done := tasks[idx]
	if err := t.store.RemoveTask(ctx, userID, done.ID); err != nil {
		return "", fmt.Errorf("quick_task: remove: %w", err)
	}
	return fmt.Sprintf("✅ Completed: %s\nRemaining tasks: %d", done.Description, len(tasks)-1), nil
}

func (t *TaskTool) clear(ctx context.Context, userID domain.UserID) (string, error) {
	n, err := t.store.ClearTasks(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("quick_task: clear: %w", err)
	}
	if n == 0 {
		return "📋 Task list is already empty", nil
	}
	return fmt.Sprintf("🗑️ Cleared %d tasks from your list", n), nil
}
