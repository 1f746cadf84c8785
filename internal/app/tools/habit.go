package tools

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

const isoDate = "2006-01-02"

var (
	habitLogTrigger   = regexp.MustCompile(`(?i)\blog habit\b|\bhabit:|\btrack\b|\bdid\b`)
	habitResetName    = regexp.MustCompile(`(?i)reset habit:?\s*(.+)`)
	habitNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)log habit:?\s*(.+)`),
		regexp.MustCompile(`(?i)habit:?\s*(.+)`),
		regexp.MustCompile(`(?i)track:?\s*(.+)`),
		regexp.MustCompile(`(?i)did:?\s*(.+)`),
		regexp.MustCompile(`(?i)completed?:?\s*(.+)`),
	}
)

// HabitTool tracks daily habits with streaks.
type HabitTool struct {
	store domain.HabitStore
	now   func() time.Time
}

func NewHabitTool(store domain.HabitStore) *HabitTool {
	return &HabitTool{store: store, now: time.Now}
}

func (t *HabitTool) Name() string { return "habit_log" }

func (t *HabitTool) Description() string {
	return "Advanced habit tracker with streaks and analytics (e.g., 'Log habit: exercise', 'List habits', 'Habit stats', 'Reset habit: meditation')."
}

func (t *HabitTool) Call(ctx context.Context, tctx ToolContext, command string) (string, error) {
	userID := domain.UserID(tctx.UserID)
	lower := strings.ToLower(strings.TrimSpace(command))

	switch {
	case strings.Contains(lower, "reset") && strings.Contains(lower, "habit"):
		return t.reset(ctx, userID, command)
	case containsAny(lower, "stats", "analytics", "progress"):
		return t.stats(ctx, userID)
	case strings.Contains(lower, "list") && strings.Contains(lower, "habit"):
		return t.list(ctx, userID)
	case habitLogTrigger.MatchString(lower):
		return t.log(ctx, userID, command)
	default:
		return fmt.Sprintf("🎯 Habit Commands:\n• 'Log habit: exercise' - Record completion\n• 'List habits' - Show all habits\n• 'Habit stats' - View analytics\n• 'Reset habit: [name]' - Remove habit\n\nTry: 'Log habit: %s' to track it!", strings.TrimSpace(command)), nil
	}
}

func (t *HabitTool) log(ctx context.Context, userID domain.UserID, command string) (string, error) {
	name, ok := firstSubmatch(command, habitNamePatterns...)
	if !ok || name == "" {
		name = strings.TrimSpace(command)
	}
	name = strings.ToLower(strings.TrimRight(name, ".!? "))

	h, err := t.store.GetHabit(ctx, userID, name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h = &domain.Habit{UserID: userID, Name: name}
	case err != nil:
		return "", fmt.Errorf("habit: load %q: %w", name, err)
	}

	today := t.now().Format(isoDate)
	if h.LastDate == today {
		return fmt.Sprintf("✅ Habit '%s' already logged today!\n🔥 Current streak: %d days\n🏆 Best streak: %d days", name, h.Streak, h.BestStreak), nil
	}

	newRecord := LogHabitDay(h, today)
	if err := t.store.SaveHabit(ctx, h); err != nil {
		return "", fmt.Errorf("habit: save %q: %w", name, err)
	}

	prefix := ""
	if newRecord {
		prefix = "🎉 NEW RECORD! "
	}
	_, rate := completions(h, t.now(), 30)
	return fmt.Sprintf("✅ %sHabit '%s' logged for today!\n🔥 Current streak: %d days\n🏆 Best streak: %d days\n📊 Total completed: %d days\n📈 30-day rate: %.1f%%",
		prefix, name, h.Streak, h.BestStreak, h.TotalDays(), rate), nil
}

// LogHabitDay records day on h and updates the streaks. A day right after the last one extends
// the streak, any gap restarts it at one. It reports whether the best streak grew.
func LogHabitDay(h *domain.Habit, day string) bool {
	if h.LastDate == day {
		return false
	}

	streak := 1
	if h.LastDate != "" {
		last, err1 := time.Parse(isoDate, h.LastDate)
		cur, err2 := time.Parse(isoDate, day)
		if err1 == nil && err2 == nil && cur.Sub(last) == 24*time.Hour {
			streak = h.Streak + 1
		}
	}
	h.Streak = streak

	if !h.HasDate(day) {
		h.Dates = append(h.Dates, day)
	}
	h.LastDate = day

	if h.Streak > h.BestStreak {
		h.BestStreak = h.Streak
		return true
	}
	return false
}

func (t *HabitTool) stats(ctx context.Context, userID domain.UserID) (string, error) {
	habits, err := t.store.ListHabits(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("habit: list: %w", err)
	}
	if len(habits) == 0 {
		return "📊 No habits tracked yet. Start with 'Log habit: exercise'", nil
	}
	sortHabits(habits)

	now := t.now()
	var blocks []string
	for _, h := range habits {
		week, weekRate := completions(h, now, 7)
		month, monthRate := completions(h, now, 30)
		blocks = append(blocks, fmt.Sprintf("📈 %s:\n   🔥 Current: %d days\n   🏆 Best: %d days\n   📅 7-day: %.0f%% (%d/7)\n   📊 30-day: %.0f%% (%d/30)",
			title(h.Name), h.Streak, h.BestStreak, weekRate, week, monthRate, month))
	}
	return "📊 Habit Analytics:\n\n" + strings.Join(blocks, "\n\n"), nil
}

func (t *HabitTool) list(ctx context.Context, userID domain.UserID) (string, error) {
	habits, err := t.store.ListHabits(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("habit: list: %w", err)
	}
	if len(habits) == 0 {
		return "📋 No habits tracked yet. Start with 'Log habit: [habit name]'", nil
	}
	sortHabits(habits)

	today := t.now().Format(isoDate)
	lines := make([]string, 0, len(habits))
	for _, h := range habits {
		status := "⏸️ Pending"
		if h.LastDate == today {
			status = "✅ Done today"
		}
		lines = append(lines, fmt.Sprintf("• %s - %s (Streak: %d)", title(h.Name), status, h.Streak))
	}
	return fmt.Sprintf("📋 Your Habits (%d):\n%s", len(lines), strings.Join(lines, "\n")), nil
}

func (t *HabitTool) reset(ctx context.Context, userID domain.UserID, command string) (string, error) {
	m := habitResetName.FindStringSubmatch(command)
	if m == nil {
		return "Specify habit to reset: 'Reset habit: exercise'", nil
	}
	name := strings.ToLower(strings.TrimSpace(m[1]))

	err := t.store.DeleteHabit(ctx, userID, name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Sprintf("❌ Habit '%s' not found", name), nil
	case err != nil:
		return "", fmt.Errorf("habit: delete %q: %w", name, err)
	}
	return fmt.Sprintf("🗑️ Reset habit: %s", title(name)), nil
}

// completions counts the logged days within the last n days and the matching rate in percent.
func completions(h *domain.Habit, now time.Time, days int) (int, float64) {
	since := now.AddDate(0, 0, -days).Format(isoDate)
	count := 0
	for _, d := range h.Dates {
		if d >= since {
			count++
		}
	}
	return count, float64(count) / float64(days) * 100
}

func sortHabits(hs []*domain.Habit) {
	sort.Slice(hs, func(i, j int) bool { return hs[i].Name < hs[j].Name })
}

func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
