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

var (
	reminderContentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)remind me to (.+)`),
		regexp.MustCompile(`(?i)set a reminder (?:for|to) (.+)`),
	}
	reminderListPattern = regexp.MustCompile(`(?i)^\s*(?:get|show|list)\s+(?:my\s+)?(?:active\s+)?reminders\s*[.?!]*\s*$`)
)

type timeKind int

const (
	timeAbsolute12h timeKind = iota
	timeAbsolute24h
	timeMinutes
	timeHours
)

type timePattern struct {
	re   *regexp.Regexp
	kind timeKind
}

// Checked in order; the first match wins.
var reminderTimePatterns = []timePattern{
	{regexp.MustCompile(`(?i)\bat (\d{1,2}(?::\d{2})? ?[ap]m)\b`), timeAbsolute12h},
	{regexp.MustCompile(`(?i)\bat (\d{1,2}:\d{2})\b`), timeAbsolute24h},
	{regexp.MustCompile(`(?i)\bin (\d+) (?:minute|min)s?\b`), timeMinutes},
	{regexp.MustCompile(`(?i)\bin (\d+) (?:hour|hr)s?\b`), timeHours},
	{regexp.MustCompile(`(?i)\b(?:after |in )(\d+) ?(?:m|min|minute)s?\b`), timeMinutes},
}

var clock12h = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))? ?([ap]m)$`)

// ReminderTool stores reminders and pops a notification when they are due.
type ReminderTool struct {
	store     domain.ReminderStore
	scheduler *Scheduler
	notifier  domain.Notifier
	now       func() time.Time
}

func NewReminderTool(store domain.ReminderStore, scheduler *Scheduler, notifier domain.Notifier) *ReminderTool {
	return &ReminderTool{
		store:     store,
		scheduler: scheduler,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (t *ReminderTool) Name() string { return "reminder" }

func (t *ReminderTool) Description() string {
	return "Set reminders with pop-up notifications (e.g., 'Remind me to call mom in 30 minutes', 'remind me to workout at 6pm')."
}

func (t *ReminderTool) Call(ctx context.Context, tctx ToolContext, command string) (string, error) {
	userID := domain.UserID(tctx.UserID)
	if reminderListPattern.MatchString(command) {
		return t.listActive(ctx, userID)
	}

	content, ok := firstSubmatch(command, reminderContentPatterns...)
	if !ok {
		content = strings.TrimSpace(command)
	}

	now := t.now()
	content, label, delay := ParseReminderTime(content, now)

	r := &domain.Reminder{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		TimeLabel: label,
		CreatedAt: now,
	}
	if delay > 0 {
		r.DueAt = now.Add(delay)
	}
	if err := t.store.AddReminder(ctx, r); err != nil {
		return "", fmt.Errorf("reminder: save: %w", err)
	}

	if delay <= 0 {
		msg := fmt.Sprintf("📝 Reminder saved: '%s'", content)
		if label != "" {
			msg += " for " + label
		}
		return msg, nil
	}

	t.schedule(r, delay)
	return fmt.Sprintf("⏰ Reminder set: '%s' will pop up %s", content, label), nil
}

func (t *ReminderTool) schedule(r *domain.Reminder, delay time.Duration) {
	if t.scheduler == nil {
		return
	}
	t.scheduler.After(delay, "reminder", func(ctx context.Context) {
		log := observability.Logger().With("reminder_id", r.ID, "user_id", r.UserID)
		if t.notifier != nil {
			if err := t.notifier.Notify(ctx, "⏰ Ruhaan Reminder", "⏰ "+r.Content); err != nil {
				log.Error("reminder notification failed", "error", err)
			}
		}
		if err := t.store.MarkReminderTriggered(ctx, r.UserID, r.ID); err != nil {
			log.Error("mark reminder triggered failed", "error", err)
		}
	})
}

func (t *ReminderTool) listActive(ctx context.Context, userID domain.UserID) (string, error) {
	all, err := t.store.ListReminders(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("reminder: list: %w", err)
	}
	if len(all) == 0 {
		return "No reminders set.", nil
	}

	var lines []string
	for _, r := range all {
		if r.Triggered {
			continue
		}
		line := "- " + r.Content
		if r.TimeLabel != "" {
			line += " (" + r.TimeLabel + ")"
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "No active reminders.", nil
	}
	return "Active reminders:\n" + strings.Join(lines, "\n"), nil
}

// ParseReminderTime extracts the first time expression from content. It returns the content
// without that expression, a human label ("in 5 minutes", "at 3pm") and the delay from now.
// Absolute times already passed today roll over to tomorrow. A zero delay means no time was found.
func ParseReminderTime(content string, now time.Time) (string, string, time.Duration) {
	for _, p := range reminderTimePatterns {
		loc := p.re.FindStringSubmatchIndex(content)
		if loc == nil {
			continue
		}
		value := content[loc[2]:loc[3]]
		rest := strings.Join(strings.Fields(content[:loc[0]]+" "+content[loc[1]:]), " ")

		switch p.kind {
		case timeMinutes, timeHours:
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return rest, "", 0
			}
			if p.kind == timeMinutes {
				return rest, fmt.Sprintf("in %d %s", n, plural(n, "minute")), time.Duration(n) * time.Minute
			}
			return rest, fmt.Sprintf("in %d %s", n, plural(n, "hour")), time.Duration(n) * time.Hour
		default:
			hour, minute, ok := parseClock(value, p.kind)
			if !ok {
				return rest, "at " + value, 0
			}
			target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
			if !target.After(now) {
				target = target.AddDate(0, 0, 1)
			}
			return rest, "at " + value, target.Sub(now)
		}
	}
	return content, "", 0
}

func parseClock(value string, kind timeKind) (hour, minute int, ok bool) {
	if kind == timeAbsolute12h {
		m := clock12h.FindStringSubmatch(strings.TrimSpace(value))
		if m == nil {
			return 0, 0, false
		}
		h, _ := strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if h < 1 || h > 12 || minute > 59 {
			return 0, 0, false
		}
		hour = h % 12
		if strings.EqualFold(m[3], "pm") {
			hour += 12
		}
		return hour, minute, true
	}

	parts := strings.SplitN(value, ":", 2)
	h, err1 := strconv.Atoi(parts[0])
	mi, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h > 23 || mi > 59 {
		return 0, 0, false
	}
	return h, mi, true
}
