package command

import (
	"strings"

	"github.com/PabloGalante/ruhaan-agent/internal/app/tools"
)

// Route sends utterances accepted by Match to Tool. Match receives the lower-cased, trimmed text.
type Route struct {
	Tool  tools.Tool
	Match func(lower string) bool
}

// Toolset holds the tools the default routes point at.
type Toolset struct {
	Browser  tools.Tool
	Reminder tools.Tool
	Goal     tools.Tool
	Habit    tools.Tool
	Task     tools.Tool
}

// All returns the non-nil tools in routing order.
func (ts Toolset) All() []tools.Tool {
	var out []tools.Tool
	for _, t := range []tools.Tool{ts.Browser, ts.Reminder, ts.Goal, ts.Habit, ts.Task} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

var browserPhrases = []string{
	"open chrome", "open browser", "open google", "chrome and search", "chrome search",
	"google and search", "youtube", "google search", "search google", "search on google",
	"open website", "open url",
	"यूट्यूब", "युट्युब", "गूगल", "क्रोम",
}

// DefaultRoutes returns the routes in priority order. Browser phrases must precede search
// and note phrasing.
func DefaultRoutes(ts Toolset) []Route {
	candidates := []Route{
		{Tool: ts.Browser, Match: isBrowser},
		{Tool: ts.Reminder, Match: isReminder},
		{Tool: ts.Goal, Match: isGoal},
		{Tool: ts.Habit, Match: isHabit},
		{Tool: ts.Task, Match: isTask},
	}

	routes := make([]Route, 0, len(candidates))
	for _, r := range candidates {
		if r.Tool != nil {
			routes = append(routes, r)
		}
	}
	return routes
}

func isBrowser(lower string) bool {
	if containsAny(lower, browserPhrases...) {
		return true
	}
	if (strings.HasPrefix(lower, "chrome") || strings.HasPrefix(lower, "google")) &&
		containsAny(lower, "search", "for") {
		return true
	}
	return strings.Contains(lower, "google") && strings.Contains(lower, "search")
}

func isReminder(lower string) bool {
	return strings.HasPrefix(lower, "remind me") ||
		strings.HasPrefix(lower, "set a reminder") ||
		containsAny(lower, "reminder", "yaad dila", "याद दिला")
}

func isGoal(lower string) bool {
	return containsAny(lower, "break down", "goal")
}

func isHabit(lower string) bool {
	return strings.HasPrefix(lower, "habit:") || containsAny(lower, "habit", "track")
}

func isTask(lower string) bool {
	return strings.HasPrefix(lower, "start a") ||
		strings.HasPrefix(lower, "quick task") ||
		containsAny(lower, "timer", "task", "focus", "pomodoro")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
