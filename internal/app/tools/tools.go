package tools

import (
	"context"
	"regexp"
	"strings"
	"unicode"
)

// ToolContext brings metadata of the call to the tool
type ToolContext struct {
	UserID    string
	SessionID string
	RequestID string
}

// Tool is a deterministic command handler. It receives the full utterance and
// returns the text shown (or spoken) to the user.
type Tool interface {
	Name() string
	Description() string
	Call(ctx context.Context, tctx ToolContext, command string) (string, error)
}

// Info is the public description of a tool.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Describe lists name and description of every tool, in order.
func Describe(list ...Tool) []Info {
	out := make([]Info, 0, len(list))
	for _, t := range list {
		out = append(out, Info{Name: t.Name(), Description: t.Description()})
	}
	return out
}

// --- internal helpers --- //

// firstSubmatch returns the first capture group of the first pattern that matches.
func firstSubmatch(text string, patterns ...*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil && len(m) > 1 {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// hasKeyword matches keywords as whole words or word sequences.
func hasKeyword(text string, keywords ...string) bool {
	padded := " " + strings.Join(strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ") + " "
	for _, k := range keywords {
		if strings.Contains(padded, " "+k+" ") {
			return true
		}
	}
	return false
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
