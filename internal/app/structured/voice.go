package structured

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FallbackVoiceMessage is spoken when no key point can be used.
const FallbackVoiceMessage = "Listen up. Stop overthinking and pick one small step you can do today. Do it now, no excuses."

const (
	maxVoiceSteps     = 3
	minActionPointLen = 10
	minActionPoints   = 2
)

var actionVerbs = map[string]struct{}{
	"start": {}, "stop": {}, "do": {}, "make": {}, "call": {}, "write": {}, "create": {},
	"focus": {}, "try": {}, "finish": {}, "plan": {}, "decide": {}, "take": {}, "set": {},
	"list": {}, "talk": {}, "ask": {}, "build": {}, "practice": {}, "commit": {},
	"schedule": {}, "track": {}, "read": {}, "learn": {}, "spend": {}, "cut": {}, "pick": {},
	"choose": {}, "give": {}, "break": {}, "say": {}, "reach": {}, "save": {}, "walk": {},
	"sleep": {}, "journal": {}, "prioritize": {}, "review": {}, "block": {}, "limit": {},
	"accept": {}, "apply": {}, "join": {}, "share": {}, "begin": {}, "put": {}, "keep": {},
	"find": {}, "note": {}, "remove": {}, "quit": {}, "move": {}, "identify": {}, "define": {},
}

// Longer phrases first so "you might want to" is not left as "you".
var hedgePattern = regexp.MustCompile(`(?i)\b(?:you might want to|might want to|you should|it's important to|it is important to|if possible|try to|maybe|perhaps|consider|could)\b,?`)

var spaceRun = regexp.MustCompile(`\s+`)

// BuildVoiceMessage turns key points into a short imperative message with at most three
// numbered steps. It never returns an empty string.
func BuildVoiceMessage(points []string, bank PhraseBank) string {
	var actions []string
	for _, p := range points {
		if utf8.RuneCountInString(p) > minActionPointLen && hasActionVerb(p) {
			if s := imperative(p); s != "" {
				actions = append(actions, s)
			}
		}
	}

	if len(actions) < minActionPoints {
		actions = actions[:0]
		for _, p := range points {
			if len(actions) == maxVoiceSteps {
				break
			}
			if s := firstSentence(p); s != "" {
				actions = append(actions, s)
			}
		}
	}
	if len(actions) == 0 {
		return FallbackVoiceMessage
	}
	if len(actions) > maxVoiceSteps {
		actions = actions[:maxVoiceSteps]
	}

	parts := make([]string, 0, len(actions)+2)
	if bank != nil {
		if o := strings.TrimSpace(bank.Opener()); o != "" {
			parts = append(parts, o)
		}
	}
	for i, a := range actions {
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, endSentence(a)))
	}
	if bank != nil {
		if c := strings.TrimSpace(bank.Closer()); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

func hasActionVerb(s string) bool {
	for _, w := range voiceWords(s) {
		if _, ok := actionVerbs[w]; ok {
			return true
		}
	}
	return false
}

// imperative strips hedging and prefixes "Do this: " when the result does not open with a verb.
func imperative(point string) string {
	s := hedgePattern.ReplaceAllString(point, "")
	s = strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
	s = strings.TrimLeft(s, ",;: ")
	if s == "" {
		return ""
	}

	words := voiceWords(s)
	if len(words) > 0 {
		if _, ok := actionVerbs[words[0]]; ok {
			return capitalize(s)
		}
	}
	return "Do this: " + s
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".!?।"); i >= 0 {
		_, size := utf8.DecodeRuneInString(s[i:])
		return strings.TrimSpace(s[:i+size])
	}
	return s
}

func endSentence(s string) string {
	s = strings.TrimSpace(s)
	if r, _ := utf8.DecodeLastRuneInString(s); isSentenceEnd(r) {
		return s
	}
	return s + "."
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func voiceWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
