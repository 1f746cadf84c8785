package intent

import (
	"regexp"
	"strings"
	"unicode"
)

// structuredMinWords is the length from which an advice keyword forces a structured answer.
const structuredMinWords = 10

var structuredKeywords = newKeywordSet(
	// advice and decisions
	"advice", "guidance", "guide me", "should i", "what should", "decide", "decision", "choose",
	"confused", "confusion", "dilemma", "career", "job", "quit", "leaving", "leave my",
	"startup", "future", "purpose", "meaning", "life",
	// emotional struggle
	"scared", "afraid", "fear", "anxious", "anxiety", "stress", "stressed", "worried", "worry",
	"struggle", "struggling", "stuck", "lost", "lonely", "sad", "depressed", "overthinking",
	"motivation", "unmotivated", "procrastinate", "procrastinating", "procrastination",
	"regret", "failure", "failed", "confidence", "relationship", "breakup", "heartbroken",
	// romanized and Devanagari Hindi
	"dar", "darr", "pareshan", "tension", "zindagi", "salah", "naukri", "faisla", "akela",
	"डर", "परेशान", "उलझन", "फैसला", "फ़ैसला", "सलाह", "जिंदगी", "ज़िंदगी", "करियर", "नौकरी",
	"तनाव", "अकेला", "अकेली", "चिंता",
)

var commandKeywords = newKeywordSet(
	"remind", "reminder", "reminders", "note", "notes", "habit", "habits", "goal", "goals",
	"timer", "pomodoro", "task", "tasks", "track", "focus", "break down",
	"youtube", "google", "chrome", "browser", "website",
	"yaad dila", "yaad dilana",
	"याद दिला", "रिमाइंडर", "नोट", "आदत", "लक्ष्य", "टाइमर", "यूट्यूब", "गूगल", "क्रोम",
)

// explicitCommandPatterns are unambiguous command phrasings.
var explicitCommandPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bremind me\b`),
	regexp.MustCompile(`(?i)\bset (?:a |an )?(?:reminder|timer|alarm)\b`),
	regexp.MustCompile(`(?i)^\s*(?:note|goal|habit|log habit|track|break down|add task|new task|complete task|finish task|reset habit|quick task)\s*:`),
	regexp.MustCompile(`(?i)^\s*(?:log habit|break down|add task|list tasks|list my tasks|list habits|habit stats|clear tasks|complete task)\b`),
	regexp.MustCompile(`(?i)\b(?:list|show|get)\s+(?:my\s+)?(?:reminders|tasks|habits|notes)\b`),
	regexp.MustCompile(`(?i)\b(?:open|launch)\s+(?:the\s+)?(?:chrome|browser|google|youtube|website|url|site)\b`),
	regexp.MustCompile(`(?i)\bsearch\s+(?:on\s+)?(?:google|youtube)\b`),
	regexp.MustCompile(`(?i)\b(?:google|youtube|chrome)\s+(?:and\s+)?search\b`),
	regexp.MustCompile(`(?i)\b(?:search|find|look up)\b.+\b(?:on|in)\s+(?:google|youtube)\b`),
	regexp.MustCompile(`(?i)\bstart\s+(?:a\s+)?(?:\d+\s*(?:minute|min|hour|hr|second|sec)s?\s+)?(?:timer|pomodoro|focus session)\b`),
	regexp.MustCompile(`(?i)\b\d+\s*(?:minute|min|hour|hr|second|sec)s?\s+timer\b`),
	regexp.MustCompile(`(?i)\byaad\s+dila(?:na|o|do|dena)\b`),
	regexp.MustCompile(`याद\s*दिला`),
	regexp.MustCompile(`(?:यूट्यूब|गूगल|क्रोम)\s*(?:खोलो|खोलिए|पर|में)`),
}

// keywordSet matches single ASCII words by token and everything else by substring.
type keywordSet struct {
	words   map[string]struct{}
	phrases []string
}

func newKeywordSet(keywords ...string) keywordSet {
	ks := keywordSet{words: make(map[string]struct{})}
	for _, k := range keywords {
		if isASCIIWord(k) {
			ks.words[k] = struct{}{}
		} else {
			ks.phrases = append(ks.phrases, k)
		}
	}
	return ks
}

func (ks keywordSet) matches(text string) bool {
	lower := strings.ToLower(text)
	for _, tok := range tokens(lower) {
		if _, ok := ks.words[tok]; ok {
			return true
		}
	}
	padded := " " + strings.Join(tokens(lower), " ") + " "
	for _, p := range ks.phrases {
		if isASCII(p) {
			if strings.Contains(padded, " "+p+" ") {
				return true
			}
			continue
		}
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func isExplicitCommand(text string) bool {
	for _, re := range explicitCommandPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func tokens(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func isASCIIWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || r == '\'') {
			return false
		}
	}
	return true
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
