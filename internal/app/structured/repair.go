package structured

import (
	"encoding/json"
	"strings"
)

// repairStep turns raw model output into a JSON document, or reports that it cannot.
// It returns the JSON text it settled on so callers can walk it in document order.
type repairStep struct {
	name string
	fn   func(raw string) (doc map[string]any, text string, ok bool)
}

// Steps are tried in order; the first one that yields a document wins.
var repairPipeline = []repairStep{
	{name: "clean", fn: parseCleaned},
	{name: "brace_completion", fn: parseBraceCompleted},
	{name: "append_braces", fn: parseAppendedBraces},
}

// ParseResult is the outcome of the repair pipeline.
type ParseResult struct {
	Doc  map[string]any
	Text string // JSON text that parsed
	Step string // name of the step that succeeded
}

// Parse runs the repair pipeline over raw model output.
func Parse(raw string) (ParseResult, bool) {
	for _, s := range repairPipeline {
		if doc, text, ok := s.fn(raw); ok {
			return ParseResult{Doc: doc, Text: text, Step: s.name}, true
		}
	}
	return ParseResult{}, false
}

func parseCleaned(raw string) (map[string]any, string, bool) {
	text := sliceObject(stripWrapping(raw))
	return decodeObject(text)
}

// parseBraceCompleted closes whatever the truncated document left open.
func parseBraceCompleted(raw string) (map[string]any, string, bool) {
	s := stripWrapping(raw)
	if !looksStructured(s) {
		return nil, "", false
	}
	start := strings.Index(s, "{")
	if start < 0 {
		return nil, "", false
	}
	return decodeObject(completeBraces(s[start:]))
}

func parseAppendedBraces(raw string) (map[string]any, string, bool) {
	s := stripWrapping(raw)
	if !looksStructured(s) {
		return nil, "", false
	}
	start := strings.Index(s, "{")
	if start < 0 {
		return nil, "", false
	}
	return decodeObject(strings.TrimSpace(s[start:]) + "}}}")
}

func looksStructured(s string) bool {
	return strings.Contains(s, `"psychological"`) && strings.Contains(s, `"philosophical"`)
}

func decodeObject(text string) (map[string]any, string, bool) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err != nil || doc == nil {
		return nil, "", false
	}
	return doc, text, true
}

// stripWrapping removes code fences and surrounding quotes.
func stripWrapping(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			// drop the language tag line ("json")
			if tag := strings.TrimSpace(s[:nl]); !strings.ContainsAny(tag, "{[") {
				s = s[nl+1:]
			}
		}
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))

	for _, q := range []string{`"`, `'`, "`"} {
		if len(s) >= 2 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// sliceObject keeps the span from the first '{' to the last '}'.
func sliceObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

// completeBraces closes an open string, drops a dangling comma or colon value, and closes
// every open object and array in reverse order.
func completeBraces(s string) string {
	var (
		stack    []byte
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(s)
	if inString {
		out := b.String()
		if escaped {
			out = out[:len(out)-1]
		}
		b.Reset()
		b.WriteString(out)
		b.WriteByte('"')
	}

	out := strings.TrimRight(b.String(), " \t\r\n")
	out = strings.TrimSuffix(out, ",")
	if strings.HasSuffix(out, ":") {
		out += `""`
	}

	b.Reset()
	b.WriteString(out)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

// firstLongString walks the JSON text in document order and returns the first string value
// (not key) longer than minLen runes.
func firstLongString(text string, minLen int) (string, bool) {
	type frame struct {
		object    bool
		expectKey bool
	}
	var stack []frame

	valueDone := func() {
		if n := len(stack); n > 0 && stack[n-1].object {
			stack[n-1].expectKey = true
		}
	}

	dec := json.NewDecoder(strings.NewReader(text))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", false
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, frame{object: true, expectKey: true})
			case '[':
				stack = append(stack, frame{})
			default:
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectKey {
				stack[n-1].expectKey = false
				continue
			}
			if s := strings.TrimSpace(v); len([]rune(s)) > minLen {
				return s, true
			}
			valueDone()
		default:
			valueDone()
		}
	}
}
