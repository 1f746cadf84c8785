// Package language decides which supported locale an utterance is answered in.
package language

import (
	"strings"
	"unicode"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

// blockedHints are locale prefixes (and names) that must never reach the rest of the pipeline.
var blockedHints = []string{
	"te", "ta", "kn", "ml", "mr", "gu", "bn", "pa", "ur", "or", "as",
	"telugu", "tamil", "kannada", "malayalam", "marathi", "gujarati",
	"bengali", "punjabi", "urdu", "odia", "oriya", "assamese",
}

// markerWords identify romanized Hindi (Hinglish) and plain English. Both normalize to en-IN.
var markerWords = map[string]struct{}{
	// Hinglish
	"kya": {}, "hai": {}, "hain": {}, "mera": {}, "meri": {}, "mujhe": {}, "kaise": {},
	"kaisa": {}, "nahi": {}, "nahin": {}, "haan": {}, "acha": {}, "accha": {}, "theek": {},
	"bhai": {}, "yaar": {}, "kar": {}, "karo": {}, "karna": {}, "batao": {}, "bolo": {},
	"kyun": {}, "kyu": {}, "matlab": {}, "bahut": {}, "abhi": {}, "aap": {}, "tum": {},
	"main": {}, "hum": {}, "kuch": {}, "sab": {}, "chalo": {}, "namaste": {},
	// English
	"the": {}, "is": {}, "are": {}, "what": {}, "how": {}, "why": {}, "when": {}, "where": {},
	"who": {}, "you": {}, "your": {}, "me": {}, "my": {}, "i": {}, "and": {}, "to": {},
	"for": {}, "please": {}, "can": {}, "do": {}, "open": {}, "remind": {}, "hello": {},
	"hi": {}, "thanks": {}, "should": {}, "help": {},
}

// Detect returns the locale of text, consulting hint only when the text itself is not decisive.
// It never fails and only ever returns en-IN or hi-IN.
func Detect(text, hint string) domain.LanguageCode {
	hint = filterHint(hint)

	if ContainsDevanagari(text) {
		return domain.LangHindi
	}
	if hasForeignLetters(text) {
		return domain.LangEnglish
	}
	if hasMarkerWord(text) {
		return domain.LangEnglish
	}

	switch {
	case strings.HasPrefix(hint, "hi"):
		return domain.LangHindi
	case strings.HasPrefix(hint, "en"):
		return domain.LangEnglish
	}
	return domain.LangEnglish
}

func filterHint(hint string) string {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" {
		return ""
	}
	primary := h
	if i := strings.IndexAny(h, "-_"); i >= 0 {
		primary = h[:i]
	}
	for _, b := range blockedHints {
		if primary == b {
			return ""
		}
	}
	return h
}

// ContainsDevanagari reports whether text has any code point of the Devanagari block.
func ContainsDevanagari(text string) bool {
	for _, r := range text {
		if isDevanagari(r) {
			return true
		}
	}
	return false
}

func isDevanagari(r rune) bool {
	return r >= 0x0900 && r <= 0x097F
}

// hasForeignLetters reports a non-ASCII letter outside Devanagari.
// Punctuation and emoji are ignored.
func hasForeignLetters(text string) bool {
	for _, r := range text {
		if r > unicode.MaxASCII && unicode.IsLetter(r) && !isDevanagari(r) {
			return true
		}
	}
	return false
}

func hasMarkerWord(text string) bool {
	for _, w := range words(text) {
		if _, ok := markerWords[w]; ok {
			return true
		}
	}
	return false
}

// words splits lower-cased text on anything that is not a letter, digit or apostrophe.
func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && !unicode.Is(unicode.Mn, r)
	})
}
