package language

import (
	"regexp"
	"strings"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

var explicitPatterns = []*regexp.Regexp{
	// "tell me in hindi", "please answer this in English", "can you reply to me in hindi"
	regexp.MustCompile(`(?i)\b(?:tell|answer|say|speak|reply|respond|explain|talk|write)\b[^.?!]{0,40}?\bin\s+(hindi|english)\b`),
	// "hindi mein batao", "english me bolo"
	regexp.MustCompile(`(?i)\b(hindi|english)\s+(?:me|mein|mai|main)\s+(?:batao|bolo|bataiye|boliye|samjhao|jawab|likho)\b`),
	// "हिंदी में बताओ", "अंग्रेज़ी में जवाब दो"
	regexp.MustCompile(`(हिंदी|हिन्दी|इंग्लिश|अंग्रेज़ी|अंग्रेजी)\s*में`),
}

// DetectExplicitRequest finds a request to answer in a specific language.
func DetectExplicitRequest(text string) (domain.LanguageCode, bool) {
	for _, re := range explicitPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		switch strings.ToLower(m[1]) {
		case "hindi", "हिंदी", "हिन्दी":
			return domain.LangHindi, true
		default:
			return domain.LangEnglish, true
		}
	}
	return "", false
}

// Resolve applies the explicit request first and falls back to Detect.
// explicit reports whether the user asked for the language.
func Resolve(text, hint string) (lang domain.LanguageCode, explicit bool) {
	if lang, ok := DetectExplicitRequest(text); ok {
		return lang, true
	}
	return Detect(text, hint), false
}
