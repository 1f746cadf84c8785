package llm

import (
	"strings"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

const translationSystemPrompt = `
You are a translation engine for "Ruhaan", a personal assistant.

Rules:
- Translate the user's text into %LANG%.
- Keep the meaning, tone and any numbering ("1.", "2.") exactly.
- Keep names, URLs, numbers and technical terms as they are.
- Output ONLY the translated text. No quotes, no explanations, no notes.
`

// languageNames maps supported locales to the name used in prompts.
var languageNames = map[domain.LanguageCode]string{
	domain.LangEnglish: "English",
	domain.LangHindi:   "Hindi (Devanagari script)",
}

// LanguageName returns the prompt name of a locale, English when unknown.
func LanguageName(code domain.LanguageCode) string {
	if n, ok := languageNames[code]; ok {
		return n
	}
	return languageNames[domain.LangEnglish]
}

// BuildTranslationPrompt returns the messages of a translation request.
func BuildTranslationPrompt(text string, target domain.LanguageCode) []domain.ChatMessage {
	system := strings.ReplaceAll(translationSystemPrompt, "%LANG%", LanguageName(target))
	return []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: strings.TrimSpace(system)},
		{Role: domain.RoleUser, Content: text},
	}
}
