package language_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/ruhaan-agent/internal/app/language"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		hint string
		want domain.LanguageCode
	}{
		{"devanagari only", "मुझे नौकरी छोड़ने से डर लगता है", "", domain.LangHindi},
		{"devanagari beats english hint", "नमस्ते", "en-IN", domain.LangHindi},
		{"mixed devanagari and latin", "open यूट्यूब please", "", domain.LangHindi},
		{"telugu script is blocked", "నమస్కారం ఎలా ఉన్నారు", "te-IN", domain.LangEnglish},
		{"tamil script is blocked", "வணக்கம்", "", domain.LangEnglish},
		{"blocked hint discarded", "zzz", "ta-IN", domain.LangEnglish},
		{"blocked hint by name", "zzz", "Marathi", domain.LangEnglish},
		{"hinglish is english", "mujhe kya karna chahiye", "hi-IN", domain.LangEnglish},
		{"english marker beats hindi hint", "what should I do", "hi-IN", domain.LangEnglish},
		{"hindi hint used for unmarked ascii", "zzz qqq", "hi-IN", domain.LangHindi},
		{"english hint used", "zzz qqq", "en-US", domain.LangEnglish},
		{"default", "zzz qqq", "", domain.LangEnglish},
		{"emoji is not a foreign letter", "🙂🙂", "hi-IN", domain.LangHindi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, language.Detect(tt.text, tt.hint))
		})
	}
}

func TestDetectNeverReturnsBlockedLocale(t *testing.T) {
	inputs := []string{"ಹಲೋ", "ഹലോ", "হ্যালো", "ਸਤ ਸ੍ਰੀ ਅਕਾਲ", "سلام", "ଓଡ଼ିଆ", "привет", "こんにちは"}
	for _, in := range inputs {
		for _, hint := range []string{"", "kn-IN", "ml-IN", "bn-IN", "pa-IN", "ur-IN", "or-IN", "as-IN"} {
			assert.Equal(t, domain.LangEnglish, language.Detect(in, hint), "input %q hint %q", in, hint)
		}
	}
}

func TestDetectExplicitRequest(t *testing.T) {
	tests := []struct {
		text   string
		want   domain.LanguageCode
		wantOK bool
	}{
		{"Please tell me in Hindi how to stay focused", domain.LangHindi, true},
		{"can you answer this in english", domain.LangEnglish, true},
		{"reply to me in hindi", domain.LangHindi, true},
		{"hindi mein batao", domain.LangHindi, true},
		{"यह बात हिंदी में बताओ", domain.LangHindi, true},
		{"अंग्रेज़ी में जवाब दो", domain.LangEnglish, true},
		{"I live in hindi speaking belt", "", false},
		{"how are you", "", false},
	}

	for _, tt := range tests {
		got, ok := language.DetectExplicitRequest(tt.text)
		assert.Equal(t, tt.wantOK, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestResolvePrefersExplicitRequest(t *testing.T) {
	lang, explicit := language.Resolve("मुझे english में बताओ... no wait, explain it in english", "hi-IN")
	assert.True(t, explicit)
	assert.Equal(t, domain.LangEnglish, lang)

	lang, explicit = language.Resolve("नमस्ते", "en-IN")
	assert.False(t, explicit)
	assert.Equal(t, domain.LangHindi, lang)
}
