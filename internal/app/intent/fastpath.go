package intent

import (
	"strings"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

// FastPathCategory groups canned small-talk phrases.
type FastPathCategory string

const (
	CategoryName      FastPathCategory = "name"
	CategoryWellbeing FastPathCategory = "wellbeing"
	CategoryThanks    FastPathCategory = "thanks"
	CategoryFarewell  FastPathCategory = "farewell"
	CategoryGreeting  FastPathCategory = "greeting"
)

// maxFastPathWords bounds the utterances in which a multi-word phrase may be embedded.
const maxFastPathWords = 5

type fastPathEntry struct {
	category FastPathCategory
	phrases  []string
	replies  map[domain.LanguageCode]string
}

// Checked in order; the first category with a hit wins.
var fastPathTable = []fastPathEntry{
	{
		category: CategoryName,
		phrases: []string{
			"what is your name", "what's your name", "whats your name", "who are you",
			"tell me your name", "your name",
			"tumhara naam kya hai", "aapka naam kya hai", "tera naam kya hai", "tum kaun ho", "aap kaun ho",
			"तुम्हारा नाम क्या है", "आपका नाम क्या है", "तुम कौन हो", "आप कौन हैं",
		},
		replies: map[domain.LanguageCode]string{
			domain.LangEnglish: "I'm Ruhaan, your personal assistant. Ask me anything, or tell me what you want to get done.",
			domain.LangHindi:   "मैं रुहान हूँ, आपका पर्सनल असिस्टेंट। कुछ भी पूछिए, या बताइए कि आपको क्या करना है।",
		},
	},
	{
		category: CategoryWellbeing,
		phrases: []string{
			"how are you", "how are you doing", "how r u", "how's it going", "hows it going", "what's up", "whats up", "sup",
			"kaise ho", "kaisa hai", "kaise hain", "aap kaise ho", "kya haal hai",
			"कैसे हो", "तुम कैसे हो", "आप कैसे हैं", "क्या हाल है",
		},
		replies: map[domain.LanguageCode]string{
			domain.LangEnglish: "I'm doing great and ready to help. How are you feeling today?",
			domain.LangHindi:   "मैं बढ़िया हूँ और मदद के लिए तैयार हूँ। आज आप कैसा महसूस कर रहे हैं?",
		},
	},
	{
		category: CategoryThanks,
		phrases: []string{
			"thanks", "thank you", "thank you so much", "thanks a lot", "thx", "ok", "okay", "ok thanks",
			"cool", "great", "nice", "got it", "alright", "awesome",
			"shukriya", "dhanyavaad", "dhanyawad", "theek hai", "thik hai", "accha", "acha",
			"धन्यवाद", "शुक्रिया", "ठीक है", "अच्छा",
		},
		replies: map[domain.LanguageCode]string{
			domain.LangEnglish: "You're welcome! Let me know if there's anything else.",
			domain.LangHindi:   "आपका स्वागत है! और कुछ हो तो बताइए।",
		},
	},
	{
		category: CategoryFarewell,
		phrases: []string{
			"bye", "goodbye", "bye bye", "see you", "see you later", "good night", "take care",
			"alvida", "phir milenge",
			"अलविदा", "फिर मिलेंगे", "शुभ रात्रि",
		},
		replies: map[domain.LanguageCode]string{
			domain.LangEnglish: "Goodbye! Take care, and come back whenever you need me.",
			domain.LangHindi:   "अलविदा! अपना ख्याल रखिए, जब ज़रूरत हो वापस आइए।",
		},
	},
	{
		category: CategoryGreeting,
		phrases: []string{
			"hi", "hii", "hello", "hey", "hey there", "hi there", "hello there", "yo", "hola",
			"good morning", "good afternoon", "good evening",
			"namaste", "namaskar", "ram ram",
			"नमस्ते", "नमस्कार", "हेलो", "हैलो", "हाय",
		},
		replies: map[domain.LanguageCode]string{
			domain.LangEnglish: "Hello! I'm Ruhaan. How can I help you today?",
			domain.LangHindi:   "नमस्ते! मैं रुहान हूँ। आज मैं आपकी क्या मदद कर सकता हूँ?",
		},
	},
}

// FastPathMatch is a small-talk hit that needs no model call.
type FastPathMatch struct {
	Category FastPathCategory
	Reply    string
}

// FastPath matches text against the static small-talk lists. A phrase matches when it equals
// the normalized utterance, or when it has several words and appears inside an utterance
// of at most five words.
func FastPath(text string, lang domain.LanguageCode) (FastPathMatch, bool) {
	norm := normalize(text)
	if norm == "" {
		return FastPathMatch{}, false
	}
	wordCount := len(strings.Fields(norm))
	padded := " " + norm + " "

	for _, e := range fastPathTable {
		for _, p := range e.phrases {
			if norm == p {
				return e.match(lang), true
			}
		}
	}
	if wordCount > maxFastPathWords {
		return FastPathMatch{}, false
	}
	for _, e := range fastPathTable {
		for _, p := range e.phrases {
			if strings.Contains(p, " ") && strings.Contains(padded, " "+p+" ") {
				return e.match(lang), true
			}
		}
	}
	return FastPathMatch{}, false
}

func (e fastPathEntry) match(lang domain.LanguageCode) FastPathMatch {
	reply, ok := e.replies[lang]
	if !ok {
		reply = e.replies[domain.LangEnglish]
	}
	return FastPathMatch{Category: e.category, Reply: reply}
}

// normalize lower-cases, collapses whitespace and drops trailing punctuation.
func normalize(text string) string {
	s := strings.ToLower(strings.Join(strings.Fields(text), " "))
	s = strings.TrimRight(s, "?!.,।")
	return strings.TrimSpace(s)
}
