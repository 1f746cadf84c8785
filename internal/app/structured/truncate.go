package structured

import "github.com/PabloGalante/ruhaan-agent/internal/domain"

// Lead text limits, in runes.
const (
	leadMaxLen      = 120
	leadSearchLen   = 200
	leadMinSentence = 100
)

// TruncateLead shortens a lead text to roughly 120 runes. It cuts after the last sentence end
// within the first 200 runes when that end sits at index 100 or later. Without any sentence end
// a text longer than 200 runes is cut at 200; every other case is cut at 120.
func TruncateLead(s string) string {
	r := []rune(s)
	if len(r) <= leadMaxLen {
		return s
	}

	window := r
	if len(window) > leadSearchLen {
		window = window[:leadSearchLen]
	}
	idx := -1
	for i := len(window) - 1; i >= 0; i-- {
		if isSentenceEnd(window[i]) {
			idx = i
			break
		}
	}

	switch {
	case idx >= leadMinSentence:
		return string(r[:idx+1])
	case idx < 0 && len(r) > leadSearchLen:
		return string(r[:leadSearchLen])
	default:
		return string(r[:leadMaxLen])
	}
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '।'
}

// postProcess truncates lead texts and caps key points per section.
func postProcess(a domain.StructuredAnswer) domain.StructuredAnswer {
	for _, name := range domain.Sections {
		sec := a.Section(name)
		sec.Lead = TruncateLead(sec.Lead)
		if len(sec.KeyPoints) > domain.MaxKeyPoints {
			sec.KeyPoints = sec.KeyPoints[:domain.MaxKeyPoints]
		}
	}
	return a
}
