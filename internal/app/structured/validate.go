package structured

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/ruhaan-agent/internal/domain"
)

// ValidationError lists the sections that are missing or malformed.
type ValidationError struct {
	Sections []domain.SectionName
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Sections))
	for i, s := range e.Sections {
		names[i] = string(s)
	}
	return fmt.Sprintf("invalid structured answer: bad sections [%s]", strings.Join(names, ", "))
}

// Validate accepts a document only when all four sections are objects with a non-empty
// lead text and at least one non-empty key point.
func Validate(doc map[string]any) (domain.StructuredAnswer, error) {
	var (
		answer domain.StructuredAnswer
		bad    []domain.SectionName
	)
	for _, name := range domain.Sections {
		sec, ok := parseSection(doc, name)
		if !ok {
			bad = append(bad, name)
			continue
		}
		*answer.Section(name) = sec
	}
	if len(bad) > 0 {
		return domain.StructuredAnswer{}, &ValidationError{Sections: bad}
	}
	return answer, nil
}

func parseSection(doc map[string]any, name domain.SectionName) (domain.Section, bool) {
	obj, ok := doc[string(name)].(map[string]any)
	if !ok {
		return domain.Section{}, false
	}
	lead, ok := obj[name.LeadField()].(string)
	if !ok || strings.TrimSpace(lead) == "" {
		return domain.Section{}, false
	}
	rawPoints, ok := obj[domain.KeyPointsField].([]any)
	if !ok {
		return domain.Section{}, false
	}

	var points []string
	for _, p := range rawPoints {
		if s, ok := p.(string); ok && strings.TrimSpace(s) != "" {
			points = append(points, strings.TrimSpace(s))
		}
	}
	if len(points) == 0 {
		return domain.Section{}, false
	}
	return domain.Section{Lead: strings.TrimSpace(lead), KeyPoints: points}, true
}
