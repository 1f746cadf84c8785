package domain

// SectionName identifies one of the four perspectives of a structured answer.
type SectionName string

const (
	SectionPsychological    SectionName = "psychological"
	SectionPhilosophical    SectionName = "philosophical"
	SectionAutobiographical SectionName = "autobiographical"
	SectionLogical          SectionName = "logical"
)

// KeyPointsField is the JSON key holding a section's key points.
const KeyPointsField = "key_points"

// MaxKeyPoints is the number of key points kept per section.
const MaxKeyPoints = 3

// Sections lists the four perspectives in their canonical order.
var Sections = []SectionName{
	SectionPsychological,
	SectionPhilosophical,
	SectionAutobiographical,
	SectionLogical,
}

// LeadField returns the JSON key of the section's lead text.
func (s SectionName) LeadField() string {
	switch s {
	case SectionPsychological:
		return "analysis"
	case SectionPhilosophical:
		return "perspective"
	case SectionAutobiographical:
		return "story"
	case SectionLogical:
		return "framework"
	default:
		return ""
	}
}

// Section is one perspective: a short lead sentence plus up to three key points.
type Section struct {
	Lead      string
	KeyPoints []string
}

// StructuredAnswer is the four-perspective response. It is only ever built
// with all four sections present.
type StructuredAnswer struct {
	Psychological    Section
	Philosophical    Section
	Autobiographical Section
	Logical          Section
}

// Section returns the section stored under name.
func (a *StructuredAnswer) Section(name SectionName) *Section {
	switch name {
	case SectionPsychological:
		return &a.Psychological
	case SectionPhilosophical:
		return &a.Philosophical
	case SectionAutobiographical:
		return &a.Autobiographical
	case SectionLogical:
		return &a.Logical
	default:
		return nil
	}
}

// AllKeyPoints returns every key point in canonical section order.
func (a StructuredAnswer) AllKeyPoints() []string {
	var out []string
	for _, name := range Sections {
		out = append(out, a.Section(name).KeyPoints...)
	}
	return out
}

// MarshalMap renders the answer with the wire keys used by the web client.
func (a StructuredAnswer) MarshalMap() map[string]any {
	out := make(map[string]any, len(Sections))
	for _, name := range Sections {
		sec := a.Section(name)
		points := sec.KeyPoints
		if points == nil {
			points = []string{}
		}
		out[string(name)] = map[string]any{
			name.LeadField(): sec.Lead,
			KeyPointsField:   points,
		}
	}
	return out
}
