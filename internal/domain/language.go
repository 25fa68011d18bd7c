package domain

import "strings"

// Proficiency is the ordered language scale A1 < A2 < B1 < B2 < C1 < C2 < Native.
type Proficiency int

const (
	ProficiencyNone Proficiency = iota
	ProficiencyA1
	ProficiencyA2
	ProficiencyB1
	ProficiencyB2
	ProficiencyC1
	ProficiencyC2
	ProficiencyNative
)

// DefaultProficiency is assumed when a requirement arrives as a bare
// language name with no level attached.
const DefaultProficiency = ProficiencyB2

var proficiencyNames = map[Proficiency]string{
	ProficiencyA1:     "A1",
	ProficiencyA2:     "A2",
	ProficiencyB1:     "B1",
	ProficiencyB2:     "B2",
	ProficiencyC1:     "C1",
	ProficiencyC2:     "C2",
	ProficiencyNative: "Native",
}

func (p Proficiency) String() string {
	if s, ok := proficiencyNames[p]; ok {
		return s
	}
	return "unknown"
}

// ParseProficiency is case-insensitive. Unknown levels report ok=false so
// callers can fall back to DefaultProficiency.
func ParseProficiency(s string) (Proficiency, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A1":
		return ProficiencyA1, true
	case "A2":
		return ProficiencyA2, true
	case "B1":
		return ProficiencyB1, true
	case "B2":
		return ProficiencyB2, true
	case "C1":
		return ProficiencyC1, true
	case "C2":
		return ProficiencyC2, true
	case "NATIVE":
		return ProficiencyNative, true
	}
	return ProficiencyNone, false
}

// Language pairs a language name with a proficiency level. The same shape
// serves as a requirement on the criteria side and as a skill on the
// listing side.
type Language struct {
	Name  string      `json:"name" yaml:"name"`
	Level Proficiency `json:"level" yaml:"level"`
}
