package criteria

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"talentmatch-engine/internal/config"
	"talentmatch-engine/internal/domain"
)

// Normalize turns one loosely-typed search request into canonical
// SearchCriteria. It never rejects on bad values: out-of-range numbers are
// clamped, unknown enum values are dropped, legacy shapes are coerced.
// Same raw input always normalizes to the same criteria value.
func Normalize(rawInput map[string]any, cfg config.Config) (domain.SearchCriteria, error) {
	var r raw

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &r,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			languageShapeHook,
			salaryShapeHook,
			proficiencyHook,
		),
	})
	if err != nil {
		return domain.SearchCriteria{}, err
	}
	if err := dec.Decode(rawInput); err != nil {
		return domain.SearchCriteria{}, fmt.Errorf("decode criteria: %w", err)
	}

	return r.canonical(cfg), nil
}

// raw is the decode target: every optional scalar is a pointer so absence
// is distinguishable from zero.
type raw struct {
	Title     string `mapstructure:"title"`
	Sector    string `mapstructure:"sector"`
	Continent string `mapstructure:"continent"`
	Country   string `mapstructure:"country"`
	City      string `mapstructure:"city"`

	RadiusKm *float64 `mapstructure:"radiusKm"`

	Salary          *domain.SalaryRange `mapstructure:"salary"`
	MinSigningBonus int                 `mapstructure:"minSigningBonus"`

	Skills         []string          `mapstructure:"skills"`
	Qualifications []string          `mapstructure:"qualifications"`
	Languages      []domain.Language `mapstructure:"languages"`

	CareerLevel     string `mapstructure:"careerLevel"`
	ExperienceYears *int   `mapstructure:"experienceYears"`

	DrivingLicenses []string `mapstructure:"drivingLicenses"`
	ContractTerms   []string `mapstructure:"contractTerms"`
	HomeOffice      bool     `mapstructure:"homeOffice"`
	Benefits        []string `mapstructure:"benefits"`
	MinVacationDays int      `mapstructure:"minVacationDays"`

	FlexibleMatch     bool     `mapstructure:"flexibleMatch"`
	PartialMatch      bool     `mapstructure:"partialMatch"`
	MinMatchThreshold *float64 `mapstructure:"minMatchThreshold"`
}

func (r raw) canonical(cfg config.Config) domain.SearchCriteria {
	c := domain.SearchCriteria{
		Title:           CleanText(r.Title),
		Sector:          dropAll(r.Sector),
		Continent:       dropAll(r.Continent),
		Country:         dropAll(r.Country),
		City:            dropAll(r.City),
		MinSigningBonus: clampMin(r.MinSigningBonus, 0),
		Skills:          cleanList(r.Skills),
		Qualifications:  cleanList(r.Qualifications),
		Languages:       cleanLanguages(r.Languages),
		CareerLevel:     dropAll(r.CareerLevel),
		DrivingLicenses: cleanList(r.DrivingLicenses),
		ContractTerms:   cleanList(r.ContractTerms),
		HomeOffice:      r.HomeOffice,
		Benefits:        cleanList(r.Benefits),
		MinVacationDays: clampMin(r.MinVacationDays, 0),
		FlexibleMatch:   r.FlexibleMatch,
		PartialMatch:    r.PartialMatch,
	}

	// radius: default applies whenever absent or nonsense
	c.RadiusKm = cfg.Defaults.RadiusKm
	if r.RadiusKm != nil && *r.RadiusKm > 0 {
		c.RadiusKm = *r.RadiusKm
	}

	// salary: default range, partial input completed from defaults
	c.Salary = domain.SalaryRange{Min: cfg.Defaults.SalaryMin, Max: cfg.Defaults.SalaryMax}
	if r.Salary != nil {
		s := *r.Salary
		if s.Min < 0 {
			s.Min = 0
		}
		if s.Max <= 0 {
			s.Max = cfg.Defaults.SalaryMax
		}
		if s.Max < s.Min {
			s.Min, s.Max = s.Max, s.Min
		}
		c.Salary = s
	}

	// experience: clamp into the configured band
	if r.ExperienceYears != nil {
		y := *r.ExperienceYears
		if y < cfg.Defaults.ExperienceMin {
			y = cfg.Defaults.ExperienceMin
		}
		if y > cfg.Defaults.ExperienceMax {
			y = cfg.Defaults.ExperienceMax
		}
		c.ExperienceYears = y
	}

	// threshold: default when absent, clamped into [0,100] otherwise
	c.MinMatchThreshold = cfg.Defaults.MatchThreshold
	if r.MinMatchThreshold != nil {
		t := *r.MinMatchThreshold
		if t < 0 {
			t = 0
		}
		if t > 100 {
			t = 100
		}
		c.MinMatchThreshold = t
	}

	return c
}

// CleanText collapses whitespace runs and trims, including non-breaking
// spaces that survive copy-paste from web forms.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// dropAll maps the "all" sentinel (any case) to the absent value.
func dropAll(s string) string {
	s = CleanText(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

// cleanList trims entries, drops empties, dedupes case-insensitively
// keeping the first spelling. A list containing the "all" sentinel is no
// constraint at all.
func cleanList(xs []string) []string {
	seen := map[string]bool{}
	var ys []string
	for _, x := range xs {
		x = CleanText(x)
		if x == "" {
			continue
		}
		if strings.EqualFold(x, "all") {
			return nil
		}
		key := strings.ToLower(x)
		if seen[key] {
			continue
		}
		seen[key] = true
		ys = append(ys, x)
	}
	return ys
}

func cleanLanguages(ls []domain.Language) []domain.Language {
	seen := map[string]bool{}
	var out []domain.Language
	for _, l := range ls {
		name := CleanText(l.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		level := l.Level
		if level == domain.ProficiencyNone {
			level = domain.DefaultProficiency
		}
		out = append(out, domain.Language{Name: name, Level: level})
	}
	return out
}

func clampMin(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}

// languageShapeHook coerces the legacy bare-string requirement ("English")
// into the canonical {name, level} form with the default level.
func languageShapeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(domain.Language{}) || from.Kind() != reflect.String {
		return data, nil
	}
	return map[string]any{
		"name":  data.(string),
		"level": domain.DefaultProficiency,
	}, nil
}

// salaryShapeHook coerces the legacy two-element array form [min, max] into
// the {min, max} object form.
func salaryShapeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(domain.SalaryRange{}) {
		return data, nil
	}
	if from.Kind() != reflect.Slice && from.Kind() != reflect.Array {
		return data, nil
	}

	v := reflect.ValueOf(data)
	bounds := make([]int, 0, 2)
	for i := 0; i < v.Len() && i < 2; i++ {
		bounds = append(bounds, toInt(v.Index(i).Interface()))
	}
	out := map[string]any{"min": 0, "max": 0}
	if len(bounds) > 0 {
		out["min"] = bounds[0]
	}
	if len(bounds) > 1 {
		out["max"] = bounds[1]
	}
	return out, nil
}

// proficiencyHook parses textual levels ("B2", "native"); unknown text
// falls back to the default level rather than failing the request.
func proficiencyHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(domain.Proficiency(0)) || from.Kind() != reflect.String {
		return data, nil
	}
	p, ok := domain.ParseProficiency(data.(string))
	if !ok {
		p = domain.DefaultProficiency
	}
	return int(p), nil
}

func toInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(x))
		return n
	}
	return 0
}
