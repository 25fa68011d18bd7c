package criteria

import (
	"reflect"
	"testing"

	"talentmatch-engine/internal/config"
	"talentmatch-engine/internal/domain"
)

func testCfg() config.Config { return config.Default() }

func TestNormalizeDefaults(t *testing.T) {
	c, err := Normalize(map[string]any{}, testCfg())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if c.Salary.Min != 0 || c.Salary.Max != 250000 {
		t.Errorf("salary default = [%d,%d], want [0,250000]", c.Salary.Min, c.Salary.Max)
	}
	if c.MinMatchThreshold != 50 {
		t.Errorf("threshold default = %v, want 50", c.MinMatchThreshold)
	}
	if c.RadiusKm != 200 {
		t.Errorf("radius default = %v, want 200", c.RadiusKm)
	}
	if c.ExperienceYears != 0 {
		t.Errorf("experience default = %d, want 0", c.ExperienceYears)
	}
}

func TestNormalizeLanguageShapes(t *testing.T) {
	c, err := Normalize(map[string]any{
		"languages": []any{
			"German",
			map[string]any{"name": "English", "level": "C1"},
			map[string]any{"name": "French", "level": "gibberish"},
		},
	}, testCfg())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	want := []domain.Language{
		{Name: "German", Level: domain.ProficiencyB2},
		{Name: "English", Level: domain.ProficiencyC1},
		{Name: "French", Level: domain.ProficiencyB2},
	}
	if !reflect.DeepEqual(c.Languages, want) {
		t.Fatalf("languages = %+v, want %+v", c.Languages, want)
	}
}

func TestNormalizeSalaryShapes(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want domain.SalaryRange
	}{
		{"object", map[string]any{"min": 40000, "max": 90000}, domain.SalaryRange{Min: 40000, Max: 90000}},
		{"legacy array", []any{40000, 90000}, domain.SalaryRange{Min: 40000, Max: 90000}},
		{"inverted bounds", []any{90000, 40000}, domain.SalaryRange{Min: 40000, Max: 90000}},
		{"negative min clamped", map[string]any{"min": -5, "max": 90000}, domain.SalaryRange{Min: 0, Max: 90000}},
		{"missing max completed", []any{40000}, domain.SalaryRange{Min: 40000, Max: 250000}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Normalize(map[string]any{"salary": tc.in}, testCfg())
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if c.Salary != tc.want {
				t.Fatalf("salary = %+v, want %+v", c.Salary, tc.want)
			}
		})
	}
}

func TestNormalizeAllSentinelAndEmptyLists(t *testing.T) {
	c, err := Normalize(map[string]any{
		"sector":        "ALL",
		"careerLevel":   "all",
		"country":       "Germany",
		"skills":        []any{},
		"contractTerms": []any{"permanent", "all"},
		"benefits":      []any{" gym ", "Gym", ""},
	}, testCfg())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if c.Sector != "" || c.CareerLevel != "" {
		t.Errorf("sentinel fields should be dropped, got sector=%q careerLevel=%q", c.Sector, c.CareerLevel)
	}
	if c.Country != "Germany" {
		t.Errorf("country = %q, want Germany", c.Country)
	}
	if c.Skills != nil {
		t.Errorf("empty skills array should normalize to nil, got %v", c.Skills)
	}
	if c.ContractTerms != nil {
		t.Errorf("list containing sentinel should drop the filter, got %v", c.ContractTerms)
	}
	if len(c.Benefits) != 1 || c.Benefits[0] != "gym" {
		t.Errorf("benefits = %v, want deduped [gym]", c.Benefits)
	}
}

func TestNormalizeClampsThresholdAndExperience(t *testing.T) {
	c, err := Normalize(map[string]any{
		"minMatchThreshold": 180,
		"experienceYears":   99,
	}, testCfg())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if c.MinMatchThreshold != 100 {
		t.Errorf("threshold = %v, want clamped to 100", c.MinMatchThreshold)
	}
	if c.ExperienceYears != 30 {
		t.Errorf("experience = %d, want clamped to 30", c.ExperienceYears)
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	in := map[string]any{
		"title":     "  Senior   Go Engineer ",
		"skills":    []any{"Go", "SQL", "go"},
		"languages": []any{"English"},
		"salary":    []any{50000, 120000},
	}
	a, err := Normalize(in, testCfg())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	b, err := Normalize(in, testCfg())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("normalize is not referentially transparent:\n%+v\n%+v", a, b)
	}
	if a.Title != "Senior Go Engineer" {
		t.Errorf("title = %q, want collapsed whitespace", a.Title)
	}
	if len(a.Skills) != 2 {
		t.Errorf("skills = %v, want case-insensitive dedupe to 2", a.Skills)
	}
}
