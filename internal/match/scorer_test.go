package match

import (
	"testing"

	"talentmatch-engine/internal/config"
	"talentmatch-engine/internal/domain"
)

func defaultCriteria() domain.SearchCriteria {
	return domain.SearchCriteria{
		Salary:   domain.SalaryRange{Min: 0, Max: 250000},
		RadiusKm: 200,
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	s := NewScorer(config.DefaultWeights())
	c := defaultCriteria()
	c.Title = "Go Engineer"
	c.Skills = []string{"Go", "SQL"}
	c.Languages = []domain.Language{{Name: "English", Level: domain.ProficiencyC1}}

	l := domain.ListingAttributes{
		Title:     "Senior Go Engineer",
		Skills:    []string{"Go"},
		Languages: []domain.Language{{Name: "English", Level: domain.ProficiencyB2}},
		Salary:    domain.SalaryRange{Min: 60000, Max: 90000},
	}

	d := 12.5
	first := s.Score(c, l, &d)
	for i := 0; i < 10; i++ {
		if got := s.Score(c, l, &d); got != first {
			t.Fatalf("score changed between identical calls: %v vs %v", got, first)
		}
	}
}

func TestScoreMonotonicity(t *testing.T) {
	// Removing an unsatisfied criterion must never decrease the score.
	s := NewScorer(config.DefaultWeights())
	l := domain.ListingAttributes{
		Title:  "Backend Developer",
		Skills: []string{"Python"},
	}

	with := defaultCriteria()
	with.Skills = []string{"Go", "Rust"} // unsatisfied

	without := with
	without.Skills = nil

	if s.Score(with, l, nil) > s.Score(without, l, nil) {
		t.Fatalf("removing an unsatisfied skill filter lowered the score: with=%v without=%v",
			s.Score(with, l, nil), s.Score(without, l, nil))
	}

	// Same for languages.
	with2 := defaultCriteria()
	with2.Languages = []domain.Language{{Name: "Japanese", Level: domain.ProficiencyC2}}
	without2 := with2
	without2.Languages = nil
	if s.Score(with2, l, nil) > s.Score(without2, l, nil) {
		t.Fatal("removing an unsatisfied language requirement lowered the score")
	}
}

func TestStrictModeSkillCoverage(t *testing.T) {
	// Criteria {skills: [Go, SQL]}, listing A has a superset, listing B
	// misses SQL. Strict mode includes A and excludes B.
	c := defaultCriteria()
	c.Skills = []string{"Go", "SQL"}

	a := domain.ListingAttributes{Skills: []string{"Go", "SQL", "Python"}}
	b := domain.ListingAttributes{Skills: []string{"Go"}}

	if !Satisfies(c, a) {
		t.Error("listing with superset of required skills must satisfy strict mode")
	}
	if Satisfies(c, b) {
		t.Error("listing missing a required skill must fail strict mode")
	}
}

func TestPartialModeSkillScore(t *testing.T) {
	// Skills weighted 40 of 100; listing covers 1 of 2 skills -> 20 of 40.
	// Every other axis satisfied -> 60 of 60. Total 80.
	w := config.Weights{
		Skills: 40,
		Title:  20, Salary: 20, Languages: 20,
	}
	s := NewScorer(w)

	c := defaultCriteria()
	c.Skills = []string{"Go", "SQL"}
	c.PartialMatch = true
	c.MinMatchThreshold = 50

	b := domain.ListingAttributes{Skills: []string{"Go"}}

	got := s.Score(c, b, nil)
	if got != 80 {
		t.Fatalf("score = %v, want 80 (20/40 skills + 60/60 rest)", got)
	}
	if got < c.MinMatchThreshold {
		t.Fatalf("score %v must clear threshold %v", got, c.MinMatchThreshold)
	}
}

func TestLanguageBelowLevelGetsHalfCredit(t *testing.T) {
	w := config.Weights{Languages: 100}
	s := NewScorer(w)

	c := defaultCriteria()
	c.Languages = []domain.Language{{Name: "English", Level: domain.ProficiencyC1}}

	cases := []struct {
		name  string
		level domain.Proficiency
		want  float64
	}{
		{"below required level", domain.ProficiencyB2, 50},
		{"at required level", domain.ProficiencyC1, 100},
		{"above required level", domain.ProficiencyNative, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := domain.ListingAttributes{
				Languages: []domain.Language{{Name: "English", Level: tc.level}},
			}
			if got := s.Score(c, l, nil); got != tc.want {
				t.Fatalf("score = %v, want %v", got, tc.want)
			}
		})
	}

	t.Run("absent language gets zero", func(t *testing.T) {
		l := domain.ListingAttributes{}
		if got := s.Score(c, l, nil); got != 0 {
			t.Fatalf("score = %v, want 0", got)
		}
	})
}

func TestDistanceCreditDecaysLinearly(t *testing.T) {
	w := config.Weights{Distance: 100}
	s := NewScorer(w)

	c := defaultCriteria()
	c.City = "Berlin"
	c.RadiusKm = 100

	at := func(km float64) float64 { return s.Score(c, domain.ListingAttributes{}, &km) }

	if got := at(0); got != 100 {
		t.Errorf("at 0 km = %v, want 100", got)
	}
	if got := at(50); got != 50 {
		t.Errorf("at half radius = %v, want 50", got)
	}
	if got := at(100); got != 0 {
		t.Errorf("at boundary = %v, want 0", got)
	}
	if got := s.Score(c, domain.ListingAttributes{}, nil); got != 0 {
		t.Errorf("unresolved distance = %v, want 0", got)
	}
}

func TestExperienceIsAMinimumBar(t *testing.T) {
	w := config.Weights{Experience: 100}
	s := NewScorer(w)

	c := defaultCriteria()
	c.ExperienceYears = 5

	over := domain.ListingAttributes{ExperienceYears: 20}
	exact := domain.ListingAttributes{ExperienceYears: 5}
	under := domain.ListingAttributes{ExperienceYears: 2}

	// Overqualification scores full with or without the flexible flag.
	for _, flexible := range []bool{false, true} {
		c.FlexibleMatch = flexible
		if got := s.Score(c, over, nil); got != 100 {
			t.Errorf("flexible=%v: 20y vs 5y required = %v, want 100", flexible, got)
		}
	}
	if got := s.Score(c, exact, nil); got != 100 {
		t.Errorf("exact match = %v, want 100", got)
	}
	if got := s.Score(c, under, nil); got != 40 {
		t.Errorf("2y vs 5y required = %v, want proportional 40", got)
	}
}

func TestHomeOfficeAndVacation(t *testing.T) {
	w := config.Weights{HomeOffice: 60, Vacation: 40}
	s := NewScorer(w)

	c := defaultCriteria()
	c.HomeOffice = true
	c.MinVacationDays = 25

	both := domain.ListingAttributes{HomeOffice: true, VacationDays: 30}
	neither := domain.ListingAttributes{HomeOffice: false, VacationDays: 20}

	if got := s.Score(c, both, nil); got != 100 {
		t.Errorf("both satisfied = %v, want 100", got)
	}
	if got := s.Score(c, neither, nil); got != 0 {
		t.Errorf("neither satisfied = %v, want 0", got)
	}
}

func TestScoreClampedToScale(t *testing.T) {
	// A weight table summing over 100 must still clamp at 100.
	w := config.DefaultWeights()
	w.Skills = 120
	s := NewScorer(w)

	c := defaultCriteria()
	c.Skills = []string{"Go"}
	l := domain.ListingAttributes{Skills: []string{"Go"}}

	if got := s.Score(c, l, nil); got != 100 {
		t.Fatalf("score = %v, want clamp at 100", got)
	}
}
