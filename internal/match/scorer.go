package match

import (
	"strings"

	"talentmatch-engine/internal/config"
	"talentmatch-engine/internal/domain"
)

// Scorer computes the 0..100 compatibility between one criteria value and
// one listing. It is pure: no clock, no randomness, no shared state, so
// identical inputs always produce identical scores and calls may run in
// parallel across listings.
//
// Every comparator yields full credit when its criterion is absent, which
// gives the monotonicity guarantee: removing a criterion can never lower a
// listing's score versus keeping it unsatisfied.
type Scorer struct {
	W config.Weights
}

func NewScorer(w config.Weights) Scorer {
	return Scorer{W: w}
}

// Score evaluates the weighted comparator table. distanceKm is the
// already-computed distance from the resolved search center, nil when the
// center was unresolved or the listing has no coordinates.
func (s Scorer) Score(c domain.SearchCriteria, l domain.ListingAttributes, distanceKm *float64) float64 {
	total := s.W.Title*titleCredit(c.Title, l.Title) +
		s.W.Distance*distanceCredit(c, distanceKm) +
		s.W.Salary*salaryCredit(c, l) +
		s.W.Skills*coverageCredit(c.Skills, l.Skills) +
		s.W.Qualifications*coverageCredit(c.Qualifications, l.Qualifications) +
		s.W.Languages*languageCredit(c.Languages, l.Languages) +
		s.W.Experience*experienceCredit(c, l) +
		s.W.ContractTerms*coverageCredit(c.ContractTerms, l.ContractTerms) +
		s.W.Licenses*coverageCredit(c.DrivingLicenses, l.DrivingLicenses) +
		s.W.Benefits*coverageCredit(c.Benefits, l.Benefits) +
		s.W.HomeOffice*homeOfficeCredit(c, l) +
		s.W.Vacation*vacationCredit(c, l)

	if total < 0 {
		return 0
	}
	if total > 100 {
		return 100
	}
	return total
}

// titleCredit is the token-overlap ratio: how many query tokens appear in
// the listing title. No query title means no constraint.
func titleCredit(query, title string) float64 {
	qTokens := tokens(query)
	if len(qTokens) == 0 {
		return 1
	}
	tTokens := map[string]bool{}
	for _, t := range tokens(title) {
		tTokens[t] = true
	}
	hits := 0
	for _, t := range qTokens {
		if tTokens[t] {
			hits++
		}
	}
	return float64(hits) / float64(len(qTokens))
}

func tokens(s string) []string {
	var out []string
	for _, f := range strings.Fields(strings.ToLower(s)) {
		f = strings.Trim(f, ".,()/-")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// distanceCredit decays linearly from full at 0 km to zero at the radius
// boundary. An unresolved distance earns nothing; no city in the criteria
// means location was never a constraint.
func distanceCredit(c domain.SearchCriteria, distanceKm *float64) float64 {
	if c.City == "" {
		return 1
	}
	if distanceKm == nil || c.RadiusKm <= 0 {
		return 0
	}
	credit := 1 - *distanceKm/c.RadiusKm
	if credit < 0 {
		return 0
	}
	return credit
}

// salaryCredit gives full credit when the listing range sits inside the
// requested range, proportional credit for a partial overlap, zero when
// disjoint. A required signing bonus averages in as a pass/fail sub-part.
func salaryCredit(c domain.SearchCriteria, l domain.ListingAttributes) float64 {
	base := rangeCredit(c.Salary, l.Salary)
	if c.MinSigningBonus <= 0 {
		return base
	}
	bonus := 0.0
	if l.SigningBonus >= c.MinSigningBonus {
		bonus = 1.0
	}
	return (base + bonus) / 2
}

func rangeCredit(want, have domain.SalaryRange) float64 {
	if have.Empty() {
		// Listing did not state a salary; nothing to hold against it.
		return 1
	}
	overlap := want.Overlap(have)
	span := have.Max - have.Min
	if span == 0 {
		// point salary: in or out
		if have.Min >= want.Min && have.Min <= want.Max {
			return 1
		}
		return 0
	}
	if overlap == span {
		return 1
	}
	return float64(overlap) / float64(span)
}

// coverageCredit is |required ∩ offered| / |required|, case-insensitive.
// Shared by skills, qualifications, contract terms, licenses and benefits.
func coverageCredit(required, offered []string) float64 {
	if len(required) == 0 {
		return 1
	}
	have := map[string]bool{}
	for _, o := range offered {
		have[strings.ToLower(o)] = true
	}
	hits := 0
	for _, r := range required {
		if have[strings.ToLower(r)] {
			hits++
		}
	}
	return float64(hits) / float64(len(required))
}

// languageCredit averages per required language: full at or above the
// required level, half when present below it, zero when absent.
func languageCredit(required []domain.Language, offered []domain.Language) float64 {
	if len(required) == 0 {
		return 1
	}
	levels := map[string]domain.Proficiency{}
	for _, o := range offered {
		levels[strings.ToLower(o.Name)] = o.Level
	}
	sum := 0.0
	for _, r := range required {
		level, ok := levels[strings.ToLower(r.Name)]
		switch {
		case !ok:
			// zero
		case level >= r.Level:
			sum += 1
		default:
			sum += 0.5
		}
	}
	return sum / float64(len(required))
}

// experienceCredit treats both career level and years as minimum bars:
// meeting or exceeding the bar is full credit, falling short earns the
// years comparator proportional credit. Overqualification is never
// penalized on this axis, so FlexibleMatch has nothing extra to disable
// here; its role is selecting scored mode over strict filtering.
func experienceCredit(c domain.SearchCriteria, l domain.ListingAttributes) float64 {
	var parts []float64

	if c.CareerLevel != "" {
		want, wOK := careerRank(c.CareerLevel)
		have, hOK := careerRank(l.CareerLevel)
		switch {
		case wOK && hOK:
			if have >= want {
				parts = append(parts, 1)
			} else {
				parts = append(parts, 0)
			}
		case strings.EqualFold(c.CareerLevel, l.CareerLevel):
			parts = append(parts, 1)
		default:
			parts = append(parts, 0)
		}
	}

	if c.ExperienceYears > 0 {
		if l.ExperienceYears >= c.ExperienceYears {
			parts = append(parts, 1)
		} else {
			parts = append(parts, float64(l.ExperienceYears)/float64(c.ExperienceYears))
		}
	}

	if len(parts) == 0 {
		return 1
	}
	sum := 0.0
	for _, p := range parts {
		sum += p
	}
	return sum / float64(len(parts))
}

var careerRanks = map[string]int{
	"intern":    1,
	"trainee":   1,
	"entry":     2,
	"junior":    2,
	"mid":       3,
	"senior":    4,
	"lead":      5,
	"executive": 6,
}

func careerRank(level string) (int, bool) {
	r, ok := careerRanks[strings.ToLower(strings.TrimSpace(level))]
	return r, ok
}

func homeOfficeCredit(c domain.SearchCriteria, l domain.ListingAttributes) float64 {
	if !c.HomeOffice || l.HomeOffice {
		return 1
	}
	return 0
}

func vacationCredit(c domain.SearchCriteria, l domain.ListingAttributes) float64 {
	if c.MinVacationDays <= 0 || l.VacationDays >= c.MinVacationDays {
		return 1
	}
	return 0
}
