package match

import (
	"strings"

	"talentmatch-engine/internal/domain"
)

// Satisfies is the strict-mode predicate: every present criterion must be
// fully met, no partial credit anywhere. The orchestrator applies it after
// the store's scalar pre-filter so the strict result set equals the
// intersection of all individually-applied hard filters.
func Satisfies(c domain.SearchCriteria, l domain.ListingAttributes) bool {
	if c.Sector != "" && !strings.EqualFold(c.Sector, l.Sector) {
		return false
	}
	if c.Country != "" && !strings.EqualFold(c.Country, l.Country) {
		return false
	}
	if titleCredit(c.Title, l.Title) < 1 {
		return false
	}
	if !c.Salary.Empty() && !l.Salary.Empty() && c.Salary.Overlap(l.Salary) == 0 && !pointIn(c.Salary, l.Salary) {
		return false
	}
	if c.MinSigningBonus > 0 && l.SigningBonus < c.MinSigningBonus {
		return false
	}
	if coverageCredit(c.Skills, l.Skills) < 1 {
		return false
	}
	if coverageCredit(c.Qualifications, l.Qualifications) < 1 {
		return false
	}
	if languageCredit(c.Languages, l.Languages) < 1 {
		return false
	}
	if experienceCredit(c, l) < 1 {
		return false
	}
	// Contract terms are an accepted set: the listing must offer at least
	// one accepted term, not all of them.
	if len(c.ContractTerms) > 0 && !intersects(c.ContractTerms, l.ContractTerms) {
		return false
	}
	if coverageCredit(c.DrivingLicenses, l.DrivingLicenses) < 1 {
		return false
	}
	if coverageCredit(c.Benefits, l.Benefits) < 1 {
		return false
	}
	if c.HomeOffice && !l.HomeOffice {
		return false
	}
	if c.MinVacationDays > 0 && l.VacationDays < c.MinVacationDays {
		return false
	}
	return true
}

func pointIn(want, have domain.SalaryRange) bool {
	return have.Min == have.Max && have.Min >= want.Min && have.Min <= want.Max
}

func intersects(a, b []string) bool {
	set := map[string]bool{}
	for _, x := range a {
		set[strings.ToLower(x)] = true
	}
	for _, y := range b {
		if set[strings.ToLower(y)] {
			return true
		}
	}
	return false
}
