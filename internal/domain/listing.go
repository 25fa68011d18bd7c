package domain

import "time"

// ListingKind selects which side of the marketplace a record belongs to.
// The scorer is symmetric: a candidate searching jobs and an employer
// searching candidates run through the same comparators.
type ListingKind string

const (
	KindJob       ListingKind = "job"
	KindCandidate ListingKind = "candidate"
)

func ParseListingKind(s string) (ListingKind, bool) {
	switch ListingKind(s) {
	case KindJob, KindCandidate:
		return ListingKind(s), true
	}
	return "", false
}

// ListingAttributes is the record under evaluation, mirroring the criteria
// shape so attribute comparators are shared between both search directions.
type ListingAttributes struct {
	ID   int64       `json:"id"`
	Kind ListingKind `json:"kind"`

	Title  string `json:"title"`
	Sector string `json:"sector"`

	Country string      `json:"country"`
	City    string      `json:"city"`
	Coord   *Coordinate `json:"coord,omitempty"`

	Salary       SalaryRange `json:"salary"`
	SigningBonus int         `json:"signingBonus"`

	Skills         []string   `json:"skills"`
	Qualifications []string   `json:"qualifications"`
	Languages      []Language `json:"languages"`

	CareerLevel     string `json:"careerLevel"`
	ExperienceYears int    `json:"experienceYears"`

	DrivingLicenses []string `json:"drivingLicenses"`
	ContractTerms   []string `json:"contractTerms"`
	HomeOffice      bool     `json:"homeOffice"`
	Benefits        []string `json:"benefits"`
	VacationDays    int      `json:"vacationDays"`

	CreatedAt time.Time `json:"createdAt"`
}
