package domain

// SalaryRange is a closed [Min, Max] interval in whole currency units per year.
type SalaryRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

func (r SalaryRange) Empty() bool { return r.Min == 0 && r.Max == 0 }

// Overlap returns the length of the intersection with other, 0 when disjoint.
func (r SalaryRange) Overlap(other SalaryRange) int {
	lo := r.Min
	if other.Min > lo {
		lo = other.Min
	}
	hi := r.Max
	if other.Max < hi {
		hi = other.Max
	}
	if hi < lo {
		return 0
	}
	return hi - lo
}

// SearchCriteria is one seeker request in canonical form. It is produced by
// the criteria normalizer and is immutable for the duration of a search.
// Absent filters are the zero value: empty string, empty slice, zero int.
type SearchCriteria struct {
	Title  string `json:"title"`
	Sector string `json:"sector"`

	Continent string  `json:"continent"`
	Country   string  `json:"country"`
	City      string  `json:"city"`
	RadiusKm  float64 `json:"radiusKm"`

	Salary          SalaryRange `json:"salary"`
	MinSigningBonus int         `json:"minSigningBonus"`

	Skills         []string   `json:"skills"`
	Qualifications []string   `json:"qualifications"`
	Languages      []Language `json:"languages"`

	CareerLevel     string `json:"careerLevel"`
	ExperienceYears int    `json:"experienceYears"`

	DrivingLicenses []string `json:"drivingLicenses"`
	ContractTerms   []string `json:"contractTerms"`
	HomeOffice      bool     `json:"homeOffice"`
	Benefits        []string `json:"benefits"`
	MinVacationDays int      `json:"minVacationDays"`

	// FlexibleMatch scores listings without penalizing overqualification.
	// PartialMatch scores listings and filters by MinMatchThreshold instead
	// of excluding on every hard criterion. The two are independent.
	FlexibleMatch     bool    `json:"flexibleMatch"`
	PartialMatch      bool    `json:"partialMatch"`
	MinMatchThreshold float64 `json:"minMatchThreshold"`
}

// Relaxed reports whether the scorer runs at all. With both flags off the
// orchestrator applies hard AND filters and never computes a score.
func (c SearchCriteria) Relaxed() bool { return c.FlexibleMatch || c.PartialMatch }
