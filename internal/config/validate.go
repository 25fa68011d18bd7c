package config

import (
	"fmt"
	"math"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus everything wrong or
// suspicious about it. Out-of-range defaults are clamped rather than
// rejected so a hand-edited config still boots.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	// ---- normalizer defaults ----

	if out.Defaults.SalaryMax <= out.Defaults.SalaryMin {
		res.addWarn("defaults.salary_max <= salary_min; falling back to [0, 250000]")
		out.Defaults.SalaryMin = 0
		out.Defaults.SalaryMax = 250000
	}
	if out.Defaults.ExperienceMax <= out.Defaults.ExperienceMin {
		res.addWarn("defaults.experience range is empty; falling back to [0, 30]")
		out.Defaults.ExperienceMin = 0
		out.Defaults.ExperienceMax = 30
	}
	if out.Defaults.MatchThreshold < 0 {
		out.Defaults.MatchThreshold = 0
	}
	if out.Defaults.MatchThreshold > 100 {
		out.Defaults.MatchThreshold = 100
	}
	if out.Defaults.RadiusKm <= 0 {
		res.addWarn("defaults.radius_km must be > 0; using 200")
		out.Defaults.RadiusKm = 200
	}

	// ---- scoring weights ----

	w := out.Scoring.Weights
	for name, val := range map[string]float64{
		"title": w.Title, "distance": w.Distance, "salary": w.Salary,
		"skills": w.Skills, "qualifications": w.Qualifications,
		"languages": w.Languages, "experience": w.Experience,
		"contract_terms": w.ContractTerms, "licenses": w.Licenses,
		"benefits": w.Benefits, "home_office": w.HomeOffice,
		"vacation": w.Vacation,
	} {
		if val < 0 {
			res.addErr("scoring.weights.%s must be >= 0", name)
		}
	}
	if total := w.Total(); total == 0 {
		res.addWarn("scoring.weights are all zero; using defaults")
		out.Scoring.Weights = DefaultWeights()
	} else if math.Abs(total-100) > 0.01 {
		res.addWarn("scoring.weights sum to %.1f, not 100; scores will not span 0..100", total)
	}

	// ---- geocoder ----

	if out.Geocoder.BaseURL == "" {
		res.addErr("geocoder.base_url is required")
	}
	if out.Geocoder.ClientID == "" {
		res.addErr("geocoder.client_id is required; providers reject anonymous clients")
	}
	if out.Geocoder.TimeoutSeconds <= 0 {
		out.Geocoder.TimeoutSeconds = 10
	}
	if out.Geocoder.RequestsPerSec <= 0 {
		out.Geocoder.RequestsPerSec = 1.0
	}
	if out.Geocoder.Burst <= 0 {
		out.Geocoder.Burst = 1
	}
	if out.Geocoder.DebounceMillis < 0 {
		out.Geocoder.DebounceMillis = 500
	}
	if out.Geocoder.RequestsPerSec > 2 {
		res.addWarn("geocoder.requests_per_sec is %.1f; public providers usually allow 1/s", out.Geocoder.RequestsPerSec)
	}

	// ---- redis / maintenance ----

	if out.Redis.Addr != "" && out.Redis.DraftTTLMinutes <= 0 {
		res.addWarn("redis.draft_ttl_minutes <= 0; drafts would never expire, using 240")
		out.Redis.DraftTTLMinutes = 240
	}
	if out.Maintenance.SweepMinutes <= 0 {
		out.Maintenance.SweepMinutes = 60
	}
	if out.Maintenance.GazetteerMaxAgeDays <= 0 {
		out.Maintenance.GazetteerMaxAgeDays = 90
	}

	return out, res
}
