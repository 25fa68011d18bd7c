package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Weights is the per-attribute scoring table. Each comparator contributes
// credit in [0,1] times its weight; the table should sum to 100 so final
// scores land on the 0..100 scale.
type Weights struct {
	Title          float64 `yaml:"title" json:"title"`
	Distance       float64 `yaml:"distance" json:"distance"`
	Salary         float64 `yaml:"salary" json:"salary"`
	Skills         float64 `yaml:"skills" json:"skills"`
	Qualifications float64 `yaml:"qualifications" json:"qualifications"`
	Languages      float64 `yaml:"languages" json:"languages"`
	Experience     float64 `yaml:"experience" json:"experience"`
	ContractTerms  float64 `yaml:"contract_terms" json:"contractTerms"`
	Licenses       float64 `yaml:"licenses" json:"licenses"`
	Benefits       float64 `yaml:"benefits" json:"benefits"`
	HomeOffice     float64 `yaml:"home_office" json:"homeOffice"`
	Vacation       float64 `yaml:"vacation" json:"vacation"`
}

func (w Weights) Total() float64 {
	return w.Title + w.Distance + w.Salary + w.Skills + w.Qualifications +
		w.Languages + w.Experience + w.ContractTerms + w.Licenses +
		w.Benefits + w.HomeOffice + w.Vacation
}

func DefaultWeights() Weights {
	return Weights{
		Title:          10,
		Distance:       10,
		Salary:         10,
		Skills:         20,
		Qualifications: 10,
		Languages:      10,
		Experience:     10,
		ContractTerms:  5,
		Licenses:       5,
		Benefits:       5,
		HomeOffice:     3,
		Vacation:       2,
	}
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"dataDir"`
	} `yaml:"app" json:"app"`

	// Defaults applied by the criteria normalizer when a field is absent
	// or out of range.
	Defaults struct {
		SalaryMin      int     `yaml:"salary_min" json:"salaryMin"`
		SalaryMax      int     `yaml:"salary_max" json:"salaryMax"`
		ExperienceMin  int     `yaml:"experience_min" json:"experienceMin"`
		ExperienceMax  int     `yaml:"experience_max" json:"experienceMax"`
		MatchThreshold float64 `yaml:"match_threshold" json:"matchThreshold"`
		RadiusKm       float64 `yaml:"radius_km" json:"radiusKm"`
	} `yaml:"defaults" json:"defaults"`

	Geocoder struct {
		BaseURL string `yaml:"base_url" json:"baseUrl"`
		// ClientID goes out as the identifying header on every provider
		// call; free providers require one.
		ClientID        string  `yaml:"client_id" json:"clientId"`
		TimeoutSeconds  int     `yaml:"timeout_seconds" json:"timeoutSeconds"`
		RequestsPerSec  float64 `yaml:"requests_per_sec" json:"requestsPerSec"`
		Burst           int     `yaml:"burst" json:"burst"`
		DebounceMillis  int     `yaml:"debounce_millis" json:"debounceMillis"`
		UseKeyringToken bool    `yaml:"use_keyring_token" json:"useKeyringToken"`
	} `yaml:"geocoder" json:"geocoder"`

	Redis struct {
		Addr            string `yaml:"addr" json:"addr"`
		DB              int    `yaml:"db" json:"db"`
		DraftTTLMinutes int    `yaml:"draft_ttl_minutes" json:"draftTtlMinutes"`
	} `yaml:"redis" json:"redis"`

	Scoring struct {
		Weights Weights `yaml:"weights" json:"weights"`
	} `yaml:"scoring" json:"scoring"`

	Maintenance struct {
		GazetteerMaxAgeDays int `yaml:"gazetteer_max_age_days" json:"gazetteerMaxAgeDays"`
		SweepMinutes        int `yaml:"sweep_minutes" json:"sweepMinutes"`
	} `yaml:"maintenance" json:"maintenance"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Default is the config written on first start when no user file exists.
func Default() Config {
	var cfg Config
	cfg.App.Port = 38520
	cfg.App.DataDir = "."
	cfg.Defaults.SalaryMin = 0
	cfg.Defaults.SalaryMax = 250000
	cfg.Defaults.ExperienceMin = 0
	cfg.Defaults.ExperienceMax = 30
	cfg.Defaults.MatchThreshold = 50
	cfg.Defaults.RadiusKm = 200
	cfg.Geocoder.BaseURL = "https://nominatim.openstreetmap.org/search"
	cfg.Geocoder.ClientID = "talentmatch-engine"
	cfg.Geocoder.TimeoutSeconds = 10
	cfg.Geocoder.RequestsPerSec = 1.0
	cfg.Geocoder.Burst = 1
	cfg.Geocoder.DebounceMillis = 500
	cfg.Redis.DraftTTLMinutes = 240
	cfg.Scoring.Weights = DefaultWeights()
	cfg.Maintenance.GazetteerMaxAgeDays = 90
	cfg.Maintenance.SweepMinutes = 60
	return cfg
}
