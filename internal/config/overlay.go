package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SeedCity is one gazetteer seed row shipped alongside the config so
// common cities resolve without ever touching the external geocoder.
type SeedCity struct {
	City    string  `yaml:"city"`
	Country string  `yaml:"country"`
	Lat     float64 `yaml:"lat"`
	Lon     float64 `yaml:"lon"`
}

type gazetteerSeedFile struct {
	Cities []SeedCity `yaml:"cities"`
}

// LoadGazetteerSeed reads the optional seed file. A missing file is not an
// error; startup proceeds with an empty gazetteer.
func LoadGazetteerSeed(path string) ([]SeedCity, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}

	var f gazetteerSeedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	return f.Cities, nil
}
