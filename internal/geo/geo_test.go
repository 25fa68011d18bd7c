package geo

import (
	"math"
	"testing"

	"talentmatch-engine/internal/domain"
)

var berlin = domain.Coordinate{Lat: 52.52, Lon: 13.405}

func TestHaversineKnownDistances(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolKm                  float64
	}{
		{"same point", 52.52, 13.405, 52.52, 13.405, 0, 0.001},
		{"berlin to potsdam-ish", 52.52, 13.405, 52.4, 13.3, 15, 2},
		{"berlin to brandenburg south", 52.52, 13.405, 52.0, 13.0, 60, 5},
		{"berlin to hamburg", 52.52, 13.405, 53.55, 9.993, 255, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Haversine(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			if math.Abs(got-tc.wantKm) > tc.tolKm {
				t.Fatalf("distance = %.2f km, want %.0f±%.0f", got, tc.wantKm, tc.tolKm)
			}
		})
	}
}

func TestWithinRadiusBoundaryInclusive(t *testing.T) {
	// Find a point almost exactly 50 km east of Berlin, then check both
	// sides of the boundary.
	lon := 13.405
	for Haversine(berlin.Lat, berlin.Lon, berlin.Lat, lon) < 50 {
		lon += 0.0001
	}
	d := Haversine(berlin.Lat, berlin.Lon, berlin.Lat, lon)

	if !WithinRadius(berlin, berlin.Lat, lon, d) {
		t.Fatalf("point at exactly %.4f km must be included at radius %.4f", d, d)
	}
	if WithinRadius(berlin, berlin.Lat, lon, d-0.01) {
		t.Fatalf("point at %.4f km must be excluded at radius %.4f", d, d-0.01)
	}
}

func TestWithinRadiusBerlinScenario(t *testing.T) {
	if WithinRadius(berlin, 52.0, 13.0, 50) {
		t.Fatal("listing ~60 km away must be excluded at 50 km radius")
	}
	if !WithinRadius(berlin, 52.4, 13.3, 50) {
		t.Fatal("listing ~15 km away must be included at 50 km radius")
	}
}
