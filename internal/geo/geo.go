package geo

import (
	"math"

	"talentmatch-engine/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// Haversine returns the great-circle distance in kilometers between two
// points given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rLat1 := degToRad(lat1)
	rLat2 := degToRad(lat2)
	dLat := degToRad(lat2 - lat1)
	dLon := degToRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Distance is Haversine over a resolved center and a raw point.
func Distance(center domain.Coordinate, lat, lon float64) float64 {
	return Haversine(center.Lat, center.Lon, lat, lon)
}

// WithinRadius reports whether the point falls inside the radius.
// The boundary is inclusive: distance == radiusKm counts as inside.
func WithinRadius(center domain.Coordinate, lat, lon, radiusKm float64) bool {
	return Distance(center, lat, lon) <= radiusKm
}
