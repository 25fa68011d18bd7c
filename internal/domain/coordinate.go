package domain

// CoordinateSource records where a resolved coordinate came from.
type CoordinateSource string

const (
	SourceCached   CoordinateSource = "cached"
	SourceGeocoded CoordinateSource = "geocoded"
)

// Coordinate is a resolved latitude/longitude pair in decimal degrees.
// Absence is modeled as a nil pointer, never as (0,0).
type Coordinate struct {
	Lat    float64          `json:"lat"`
	Lon    float64          `json:"lon"`
	Source CoordinateSource `json:"source,omitempty"`
}

// MatchResult is one scored entry of a search response. Score is set only
// when flexible or partial matching was active; strict searches include or
// exclude records without scoring them. DistanceKm is set when the search
// center was resolved and the record carries coordinates.
type MatchResult struct {
	RecordID   int64    `json:"recordId"`
	Score      *float64 `json:"score,omitempty"`
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}
