package events

import (
	"encoding/json"
	"time"
)

// Event types published by the engine.
const (
	TypePing            = "ping"
	TypeSearchStarted   = "search_started"
	TypeSearchCompleted = "search_completed"
	TypeSearchFailed    = "search_failed"
	TypeGeocodeResolved = "geocode_resolved"
	TypeListingCreated  = "listing_created"
	TypeListingDeleted  = "listing_deleted"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}

// SearchCompleted is the payload a local UI needs to refresh its list.
func SearchCompleted(reqID, session string, results int, strategy string) string {
	return MakeEvent(reqID, TypeSearchCompleted, 1, map[string]any{
		"session":  session,
		"results":  results,
		"strategy": strategy,
	})
}

func GeocodeResolved(reqID, city, country string, lat, lon float64) string {
	return MakeEvent(reqID, TypeGeocodeResolved, 1, map[string]any{
		"city":    city,
		"country": country,
		"lat":     lat,
		"lon":     lon,
	})
}
