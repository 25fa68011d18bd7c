package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"talentmatch-engine/internal/domain"
	"talentmatch-engine/internal/events"
	"talentmatch-engine/internal/store"
)

type GazetteerHandler struct {
	DB      *sql.DB
	Hub     *events.Hub
	Resolve func(ctx context.Context, city, country string) *domain.Coordinate
}

// Lookup answers from the local gazetteer. With resolve=1 a miss goes
// through the geocoding resolver, which writes through on success.
func (h GazetteerHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	city := q.Get("city")
	country := q.Get("country")
	if city == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_city", "city query parameter required")
		return
	}

	coord, found, err := store.LookupCity(r.Context(), h.DB, city, country)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "lookup_failed", err.Error())
		return
	}
	if found {
		writeJSON(w, coord)
		return
	}

	if q.Get("resolve") != "1" || h.Resolve == nil {
		WriteError(w, r, http.StatusNotFound, "unknown_city", "city not in gazetteer")
		return
	}

	resolved := h.Resolve(r.Context(), city, country)
	if resolved == nil {
		WriteError(w, r, http.StatusNotFound, "unresolved", "geocoder could not resolve city")
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.GeocodeResolved(reqID, city, country, resolved.Lat, resolved.Lon))
	writeJSON(w, resolved)
}
