package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"talentmatch-engine/internal/domain"
	"talentmatch-engine/internal/events"
	"talentmatch-engine/internal/store"
)

type ListingsHandler struct {
	DB  *sql.DB
	Hub *events.Hub
}

func (h ListingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var l domain.ListingAttributes
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	kind, ok := domain.ParseListingKind(string(l.Kind))
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_kind", "kind must be job or candidate")
		return
	}
	l.Kind = kind
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	id, err := store.InsertListing(r.Context(), h.DB, l)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "insert_failed", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeListingCreated, 1, map[string]any{"id": id}))
	WriteJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h ListingsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(r)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	l, err := store.GetListing(r.Context(), h.DB, id)
	if errors.Is(err, sql.ErrNoRows) {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such listing")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "load_failed", err.Error())
		return
	}
	writeJSON(w, l)
}

func (h ListingsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id, ok := listingID(r)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	if err := store.DeleteListing(r.Context(), h.DB, id); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "delete_failed", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeListingDeleted, 1, map[string]any{"id": id}))
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

func listingID(r *http.Request) (int64, bool) {
	idStr := strings.TrimPrefix(r.URL.Path, "/listings/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
