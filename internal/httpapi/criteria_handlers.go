package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"talentmatch-engine/internal/config"
	"talentmatch-engine/internal/criteria"
	"talentmatch-engine/internal/domain"
	"talentmatch-engine/internal/geocode"
	"talentmatch-engine/internal/session"
)

type CriteriaHandler struct {
	Drafts session.Store
	CfgVal *atomic.Value // stores config.Config

	// Optional location prewarming. A UI sends one PUT per keystroke;
	// the debouncer makes sure only the settled city reaches the
	// geocoding provider.
	Resolve  func(ctx context.Context, city, country string) *domain.Coordinate
	Debounce *geocode.Debouncer
}

func (h CriteriaHandler) prewarmLocation(city, country string) {
	if city == "" || h.Resolve == nil || h.Debounce == nil {
		return
	}
	h.Debounce.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		h.Resolve(ctx, city, country)
	})
}

type createDraftResp struct {
	Session string `json:"session"`
}

// Create starts a fresh draft session. The body, when present, is the
// initial raw criteria.
func (h CriteriaHandler) Create(w http.ResponseWriter, r *http.Request) {
	raw := map[string]any{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
	}

	cfg := h.CfgVal.Load().(config.Config)
	c, err := criteria.Normalize(raw, cfg)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_criteria", err.Error())
		return
	}

	id := uuid.NewString()
	if err := h.Drafts.Put(r.Context(), id, c); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "draft_save_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusCreated, createDraftResp{Session: id})
}

func (h CriteriaHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_session", "session id required")
		return
	}
	c, found, err := h.Drafts.Get(r.Context(), id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "draft_load_failed", err.Error())
		return
	}
	if !found {
		WriteError(w, r, http.StatusNotFound, "draft_not_found", "no draft criteria for session")
		return
	}
	writeJSON(w, c)
}

// PutByPath replaces the draft with the normalized form of the raw body
// and echoes the canonical criteria back, so the UI always renders what
// the engine will actually search with.
func (h CriteriaHandler) PutByPath(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_session", "session id required")
		return
	}

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	c, err := criteria.Normalize(raw, cfg)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_criteria", err.Error())
		return
	}
	if err := h.Drafts.Put(r.Context(), id, c); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "draft_save_failed", err.Error())
		return
	}
	h.prewarmLocation(c.City, c.Country)
	writeJSON(w, c)
}

func (h CriteriaHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_session", "session id required")
		return
	}
	if err := h.Drafts.Delete(r.Context(), id); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "draft_delete_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "session": id})
}

func sessionID(r *http.Request) string {
	return strings.TrimPrefix(r.URL.Path, "/criteria/")
}
