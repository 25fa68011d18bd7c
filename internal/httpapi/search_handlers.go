package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	"talentmatch-engine/internal/config"
	"talentmatch-engine/internal/criteria"
	"talentmatch-engine/internal/domain"
	"talentmatch-engine/internal/events"
	"talentmatch-engine/internal/rank"
	"talentmatch-engine/internal/search"
	"talentmatch-engine/internal/session"
)

type SearchHandler struct {
	Engine *search.Orchestrator
	Hub    *events.Hub
	Drafts session.Store
	CfgVal *atomic.Value // stores config.Config
	Log    *zap.Logger
}

type searchReq struct {
	Session   string         `json:"session"`
	Kind      string         `json:"kind"`
	Strategy  string         `json:"strategy"`
	Ascending bool           `json:"ascending"`
	Criteria  map[string]any `json:"criteria"`
}

type searchResp struct {
	Session  string               `json:"session"`
	Strategy string               `json:"strategy"`
	Results  []domain.MatchResult `json:"results"`
}

func (h SearchHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req searchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	kind, ok := domain.ParseListingKind(req.Kind)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid_kind", "kind must be job or candidate")
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	var c domain.SearchCriteria
	switch {
	case req.Criteria != nil:
		var err error
		c, err = criteria.Normalize(req.Criteria, cfg)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "invalid_criteria", err.Error())
			return
		}
		if req.Session != "" {
			if err := h.Drafts.Put(r.Context(), req.Session, c); err != nil {
				h.Log.Warn("draft save failed", zap.String("session", req.Session), zap.Error(err))
			}
		}
	case req.Session != "":
		draft, found, err := h.Drafts.Get(r.Context(), req.Session)
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "draft_load_failed", err.Error())
			return
		}
		if !found {
			WriteError(w, r, http.StatusNotFound, "draft_not_found", "no draft criteria for session")
			return
		}
		c = draft
	default:
		WriteError(w, r, http.StatusBadRequest, "missing_criteria", "criteria or session required")
		return
	}

	reqID := RequestIDFrom(r.Context())
	strategy := rank.ParseStrategy(req.Strategy)
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeSearchStarted, 1, map[string]any{
		"session": req.Session,
		"kind":    string(kind),
	}))

	results, err := h.Engine.SearchSession(r.Context(), req.Session, c, search.Options{
		Kind:      kind,
		Strategy:  strategy,
		Ascending: req.Ascending,
	})
	switch {
	case errors.Is(err, search.ErrSuperseded):
		WriteError(w, r, http.StatusConflict, "superseded", "a newer search replaced this one")
		return
	case errors.Is(err, rank.ErrNoScores):
		WriteError(w, r, http.StatusBadRequest, "no_scores", "match ordering needs flexible or partial mode")
		return
	case err != nil:
		h.Hub.Publish(events.MakeEvent(reqID, events.TypeSearchFailed, 1, map[string]any{
			"session": req.Session,
		}))
		WriteError(w, r, http.StatusInternalServerError, "search_failed", err.Error())
		return
	}

	h.Hub.Publish(events.SearchCompleted(reqID, req.Session, len(results), string(strategy)))
	if results == nil {
		results = []domain.MatchResult{}
	}
	writeJSON(w, searchResp{Session: req.Session, Strategy: string(strategy), Results: results})
}
