package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"talentmatch-engine/internal/config"
	"talentmatch-engine/internal/domain"
	"talentmatch-engine/internal/events"
	"talentmatch-engine/internal/match"
	"talentmatch-engine/internal/rank"
	"talentmatch-engine/internal/search"
	"talentmatch-engine/internal/session"
	"talentmatch-engine/internal/store"
)

func testServer(t *testing.T) (*httptest.Server, *store.DB) {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "engine.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg, _ := config.NormalizeAndValidate(config.Default())
	cfgVal := &atomic.Value{}
	cfgVal.Store(cfg)

	log := zap.NewNop()
	engine := search.New(
		search.SQLStore{DB: db.Pool},
		noResolver{},
		match.NewScorer(cfg.Scoring.Weights),
		rank.NewSeeded(1),
		log,
	)

	d := Deps{
		DB:     db.Pool,
		Hub:    events.NewHub(),
		Engine: engine,
		Drafts: session.NewMemory(),
		CfgVal: cfgVal,
		Log:    log,
	}
	srv := httptest.NewServer(Chain(NewMux(d), RequestID, Recover(log)))
	t.Cleanup(srv.Close)
	return srv, db
}

type noResolver struct{}

func (noResolver) Resolve(ctx context.Context, city, country string) *domain.Coordinate {
	return nil
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestListingCreateAndSearch(t *testing.T) {
	srv, _ := testServer(t)

	resp := postJSON(t, srv.URL+"/listings", map[string]any{
		"kind":   "job",
		"title":  "Go Engineer",
		"skills": []string{"go", "sql"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create listing: status %d", resp.StatusCode)
	}
	created := decode[map[string]any](t, resp)
	if created["id"] == nil {
		t.Fatalf("create listing: no id in %v", created)
	}

	resp = postJSON(t, srv.URL+"/search", map[string]any{
		"kind":     "job",
		"strategy": "match",
		"criteria": map[string]any{
			"skills":        []string{"go"},
			"flexibleMatch": true,
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search: status %d", resp.StatusCode)
	}
	sr := decode[searchResp](t, resp)
	if len(sr.Results) != 1 {
		t.Fatalf("search results: %+v", sr.Results)
	}
	if sr.Results[0].Score == nil {
		t.Fatal("flexible search must attach a score")
	}
}

func TestSearchRejectsBadKind(t *testing.T) {
	srv, _ := testServer(t)

	resp := postJSON(t, srv.URL+"/search", map[string]any{
		"kind":     "gig",
		"criteria": map[string]any{},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for unknown kind, got %d", resp.StatusCode)
	}
}

func TestCriteriaDraftRoundTrip(t *testing.T) {
	srv, _ := testServer(t)

	resp := postJSON(t, srv.URL+"/criteria", map[string]any{
		"title":  "backend developer",
		"skills": []string{"Go", "go", " sql "},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create draft: status %d", resp.StatusCode)
	}
	created := decode[createDraftResp](t, resp)
	if created.Session == "" {
		t.Fatal("create draft: empty session id")
	}

	getResp, err := http.Get(srv.URL + "/criteria/" + created.Session)
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("get draft: status %d", getResp.StatusCode)
	}
	c := decode[domain.SearchCriteria](t, getResp)
	if len(c.Skills) != 2 {
		t.Fatalf("draft must hold deduplicated skills, got %v", c.Skills)
	}

	// Search by session alone reuses the stored draft.
	resp = postJSON(t, srv.URL+"/search", map[string]any{
		"kind":    "job",
		"session": created.Session,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search by session: status %d", resp.StatusCode)
	}
}

func TestCriteriaUnknownSession(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/criteria/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
}

func TestGazetteerLookup(t *testing.T) {
	srv, db := testServer(t)

	err := store.UpsertCity(t.Context(), db.Pool, "Berlin", "Germany",
		domain.Coordinate{Lat: 52.52, Lon: 13.405, Source: domain.SourceCached})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	resp, err := http.Get(srv.URL + "/gazetteer?city=Berlin&country=Germany")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("lookup: status %d", resp.StatusCode)
	}
	coord := decode[domain.Coordinate](t, resp)
	if coord.Lat != 52.52 || coord.Lon != 13.405 {
		t.Fatalf("lookup coordinate: %+v", coord)
	}

	miss, err := http.Get(srv.URL + "/gazetteer?city=Atlantis")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer miss.Body.Close()
	if miss.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404 for unknown city, got %d", miss.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/search")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d", resp.StatusCode)
	}
	if allow := resp.Header.Get("Allow"); allow != "POST" {
		t.Fatalf("Allow = %q, want POST", allow)
	}
	body := decode[APIError](t, resp)
	if body.Error.Code != "method_not_allowed" {
		t.Fatalf("error code = %q", body.Error.Code)
	}
}
