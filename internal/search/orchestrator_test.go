package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"talentmatch-engine/internal/config"
	"talentmatch-engine/internal/domain"
	"talentmatch-engine/internal/match"
	"talentmatch-engine/internal/rank"
)

type fakeStore struct {
	listings map[int64]domain.ListingAttributes

	radius    map[int64]float64
	radiusErr error
	substring []int64

	radiusCalls    int
	substringCalls int

	// blockFirstFetch parks the first ListingsByIDs call until the
	// context is cancelled; later calls proceed normally.
	blockFirstFetch bool
	mu              sync.Mutex
	fetchSeen       bool

	// gateFetch, when set, holds every ListingsByIDs call until the
	// channel is closed.
	gateFetch chan struct{}
}

func (f *fakeStore) CoordsWithinRadius(ctx context.Context, center domain.Coordinate, radiusKm float64, kind domain.ListingKind) (map[int64]float64, error) {
	f.radiusCalls++
	if f.radiusErr != nil {
		return nil, f.radiusErr
	}
	return f.radius, nil
}

func (f *fakeStore) IDsByCitySubstring(ctx context.Context, city string, kind domain.ListingKind) ([]int64, error) {
	f.substringCalls++
	return f.substring, nil
}

func (f *fakeStore) StrictFilterIDs(ctx context.Context, c domain.SearchCriteria, kind domain.ListingKind) ([]int64, error) {
	return f.allIDs(kind), nil
}

func (f *fakeStore) IDsByKind(ctx context.Context, kind domain.ListingKind) ([]int64, error) {
	return f.allIDs(kind), nil
}

func (f *fakeStore) ListingsByIDs(ctx context.Context, ids []int64) ([]domain.ListingAttributes, error) {
	if f.gateFetch != nil {
		select {
		case <-f.gateFetch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.blockFirstFetch {
		f.mu.Lock()
		first := !f.fetchSeen
		f.fetchSeen = true
		f.mu.Unlock()
		if first {
			<-ctx.Done()
			return nil, ctx.Err()
		}
	}
	out := make([]domain.ListingAttributes, 0, len(ids))
	for _, id := range ids {
		if l, ok := f.listings[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) allIDs(kind domain.ListingKind) []int64 {
	var ids []int64
	for id, l := range f.listings {
		if l.Kind == kind {
			ids = append(ids, id)
		}
	}
	return ids
}

type fakeResolver struct {
	coord *domain.Coordinate
}

func (f fakeResolver) Resolve(ctx context.Context, city, country string) *domain.Coordinate {
	return f.coord
}

func newTestOrchestrator(st RecordStore, res Resolver) *Orchestrator {
	return New(st, res, match.NewScorer(config.DefaultWeights()), rank.NewSeeded(1), zap.NewNop())
}

func twoListings() map[int64]domain.ListingAttributes {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return map[int64]domain.ListingAttributes{
		1: {ID: 1, Kind: domain.KindJob, Skills: []string{"go", "sql"}, CreatedAt: base.Add(time.Hour)},
		2: {ID: 2, Kind: domain.KindJob, Skills: []string{"excel"}, CreatedAt: base},
	}
}

func TestSearchStrictFiltersBySkills(t *testing.T) {
	st := &fakeStore{listings: twoListings()}
	o := newTestOrchestrator(st, fakeResolver{})

	c := domain.SearchCriteria{Skills: []string{"go"}}
	results, err := o.Search(context.Background(), c, Options{Kind: domain.KindJob, Strategy: rank.StrategyNewest})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].RecordID != 1 {
		t.Fatalf("want only record 1, got %+v", results)
	}
	if results[0].Score != nil {
		t.Fatalf("strict search must not attach scores, got %v", *results[0].Score)
	}
}

func TestSearchPartialMatchThreshold(t *testing.T) {
	st := &fakeStore{listings: twoListings()}
	o := newTestOrchestrator(st, fakeResolver{})

	// Listing 2 misses the one required skill, so it loses exactly the
	// skills weight and lands below 90.
	c := domain.SearchCriteria{
		Skills:            []string{"go"},
		PartialMatch:      true,
		MinMatchThreshold: 90,
	}
	results, err := o.Search(context.Background(), c, Options{Kind: domain.KindJob, Strategy: rank.StrategyMatch})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].RecordID != 1 {
		t.Fatalf("want only record 1 above threshold, got %+v", results)
	}
	if results[0].Score == nil || *results[0].Score != 100 {
		t.Fatalf("want score 100 for a full match, got %+v", results[0].Score)
	}
}

func TestSearchFlexibleKeepsEverythingScored(t *testing.T) {
	st := &fakeStore{listings: twoListings()}
	o := newTestOrchestrator(st, fakeResolver{})

	c := domain.SearchCriteria{Skills: []string{"go"}, FlexibleMatch: true}
	results, err := o.Search(context.Background(), c, Options{Kind: domain.KindJob, Strategy: rank.StrategyMatch})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("flexible search must keep all records, got %d", len(results))
	}
	if results[0].RecordID != 1 {
		t.Fatalf("best match must rank first, got %+v", results)
	}
	for _, r := range results {
		if r.Score == nil {
			t.Fatalf("record %d missing score", r.RecordID)
		}
	}
}

func TestSearchUnresolvedCityFallsBackToSubstring(t *testing.T) {
	st := &fakeStore{listings: twoListings(), substring: []int64{2}}
	o := newTestOrchestrator(st, fakeResolver{coord: nil})

	c := domain.SearchCriteria{City: "berlin", RadiusKm: 50, FlexibleMatch: true}
	results, err := o.Search(context.Background(), c, Options{Kind: domain.KindJob, Strategy: rank.StrategyNewest})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if st.substringCalls != 1 {
		t.Fatalf("want substring fallback, got %d calls", st.substringCalls)
	}
	if st.radiusCalls != 0 {
		t.Fatalf("radius query must be skipped without a center")
	}
	if len(results) != 1 || results[0].RecordID != 2 {
		t.Fatalf("want only the substring hit, got %+v", results)
	}
}

func TestSearchRadiusFailureForcesEmpty(t *testing.T) {
	st := &fakeStore{listings: twoListings(), radiusErr: errors.New("db locked")}
	o := newTestOrchestrator(st, fakeResolver{coord: &domain.Coordinate{Lat: 52.52, Lon: 13.405}})

	c := domain.SearchCriteria{City: "berlin", RadiusKm: 50, FlexibleMatch: true}
	results, err := o.Search(context.Background(), c, Options{Kind: domain.KindJob, Strategy: rank.StrategyNewest})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("failed radius query must not fall through to the full set, got %+v", results)
	}
}

func TestSearchRadiusAttachesDistances(t *testing.T) {
	st := &fakeStore{listings: twoListings(), radius: map[int64]float64{1: 12.5}}
	o := newTestOrchestrator(st, fakeResolver{coord: &domain.Coordinate{Lat: 52.52, Lon: 13.405}})

	c := domain.SearchCriteria{City: "berlin", RadiusKm: 50, FlexibleMatch: true}
	results, err := o.Search(context.Background(), c, Options{Kind: domain.KindJob, Strategy: rank.StrategyDistance})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].RecordID != 1 {
		t.Fatalf("want only the in-radius record, got %+v", results)
	}
	if results[0].DistanceKm == nil || *results[0].DistanceKm != 12.5 {
		t.Fatalf("want distance 12.5, got %+v", results[0].DistanceKm)
	}
}

func TestSearchSessionLastRequestWins(t *testing.T) {
	st := &fakeStore{listings: twoListings(), blockFirstFetch: true}
	o := newTestOrchestrator(st, fakeResolver{})

	c := domain.SearchCriteria{FlexibleMatch: true}
	opts := Options{Kind: domain.KindJob, Strategy: rank.StrategyNewest}

	firstErr := make(chan error, 1)
	go func() {
		_, err := o.SearchSession(context.Background(), "s1", c, opts)
		firstErr <- err
	}()

	// Wait for the first request to park inside the store fetch.
	deadline := time.After(2 * time.Second)
	for {
		o.sessions.mu.Lock()
		_, running := o.sessions.active["s1"]
		o.sessions.mu.Unlock()
		if running {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first search never registered")
		case <-time.After(time.Millisecond):
		}
	}

	results, err := o.SearchSession(context.Background(), "s1", c, opts)
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("second search results: %+v", results)
	}

	if err := <-firstErr; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("first search: want ErrSuperseded, got %v", err)
	}
}

func TestSearchRepeatsGiveStableOrderOnEqualKeys(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	listings := make(map[int64]domain.ListingAttributes)
	radius := make(map[int64]float64)
	for id := int64(1); id <= 12; id++ {
		listings[id] = domain.ListingAttributes{
			ID:        id,
			Kind:      domain.KindJob,
			Salary:    domain.SalaryRange{Min: 50000, Max: 60000},
			CreatedAt: created,
		}
		radius[id] = 10
	}
	st := &fakeStore{listings: listings, radius: radius}
	o := newTestOrchestrator(st, fakeResolver{coord: &domain.Coordinate{Lat: 52.52, Lon: 13.405}})

	c := domain.SearchCriteria{City: "berlin", RadiusKm: 50, FlexibleMatch: true}
	opts := Options{Kind: domain.KindJob, Strategy: rank.StrategySalary}

	run := func() []int64 {
		results, err := o.Search(context.Background(), c, opts)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		ids := make([]int64, len(results))
		for i, r := range results {
			ids[i] = r.RecordID
		}
		return ids
	}

	first := run()
	if len(first) != 12 {
		t.Fatalf("want 12 results, got %d", len(first))
	}
	for i := 0; i < 25; i++ {
		got := run()
		for j := range first {
			if got[j] != first[j] {
				t.Fatalf("run %d reordered equal-salary records: %v vs %v", i, got, first)
			}
		}
	}
}

func TestSearchWithoutSessionNeverSupersedes(t *testing.T) {
	st := &fakeStore{listings: twoListings(), gateFetch: make(chan struct{})}
	o := newTestOrchestrator(st, fakeResolver{})

	c := domain.SearchCriteria{FlexibleMatch: true}
	opts := Options{Kind: domain.KindJob, Strategy: rank.StrategyNewest}

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			results, err := o.SearchSession(context.Background(), "", c, opts)
			if err == nil && len(results) != 2 {
				err = errors.New("short result set")
			}
			errs <- err
		}()
	}

	// Let both requests park inside the store fetch, then release them.
	time.Sleep(20 * time.Millisecond)
	close(st.gateFetch)

	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("anonymous search %d: %v", i, err)
		}
	}
}

func TestSearchStrictRejectsMatchOrdering(t *testing.T) {
	st := &fakeStore{listings: twoListings()}
	o := newTestOrchestrator(st, fakeResolver{})

	c := domain.SearchCriteria{Skills: []string{"go"}}
	_, err := o.Search(context.Background(), c, Options{Kind: domain.KindJob, Strategy: rank.StrategyMatch})
	if !errors.Is(err, rank.ErrNoScores) {
		t.Fatalf("want ErrNoScores in strict mode, got %v", err)
	}
}
