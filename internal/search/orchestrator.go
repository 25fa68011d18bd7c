package search

import (
	"context"
	"runtime"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"talentmatch-engine/internal/domain"
	"talentmatch-engine/internal/match"
	"talentmatch-engine/internal/rank"
)

// RecordStore is the persistence the engine consumes. It does not own
// profiles or jobs; it only needs radius search, scalar hard filters and
// bulk attribute fetch.
type RecordStore interface {
	CoordsWithinRadius(ctx context.Context, center domain.Coordinate, radiusKm float64, kind domain.ListingKind) (map[int64]float64, error)
	IDsByCitySubstring(ctx context.Context, city string, kind domain.ListingKind) ([]int64, error)
	StrictFilterIDs(ctx context.Context, c domain.SearchCriteria, kind domain.ListingKind) ([]int64, error)
	IDsByKind(ctx context.Context, kind domain.ListingKind) ([]int64, error)
	ListingsByIDs(ctx context.Context, ids []int64) ([]domain.ListingAttributes, error)
}

// Resolver is the coordinate resolution dependency. A nil result means
// unresolved; the search degrades instead of failing.
type Resolver interface {
	Resolve(ctx context.Context, city, country string) *domain.Coordinate
}

// Options select the result ordering and which side of the marketplace to
// search.
type Options struct {
	Kind      domain.ListingKind
	Strategy  rank.Strategy
	Ascending bool
}

// Orchestrator runs one search request through
// ResolveLocation -> GeoFilter -> StrictFilter|Score -> Rank.
type Orchestrator struct {
	store    RecordStore
	resolver Resolver
	scorer   match.Scorer
	ranker   *rank.Ranker
	log      *zap.Logger
	sessions *registry
}

func New(store RecordStore, resolver Resolver, scorer match.Scorer, ranker *rank.Ranker, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		resolver: resolver,
		scorer:   scorer,
		ranker:   ranker,
		log:      log,
		sessions: newRegistry(),
	}
}

// Search executes one already-normalized criteria value. The criteria is
// treated as immutable for the duration of the call.
func (o *Orchestrator) Search(ctx context.Context, c domain.SearchCriteria, opts Options) ([]domain.MatchResult, error) {
	// ResolveLocation, skipped with no city in the criteria
	var center *domain.Coordinate
	if c.City != "" {
		center = o.resolver.Resolve(ctx, c.City, c.Country)
		if center == nil {
			o.log.Warn("location unresolved, degrading to substring match",
				zap.String("city", c.City), zap.String("country", c.Country))
		}
	}

	filter, distances, err := o.geoFilter(ctx, c, center, opts.Kind)
	if err != nil {
		return nil, err
	}

	var listings []domain.ListingAttributes
	var scores map[int64]float64

	if c.Relaxed() {
		listings, scores, err = o.scored(ctx, c, filter, distances, opts.Kind)
	} else {
		listings, err = o.strict(ctx, c, filter, opts.Kind)
	}
	if err != nil {
		return nil, err
	}

	records := make([]rank.Record, 0, len(listings))
	for _, l := range listings {
		rec := rank.Record{
			ID:        l.ID,
			CreatedAt: l.CreatedAt,
			MaxSalary: l.Salary.Max,
		}
		if d, ok := distances[l.ID]; ok {
			dist := d
			rec.DistanceKm = &dist
		}
		if scores != nil {
			s := scores[l.ID]
			rec.Score = &s
		}
		records = append(records, rec)
	}

	records, err = o.ranker.Rank(records, opts.Strategy, opts.Ascending)
	if err != nil {
		return nil, err
	}

	out := make([]domain.MatchResult, len(records))
	for i, rec := range records {
		out[i] = domain.MatchResult{
			RecordID:   rec.ID,
			Score:      rec.Score,
			DistanceKm: rec.DistanceKm,
		}
	}

	o.log.Info("search completed",
		zap.String("kind", string(opts.Kind)),
		zap.String("strategy", string(opts.Strategy)),
		zap.Bool("relaxed", c.Relaxed()),
		zap.Int("results", len(out)),
	)
	return out, nil
}

// geoFilter builds the location constraint. With a resolved center the
// radius gateway decides; a gateway failure after confident resolution
// means "nothing within radius", never the unfiltered set. Without a
// center the raw city string degrades to a substring match.
func (o *Orchestrator) geoFilter(ctx context.Context, c domain.SearchCriteria, center *domain.Coordinate, kind domain.ListingKind) (idFilter, map[int64]float64, error) {
	if c.City == "" {
		return unconstrained(), nil, nil
	}

	if center != nil && c.RadiusKm > 0 {
		within, err := o.store.CoordsWithinRadius(ctx, *center, c.RadiusKm, kind)
		if err != nil {
			o.log.Warn("radius query failed, forcing empty result", zap.Error(err))
			return impossible(), nil, nil
		}
		f := constrainedTo(nil)
		for id := range within {
			f.ids[id] = true
		}
		return f, within, nil
	}

	ids, err := o.store.IDsByCitySubstring(ctx, c.City, kind)
	if err != nil {
		o.log.Warn("substring location query failed, forcing empty result", zap.Error(err))
		return impossible(), nil, nil
	}
	return constrainedTo(ids), nil, nil
}

// strict applies every criterion as a hard AND filter: scalar pre-filter
// in the store, full predicate over the fetched attributes.
func (o *Orchestrator) strict(ctx context.Context, c domain.SearchCriteria, filter idFilter, kind domain.ListingKind) ([]domain.ListingAttributes, error) {
	ids, err := o.store.StrictFilterIDs(ctx, c, kind)
	if err != nil {
		return nil, err
	}
	ids = filter.apply(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	listings, err := o.store.ListingsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	kept := listings[:0]
	for _, l := range listings {
		if match.Satisfies(c, l) {
			kept = append(kept, l)
		}
	}
	return kept, nil
}

// scored fetches the geo-filtered population and scores it in parallel.
// With PartialMatch the threshold drops low scores; FlexibleMatch alone
// returns everything scored.
func (o *Orchestrator) scored(ctx context.Context, c domain.SearchCriteria, filter idFilter, distances map[int64]float64, kind domain.ListingKind) ([]domain.ListingAttributes, map[int64]float64, error) {
	var ids []int64
	var err error
	if filter.constrained {
		ids = filter.apply(nil)
	} else {
		ids, err = o.store.IDsByKind(ctx, kind)
		if err != nil {
			return nil, nil, err
		}
	}
	if len(ids) == 0 {
		return nil, nil, nil
	}

	listings, err := o.store.ListingsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	// Scoring is pure, so listings split across workers with no ordering
	// dependency; each worker writes a disjoint index range.
	scoresByIdx := make([]float64, len(listings))
	g, gctx := errgroup.WithContext(ctx)
	workers := runtime.NumCPU()
	if workers > len(listings) {
		workers = len(listings)
	}
	chunk := (len(listings) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(listings) {
			hi = len(listings)
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				var d *float64
				if v, ok := distances[listings[i].ID]; ok {
					dist := v
					d = &dist
				}
				scoresByIdx[i] = o.scorer.Score(c, listings[i], d)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	scores := make(map[int64]float64, len(listings))
	kept := listings[:0]
	for i, l := range listings {
		if c.PartialMatch && scoresByIdx[i] < c.MinMatchThreshold {
			continue
		}
		scores[l.ID] = scoresByIdx[i]
		kept = append(kept, l)
	}
	return kept, scores, nil
}

// idFilter distinguishes "no location constraint" from "constrained to
// nothing". The empty-but-constrained form is the impossible-match
// sentinel: it guarantees an empty result instead of silently skipping
// the filter.
type idFilter struct {
	constrained bool
	ids         map[int64]bool
}

func unconstrained() idFilter { return idFilter{} }

func impossible() idFilter {
	return idFilter{constrained: true, ids: map[int64]bool{}}
}

func constrainedTo(ids []int64) idFilter {
	f := idFilter{constrained: true, ids: make(map[int64]bool, len(ids))}
	for _, id := range ids {
		f.ids[id] = true
	}
	return f
}

// apply intersects. With nil input it materializes the filter's own set,
// sorted so identical searches feed the stable ranking sort in the same
// order and equal-key records keep a reproducible tie-break.
func (f idFilter) apply(ids []int64) []int64 {
	if !f.constrained {
		return ids
	}
	if ids == nil {
		out := make([]int64, 0, len(f.ids))
		for id := range f.ids {
			out = append(out, id)
		}
		slices.Sort(out)
		return out
	}
	out := ids[:0]
	for _, id := range ids {
		if f.ids[id] {
			out = append(out, id)
		}
	}
	return out
}
