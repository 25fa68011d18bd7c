package geocode

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"talentmatch-engine/internal/domain"
	"talentmatch-engine/internal/store"
)

// resolveBudget bounds one detached provider flight, limiter wait
// included.
const resolveBudget = 30 * time.Second

// Resolver turns (city, country) into a coordinate: local gazetteer first,
// external provider on a miss, write-through on success. Resolution never
// fails a search: every failure path returns nil and the caller degrades
// to substring location matching.
//
// Concurrent resolutions of the same key share one provider call via
// singleflight, and all provider traffic passes the courtesy limiter.
type Resolver struct {
	db       *sql.DB
	provider Provider
	limiter  *rate.Limiter
	sf       singleflight.Group
	log      *zap.Logger
}

func NewResolver(db *sql.DB, provider Provider, reqPerSec float64, burst int, log *zap.Logger) *Resolver {
	return &Resolver{
		db:       db,
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(reqPerSec), burst),
		log:      log,
	}
}

// Resolve returns nil when the pair cannot be resolved, for any reason.
func (r *Resolver) Resolve(ctx context.Context, city, country string) *domain.Coordinate {
	if city == "" {
		return nil
	}

	if coord, ok, err := store.LookupCity(ctx, r.db, city, country); err == nil && ok {
		return &coord
	} else if err != nil {
		r.log.Warn("gazetteer lookup failed", zap.String("city", city), zap.Error(err))
	}

	ck, co := store.GazetteerKey(city, country)
	key := ck + "|" + co

	ch := r.sf.DoChan(key, func() (any, error) {
		// The shared result must not depend on which caller won the
		// flight: a winner cancelling mid-resolve would hand every
		// waiter nil for a key that resolves fine. Run detached, on the
		// resolver's own deadline.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolveBudget)
		defer cancel()

		// a concurrent caller may have written through while we waited
		if coord, ok, err := store.LookupCity(ctx, r.db, city, country); err == nil && ok {
			return &coord, nil
		}

		// courtesy delay toward the provider's rate limits
		if err := r.limiter.Wait(ctx); err != nil {
			return (*domain.Coordinate)(nil), nil
		}

		coord, err := r.provider.Geocode(ctx, city, country)
		if err != nil {
			// timeout and transport errors are all just "not found"
			r.log.Warn("geocode failed",
				zap.String("city", city),
				zap.String("country", country),
				zap.Error(err),
			)
			return (*domain.Coordinate)(nil), nil
		}
		if coord == nil {
			r.log.Debug("geocode unresolved",
				zap.String("city", city),
				zap.String("country", country),
			)
			return (*domain.Coordinate)(nil), nil
		}

		if err := store.UpsertCity(ctx, r.db, city, country, *coord); err != nil {
			r.log.Warn("gazetteer write-through failed", zap.Error(err))
		}
		r.log.Debug("geocode resolved",
			zap.String("city", city),
			zap.Float64("lat", coord.Lat),
			zap.Float64("lon", coord.Lon),
		)
		return coord, nil
	})

	// A cancelled caller gives up on its own result only; the flight
	// keeps going for the remaining waiters.
	select {
	case <-ctx.Done():
		return nil
	case res := <-ch:
		coord, _ := res.Val.(*domain.Coordinate)
		return coord
	}
}
