package search

import (
	"context"
	"database/sql"

	"talentmatch-engine/internal/domain"
	"talentmatch-engine/internal/store"
)

// SQLStore adapts the sqlite store to the orchestrator's RecordStore.
type SQLStore struct {
	DB *sql.DB
}

func (s SQLStore) CoordsWithinRadius(ctx context.Context, center domain.Coordinate, radiusKm float64, kind domain.ListingKind) (map[int64]float64, error) {
	return store.CoordsWithinRadius(ctx, s.DB, center, radiusKm, kind)
}

func (s SQLStore) IDsByCitySubstring(ctx context.Context, city string, kind domain.ListingKind) ([]int64, error) {
	return store.IDsByCitySubstring(ctx, s.DB, city, kind)
}

func (s SQLStore) StrictFilterIDs(ctx context.Context, c domain.SearchCriteria, kind domain.ListingKind) ([]int64, error) {
	return store.StrictFilterIDs(ctx, s.DB, c, kind)
}

func (s SQLStore) IDsByKind(ctx context.Context, kind domain.ListingKind) ([]int64, error) {
	return store.IDsByKind(ctx, s.DB, kind)
}

func (s SQLStore) ListingsByIDs(ctx context.Context, ids []int64) ([]domain.ListingAttributes, error) {
	return store.ListingsByIDs(ctx, s.DB, ids)
}
