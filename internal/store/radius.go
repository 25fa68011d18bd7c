package store

import (
	"context"
	"database/sql"

	"talentmatch-engine/internal/domain"
	"talentmatch-engine/internal/geo"
)

// CoordsWithinRadius returns id -> distance for every listing of the kind
// whose stored coordinates fall within radiusKm of center. sqlite has no
// geo index, so this pulls coordinates and runs Haversine in process; the
// boundary is inclusive.
func CoordsWithinRadius(ctx context.Context, db *sql.DB, center domain.Coordinate, radiusKm float64, kind domain.ListingKind) (map[int64]float64, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, lat, lon
FROM listings
WHERE kind = ? AND lat IS NOT NULL AND lon IS NOT NULL;`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]float64{}
	for rows.Next() {
		var id int64
		var lat, lon float64
		if err := rows.Scan(&id, &lat, &lon); err != nil {
			return nil, err
		}
		if d := geo.Distance(center, lat, lon); d <= radiusKm {
			out[id] = d
		}
	}
	return out, rows.Err()
}

// IDsByCitySubstring is the degraded location filter used when the search
// center could not be resolved: a case-insensitive substring match on the
// stored city string.
func IDsByCitySubstring(ctx context.Context, db *sql.DB, city string, kind domain.ListingKind) ([]int64, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id
FROM listings
WHERE kind = ? AND city LIKE '%' || ? || '%' COLLATE NOCASE;`, string(kind), city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
