package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"talentmatch-engine/internal/domain"
)

// GazetteerKey normalizes a (city, country) pair into the cache key form:
// lower-cased, whitespace-collapsed.
func GazetteerKey(city, country string) (string, string) {
	norm := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	return norm(city), norm(country)
}

// LookupCity is the case-insensitive gazetteer read. ok=false on a miss.
func LookupCity(ctx context.Context, db *sql.DB, city, country string) (domain.Coordinate, bool, error) {
	ck, co := GazetteerKey(city, country)

	var lat, lon float64
	var source string
	err := db.QueryRowContext(ctx, `
SELECT lat, lon, source
FROM gazetteer
WHERE city = ? AND country = ?;`, ck, co).Scan(&lat, &lon, &source)
	if err == sql.ErrNoRows {
		return domain.Coordinate{}, false, nil
	}
	if err != nil {
		return domain.Coordinate{}, false, err
	}

	return domain.Coordinate{Lat: lat, Lon: lon, Source: domain.SourceCached}, true, nil
}

// UpsertCity writes through a resolved coordinate; a newer geocoder result
// supersedes whatever was cached for the key.
func UpsertCity(ctx context.Context, db *sql.DB, city, country string, coord domain.Coordinate) error {
	ck, co := GazetteerKey(city, country)

	_, err := db.ExecContext(ctx, `
INSERT INTO gazetteer (city, country, lat, lon, source, resolved_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(city, country) DO UPDATE SET
  lat = excluded.lat,
  lon = excluded.lon,
  source = excluded.source,
  resolved_at = excluded.resolved_at;`,
		ck, co, coord.Lat, coord.Lon, string(coord.Source),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert gazetteer: %w", err)
	}
	return nil
}

// PurgeStaleGazetteer drops geocoded rows older than maxAge. Seeded rows
// (source != geocoded) are permanent.
func PurgeStaleGazetteer(db *sql.DB, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339)
	res, err := db.Exec(`
DELETE FROM gazetteer
WHERE source = ? AND resolved_at < ?;`, string(domain.SourceGeocoded), cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge gazetteer: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
