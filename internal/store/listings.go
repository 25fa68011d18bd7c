package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"talentmatch-engine/internal/domain"
)

const listingColumns = `id, kind, title, sector, country, city, lat, lon,
salary_min, salary_max, signing_bonus, skills, qualifications, languages,
career_level, experience_years, driving_licenses, contract_terms,
home_office, benefits, vacation_days, created_at`

func InsertListing(ctx context.Context, db *sql.DB, l domain.ListingAttributes) (int64, error) {
	skills, _ := json.Marshal(emptyIfNil(l.Skills))
	quals, _ := json.Marshal(emptyIfNil(l.Qualifications))
	langs, _ := json.Marshal(emptyLangsIfNil(l.Languages))
	licenses, _ := json.Marshal(emptyIfNil(l.DrivingLicenses))
	terms, _ := json.Marshal(emptyIfNil(l.ContractTerms))
	benefits, _ := json.Marshal(emptyIfNil(l.Benefits))

	var lat, lon any
	if l.Coord != nil {
		lat, lon = l.Coord.Lat, l.Coord.Lon
	}

	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := db.ExecContext(ctx, `
INSERT INTO listings (kind, title, sector, country, city, lat, lon,
  salary_min, salary_max, signing_bonus, skills, qualifications, languages,
  career_level, experience_years, driving_licenses, contract_terms,
  home_office, benefits, vacation_days, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`,
		string(l.Kind), l.Title, l.Sector, l.Country, l.City, lat, lon,
		l.Salary.Min, l.Salary.Max, l.SigningBonus,
		string(skills), string(quals), string(langs),
		l.CareerLevel, l.ExperienceYears, string(licenses), string(terms),
		boolToInt(l.HomeOffice), string(benefits), l.VacationDays,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert listing: %w", err)
	}
	return res.LastInsertId()
}

func GetListing(ctx context.Context, db *sql.DB, id int64) (domain.ListingAttributes, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ?;`, id)
	return scanListing(row)
}

func DeleteListing(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?;`, id)
	return err
}

// ListingsByIDs bulk-fetches attribute records for scoring. Order follows
// the input ids; missing ids are silently skipped.
func ListingsByIDs(ctx context.Context, db *sql.DB, ids []int64) ([]domain.ListingAttributes, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id IN (`+placeholders+`);`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]domain.ListingAttributes, len(ids))
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		byID[l.ID] = l
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.ListingAttributes, 0, len(byID))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (domain.ListingAttributes, error) {
	var l domain.ListingAttributes
	var kind, skills, quals, langs, licenses, terms, benefits, createdAt string
	var lat, lon sql.NullFloat64
	var homeOffice int

	err := row.Scan(
		&l.ID, &kind, &l.Title, &l.Sector, &l.Country, &l.City, &lat, &lon,
		&l.Salary.Min, &l.Salary.Max, &l.SigningBonus,
		&skills, &quals, &langs,
		&l.CareerLevel, &l.ExperienceYears, &licenses, &terms,
		&homeOffice, &benefits, &l.VacationDays, &createdAt,
	)
	if err != nil {
		return l, err
	}

	l.Kind = domain.ListingKind(kind)
	if lat.Valid && lon.Valid {
		l.Coord = &domain.Coordinate{Lat: lat.Float64, Lon: lon.Float64}
	}
	l.HomeOffice = homeOffice != 0
	_ = json.Unmarshal([]byte(skills), &l.Skills)
	_ = json.Unmarshal([]byte(quals), &l.Qualifications)
	_ = json.Unmarshal([]byte(langs), &l.Languages)
	_ = json.Unmarshal([]byte(licenses), &l.DrivingLicenses)
	_ = json.Unmarshal([]byte(terms), &l.ContractTerms)
	_ = json.Unmarshal([]byte(benefits), &l.Benefits)
	l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return l, nil
}

func emptyIfNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}

func emptyLangsIfNil(ls []domain.Language) []domain.Language {
	if ls == nil {
		return []domain.Language{}
	}
	return ls
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
