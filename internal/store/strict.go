package store

import (
	"context"
	"database/sql"

	"talentmatch-engine/internal/domain"
)

// IDsByKind lists every record id of one kind; the relaxed search modes
// score the whole (geo-filtered) population.
func IDsByKind(ctx context.Context, db *sql.DB, kind domain.ListingKind) ([]int64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id FROM listings WHERE kind = ?;`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

// StrictFilterIDs applies the cheap scalar criteria in SQL. Set-valued
// criteria (skills, languages, ...) live in JSON columns and are enforced
// afterwards in Go; this pre-filter only needs to never drop a record the
// full strict predicate would keep.
func StrictFilterIDs(ctx context.Context, db *sql.DB, c domain.SearchCriteria, kind domain.ListingKind) ([]int64, error) {
	query := `SELECT id FROM listings WHERE kind = ?`
	args := []any{string(kind)}

	if c.Sector != "" {
		query += ` AND sector = ? COLLATE NOCASE`
		args = append(args, c.Sector)
	}
	if c.Country != "" {
		query += ` AND country = ? COLLATE NOCASE`
		args = append(args, c.Country)
	}
	if !c.Salary.Empty() {
		// listings with no stated salary pass; stated salaries must touch
		// the requested range
		query += ` AND ((salary_min = 0 AND salary_max = 0) OR (salary_min <= ? AND salary_max >= ?))`
		args = append(args, c.Salary.Max, c.Salary.Min)
	}
	if c.MinSigningBonus > 0 {
		query += ` AND signing_bonus >= ?`
		args = append(args, c.MinSigningBonus)
	}
	if c.HomeOffice {
		query += ` AND home_office = 1`
	}
	if c.MinVacationDays > 0 {
		query += ` AND vacation_days >= ?`
		args = append(args, c.MinVacationDays)
	}

	rows, err := db.QueryContext(ctx, query+`;`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

func collectIDs(rows *sql.Rows) ([]int64, error) {
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
