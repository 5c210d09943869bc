package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gitea.kood.tech/petrkubec/dance-me/backend/discovery"
)

// ActiveStyles lists the active catalog styles by name.
func (p *Postgres) ActiveStyles(ctx context.Context) ([]discovery.Style, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name FROM styles WHERE is_active = TRUE ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list styles: %w", err)
	}
	defer rows.Close()

	var out []discovery.Style
	for rows.Next() {
		s := discovery.Style{Active: true}
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan style: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CitiesInCountry lists the ids of every city in a country.
func (p *Postgres) CitiesInCountry(ctx context.Context, countryID int64) ([]int64, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id FROM cities WHERE country_id = $1 ORDER BY id`, countryID)
	if err != nil {
		return nil, fmt.Errorf("cities in country %d: %w", countryID, err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// CountryOfCity returns the country a city belongs to.
func (p *Postgres) CountryOfCity(ctx context.Context, cityID int64) (int64, error) {
	var id int64
	err := p.db.QueryRowContext(ctx, `SELECT country_id FROM cities WHERE id = $1`, cityID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("city %d: %w", cityID, errCityNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("country of city %d: %w", cityID, err)
	}
	return id, nil
}

// CitiesMatchingName folds names in Go so accent handling does not depend
// on the unaccent extension being installed.
func (p *Postgres) CitiesMatchingName(ctx context.Context, text string) ([]int64, error) {
	if discovery.FoldName(text) == "" {
		return nil, nil
	}
	rows, err := p.db.QueryContext(ctx, `SELECT id, name FROM cities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("match city names: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		if discovery.MatchesName(name, text) {
			out = append(out, id)
		}
	}
	return out, rows.Err()
}

// DescribeCities joins cities with their countries. Inside a request
// carrying Loaders the lookups are batched and cached; otherwise they run as
// one query. Unknown ids are omitted.
func (p *Postgres) DescribeCities(ctx context.Context, ids []int64) (map[int64]discovery.City, error) {
	l := LoadersFromContext(ctx)
	if l == nil {
		return queryCities(ctx, p.db, ids)
	}

	cities, errs := l.Cities.LoadMany(ctx, ids)()
	out := make(map[int64]discovery.City, len(ids))
	for i, id := range ids {
		if i < len(errs) && errs[i] != nil {
			if errors.Is(errs[i], errCityNotFound) {
				continue
			}
			return nil, errs[i]
		}
		out[id] = cities[i]
	}
	return out, nil
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
