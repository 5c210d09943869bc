package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gitea.kood.tech/petrkubec/dance-me/backend/discovery"
	"github.com/lib/pq"
)

// Viewer loads the requesting dancer's completeness, home and styles.
func (p *Postgres) Viewer(ctx context.Context, id int64) (discovery.Viewer, error) {
	var (
		v      discovery.Viewer
		home   sql.NullInt64
		styles pq.Int64Array
	)
	err := p.db.QueryRowContext(ctx, `
		SELECT p.user_id,
		       COALESCE(p.is_complete, FALSE),
		       p.home_city_id,
		       COALESCE(ARRAY(
		         SELECT ps.style_id FROM profile_styles ps
		         WHERE ps.user_id = p.user_id ORDER BY ps.style_id), '{}')
		FROM profiles p
		WHERE p.user_id = $1`, id).Scan(&v.ID, &v.IsComplete, &home, &styles)
	if errors.Is(err, sql.ErrNoRows) {
		return discovery.Viewer{}, discovery.ErrViewerNotFound
	}
	if err != nil {
		return discovery.Viewer{}, fmt.Errorf("load viewer %d: %w", id, err)
	}
	v.HomeCityID = nullID(home)
	v.StyleIDs = []int64(styles)
	return v, nil
}

// FindComplete returns matching complete profiles in the query's order.
func (p *Postgres) FindComplete(ctx context.Context, q discovery.Query) ([]discovery.Profile, error) {
	query, args := findQuery(q)
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	defer rows.Close()

	var out []discovery.Profile
	for rows.Next() {
		prof, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, prof)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return out, nil
}

// Count returns the number of matching complete profiles.
func (p *Postgres) Count(ctx context.Context, q discovery.Query) (int, error) {
	query, args := countQuery(q)
	var n int
	if err := p.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

func scanProfile(rows *sql.Rows) (discovery.Profile, error) {
	var (
		prof         discovery.Profile
		home, active sql.NullInt64
		role, skill  string
		styleIDs     pq.Int64Array
		levels       pq.StringArray
	)
	err := rows.Scan(
		&prof.ID,
		&prof.DisplayName,
		&prof.Handle,
		&prof.Avatar,
		&home,
		&active,
		&role,
		&skill,
		&prof.Teacher,
		&prof.DJ,
		&prof.Photographer,
		&prof.EventOrganizer,
		&prof.OpenToMeetTravelers,
		&prof.SeekingPracticePartners,
		&prof.LikedByCount,
		&prof.CreatedAt,
		&prof.UpdatedAt,
		&styleIDs,
		&levels,
	)
	if err != nil {
		return prof, err
	}
	prof.IsComplete = true
	prof.HomeCityID = nullID(home)
	prof.ActiveCityID = nullID(active)
	prof.Role = discovery.Role(role)
	prof.SkillLevel = discovery.SkillLevel(skill)
	prof.Styles = make([]discovery.StyleLevel, len(styleIDs))
	for i, sid := range styleIDs {
		prof.Styles[i].StyleID = sid
		if i < len(levels) {
			prof.Styles[i].Level = levels[i]
		}
	}
	return prof, nil
}

func nullID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
