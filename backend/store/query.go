package store

import (
	"fmt"
	"strings"

	"gitea.kood.tech/petrkubec/dance-me/backend/discovery"
	"github.com/lib/pq"
)

// sqlBuilder accumulates WHERE conditions with numbered placeholders.
type sqlBuilder struct {
	conds []string
	args  []interface{}
}

// arg registers a value and returns its placeholder.
func (b *sqlBuilder) arg(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *sqlBuilder) where(format string, vals ...interface{}) {
	placeholders := make([]interface{}, len(vals))
	for i, v := range vals {
		placeholders[i] = b.arg(v)
	}
	b.conds = append(b.conds, fmt.Sprintf(format, placeholders...))
}

func (b *sqlBuilder) clause() string {
	return strings.Join(b.conds, "\n  AND ")
}

// activeStyleExists matches a profile declaring an active style from the
// given placeholder expression.
const activeStyleExists = `EXISTS (
      SELECT 1 FROM profile_styles ps
      JOIN styles s ON s.id = ps.style_id AND s.is_active = TRUE
      WHERE ps.user_id = p.user_id AND %s)`

// buildFilter translates a discovery query into SQL. It mirrors
// discovery.Query.Matches condition by condition.
func buildFilter(q discovery.Query) *sqlBuilder {
	b := &sqlBuilder{}
	b.where("p.is_complete = TRUE")
	b.where("p.user_id <> %s", q.ExcludeID)

	column := "p.home_city_id"
	if q.LocationField == discovery.FieldActiveCity {
		column = "COALESCE(p.active_city_id, p.home_city_id)"
	}
	if !q.Locations.Unrestricted() {
		b.where(column+" = ANY(%s)", pq.Array(q.Locations.Cities()))
	}

	if q.TravelersOnly {
		b.where(`p.open_to_meet_travelers = TRUE
  AND p.active_city_id IS NOT NULL
  AND (p.home_city_id IS NULL OR p.active_city_id <> p.home_city_id)`)
	}

	if q.RequireStyleOverlap {
		b.where("p.seeking_practice_partners = TRUE")
		b.where(fmt.Sprintf(activeStyleExists, "ps.style_id = ANY(%s)"), pq.Array(q.ViewerStyleIDs))
	}
	if q.StyleID != nil {
		b.where(fmt.Sprintf(activeStyleExists, "ps.style_id = %s"), *q.StyleID)
	}

	if q.Role != "" {
		b.where("p.role = %s", string(q.Role))
	}
	if q.SkillLevel != "" {
		b.where("p.skill_level = %s", string(q.SkillLevel))
	}
	if q.Teacher {
		b.where("p.is_teacher = TRUE")
	}
	if q.DJ {
		b.where("p.is_dj = TRUE")
	}
	if q.Photographer {
		b.where("p.is_photographer = TRUE")
	}
	if q.EventOrganizer {
		b.where("p.is_event_organizer = TRUE")
	}
	return b
}

// orderBy renders the primary ordering. The id tie-break matches
// discovery.RankingMode.Less so pages stay stable between requests.
func orderBy(mode discovery.RankingMode) string {
	if mode == discovery.ModeContextual {
		return "p.updated_at DESC, p.created_at DESC, p.user_id DESC"
	}
	return "p.created_at DESC, p.user_id DESC"
}

const profileColumns = `
    p.user_id,
    COALESCE(p.display_name, ''),
    COALESCE(p.handle, ''),
    COALESCE(p.profile_picture_file, ''),
    p.home_city_id,
    p.active_city_id,
    COALESCE(p.role, ''),
    COALESCE(p.skill_level, ''),
    p.is_teacher,
    p.is_dj,
    p.is_photographer,
    p.is_event_organizer,
    p.open_to_meet_travelers,
    p.seeking_practice_partners,
    p.liked_by_count,
    p.created_at,
    p.updated_at,
    COALESCE(ARRAY(
      SELECT ps.style_id FROM profile_styles ps
      JOIN styles s ON s.id = ps.style_id AND s.is_active = TRUE
      WHERE ps.user_id = p.user_id ORDER BY ps.style_id), '{}') AS style_ids,
    COALESCE(ARRAY(
      SELECT COALESCE(ps.level, '') FROM profile_styles ps
      JOIN styles s ON s.id = ps.style_id AND s.is_active = TRUE
      WHERE ps.user_id = p.user_id ORDER BY ps.style_id), '{}') AS style_levels`

// findQuery renders the full candidate SELECT.
func findQuery(q discovery.Query) (string, []interface{}) {
	b := buildFilter(q)
	query := "SELECT" + profileColumns + "\nFROM profiles p\nWHERE " + b.clause() + "\nORDER BY " + orderBy(q.Order)
	if q.Limit > 0 {
		query += "\nLIMIT " + b.arg(q.Limit)
	}
	return query, b.args
}

// countQuery renders the COUNT over the same filter.
func countQuery(q discovery.Query) (string, []interface{}) {
	b := buildFilter(q)
	return "SELECT COUNT(*)\nFROM profiles p\nWHERE " + b.clause(), b.args
}
