package store

import (
	"context"
	"fmt"
	"time"

	"gitea.kood.tech/petrkubec/dance-me/backend/discovery"
	"github.com/lib/pq"
)

// FriendIDs returns users with an accepted connection to userID, in either
// direction.
func (p *Postgres) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT DISTINCT CASE WHEN user_id = $1 THEN target_user_id ELSE user_id END
		FROM connections
		WHERE (user_id = $1 OR target_user_id = $1) AND status = 'accepted'
		ORDER BY 1`, userID)
	if err != nil {
		return nil, fmt.Errorf("friends of %d: %w", userID, err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// UpcomingTrips returns trips of userIDs that end on or after from.
func (p *Postgres) UpcomingTrips(ctx context.Context, userIDs []int64, from time.Time) ([]discovery.Trip, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, city_id, start_date, end_date, share_with_friends
		FROM trips
		WHERE user_id = ANY($1) AND end_date >= $2
		ORDER BY start_date, id`, pq.Array(userIDs), from)
	if err != nil {
		return nil, fmt.Errorf("upcoming trips: %w", err)
	}
	defer rows.Close()

	var out []discovery.Trip
	for rows.Next() {
		var t discovery.Trip
		if err := rows.Scan(&t.ID, &t.UserID, &t.CityID, &t.Start, &t.End, &t.Shared); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
