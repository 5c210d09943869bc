package discovery

import (
	"context"
	"time"
)

// Directory is the queryable collection of dancer profiles.
type Directory interface {
	// Viewer loads the requesting dancer. Returns ErrViewerNotFound when the
	// id has no profile.
	Viewer(ctx context.Context, id int64) (Viewer, error)

	// FindComplete returns complete profiles matching q, excluding
	// q.ExcludeID, ordered by q.Order and capped at q.Limit rows.
	FindComplete(ctx context.Context, q Query) ([]Profile, error)

	// Count returns how many profiles FindComplete would match without a cap.
	Count(ctx context.Context, q Query) (int, error)
}

// StyleCatalog lists dance styles.
type StyleCatalog interface {
	ActiveStyles(ctx context.Context) ([]Style, error)
}

// LocationCatalog resolves city, country and continent membership.
type LocationCatalog interface {
	CitiesInCountry(ctx context.Context, countryID int64) ([]int64, error)
	// CountryOfCity returns ErrUnknownCity when the city has no row.
	CountryOfCity(ctx context.Context, cityID int64) (int64, error)
	// CitiesMatchingName matches accent- and case-insensitively.
	CitiesMatchingName(ctx context.Context, text string) ([]int64, error)
	DescribeCities(ctx context.Context, ids []int64) (map[int64]City, error)
}

// TripStore reads declared trips and the friend graph.
type TripStore interface {
	FriendIDs(ctx context.Context, userID int64) ([]int64, error)
	// UpcomingTrips returns trips of the given users ending on or after from.
	UpcomingTrips(ctx context.Context, userIDs []int64, from time.Time) ([]Trip, error)
}
