package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gitea.kood.tech/petrkubec/dance-me/backend/discovery"
	"github.com/graph-gophers/dataloader/v7"
	"github.com/lib/pq"
)

type loadersKey struct{}

// Loaders holds the per-request batching loaders.
type Loaders struct {
	Cities *dataloader.Loader[int64, discovery.City]
}

// NewLoaders creates fresh loaders. Build one set per request so cached
// entries never outlive it.
func NewLoaders(db *sql.DB) *Loaders {
	return &Loaders{
		Cities: dataloader.NewBatchedLoader(cityBatchFn(db), dataloader.WithWait[int64, discovery.City](2*time.Millisecond)),
	}
}

// WithLoaders adds loaders to ctx.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey{}, l)
}

// LoadersFromContext returns the loaders stored in ctx, or nil.
func LoadersFromContext(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey{}).(*Loaders)
	return l
}

// errCityNotFound marks a key the batch query did not return.
var errCityNotFound = discovery.ErrUnknownCity

func cityBatchFn(db *sql.DB) dataloader.BatchFunc[int64, discovery.City] {
	return func(ctx context.Context, keys []int64) []*dataloader.Result[discovery.City] {
		results := make([]*dataloader.Result[discovery.City], len(keys))
		found, err := queryCities(ctx, db, keys)
		for i, key := range keys {
			switch c, ok := found[key]; {
			case err != nil:
				results[i] = &dataloader.Result[discovery.City]{Error: err}
			case !ok:
				results[i] = &dataloader.Result[discovery.City]{Error: errCityNotFound}
			default:
				results[i] = &dataloader.Result[discovery.City]{Data: c}
			}
		}
		return results
	}
}

func queryCities(ctx context.Context, db *sql.DB, ids []int64) (map[int64]discovery.City, error) {
	out := make(map[int64]discovery.City, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := db.QueryContext(ctx, `
		SELECT c.id, c.name, co.id, co.name
		FROM cities c
		JOIN countries co ON co.id = c.country_id
		WHERE c.id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("describe cities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c discovery.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Country.ID, &c.Country.Name); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		out[c.ID] = c
	}
	return out, rows.Err()
}
