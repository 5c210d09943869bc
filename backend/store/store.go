// Package store implements the discovery collaborators on PostgreSQL.
//
// One Postgres value serves as Directory, StyleCatalog, LocationCatalog and
// TripStore. Every method is a plain read; nothing here retries, so a failed
// query surfaces to the engine exactly once.
package store

import (
	"database/sql"

	"gitea.kood.tech/petrkubec/dance-me/backend/discovery"
)

// Postgres reads the dance directory from a PostgreSQL database.
type Postgres struct {
	db *sql.DB
}

var (
	_ discovery.Directory       = (*Postgres)(nil)
	_ discovery.StyleCatalog    = (*Postgres)(nil)
	_ discovery.LocationCatalog = (*Postgres)(nil)
	_ discovery.TripStore       = (*Postgres)(nil)
)

// New wraps an open database handle.
func New(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Deps bundles the store as every engine collaborator.
func (p *Postgres) Deps() discovery.Deps {
	return discovery.Deps{Directory: p, Styles: p, Locations: p, Trips: p}
}
