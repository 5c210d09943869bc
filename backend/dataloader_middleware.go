package main

import (
	"database/sql"
	"net/http"

	"gitea.kood.tech/petrkubec/dance-me/backend/store"
)

// dataLoaderMiddleware injects fresh batching loaders into every request so
// city lookups within one response are fetched once.
func dataLoaderMiddleware(db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := store.WithLoaders(r.Context(), store.NewLoaders(db))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
