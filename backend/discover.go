package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gitea.kood.tech/petrkubec/dance-me/backend/discovery"
	"github.com/rs/zerolog"
)

// discoverer is the part of discovery.Engine the handlers use.
type discoverer interface {
	Discover(ctx context.Context, req discovery.Request) (*discovery.Result, error)
	Count(ctx context.Context, req discovery.Request) (int, discovery.Reason, error)
	ActiveStyles(ctx context.Context) ([]discovery.Style, error)
	FriendTripOverlaps(ctx context.Context, viewerID int64, now time.Time) ([]discovery.TripOverlap, error)
}

// GET /discover
func discoverHandler(d discoverer, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		viewerID, ok := viewerFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		params, err := parseDiscoverParams(r.URL.Query())
		if err != nil {
			respondParamError(w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		res, err := d.Discover(ctx, params.request(viewerID))
		if err != nil {
			respondEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /discover/count
func discoverCountHandler(d discoverer, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		viewerID, ok := viewerFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		params, err := parseDiscoverParams(r.URL.Query())
		if err != nil {
			respondParamError(w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		total, reason, err := d.Count(ctx, params.request(viewerID))
		if err != nil {
			respondEngineError(w, r, err)
			return
		}
		resp := map[string]interface{}{"total": total}
		if reason != discovery.ReasonNone {
			resp["reason"] = reason
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// GET /styles
func stylesHandler(d discoverer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		styles, err := d.ActiveStyles(r.Context())
		if err != nil {
			respondEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"styles": styles})
	}
}

// GET /trips/overlaps
func tripOverlapsHandler(d discoverer, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		viewerID, ok := viewerFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		overlaps, err := d.FriendTripOverlaps(r.Context(), viewerID, now())
		if err != nil {
			respondEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"overlaps": overlaps})
	}
}

func respondParamError(w http.ResponseWriter, r *http.Request, err error) {
	var perr *paramError
	if errors.As(err, &perr) {
		writeInvalidQuery(w, perr.fields)
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("validating query")
	writeError(w, http.StatusBadRequest, "invalid_query")
}

// respondEngineError maps engine errors onto the HTTP envelope. Store
// failures are reported as retryable.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	log := zerolog.Ctx(r.Context())
	switch {
	case errors.Is(err, discovery.ErrViewerNotFound), errors.Is(err, discovery.ErrIncompleteProfile):
		writeError(w, http.StatusForbidden, "incomplete_profile")
	case errors.Is(err, discovery.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		log.Error().Err(err).Msg("discovery store unavailable")
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "store_unavailable")
	default:
		log.Error().Err(err).Msg("discovery failed")
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}
