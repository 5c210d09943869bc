package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gitea.kood.tech/petrkubec/dance-me/backend/discovery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDiscoverer records requests and returns canned answers.
type stubDiscoverer struct {
	result   *discovery.Result
	count    int
	reason   discovery.Reason
	styles   []discovery.Style
	overlaps []discovery.TripOverlap
	err      error

	requests []discovery.Request
	now      time.Time
}

func (s *stubDiscoverer) Discover(_ context.Context, req discovery.Request) (*discovery.Result, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubDiscoverer) Count(_ context.Context, req discovery.Request) (int, discovery.Reason, error) {
	s.requests = append(s.requests, req)
	return s.count, s.reason, s.err
}

func (s *stubDiscoverer) ActiveStyles(context.Context) ([]discovery.Style, error) {
	return s.styles, s.err
}

func (s *stubDiscoverer) FriendTripOverlaps(_ context.Context, viewerID int64, now time.Time) ([]discovery.TripOverlap, error) {
	s.requests = append(s.requests, discovery.Request{ViewerID: viewerID})
	s.now = now
	return s.overlaps, s.err
}

func newTestServer(t *testing.T, d discoverer, logs *bytes.Buffer) http.Handler {
	t.Helper()
	cfg := validConfig()
	cfg.JWTSecret = string(testSecret)
	cfg.CORSOrigins = []string{"http://localhost:5173"}
	logger := zerolog.Nop()
	if logs != nil {
		logger = zerolog.New(logs)
	}
	s := &server{
		cfg:    cfg,
		engine: d,
		creds:  newFakeCredentials(t, "dancer@test.local", "test1234", 1),
		logger: logger,
	}
	return s.routes()
}

func get(t *testing.T, h http.Handler, target string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userID > 0 {
		req.Header.Set("Authorization", bearer(t, userID))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestDiscoverEndpoint(t *testing.T) {
	paris := discovery.City{ID: 10, Name: "Paris", Country: discovery.Country{ID: 1, Name: "France"}}

	t.Run("returns a page of dancers", func(t *testing.T) {
		stub := &stubDiscoverer{result: &discovery.Result{
			Results: []discovery.Dancer{{ID: 2, DisplayName: "Ana", HomeCity: &paris, Styles: []discovery.StyleRef{{ID: 100, Name: "Salsa"}}}},
			Total:   3,
			HasMore: true,
		}}
		h := newTestServer(t, stub, nil)

		rec := get(t, h, "/discover?tab=near_me&style=Salsa&limit=1", 9)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		body := decode(t, rec)
		assert.EqualValues(t, 3, body["total"])
		assert.Equal(t, true, body["has_more"])
		assert.Equal(t, false, body["traveler_applied"])
		assert.NotContains(t, body, "reason")
		results := body["results"].([]interface{})
		require.Len(t, results, 1)
		first := results[0].(map[string]interface{})
		assert.Equal(t, "Ana", first["display_name"])
		assert.NotContains(t, first, "email")
		assert.Equal(t, "France", first["home_city"].(map[string]interface{})["country"].(map[string]interface{})["name"])

		require.Len(t, stub.requests, 1)
		assert.Equal(t, int64(9), stub.requests[0].ViewerID)
		assert.Equal(t, discovery.NearMe{}, stub.requests[0].Scope)
		assert.Equal(t, "Salsa", stub.requests[0].Filters.StyleName)
		assert.Equal(t, 1, stub.requests[0].Page.Limit)
	})

	t.Run("reports whether the traveler filter applied", func(t *testing.T) {
		stub := &stubDiscoverer{result: &discovery.Result{Results: []discovery.Dancer{}, TravelerApplied: true}}
		h := newTestServer(t, stub, nil)

		rec := get(t, h, "/discover?tab=near_me&traveler=true", 9)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decode(t, rec)["traveler_applied"])
	})

	t.Run("empty result carries its reason", func(t *testing.T) {
		stub := &stubDiscoverer{result: &discovery.Result{
			Results: []discovery.Dancer{},
			Reason:  discovery.ReasonMissingHomeLocation,
		}}
		rec := get(t, newTestServer(t, stub, nil), "/discover?tab=near_me", 9)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "missing_home_location", body["reason"])
		assert.Equal(t, []interface{}{}, body["results"])
		assert.EqualValues(t, 0, body["total"])
	})

	t.Run("invalid query lists the fields", func(t *testing.T) {
		stub := &stubDiscoverer{}
		rec := get(t, newTestServer(t, stub, nil), "/discover?tab=city&role=lead", 9)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "invalid_query", body["error"])
		assert.Equal(t, []interface{}{"city_id", "role"}, body["fields"])
		assert.Empty(t, stub.requests)
	})

	t.Run("requires a token", func(t *testing.T) {
		stub := &stubDiscoverer{}
		rec := get(t, newTestServer(t, stub, nil), "/discover", 0)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, stub.requests)
	})

	t.Run("rejects other methods", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/discover", nil)
		req.Header.Set("Authorization", bearer(t, 9))
		rec := httptest.NewRecorder()
		newTestServer(t, &stubDiscoverer{}, nil).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestEngineErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unknown viewer", discovery.ErrViewerNotFound, http.StatusForbidden, "incomplete_profile"},
		{"incomplete viewer", discovery.ErrIncompleteProfile, http.StatusForbidden, "incomplete_profile"},
		{"store down", fmt.Errorf("find: %w: %w", discovery.ErrStoreUnavailable, context.Canceled), http.StatusServiceUnavailable, "store_unavailable"},
		{"timeout", context.DeadlineExceeded, http.StatusServiceUnavailable, "store_unavailable"},
		{"anything else", fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, &stubDiscoverer{err: tt.err}, nil)
			for _, path := range []string{"/discover", "/discover/count", "/styles", "/trips/overlaps"} {
				rec := get(t, h, path, 9)
				assert.Equal(t, tt.status, rec.Code, path)
				assert.Equal(t, tt.code, decode(t, rec)["error"], path)
			}
		})
	}

	t.Run("store failures suggest a retry", func(t *testing.T) {
		h := newTestServer(t, &stubDiscoverer{err: discovery.ErrStoreUnavailable}, nil)
		rec := get(t, h, "/discover", 9)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	})
}

func TestCountEndpoint(t *testing.T) {
	stub := &stubDiscoverer{count: 12}
	h := newTestServer(t, stub, nil)

	rec := get(t, h, "/discover/count?tab=country&country_id=2&teacher=true", 9)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 12, body["total"])
	assert.NotContains(t, body, "reason")
	require.Len(t, stub.requests, 1)
	assert.Equal(t, discovery.PickedCountry{CountryID: 2}, stub.requests[0].Scope)
	assert.True(t, stub.requests[0].Filters.Teacher)

	stub.count, stub.reason = 0, discovery.ReasonStyleNotFound
	body = decode(t, get(t, h, "/discover/count?style=Polka", 9))
	assert.Equal(t, "style_not_found", body["reason"])
}

func TestStylesEndpoint(t *testing.T) {
	stub := &stubDiscoverer{styles: []discovery.Style{{ID: 101, Name: "Bachata", Active: true}, {ID: 100, Name: "Salsa", Active: true}}}
	rec := get(t, newTestServer(t, stub, nil), "/styles", 9)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"styles":[{"id":101,"name":"Bachata"},{"id":100,"name":"Salsa"}]}`, rec.Body.String())
}

func TestTripOverlapsEndpoint(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 7, d, 0, 0, 0, 0, time.UTC) }
	stub := &stubDiscoverer{overlaps: []discovery.TripOverlap{{
		CityID:     11,
		City:       &discovery.City{ID: 11, Name: "Lyon", Country: discovery.Country{ID: 1, Name: "France"}},
		ViewerTrip: discovery.Trip{ID: 1, UserID: 9, CityID: 11, Start: day(1), End: day(10)},
		FriendTrip: discovery.Trip{ID: 2, UserID: 4, CityID: 11, Start: day(5), End: day(12), Shared: true},
		From:       day(5),
		Until:      day(10),
	}}}
	rec := get(t, newTestServer(t, stub, nil), "/trips/overlaps", 9)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	overlaps := body["overlaps"].([]interface{})
	require.Len(t, overlaps, 1)
	o := overlaps[0].(map[string]interface{})
	assert.Equal(t, "Lyon", o["city"].(map[string]interface{})["name"])
	assert.NotContains(t, o["friend_trip"], "Shared")
	assert.Equal(t, int64(9), stub.requests[0].ViewerID)
	assert.False(t, stub.now.IsZero())
}

func TestHealthAndCORS(t *testing.T) {
	h := newTestServer(t, &stubDiscoverer{}, nil)

	rec := get(t, h, "/health", 0)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodOptions, "/discover", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestLoginRoute(t *testing.T) {
	h := newTestServer(t, &stubDiscoverer{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"dancer@test.local","password":"test1234"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	token := decode(t, rec)["token"].(string)
	req = httptest.NewRequest(http.MethodGet, "/discover/count", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
