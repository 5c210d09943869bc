// Package discovery selects, filters, ranks and paginates dancer profiles
// for a viewer.
//
// A request flows through scope resolution, the preference filters, the
// style and traveler matchers, a directory fetch in primary order, the
// professional-first re-sort and finally pagination. The engine holds no
// per-request state and is safe for concurrent use.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Deps are the read-only collaborators of the engine.
type Deps struct {
	Directory Directory
	Styles    StyleCatalog
	Locations LocationCatalog
	// Trips is optional; FriendTripOverlaps fails without it.
	Trips TripStore
}

// Engine runs discovery requests against a shared directory.
type Engine struct {
	cfg       Config
	directory Directory
	styles    StyleCatalog
	locations LocationCatalog
	trips     TripStore
	logger    zerolog.Logger
}

// NewEngine creates an engine. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewEngine(cfg *Config, deps Deps, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Directory == nil || deps.Styles == nil || deps.Locations == nil {
		return nil, errors.New("directory, style catalog and location catalog are required")
	}
	return &Engine{
		cfg:       *cfg,
		directory: deps.Directory,
		styles:    deps.Styles,
		locations: deps.Locations,
		trips:     deps.Trips,
		logger:    logger.With().Str("component", "discovery").Logger(),
	}, nil
}

// plan is a fully resolved request, ready for the directory.
type plan struct {
	scope           ResolvedScope
	query           Query
	travelerApplied bool
	styles          map[int64]Style
}

// Discover returns one ranked page of dancers. Domain conditions that leave
// nothing to show come back as an empty Result with a Reason; only store
// failures are returned as errors.
//
//nolint:gocritic // req passed by value for immutability
func (e *Engine) Discover(ctx context.Context, req Request) (*Result, error) {
	log := e.log(ctx)
	page := normalizePage(req.Page, e.cfg.DefaultLimit, e.cfg.MaxLimit)

	p, err := e.plan(ctx, req)
	if err != nil {
		if reason, ok := reasonFor(err); ok {
			log.Debug().Str("reason", string(reason)).Msg("discovery degraded to empty result")
			return emptyResult(reason), nil
		}
		return nil, err
	}

	res := emptyResult(ReasonNone)
	res.Mode = p.query.Order
	res.TravelerApplied = p.travelerApplied
	if p.query.Impossible() {
		log.Debug().Str("scope", string(p.scope.Kind)).Msg("query cannot match any dancer")
		return res, nil
	}

	q := p.query
	q.Limit = e.cfg.MaxCandidates
	batch, err := e.directory.FindComplete(ctx, q)
	if err != nil {
		return nil, storeErr("find complete profiles", err)
	}
	capped := len(batch) >= e.cfg.MaxCandidates
	if capped {
		log.Warn().Int("cap", e.cfg.MaxCandidates).Msg("candidate cap reached, ranking a truncated population")
	}

	filtered := make([]Profile, 0, len(batch))
	for _, c := range batch {
		if q.Matches(c) {
			filtered = append(filtered, c)
		}
	}
	if dropped := len(batch) - len(filtered); dropped > 0 {
		log.Debug().Int("dropped", dropped).Msg("directory returned rows outside the query")
	}

	ranked := Rank(filtered)
	window, hasMore := Paginate(ranked, page)

	var cities map[int64]City
	if ids := cityIDs(window); len(ids) > 0 {
		cities, err = e.locations.DescribeCities(ctx, ids)
		if err != nil {
			return nil, storeErr("describe cities", err)
		}
	}

	res.Results = shapeDancers(window, cities, p.styles, p.travelerApplied)
	res.Total = len(ranked)
	res.HasMore = hasMore
	if capped {
		// The ranked slice stops at the cap; the filtered population does not.
		total, err := e.directory.Count(ctx, p.query)
		if err != nil {
			return nil, storeErr("count profiles", err)
		}
		end := page.Offset + len(window)
		res.Total = total
		res.HasMore = page.Offset < len(ranked) && end < total
	}

	log.Debug().
		Str("scope", string(p.scope.Kind)).
		Str("predicate", p.scope.Predicate.String()).
		Str("mode", string(q.Order)).
		Bool("traveler", p.travelerApplied).
		Int("fetched", len(batch)).
		Int("total", res.Total).
		Int("returned", len(res.Results)).
		Msg("discovery complete")
	return res, nil
}

// Count returns the size of the filtered population without ranking it.
//
//nolint:gocritic // req passed by value for immutability
func (e *Engine) Count(ctx context.Context, req Request) (int, Reason, error) {
	p, err := e.plan(ctx, req)
	if err != nil {
		if reason, ok := reasonFor(err); ok {
			return 0, reason, nil
		}
		return 0, ReasonNone, err
	}
	if p.query.Impossible() {
		return 0, ReasonNone, nil
	}
	n, err := e.directory.Count(ctx, p.query)
	if err != nil {
		return 0, ReasonNone, storeErr("count profiles", err)
	}
	return n, ReasonNone, nil
}

// ActiveStyles returns the active catalog sorted by name.
func (e *Engine) ActiveStyles(ctx context.Context) ([]Style, error) {
	all, err := e.styles.ActiveStyles(ctx)
	if err != nil {
		return nil, storeErr("active styles", err)
	}
	out := make([]Style, 0, len(all))
	for _, s := range all {
		if s.Active {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b Style) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// FriendTripOverlaps lists the viewer's upcoming trips that overlap a
// friend's shared trip to the same city.
func (e *Engine) FriendTripOverlaps(ctx context.Context, viewerID int64, now time.Time) ([]TripOverlap, error) {
	if e.trips == nil {
		return nil, errors.New("trip store not configured")
	}

	var mine, theirs []Trip
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		trips, err := e.trips.UpcomingTrips(gctx, []int64{viewerID}, now)
		if err != nil {
			return storeErr("viewer trips", err)
		}
		mine = trips
		return nil
	})
	g.Go(func() error {
		friends, err := e.trips.FriendIDs(gctx, viewerID)
		if err != nil {
			return storeErr("friend ids", err)
		}
		if len(friends) == 0 {
			return nil
		}
		trips, err := e.trips.UpcomingTrips(gctx, friends, now)
		if err != nil {
			return storeErr("friend trips", err)
		}
		theirs = trips
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overlaps := MatchTrips(mine, theirs)
	if len(overlaps) == 0 {
		return []TripOverlap{}, nil
	}

	ids := make([]int64, 0, len(overlaps))
	for _, o := range overlaps {
		ids = append(ids, o.CityID)
	}
	cities, err := e.locations.DescribeCities(ctx, ids)
	if err != nil {
		return nil, storeErr("describe cities", err)
	}
	for i := range overlaps {
		id := overlaps[i].CityID
		overlaps[i].City = lookupCity(cities, &id)
	}
	return overlaps, nil
}

// plan loads the viewer, then resolves scope, styles and the city-name
// filter concurrently. Everything after the barrier is single-threaded.
//
//nolint:gocritic // req passed by value for immutability
func (e *Engine) plan(ctx context.Context, req Request) (plan, error) {
	viewer, err := e.directory.Viewer(ctx, req.ViewerID)
	if err != nil {
		if errors.Is(err, ErrViewerNotFound) {
			return plan{}, err
		}
		return plan{}, storeErr("load viewer", err)
	}
	if !viewer.IsComplete {
		return plan{}, ErrIncompleteProfile
	}
	filters := req.Filters.Normalize()

	var (
		catalog []Style
		scope   ResolvedScope
		named   []int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		styles, err := e.styles.ActiveStyles(gctx)
		if err != nil {
			return storeErr("active styles", err)
		}
		catalog = styles
		return nil
	})
	g.Go(func() error {
		rs, err := ResolveScope(gctx, e.locations, req.Scope, viewer)
		scope = rs
		return err
	})
	if filters.CityName != "" {
		g.Go(func() error {
			ids, err := e.locations.CitiesMatchingName(gctx, filters.CityName)
			if err != nil {
				return storeErr("cities matching name", err)
			}
			named = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return plan{}, err
	}

	styles := indexStyles(catalog)
	viewer.StyleIDs = activeOnly(viewer.StyleIDs, styles)

	if filters.CityName != "" {
		if len(named) == 0 {
			return plan{}, ErrNoMatchingCities
		}
		scope.Predicate = scope.Predicate.Intersect(named)
	}

	var styleID *int64
	if filters.StyleName != "" {
		s, ok := FindStyleByName(catalog, filters.StyleName)
		if !ok {
			return plan{}, ErrStyleNotFound
		}
		styleID = &s.ID
	}

	q, travelerApplied := buildQuery(viewer, scope, filters, styleID)
	return plan{scope: scope, query: q, travelerApplied: travelerApplied, styles: styles}, nil
}

// log prefers the request-scoped logger installed by the HTTP middleware.
func (e *Engine) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		child := l.With().Str("component", "discovery").Logger()
		return &child
	}
	return &e.logger
}

func emptyResult(reason Reason) *Result {
	return &Result{Results: []Dancer{}, Reason: reason}
}
