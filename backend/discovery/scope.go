package discovery

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// ScopeKind names a discovery tab.
type ScopeKind string

const (
	KindHomeCity      ScopeKind = "home_city"
	KindPickedCity    ScopeKind = "city"
	KindPickedCountry ScopeKind = "country"
	KindNearMe        ScopeKind = "near_me"
	KindInMyCountry   ScopeKind = "my_country"
	KindWorldwide     ScopeKind = "worldwide"
)

// Scope is the closed set of geographic selectors. Only the types in this
// file implement it.
type Scope interface {
	Kind() ScopeKind
	isScope()
}

type (
	// HomeCity is the viewer's own city tab. It resolves like NearMe.
	HomeCity struct{}
	// PickedCity restricts discovery to one catalog city.
	PickedCity struct{ CityID int64 }
	// PickedCountry restricts discovery to every city of one country.
	PickedCountry struct{ CountryID int64 }
	// NearMe restricts discovery to the viewer's home city.
	NearMe struct{}
	// InMyCountry restricts discovery to the country of the viewer's home city.
	InMyCountry struct{}
	// Worldwide applies no geographic restriction.
	Worldwide struct{}
)

func (HomeCity) Kind() ScopeKind      { return KindHomeCity }
func (PickedCity) Kind() ScopeKind    { return KindPickedCity }
func (PickedCountry) Kind() ScopeKind { return KindPickedCountry }
func (NearMe) Kind() ScopeKind        { return KindNearMe }
func (InMyCountry) Kind() ScopeKind   { return KindInMyCountry }
func (Worldwide) Kind() ScopeKind     { return KindWorldwide }

func (HomeCity) isScope()      {}
func (PickedCity) isScope()    {}
func (PickedCountry) isScope() {}
func (NearMe) isScope()        {}
func (InMyCountry) isScope()   {}
func (Worldwide) isScope()     {}

// LocationPredicate is a set of acceptable city ids, or no restriction.
// The zero value matches nothing.
type LocationPredicate struct {
	all    bool
	cities []int64
}

// AnyLocation is the unrestricted predicate.
func AnyLocation() LocationPredicate {
	return LocationPredicate{all: true}
}

// InCities builds a predicate accepting exactly ids.
func InCities(ids ...int64) LocationPredicate {
	set := slices.Clone(ids)
	slices.Sort(set)
	return LocationPredicate{cities: slices.Compact(set)}
}

// Unrestricted reports whether every location is accepted.
func (p LocationPredicate) Unrestricted() bool { return p.all }

// Cities returns the accepted ids, sorted. Nil for an unrestricted predicate.
func (p LocationPredicate) Cities() []int64 { return slices.Clone(p.cities) }

// Empty reports whether the predicate can match nothing.
func (p LocationPredicate) Empty() bool { return !p.all && len(p.cities) == 0 }

// Contains reports whether a (possibly absent) city id is accepted. An absent
// city is only accepted by the unrestricted predicate.
func (p LocationPredicate) Contains(cityID *int64) bool {
	if p.all {
		return true
	}
	if cityID == nil {
		return false
	}
	_, found := slices.BinarySearch(p.cities, *cityID)
	return found
}

// Intersect narrows the predicate to ids.
func (p LocationPredicate) Intersect(ids []int64) LocationPredicate {
	if p.all {
		return InCities(ids...)
	}
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if p.Contains(&id) {
			out = append(out, id)
		}
	}
	return InCities(out...)
}

func (p LocationPredicate) String() string {
	if p.all {
		return "any"
	}
	return fmt.Sprint(p.cities)
}

// ResolvedScope is the outcome of scope resolution. ReferenceCityID is only
// consumed by the traveler filter.
type ResolvedScope struct {
	Kind            ScopeKind
	Predicate       LocationPredicate
	ReferenceCityID *int64
}

// ResolveScope turns a selector and the viewer's home into a location
// predicate. Exactly one branch applies per selector.
func ResolveScope(ctx context.Context, locations LocationCatalog, scope Scope, viewer Viewer) (ResolvedScope, error) {
	if scope == nil {
		scope = Worldwide{}
	}
	rs := ResolvedScope{Kind: scope.Kind()}

	switch s := scope.(type) {
	case PickedCity:
		id := s.CityID
		rs.Predicate = InCities(id)
		rs.ReferenceCityID = &id

	case PickedCountry:
		// No single reference city exists for a multi-city scope, so
		// traveler matching stays disabled.
		ids, err := locations.CitiesInCountry(ctx, s.CountryID)
		if err != nil {
			return rs, storeErr("cities in country", err)
		}
		if len(ids) == 0 {
			return rs, ErrNoMatchingCities
		}
		rs.Predicate = InCities(ids...)

	case NearMe, HomeCity:
		if viewer.HomeCityID == nil {
			return rs, ErrMissingHomeLocation
		}
		home := *viewer.HomeCityID
		rs.Predicate = InCities(home)
		rs.ReferenceCityID = &home

	case InMyCountry:
		if viewer.HomeCityID == nil {
			return rs, ErrMissingHomeLocation
		}
		home := *viewer.HomeCityID
		countryID, err := locations.CountryOfCity(ctx, home)
		if errors.Is(err, ErrUnknownCity) {
			return rs, fmt.Errorf("home city %d: %w", home, ErrMissingHomeLocation)
		}
		if err != nil {
			return rs, storeErr("country of city", err)
		}
		ids, err := locations.CitiesInCountry(ctx, countryID)
		if err != nil {
			return rs, storeErr("cities in country", err)
		}
		// The home city always belongs to its own country.
		rs.Predicate = InCities(append(ids, home)...)
		rs.ReferenceCityID = &home

	case Worldwide:
		rs.Predicate = AnyLocation()

	default:
		return rs, fmt.Errorf("unknown scope %T", scope)
	}
	return rs, nil
}
