package discovery

import (
	"errors"
	"fmt"
)

// Reason explains why a discovery result is empty for a domain cause.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonMissingHomeLocation Reason = "missing_home_location"
	ReasonNoMatchingCities    Reason = "no_matching_cities"
	ReasonStyleNotFound       Reason = "style_not_found"
)

var (
	// ErrMissingHomeLocation: a home-relative scope was requested by a viewer
	// without a home city.
	ErrMissingHomeLocation = errors.New("viewer has no home city")

	// ErrNoMatchingCities: the city-name filter or the picked country
	// resolved to no catalog city.
	ErrNoMatchingCities = errors.New("no matching cities")

	// ErrStyleNotFound: the requested style is not in the active catalog.
	ErrStyleNotFound = errors.New("style not found")

	// ErrStoreUnavailable wraps every failed directory or catalog read.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnknownCity: a city id has no catalog row.
	ErrUnknownCity = errors.New("city not found")

	// ErrViewerNotFound: the viewer id has no profile.
	ErrViewerNotFound = errors.New("viewer not found")

	// ErrIncompleteProfile: only complete profiles may discover others.
	ErrIncompleteProfile = errors.New("viewer profile is incomplete")
)

// reasonFor maps a domain error to its reason code. The second return is
// false for errors that must propagate.
func reasonFor(err error) (Reason, bool) {
	switch {
	case errors.Is(err, ErrMissingHomeLocation):
		return ReasonMissingHomeLocation, true
	case errors.Is(err, ErrNoMatchingCities):
		return ReasonNoMatchingCities, true
	case errors.Is(err, ErrStyleNotFound):
		return ReasonStyleNotFound, true
	}
	return ReasonNone, false
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
