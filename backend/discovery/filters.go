package discovery

import "strings"

// FilterSet holds the optional preference filters. Zero values mean "no
// restriction"; the literal "all" is accepted for role and skill level.
type FilterSet struct {
	Role       Role
	SkillLevel SkillLevel
	StyleName  string

	// Each professional flag, when set, requires the candidate to carry it.
	Teacher        bool
	DJ             bool
	Photographer   bool
	EventOrganizer bool

	Traveler        bool
	PracticePartner bool

	// CityName is free text matched against the city catalog.
	CityName string
}

// Normalize trims free text and folds "all" into the unset value.
func (f FilterSet) Normalize() FilterSet {
	f.StyleName = strings.TrimSpace(f.StyleName)
	f.CityName = strings.TrimSpace(f.CityName)
	if strings.EqualFold(string(f.Role), "all") {
		f.Role = ""
	}
	if strings.EqualFold(string(f.SkillLevel), "all") {
		f.SkillLevel = ""
	}
	return f
}

// explicitIntent reports whether the viewer narrowed the search by style,
// role or city.
func (f FilterSet) explicitIntent() bool {
	return f.StyleName != "" || f.Role != "" || f.CityName != ""
}

// LocationField selects which profile field the location predicate tests.
type LocationField int

const (
	FieldHomeCity LocationField = iota
	FieldActiveCity
)

// Query is the closed, fully resolved filter handed to the directory. Its
// Matches method is the reference semantics every Directory must follow.
type Query struct {
	ExcludeID int64

	Locations     LocationPredicate
	LocationField LocationField
	// TravelersOnly requires activeCity != homeCity and the traveler opt-in.
	TravelersOnly bool

	// RequireStyleOverlap requires the practice-partner opt-in and a
	// non-empty intersection with ViewerStyleIDs.
	RequireStyleOverlap bool
	ViewerStyleIDs      []int64

	// StyleID, when set, requires the candidate to declare that style.
	StyleID *int64

	Role       Role
	SkillLevel SkillLevel

	Teacher        bool
	DJ             bool
	Photographer   bool
	EventOrganizer bool

	Order RankingMode
	// Limit caps the fetched rows. Zero means no cap.
	Limit int
}

// Impossible reports whether the query can be answered as empty without
// touching the directory.
func (q Query) Impossible() bool {
	if q.Locations.Empty() {
		return true
	}
	return q.RequireStyleOverlap && len(q.ViewerStyleIDs) == 0
}

// Matches applies every condition of the query to one profile.
func (q Query) Matches(p Profile) bool {
	if !p.IsComplete || p.ID == q.ExcludeID {
		return false
	}

	switch q.LocationField {
	case FieldActiveCity:
		if !q.Locations.Contains(p.CurrentCity()) {
			return false
		}
	default:
		if !q.Locations.Contains(p.HomeCityID) {
			return false
		}
	}
	if q.TravelersOnly && !IsTraveler(p) {
		return false
	}

	if q.RequireStyleOverlap {
		if !p.SeekingPracticePartners || !StylesCompatible(q.ViewerStyleIDs, p.StyleIDs()) {
			return false
		}
	}
	if q.StyleID != nil && !StylesCompatible([]int64{*q.StyleID}, p.StyleIDs()) {
		return false
	}

	if q.Role != "" && p.Role != q.Role {
		return false
	}
	if q.SkillLevel != "" && p.SkillLevel != q.SkillLevel {
		return false
	}
	if q.Teacher && !p.Teacher {
		return false
	}
	if q.DJ && !p.DJ {
		return false
	}
	if q.Photographer && !p.Photographer {
		return false
	}
	if q.EventOrganizer && !p.EventOrganizer {
		return false
	}
	return true
}

// buildQuery combines the resolved scope and filters. The second return
// reports whether the traveler filter took effect; it is false whenever no
// reference city was resolved, in which case the scope tests home cities.
func buildQuery(viewer Viewer, rs ResolvedScope, f FilterSet, styleID *int64) (Query, bool) {
	q := Query{
		ExcludeID:      viewer.ID,
		Locations:      rs.Predicate,
		LocationField:  FieldHomeCity,
		StyleID:        styleID,
		Role:           f.Role,
		SkillLevel:     f.SkillLevel,
		Teacher:        f.Teacher,
		DJ:             f.DJ,
		Photographer:   f.Photographer,
		EventOrganizer: f.EventOrganizer,
		Order:          rankingModeFor(rs.Kind, f),
	}

	travelerApplied := false
	if f.Traveler && rs.ReferenceCityID != nil {
		q.LocationField = FieldActiveCity
		q.TravelersOnly = true
		travelerApplied = true
	}

	if f.PracticePartner {
		q.RequireStyleOverlap = true
		q.ViewerStyleIDs = viewer.StyleIDs
		if q.ViewerStyleIDs == nil {
			q.ViewerStyleIDs = []int64{}
		}
	}
	return q, travelerApplied
}
