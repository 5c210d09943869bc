package discovery

import (
	"sort"
	"time"
)

// IsTraveler reports whether a profile is a visitor: opted in to meet
// travelers and currently somewhere other than home.
func IsTraveler(p Profile) bool {
	if !p.OpenToMeetTravelers || p.ActiveCityID == nil {
		return false
	}
	if p.HomeCityID == nil {
		return true
	}
	return *p.ActiveCityID != *p.HomeCityID
}

// Interval is a closed date range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two closed intervals share at least one instant.
func (a Interval) Overlaps(b Interval) bool {
	return !a.Start.After(b.End) && !b.Start.After(a.End)
}

// Trip is a declared stay of a user in a city.
type Trip struct {
	ID     int64     `json:"id"`
	UserID int64     `json:"user_id"`
	CityID int64     `json:"city_id"`
	Start  time.Time `json:"start_date"`
	End    time.Time `json:"end_date"`
	Shared bool      `json:"-"`
}

func (t Trip) interval() Interval { return Interval{Start: t.Start, End: t.End} }

// TripOverlap pairs one of the viewer's trips with a friend's trip to the
// same city over intersecting dates.
type TripOverlap struct {
	CityID     int64     `json:"city_id"`
	City       *City     `json:"city,omitempty"`
	ViewerTrip Trip      `json:"viewer_trip"`
	FriendTrip Trip      `json:"friend_trip"`
	From       time.Time `json:"from"`
	Until      time.Time `json:"until"`
}

// MatchTrips intersects the viewer's trips with friends' shared trips. The
// shape mirrors traveler matching: a shared city predicate, an interval
// intersection and the friend's independent opt-in.
func MatchTrips(viewerTrips, friendTrips []Trip) []TripOverlap {
	byCity := make(map[int64][]Trip)
	for _, ft := range friendTrips {
		if !ft.Shared {
			continue
		}
		byCity[ft.CityID] = append(byCity[ft.CityID], ft)
	}

	var out []TripOverlap
	for _, vt := range viewerTrips {
		for _, ft := range byCity[vt.CityID] {
			if ft.UserID == vt.UserID || !vt.interval().Overlaps(ft.interval()) {
				continue
			}
			o := TripOverlap{CityID: vt.CityID, ViewerTrip: vt, FriendTrip: ft, From: vt.Start, Until: vt.End}
			if ft.Start.After(o.From) {
				o.From = ft.Start
			}
			if ft.End.Before(o.Until) {
				o.Until = ft.End
			}
			out = append(out, o)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].From.Equal(out[j].From) {
			return out[i].From.Before(out[j].From)
		}
		return out[i].FriendTrip.ID < out[j].FriendTrip.ID
	})
	return out
}
