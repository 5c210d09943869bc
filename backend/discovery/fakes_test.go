package discovery

import (
	"context"
	"errors"
	"sort"
	"time"
)

var errBoom = errors.New("connection refused")

func id(v int64) *int64 { return &v }

// Catalog fixture: two countries, five cities.
const (
	france int64 = 1
	brazil int64 = 2

	paris     int64 = 10
	lyon      int64 = 11
	saoPaulo  int64 = 20
	rio       int64 = 21
	marseille int64 = 12

	salsa   int64 = 100
	bachata int64 = 101
	kizomba int64 = 102
	tango   int64 = 103
	retired int64 = 199
)

type fakeDirectory struct {
	profiles []Profile
	err      error
	countErr error
	queries  []Query
}

func (d *fakeDirectory) Viewer(_ context.Context, viewerID int64) (Viewer, error) {
	if d.err != nil {
		return Viewer{}, d.err
	}
	for _, p := range d.profiles {
		if p.ID == viewerID {
			return Viewer{ID: p.ID, IsComplete: p.IsComplete, HomeCityID: p.HomeCityID, StyleIDs: p.StyleIDs()}, nil
		}
	}
	return Viewer{}, ErrViewerNotFound
}

func (d *fakeDirectory) FindComplete(_ context.Context, q Query) ([]Profile, error) {
	d.queries = append(d.queries, q)
	if d.err != nil {
		return nil, d.err
	}
	var out []Profile
	for _, p := range d.profiles {
		if q.Matches(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return q.Order.Less(out[i], out[j]) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (d *fakeDirectory) Count(_ context.Context, q Query) (int, error) {
	if d.countErr != nil {
		return 0, d.countErr
	}
	n := 0
	for _, p := range d.profiles {
		if q.Matches(p) {
			n++
		}
	}
	return n, nil
}

type fakeStyles struct {
	styles []Style
	err    error
}

func (s *fakeStyles) ActiveStyles(context.Context) ([]Style, error) {
	return s.styles, s.err
}

func defaultStyles() *fakeStyles {
	return &fakeStyles{styles: []Style{
		{ID: salsa, Name: "Salsa", Active: true},
		{ID: bachata, Name: "Bachata", Active: true},
		{ID: kizomba, Name: "Kizomba", Active: true},
		{ID: tango, Name: "Tango", Active: true},
		{ID: retired, Name: "Lambada", Active: false},
	}}
}

type fakeLocations struct {
	cities  map[int64]City
	err     error
	lookups int
}

func defaultLocations() *fakeLocations {
	fr := Country{ID: france, Name: "France"}
	br := Country{ID: brazil, Name: "Brazil"}
	return &fakeLocations{cities: map[int64]City{
		paris:     {ID: paris, Name: "Paris", Country: fr},
		lyon:      {ID: lyon, Name: "Lyon", Country: fr},
		marseille: {ID: marseille, Name: "Marseille", Country: fr},
		saoPaulo:  {ID: saoPaulo, Name: "São Paulo", Country: br},
		rio:       {ID: rio, Name: "Rio de Janeiro", Country: br},
	}}
}

func (l *fakeLocations) CitiesInCountry(_ context.Context, countryID int64) ([]int64, error) {
	l.lookups++
	if l.err != nil {
		return nil, l.err
	}
	var ids []int64
	for _, c := range l.cities {
		if c.Country.ID == countryID {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (l *fakeLocations) CountryOfCity(_ context.Context, cityID int64) (int64, error) {
	l.lookups++
	if l.err != nil {
		return 0, l.err
	}
	c, ok := l.cities[cityID]
	if !ok {
		return 0, ErrUnknownCity
	}
	return c.Country.ID, nil
}

func (l *fakeLocations) CitiesMatchingName(_ context.Context, text string) ([]int64, error) {
	if l.err != nil {
		return nil, l.err
	}
	var ids []int64
	for _, c := range l.cities {
		if MatchesName(c.Name, text) {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (l *fakeLocations) DescribeCities(_ context.Context, ids []int64) (map[int64]City, error) {
	if l.err != nil {
		return nil, l.err
	}
	out := make(map[int64]City, len(ids))
	for _, i := range ids {
		if c, ok := l.cities[i]; ok {
			out[i] = c
		}
	}
	return out, nil
}

type fakeTrips struct {
	friends map[int64][]int64
	trips   []Trip
	err     error
}

func (f *fakeTrips) FriendIDs(_ context.Context, userID int64) ([]int64, error) {
	return f.friends[userID], f.err
}

func (f *fakeTrips) UpcomingTrips(_ context.Context, userIDs []int64, from time.Time) ([]Trip, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[int64]bool, len(userIDs))
	for _, u := range userIDs {
		want[u] = true
	}
	var out []Trip
	for _, t := range f.trips {
		if want[t.UserID] && !t.End.Before(from) {
			out = append(out, t)
		}
	}
	return out, nil
}

// dancer builds a complete resident profile; tweak the result per test.
func dancer(pid int64, home int64, age time.Duration, styles ...int64) Profile {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := Profile{
		ID:           pid,
		DisplayName:  "Dancer",
		Handle:       "dancer",
		IsComplete:   true,
		HomeCityID:   id(home),
		ActiveCityID: id(home),
		Role:         RoleBoth,
		SkillLevel:   SkillIntermediate,
		CreatedAt:    base.Add(-age),
		UpdatedAt:    base.Add(-age),
	}
	for _, s := range styles {
		p.Styles = append(p.Styles, StyleLevel{StyleID: s, Level: "intermediate"})
	}
	return p
}
