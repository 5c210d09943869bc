package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

type countrySeed struct {
	name   string
	cities []string
}

type continentSeed struct {
	name      string
	countries []countrySeed
}

// geography is the seeded location catalog. Accented names exercise the
// accent-insensitive city search.
var geography = []continentSeed{
	{"Europe", []countrySeed{
		{"France", []string{"Paris", "Lyon", "Marseille"}},
		{"Germany", []string{"Berlin", "München", "Köln"}},
		{"Poland", []string{"Warszawa", "Kraków", "Gdańsk"}},
		{"Finland", []string{"Helsinki", "Tampere", "Jyväskylä"}},
		{"Switzerland", []string{"Zürich", "Genève"}},
	}},
	{"South America", []countrySeed{
		{"Brazil", []string{"São Paulo", "Rio de Janeiro", "Florianópolis"}},
		{"Colombia", []string{"Bogotá", "Medellín", "Cali"}},
	}},
	{"North America", []countrySeed{
		{"Canada", []string{"Montréal", "Québec", "Toronto"}},
		{"United States", []string{"New York", "Los Angeles"}},
	}},
	{"Asia", []countrySeed{
		{"Japan", []string{"Tokyo", "Ōsaka"}},
	}},
}

type styleSeed struct {
	name   string
	active bool
}

var styleCatalog = []styleSeed{
	{"Salsa", true},
	{"Bachata", true},
	{"Kizomba", true},
	{"Zouk", true},
	{"West Coast Swing", true},
	{"Lindy Hop", true},
	{"Tango", true},
	{"Lambada", false},
}

var (
	roles       = []string{"leader", "follower", "both"}
	skillLevels = []string{"beginner", "intermediate", "advanced", "professional"}
)

// dancerSeed is one generated account with its profile.
type dancerSeed struct {
	email       string
	displayName string
	handle      string
	avatar      string

	homeCity   int64
	activeCity *int64

	role  string
	skill string

	teacher, dj, photographer, organizer bool
	openToTravelers, seekingPractice     bool

	likedBy  int
	complete bool
	styles   []styleLevel
	created  time.Time
	updated  time.Time
}

type styleLevel struct {
	styleID int64
	level   string
}

type tripSeed struct {
	cityID     int64
	start, end time.Time
	shared     bool
}

// generator draws a deterministic population from r.
type generator struct {
	r        *rand.Rand
	c        cfg
	cityIDs  []int64
	styleIDs []int64
	now      time.Time
}

func (g *generator) dancers() []dancerSeed {
	out := make([]dancerSeed, 0, g.c.Count)
	handles := make(map[string]struct{}, g.c.Count)
	testEmails := []string{"user1@test.local", "user2@test.local"}

	for i := 0; i < g.c.Count; i++ {
		d := dancerSeed{
			displayName: displayName(g.r),
			homeCity:    g.cityIDs[g.r.Intn(len(g.cityIDs))],
			role:        roles[g.r.Intn(len(roles))],
			skill:       skillLevels[g.r.Intn(len(skillLevels))],
			likedBy:     g.r.Intn(200),
			complete:    g.r.Float64() < g.c.CompleteRate,
		}
		d.handle = uniqueHandle(g.r, d.displayName, handles)
		d.email = d.handle + "@dance.test"
		if i < len(testEmails) {
			// Test users share a home city and are always complete.
			d.email = testEmails[i]
			d.homeCity = g.cityIDs[0]
			d.complete = true
		}
		if g.r.Float64() < 0.5 {
			d.avatar = fmt.Sprintf("%s.jpg", d.handle)
		}

		if g.r.Float64() < g.c.ProRate {
			switch g.r.Intn(3) {
			case 0:
				d.teacher = true
			case 1:
				d.dj = true
			default:
				d.photographer = true
			}
		}
		d.organizer = g.r.Float64() < g.c.ProRate/2
		d.seekingPractice = g.r.Float64() < g.c.PracticeRate

		if g.r.Float64() < g.c.TravelerRate {
			d.openToTravelers = true
			// Half of the open dancers are currently away from home.
			if g.r.Intn(2) == 0 {
				away := g.cityIDs[g.r.Intn(len(g.cityIDs))]
				if away != d.homeCity {
					d.activeCity = &away
				}
			}
		}

		d.styles = g.pickStyles()
		d.created = g.now.Add(-time.Duration(g.r.Intn(365*24)) * time.Hour)
		d.updated = d.created.Add(time.Duration(g.r.Int63n(int64(g.now.Sub(d.created)) + 1)))
		out = append(out, d)
	}
	return out
}

func (g *generator) pickStyles() []styleLevel {
	n := 1 + g.r.Intn(3)
	perm := g.r.Perm(len(g.styleIDs))
	if n > len(perm) {
		n = len(perm)
	}
	out := make([]styleLevel, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, styleLevel{styleID: g.styleIDs[idx], level: skillLevels[g.r.Intn(len(skillLevels))]})
	}
	return out
}

// trips gives each selected user up to two upcoming stays.
func (g *generator) trips() []tripSeed {
	if g.r.Float64() >= g.c.TripRate {
		return nil
	}
	n := 1 + g.r.Intn(2)
	out := make([]tripSeed, 0, n)
	day := time.Date(g.now.Year(), g.now.Month(), g.now.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		start := day.AddDate(0, 0, g.r.Intn(90))
		out = append(out, tripSeed{
			cityID: g.cityIDs[g.r.Intn(len(g.cityIDs))],
			start:  start,
			end:    start.AddDate(0, 0, 1+g.r.Intn(10)),
			shared: g.r.Float64() < 0.7,
		})
	}
	return out
}

func displayName(r *rand.Rand) string {
	first := []string{"Alex", "Sam", "Mia", "Lauri", "Noah", "Olivia", "Leo", "Emil", "Sara", "Luca", "Milla", "Inês", "João", "Zoé", "Chloé"}[r.Intn(15)]
	last := []string{"Korhonen", "Silva", "Nieminen", "Dubois", "Müller", "Nowak", "Mäki", "Gómez", "Salmi", "Tanaka"}[r.Intn(10)]
	return fmt.Sprintf("%s %s", first, last)
}

func uniqueHandle(r *rand.Rand, name string, used map[string]struct{}) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	for {
		h := fmt.Sprintf("%s%d", base, r.Intn(100000))
		if _, ok := used[h]; !ok {
			used[h] = struct{}{}
			return h
		}
	}
}
