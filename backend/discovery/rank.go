package discovery

import "sort"

// RankingMode is the primary ordering the directory applies.
type RankingMode string

const (
	// ModeContextual orders by last update, then creation, both descending.
	ModeContextual RankingMode = "contextual"
	// ModeFiltered orders by creation descending only.
	ModeFiltered RankingMode = "filtered"
)

// rankingModeFor picks contextual ordering when the viewer expressed no
// specific intent, and always for the home-relative tabs.
func rankingModeFor(kind ScopeKind, f FilterSet) RankingMode {
	if kind == KindNearMe || kind == KindHomeCity || !f.explicitIntent() {
		return ModeContextual
	}
	return ModeFiltered
}

// Less reports whether a precedes b under the primary ordering. Directories
// that cannot sort natively use it; the id tie-break keeps it total.
func (m RankingMode) Less(a, b Profile) bool {
	if m == ModeContextual && !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// Rank applies the authoritative second phase over a batch already in
// primary order: professionals first, then likes descending inside each
// tier. The input slice is not modified. Ties keep their fetch order.
func Rank(batch []Profile) []Profile {
	pros := make([]Profile, 0, len(batch))
	rest := make([]Profile, 0, len(batch))
	for _, p := range batch {
		if p.IsProfessional() {
			pros = append(pros, p)
		} else {
			rest = append(rest, p)
		}
	}
	byLikes := func(tier []Profile) {
		sort.SliceStable(tier, func(i, j int) bool {
			return tier[i].LikedByCount > tier[j].LikedByCount
		})
	}
	byLikes(pros)
	byLikes(rest)
	return append(pros, rest...)
}
