package discovery

import "strings"

// StylesCompatible reports whether the two style-id sets intersect. Ids are
// compared directly so names, locales and casing never matter.
func StylesCompatible(viewer, candidate []int64) bool {
	if len(viewer) == 0 || len(candidate) == 0 {
		return false
	}
	set := make(map[int64]struct{}, len(viewer))
	for _, id := range viewer {
		set[id] = struct{}{}
	}
	for _, id := range candidate {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// FindStyleByName resolves a style name case-insensitively against the
// active catalog. Inactive styles never match.
func FindStyleByName(catalog []Style, name string) (Style, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Style{}, false
	}
	for _, s := range catalog {
		if s.Active && strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Style{}, false
}

// activeOnly keeps the ids present in the active catalog, preserving order.
func activeOnly(ids []int64, catalog map[int64]Style) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := catalog[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func indexStyles(styles []Style) map[int64]Style {
	m := make(map[int64]Style, len(styles))
	for _, s := range styles {
		if s.Active {
			m[s.ID] = s
		}
	}
	return m
}
