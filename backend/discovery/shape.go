package discovery

// shapeDancers joins display locations and style names onto a page of
// profiles. Inactive or unknown styles are dropped.
func shapeDancers(page []Profile, cities map[int64]City, styles map[int64]Style, travelerApplied bool) []Dancer {
	out := make([]Dancer, 0, len(page))
	for _, p := range page {
		d := Dancer{
			ID:                      p.ID,
			DisplayName:             p.DisplayName,
			Handle:                  p.Handle,
			Avatar:                  p.Avatar,
			Role:                    p.Role,
			SkillLevel:              p.SkillLevel,
			Styles:                  make([]StyleRef, 0, len(p.Styles)),
			Teacher:                 p.Teacher,
			DJ:                      p.DJ,
			Photographer:            p.Photographer,
			EventOrganizer:          p.EventOrganizer,
			OpenToMeetTravelers:     p.OpenToMeetTravelers,
			SeekingPracticePartners: p.SeekingPracticePartners,
			IsTraveler:              travelerApplied && IsTraveler(p),
			LikedByCount:            p.LikedByCount,
		}
		d.HomeCity = lookupCity(cities, p.HomeCityID)
		if active := p.CurrentCity(); active != nil && (p.HomeCityID == nil || *active != *p.HomeCityID) {
			d.ActiveCity = lookupCity(cities, active)
		}
		for _, sl := range p.Styles {
			s, ok := styles[sl.StyleID]
			if !ok {
				continue
			}
			d.Styles = append(d.Styles, StyleRef{ID: s.ID, Name: s.Name, Level: sl.Level})
		}
		out = append(out, d)
	}
	return out
}

func lookupCity(cities map[int64]City, id *int64) *City {
	if id == nil {
		return nil
	}
	if c, ok := cities[*id]; ok {
		return &c
	}
	return &City{ID: *id}
}

// cityIDs collects the distinct home and active cities of a page.
func cityIDs(page []Profile) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	add := func(id *int64) {
		if id == nil {
			return
		}
		if _, ok := seen[*id]; ok {
			return
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}
	for _, p := range page {
		add(p.HomeCityID)
		add(p.CurrentCity())
	}
	return ids
}
