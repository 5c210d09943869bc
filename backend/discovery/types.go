package discovery

import "time"

// Role is the partner role a dancer declares.
type Role string

const (
	RoleLeader   Role = "leader"
	RoleFollower Role = "follower"
	RoleBoth     Role = "both"
)

// SkillLevel is the self-declared overall level of a dancer.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillProfessional SkillLevel = "professional"
)

// StyleLevel pairs a style id with the level the dancer declared for it.
type StyleLevel struct {
	StyleID int64
	Level   string
}

// Profile is a directory record as the engine sees it. Private fields such as
// email never reach this type.
type Profile struct {
	ID          int64
	DisplayName string
	Handle      string
	Avatar      string
	IsComplete  bool

	HomeCityID   *int64
	ActiveCityID *int64

	Role       Role
	SkillLevel SkillLevel

	Teacher        bool
	DJ             bool
	Photographer   bool
	EventOrganizer bool

	OpenToMeetTravelers     bool
	SeekingPracticePartners bool

	Styles       []StyleLevel
	LikedByCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CurrentCity returns the active city, falling back to the home city.
func (p Profile) CurrentCity() *int64 {
	if p.ActiveCityID != nil {
		return p.ActiveCityID
	}
	return p.HomeCityID
}

// IsProfessional reports whether the profile ranks in the professional tier.
// Event organizers are filterable but do not lift a dancer in ranking.
func (p Profile) IsProfessional() bool {
	return p.Teacher || p.DJ || p.Photographer
}

// StyleIDs returns the declared style ids in declaration order.
func (p Profile) StyleIDs() []int64 {
	ids := make([]int64, 0, len(p.Styles))
	for _, s := range p.Styles {
		ids = append(ids, s.StyleID)
	}
	return ids
}

// Viewer is the requesting dancer: the only parts of their profile the
// engine needs to resolve scopes and practice-partner matching.
type Viewer struct {
	ID         int64
	IsComplete bool
	HomeCityID *int64
	StyleIDs   []int64
}

// Style is an entry of the style catalog.
type Style struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"-"`
}

// Country is a display reference to a country.
type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// City is a display reference to a city joined with its country.
type City struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Country Country `json:"country"`
}

// Page selects a window of the ranked set.
type Page struct {
	Limit  int
	Offset int
}

// Request is one discovery call. Every parameter is explicit; there is no
// ambient "current user".
type Request struct {
	ViewerID int64
	Scope    Scope
	Filters  FilterSet
	Page     Page
}

// StyleRef is a resolved style on a shaped dancer.
type StyleRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// Dancer is the public shape of a discovered profile.
type Dancer struct {
	ID                      int64      `json:"id"`
	DisplayName             string     `json:"display_name"`
	Handle                  string     `json:"handle"`
	Avatar                  string     `json:"avatar"`
	HomeCity                *City      `json:"home_city,omitempty"`
	ActiveCity              *City      `json:"active_city,omitempty"`
	Role                    Role       `json:"role,omitempty"`
	SkillLevel              SkillLevel `json:"skill_level,omitempty"`
	Styles                  []StyleRef `json:"styles"`
	Teacher                 bool       `json:"teacher"`
	DJ                      bool       `json:"dj"`
	Photographer            bool       `json:"photographer"`
	EventOrganizer          bool       `json:"event_organizer"`
	OpenToMeetTravelers     bool       `json:"open_to_meet_travelers"`
	SeekingPracticePartners bool       `json:"seeking_practice_partners"`
	IsTraveler              bool       `json:"is_traveler"`
	LikedByCount            int        `json:"liked_by_count"`
}

// Result is one page of discovery output.
type Result struct {
	Results         []Dancer    `json:"results"`
	Total           int         `json:"total"`
	HasMore         bool        `json:"has_more"`
	Reason          Reason      `json:"reason,omitempty"`
	Mode            RankingMode `json:"-"`
	TravelerApplied bool        `json:"traveler_applied"`
}
