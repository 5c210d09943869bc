package main

import (
	"errors"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gitea.kood.tech/petrkubec/dance-me/backend/discovery"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator reports field errors by their query parameter name.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// discoverParams is the query string of /discover and /discover/count.
type discoverParams struct {
	Tab       string `query:"tab"        validate:"omitempty,oneof=home_city city country near_me my_country worldwide"`
	CityID    int64  `query:"city_id"    validate:"required_if=Tab city,gte=0"`
	CountryID int64  `query:"country_id" validate:"required_if=Tab country,gte=0"`

	Role       string `query:"role"        validate:"omitempty,oneof=leader follower both all"`
	SkillLevel string `query:"skill_level" validate:"omitempty,oneof=beginner intermediate advanced professional all"`
	Style      string `query:"style"       validate:"max=64"`
	CityName   string `query:"city_name"   validate:"max=128"`

	Teacher      bool `query:"teacher"`
	DJ           bool `query:"dj"`
	Photographer bool `query:"photographer"`
	Organizer    bool `query:"organizer"`
	Traveler     bool `query:"traveler"`
	Practice     bool `query:"practice"`

	Limit  int `query:"limit"  validate:"gte=0,lte=1000"`
	Offset int `query:"offset" validate:"gte=0"`
}

// paramError lists the offending query parameters.
type paramError struct {
	fields []string
}

func (e *paramError) Error() string {
	return "invalid query parameters: " + strings.Join(e.fields, ", ")
}

// parseDiscoverParams decodes and validates a discover query string.
func parseDiscoverParams(q url.Values) (discoverParams, error) {
	p := discoverParams{
		Tab:        strings.TrimSpace(q.Get("tab")),
		Role:       strings.ToLower(strings.TrimSpace(q.Get("role"))),
		SkillLevel: strings.ToLower(strings.TrimSpace(q.Get("skill_level"))),
		Style:      q.Get("style"),
		CityName:   q.Get("city_name"),
	}

	var bad []string
	parseInt := func(name string, dst *int64) {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			return
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			bad = append(bad, name)
			return
		}
		*dst = v
	}
	parseBool := func(name string, dst *bool) {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			return
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			bad = append(bad, name)
			return
		}
		*dst = v
	}

	var limit, offset int64
	parseInt("city_id", &p.CityID)
	parseInt("country_id", &p.CountryID)
	parseInt("limit", &limit)
	parseInt("offset", &offset)
	parseBool("teacher", &p.Teacher)
	parseBool("dj", &p.DJ)
	parseBool("photographer", &p.Photographer)
	parseBool("organizer", &p.Organizer)
	parseBool("traveler", &p.Traveler)
	parseBool("practice", &p.Practice)
	p.Limit, p.Offset = int(limit), int(offset)

	if err := getValidator().Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return p, err
		}
		for _, fe := range verrs {
			bad = append(bad, fe.Field())
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return p, &paramError{fields: bad}
	}
	return p, nil
}

// scope maps the tab selector onto a discovery scope. An absent tab means
// worldwide.
func (p discoverParams) scope() discovery.Scope {
	switch discovery.ScopeKind(p.Tab) {
	case discovery.KindHomeCity:
		return discovery.HomeCity{}
	case discovery.KindPickedCity:
		return discovery.PickedCity{CityID: p.CityID}
	case discovery.KindPickedCountry:
		return discovery.PickedCountry{CountryID: p.CountryID}
	case discovery.KindNearMe:
		return discovery.NearMe{}
	case discovery.KindInMyCountry:
		return discovery.InMyCountry{}
	default:
		return discovery.Worldwide{}
	}
}

func (p discoverParams) request(viewerID int64) discovery.Request {
	return discovery.Request{
		ViewerID: viewerID,
		Scope:    p.scope(),
		Filters: discovery.FilterSet{
			Role:            discovery.Role(p.Role),
			SkillLevel:      discovery.SkillLevel(p.SkillLevel),
			StyleName:       p.Style,
			Teacher:         p.Teacher,
			DJ:              p.DJ,
			Photographer:    p.Photographer,
			EventOrganizer:  p.Organizer,
			Traveler:        p.Traveler,
			PracticePartner: p.Practice,
			CityName:        p.CityName,
		},
		Page: discovery.Page{Limit: p.Limit, Offset: p.Offset},
	}
}
