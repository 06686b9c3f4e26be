package query

import (
	"fmt"
	"strings"

	"hetracker/domain/core"
	"hetracker/domain/demographic"
	"hetracker/domain/fips"
)

// Geography is the level rows are reported at
type Geography string

const (
	National Geography = "national"
	State    Geography = "state"
	County   Geography = "county"
)

// ParseGeography maps user input onto a geography level
func ParseGeography(s string) (Geography, bool) {
	switch Geography(strings.ToLower(strings.TrimSpace(s))) {
	case National:
		return National, true
	case State:
		return State, true
	case County:
		return County, true
	}
	return "", false
}

// DemographicBreakdown is the state of one demographic dimension
type DemographicBreakdown struct {
	Dimension demographic.Dimension
	Enabled   bool
	Filter    Filter
}

// ColumnName is the row column holding this dimension's group label
func (d DemographicBreakdown) ColumnName() string {
	return string(d.Dimension)
}

// Breakdowns describes how a query slices data. Values are copied, never
// shared, so a Breakdowns handed to a provider cannot be changed under it.
type Breakdowns struct {
	Geography  Geography
	FilterFips *fips.Fips
	Time       bool

	demographics map[demographic.Dimension]DemographicBreakdown
}

func newBreakdowns(geo Geography, filter *fips.Fips) Breakdowns {
	b := Breakdowns{
		Geography:    geo,
		demographics: make(map[demographic.Dimension]DemographicBreakdown, len(demographic.Dimensions)),
	}
	if filter != nil {
		f := *filter
		b.FilterFips = &f
	}
	for _, d := range demographic.Dimensions {
		b.demographics[d] = DemographicBreakdown{Dimension: d, Filter: IncludeAll()}
	}
	return b
}

// NationalBreakdowns returns a national breakdown with no demographic split
func NationalBreakdowns() Breakdowns { return newBreakdowns(National, nil) }

// ByState returns every state with no demographic split
func ByState() Breakdowns { return newBreakdowns(State, nil) }

// ByCounty returns every county with no demographic split
func ByCounty() Breakdowns { return newBreakdowns(County, nil) }

// ForFips anchors a breakdown at a single geography
func ForFips(f fips.Fips) Breakdowns {
	switch {
	case f.IsCounty():
		return newBreakdowns(County, &f)
	case f.IsState():
		return newBreakdowns(State, &f)
	default:
		return NationalBreakdowns()
	}
}

// ForParentFips returns the child geographies of f: counties of a state or
// states of the nation
func ForParentFips(f fips.Fips) Breakdowns {
	switch {
	case f.IsState():
		return newBreakdowns(County, &f)
	case f.IsUSA():
		return ByState()
	default:
		return ForFips(f)
	}
}

// AddBreakdown returns a copy with dim enabled and every other dimension
// disabled. Without a filter every group is kept.
func (b Breakdowns) AddBreakdown(dim demographic.Dimension, filter ...Filter) Breakdowns {
	out := b.Copy()
	for d := range out.demographics {
		out.demographics[d] = DemographicBreakdown{Dimension: d, Filter: IncludeAll()}
	}
	f := IncludeAll()
	if len(filter) > 0 {
		f = filter[0]
	}
	out.demographics[dim] = DemographicBreakdown{Dimension: dim, Enabled: true, Filter: f}
	return out
}

// WithTime returns a copy with the longitudinal flag set
func (b Breakdowns) WithTime(time bool) Breakdowns {
	out := b.Copy()
	out.Time = time
	return out
}

// Copy returns an independent clone
func (b Breakdowns) Copy() Breakdowns {
	out := newBreakdowns(b.Geography, b.FilterFips)
	out.Time = b.Time
	for d, db := range b.demographics {
		db.Filter = Filter{include: db.Filter.include, values: db.Filter.Values()}
		out.demographics[d] = db
	}
	return out
}

// Demographic returns the state of dim
func (b Breakdowns) Demographic(dim demographic.Dimension) DemographicBreakdown {
	if db, ok := b.demographics[dim]; ok {
		return db
	}
	return DemographicBreakdown{Dimension: dim, Filter: IncludeAll()}
}

func (b Breakdowns) enabled() []DemographicBreakdown {
	var out []DemographicBreakdown
	for _, d := range demographic.Dimensions {
		if db := b.Demographic(d); db.Enabled {
			out = append(out, db)
		}
	}
	return out
}

func (b Breakdowns) hasOnly(dim demographic.Dimension) bool {
	enabled := b.enabled()
	return len(enabled) == 1 && enabled[0].Dimension == dim
}

func (b Breakdowns) HasOnlyRace() bool { return b.hasOnly(demographic.Race) }
func (b Breakdowns) HasOnlyAge() bool  { return b.hasOnly(demographic.Age) }
func (b Breakdowns) HasOnlySex() bool  { return b.hasOnly(demographic.Sex) }

// HasNoDemographicBreakdown is true before AddBreakdown is called
func (b Breakdowns) HasNoDemographicBreakdown() bool {
	return len(b.enabled()) == 0
}

// HasExactlyOneDemographic is true when a single dimension is enabled
func (b Breakdowns) HasExactlyOneDemographic() bool {
	return len(b.enabled()) == 1
}

// GetSoleDemographicBreakdown returns the only enabled dimension
func (b Breakdowns) GetSoleDemographicBreakdown() (DemographicBreakdown, error) {
	enabled := b.enabled()
	switch len(enabled) {
	case 0:
		return DemographicBreakdown{}, core.ErrNoDemographic
	case 1:
		return enabled[0], nil
	default:
		return DemographicBreakdown{}, core.ErrMultipleDemographics
	}
}

// EnableDemographic turns on an extra dimension without disabling the
// others. Used to build multi-dimension requests that providers reject.
func (b Breakdowns) EnableDemographic(dim demographic.Dimension, filter Filter) Breakdowns {
	out := b.Copy()
	out.demographics[dim] = DemographicBreakdown{Dimension: dim, Enabled: true, Filter: filter}
	return out
}

// IsNational, IsState and IsCounty test the geography level
func (b Breakdowns) IsNational() bool { return b.Geography == National }
func (b Breakdowns) IsState() bool    { return b.Geography == State }
func (b Breakdowns) IsCounty() bool   { return b.Geography == County }

func (b Breakdowns) String() string {
	var sb strings.Builder
	sb.WriteString("geography=")
	sb.WriteString(string(b.Geography))
	if b.FilterFips != nil {
		fmt.Fprintf(&sb, " fips=%s", b.FilterFips.Code)
	}
	for _, db := range b.enabled() {
		fmt.Fprintf(&sb, " %s[%s]", db.Dimension, db.Filter)
	}
	fmt.Fprintf(&sb, " time=%t", b.Time)
	return sb.String()
}
