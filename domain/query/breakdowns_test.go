package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hetracker/domain/core"
	"hetracker/domain/demographic"
	"hetracker/domain/fips"
)

func TestForFipsPicksGeography(t *testing.T) {
	tests := []struct {
		code string
		want Geography
	}{
		{"00", National},
		{"37", State},
		{"37001", County},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			b := ForFips(fips.MustNew(tt.code))
			if b.Geography != tt.want {
				t.Errorf("ForFips(%s).Geography = %s, want %s", tt.code, b.Geography, tt.want)
			}
			if !b.HasNoDemographicBreakdown() {
				t.Errorf("ForFips(%s) should start with no demographic breakdown", tt.code)
			}
		})
	}
}

func TestForParentFips(t *testing.T) {
	b := ForParentFips(fips.MustNew("37"))
	assert.Equal(t, County, b.Geography)
	require.NotNil(t, b.FilterFips)
	assert.Equal(t, "37", b.FilterFips.Code)

	b = ForParentFips(fips.USA())
	assert.Equal(t, State, b.Geography)
	assert.Nil(t, b.FilterFips)
}

func TestSoleDemographicBreakdown(t *testing.T) {
	base := ForFips(fips.MustNew("37"))

	_, err := base.GetSoleDemographicBreakdown()
	assert.True(t, errors.Is(err, core.ErrNoDemographic))

	race := base.AddBreakdown(demographic.Race, ExcludeAll())
	assert.True(t, race.HasExactlyOneDemographic())
	assert.True(t, race.HasOnlyRace())
	assert.False(t, race.HasOnlyAge())
	sole, err := race.GetSoleDemographicBreakdown()
	require.NoError(t, err)
	assert.Equal(t, demographic.Race, sole.Dimension)
	assert.Equal(t, "race_and_ethnicity", sole.ColumnName())

	two := race.EnableDemographic(demographic.Sex, IncludeAll())
	assert.False(t, two.HasExactlyOneDemographic())
	_, err = two.GetSoleDemographicBreakdown()
	assert.True(t, errors.Is(err, core.ErrMultipleDemographics))
}

func TestAddBreakdownReplacesDimension(t *testing.T) {
	b := NationalBreakdowns().AddBreakdown(demographic.Race).AddBreakdown(demographic.Age)
	assert.True(t, b.HasOnlyAge())
}

func TestCopyIsIndependent(t *testing.T) {
	original := ForFips(fips.MustNew("37")).AddBreakdown(demographic.Race)
	clone := original.Copy()
	clone.Geography = County
	clone.FilterFips.Code = "01"
	clone = clone.AddBreakdown(demographic.Sex)

	assert.Equal(t, State, original.Geography)
	assert.Equal(t, "37", original.FilterFips.Code)
	assert.True(t, original.HasOnlyRace())
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		group  string
		want   bool
	}{
		{"include all keeps All", IncludeAll(), demographic.All, true},
		{"exclude all drops All", ExcludeAll(), demographic.All, false},
		{"exclude all keeps subgroup", ExcludeAll(), demographic.AsianNH, true},
		{"exclude listed", Exclude(demographic.Unknown, demographic.All), demographic.Unknown, false},
		{"only include listed", OnlyInclude(demographic.All), demographic.All, true},
		{"only include other", OnlyInclude(demographic.All), demographic.WhiteNH, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Allows(tt.group); got != tt.want {
				t.Errorf("Allows(%q) = %v, want %v", tt.group, got, tt.want)
			}
		})
	}
}

func TestNewMetricQuerySetsTimeOnCopy(t *testing.T) {
	b := ByState().AddBreakdown(demographic.Sex)
	q := NewMetricQuery(nil, b, Longitudinal)
	assert.True(t, q.Breakdowns.Time)
	assert.False(t, b.Time)
	assert.NotEmpty(t, q.ID.String())

	q = NewMetricQuery(nil, b, "")
	assert.Equal(t, CrossSectional, q.TimeView)
	assert.False(t, q.Breakdowns.Time)
}

func TestParseGeography(t *testing.T) {
	g, ok := ParseGeography(" State ")
	assert.True(t, ok)
	assert.Equal(t, State, g)
	_, ok = ParseGeography("city")
	assert.False(t, ok)
}
