package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hetracker/domain/demographic"
	"hetracker/domain/query"
	"hetracker/internal/errors"
)

func TestQueryRequestBreakdowns(t *testing.T) {
	cases := []struct {
		name string
		req  QueryRequest
		geo  query.Geography
		fips string
	}{
		{"default national", QueryRequest{}, query.National, ""},
		{"all states", QueryRequest{Geography: "state"}, query.State, ""},
		{"one state", QueryRequest{Fips: "37"}, query.State, "37"},
		{"counties of a state", QueryRequest{Fips: "37", Geography: "county"}, query.County, "37"},
		{"states of the nation", QueryRequest{Fips: "00", Geography: "state"}, query.State, ""},
		{"one county", QueryRequest{Fips: "37063"}, query.County, "37063"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, err := c.req.Breakdowns()
			require.NoError(t, err)
			assert.Equal(t, c.geo, b.Geography)
			if c.fips == "" {
				assert.Nil(t, b.FilterFips)
			} else {
				require.NotNil(t, b.FilterFips)
				assert.Equal(t, c.fips, b.FilterFips.Code)
			}
		})
	}
}

func TestQueryRequestRejectsBadInput(t *testing.T) {
	bad := []QueryRequest{
		{MetricIDs: []string{"covid_cases"}, Geography: "planet"},
		{MetricIDs: []string{"covid_cases"}, Fips: "3"},
		{MetricIDs: []string{"covid_cases"}, Fips: "37063", Geography: "state"},
		{MetricIDs: []string{"covid_cases"}, Demographic: "height"},
		{MetricIDs: []string{"covid_cases"}, Demographic: "race", Filter: FilterRequest{Mode: "maybe"}},
		{MetricIDs: []string{"covid_cases"}, TimeView: "sideways"},
		{},
	}
	for _, r := range bad {
		_, err := r.Query()
		require.Error(t, err, "%+v", r)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	}
}

func TestQueryRequestBuildsFilteredLongitudinalQuery(t *testing.T) {
	q, err := QueryRequest{
		MetricIDs:   []string{"covid_cases_share", " covid_deaths "},
		Geography:   "state",
		Demographic: "race",
		Filter:      FilterRequest{Mode: "exclude"},
		TimeView:    "longitudinal",
	}.Query()
	require.NoError(t, err)

	assert.True(t, q.Breakdowns.Time)
	assert.Equal(t, query.Longitudinal, q.TimeView)
	assert.True(t, q.Requests("covid_deaths"))
	db := q.Breakdowns.Demographic(demographic.Race)
	assert.True(t, db.Enabled)
	assert.False(t, db.Filter.Allows(demographic.All))
	assert.True(t, db.Filter.Allows(demographic.AsianNH))
}
