package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hetracker/domain/core"
	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
	"hetracker/domain/fips"
	"hetracker/domain/metric"
	"hetracker/domain/query"
	"hetracker/internal/testkit"
)

var populationMetrics = []metric.ID{metric.Population, metric.PopulationPct}

func populationRow(f testkit.FipsSpec, groupCol, group string, population, pct float64) dataset.Row {
	return testkit.FinalRow(f, groupCol, group, testkit.Cells(
		string(metric.Population), population,
		string(metric.PopulationPct), pct,
	))
}

func TestAcsDatasetIDs(t *testing.T) {
	p := NewAcsPopulationProvider(nil)
	cases := []struct {
		b    query.Breakdowns
		want string
	}{
		{query.ByState().AddBreakdown(demographic.Race), "acs_population-by_race_state_std"},
		{query.ByCounty().AddBreakdown(demographic.Race), "acs_population-by_race_county_std"},
		{query.NationalBreakdowns().AddBreakdown(demographic.Age), "acs_population-by_age_state"},
		{query.ByCounty().AddBreakdown(demographic.Sex), "acs_population-by_sex_county"},
	}
	for _, c := range cases {
		id, err := p.DatasetID(c.b)
		require.NoError(t, err)
		assert.Equal(t, c.want, id)
	}

	_, err := p.DatasetID(query.ByState())
	assert.ErrorIs(t, err, core.ErrNoDemographic)
}

func TestAcsStateAndAge(t *testing.T) {
	kit := testkit.NewKit()
	age := demographic.Age.String()
	kit.Load("acs_population-by_age_state",
		testkit.AcsRow(testkit.NC, age, "0-9", 15),
		testkit.AcsRow(testkit.NC, age, "10-19", 10),
		testkit.AcsRow(testkit.NC, age, demographic.Total, 25),
		testkit.AcsRow(testkit.AL, age, "0-9", 20),
	)
	p := NewAcsPopulationProvider(kit.Fetcher)

	resp, err := GetData(context.Background(), p, query.NewMetricQuery(populationMetrics,
		query.ForFips(fips.MustNew(testkit.NC.Code)).AddBreakdown(demographic.Age), ""))
	require.NoError(t, err)
	assert.Equal(t, []dataset.Row{
		populationRow(testkit.NC, age, "0-9", 15, 60),
		populationRow(testkit.NC, age, "10-19", 10, 40),
		populationRow(testkit.NC, age, demographic.All, 25, 100),
	}, resp.Data)
	assert.Equal(t, []string{"acs_population-by_age_state"}, resp.ConsumedDatasetIDs)
}

func TestAcsNationalSumsStates(t *testing.T) {
	kit := testkit.NewKit()
	kit.Load("acs_population-by_race_state_std",
		testkit.AcsRow(testkit.NC, race, demographic.AsianNH, 100),
		testkit.AcsRow(testkit.NC, race, demographic.WhiteNH, 300),
		testkit.AcsRow(testkit.AL, race, demographic.AsianNH, 100),
		testkit.AcsRow(testkit.AL, race, demographic.WhiteNH, 500),
	)
	p := NewAcsPopulationProvider(kit.Fetcher)

	resp, err := GetData(context.Background(), p, query.NewMetricQuery(populationMetrics,
		query.NationalBreakdowns().AddBreakdown(demographic.Race, query.OnlyInclude(demographic.AsianNH)), ""))
	require.NoError(t, err)
	assert.Equal(t, []dataset.Row{populationRow(testkit.USA, race, demographic.AsianNH, 200, 20)}, resp.Data)
}

func TestAcsProjectsOnlyRequestedMetrics(t *testing.T) {
	kit := testkit.NewKit()
	kit.Load("acs_population-by_sex_state", testkit.AcsRow(testkit.NC, "sex", "Female", 10))
	p := NewAcsPopulationProvider(kit.Fetcher)

	resp, err := GetData(context.Background(), p, query.NewMetricQuery(
		[]metric.ID{metric.PopulationPct, metric.CovidCases}, query.ByState().AddBreakdown(demographic.Sex), ""))
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.ElementsMatch(t, []string{"fips", "fips_name", "sex", "population_pct"}, resp.Data[0].Columns())
}

func TestAcsRejectsTimeAndMultipleDemographics(t *testing.T) {
	p := NewAcsPopulationProvider(nil)
	b := query.ByState().AddBreakdown(demographic.Race)
	assert.True(t, p.AllowsBreakdowns(b))
	assert.False(t, p.AllowsBreakdowns(b.WithTime(true)))
	assert.False(t, p.AllowsBreakdowns(b.EnableDemographic(demographic.Age, query.IncludeAll())))
	assert.False(t, p.AllowsBreakdowns(query.ByState()))
}

func TestAcs2010Territories(t *testing.T) {
	kit := testkit.NewKit()
	kit.Load("acs_2010_population-by_race_and_ethnicity_territory",
		testkit.AcsRow(testkit.VI, race, demographic.AsianNH, 10),
		testkit.AcsRow(testkit.VI, race, demographic.Total, 40),
	)
	p := NewAcs2010PopulationProvider(kit.Fetcher)
	vi := query.ForFips(fips.MustNew(testkit.VI.Code)).AddBreakdown(demographic.Race, query.ExcludeAll())

	assert.True(t, p.AllowsBreakdowns(vi))
	assert.True(t, p.AllowsBreakdowns(query.ByState().AddBreakdown(demographic.Race)))
	assert.False(t, p.AllowsBreakdowns(query.ForFips(fips.MustNew(testkit.NC.Code)).AddBreakdown(demographic.Race)))
	assert.False(t, p.AllowsBreakdowns(query.NationalBreakdowns().AddBreakdown(demographic.Race)))

	resp, err := GetData(context.Background(), p, query.NewMetricQuery(
		[]metric.ID{metric.Population2010, metric.PopulationPct2010}, vi, ""))
	require.NoError(t, err)
	assert.Equal(t, []dataset.Row{
		testkit.FinalRow(testkit.VI, race, demographic.AsianNH, testkit.Cells(
			string(metric.Population2010), 10,
			string(metric.PopulationPct2010), 25,
		)),
	}, resp.Data)
}

func TestMergedNationalExcludesStates(t *testing.T) {
	kit := testkit.NewKit()
	kit.Load("merged_population_data-by_race_state",
		testkit.AcsRow(testkit.NC, race, demographic.AsianNH, 100),
		testkit.AcsRow(testkit.NC, race, demographic.All, 400),
		testkit.AcsRow(testkit.DC, race, demographic.AsianNH, 50),
		testkit.AcsRow(testkit.DC, race, demographic.All, 100),
	)
	p := NewMergedPopulationProvider(kit.Fetcher, []string{testkit.DC.Code})
	b := query.NationalBreakdowns().AddBreakdown(demographic.Race)

	resp, err := GetData(context.Background(), p, query.NewMetricQuery(populationMetrics, b, ""))
	require.NoError(t, err)
	assert.Equal(t, []dataset.Row{
		populationRow(testkit.USA, race, demographic.AsianNH, 100, 25),
		populationRow(testkit.USA, race, demographic.All, 400, 100),
	}, resp.Data)

	p = NewMergedPopulationProvider(kit.Fetcher, nil)
	resp, err = GetData(context.Background(), p, query.NewMetricQuery(populationMetrics, b, ""))
	require.NoError(t, err)
	assert.Equal(t, dataset.Num(500), resp.Data[1].Get(string(metric.Population)))
}

func TestMergedRejectsCounties(t *testing.T) {
	p := NewMergedPopulationProvider(nil, nil)
	_, err := GetData(context.Background(), p, query.NewMetricQuery(populationMetrics,
		query.ByCounty().AddBreakdown(demographic.Race), ""))
	assert.ErrorIs(t, err, core.ErrUnsupportedBreakdown)
}
