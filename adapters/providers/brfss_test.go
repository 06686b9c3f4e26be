package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
	"hetracker/domain/fips"
	"hetracker/domain/metric"
	"hetracker/domain/query"
	"hetracker/internal/testkit"
)

var race = demographic.Race.String()

func brfssRow(f testkit.FipsSpec, group string, copd, copdNo, diabetes, diabetesNo float64) dataset.Row {
	return testkit.StateRow(f, race, group, testkit.Cells(
		"copd_count", copd, "copd_no", copdNo,
		"diabetes_count", diabetes, "diabetes_no", diabetesNo,
	))
}

func diabetesRow(f testkit.FipsSpec, group string, count, per100k float64) dataset.Row {
	return testkit.FinalRow(f, race, group, testkit.Cells(
		string(metric.DiabetesCount), count,
		string(metric.DiabetesPer100k), per100k,
	))
}

func TestBrfssStateAndRaceWithAndWithoutAll(t *testing.T) {
	kit := testkit.NewKit()
	kit.Load(BrfssDatasetID,
		brfssRow(testkit.AL, demographic.AsianNH, 100, 900, 200, 800),
		brfssRow(testkit.NC, demographic.AsianNH, 100, 900, 400, 600),
		brfssRow(testkit.NC, demographic.WhiteNH, 500, 500, 600, 400),
	)
	p := NewBrfssProvider(kit.Fetcher, NewAcsPopulationProvider(kit.Fetcher))
	ids := []metric.ID{metric.DiabetesCount, metric.DiabetesPer100k}
	nc := query.ForFips(fips.MustNew(testkit.NC.Code))

	asian := diabetesRow(testkit.NC, demographic.AsianNH, 400, 40000)
	white := diabetesRow(testkit.NC, demographic.WhiteNH, 600, 60000)
	all := diabetesRow(testkit.NC, demographic.All, 1000, 50000)

	resp, err := GetData(context.Background(), p, query.NewMetricQuery(ids, nc.AddBreakdown(demographic.Race, query.ExcludeAll()), ""))
	require.NoError(t, err)
	assert.Equal(t, []dataset.Row{asian, white}, resp.Data)
	assert.Equal(t, []string{BrfssDatasetID}, resp.ConsumedDatasetIDs)

	resp, err = GetData(context.Background(), p, query.NewMetricQuery(ids, nc.AddBreakdown(demographic.Race), ""))
	require.NoError(t, err)
	assert.Equal(t, []dataset.Row{all, asian, white}, resp.Data)
}

func TestBrfssNationalSumsStates(t *testing.T) {
	kit := testkit.NewKit()
	kit.Load(BrfssDatasetID,
		brfssRow(testkit.AL, demographic.AsianNH, 100, 900, 200, 800),
		brfssRow(testkit.NC, demographic.AsianNH, 100, 900, 400, 600),
		brfssRow(testkit.NC, demographic.WhiteNH, 500, 500, 600, 400),
	)
	p := NewBrfssProvider(kit.Fetcher, NewAcsPopulationProvider(kit.Fetcher))
	ids := []metric.ID{metric.DiabetesCount, metric.DiabetesPer100k}

	resp, err := GetData(context.Background(), p,
		query.NewMetricQuery(ids, query.NationalBreakdowns().AddBreakdown(demographic.Race), ""))
	require.NoError(t, err)
	assert.Equal(t, []dataset.Row{
		diabetesRow(testkit.USA, demographic.All, 1200, 40000),
		diabetesRow(testkit.USA, demographic.AsianNH, 600, 30000),
		diabetesRow(testkit.USA, demographic.WhiteNH, 600, 60000),
	}, resp.Data)
}

func TestBrfssJoinsPopulationShareOnlyWhenRequested(t *testing.T) {
	kit := testkit.NewKit()
	kit.Load(BrfssDatasetID,
		brfssRow(testkit.NC, demographic.AsianNH, 100, 900, 400, 600),
		brfssRow(testkit.NC, demographic.WhiteNH, 500, 500, 600, 400),
	)
	acsID := "acs_population-by_race_state_std"
	kit.Load(acsID,
		testkit.AcsRow(testkit.NC, race, demographic.AsianNH, 2500),
		testkit.AcsRow(testkit.NC, race, demographic.WhiteNH, 7500),
	)
	p := NewBrfssProvider(kit.Fetcher, NewAcsPopulationProvider(kit.Fetcher))
	b := query.ForFips(fips.MustNew(testkit.NC.Code)).AddBreakdown(demographic.Race, query.ExcludeAll())

	resp, err := GetData(context.Background(), p,
		query.NewMetricQuery([]metric.ID{metric.DiabetesPctShare, metric.BrfssPopulationPct}, b, ""))
	require.NoError(t, err)
	assert.Equal(t, []string{BrfssDatasetID, acsID}, resp.ConsumedDatasetIDs)
	require.Len(t, resp.Data, 2)

	share, _ := resp.Data[0].Float(string(metric.DiabetesPctShare))
	pop, _ := resp.Data[0].Float(string(metric.BrfssPopulationPct))
	assert.Equal(t, 40.0, share)
	assert.Equal(t, 25.0, pop)

	resp, err = GetData(context.Background(), p,
		query.NewMetricQuery([]metric.ID{metric.DiabetesPctShare}, b, ""))
	require.NoError(t, err)
	assert.Equal(t, []string{BrfssDatasetID}, resp.ConsumedDatasetIDs)
}

func TestBrfssRejectsNonRaceBreakdowns(t *testing.T) {
	p := NewBrfssProvider(testkit.NewKit().Fetcher, nil)
	assert.False(t, p.AllowsBreakdowns(query.ByState().AddBreakdown(demographic.Age)))
	assert.False(t, p.AllowsBreakdowns(query.ByCounty().AddBreakdown(demographic.Race)))
	assert.False(t, p.AllowsBreakdowns(query.ByState().AddBreakdown(demographic.Race).WithTime(true)))
	assert.True(t, p.AllowsBreakdowns(query.NationalBreakdowns().AddBreakdown(demographic.Race)))
}
