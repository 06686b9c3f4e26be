package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
	"hetracker/domain/metric"
)

func raceRow(fipsCode, group string, cols map[string]dataset.Value) dataset.Row {
	r := dataset.Row{
		demographic.FipsCol:      dataset.Str(fipsCode),
		string(demographic.Race): dataset.Str(group),
	}
	for k, v := range cols {
		r[k] = v
	}
	return r
}

func TestResponseMissingData(t *testing.T) {
	empty := EmptyResponse("brfss", "brfss")
	assert.True(t, empty.DataIsMissing())
	assert.Equal(t, []string{"brfss"}, empty.ConsumedDatasetIDs)
	assert.True(t, empty.ShouldShowMissingDataMessage([]metric.ID{metric.DiabetesCount}))

	resp := NewMetricQueryResponse([]dataset.Row{
		raceRow("37", demographic.AsianNH, map[string]dataset.Value{
			"covid_cases":                     dataset.Num(10),
			"covid_deaths":                    dataset.Suppressed(),
			"covid_deaths_age_adjusted_ratio": dataset.NotApplicable(),
		}),
		raceRow("37", demographic.WhiteNH, map[string]dataset.Value{
			"covid_cases":                     dataset.Suppressed(),
			"covid_deaths":                    dataset.Suppressed(),
			"covid_deaths_age_adjusted_ratio": dataset.NotApplicable(),
		}),
	})
	assert.False(t, resp.DataIsMissing())
	assert.False(t, resp.IsFieldMissing(metric.CovidCases))
	assert.True(t, resp.IsFieldMissing(metric.CovidDeaths))
	assert.Equal(t, 2, resp.InvalidValues["covid_deaths"])

	assert.False(t, resp.ShouldShowMissingDataMessage([]metric.ID{metric.CovidCases}))
	assert.True(t, resp.ShouldShowMissingDataMessage([]metric.ID{metric.CovidCases, metric.CovidDeaths}))
	// not applicable is a different message
	assert.True(t, resp.IsFieldNotApplicable(metric.CovidDeathsAgeAdjustedRatio))
	assert.False(t, resp.ShouldShowMissingDataMessage([]metric.ID{metric.CovidDeathsAgeAdjustedRatio}))
}

func TestGetFieldValuesAndRange(t *testing.T) {
	resp := NewMetricQueryResponse([]dataset.Row{
		raceRow("37", demographic.AsianNH, map[string]dataset.Value{"diabetes_per_100k": dataset.Num(40000)}),
		raceRow("37", demographic.WhiteNH, map[string]dataset.Value{"diabetes_per_100k": dataset.Num(60000)}),
		raceRow("37", demographic.BlackNH, map[string]dataset.Value{"diabetes_per_100k": dataset.Suppressed()}),
	})

	values := resp.GetFieldValues(demographic.Race, metric.DiabetesPer100k)
	assert.Equal(t, []string{demographic.AsianNH, demographic.WhiteNH}, values.WithData)
	assert.Equal(t, []string{demographic.BlackNH}, values.NoData)

	assert.Len(t, resp.GetValidRowsForField(metric.DiabetesPer100k), 2)

	min, max, ok := resp.GetFieldRange(metric.DiabetesPer100k)
	require.True(t, ok)
	assert.Equal(t, 40000.0, min)
	assert.Equal(t, 60000.0, max)

	_, _, ok = resp.GetFieldRange(metric.CopdPer100k)
	assert.False(t, ok)
}

func TestMergeResponsesOuterJoins(t *testing.T) {
	covid := NewMetricQueryResponse([]dataset.Row{
		raceRow("37", demographic.AsianNH, map[string]dataset.Value{"covid_cases": dataset.Num(5)}),
		raceRow("37", demographic.Unknown, map[string]dataset.Value{"covid_cases": dataset.Num(1)}),
	}, "cdc_restricted_data-by_race_state", "acs_population-by_race_state_std")
	pop := NewMetricQueryResponse([]dataset.Row{
		raceRow("37", demographic.AsianNH, map[string]dataset.Value{"population": dataset.Num(500)}),
	}, "acs_population-by_race_state_std")

	merged := MergeResponses(covid, pop)
	require.Len(t, merged.Data, 2)
	assert.Equal(t, []string{"cdc_restricted_data-by_race_state", "acs_population-by_race_state_std"}, merged.ConsumedDatasetIDs)

	p, ok := merged.Data[0].Float("population")
	require.True(t, ok)
	assert.Equal(t, 500.0, p)
	assert.True(t, merged.Data[1].Get("population").IsSuppressed())
	assert.Equal(t, merged.Data[0].Columns(), merged.Data[1].Columns())

	// inputs untouched
	assert.False(t, covid.Data[0].Has("population"))
}
