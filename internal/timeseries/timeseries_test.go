package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
	"hetracker/domain/metric"
)

const raceCol = string(demographic.Race)

func periodRow(period, group string, cols map[string]float64) dataset.Row {
	r := dataset.Row{
		demographic.TimePeriodCol: dataset.Str(period),
		raceCol:                   dataset.Str(group),
	}
	for k, v := range cols {
		r[k] = dataset.Num(v)
	}
	return r
}

func TestConsecutivePeriods(t *testing.T) {
	tests := []struct {
		name    string
		periods []string
		want    []string
	}{
		{"yearly", []string{"2019", "2021"}, []string{"2019", "2020", "2021"}},
		{"monthly with rollover", []string{"2021-02", "2020-11"}, []string{"2020-11", "2020-12", "2021-01", "2021-02"}},
		{"single", []string{"2020-05"}, []string{"2020-05"}},
		{"unrecognized width", []string{"20", "21"}, nil},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConsecutivePeriods(tt.periods))
		})
	}
}

func TestGenerateConsecutivePeriodsFromRows(t *testing.T) {
	rows := []dataset.Row{
		periodRow("2019", demographic.All, nil),
		periodRow("2021", demographic.All, nil),
	}
	assert.Equal(t, []string{"2019", "2020", "2021"}, GenerateConsecutivePeriods(rows))
}

func TestInterpolateDenseSeriesUnchanged(t *testing.T) {
	rows := []dataset.Row{
		periodRow("2020-01", demographic.All, map[string]float64{"covid_cases_per_100k": 1}),
		periodRow("2020-02", demographic.All, map[string]float64{"covid_cases_per_100k": 2}),
		periodRow("2020-03", demographic.All, map[string]float64{"covid_cases_per_100k": 3}),
	}
	out := InterpolateTimePeriods(rows)
	require.Len(t, out, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i], out[i])
	}
}

func TestInterpolateFillsGaps(t *testing.T) {
	rows := []dataset.Row{
		periodRow("2020-01", demographic.All, map[string]float64{"covid_cases_per_100k": 1}),
		periodRow("2020-04", demographic.All, map[string]float64{"covid_cases_per_100k": 4}),
	}
	out := InterpolateTimePeriods(rows)
	require.Len(t, out, 4)
	assert.Equal(t, "2020-02", out[1].Text(demographic.TimePeriodCol))
	assert.True(t, out[1].Get("covid_cases_per_100k").IsNotApplicable())
	assert.Len(t, out[2], 1)
}

func TestGetNestedRates(t *testing.T) {
	rows := []dataset.Row{
		periodRow("2020-01", demographic.AsianNH, map[string]float64{"covid_cases_per_100k": 10}),
		periodRow("2020-03", demographic.AsianNH, map[string]float64{"covid_cases_per_100k": 30}),
		periodRow("2020-01", demographic.WhiteNH, map[string]float64{"covid_cases_per_100k": 5}),
	}
	trends := GetNestedRates(rows, []string{demographic.WhiteNH, demographic.AsianNH}, demographic.Race, metric.CovidCasesPer100k)
	require.Len(t, trends, 2)
	assert.Equal(t, demographic.WhiteNH, trends[0].Group)

	asian := trends[1].Series
	require.Len(t, asian, 3)
	assert.Equal(t, 10.0, *asian[0].Value)
	assert.Nil(t, asian[1].Value)
	assert.Equal(t, "2020-02", asian[1].Period)
	assert.Equal(t, 30.0, *asian[2].Value)
}

func TestGetNestedUndueShares(t *testing.T) {
	rows := []dataset.Row{
		periodRow("2020", demographic.BlackNH, map[string]float64{"covid_cases_share": 30, "covid_cases_reporting_population_pct": 15}),
		periodRow("2021", demographic.BlackNH, map[string]float64{"covid_cases_share": 20}),
		periodRow("2022", demographic.BlackNH, map[string]float64{"covid_cases_share": 20, "covid_cases_reporting_population_pct": 0}),
	}
	trends := GetNestedUndueShares(rows, []string{demographic.BlackNH}, demographic.Race,
		metric.CovidCasesShare, metric.CovidCasesReportingPopulationPct)
	require.Len(t, trends, 1)
	s := trends[0].Series
	require.Len(t, s, 3)
	assert.Equal(t, 2.0, *s[0].Value)
	assert.Nil(t, s[1].Value)
	assert.Nil(t, s[2].Value)
}

func TestUnknownSplitAndNesting(t *testing.T) {
	rows := []dataset.Row{
		periodRow("2020-01", demographic.AsianNH, map[string]float64{"covid_cases_share": 10}),
		periodRow("2020-01", demographic.Unknown, map[string]float64{"covid_cases_share": 40}),
		periodRow("2020-03", demographic.Unknown, map[string]float64{"covid_cases_share": 20}),
	}
	knowns, unknowns := SplitIntoKnownsAndUnknowns(rows, demographic.Race)
	assert.Len(t, knowns, 1)
	require.Len(t, unknowns, 2)

	s := GetNestedUnknowns(unknowns, metric.CovidCasesShare)
	require.Len(t, s, 3)
	assert.Equal(t, 40.0, *s[0].Value)
	assert.Nil(t, s[1].Value)
}

func TestShortenGroupLabels(t *testing.T) {
	data := TrendsData{{Group: demographic.WhiteNH}}
	short := ShortenGroupLabels(data)
	assert.Equal(t, "White NH", short[0].Group)
	assert.Equal(t, demographic.WhiteNH, data[0].Group)
}
