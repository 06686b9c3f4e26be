package providers

import (
	"context"

	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
	"hetracker/domain/fips"
	"hetracker/domain/metric"
	"hetracker/domain/query"
	"hetracker/internal/calculations"
	"hetracker/ports"
)

// AgeAdjustmentDatasetID holds covid counts stratified by race and age
const AgeAdjustmentDatasetID = "cdc_restricted_data-by_race_age_state"

// covidVariable ties a raw count column to the metrics derived from it
type covidVariable struct {
	raw       string
	unknown   string
	count     metric.ID
	per100k   metric.ID
	share     metric.ID
	known     metric.ID
	reporting metric.ID
	reportPct metric.ID
	ratio     metric.ID
}

var covidVariables = []covidVariable{
	{
		raw:       "cases",
		count:     metric.CovidCases,
		per100k:   metric.CovidCasesPer100k,
		share:     metric.CovidCasesShare,
		known:     metric.CovidCasesShareOfKnown,
		reporting: metric.CovidCasesReportingPopulation,
		reportPct: metric.CovidCasesReportingPopulationPct,
	},
	{
		raw:       "death_y",
		unknown:   "death_unknown",
		count:     metric.CovidDeaths,
		per100k:   metric.CovidDeathsPer100k,
		share:     metric.CovidDeathsShare,
		known:     metric.CovidDeathsShareOfKnown,
		reporting: metric.CovidDeathsReportingPopulation,
		reportPct: metric.CovidDeathsReportingPopulationPct,
		ratio:     metric.CovidDeathsAgeAdjustedRatio,
	},
	{
		raw:       "hosp_y",
		unknown:   "hosp_unknown",
		count:     metric.CovidHosp,
		per100k:   metric.CovidHospPer100k,
		share:     metric.CovidHospShare,
		known:     metric.CovidHospShareOfKnown,
		reporting: metric.CovidHospReportingPopulation,
		reportPct: metric.CovidHospReportingPopulationPct,
		ratio:     metric.CovidHospAgeAdjustedRatio,
	},
}

func covidMetrics() []metric.ID {
	var ids []metric.ID
	for _, v := range covidVariables {
		ids = append(ids, v.count, v.per100k, v.share, v.known, v.reporting, v.reportPct)
		if v.ratio != "" {
			ids = append(ids, v.ratio)
		}
	}
	return ids
}

// CdcCovidProvider serves case surveillance counts and everything derived
// from them. Population shares come from the merged provider for states
// and the nation, from ACS for counties, and from the 2010 tables for
// territories the other two leave blank.
type CdcCovidProvider struct {
	base
	fetcher ports.DatasetFetcher
	acs     ports.VariableProvider
	merged  ports.VariableProvider
	acs2010 ports.VariableProvider
}

// NewCdcCovidProvider creates the covid provider. acs2010 may be nil, in
// which case territory population shares stay suppressed.
func NewCdcCovidProvider(fetcher ports.DatasetFetcher, acs, merged, acs2010 ports.VariableProvider) *CdcCovidProvider {
	return &CdcCovidProvider{
		base:    base{id: "cdc_covid_provider", metrics: covidMetrics()},
		fetcher: fetcher,
		acs:     acs,
		merged:  merged,
		acs2010: acs2010,
	}
}

// DatasetID maps a breakdown onto the surveillance tables. Keep in sync with
// internal/metadata.
func (p *CdcCovidProvider) DatasetID(b query.Breakdowns) (string, error) {
	db, err := b.GetSoleDemographicBreakdown()
	if err != nil {
		return "", err
	}
	level := "state"
	if b.IsCounty() {
		level = "county"
	}
	id := "cdc_restricted_data-by_" + datasetSuffix(db.Dimension) + "_" + level
	if b.Time {
		id += "-time_series"
	}
	return id, nil
}

func (p *CdcCovidProvider) AllowsBreakdowns(b query.Breakdowns) bool {
	return b.HasExactlyOneDemographic()
}

func (p *CdcCovidProvider) GetDataInternal(ctx context.Context, q *query.MetricQuery) (*query.MetricQueryResponse, error) {
	b := q.Breakdowns
	datasetID, err := p.DatasetID(b)
	if err != nil {
		return nil, err
	}
	groupCol, err := soleGroupColumn(b)
	if err != nil {
		return nil, err
	}
	consumed := []string{datasetID}

	rows, err := p.loadRows(ctx, p.fetcher, datasetID)
	if err != nil {
		return nil, err
	}
	rows = renameTotalToAll(rows, groupCol)
	rows = filterByGeo(rows, b)
	if len(rows) == 0 {
		return query.EmptyResponse(consumed...), nil
	}
	rows = renameGeoColumns(rows, b)

	renames := make(map[string]string, len(covidVariables))
	for _, v := range covidVariables {
		renames[v.raw] = string(v.count)
	}
	rows = dataset.RenameColumns(rows, renames)

	if b.IsNational() {
		sum := []string{demographic.PopulationCol}
		for _, v := range covidVariables {
			sum = append(sum, string(v.count))
			if v.unknown != "" {
				sum = append(sum, v.unknown)
			}
		}
		rows = nationalPivot(rows, groupingColumns(b, groupCol), sum)
	}

	rows = clearAllUnknownCounts(rows)
	rows = dataset.DropColumns(rows, "death_n", "death_unknown", "hosp_n", "hosp_unknown")
	rows = clearDCCounty(rows)

	partition := calculations.PartitionColumns(rows)
	for _, v := range covidVariables {
		count, per100k := string(v.count), string(v.per100k)
		rows = dataset.Map(rows, func(r dataset.Row) dataset.Row {
			r[per100k] = calculations.Per100k(r.Get(count), r.Get(demographic.PopulationCol))
			return r
		})
		rows = calculations.CalculatePctShare(rows, count, string(v.share), groupCol, partition)
		if q.Requests(v.known) {
			rows = calculations.CalculatePctShareOfKnown(rows, count, string(v.known), groupCol)
		}
		if q.Requests(v.reporting) {
			rows = copyColumn(rows, demographic.PopulationCol, string(v.reporting))
		}
	}

	popResp, err := p.populationShares(ctx, b)
	if err != nil {
		return nil, err
	}
	consumed = append(consumed, popResp.ConsumedDatasetIDs...)
	if popResp.DataIsMissing() && !onlyShareMetrics(p.requested(q)) {
		return query.EmptyResponse(consumed...), nil
	}
	rows = joinColumn(rows, popResp.Data, groupCol, string(metric.PopulationPct), string(metric.PopulationPct))

	rows, territoryIDs, err := p.fillTerritoryShares(ctx, rows, b, groupCol)
	if err != nil {
		return nil, err
	}
	consumed = append(consumed, territoryIDs...)

	for _, v := range covidVariables {
		if q.Requests(v.reportPct) {
			rows = copyColumn(rows, string(metric.PopulationPct), string(v.reportPct))
		}
	}

	if p.wantsAgeAdjustment(q) {
		rows, err = p.withAgeAdjustedRatios(ctx, rows, b, groupCol)
		if err != nil {
			return nil, err
		}
		consumed = append(consumed, AgeAdjustmentDatasetID)
	}

	rows = dataset.DropColumns(rows, demographic.PopulationCol, string(metric.PopulationPct))
	rows = applyDemographicBreakdownFilters(rows, b)
	rows = removeUnrequestedColumns(rows, b, p.requested(q))
	return query.NewMetricQueryResponse(rows, consumed...), nil
}

// clearAllUnknownCounts suppresses deaths or hospitalizations for rows where
// every case has an unknown outcome
func clearAllUnknownCounts(rows []dataset.Row) []dataset.Row {
	return dataset.Map(rows, func(r dataset.Row) dataset.Row {
		cases, ok := r.Float(string(metric.CovidCases))
		if !ok {
			return r
		}
		for _, v := range covidVariables {
			if v.unknown == "" {
				continue
			}
			if unknown, ok := r.Float(v.unknown); ok && unknown == cases {
				r[string(v.count)] = dataset.Suppressed()
			}
		}
		return r
	})
}

// clearDCCounty suppresses the District of Columbia county counts
func clearDCCounty(rows []dataset.Row) []dataset.Row {
	return dataset.Map(rows, func(r dataset.Row) dataset.Row {
		if r.Text(demographic.FipsCol) != fips.DCCountyCode {
			return r
		}
		for _, v := range covidVariables {
			r[string(v.count)] = dataset.Suppressed()
		}
		return r
	})
}

func copyColumn(rows []dataset.Row, from, to string) []dataset.Row {
	return dataset.Map(rows, func(r dataset.Row) dataset.Row {
		r[to] = r.Get(from)
		return r
	})
}

func (p *CdcCovidProvider) populationShares(ctx context.Context, b query.Breakdowns) (*query.MetricQueryResponse, error) {
	provider := p.merged
	if b.IsCounty() || provider == nil {
		provider = p.acs
	}
	pq := query.NewMetricQuery([]metric.ID{metric.PopulationPct}, b, query.CrossSectional)
	return GetData(ctx, provider, pq)
}

func needsTerritoryShare(rows []dataset.Row) bool {
	for _, r := range rows {
		f := fips.Fips{Code: r.Text(demographic.FipsCol)}
		if f.IsTerritory() && !r.Get(string(metric.PopulationPct)).IsNumber() {
			return true
		}
	}
	return false
}

// fillTerritoryShares takes population shares for territories from the 2010
// tables wherever the current tables have none
func (p *CdcCovidProvider) fillTerritoryShares(ctx context.Context, rows []dataset.Row, b query.Breakdowns, groupCol string) ([]dataset.Row, []string, error) {
	if p.acs2010 == nil || !needsTerritoryShare(rows) {
		return rows, nil, nil
	}
	tq := query.NewMetricQuery([]metric.ID{metric.PopulationPct2010}, b, query.CrossSectional)
	if !p.acs2010.AllowsBreakdowns(tq.Breakdowns) {
		return rows, nil, nil
	}
	resp, err := GetData(ctx, p.acs2010, tq)
	if err != nil {
		return nil, nil, err
	}

	pct, pct2010 := string(metric.PopulationPct), string(metric.PopulationPct2010)
	rows = joinColumn(rows, resp.Data, groupCol, pct2010, pct2010)
	rows = dataset.Map(rows, func(r dataset.Row) dataset.Row {
		f := fips.Fips{Code: r.Text(demographic.FipsCol)}
		if f.IsTerritory() && !r.Get(pct).IsNumber() {
			r[pct] = r.Get(pct2010)
		}
		return r
	})
	return dataset.DropColumns(rows, pct2010), resp.ConsumedDatasetIDs, nil
}

func (p *CdcCovidProvider) wantsAgeAdjustment(q *query.MetricQuery) bool {
	b := q.Breakdowns
	if !b.HasOnlyRace() || b.IsCounty() || b.Time {
		return false
	}
	for _, v := range covidVariables {
		if v.ratio != "" && q.Requests(v.ratio) {
			return true
		}
	}
	return false
}

// withAgeAdjustedRatios adds the age-adjusted ratio columns, comparing each
// race with White (Non-Hispanic) within the same geography
func (p *CdcCovidProvider) withAgeAdjustedRatios(ctx context.Context, rows []dataset.Row, b query.Breakdowns, groupCol string) ([]dataset.Row, error) {
	strata, err := p.loadRows(ctx, p.fetcher, AgeAdjustmentDatasetID)
	if err != nil {
		return nil, err
	}
	strata = renameTotalToAll(strata, groupCol)
	strata = filterByGeo(strata, b)
	strata = renameGeoColumns(strata, b)
	strata = dataset.Where(strata, func(r dataset.Row) bool {
		group, age := r.Text(groupCol), r.Text(string(demographic.Age))
		return !demographic.IsAll(group) && !demographic.IsUnknown(group) &&
			!demographic.IsAll(age) && age != demographic.Total && !demographic.IsUnknown(age)
	})

	var adjusted []covidVariable
	sum := []string{demographic.PopulationCol}
	for _, v := range covidVariables {
		if v.ratio != "" {
			adjusted = append(adjusted, v)
			sum = append(sum, v.raw)
		}
	}
	if b.IsNational() {
		strata = nationalPivot(strata, []string{groupCol, string(demographic.Age)}, sum)
	}

	type ratioKey struct{ fips, group string }
	ratios := make(map[metric.ID]map[ratioKey]dataset.Value, len(adjusted))
	for _, v := range adjusted {
		ratios[v.ratio] = make(map[ratioKey]dataset.Value)
	}
	for _, g := range dataset.GroupBy(strata, []string{demographic.FipsCol}) {
		for _, v := range adjusted {
			input := make([]calculations.AgeStratum, 0, len(g.Indices))
			for _, i := range g.Indices {
				r := strata[i]
				input = append(input, calculations.AgeStratum{
					Group:      r.Text(groupCol),
					AgeBucket:  r.Text(string(demographic.Age)),
					Count:      r.Get(v.raw),
					Population: r.Get(demographic.PopulationCol),
				})
			}
			for group, value := range calculations.AgeAdjustedRatios(input, demographic.ReferenceRace) {
				ratios[v.ratio][ratioKey{g.Key, group}] = value
			}
		}
	}

	return dataset.Map(rows, func(r dataset.Row) dataset.Row {
		group := r.Text(groupCol)
		for _, v := range adjusted {
			col := string(v.ratio)
			if demographic.IsAll(group) || demographic.IsUnknown(group) {
				r[col] = dataset.NotApplicable()
				continue
			}
			value, ok := ratios[v.ratio][ratioKey{r.Text(demographic.FipsCol), group}]
			if !ok {
				value = dataset.Suppressed()
			}
			r[col] = value
		}
		return r
	}), nil
}

var _ ports.VariableProvider = (*CdcCovidProvider)(nil)
