package providers

import (
	"context"

	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
	"hetracker/domain/metric"
	"hetracker/domain/query"
	"hetracker/internal/calculations"
	"hetracker/ports"
)

// MergedPopulationProvider serves state populations merged from ACS and the
// 2010 territory tables. Its national rows leave out the configured states
// so that national shares line up with surveillance data that omits them.
type MergedPopulationProvider struct {
	base
	fetcher        ports.DatasetFetcher
	excludedStates map[string]bool
}

// NewMergedPopulationProvider creates the merged provider. excludedStates
// are state FIPS codes left out of the national total.
func NewMergedPopulationProvider(fetcher ports.DatasetFetcher, excludedStates []string) *MergedPopulationProvider {
	excluded := make(map[string]bool, len(excludedStates))
	for _, s := range excludedStates {
		excluded[s] = true
	}
	return &MergedPopulationProvider{
		base:           base{id: "merged_pop_provider", metrics: []metric.ID{metric.Population, metric.PopulationPct}},
		fetcher:        fetcher,
		excludedStates: excluded,
	}
}

func (p *MergedPopulationProvider) DatasetID(b query.Breakdowns) (string, error) {
	db, err := b.GetSoleDemographicBreakdown()
	if err != nil {
		return "", err
	}
	return "merged_population_data-by_" + datasetSuffix(db.Dimension) + "_state", nil
}

func (p *MergedPopulationProvider) AllowsBreakdowns(b query.Breakdowns) bool {
	return !b.Time && b.HasExactlyOneDemographic() && (b.IsState() || b.IsNational())
}

func (p *MergedPopulationProvider) GetDataInternal(ctx context.Context, q *query.MetricQuery) (*query.MetricQueryResponse, error) {
	b := q.Breakdowns
	datasetID, err := p.DatasetID(b)
	if err != nil {
		return nil, err
	}
	groupCol, err := soleGroupColumn(b)
	if err != nil {
		return nil, err
	}

	rows, err := p.loadRows(ctx, p.fetcher, datasetID)
	if err != nil {
		return nil, err
	}
	rows = filterByGeo(rows, b)
	rows = renameGeoColumns(rows, b)
	rows = renameTotalToAll(rows, groupCol)
	if b.IsNational() {
		rows = p.withoutExcludedStates(rows)
		rows = nationalPivot(rows, []string{groupCol}, []string{demographic.PopulationCol})
	}

	rows = calculations.CalculatePctShare(rows, demographic.PopulationCol, string(metric.PopulationPct), groupCol, []string{demographic.FipsCol})
	rows = applyDemographicBreakdownFilters(rows, b)
	rows = removeUnrequestedColumns(rows, b, p.requested(q))
	return query.NewMetricQueryResponse(rows, datasetID), nil
}

func (p *MergedPopulationProvider) withoutExcludedStates(rows []dataset.Row) []dataset.Row {
	if len(p.excludedStates) == 0 {
		return rows
	}
	return dataset.Where(rows, func(r dataset.Row) bool {
		return !p.excludedStates[r.Text(demographic.FipsCol)]
	})
}

var _ ports.VariableProvider = (*MergedPopulationProvider)(nil)
