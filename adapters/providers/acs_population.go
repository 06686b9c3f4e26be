package providers

import (
	"context"
	"fmt"

	"hetracker/domain/core"
	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
	"hetracker/domain/metric"
	"hetracker/domain/query"
	"hetracker/internal/calculations"
	"hetracker/ports"
)

// AcsPopulationProvider serves current ACS population counts and shares.
// National figures are the sum of the state rows.
type AcsPopulationProvider struct {
	base
	fetcher ports.DatasetFetcher
}

// NewAcsPopulationProvider creates the ACS population provider
func NewAcsPopulationProvider(fetcher ports.DatasetFetcher) *AcsPopulationProvider {
	return &AcsPopulationProvider{
		base:    base{id: "acs_pop_provider", metrics: []metric.ID{metric.Population, metric.PopulationPct}},
		fetcher: fetcher,
	}
}

// DatasetID picks the ACS table for the breakdown's demographic and level.
// Keep in sync with internal/metadata.
func (p *AcsPopulationProvider) DatasetID(b query.Breakdowns) (string, error) {
	db, err := b.GetSoleDemographicBreakdown()
	if err != nil {
		return "", err
	}
	level := "state"
	if b.IsCounty() {
		level = "county"
	}
	switch db.Dimension {
	case demographic.Race:
		return "acs_population-by_race_" + level + "_std", nil
	case demographic.Age, demographic.Sex:
		return "acs_population-by_" + string(db.Dimension) + "_" + level, nil
	}
	return "", fmt.Errorf("%w: %s", core.ErrUnknownDimension, db.Dimension)
}

func (p *AcsPopulationProvider) AllowsBreakdowns(b query.Breakdowns) bool {
	return !b.Time && b.HasExactlyOneDemographic()
}

func (p *AcsPopulationProvider) GetDataInternal(ctx context.Context, q *query.MetricQuery) (*query.MetricQueryResponse, error) {
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
		rows = nationalPivot(rows, []string{groupCol}, []string{demographic.PopulationCol})
	}

	rows = calculations.CalculatePctShare(rows, demographic.PopulationCol, string(metric.PopulationPct), groupCol, []string{demographic.FipsCol})
	rows = applyDemographicBreakdownFilters(rows, b)
	rows = removeUnrequestedColumns(rows, b, p.requested(q))
	return query.NewMetricQueryResponse(rows, datasetID), nil
}

var _ ports.VariableProvider = (*AcsPopulationProvider)(nil)

// Acs2010PopulationProvider serves 2010 census populations for the
// territories missing from the current ACS tables
type Acs2010PopulationProvider struct {
	base
	fetcher ports.DatasetFetcher
}

// NewAcs2010PopulationProvider creates the territory population provider
func NewAcs2010PopulationProvider(fetcher ports.DatasetFetcher) *Acs2010PopulationProvider {
	return &Acs2010PopulationProvider{
		base:    base{id: "acs_2010_pop_provider", metrics: []metric.ID{metric.Population2010, metric.PopulationPct2010}},
		fetcher: fetcher,
	}
}

func (p *Acs2010PopulationProvider) DatasetID(b query.Breakdowns) (string, error) {
	db, err := b.GetSoleDemographicBreakdown()
	if err != nil {
		return "", err
	}
	return "acs_2010_population-by_" + db.ColumnName() + "_territory", nil
}

// AllowsBreakdowns accepts state-level queries for all territories or for
// one territory
func (p *Acs2010PopulationProvider) AllowsBreakdowns(b query.Breakdowns) bool {
	if b.Time || !b.HasExactlyOneDemographic() || !b.IsState() {
		return false
	}
	return b.FilterFips == nil || b.FilterFips.IsTerritory()
}

func (p *Acs2010PopulationProvider) GetDataInternal(ctx context.Context, q *query.MetricQuery) (*query.MetricQueryResponse, error) {
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
	rows = calculations.CalculatePctShare(rows, demographic.PopulationCol, string(metric.PopulationPct), groupCol, []string{demographic.FipsCol})
	rows = dataset.RenameColumns(rows, map[string]string{
		demographic.PopulationCol:   string(metric.Population2010),
		string(metric.PopulationPct): string(metric.PopulationPct2010),
	})
	rows = applyDemographicBreakdownFilters(rows, b)
	rows = removeUnrequestedColumns(rows, b, p.requested(q))
	return query.NewMetricQueryResponse(rows, datasetID), nil
}

var _ ports.VariableProvider = (*Acs2010PopulationProvider)(nil)
