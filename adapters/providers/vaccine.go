package providers

import (
	"context"

	"hetracker/domain/core"
	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
	"hetracker/domain/metric"
	"hetracker/domain/query"
	"hetracker/internal/calculations"
	"hetracker/ports"
)

// Raw vaccination columns
const (
	firstDoseCol          = "vaccinated_first_dose"
	vaccinatedPctCol      = "vaccinated_pct"
	vaccinatedPctShareCol = "vaccinated_pct_share"
)

// VaccineProvider serves first-dose vaccination rates and shares. National
// rows carry dose counts; state rows arrive as already computed fractions.
type VaccineProvider struct {
	base
	fetcher ports.DatasetFetcher
	acs     ports.VariableProvider
}

// NewVaccineProvider creates the vaccination provider
func NewVaccineProvider(fetcher ports.DatasetFetcher, acs ports.VariableProvider) *VaccineProvider {
	return &VaccineProvider{
		base: base{id: "vaccine_provider", metrics: []metric.ID{
			metric.VaccinatedPctShare,
			metric.VaccinatedShareOfKnown,
			metric.VaccinatedPer100k,
			metric.VaccinePopulationPct,
		}},
		fetcher: fetcher,
		acs:     acs,
	}
}

func (p *VaccineProvider) DatasetID(b query.Breakdowns) (string, error) {
	db, err := b.GetSoleDemographicBreakdown()
	if err != nil {
		return "", err
	}
	switch {
	case b.IsNational():
		return "cdc_vaccination_national-" + db.ColumnName(), nil
	case b.IsState() && db.Dimension == demographic.Race:
		return "kff_vaccination-" + db.ColumnName(), nil
	}
	return "", core.NewUnsupportedBreakdownError(p.id, b.String())
}

func (p *VaccineProvider) AllowsBreakdowns(b query.Breakdowns) bool {
	if b.Time || !b.HasExactlyOneDemographic() {
		return false
	}
	return b.IsNational() || (b.IsState() && b.HasOnlyRace())
}

func (p *VaccineProvider) GetDataInternal(ctx context.Context, q *query.MetricQuery) (*query.MetricQueryResponse, error) {
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
	rows = filterByGeo(rows, b)
	rows = renameGeoColumns(rows, b)
	rows = renameTotalToAll(rows, groupCol)

	pq := query.NewMetricQuery([]metric.ID{metric.Population, metric.PopulationPct}, b, query.CrossSectional)
	acsResp, err := GetData(ctx, p.acs, pq)
	if err != nil {
		return nil, err
	}
	consumed = append(consumed, acsResp.ConsumedDatasetIDs...)
	rows = joinColumn(rows, acsResp.Data, groupCol, demographic.PopulationCol, demographic.PopulationCol)
	rows = joinColumn(rows, acsResp.Data, groupCol, string(metric.PopulationPct), string(metric.VaccinePopulationPct))

	if b.IsNational() {
		rows = dataset.Map(rows, func(r dataset.Row) dataset.Row {
			r[string(metric.VaccinatedPer100k)] = calculations.Per100k(r.Get(firstDoseCol), r.Get(demographic.PopulationCol))
			return r
		})
		rows = calculations.CalculatePctShare(rows, firstDoseCol, string(metric.VaccinatedPctShare), groupCol, []string{demographic.FipsCol})
		rows = calculations.CalculatePctShareOfKnown(rows, firstDoseCol, string(metric.VaccinatedShareOfKnown), groupCol)
	} else {
		rows = stateVaccinationShares(rows, groupCol)
	}

	rows = dataset.DropColumns(rows, demographic.PopulationCol)
	rows = applyDemographicBreakdownFilters(rows, b)
	rows = removeUnrequestedColumns(rows, b, p.requested(q))
	return query.NewMetricQueryResponse(rows, consumed...), nil
}

// stateVaccinationShares converts the state fractions into per-100k and
// percentage points. The known share rescales each group by the share of
// doses whose race is known, so it agrees with the count-based national
// figure.
func stateVaccinationShares(rows []dataset.Row, groupCol string) []dataset.Row {
	unknownShare := make(map[string]float64)
	for _, r := range rows {
		if !demographic.IsUnknown(r.Text(groupCol)) {
			continue
		}
		if f, ok := r.Float(vaccinatedPctShareCol); ok {
			unknownShare[r.Text(demographic.FipsCol)] += f
		}
	}

	return dataset.Map(rows, func(r dataset.Row) dataset.Row {
		group := r.Text(groupCol)
		rawShare := r.Get(vaccinatedPctShareCol)
		r[string(metric.VaccinatedPer100k)] = calculations.Per100k(r.Get(vaccinatedPctCol), dataset.Num(1))
		r[string(metric.VaccinatedPctShare)] = calculations.Rescale(rawShare, 100, 0)

		known := string(metric.VaccinatedShareOfKnown)
		switch {
		case demographic.IsUnknown(group):
			r[known] = dataset.Suppressed()
		case demographic.IsAll(group):
			if rawShare.IsNumber() {
				r[known] = dataset.Num(100)
			} else {
				r[known] = dataset.Suppressed()
			}
		default:
			knownFraction := 1 - unknownShare[r.Text(demographic.FipsCol)]
			if knownFraction <= 0 {
				r[known] = dataset.Suppressed()
			} else {
				r[known] = calculations.Rescale(rawShare, 100/knownFraction, 0)
			}
		}
		return r
	})
}

var _ ports.VariableProvider = (*VaccineProvider)(nil)
