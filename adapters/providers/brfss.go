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

// BrfssDatasetID is the chronic disease survey table
const BrfssDatasetID = "brfss"

type surveyCondition struct {
	count   metric.ID
	no      string
	per100k metric.ID
	share   metric.ID
}

var surveyConditions = []surveyCondition{
	{count: metric.DiabetesCount, no: "diabetes_no", per100k: metric.DiabetesPer100k, share: metric.DiabetesPctShare},
	{count: metric.CopdCount, no: "copd_no", per100k: metric.CopdPer100k, share: metric.CopdPctShare},
}

// BrfssProvider serves survey prevalence for chronic conditions. Each row
// carries the respondents with and without the condition; the rate is taken
// over everyone who answered.
type BrfssProvider struct {
	base
	fetcher ports.DatasetFetcher
	acs     ports.VariableProvider
}

// NewBrfssProvider creates the survey provider
func NewBrfssProvider(fetcher ports.DatasetFetcher, acs ports.VariableProvider) *BrfssProvider {
	var ids []metric.ID
	for _, c := range surveyConditions {
		ids = append(ids, c.count, c.per100k, c.share)
	}
	return &BrfssProvider{
		base:    base{id: "brfss_provider", metrics: append(ids, metric.BrfssPopulationPct)},
		fetcher: fetcher,
		acs:     acs,
	}
}

func (p *BrfssProvider) DatasetID(query.Breakdowns) (string, error) {
	return BrfssDatasetID, nil
}

func (p *BrfssProvider) AllowsBreakdowns(b query.Breakdowns) bool {
	return !b.Time && b.HasOnlyRace() && (b.IsState() || b.IsNational())
}

func (p *BrfssProvider) GetDataInternal(ctx context.Context, q *query.MetricQuery) (*query.MetricQueryResponse, error) {
	b := q.Breakdowns
	groupCol := demographic.Race.String()
	consumed := []string{BrfssDatasetID}

	rows, err := p.loadRows(ctx, p.fetcher, BrfssDatasetID)
	if err != nil {
		return nil, err
	}
	rows = filterByGeo(rows, b)
	rows = renameGeoColumns(rows, b)
	rows = renameTotalToAll(rows, groupCol)

	sum := make([]string, 0, 2*len(surveyConditions))
	for _, c := range surveyConditions {
		sum = append(sum, string(c.count), c.no)
	}
	if b.IsNational() {
		rows = nationalPivot(rows, []string{groupCol}, sum)
	}
	rows = withAllRows(rows, groupCol, sum)

	for _, c := range surveyConditions {
		count, no, per100k := string(c.count), c.no, string(c.per100k)
		rows = dataset.Map(rows, func(r dataset.Row) dataset.Row {
			r[per100k] = calculations.Per100k(r.Get(count), respondents(r.Get(count), r.Get(no)))
			return r
		})
		rows = calculations.CalculatePctShare(rows, count, string(c.share), groupCol, []string{demographic.FipsCol})
	}

	if q.Requests(metric.BrfssPopulationPct) {
		pq := query.NewMetricQuery([]metric.ID{metric.PopulationPct}, b, query.CrossSectional)
		resp, err := GetData(ctx, p.acs, pq)
		if err != nil {
			return nil, err
		}
		consumed = append(consumed, resp.ConsumedDatasetIDs...)
		rows = joinColumn(rows, resp.Data, groupCol, string(metric.PopulationPct), string(metric.BrfssPopulationPct))
	}

	rows = applyDemographicBreakdownFilters(rows, b)
	rows = removeUnrequestedColumns(rows, b, p.requested(q))
	return query.NewMetricQueryResponse(rows, consumed...), nil
}

func respondents(yes, no dataset.Value) dataset.Value {
	y, ok := yes.Float()
	if !ok {
		return dataset.Suppressed()
	}
	n, ok := no.Float()
	if !ok {
		return dataset.Suppressed()
	}
	return dataset.Num(y + n)
}

// withAllRows prepends a summed "All" row to each geography that lacks one
func withAllRows(rows []dataset.Row, groupCol string, sumCols []string) []dataset.Row {
	var out []dataset.Row
	for _, g := range dataset.GroupBy(rows, []string{demographic.FipsCol}) {
		members := make([]dataset.Row, 0, len(g.Indices))
		hasAll := false
		for _, i := range g.Indices {
			members = append(members, rows[i])
			hasAll = hasAll || demographic.IsAll(rows[i].Text(groupCol))
		}
		if !hasAll {
			first := members[0]
			all := dataset.PivotSum(members, []string{demographic.FipsCol}, sumCols, dataset.Row{
				demographic.FipsNameCol: first.Get(demographic.FipsNameCol),
				groupCol:                dataset.Str(demographic.All),
			})
			out = append(out, all...)
		}
		out = append(out, members...)
	}
	return out
}

var _ ports.VariableProvider = (*BrfssProvider)(nil)
