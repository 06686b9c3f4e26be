package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"hetracker/adapters/providers"
	"hetracker/domain/dataset"
	"hetracker/domain/metric"
	"hetracker/domain/query"
	"hetracker/internal"
	"hetracker/internal/errors"
	"hetracker/internal/timeseries"
)

// QueryService answers metric queries by fanning out to the owning
// providers and merging their rows
type QueryService struct {
	providers     *ProviderMap
	maxConcurrent int
}

// NewQueryService creates a query service. maxConcurrent bounds how many
// providers run at once; values below one mean no bound.
func NewQueryService(providers *ProviderMap, maxConcurrent int) *QueryService {
	return &QueryService{providers: providers, maxConcurrent: maxConcurrent}
}

// Providers exposes the provider map
func (s *QueryService) Providers() *ProviderMap {
	return s.providers
}

// Execute runs q against every provider that owns one of its metrics. Rows
// are merged in provider order so the output does not depend on scheduling.
func (s *QueryService) Execute(ctx context.Context, q *query.MetricQuery) (*query.MetricQueryResponse, error) {
	if len(q.MetricIDs) == 0 {
		return nil, errors.InvalidInput("query requests no metrics")
	}
	owners, err := s.providers.GetUniqueProviders(q.MetricIDs)
	if err != nil {
		return nil, errors.Wrap(err, "resolve providers")
	}

	start := time.Now()
	responses := make([]*query.MetricQueryResponse, len(owners))
	g, gctx := errgroup.WithContext(ctx)
	if s.maxConcurrent > 0 {
		g.SetLimit(s.maxConcurrent)
	}
	for i, p := range owners {
		i, p := i, p
		g.Go(func() error {
			resp, err := providers.GetData(gctx, p, q)
			if err != nil {
				return err
			}
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrapf(err, "query %s", q.ID)
	}

	merged := query.MergeResponses(responses...)
	internal.DefaultLogger.Info("[QueryService] query %s: %d providers, %d rows in %s",
		q.ID, len(owners), len(merged.Data), time.Since(start))
	return merged, nil
}

// TrendsRequest asks for the longitudinal series of one metric
type TrendsRequest struct {
	MetricID   metric.ID
	Breakdowns query.Breakdowns
}

// TrendsResult is the nested series for a trends request
type TrendsResult struct {
	MetricID           metric.ID             `json:"metric_id"`
	Dimension          string                `json:"dimension"`
	Knowns             timeseries.TrendsData `json:"knowns"`
	Unknowns           timeseries.TimeSeries `json:"unknowns"`
	ConsumedDatasetIDs []string              `json:"consumed_dataset_ids"`
}

// ExecuteTrends runs a longitudinal query and nests the rows into one series
// per known group plus a series for the unknown group. Share metrics with a
// population comparison are reported as the ratio of the two shares.
func (s *QueryService) ExecuteTrends(ctx context.Context, req TrendsRequest) (*TrendsResult, error) {
	cfg, ok := metric.Lookup(req.MetricID)
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown metric %s", req.MetricID))
	}
	db, err := req.Breakdowns.GetSoleDemographicBreakdown()
	if err != nil {
		return nil, errors.Wrap(err, "trends need exactly one demographic")
	}

	ids := []metric.ID{cfg.ID}
	undue := cfg.Type == metric.TypePctShare && cfg.PopulationComparisonMetric != nil
	if undue {
		ids = append(ids, cfg.PopulationComparisonMetric.ID)
	}
	resp, err := s.Execute(ctx, query.NewMetricQuery(ids, req.Breakdowns, query.Longitudinal))
	if err != nil {
		return nil, err
	}

	knowns, unknowns := timeseries.SplitIntoKnownsAndUnknowns(resp.Data, db.Dimension)
	groups := dataset.Distinct(knowns, db.ColumnName())

	result := &TrendsResult{
		MetricID:           cfg.ID,
		Dimension:          db.ColumnName(),
		ConsumedDatasetIDs: resp.ConsumedDatasetIDs,
	}
	if undue {
		result.Knowns = timeseries.GetNestedUndueShares(knowns, groups, db.Dimension, cfg.ID, cfg.PopulationComparisonMetric.ID)
	} else {
		result.Knowns = timeseries.GetNestedRates(knowns, groups, db.Dimension, cfg.ID)
	}
	if len(unknowns) > 0 {
		result.Unknowns = timeseries.GetNestedUnknowns(unknowns, cfg.ID)
	}
	return result, nil
}
