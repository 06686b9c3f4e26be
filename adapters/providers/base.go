// Package providers holds the variable providers: one per data domain, each
// mapping metric requests onto its backing datasets.
package providers

import (
	"context"
	"fmt"
	"strings"

	"hetracker/domain/core"
	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
	"hetracker/domain/fips"
	"hetracker/domain/metric"
	"hetracker/domain/query"
	"hetracker/internal"
	"hetracker/ports"
)

// GetData is the entry point for every provider: it rejects breakdowns the
// provider cannot serve, then runs the provider pipeline
func GetData(ctx context.Context, p ports.VariableProvider, q *query.MetricQuery) (*query.MetricQueryResponse, error) {
	if !p.AllowsBreakdowns(q.Breakdowns) {
		return nil, core.NewUnsupportedBreakdownError(p.ProviderID(), q.Breakdowns.String())
	}
	internal.DefaultLogger.Debug("[%s] query %s: %s metrics=%v", p.ProviderID(), q.ID, q.Breakdowns, q.MetricIDs)
	resp, err := p.GetDataInternal(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.ProviderID(), err)
	}
	return resp, nil
}

type base struct {
	id      string
	metrics []metric.ID
}

func (b base) ProviderID() string { return b.id }

func (b base) ProvidesMetrics() []metric.ID {
	return append([]metric.ID(nil), b.metrics...)
}

func (b base) owns(id metric.ID) bool {
	for _, m := range b.metrics {
		if m == id {
			return true
		}
	}
	return false
}

// requested returns the query's metrics this provider owns, in query order
func (b base) requested(q *query.MetricQuery) []metric.ID {
	var out []metric.ID
	for _, id := range q.MetricIDs {
		if b.owns(id) {
			out = append(out, id)
		}
	}
	return out
}

func (b base) loadRows(ctx context.Context, fetcher ports.DatasetFetcher, id string) ([]dataset.Row, error) {
	ds, err := fetcher.LoadDataset(ctx, id)
	if err != nil {
		return nil, err
	}
	return ds.Rows(), nil
}

// geoColumns are the raw fips and name columns for a geography
func geoColumns(geo query.Geography) (fipsCol, nameCol string) {
	if geo == query.County {
		return demographic.CountyFipsCol, demographic.CountyNameCol
	}
	return demographic.StateFipsCol, demographic.StateNameCol
}

func rowFips(r dataset.Row, col string) string {
	if r.Has(col) {
		return r.Text(col)
	}
	return r.Text(demographic.FipsCol)
}

// filterByGeo keeps the rows of the breakdown's fips filter. Counties of a
// state are matched on the state prefix.
func filterByGeo(rows []dataset.Row, b query.Breakdowns) []dataset.Row {
	if b.FilterFips == nil || b.FilterFips.IsUSA() {
		return rows
	}
	filter := *b.FilterFips
	col, _ := geoColumns(b.Geography)
	if filter.IsState() && b.IsCounty() {
		return dataset.Where(rows, func(r dataset.Row) bool {
			return filter.IsParentOf(rowFips(r, col))
		})
	}
	return dataset.Where(rows, func(r dataset.Row) bool {
		return rowFips(r, col) == filter.Code
	})
}

// renameGeoColumns maps state_* or county_* columns onto fips/fips_name
func renameGeoColumns(rows []dataset.Row, b query.Breakdowns) []dataset.Row {
	fipsCol, nameCol := geoColumns(b.Geography)
	if b.IsCounty() {
		rows = dataset.DropColumns(rows, demographic.StateFipsCol)
	}
	return dataset.RenameColumns(rows, map[string]string{
		fipsCol: demographic.FipsCol,
		nameCol: demographic.FipsNameCol,
	})
}

// renameTotalToAll replaces the "Total" group label with "All"
func renameTotalToAll(rows []dataset.Row, groupCol string) []dataset.Row {
	return dataset.Map(rows, func(r dataset.Row) dataset.Row {
		if r.Text(groupCol) == demographic.Total {
			r[groupCol] = dataset.Str(demographic.All)
		}
		return r
	})
}

// applyDemographicBreakdownFilters drops groups the breakdown filters out
func applyDemographicBreakdownFilters(rows []dataset.Row, b query.Breakdowns) []dataset.Row {
	for _, dim := range demographic.Dimensions {
		db := b.Demographic(dim)
		if !db.Enabled {
			continue
		}
		col := db.ColumnName()
		rows = dataset.Where(rows, func(r dataset.Row) bool {
			return db.Filter.Allows(r.Text(col))
		})
	}
	return rows
}

// removeUnrequestedColumns projects rows onto the identifying columns and
// the requested metrics. A requested metric a row lacks is not applicable.
func removeUnrequestedColumns(rows []dataset.Row, b query.Breakdowns, metrics []metric.ID) []dataset.Row {
	cols := []string{demographic.FipsCol, demographic.FipsNameCol}
	for _, dim := range demographic.Dimensions {
		if db := b.Demographic(dim); db.Enabled {
			cols = append(cols, db.ColumnName())
		}
	}
	if b.Time {
		cols = append(cols, demographic.TimePeriodCol)
	}
	for _, m := range metrics {
		cols = append(cols, string(m))
	}
	return dataset.Project(rows, cols)
}

// groupingColumns are the columns national rows are summed by
func groupingColumns(b query.Breakdowns, groupCol string) []string {
	cols := []string{groupCol}
	if b.Time {
		cols = append(cols, demographic.TimePeriodCol)
	}
	return cols
}

// nationalPivot sums state rows into a single national row per group
func nationalPivot(rows []dataset.Row, groupCols, sumCols []string) []dataset.Row {
	usa := fips.USA()
	return dataset.PivotSum(rows, groupCols, sumCols, dataset.Row{
		demographic.FipsCol:     dataset.Str(usa.Code),
		demographic.FipsNameCol: dataset.Str(usa.DisplayName()),
	})
}

// joinColumn left-joins one column of right onto left by fips and group.
// Unmatched rows get a suppressed cell.
func joinColumn(left, right []dataset.Row, groupCol, col, as string) []dataset.Row {
	keys := []string{demographic.FipsCol, groupCol}
	slim := make([]dataset.Row, len(right))
	for i, r := range right {
		slim[i] = dataset.Row{
			demographic.FipsCol: r.Get(demographic.FipsCol),
			groupCol:            r.Get(groupCol),
			as:                  r.Get(col),
		}
	}
	return dataset.LeftJoin(left, slim, keys, dataset.Suppressed())
}

// soleGroupColumn returns the column of the only enabled demographic
func soleGroupColumn(b query.Breakdowns) (string, error) {
	db, err := b.GetSoleDemographicBreakdown()
	if err != nil {
		return "", err
	}
	return db.ColumnName(), nil
}

// datasetSuffix is the part of a dataset ID naming a dimension
func datasetSuffix(dim demographic.Dimension) string {
	if dim == demographic.Race {
		return "race"
	}
	return string(dim)
}

func onlyShareMetrics(metrics []metric.ID) bool {
	for _, m := range metrics {
		if !strings.Contains(string(m), "share") {
			return false
		}
	}
	return true
}
