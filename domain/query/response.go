package query

import (
	"github.com/montanaflynn/stats"

	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
	"hetracker/domain/metric"
)

// MetricQueryResponse is the rows a provider returns for a MetricQuery and
// the datasets it read to build them
type MetricQueryResponse struct {
	Data               []dataset.Row  `json:"data"`
	ConsumedDatasetIDs []string       `json:"consumed_dataset_ids"`
	InvalidValues      map[string]int `json:"invalid_values,omitempty"`
}

// NewMetricQueryResponse builds a response. Dataset IDs are deduplicated in
// insertion order.
func NewMetricQueryResponse(data []dataset.Row, consumedDatasetIDs ...string) *MetricQueryResponse {
	if data == nil {
		data = []dataset.Row{}
	}
	r := &MetricQueryResponse{
		Data:               data,
		ConsumedDatasetIDs: dedupe(consumedDatasetIDs),
		InvalidValues:      make(map[string]int),
	}
	for _, row := range data {
		for col, v := range row {
			if v.IsMissing() {
				r.InvalidValues[col]++
			}
		}
	}
	return r
}

// EmptyResponse is a response with no rows that still records what was read
func EmptyResponse(consumedDatasetIDs ...string) *MetricQueryResponse {
	return NewMetricQueryResponse(nil, consumedDatasetIDs...)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// DataIsMissing is true when the response has no rows at all
func (r *MetricQueryResponse) DataIsMissing() bool {
	return len(r.Data) == 0
}

// IsFieldMissing is true when no row carries a value for field
func (r *MetricQueryResponse) IsFieldMissing(field metric.ID) bool {
	for _, row := range r.Data {
		if !row.Get(string(field)).IsMissing() {
			return false
		}
	}
	return true
}

// IsFieldNotApplicable is true when field does not apply to any row
func (r *MetricQueryResponse) IsFieldNotApplicable(field metric.ID) bool {
	if r.DataIsMissing() {
		return false
	}
	for _, row := range r.Data {
		if !row.Get(string(field)).IsNotApplicable() {
			return false
		}
	}
	return true
}

// ShouldShowMissingDataMessage is true when there are no rows or one of
// fields has no data in any row. Not-applicable fields get their own
// message and do not count.
func (r *MetricQueryResponse) ShouldShowMissingDataMessage(fields []metric.ID) bool {
	if r.DataIsMissing() {
		return true
	}
	for _, f := range fields {
		if r.IsFieldMissing(f) && !r.IsFieldNotApplicable(f) {
			return true
		}
	}
	return false
}

// GetValidRowsForField returns rows holding a number for field
func (r *MetricQueryResponse) GetValidRowsForField(field metric.ID) []dataset.Row {
	return dataset.Where(r.Data, func(row dataset.Row) bool {
		return row.Get(string(field)).IsNumber()
	})
}

// FieldValues splits the group labels of a dimension by data availability
type FieldValues struct {
	WithData []string `json:"with_data"`
	NoData   []string `json:"no_data"`
}

// GetFieldValues returns which groups of dim have a value for field. The
// order follows the rows.
func (r *MetricQueryResponse) GetFieldValues(dim demographic.Dimension, field metric.ID) FieldValues {
	col := string(dim)
	withData := make(map[string]bool)
	var out FieldValues
	for _, row := range r.Data {
		if row.Get(string(field)).IsNumber() {
			g := row.Text(col)
			if !withData[g] {
				withData[g] = true
				out.WithData = append(out.WithData, g)
			}
		}
	}
	for _, g := range dataset.Distinct(r.Data, col) {
		if !withData[g] {
			out.NoData = append(out.NoData, g)
		}
	}
	return out
}

// GetFieldRange returns the min and max of field over rows with data
func (r *MetricQueryResponse) GetFieldRange(field metric.ID) (min, max float64, ok bool) {
	var values []float64
	for _, row := range r.GetValidRowsForField(field) {
		f, _ := row.Float(string(field))
		values = append(values, f)
	}
	if len(values) == 0 {
		return 0, 0, false
	}
	min, _ = stats.Min(values)
	max, _ = stats.Max(values)
	return min, max, true
}
