package query

import (
	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
)

// joinColumns are the identifier columns rows are matched on when merging.
// fips_name is carried along but never part of the key.
func joinColumns() []string {
	var cols []string
	for _, c := range IdentifierColumns() {
		if c != demographic.FipsNameCol {
			cols = append(cols, c)
		}
	}
	return cols
}

// MergeResponses outer-joins the rows of several responses on their
// identifier columns. Rows keep first-seen order. A measure column that one
// response did not return for a row is written as suppressed so every output
// row has the same columns. Inputs are never mutated.
func MergeResponses(responses ...*MetricQueryResponse) *MetricQueryResponse {
	var consumed []string
	var merged []dataset.Row
	index := make(map[string]int)
	var columns []string
	seenCol := make(map[string]bool)
	keyCols := joinColumns()

	for _, resp := range responses {
		if resp == nil {
			continue
		}
		consumed = append(consumed, resp.ConsumedDatasetIDs...)
		for _, row := range resp.Data {
			for _, c := range row.Columns() {
				if !seenCol[c] {
					seenCol[c] = true
					columns = append(columns, c)
				}
			}
			k := dataset.Key(row, keyCols)
			i, ok := index[k]
			if !ok {
				index[k] = len(merged)
				merged = append(merged, row.Copy())
				continue
			}
			target := merged[i]
			for c, v := range row {
				if existing, has := target[c]; !has || (existing.IsNotApplicable() && !v.IsNotApplicable()) {
					target[c] = v
				}
			}
		}
	}

	for _, row := range merged {
		for _, c := range columns {
			if _, has := row[c]; has {
				continue
			}
			if IsIdentifierColumn(c) {
				row[c] = dataset.NotApplicable()
			} else {
				row[c] = dataset.Suppressed()
			}
		}
	}
	return NewMetricQueryResponse(merged, consumed...)
}
