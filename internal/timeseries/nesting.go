package timeseries

import (
	"hetracker/domain/dataset"
	"hetracker/domain/demographic"
	"hetracker/domain/metric"
)

// Point is one period of a series. A nil Value means no data.
type Point struct {
	Period string   `json:"period"`
	Value  *float64 `json:"value"`
}

// TimeSeries is a gap-free, period-ordered series
type TimeSeries []Point

// GroupTrendData is the series of one demographic group
type GroupTrendData struct {
	Group  string     `json:"group"`
	Series TimeSeries `json:"series"`
}

// TrendsData holds one series per group in the order groups were requested
type TrendsData []GroupTrendData

func valueOf(r dataset.Row, col string) *float64 {
	f, ok := r.Float(col)
	if !ok {
		return nil
	}
	return &f
}

func groupRows(rows []dataset.Row, dim demographic.Dimension, group string) []dataset.Row {
	col := string(dim)
	return dataset.Where(rows, func(r dataset.Row) bool { return r.Text(col) == group })
}

func series(rows []dataset.Row, value func(dataset.Row) *float64) TimeSeries {
	interpolated := InterpolateTimePeriods(rows)
	out := make(TimeSeries, len(interpolated))
	for i, r := range interpolated {
		out[i] = Point{Period: r.Text(demographic.TimePeriodCol), Value: value(r)}
	}
	return out
}

// GetNestedRates builds one series of metricID per group
func GetNestedRates(rows []dataset.Row, groups []string, dim demographic.Dimension, metricID metric.ID) TrendsData {
	out := make(TrendsData, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupTrendData{
			Group: g,
			Series: series(groupRows(rows, dim, g), func(r dataset.Row) *float64 {
				return valueOf(r, string(metricID))
			}),
		})
	}
	return out
}

// GetNestedUndueShares builds one series per group of the ratio between a
// group's share of the condition and its share of the population
func GetNestedUndueShares(rows []dataset.Row, groups []string, dim demographic.Dimension, conditionPctShareID, popPctShareID metric.ID) TrendsData {
	out := make(TrendsData, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupTrendData{
			Group: g,
			Series: series(groupRows(rows, dim, g), func(r dataset.Row) *float64 {
				share := valueOf(r, string(conditionPctShareID))
				pop := valueOf(r, string(popPctShareID))
				if share == nil || pop == nil || *pop == 0 {
					return nil
				}
				undue := *share / *pop
				return &undue
			}),
		})
	}
	return out
}

// GetNestedUnknowns builds a single series of metricID from rows of the
// unknown group
func GetNestedUnknowns(unknownRows []dataset.Row, metricID metric.ID) TimeSeries {
	return series(unknownRows, func(r dataset.Row) *float64 {
		return valueOf(r, string(metricID))
	})
}

// SplitIntoKnownsAndUnknowns separates rows whose group in dim is one of
// the unknown labels
func SplitIntoKnownsAndUnknowns(rows []dataset.Row, dim demographic.Dimension) (knowns, unknowns []dataset.Row) {
	col := string(dim)
	for _, r := range rows {
		if demographic.IsUnknown(r.Text(col)) {
			unknowns = append(unknowns, r)
		} else {
			knowns = append(knowns, r)
		}
	}
	return knowns, unknowns
}

// ShortenGroupLabels abbreviates "(Non-Hispanic)" in group labels for
// legends. The input is not modified.
func ShortenGroupLabels(data TrendsData) TrendsData {
	out := make(TrendsData, len(data))
	for i, g := range data {
		out[i] = GroupTrendData{Group: demographic.ShortenNH(g.Group), Series: g.Series}
	}
	return out
}
