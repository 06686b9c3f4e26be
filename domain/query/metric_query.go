package query

import (
	"hetracker/domain/core"
	"hetracker/domain/demographic"
	"hetracker/domain/metric"
)

// TimeView selects a single-period or a longitudinal query
type TimeView string

const (
	CrossSectional TimeView = "cross_sectional"
	Longitudinal   TimeView = "longitudinal"
)

// MetricQuery is one request for a set of metrics over a breakdown
type MetricQuery struct {
	ID         core.QueryID
	MetricIDs  []metric.ID
	Breakdowns Breakdowns
	TimeView   TimeView
}

// NewMetricQuery builds a query over a private copy of breakdowns with the
// time flag derived from timeView
func NewMetricQuery(metricIDs []metric.ID, breakdowns Breakdowns, timeView TimeView) *MetricQuery {
	if timeView == "" {
		timeView = CrossSectional
	}
	return &MetricQuery{
		ID:         core.NewQueryID(),
		MetricIDs:  append([]metric.ID(nil), metricIDs...),
		Breakdowns: breakdowns.WithTime(timeView == Longitudinal),
		TimeView:   timeView,
	}
}

// Requests reports whether id is among the requested metrics
func (q *MetricQuery) Requests(id metric.ID) bool {
	for _, m := range q.MetricIDs {
		if m == id {
			return true
		}
	}
	return false
}

// RequestsAny reports whether any of ids is requested
func (q *MetricQuery) RequestsAny(ids ...metric.ID) bool {
	for _, id := range ids {
		if q.Requests(id) {
			return true
		}
	}
	return false
}

// IdentifierColumns are the columns that identify a row rather than measure it
func IdentifierColumns() []string {
	cols := []string{demographic.FipsCol, demographic.FipsNameCol}
	for _, d := range demographic.Dimensions {
		cols = append(cols, string(d))
	}
	return append(cols, demographic.TimePeriodCol)
}

// IsIdentifierColumn reports whether col is one of IdentifierColumns
func IsIdentifierColumn(col string) bool {
	for _, c := range IdentifierColumns() {
		if c == col {
			return true
		}
	}
	return false
}
