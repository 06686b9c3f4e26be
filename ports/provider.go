package ports

import (
	"context"

	"hetracker/domain/metric"
	"hetracker/domain/query"
)

// VariableProvider answers metric queries for one data domain
type VariableProvider interface {
	ProviderID() string

	// ProvidesMetrics lists the metric IDs this provider owns
	ProvidesMetrics() []metric.ID

	// DatasetID resolves the backing dataset for a breakdown
	DatasetID(b query.Breakdowns) (string, error)

	// AllowsBreakdowns reports whether the provider can serve b
	AllowsBreakdowns(b query.Breakdowns) bool

	// GetDataInternal runs the provider pipeline. Callers go through
	// providers.GetData, which checks AllowsBreakdowns first.
	GetDataInternal(ctx context.Context, q *query.MetricQuery) (*query.MetricQueryResponse, error)
}
