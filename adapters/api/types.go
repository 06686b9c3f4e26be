package api

import (
	"hetracker/domain/dataset"
	"hetracker/domain/metric"
)

// QueryResponse is the body of a successful /api/query call
type QueryResponse struct {
	QueryID            string         `json:"query_id"`
	Data               []dataset.Row  `json:"data"`
	ConsumedDatasetIDs []string       `json:"consumed_dataset_ids"`
	MissingData        bool           `json:"missing_data"`
	InvalidValueCounts map[string]int `json:"invalid_value_counts,omitempty"`
}

// DatasetInfo describes a registered dataset and whether the source holds it
type DatasetInfo struct {
	*dataset.Metadata
	Available bool `json:"available"`
}

// MetricInfo describes a routable metric
type MetricInfo struct {
	*metric.Config
	ProviderID string `json:"provider_id"`
}

// ErrorResponse is the body of every failed call
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}
