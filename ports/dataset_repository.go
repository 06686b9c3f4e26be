package ports

import (
	"context"

	"hetracker/domain/dataset"
)

// DatasetSource reads the raw rows of a dataset from wherever it is stored
type DatasetSource interface {
	// Fetch returns the rows of id or an error wrapping core.ErrDatasetNotFound
	Fetch(ctx context.Context, id string) ([]dataset.Row, error)

	// List returns the dataset IDs the source can serve
	List(ctx context.Context) ([]string, error)
}

// DatasetFetcher loads datasets for providers. Loads are cached per dataset
// ID for the life of the fetcher.
type DatasetFetcher interface {
	LoadDataset(ctx context.Context, id string) (*dataset.Dataset, error)

	// ResetCacheDebug drops every cached dataset. Tests only.
	ResetCacheDebug()
}
