package fetcher

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"hetracker/domain/core"
	"hetracker/domain/dataset"
	"hetracker/internal"
	"hetracker/ports"
)

// Cache loads datasets from a source once per dataset ID and keeps them for
// the life of the process. There is no eviction and no TTL.
type Cache struct {
	source   ports.DatasetSource
	registry ports.MetadataRegistry
	logger   *internal.Logger

	mu       sync.RWMutex
	datasets map[string]*dataset.Dataset
	loads    singleflight.Group
}

// NewCache creates a cache in front of source. registry may be nil, in which
// case dataset IDs are only checked for format.
func NewCache(source ports.DatasetSource, registry ports.MetadataRegistry) *Cache {
	return &Cache{
		source:   source,
		registry: registry,
		logger:   internal.DefaultLogger,
		datasets: make(map[string]*dataset.Dataset),
	}
}

// LoadDataset returns the dataset for id, reading it from the source on the
// first request. Concurrent first requests share a single read. Failed reads
// are not cached.
func (c *Cache) LoadDataset(ctx context.Context, id string) (*dataset.Dataset, error) {
	datasetID, err := core.ParseDatasetID(id)
	if err != nil {
		return nil, err
	}
	key := datasetID.String()

	c.mu.RLock()
	ds, ok := c.datasets[key]
	c.mu.RUnlock()
	if ok {
		return ds, nil
	}

	v, err, shared := c.loads.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		cached, ok := c.datasets[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}
		return c.load(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Trace("[DatasetCache] shared in-flight load of %s", key)
	}
	return v.(*dataset.Dataset), nil
}

func (c *Cache) load(ctx context.Context, id string) (*dataset.Dataset, error) {
	var meta *dataset.Metadata
	if c.registry != nil {
		m, known := c.registry.Get(id)
		if !known {
			log.Printf("[DatasetCache] WARNING: dataset %s is not in the metadata registry", id)
		}
		meta = m
	}

	start := time.Now()
	rows, err := c.source.Fetch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", id, err)
	}
	ds := dataset.NewDataset(id, rows, meta)

	c.mu.Lock()
	c.datasets[id] = ds
	c.mu.Unlock()

	c.logger.Debug("[DatasetCache] loaded %s (%d rows) in %.2fms", id, ds.Len(), float64(time.Since(start).Nanoseconds())/1e6)
	return ds, nil
}

// ResetCacheDebug drops every cached dataset
func (c *Cache) ResetCacheDebug() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets = make(map[string]*dataset.Dataset)
}

// CachedIDs returns the IDs currently held, sorted
func (c *Cache) CachedIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.datasets))
	for id := range c.datasets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var _ ports.DatasetFetcher = (*Cache)(nil)
