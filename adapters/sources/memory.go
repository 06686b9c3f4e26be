package sources

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"hetracker/domain/core"
	"hetracker/domain/dataset"
	"hetracker/ports"
)

// MemorySource serves datasets held in memory. It backs tests and the
// "memory" dataset source.
type MemorySource struct {
	mu       sync.RWMutex
	datasets map[string][]dataset.Row
}

// NewMemorySource creates an empty in-memory source
func NewMemorySource() *MemorySource {
	return &MemorySource{datasets: make(map[string][]dataset.Row)}
}

// SetDataset stores a copy of rows under id
func (s *MemorySource) SetDataset(id string, rows []dataset.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[id] = dataset.CopyRows(rows)
}

// Reset removes every dataset
func (s *MemorySource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets = make(map[string][]dataset.Row)
}

// Fetch returns a copy of the rows stored under id
func (s *MemorySource) Fetch(ctx context.Context, id string) ([]dataset.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.datasets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrDatasetNotFound, id)
	}
	return dataset.CopyRows(rows), nil
}

// List returns the stored dataset IDs, sorted
func (s *MemorySource) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.datasets))
	for id := range s.datasets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

var _ ports.DatasetSource = (*MemorySource)(nil)
