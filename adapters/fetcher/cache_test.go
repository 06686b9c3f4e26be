package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hetracker/domain/core"
	"hetracker/domain/dataset"
	"hetracker/internal/metadata"
)

// MockDatasetSource counts reads per dataset
type MockDatasetSource struct {
	mock.Mock
}

func (m *MockDatasetSource) Fetch(ctx context.Context, id string) ([]dataset.Row, error) {
	args := m.Called(ctx, id)
	rows, _ := args.Get(0).([]dataset.Row)
	return rows, args.Error(1)
}

func (m *MockDatasetSource) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func brfssRows() []dataset.Row {
	return []dataset.Row{{"state_fips": dataset.Str("37"), "diabetes_count": dataset.Num(400)}}
}

func TestLoadDatasetCachesByID(t *testing.T) {
	src := new(MockDatasetSource)
	src.On("Fetch", mock.Anything, "brfss").Return(brfssRows(), nil).Once()

	cache := NewCache(src, metadata.NewBuiltinRegistry())
	for i := 0; i < 3; i++ {
		ds, err := cache.LoadDataset(context.Background(), "brfss")
		require.NoError(t, err)
		assert.Equal(t, 1, ds.Len())
		require.NotNil(t, ds.Metadata)
		assert.Equal(t, "brfss", ds.Metadata.ID)
	}
	src.AssertNumberOfCalls(t, "Fetch", 1)
	assert.Equal(t, []string{"brfss"}, cache.CachedIDs())
}

func TestLoadDatasetConcurrentFirstLoads(t *testing.T) {
	src := new(MockDatasetSource)
	src.On("Fetch", mock.Anything, "brfss").Return(brfssRows(), nil)

	cache := NewCache(src, nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.LoadDataset(context.Background(), "brfss")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	// concurrent callers either share the in-flight load or hit the cache
	src.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestLoadDatasetRejectsMalformedID(t *testing.T) {
	src := new(MockDatasetSource)
	cache := NewCache(src, nil)
	_, err := cache.LoadDataset(context.Background(), "nodash")
	assert.True(t, errors.Is(err, core.ErrInvalidDatasetID))
	src.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestFailedLoadsAreNotCached(t *testing.T) {
	src := new(MockDatasetSource)
	src.On("Fetch", mock.Anything, "acs_population-by_age_state").
		Return(nil, fmt.Errorf("%w: acs_population-by_age_state", core.ErrDatasetNotFound)).Once()
	src.On("Fetch", mock.Anything, "acs_population-by_age_state").
		Return([]dataset.Row{}, nil).Once()

	cache := NewCache(src, nil)
	_, err := cache.LoadDataset(context.Background(), "acs_population-by_age_state")
	assert.True(t, errors.Is(err, core.ErrDatasetNotFound))

	ds, err := cache.LoadDataset(context.Background(), "acs_population-by_age_state")
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
}

func TestResetCacheDebug(t *testing.T) {
	src := new(MockDatasetSource)
	src.On("Fetch", mock.Anything, "brfss").Return(brfssRows(), nil)

	cache := NewCache(src, nil)
	_, _ = cache.LoadDataset(context.Background(), "brfss")
	cache.ResetCacheDebug()
	assert.Empty(t, cache.CachedIDs())
	_, _ = cache.LoadDataset(context.Background(), "brfss")
	src.AssertNumberOfCalls(t, "Fetch", 2)
}

func TestCachedRowsCannotBeMutated(t *testing.T) {
	src := new(MockDatasetSource)
	src.On("Fetch", mock.Anything, "brfss").Return(brfssRows(), nil)

	cache := NewCache(src, nil)
	ds, _ := cache.LoadDataset(context.Background(), "brfss")
	rows := ds.Rows()
	rows[0]["diabetes_count"] = dataset.Num(1)

	ds, _ = cache.LoadDataset(context.Background(), "brfss")
	count, _ := ds.Rows()[0].Float("diabetes_count")
	assert.Equal(t, 400.0, count)
}
