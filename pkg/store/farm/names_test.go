package farm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/de-tools/farm-atlas/pkg/store/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSelector struct {
	mock.Mock
}

func (m *mockSelector) Select(ctx context.Context, q *query.Query) ([]store.Row, error) {
	args := m.Called(ctx, q.Relation())
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Row), args.Error(1)
}

func TestNames_LookupCachesFoundName(t *testing.T) {
	// Given
	sel := new(mockSelector)
	sel.On("Select", mock.Anything, "farms").
		Return([]store.Row{{"farm_name": "Sunny Acres"}}, nil).Once()
	names, err := NewNames(sel, 8)
	require.NoError(t, err)

	// When
	first := names.Lookup(context.Background(), 12)
	second := names.Lookup(context.Background(), 12)

	// Then
	assert.Equal(t, "Sunny Acres", first)
	assert.Equal(t, "Sunny Acres", second)
	sel.AssertNumberOfCalls(t, "Select", 1)
}

func TestNames_LookupCachesFallbackForMissingFarm(t *testing.T) {
	sel := new(mockSelector)
	sel.On("Select", mock.Anything, "farms").Return([]store.Row{}, nil).Once()
	names, err := NewNames(sel, 8)
	require.NoError(t, err)

	assert.Equal(t, "Farm 77", names.Lookup(context.Background(), 77))
	assert.Equal(t, "Farm 77", names.Lookup(context.Background(), 77))
	sel.AssertNumberOfCalls(t, "Select", 1)
}

func TestNames_LookupDoesNotCacheErrors(t *testing.T) {
	sel := new(mockSelector)
	sel.On("Select", mock.Anything, "farms").Return(nil, errors.New("timeout")).Once()
	sel.On("Select", mock.Anything, "farms").Return([]store.Row{{"farm_name": "Back Online"}}, nil).Once()
	names, err := NewNames(sel, 8)
	require.NoError(t, err)

	assert.Equal(t, "Farm 3", names.Lookup(context.Background(), 3))
	assert.Equal(t, "Back Online", names.Lookup(context.Background(), 3))
	sel.AssertNumberOfCalls(t, "Select", 2)
}

func TestNames_EnrichAndPurge(t *testing.T) {
	sel := new(mockSelector)
	sel.On("Select", mock.Anything, "farms").Return([]store.Row{{"farm_name": "Hillside"}}, nil)
	names, err := NewNames(sel, 8)
	require.NoError(t, err)

	rows := []store.Row{{"zones_active": int64(2)}, {"zones_active": int64(3)}}
	names.Enrich(context.Background(), domain.FarmID(4), rows)

	for _, r := range rows {
		assert.Equal(t, "Hillside", r["farm_name"])
	}
	assert.Equal(t, 1, names.Len())

	names.Purge()
	assert.Equal(t, 0, names.Len())
}

func TestNames_ConcurrentLookups(t *testing.T) {
	sel := new(mockSelector)
	sel.On("Select", mock.Anything, "farms").Return([]store.Row{{"farm_name": "Shared"}}, nil)
	names, err := NewNames(sel, 8)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = names.Lookup(context.Background(), 1)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "Shared", r)
	}
}
