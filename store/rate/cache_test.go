package rate

import (
	"context"
	"testing"

	"lendledger/core"
	"lendledger/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	core.RateStore
	finds int
}

func (s *countingStore) Find(ctx context.Context, asset string, side core.RateSide, group int64) (*core.RateSnapshot, bool, error) {
	s.finds++
	return s.RateStore.Find(ctx, asset, side, group)
}

func TestCacheFind(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{RateStore: memory.New().Rates()}
	store := Cache(inner, 16)

	_, found, err := store.Find(ctx, "btc", core.RateSideBorrow, 1)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = store.Create(ctx, &core.RateSnapshot{Asset: "btc", Side: core.RateSideBorrow, Group: 1, Rate: decimal.NewFromInt(7)})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		snapshot, found, err := store.Find(ctx, "btc", core.RateSideBorrow, 1)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "7", snapshot.Rate.String())
	}

	// one miss before the snapshot existed, one load after
	assert.Equal(t, 2, inner.finds)
}
