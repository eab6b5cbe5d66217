package memory

import (
	"context"
	"errors"
	"testing"

	"lendledger/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointSave(t *testing.T) {
	ctx := context.Background()
	store := New().Checkpoints()
	key := core.CheckpointKey{Customer: "alice", Kind: core.AccountDeposit, Asset: "btc"}

	c, err := store.Find(ctx, key)
	require.NoError(t, err)
	assert.EqualValues(t, 0, c.ID)
	assert.True(t, c.Balance.IsZero())

	c.Balance = decimal.NewFromInt(10)
	require.NoError(t, store.Save(ctx, c))
	assert.EqualValues(t, 1, c.Version)

	stale := *c
	c.Balance = decimal.NewFromInt(20)
	require.NoError(t, store.Save(ctx, c))

	err = store.Save(ctx, &stale)
	assert.True(t, errors.Is(err, core.ErrConcurrentUpdate))

	got, err := store.Find(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "20", got.Balance.String())
}

func TestTxRollback(t *testing.T) {
	ctx := context.Background()
	s := New()
	key := core.CheckpointKey{Customer: "alice", Kind: core.AccountDeposit, Asset: "btc"}
	boom := errors.New("boom")

	err := s.Tx(ctx, func(ctx context.Context) error {
		c, _ := s.Checkpoints().Find(ctx, key)
		c.Balance = decimal.NewFromInt(5)
		if err := s.Checkpoints().Save(ctx, c); err != nil {
			return err
		}
		if err := s.Entries().Create(ctx, &core.Entry{Customer: "alice"}); err != nil {
			return err
		}

		// visible inside the transaction
		inner, _ := s.Checkpoints().Find(ctx, key)
		assert.Equal(t, "5", inner.Balance.String())

		// and not outside of it
		outer, _ := s.Checkpoints().Find(context.Background(), key)
		assert.True(t, outer.Balance.IsZero())
		return boom
	})
	assert.Equal(t, boom, err)

	c, _ := s.Checkpoints().Find(ctx, key)
	assert.True(t, c.Balance.IsZero())
	entries, _ := s.Entries().List(ctx, 0, 10)
	assert.Empty(t, entries)
}

func TestNestedTxJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.Tx(ctx, func(ctx context.Context) error {
		if err := s.Tx(ctx, func(ctx context.Context) error {
			return s.Entries().Create(ctx, &core.Entry{TraceID: "t1"})
		}); err != nil {
			return err
		}
		return errors.New("outer fails")
	})
	assert.Error(t, err)

	entries, _ := s.Entries().FindByTrace(ctx, "t1")
	assert.Empty(t, entries)
}

func TestRateCreateNoOverwrite(t *testing.T) {
	ctx := context.Background()
	rates := New().Rates()

	ok, err := rates.Create(ctx, &core.RateSnapshot{Asset: "btc", Side: core.RateSideSupply, Group: 3, Rate: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rates.Create(ctx, &core.RateSnapshot{Asset: "btc", Side: core.RateSideSupply, Group: 3, Rate: decimal.NewFromInt(999)})
	require.NoError(t, err)
	assert.False(t, ok)

	got, found, err := rates.Find(ctx, "btc", core.RateSideSupply, 3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "100", got.Rate.String())

	_, found, _ = rates.Find(ctx, "btc", core.RateSideBorrow, 3)
	assert.False(t, found)
}

func TestRateList(t *testing.T) {
	ctx := context.Background()
	rates := New().Rates()

	for _, g := range []int64{5, 1, 3, 2} {
		_, err := rates.Create(ctx, &core.RateSnapshot{Asset: "btc", Side: core.RateSideBorrow, Group: g, Rate: decimal.NewFromInt(g)})
		require.NoError(t, err)
	}

	list, err := rates.List(ctx, "btc", core.RateSideBorrow, 1, 5)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.EqualValues(t, 2, list[0].Group)
	assert.EqualValues(t, 3, list[1].Group)
	assert.EqualValues(t, 5, list[2].Group)

	latest, found, err := rates.Latest(ctx, "btc", core.RateSideBorrow)
	require.NoError(t, err)
	require.True(t, found)
	assert.EqualValues(t, 5, latest.Group)
}

func TestPriceLatest(t *testing.T) {
	ctx := context.Background()
	prices := New().Prices()

	_, found, err := prices.Latest(ctx, "btc")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, prices.Create(ctx, &core.Price{AssetID: "btc", Block: 1, Price: decimal.NewFromInt(100)}))
	require.NoError(t, prices.Create(ctx, &core.Price{AssetID: "btc", Block: 2, Price: decimal.NewFromInt(110)}))

	p := &core.Price{AssetID: "btc", Block: 2, Price: decimal.NewFromInt(999)}
	require.NoError(t, prices.Create(ctx, p))
	assert.Equal(t, "110", p.Price.String())

	latest, found, err := prices.Latest(ctx, "btc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "110", latest.Price.String())
}
