package market

import (
	"context"
	"errors"
	"testing"

	"lendledger/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	s := New(&core.Config{
		Assets: []*core.Asset{
			{ID: "BTC", Decimals: 8, Borrowable: true},
			{ID: "usd", Decimals: 8},
		},
		Borrow: core.Borrow{MinimumCollateralRatio: decimal.RequireFromString("1.5")},
		Admins: []string{"root"},
	})

	ok, err := s.BorrowableAsset(ctx, "btc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.BorrowableAsset(ctx, "usd")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.BorrowableAsset(ctx, "eth")
	assert.True(t, errors.Is(err, core.ErrAssetNotFound))

	ratio, err := s.MinimumCollateralRatio(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.5", ratio.String())

	all, _ := s.All(ctx)
	assert.Len(t, all, 2)

	assert.True(t, s.CheckOwner(ctx, "root"))
	assert.False(t, s.CheckOwner(ctx, "alice"))
}

func TestMinimumCollateralRatioNotConfigured(t *testing.T) {
	_, err := New(&core.Config{}).MinimumCollateralRatio(context.Background())
	assert.True(t, errors.Is(err, core.ErrBorrowStorageNotConfigured))
}
