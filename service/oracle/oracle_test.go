package oracle

import (
	"context"
	"errors"
	"testing"

	"lendledger/core"
	"lendledger/service/market"
	"lendledger/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOracle(t *testing.T, allowed string) core.PriceOracle {
	prices := memory.New().Prices()
	require.NoError(t, prices.Create(context.Background(), &core.Price{AssetID: "btc", Block: 1, Price: decimal.NewFromInt(20000)}))
	require.NoError(t, prices.Create(context.Background(), &core.Price{AssetID: "usd", Block: 1, Price: decimal.NewFromInt(1)}))

	assets := market.New(&core.Config{Assets: []*core.Asset{
		{ID: "btc", Decimals: 8},
		{ID: "usd", Decimals: 2},
		{ID: "eth", Decimals: 8},
	}})

	return New(prices, assets, core.PriceOracleConfig{Allowed: allowed})
}

func TestGetAssetValue(t *testing.T) {
	ctx := context.Background()
	o := newOracle(t, "ledger")

	v, err := o.GetAssetValue(ctx, "btc", decimal.NewFromInt(50000000))
	require.NoError(t, err)
	assert.Equal(t, "10000", v.String())

	v, err = o.GetAssetValue(ctx, "eth", decimal.Zero)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	_, err = o.GetAssetValue(ctx, "eth", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, core.ErrPriceUnavailable))
}

func TestGetConvertedAssetValue(t *testing.T) {
	ctx := context.Background()
	o := newOracle(t, "ledger")

	// 100.00 usd buys 0.005 btc
	v, err := o.GetConvertedAssetValue(ctx, "usd", decimal.NewFromInt(10000), "btc")
	require.NoError(t, err)
	assert.Equal(t, "500000", v.String())

	// floored to whole cents
	v, err = o.GetConvertedAssetValue(ctx, "btc", decimal.NewFromInt(1), "usd")
	require.NoError(t, err)
	assert.Equal(t, "0", v.String())
}

func TestAllowed(t *testing.T) {
	ctx := context.Background()

	allowed, err := newOracle(t, "ledger").Allowed(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ledger", allowed)

	_, err = newOracle(t, "").Allowed(ctx)
	assert.True(t, errors.Is(err, core.ErrOracleNotConfigured))

	assets, err := newOracle(t, "ledger").Assets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"btc", "usd", "eth"}, assets)
}
