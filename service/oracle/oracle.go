package oracle

import (
	"context"

	"lendledger/core"
	"lendledger/internal/compound"

	"github.com/shopspring/decimal"
)

type priceOracle struct {
	prices  core.PriceStore
	assets  core.AssetService
	allowed string
}

// New price oracle over the latest recorded price of each asset
func New(prices core.PriceStore, assets core.AssetService, cfg core.PriceOracleConfig) core.PriceOracle {
	return &priceOracle{
		prices:  prices,
		assets:  assets,
		allowed: cfg.Allowed,
	}
}

func (o *priceOracle) Allowed(ctx context.Context) (string, error) {
	if o.allowed == "" {
		return "", core.NewError(core.ErrOracleNotConfigured, core.Params{"allowed": o.allowed})
	}

	return o.allowed, nil
}

func (o *priceOracle) Assets(ctx context.Context) ([]string, error) {
	assets, err := o.assets.All(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(assets))
	for _, asset := range assets {
		ids = append(ids, asset.ID)
	}

	return ids, nil
}

// GetAssetValue amount of smallest units times the price of one whole unit
func (o *priceOracle) GetAssetValue(ctx context.Context, asset string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, nil
	}

	a, price, err := o.price(ctx, asset)
	if err != nil {
		return decimal.Zero, err
	}

	return amount.Shift(-a.Decimals).Mul(price), nil
}

// GetConvertedAssetValue smallest units of toAsset worth amount of fromAsset, floored
func (o *priceOracle) GetConvertedAssetValue(ctx context.Context, fromAsset string, amount decimal.Decimal, toAsset string) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, nil
	}

	from, fromPrice, err := o.price(ctx, fromAsset)
	if err != nil {
		return decimal.Zero, err
	}

	to, toPrice, err := o.price(ctx, toAsset)
	if err != nil {
		return decimal.Zero, err
	}

	num := amount.Mul(fromPrice).Shift(to.Decimals)
	den := toPrice.Shift(from.Decimals)
	return compound.FloorDiv(num, den), nil
}

func (o *priceOracle) price(ctx context.Context, asset string) (*core.Asset, decimal.Decimal, error) {
	a, err := o.assets.Find(ctx, asset)
	if err != nil {
		return nil, decimal.Zero, err
	}

	p, found, err := o.prices.Latest(ctx, a.ID)
	if err != nil {
		return nil, decimal.Zero, core.WrapError(core.ErrPriceUnavailable, err, core.Params{"asset": asset})
	}

	if !found || !p.Price.IsPositive() {
		return nil, decimal.Zero, core.NewError(core.ErrPriceUnavailable, core.Params{"asset": asset})
	}

	return a, p.Price, nil
}
