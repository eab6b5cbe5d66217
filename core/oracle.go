package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceOracle values assets in a common unit
type PriceOracle interface {
	// GetAssetValue value of amount (smallest units) of asset
	GetAssetValue(ctx context.Context, asset string, amount decimal.Decimal) (decimal.Decimal, error)
	// GetConvertedAssetValue amount of toAsset (smallest units) worth amount of fromAsset
	GetConvertedAssetValue(ctx context.Context, fromAsset string, amount decimal.Decimal, toAsset string) (decimal.Decimal, error)
	// Assets every asset the oracle prices
	Assets(ctx context.Context) ([]string, error)
	// Allowed identity the oracle serves
	Allowed(ctx context.Context) (string, error)
}

// BorrowStorage borrow policy
type BorrowStorage interface {
	BorrowableAsset(ctx context.Context, asset string) (bool, error)
	MinimumCollateralRatio(ctx context.Context) (decimal.Decimal, error)
}

// AccessControl gates administrative operations
type AccessControl interface {
	CheckOwner(ctx context.Context, userID string) bool
}
