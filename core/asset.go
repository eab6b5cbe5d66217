package core

import (
	"context"
)

// Asset asset registered with the ledger
type Asset struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol,omitempty"`
	// Decimals of the smallest unit, 8 for mixin assets
	Decimals   int32 `json:"decimals"`
	Borrowable bool  `json:"borrowable"`
	// MinimumBorrowRateBPS borrow rate at zero utilization, per year
	MinimumBorrowRateBPS int64 `json:"minimum_borrow_rate_bps"`
	// BorrowRateSlopeBPS borrow rate added at full utilization, per year
	BorrowRateSlopeBPS int64 `json:"borrow_rate_slope_bps"`
	// SupplyRateSlopeBPS supply rate at full utilization, per year
	SupplyRateSlopeBPS int64 `json:"supply_rate_slope_bps"`
}

// AssetService asset registry
type AssetService interface {
	Find(ctx context.Context, id string) (*Asset, error)
	All(ctx context.Context) ([]*Asset, error)
}
