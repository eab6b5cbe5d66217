package views

import (
	"lendledger/core"

	"github.com/shopspring/decimal"
)

// Asset asset with its market state, rates are per group scaled by 1e16
type Asset struct {
	*core.Asset
	Cash       decimal.Decimal `json:"cash"`
	Borrows    decimal.Decimal `json:"borrows"`
	BorrowRate decimal.Decimal `json:"borrow_rate"`
	SupplyRate decimal.Decimal `json:"supply_rate"`
}

// Balance balance of one product account, interest included
type Balance struct {
	Product string          `json:"product"`
	Kind    string          `json:"kind"`
	AssetID string          `json:"asset_id"`
	Balance decimal.Decimal `json:"balance"`
}

// Liquidity collateral position
type Liquidity struct {
	*core.AccountLiquidity
	Healthy bool `json:"healthy"`
}

// Repaid amount of borrow paid off
type Repaid struct {
	AssetID string          `json:"asset_id"`
	Repaid  decimal.Decimal `json:"repaid"`
}
