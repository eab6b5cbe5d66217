package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// AccountLiquidity collateral position of a customer
type AccountLiquidity struct {
	Customer string `json:"customer"`
	// ValueEquivalent sum of supply value minus borrow value over every oracle asset
	ValueEquivalent        decimal.Decimal `json:"value_equivalent"`
	MinimumCollateralRatio decimal.Decimal `json:"minimum_collateral_ratio"`
}

// BorrowerService borrow product
type BorrowerService interface {
	Borrow(ctx context.Context, customer, asset string, amount decimal.Decimal) error
	RepayBorrow(ctx context.Context, customer, asset string, amount decimal.Decimal) (decimal.Decimal, error)
	ConvertCollateral(ctx context.Context, customer, paymentAsset string, amountInPaymentAsset decimal.Decimal, borrowAsset string) (decimal.Decimal, error)
	BorrowBalance(ctx context.Context, customer, asset string) (decimal.Decimal, error)
	AccountLiquidity(ctx context.Context, customer string) (*AccountLiquidity, error)
	AccountHealth(ctx context.Context, customer string) (*AccountLiquidity, bool, error)
	CollateralRatioValid(ctx context.Context, customer, borrowAsset string, borrowAmount decimal.Decimal) (bool, error)
}
