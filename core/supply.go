package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// SavingsService deposit/withdraw product over one account kind
type SavingsService interface {
	Kind() AccountKind
	Deposit(ctx context.Context, customer, asset string, amount decimal.Decimal) error
	Withdraw(ctx context.Context, customer, asset string, amount decimal.Decimal) error
	Balance(ctx context.Context, customer, asset string) (decimal.Decimal, error)
	BalanceAt(ctx context.Context, customer, asset string, block int64) (decimal.Decimal, error)
}

// WithdrawGuard vetoes a withdrawal that would leave the customer unsafe.
// It runs inside the withdrawal transaction, after the ledger posting.
type WithdrawGuard func(ctx context.Context, customer, asset string, amount decimal.Decimal) error
