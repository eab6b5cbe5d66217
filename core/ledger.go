package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Ledger double-entry engine over checkpointed balances
type Ledger interface {
	Debit(ctx context.Context, reason Reason, kind AccountKind, customer, asset string, amount decimal.Decimal) error
	Credit(ctx context.Context, reason Reason, kind AccountKind, customer, asset string, amount decimal.Decimal) error
	GetBalance(ctx context.Context, customer string, kind AccountKind, asset string) (decimal.Decimal, error)
	GetCheckpoint(ctx context.Context, customer string, kind AccountKind, asset string) (*Checkpoint, error)
	GetBalanceSheetBalance(ctx context.Context, asset string, kind AccountKind) (decimal.Decimal, error)
	SaveCheckpoint(ctx context.Context, customer string, reason Reason, kind AccountKind, asset string) error
	CurrentBlock(ctx context.Context) (int64, error)
	// TraceUsed reports whether anything was posted under traceID
	TraceUsed(ctx context.Context, traceID string) (bool, error)
}
