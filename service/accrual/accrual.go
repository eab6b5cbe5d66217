package accrual

import (
	"context"
	"fmt"

	"lendledger/core"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type service struct {
	ledger     core.Ledger
	interest   core.InterestService
	transactor core.Transactor
	kind       core.AccountKind
	side       core.RateSide
}

// New accrual service for kind.
// Borrow accrues at the borrow rate, Deposit, Supply and Loan at the supply rate.
func New(
	ledger core.Ledger,
	interest core.InterestService,
	transactor core.Transactor,
	kind core.AccountKind,
) core.AccrualService {
	var side core.RateSide
	switch kind {
	case core.AccountBorrow:
		side = core.RateSideBorrow
	case core.AccountDeposit, core.AccountSupply, core.AccountLoan:
		side = core.RateSideSupply
	case core.AccountCash, core.AccountTrading, core.AccountInterestIncome, core.AccountInterestExpense:
		panic(fmt.Sprintf("accrual: %s accounts do not earn interest", kind))
	default:
		panic(fmt.Sprintf("accrual: unknown account kind %d", int(kind)))
	}

	return &service{
		ledger:     ledger,
		interest:   interest,
		transactor: transactor,
		kind:       kind,
		side:       side,
	}
}

func (s *service) Kind() core.AccountKind {
	return s.kind
}

// AccrueInterest post interest earned since the checkpoint and move the
// checkpoint forward. Nothing is posted, and the checkpoint is left where it
// is, when no interest accrued.
func (s *service) AccrueInterest(ctx context.Context, customer, asset string) (decimal.Decimal, error) {
	var interest decimal.Decimal

	err := s.transactor.Tx(ctx, func(ctx context.Context) error {
		checkpoint, err := s.ledger.GetCheckpoint(ctx, customer, s.kind, asset)
		if err != nil {
			return err
		}

		balance, err := s.interest.GetCurrentBalance(ctx, asset, s.side, checkpoint.Block, checkpoint.Balance)
		if err != nil {
			return err
		}

		interest = balance.Sub(checkpoint.Balance)
		switch {
		case interest.IsNegative():
			return core.NewError(core.ErrNegativeInterest, core.Params{
				"account":   checkpoint.Key().String(),
				"principal": checkpoint.Balance,
				"balance":   balance,
			})
		case interest.IsZero():
			return nil
		}

		if err := s.post(ctx, customer, asset, interest); err != nil {
			return err
		}

		return s.ledger.SaveCheckpoint(ctx, customer, core.ReasonCheckpoint, s.kind, asset)
	})
	if err != nil {
		return decimal.Zero, err
	}

	if interest.IsPositive() {
		logger.FromContext(ctx).WithField("customer", customer).Debugf("accrual: %s %s interest %s", s.kind, asset, interest)
	}

	return interest, nil
}

func (s *service) post(ctx context.Context, customer, asset string, interest decimal.Decimal) error {
	if s.kind == core.AccountBorrow {
		if err := s.ledger.Debit(ctx, core.ReasonInterest, core.AccountBorrow, customer, asset, interest); err != nil {
			return err
		}

		return s.ledger.Credit(ctx, core.ReasonInterest, core.AccountInterestIncome, core.ProtocolCustomer, asset, interest)
	}

	if err := s.ledger.Debit(ctx, core.ReasonInterest, core.AccountInterestExpense, core.ProtocolCustomer, asset, interest); err != nil {
		return err
	}

	return s.ledger.Credit(ctx, core.ReasonInterest, s.kind, customer, asset, interest)
}

// BalanceWithInterest balance including interest not posted yet
func (s *service) BalanceWithInterest(ctx context.Context, customer, asset string) (decimal.Decimal, error) {
	checkpoint, err := s.ledger.GetCheckpoint(ctx, customer, s.kind, asset)
	if err != nil {
		return decimal.Zero, err
	}

	return s.interest.GetCurrentBalance(ctx, asset, s.side, checkpoint.Block, checkpoint.Balance)
}

// BalanceAt balance including interest as of block.
// Blocks before the checkpoint read as the checkpointed balance.
func (s *service) BalanceAt(ctx context.Context, customer, asset string, block int64) (decimal.Decimal, error) {
	checkpoint, err := s.ledger.GetCheckpoint(ctx, customer, s.kind, asset)
	if err != nil {
		return decimal.Zero, err
	}

	return s.interest.GetBalanceAt(ctx, asset, s.side, checkpoint.Block, checkpoint.Balance, block)
}
