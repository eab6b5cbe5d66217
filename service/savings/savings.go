package savings

import (
	"context"
	"fmt"

	"lendledger/core"
	"lendledger/pkg/id"
	"lendledger/pkg/lockmap"
	"lendledger/pkg/metrics"
	"lendledger/pkg/number"
	"lendledger/service/runner"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type service struct {
	kind       core.AccountKind
	reason     core.Reason
	ledger     core.Ledger
	accrual    core.AccrualService
	token      core.Token
	runner     *runner.Runner
	protocolID string
	guard      core.WithdrawGuard
}

// New deposit/withdraw product over accrual's account kind.
//
// Deposit backs Savings, Supply backs Supplier and Loan backs Loaner. guard,
// when set, runs after a withdrawal is posted and may veto it.
func New(
	ledger core.Ledger,
	transactor core.Transactor,
	accrual core.AccrualService,
	token core.Token,
	locks *lockmap.Lockmap,
	protocolID string,
	guard core.WithdrawGuard,
) core.SavingsService {
	s := &service{
		kind:       accrual.Kind(),
		ledger:     ledger,
		accrual:    accrual,
		token:      token,
		runner:     runner.New(ledger, transactor, locks),
		protocolID: protocolID,
		guard:      guard,
	}

	switch s.kind {
	case core.AccountDeposit:
		s.reason = core.ReasonCustomerDeposit
	case core.AccountSupply:
		s.reason = core.ReasonCustomerSupply
	case core.AccountLoan:
		s.reason = core.ReasonCustomerLoan
	case core.AccountCash, core.AccountBorrow, core.AccountTrading, core.AccountInterestIncome, core.AccountInterestExpense:
		panic(fmt.Sprintf("savings: %s is not a savings account", s.kind))
	default:
		panic(fmt.Sprintf("savings: unknown account kind %d", int(s.kind)))
	}

	return s
}

func (s *service) Kind() core.AccountKind {
	return s.kind
}

func (s *service) run(ctx context.Context, operation, customer, asset string, fn func(ctx context.Context) error) error {
	if customer == "" {
		return core.NewError(core.ErrInvalidCustomer, core.Params{"operation": operation})
	}

	if core.TraceIDFrom(ctx) == "" {
		ctx = core.WithTraceID(ctx, id.GenTraceID())
	}

	err := s.runner.Run(ctx, customer, []string{asset}, fn)

	name := s.kind.String() + "_" + operation
	outcome := "ok"
	if err != nil {
		outcome = core.CodeOf(err).Category().String()
		logger.FromContext(ctx).WithError(err).Infof("savings: %s by %s rejected", name, customer)
	}
	metrics.Ledger().ObserveOperation(name, outcome)
	return err
}

// Deposit pull amount from the customer and credit it to the account.
// A failed transfer rolls the postings back.
func (s *service) Deposit(ctx context.Context, customer, asset string, amount decimal.Decimal) error {
	if err := validAmount(amount); err != nil {
		return err
	}

	return s.run(ctx, "deposit", customer, asset, func(ctx context.Context) error {
		if s.token == nil {
			return core.NewError(core.ErrTokenNotConfigured, nil)
		}

		if _, err := s.accrual.AccrueInterest(ctx, customer, asset); err != nil {
			return err
		}

		if err := s.ledger.Debit(ctx, s.reason, core.AccountCash, customer, asset, amount); err != nil {
			return err
		}

		if err := s.ledger.Credit(ctx, s.reason, s.kind, customer, asset, amount); err != nil {
			return err
		}

		return s.token.TransferFrom(ctx, asset, customer, s.protocolID, amount, core.TraceIDFrom(ctx))
	})
}

// Withdraw debit amount from the account and pay it out to the customer.
// A failed transfer rolls the postings back.
func (s *service) Withdraw(ctx context.Context, customer, asset string, amount decimal.Decimal) error {
	if err := validAmount(amount); err != nil {
		return err
	}

	return s.run(ctx, "withdraw", customer, asset, func(ctx context.Context) error {
		if s.token == nil {
			return core.NewError(core.ErrTokenNotConfigured, nil)
		}

		if _, err := s.accrual.AccrueInterest(ctx, customer, asset); err != nil {
			return err
		}

		balance, err := s.ledger.GetBalance(ctx, customer, s.kind, asset)
		if err != nil {
			return err
		}

		if balance.LessThan(amount) {
			return core.NewError(core.ErrInsufficientBalance, core.Params{
				"asset":   asset,
				"balance": balance,
				"amount":  amount,
			})
		}

		if err := s.ledger.Debit(ctx, core.ReasonCustomerWithdrawal, s.kind, customer, asset, amount); err != nil {
			return err
		}

		if err := s.ledger.Credit(ctx, core.ReasonCustomerWithdrawal, core.AccountCash, customer, asset, amount); err != nil {
			return err
		}

		if s.guard != nil {
			if err := s.guard(ctx, customer, asset, amount); err != nil {
				return err
			}
		}

		return s.token.Transfer(ctx, asset, customer, amount, core.TraceIDFrom(ctx))
	})
}

// Balance balance including interest not posted yet
func (s *service) Balance(ctx context.Context, customer, asset string) (decimal.Decimal, error) {
	return s.accrual.BalanceWithInterest(ctx, customer, asset)
}

// BalanceAt balance including interest as of block
func (s *service) BalanceAt(ctx context.Context, customer, asset string, block int64) (decimal.Decimal, error) {
	return s.accrual.BalanceAt(ctx, customer, asset, block)
}

func validAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !number.IsIntegral(amount) {
		return core.NewError(core.ErrInvalidAmount, core.Params{"amount": amount})
	}

	return nil
}
