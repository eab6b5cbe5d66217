package borrower

import (
	"context"

	"lendledger/core"
	"lendledger/pkg/id"
	"lendledger/pkg/lockmap"
	"lendledger/pkg/metrics"
	"lendledger/pkg/number"
	"lendledger/service/runner"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Service borrow product
type Service struct {
	ledger     core.Ledger
	runner     *runner.Runner
	borrows    core.AccrualService
	supplies   core.AccrualService
	oracle     core.PriceOracle
	storage    core.BorrowStorage
	protocolID string
}

// New new borrower.
//
// borrows and supplies accrue the Borrow and Supply accounts. oracle and
// storage may be nil, operations that need them then fail with a
// configuration error.
func New(
	ledger core.Ledger,
	transactor core.Transactor,
	borrows core.AccrualService,
	supplies core.AccrualService,
	oracle core.PriceOracle,
	storage core.BorrowStorage,
	locks *lockmap.Lockmap,
	protocolID string,
) *Service {
	return &Service{
		ledger:     ledger,
		runner:     runner.New(ledger, transactor, locks),
		borrows:    borrows,
		supplies:   supplies,
		oracle:     oracle,
		storage:    storage,
		protocolID: protocolID,
	}
}

func (s *Service) run(ctx context.Context, operation, customer string, assets []string, fn func(ctx context.Context) error) error {
	if customer == "" {
		return core.NewError(core.ErrInvalidCustomer, core.Params{"operation": operation})
	}

	if core.TraceIDFrom(ctx) == "" {
		ctx = core.WithTraceID(ctx, id.GenTraceID())
	}

	err := s.runner.Run(ctx, customer, assets, fn)

	outcome := "ok"
	if err != nil {
		outcome = core.CodeOf(err).Category().String()
		logger.FromContext(ctx).WithError(err).Infof("borrower: %s by %s rejected", operation, customer)
	}
	metrics.Ledger().ObserveOperation(operation, outcome)
	return err
}

func (s *Service) accrue(ctx context.Context, customer string, assets ...string) error {
	for _, asset := range assets {
		if _, err := s.borrows.AccrueInterest(ctx, customer, asset); err != nil {
			return err
		}

		if _, err := s.supplies.AccrueInterest(ctx, customer, asset); err != nil {
			return err
		}
	}

	return nil
}

// Borrow move amount into the customer's supply against a new borrow
func (s *Service) Borrow(ctx context.Context, customer, asset string, amount decimal.Decimal) error {
	if err := validAmount(amount); err != nil {
		return err
	}

	return s.run(ctx, "borrow", customer, []string{asset}, func(ctx context.Context) error {
		if s.storage == nil {
			return core.NewError(core.ErrBorrowStorageNotConfigured, nil)
		}

		borrowable, err := s.storage.BorrowableAsset(ctx, asset)
		if err != nil {
			return err
		}

		if !borrowable {
			return core.NewError(core.ErrAssetNotBorrowable, core.Params{"asset": asset})
		}

		if err := s.accrue(ctx, customer, asset); err != nil {
			return err
		}

		if err := s.requireRatio(ctx, customer, asset, amount); err != nil {
			return err
		}

		if err := s.ledger.Debit(ctx, core.ReasonCustomerBorrow, core.AccountBorrow, customer, asset, amount); err != nil {
			return err
		}

		return s.ledger.Credit(ctx, core.ReasonCustomerBorrow, core.AccountSupply, customer, asset, amount)
	})
}

// RepayBorrow repay up to amount out of the customer's supply, returns the amount repaid
func (s *Service) RepayBorrow(ctx context.Context, customer, asset string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := validAmount(amount); err != nil {
		return decimal.Zero, err
	}

	var repaid decimal.Decimal
	err := s.run(ctx, "repay_borrow", customer, []string{asset}, func(ctx context.Context) error {
		if err := s.accrue(ctx, customer, asset); err != nil {
			return err
		}

		borrow, err := s.ledger.GetBalance(ctx, customer, core.AccountBorrow, asset)
		if err != nil {
			return err
		}

		if !borrow.IsPositive() {
			return core.NewError(core.ErrBorrowNotFound, core.Params{"asset": asset})
		}

		repaid = decimal.Min(amount, borrow)
		supply, err := s.ledger.GetBalance(ctx, customer, core.AccountSupply, asset)
		if err != nil {
			return err
		}

		if supply.LessThan(repaid) {
			return core.NewError(core.ErrInsufficientBalance, core.Params{
				"asset":  asset,
				"supply": supply,
				"amount": repaid,
			})
		}

		if err := s.ledger.Credit(ctx, core.ReasonCustomerPayBorrow, core.AccountBorrow, customer, asset, repaid); err != nil {
			return err
		}

		return s.ledger.Debit(ctx, core.ReasonCustomerPayBorrow, core.AccountSupply, customer, asset, repaid)
	})
	if err != nil {
		return decimal.Zero, err
	}

	return repaid, nil
}

// ConvertCollateral seize amountInPaymentAsset of the customer's supply and
// repay the oracle equivalent of borrowAsset. Allowed only while the account
// is under collateralized. Returns the borrow amount repaid.
func (s *Service) ConvertCollateral(ctx context.Context, customer, paymentAsset string, amountInPaymentAsset decimal.Decimal, borrowAsset string) (decimal.Decimal, error) {
	if paymentAsset == borrowAsset {
		return decimal.Zero, core.NewError(core.ErrSameAsset, core.Params{"asset": paymentAsset})
	}

	if err := validAmount(amountInPaymentAsset); err != nil {
		return decimal.Zero, err
	}

	var converted decimal.Decimal
	err := s.run(ctx, "convert_collateral", customer, []string{paymentAsset, borrowAsset}, func(ctx context.Context) error {
		if err := s.requireOracle(ctx); err != nil {
			return err
		}

		if err := s.accrue(ctx, customer, paymentAsset, borrowAsset); err != nil {
			return err
		}

		borrow, err := s.ledger.GetBalance(ctx, customer, core.AccountBorrow, borrowAsset)
		if err != nil {
			return err
		}

		if !borrow.IsPositive() {
			return core.NewError(core.ErrBorrowNotFound, core.Params{"asset": borrowAsset})
		}

		liquidity, healthy, err := s.health(ctx, customer)
		if err != nil {
			return err
		}

		if healthy {
			return core.NewError(core.ErrCollateralRatioValid, core.Params{
				"value_equivalent":         liquidity.ValueEquivalent,
				"minimum_collateral_ratio": liquidity.MinimumCollateralRatio,
			})
		}

		converted, err = s.oracle.GetConvertedAssetValue(ctx, paymentAsset, amountInPaymentAsset, borrowAsset)
		if err != nil {
			return err
		}

		if !converted.IsPositive() {
			return core.NewError(core.ErrInvalidAmount, core.Params{
				"amount":    amountInPaymentAsset,
				"converted": converted,
			})
		}

		if converted.GreaterThan(borrow) {
			return core.NewError(core.ErrConvertExceedsBorrow, core.Params{
				"asset":     borrowAsset,
				"borrow":    borrow,
				"converted": converted,
			})
		}

		if err := s.ledger.Debit(ctx, core.ReasonCollateralPayBorrow, core.AccountSupply, customer, paymentAsset, amountInPaymentAsset); err != nil {
			return err
		}

		if err := s.ledger.Credit(ctx, core.ReasonCollateralPayBorrow, core.AccountTrading, customer, paymentAsset, amountInPaymentAsset); err != nil {
			return err
		}

		if err := s.ledger.Credit(ctx, core.ReasonCollateralPayBorrow, core.AccountBorrow, customer, borrowAsset, converted); err != nil {
			return err
		}

		return s.ledger.Debit(ctx, core.ReasonCollateralPayBorrow, core.AccountTrading, customer, borrowAsset, converted)
	})
	if err != nil {
		return decimal.Zero, err
	}

	return converted, nil
}

// BorrowBalance borrow including interest not posted yet
func (s *Service) BorrowBalance(ctx context.Context, customer, asset string) (decimal.Decimal, error) {
	return s.borrows.BalanceWithInterest(ctx, customer, asset)
}

// AccountLiquidity value equivalent of every oracle asset the customer holds
func (s *Service) AccountLiquidity(ctx context.Context, customer string) (*core.AccountLiquidity, error) {
	liquidity, _, err := s.liquidity(ctx, customer)
	return liquidity, err
}

// AccountHealth liquidity and whether outstanding borrows are covered at the minimum ratio
func (s *Service) AccountHealth(ctx context.Context, customer string) (*core.AccountLiquidity, bool, error) {
	return s.health(ctx, customer)
}

// CollateralRatioValid reports whether the customer may borrow borrowAmount of borrowAsset:
//
//	valueEquivalent * minimumCollateralRatio >= value(borrowAsset, borrowAmount)
func (s *Service) CollateralRatioValid(ctx context.Context, customer, borrowAsset string, borrowAmount decimal.Decimal) (bool, error) {
	_, _, valid, err := s.resulting(ctx, customer, borrowAsset, borrowAmount)
	return valid, err
}

// WithdrawGuard rejects supply withdrawals that leave the customer under collateralized
func (s *Service) WithdrawGuard() core.WithdrawGuard {
	return func(ctx context.Context, customer, asset string, amount decimal.Decimal) error {
		borrowing, err := s.borrowing(ctx, customer)
		if err != nil || !borrowing {
			return err
		}

		liquidity, healthy, err := s.health(ctx, customer)
		if err != nil {
			return err
		}

		if !healthy {
			return core.NewError(core.ErrInvalidCollateralRatio, core.Params{
				"asset":                    asset,
				"amount":                   amount,
				"value_equivalent":         liquidity.ValueEquivalent,
				"minimum_collateral_ratio": liquidity.MinimumCollateralRatio,
			})
		}

		return nil
	}
}

func (s *Service) borrowing(ctx context.Context, customer string) (bool, error) {
	if s.oracle == nil {
		return false, core.NewError(core.ErrOracleNotConfigured, nil)
	}

	assets, err := s.oracle.Assets(ctx)
	if err != nil {
		return false, err
	}

	for _, asset := range assets {
		borrow, err := s.ledger.GetBalance(ctx, customer, core.AccountBorrow, asset)
		if err != nil {
			return false, err
		}

		if borrow.IsPositive() {
			return true, nil
		}
	}

	return false, nil
}

func (s *Service) requireRatio(ctx context.Context, customer, asset string, amount decimal.Decimal) error {
	if err := s.requireOracle(ctx); err != nil {
		return err
	}

	liquidity, required, valid, err := s.resulting(ctx, customer, asset, amount)
	if err != nil {
		return err
	}

	if !valid {
		return core.NewError(core.ErrInvalidCollateralRatio, core.Params{
			"asset":                    asset,
			"amount":                   amount,
			"required":                 required,
			"value_equivalent":         liquidity.ValueEquivalent,
			"minimum_collateral_ratio": liquidity.MinimumCollateralRatio,
		})
	}

	return nil
}

func (s *Service) resulting(ctx context.Context, customer, asset string, amount decimal.Decimal) (*core.AccountLiquidity, decimal.Decimal, bool, error) {
	liquidity, _, err := s.liquidity(ctx, customer)
	if err != nil {
		return nil, decimal.Zero, false, err
	}

	required, err := s.oracle.GetAssetValue(ctx, asset, amount)
	if err != nil {
		return nil, decimal.Zero, false, err
	}

	valid := liquidity.ValueEquivalent.Mul(liquidity.MinimumCollateralRatio).GreaterThanOrEqual(required)
	return liquidity, required, valid, nil
}

func (s *Service) requireOracle(ctx context.Context) error {
	if s.oracle == nil {
		return core.NewError(core.ErrOracleNotConfigured, nil)
	}

	allowed, err := s.oracle.Allowed(ctx)
	if err != nil {
		return err
	}

	if allowed != s.protocolID {
		return core.NewError(core.ErrOracleNotAllowed, core.Params{"allowed": allowed, "protocol": s.protocolID})
	}

	return nil
}

// health reports whether valueEquivalent * minimumCollateralRatio covers the
// value of every outstanding borrow
func (s *Service) health(ctx context.Context, customer string) (*core.AccountLiquidity, bool, error) {
	liquidity, borrowValue, err := s.liquidity(ctx, customer)
	if err != nil {
		return nil, false, err
	}

	healthy := liquidity.ValueEquivalent.Mul(liquidity.MinimumCollateralRatio).GreaterThanOrEqual(borrowValue)
	return liquidity, healthy, nil
}

// liquidity walks every oracle asset, returning the account liquidity and the
// total borrow value
func (s *Service) liquidity(ctx context.Context, customer string) (*core.AccountLiquidity, decimal.Decimal, error) {
	if s.oracle == nil {
		return nil, decimal.Zero, core.NewError(core.ErrOracleNotConfigured, nil)
	}

	if s.storage == nil {
		return nil, decimal.Zero, core.NewError(core.ErrBorrowStorageNotConfigured, nil)
	}

	ratio, err := s.storage.MinimumCollateralRatio(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}

	assets, err := s.oracle.Assets(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}

	var equivalent, borrowValue decimal.Decimal
	for _, asset := range assets {
		supply, err := s.supplies.BalanceWithInterest(ctx, customer, asset)
		if err != nil {
			return nil, decimal.Zero, err
		}

		borrow, err := s.borrows.BalanceWithInterest(ctx, customer, asset)
		if err != nil {
			return nil, decimal.Zero, err
		}

		supplyValue, err := s.oracle.GetAssetValue(ctx, asset, supply)
		if err != nil {
			return nil, decimal.Zero, err
		}

		value, err := s.oracle.GetAssetValue(ctx, asset, borrow)
		if err != nil {
			return nil, decimal.Zero, err
		}

		equivalent = equivalent.Add(supplyValue).Sub(value)
		borrowValue = borrowValue.Add(value)
	}

	return &core.AccountLiquidity{
		Customer:               customer,
		ValueEquivalent:        equivalent,
		MinimumCollateralRatio: ratio,
	}, borrowValue, nil
}

func validAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !number.IsIntegral(amount) {
		return core.NewError(core.ErrInvalidAmount, core.Params{"amount": amount})
	}

	return nil
}
