package interest

import (
	"context"

	"lendledger/core"
	"lendledger/internal/compound"
	"lendledger/pkg/metrics"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type service struct {
	rates          core.RateStore
	ledger         core.Ledger
	assets         core.AssetService
	blocksPerGroup int64
	blocksPerYear  int64
}

// New new interest rate snapshot engine
func New(
	rates core.RateStore,
	ledger core.Ledger,
	assets core.AssetService,
	cfg core.Interest,
) core.InterestService {
	s := &service{
		rates:          rates,
		ledger:         ledger,
		assets:         assets,
		blocksPerGroup: cfg.BlockUnitsPerGroup,
		blocksPerYear:  cfg.BlockUnitsPerYear,
	}

	if s.blocksPerGroup <= 0 {
		s.blocksPerGroup = compound.BlocksPerGroup
	}

	if s.blocksPerYear <= 0 {
		s.blocksPerYear = compound.BlocksPerYear
	}

	return s
}

func (s *service) CurrentBlock(ctx context.Context) (int64, error) {
	return s.ledger.CurrentBlock(ctx)
}

func (s *service) GroupOf(block int64) int64 {
	return compound.GroupOf(block, s.blocksPerGroup)
}

// SnapshotCurrentRate record rate for the current group unless one is recorded already
func (s *service) SnapshotCurrentRate(ctx context.Context, asset string, side core.RateSide, rate decimal.Decimal) (bool, error) {
	if rate.IsNegative() {
		return false, core.NewError(core.ErrInvalidAmount, core.Params{"asset": asset, "rate": rate})
	}

	block, err := s.CurrentBlock(ctx)
	if err != nil {
		return false, err
	}

	snapshot := &core.RateSnapshot{
		Asset: asset,
		Side:  side,
		Group: s.GroupOf(block),
		Rate:  rate.Truncate(0),
		Block: block,
	}

	created, err := s.rates.Create(ctx, snapshot)
	if err != nil {
		return false, err
	}

	metrics.Ledger().ObserveSnapshot(side.String(), created)
	if created {
		logger.FromContext(ctx).WithField("asset", asset).Debugf("interest: %s rate %s recorded for group %d", side, snapshot.Rate, snapshot.Group)
	}

	return created, nil
}

// SnapshotMarket snapshot both rates of asset from the current balance sheet
func (s *service) SnapshotMarket(ctx context.Context, asset string) error {
	model, cash, borrows, err := s.market(ctx, asset)
	if err != nil {
		return err
	}

	if _, err := s.SnapshotCurrentRate(ctx, asset, core.RateSideBorrow, model.ScaledBorrowRatePerGroup(cash, borrows)); err != nil {
		return err
	}

	_, err = s.SnapshotCurrentRate(ctx, asset, core.RateSideSupply, model.ScaledSupplyRatePerGroup(cash, borrows))
	return err
}

func (s *service) ScaledBorrowRatePerGroup(ctx context.Context, asset string) (decimal.Decimal, error) {
	model, cash, borrows, err := s.market(ctx, asset)
	if err != nil {
		return decimal.Zero, err
	}

	return model.ScaledBorrowRatePerGroup(cash, borrows), nil
}

func (s *service) ScaledSupplyRatePerGroup(ctx context.Context, asset string) (decimal.Decimal, error) {
	model, cash, borrows, err := s.market(ctx, asset)
	if err != nil {
		return decimal.Zero, err
	}

	return model.ScaledSupplyRatePerGroup(cash, borrows), nil
}

func (s *service) market(ctx context.Context, asset string) (compound.RateModel, decimal.Decimal, decimal.Decimal, error) {
	a, err := s.assets.Find(ctx, asset)
	if err != nil {
		return compound.RateModel{}, decimal.Zero, decimal.Zero, err
	}

	cash, err := s.ledger.GetBalanceSheetBalance(ctx, asset, core.AccountCash)
	if err != nil {
		return compound.RateModel{}, decimal.Zero, decimal.Zero, err
	}

	borrows, err := s.ledger.GetBalanceSheetBalance(ctx, asset, core.AccountBorrow)
	if err != nil {
		return compound.RateModel{}, decimal.Zero, decimal.Zero, err
	}

	model := compound.RateModel{
		MinimumBorrowRateBPS: a.MinimumBorrowRateBPS,
		BorrowRateSlopeBPS:   a.BorrowRateSlopeBPS,
		SupplyRateSlopeBPS:   a.SupplyRateSlopeBPS,
		BlockUnitsPerGroup:   s.blocksPerGroup,
		BlockUnitsPerYear:    s.blocksPerYear,
	}

	return model, cash, borrows, nil
}

// GetCurrentBalance compound principal checkpointed at fromBlock up to now
func (s *service) GetCurrentBalance(ctx context.Context, asset string, side core.RateSide, fromBlock int64, principal decimal.Decimal) (decimal.Decimal, error) {
	block, err := s.CurrentBlock(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return s.GetBalanceAt(ctx, asset, side, fromBlock, principal, block)
}

// GetBalanceAt compound principal through every recorded group after the
// checkpoint's group up to and including the group of atBlock.
// Groups with no recorded rate earn nothing.
func (s *service) GetBalanceAt(ctx context.Context, asset string, side core.RateSide, fromBlock int64, principal decimal.Decimal, atBlock int64) (decimal.Decimal, error) {
	from, to := s.GroupOf(fromBlock), s.GroupOf(atBlock)
	if principal.IsZero() || to <= from {
		return principal, nil
	}

	snapshots, err := s.rates.List(ctx, asset, side, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	rates := make([]decimal.Decimal, 0, len(snapshots))
	for _, snapshot := range snapshots {
		rates = append(rates, snapshot.Rate)
	}

	return compound.Compound(principal, rates), nil
}
