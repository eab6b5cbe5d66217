package borrower

import (
	"context"
	"errors"
	"testing"

	"lendledger/core"
	"lendledger/internal/compound"
	"lendledger/pkg/lockmap"
	"lendledger/service/accrual"
	"lendledger/service/block"
	"lendledger/service/interest"
	"lendledger/service/ledger"
	"lendledger/service/market"
	"lendledger/service/oracle"
	"lendledger/service/savings"
	"lendledger/service/token"
	"lendledger/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const protocol = "ledger"

type fixture struct {
	store    *memory.Store
	ledger   core.Ledger
	borrower *Service
	supplier core.SavingsService
	loaner   core.SavingsService
	vault    *token.Vault
}

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// usd has no decimals and is worth 1, btc has 2 decimals and is worth 50
func newFixture(t *testing.T, allowed string) *fixture {
	ctx := context.Background()
	store := memory.New()
	clock := block.NewManual(10)
	l := ledger.New(store.Checkpoints(), store.Entries(), store, clock)

	mkt := market.New(&core.Config{
		Assets: []*core.Asset{
			{ID: "usd", Decimals: 0},
			{ID: "btc", Decimals: 2, Borrowable: true, MinimumBorrowRateBPS: 200, BorrowRateSlopeBPS: 1000},
		},
		Borrow: core.Borrow{MinimumCollateralRatio: decimal.RequireFromString("1.5")},
	})

	rates := interest.New(store.Rates(), l, mkt, core.Interest{BlockUnitsPerGroup: 240, BlockUnitsPerYear: compound.BlocksPerYear})
	borrows := accrual.New(l, rates, store, core.AccountBorrow)
	supplies := accrual.New(l, rates, store, core.AccountSupply)
	loans := accrual.New(l, rates, store, core.AccountLoan)

	prices := store.Prices()
	require.NoError(t, prices.Create(ctx, &core.Price{AssetID: "usd", Block: 1, Price: d(1)}))
	require.NoError(t, prices.Create(ctx, &core.Price{AssetID: "btc", Block: 1, Price: d(50)}))
	o := oracle.New(prices, mkt, core.PriceOracleConfig{Allowed: allowed})

	locks := lockmap.New(16)
	b := New(l, store, borrows, supplies, o, mkt, locks, protocol)
	vault := token.NewVault(protocol)

	return &fixture{
		store:    store,
		ledger:   l,
		borrower: b,
		supplier: savings.New(l, store, supplies, vault, locks, protocol, b.WithdrawGuard()),
		loaner:   savings.New(l, store, loans, vault, locks, protocol, nil),
		vault:    vault,
	}
}

func (f *fixture) supply(t *testing.T, customer, asset string, amount int64) {
	f.vault.Mint(customer, asset, d(amount))
	require.NoError(t, f.supplier.Deposit(context.Background(), customer, asset, d(amount)))
}

func (f *fixture) balance(t *testing.T, customer string, kind core.AccountKind, asset string) string {
	b, err := f.ledger.GetBalance(context.Background(), customer, kind, asset)
	require.NoError(t, err)
	return b.String()
}

func TestBorrowRatioBoundary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, protocol)
	f.supply(t, "alice", "usd", 100)

	// 301 units of btc are worth 150.5 > 100 * 1.5
	err := f.borrower.Borrow(ctx, "alice", "btc", d(301))
	assert.True(t, errors.Is(err, core.ErrInvalidCollateralRatio))
	assert.Equal(t, "0", f.balance(t, "alice", core.AccountBorrow, "btc"))

	valid, err := f.borrower.CollateralRatioValid(ctx, "alice", "btc", d(300))
	require.NoError(t, err)
	assert.True(t, valid)

	// exactly 150, accepted at equality
	require.NoError(t, f.borrower.Borrow(ctx, "alice", "btc", d(300)))
	assert.Equal(t, "300", f.balance(t, "alice", core.AccountBorrow, "btc"))
	assert.Equal(t, "300", f.balance(t, "alice", core.AccountSupply, "btc"))

	liquidity, err := f.borrower.AccountLiquidity(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "100", liquidity.ValueEquivalent.String())

	// each borrow is weighed on its own value against the net position
	require.NoError(t, f.borrower.Borrow(ctx, "alice", "btc", d(300)))
	assert.Equal(t, "600", f.balance(t, "alice", core.AccountBorrow, "btc"))

	err = f.borrower.Borrow(ctx, "alice", "btc", d(301))
	assert.True(t, errors.Is(err, core.ErrInvalidCollateralRatio))
	assert.Equal(t, "600", f.balance(t, "alice", core.AccountBorrow, "btc"))
}

func TestSecondBorrowWithinAllowance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, protocol)
	f.supply(t, "alice", "usd", 100)

	// 200 units of btc are worth 100, below 100 * 1.5
	require.NoError(t, f.borrower.Borrow(ctx, "alice", "btc", d(200)))
	require.NoError(t, f.borrower.Borrow(ctx, "alice", "btc", d(200)))
	assert.Equal(t, "400", f.balance(t, "alice", core.AccountBorrow, "btc"))
}

func TestBorrowRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, protocol)
	f.supply(t, "alice", "usd", 100)

	err := f.borrower.Borrow(ctx, "alice", "usd", d(1))
	assert.True(t, errors.Is(err, core.ErrAssetNotBorrowable))

	err = f.borrower.Borrow(ctx, "alice", "btc", d(0))
	assert.True(t, errors.Is(err, core.ErrInvalidAmount))

	err = f.borrower.Borrow(ctx, "", "btc", d(1))
	assert.True(t, errors.Is(err, core.ErrInvalidCustomer))
}

func TestOracleNotAllowed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "someone-else")
	f.supply(t, "alice", "usd", 100)

	err := f.borrower.Borrow(ctx, "alice", "btc", d(1))
	assert.True(t, errors.Is(err, core.ErrOracleNotAllowed))
	assert.Equal(t, core.CategoryConfiguration, core.CodeOf(err).Category())
}

func TestRepayBorrow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, protocol)
	f.supply(t, "alice", "usd", 100)

	_, err := f.borrower.RepayBorrow(ctx, "alice", "btc", d(10))
	assert.True(t, errors.Is(err, core.ErrBorrowNotFound))

	require.NoError(t, f.borrower.Borrow(ctx, "alice", "btc", d(100)))

	repaid, err := f.borrower.RepayBorrow(ctx, "alice", "btc", d(150))
	require.NoError(t, err)
	assert.Equal(t, "100", repaid.String())
	assert.Equal(t, "0", f.balance(t, "alice", core.AccountBorrow, "btc"))
	assert.Equal(t, "0", f.balance(t, "alice", core.AccountSupply, "btc"))

	total, err := f.ledger.GetBalanceSheetBalance(ctx, "btc", core.AccountBorrow)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

// carol borrows 1 btc against 100 usd and takes the btc out
func (f *fixture) underwater(t *testing.T) {
	ctx := context.Background()
	f.vault.Mint("bob", "btc", d(1000))
	require.NoError(t, f.loaner.Deposit(ctx, "bob", "btc", d(1000)))

	f.supply(t, "carol", "usd", 100)
	require.NoError(t, f.borrower.Borrow(ctx, "carol", "btc", d(100)))
	require.NoError(t, f.supplier.Withdraw(ctx, "carol", "btc", d(100)))
	assert.Equal(t, "100", f.vault.BalanceOf("carol", "btc").String())
}

func TestSupplierWithdrawGuard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, protocol)
	f.underwater(t)

	err := f.supplier.Withdraw(ctx, "carol", "usd", d(100))
	assert.True(t, errors.Is(err, core.ErrInvalidCollateralRatio))
	assert.Equal(t, "100", f.balance(t, "carol", core.AccountSupply, "usd"))
	assert.Equal(t, "0", f.vault.BalanceOf("carol", "usd").String())
}

func TestConvertCollateral(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, protocol)
	f.underwater(t)

	// 50 * 1.5 covers the 50 borrowed
	_, err := f.borrower.ConvertCollateral(ctx, "carol", "usd", d(10), "btc")
	assert.True(t, errors.Is(err, core.ErrCollateralRatioValid))

	require.NoError(t, f.store.Prices().Create(ctx, &core.Price{AssetID: "btc", Block: 2, Price: d(80)}))

	_, err = f.borrower.ConvertCollateral(ctx, "carol", "btc", d(10), "btc")
	assert.True(t, errors.Is(err, core.ErrSameAsset))

	_, err = f.borrower.ConvertCollateral(ctx, "carol", "usd", d(0), "btc")
	assert.True(t, errors.Is(err, core.ErrInvalidAmount))

	// 100 usd buys 125 units, more than the 100 borrowed
	_, err = f.borrower.ConvertCollateral(ctx, "carol", "usd", d(100), "btc")
	assert.True(t, errors.Is(err, core.ErrConvertExceedsBorrow))
	assert.Equal(t, "100", f.balance(t, "carol", core.AccountBorrow, "btc"))

	converted, err := f.borrower.ConvertCollateral(ctx, "carol", "usd", d(40), "btc")
	require.NoError(t, err)
	assert.Equal(t, "50", converted.String())

	assert.Equal(t, "50", f.balance(t, "carol", core.AccountBorrow, "btc"))
	assert.Equal(t, "60", f.balance(t, "carol", core.AccountSupply, "usd"))
	assert.Equal(t, "40", f.balance(t, "carol", core.AccountTrading, "usd"))
	assert.Equal(t, "-50", f.balance(t, "carol", core.AccountTrading, "btc"))

	entries, err := f.store.Entries().List(ctx, 0, 1000)
	require.NoError(t, err)
	var conversions int
	for _, e := range entries {
		if e.Reason == core.ReasonCollateralPayBorrow {
			conversions++
		}
	}
	assert.Equal(t, 4, conversions)
}

func TestConvertWithoutBorrow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, protocol)
	f.supply(t, "alice", "usd", 100)

	_, err := f.borrower.ConvertCollateral(ctx, "alice", "usd", d(10), "btc")
	assert.True(t, errors.Is(err, core.ErrBorrowNotFound))
}
