package runner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"lendledger/core"
	"lendledger/pkg/lockmap"
	"lendledger/service/block"
	"lendledger/service/ledger"
	"lendledger/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// conflicting fails the first n transactions with a concurrent update
type conflicting struct {
	core.Transactor
	n     int
	calls int
}

func (c *conflicting) Tx(ctx context.Context, fn func(ctx context.Context) error) error {
	c.calls++
	if c.calls <= c.n {
		return c.Transactor.Tx(ctx, func(ctx context.Context) error {
			if err := fn(ctx); err != nil {
				return err
			}

			return core.NewError(core.ErrConcurrentUpdate, core.Params{"attempt": c.calls})
		})
	}

	return c.Transactor.Tx(ctx, fn)
}

func newLedger() (*memory.Store, core.Ledger) {
	store := memory.New()
	return store, ledger.New(store.Checkpoints(), store.Entries(), store, block.NewManual(10))
}

func deposit(l core.Ledger, amount int64) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := l.Debit(ctx, core.ReasonCustomerDeposit, core.AccountCash, "alice", "btc", decimal.NewFromInt(amount)); err != nil {
			return err
		}

		return l.Credit(ctx, core.ReasonCustomerDeposit, core.AccountDeposit, "alice", "btc", decimal.NewFromInt(amount))
	}
}

func balance(t *testing.T, l core.Ledger, customer string, kind core.AccountKind) string {
	b, err := l.GetBalance(context.Background(), customer, kind, "btc")
	require.NoError(t, err)
	return b.String()
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"customer:alice", "trace:t1", "asset:btc", "asset:usd"}, Keys("alice", "t1", "btc", "usd"))
	assert.Equal(t, []string{"customer:alice", "trace:t1"}, Keys("alice", "t1"))
}

func TestRunRefusesUsedTrace(t *testing.T) {
	store, l := newLedger()
	r := New(l, store, lockmap.New(4))
	ctx := core.WithTraceID(context.Background(), "t1")

	require.NoError(t, r.Run(ctx, "alice", []string{"btc"}, deposit(l, 10)))

	err := r.Run(ctx, "alice", []string{"btc"}, deposit(l, 10))
	assert.True(t, errors.Is(err, core.ErrTraceUsed))
	assert.Equal(t, "10", balance(t, l, "alice", core.AccountDeposit))

	require.NoError(t, r.Run(core.WithTraceID(context.Background(), "t2"), "alice", []string{"btc"}, deposit(l, 5)))
	assert.Equal(t, "15", balance(t, l, "alice", core.AccountDeposit))
}

func TestRunRequiresTrace(t *testing.T) {
	store, l := newLedger()
	r := New(l, store, lockmap.New(4))

	err := r.Run(context.Background(), "alice", nil, deposit(l, 1))
	assert.True(t, errors.Is(err, core.ErrInvalidArgument))
}

func TestRunRetriesConcurrentUpdate(t *testing.T) {
	store, l := newLedger()
	tx := &conflicting{Transactor: store, n: 2}
	r := New(l, tx, lockmap.New(4))

	require.NoError(t, r.Run(core.WithTraceID(context.Background(), "t1"), "alice", []string{"btc"}, deposit(l, 10)))
	assert.Equal(t, 3, tx.calls)
	// the conflicting attempts were rolled back
	assert.Equal(t, "10", balance(t, l, "alice", core.AccountDeposit))
	assert.Equal(t, "10", balance(t, l, core.ProtocolCustomer, core.AccountCash))
}

func TestRunGivesUpAfterRetries(t *testing.T) {
	store, l := newLedger()
	tx := &conflicting{Transactor: store, n: DefaultRetries + 1}
	r := New(l, tx, lockmap.New(4))

	err := r.Run(core.WithTraceID(context.Background(), "t1"), "alice", []string{"btc"}, deposit(l, 10))
	assert.True(t, errors.Is(err, core.ErrConcurrentUpdate))
	assert.Equal(t, DefaultRetries+1, tx.calls)
	assert.Equal(t, "0", balance(t, l, "alice", core.AccountDeposit))
}

func TestRunOtherErrorsNotRetried(t *testing.T) {
	store, l := newLedger()
	tx := &conflicting{Transactor: store}
	r := New(l, tx, lockmap.New(4))

	err := r.Run(core.WithTraceID(context.Background(), "t1"), "alice", nil, func(ctx context.Context) error {
		return core.NewError(core.ErrInsufficientBalance, nil)
	})
	assert.True(t, errors.Is(err, core.ErrInsufficientBalance))
	assert.Equal(t, 1, tx.calls)
}

func TestConcurrentCustomersShareAggregate(t *testing.T) {
	store, l := newLedger()
	locks := lockmap.New(4)
	r := New(l, store, locks)

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			customer := []string{"alice", "bob"}[i%2]
			ctx := core.WithTraceID(context.Background(), customer+string(rune('a'+i)))
			errs[i] = r.Run(ctx, customer, []string{"btc"}, func(ctx context.Context) error {
				return l.Credit(ctx, core.ReasonCustomerDeposit, core.AccountDeposit, customer, "btc", decimal.NewFromInt(1))
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	total, err := l.GetBalanceSheetBalance(context.Background(), "btc", core.AccountDeposit)
	require.NoError(t, err)
	assert.Equal(t, "20", total.String())
}
