package ledger

import (
	"context"

	"lendledger/core"
	"lendledger/pkg/metrics"
	"lendledger/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type ledger struct {
	checkpoints core.CheckpointStore
	entries     core.EntryStore
	transactor  core.Transactor
	blocks      core.BlockService
}

// New new ledger.
//
// Every posting runs in a transaction of transactor, joining the caller's
// transaction when ctx carries one.
func New(
	checkpoints core.CheckpointStore,
	entries core.EntryStore,
	transactor core.Transactor,
	blocks core.BlockService,
) core.Ledger {
	return &ledger{
		checkpoints: checkpoints,
		entries:     entries,
		transactor:  transactor,
		blocks:      blocks,
	}
}

func (l *ledger) CurrentBlock(ctx context.Context) (int64, error) {
	return l.blocks.CurrentBlock(ctx)
}

func (l *ledger) TraceUsed(ctx context.Context, traceID string) (bool, error) {
	entries, err := l.entries.FindByTrace(ctx, traceID)
	if err != nil {
		return false, err
	}

	return len(entries) > 0, nil
}

func (l *ledger) Debit(ctx context.Context, reason core.Reason, kind core.AccountKind, customer, asset string, amount decimal.Decimal) error {
	return l.post(ctx, core.SideDebit, reason, kind, customer, asset, amount)
}

func (l *ledger) Credit(ctx context.Context, reason core.Reason, kind core.AccountKind, customer, asset string, amount decimal.Decimal) error {
	return l.post(ctx, core.SideCredit, reason, kind, customer, asset, amount)
}

func (l *ledger) post(ctx context.Context, side core.EntrySide, reason core.Reason, kind core.AccountKind, customer, asset string, amount decimal.Decimal) error {
	if !kind.Valid() {
		return core.NewError(core.ErrUnknownAccountKind, core.Params{"kind": int(kind)})
	}

	if amount.IsNegative() || !number.IsIntegral(amount) {
		return core.NewError(core.ErrInvalidAmount, core.Params{"amount": amount})
	}

	if amount.IsZero() {
		return nil
	}

	customer = owner(kind, customer)
	delta := amount
	if side != kind.NormalSide() {
		delta = amount.Neg()
	}

	block, err := l.blocks.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	key := core.CheckpointKey{Customer: customer, Kind: kind, Asset: asset}
	err = l.transactor.Tx(ctx, func(ctx context.Context) error {
		checkpoint, err := l.apply(ctx, key, delta, block)
		if err != nil {
			return err
		}

		if customer != core.ProtocolCustomer {
			if _, err := l.apply(ctx, key.Aggregate(), delta, block); err != nil {
				return err
			}
		}

		return l.entries.Create(ctx, &core.Entry{
			TraceID:  core.TraceIDFrom(ctx),
			Reason:   reason,
			Side:     side,
			Kind:     kind,
			Customer: customer,
			Asset:    asset,
			Amount:   amount,
			Balance:  checkpoint.Balance,
			Block:    block,
		})
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).WithField("side", side.String()).Debugf("ledger: %s %s %s %s %s", reason, kind, customer, asset, amount)
	metrics.Ledger().ObservePosting(side.String(), kind.String())
	return nil
}

func (l *ledger) apply(ctx context.Context, key core.CheckpointKey, delta decimal.Decimal, block int64) (*core.Checkpoint, error) {
	checkpoint, err := l.checkpoints.Find(ctx, key)
	if err != nil {
		return nil, err
	}

	balance := checkpoint.Balance.Add(delta)
	if balance.IsNegative() && !key.Kind.Signed() {
		return nil, core.NewError(core.ErrInsufficientBalance, core.Params{
			"account": key.String(),
			"balance": checkpoint.Balance,
			"amount":  delta.Abs(),
		})
	}

	checkpoint.Balance = balance
	checkpoint.Block = block
	if err := l.checkpoints.Save(ctx, checkpoint); err != nil {
		return nil, err
	}

	return checkpoint, nil
}

func (l *ledger) GetBalance(ctx context.Context, customer string, kind core.AccountKind, asset string) (decimal.Decimal, error) {
	checkpoint, err := l.GetCheckpoint(ctx, customer, kind, asset)
	if err != nil {
		return decimal.Zero, err
	}

	return checkpoint.Balance, nil
}

func (l *ledger) GetCheckpoint(ctx context.Context, customer string, kind core.AccountKind, asset string) (*core.Checkpoint, error) {
	if !kind.Valid() {
		return nil, core.NewError(core.ErrUnknownAccountKind, core.Params{"kind": int(kind)})
	}

	return l.checkpoints.Find(ctx, core.CheckpointKey{
		Customer: owner(kind, customer),
		Kind:     kind,
		Asset:    asset,
	})
}

func (l *ledger) GetBalanceSheetBalance(ctx context.Context, asset string, kind core.AccountKind) (decimal.Decimal, error) {
	return l.GetBalance(ctx, core.ProtocolCustomer, kind, asset)
}

// SaveCheckpoint move the checkpoint to the current block, balance unchanged
func (l *ledger) SaveCheckpoint(ctx context.Context, customer string, reason core.Reason, kind core.AccountKind, asset string) error {
	if !kind.Valid() {
		return core.NewError(core.ErrUnknownAccountKind, core.Params{"kind": int(kind)})
	}

	block, err := l.blocks.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	customer = owner(kind, customer)
	return l.transactor.Tx(ctx, func(ctx context.Context) error {
		checkpoint, err := l.checkpoints.Find(ctx, core.CheckpointKey{Customer: customer, Kind: kind, Asset: asset})
		if err != nil {
			return err
		}

		checkpoint.Block = block
		if err := l.checkpoints.Save(ctx, checkpoint); err != nil {
			return err
		}

		return l.entries.Create(ctx, &core.Entry{
			TraceID:  core.TraceIDFrom(ctx),
			Reason:   reason,
			Side:     kind.NormalSide(),
			Kind:     kind,
			Customer: customer,
			Asset:    asset,
			Amount:   decimal.Zero,
			Balance:  checkpoint.Balance,
			Block:    block,
		})
	})
}

// owner protocol scoped kinds always post to the protocol
func owner(kind core.AccountKind, customer string) string {
	if kind.CustomerScoped() {
		return customer
	}

	return core.ProtocolCustomer
}
