package token

import (
	"context"
	"sync"

	"lendledger/core"

	"github.com/shopspring/decimal"
)

type vaultKey struct {
	owner string
	asset string
}

// Vault in-process token balances.
//
// A trace id moves tokens once, a replayed trace id is refused.
type Vault struct {
	mu        sync.Mutex
	protocol  string
	balances  map[vaultKey]decimal.Decimal
	transfers map[string]*core.Transfer
	history   []*core.Transfer
}

// NewVault new vault owned by protocol
func NewVault(protocol string) *Vault {
	return &Vault{
		protocol:  protocol,
		balances:  map[vaultKey]decimal.Decimal{},
		transfers: map[string]*core.Transfer{},
	}
}

// Mint credit owner with amount of asset out of thin air
func (v *Vault) Mint(owner, asset string, amount decimal.Decimal) {
	v.mu.Lock()
	defer v.mu.Unlock()

	k := vaultKey{owner, asset}
	v.balances[k] = v.balances[k].Add(amount)
}

// BalanceOf balance of owner
func (v *Vault) BalanceOf(owner, asset string) decimal.Decimal {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.balances[vaultKey{owner, asset}]
}

// Transfers every transfer applied, oldest first
func (v *Vault) Transfers() []*core.Transfer {
	v.mu.Lock()
	defer v.mu.Unlock()

	return append([]*core.Transfer(nil), v.history...)
}

// TransferFrom implements core.Token
func (v *Vault) TransferFrom(ctx context.Context, asset, from, to string, amount decimal.Decimal, traceID string) error {
	return v.move(asset, from, to, amount, traceID)
}

// Transfer implements core.Token
func (v *Vault) Transfer(ctx context.Context, asset, to string, amount decimal.Decimal, traceID string) error {
	return v.move(asset, v.protocol, to, amount, traceID)
}

func (v *Vault) move(asset, from, to string, amount decimal.Decimal, traceID string) error {
	if !amount.IsPositive() {
		return core.NewError(core.ErrInvalidAmount, core.Params{"amount": amount})
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if traceID != "" {
		if _, ok := v.transfers[traceID]; ok {
			return core.NewError(core.ErrTraceUsed, core.Params{"trace_id": traceID})
		}
	}

	src := vaultKey{from, asset}
	if v.balances[src].LessThan(amount) {
		return core.NewError(core.ErrTransferFailed, core.Params{
			"from":    from,
			"asset":   asset,
			"balance": v.balances[src],
			"amount":  amount,
		})
	}

	dst := vaultKey{to, asset}
	v.balances[src] = v.balances[src].Sub(amount)
	v.balances[dst] = v.balances[dst].Add(amount)

	transfer := &core.Transfer{
		TraceID:    traceID,
		OpponentID: to,
		AssetID:    asset,
		Amount:     amount,
		Memo:       from,
	}
	if traceID != "" {
		v.transfers[traceID] = transfer
	}
	v.history = append(v.history, transfer)
	return nil
}
