package token

import (
	"context"
	"fmt"
	"net/url"

	"lendledger/core"
	"lendledger/pkg/number"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Mixin token capability over a mixin dapp wallet.
//
// Amounts handed in are smallest units and are shifted by the asset decimals
// before they hit the network.
type Mixin struct {
	wallet *core.Wallet
	assets core.AssetService
}

// NewMixin new mixin token
func NewMixin(wallet *core.Wallet, assets core.AssetService) *Mixin {
	return &Mixin{
		wallet: wallet,
		assets: assets,
	}
}

// TransferFrom confirm that from already paid amount to the dapp under traceID
func (m *Mixin) TransferFrom(ctx context.Context, asset, from, to string, amount decimal.Decimal, traceID string) error {
	input, err := m.input(ctx, asset, to, amount, traceID)
	if err != nil {
		return err
	}

	payment, err := m.wallet.Client.VerifyPayment(ctx, *input)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("verifypayment error")
		return core.WrapError(core.ErrTransferFailed, err, core.Params{"trace_id": traceID})
	}

	if payment.Status != "paid" {
		return core.NewError(core.ErrTransferFailed, core.Params{
			"trace_id": traceID,
			"from":     from,
			"status":   payment.Status,
		})
	}

	snapshot, err := m.wallet.Client.ReadSnapshotByTraceID(ctx, traceID)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("read snapshot error")
		return core.WrapError(core.ErrTransferFailed, err, core.Params{"trace_id": traceID})
	}

	return verifyIncoming(snapshot, input, from)
}

// verifyIncoming the snapshot must be a payment of input made by from
func verifyIncoming(snapshot *mixin.Snapshot, input *mixin.TransferInput, from string) error {
	if snapshot.OpponentID == from && snapshot.AssetID == input.AssetID && snapshot.Amount.Equal(input.Amount) {
		return nil
	}

	return core.NewError(core.ErrTransferFailed, core.Params{
		"trace_id": input.TraceID,
		"from":     from,
		"sender":   snapshot.OpponentID,
		"asset":    snapshot.AssetID,
		"amount":   snapshot.Amount,
	})
}

// Transfer pay amount out of the dapp wallet
func (m *Mixin) Transfer(ctx context.Context, asset, to string, amount decimal.Decimal, traceID string) error {
	input, err := m.input(ctx, asset, to, amount, traceID)
	if err != nil {
		return err
	}

	if _, err := m.wallet.Client.Transfer(ctx, input, m.wallet.Pin); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("transfer error")
		return core.WrapError(core.ErrTransferFailed, err, core.Params{"trace_id": traceID, "to": to})
	}

	return nil
}

// PaySchemaURL mixin pay url the customer opens to fund a deposit
func (m *Mixin) PaySchemaURL(ctx context.Context, asset string, amount decimal.Decimal, traceID string) (string, error) {
	if m.wallet == nil || m.wallet.Client == nil {
		return "", core.NewError(core.ErrTokenNotConfigured, nil)
	}

	input, err := m.input(ctx, asset, m.wallet.Client.ClientID, amount, traceID)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("amount", input.Amount.String())
	q.Set("asset", input.AssetID)
	q.Set("recipient", input.OpponentID)
	q.Set("trace", input.TraceID)
	return fmt.Sprintf("mixin://pay?%s", q.Encode()), nil
}

func (m *Mixin) input(ctx context.Context, asset, opponent string, amount decimal.Decimal, traceID string) (*mixin.TransferInput, error) {
	if m.wallet == nil || m.wallet.Client == nil {
		return nil, core.NewError(core.ErrTokenNotConfigured, nil)
	}

	if !amount.IsPositive() || traceID == "" {
		return nil, core.NewError(core.ErrInvalidAmount, core.Params{"amount": amount, "trace_id": traceID})
	}

	a, err := m.assets.Find(ctx, asset)
	if err != nil {
		return nil, err
	}

	return &mixin.TransferInput{
		AssetID:    a.ID,
		OpponentID: opponent,
		Amount:     number.FromUnits(amount, a.Decimals),
		TraceID:    traceID,
	}, nil
}
