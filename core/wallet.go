package core

import (
	"context"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/shopspring/decimal"
)

// Wallet mixin wallet
type Wallet struct {
	Client *mixin.Client `json:"client"`
	Pin    string        `json:"pin"`
}

// Token moves tokens between customers and the protocol
type Token interface {
	// TransferFrom pulls amount of asset from customer into the protocol
	TransferFrom(ctx context.Context, asset, from, to string, amount decimal.Decimal, traceID string) error
	// Transfer pays amount of asset out to customer
	Transfer(ctx context.Context, asset, to string, amount decimal.Decimal, traceID string) error
}
