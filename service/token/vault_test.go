package token

import (
	"context"
	"errors"
	"testing"

	"lendledger/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVault(t *testing.T) {
	ctx := context.Background()
	v := NewVault("protocol")
	v.Mint("alice", "btc", decimal.NewFromInt(100))

	require.NoError(t, v.TransferFrom(ctx, "btc", "alice", "protocol", decimal.NewFromInt(60), "t1"))
	err := v.TransferFrom(ctx, "btc", "alice", "protocol", decimal.NewFromInt(60), "t1")
	assert.True(t, errors.Is(err, core.ErrTraceUsed))

	assert.Equal(t, "40", v.BalanceOf("alice", "btc").String())
	assert.Equal(t, "60", v.BalanceOf("protocol", "btc").String())

	err = v.TransferFrom(ctx, "btc", "alice", "protocol", decimal.NewFromInt(41), "t2")
	assert.True(t, errors.Is(err, core.ErrTransferFailed))

	require.NoError(t, v.Transfer(ctx, "btc", "bob", decimal.NewFromInt(10), "t3"))
	assert.Equal(t, "10", v.BalanceOf("bob", "btc").String())
	assert.Len(t, v.Transfers(), 2)

	err = v.Transfer(ctx, "btc", "bob", decimal.Zero, "t4")
	assert.True(t, errors.Is(err, core.ErrInvalidAmount))
}

func TestVaultFailedTransferKeepsTrace(t *testing.T) {
	ctx := context.Background()
	v := NewVault("protocol")

	err := v.TransferFrom(ctx, "btc", "alice", "protocol", decimal.NewFromInt(1), "t1")
	assert.True(t, errors.Is(err, core.ErrTransferFailed))

	// nothing moved, the trace can be paid later
	v.Mint("alice", "btc", decimal.NewFromInt(1))
	require.NoError(t, v.TransferFrom(ctx, "btc", "alice", "protocol", decimal.NewFromInt(1), "t1"))
	assert.Equal(t, "1", v.BalanceOf("protocol", "btc").String())
}
