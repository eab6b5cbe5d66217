package block

import (
	"context"
	"testing"
	"time"

	"lendledger/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	genesis := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(core.App{Genesis: genesis.Unix(), SecondsPerBlock: 15})

	b, err := s.GetBlock(context.Background(), genesis.Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 240, b)

	_, err = s.GetBlock(context.Background(), genesis.Add(-time.Second))
	assert.Error(t, err)
}

func TestManual(t *testing.T) {
	m := NewManual(10)
	assert.EqualValues(t, 12, m.Advance(2))

	m.Set(100)
	b, err := m.CurrentBlock(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 100, b)
}
