package block

import (
	"context"
	"sync/atomic"
	"time"

	"lendledger/core"
	"lendledger/internal/compound"
)

type service struct {
	secondsPerBlock int64
	genesis         int64
}

// New new block service counting blocks of secondsPerBlock since genesis
func New(app core.App) core.BlockService {
	spb := app.SecondsPerBlock
	if spb <= 0 {
		spb = compound.SecondsPerBlock
	}

	return &service{
		secondsPerBlock: spb,
		genesis:         app.Genesis,
	}
}

// CurrentBlock current block
func (s *service) CurrentBlock(ctx context.Context) (int64, error) {
	return compound.CurrentBlock(ctx, s.secondsPerBlock, s.genesis)
}

// GetBlock get block by time
func (s *service) GetBlock(ctx context.Context, t time.Time) (int64, error) {
	return compound.GetBlockByTime(ctx, s.secondsPerBlock, s.genesis, t)
}

// Manual block clock advanced by hand
type Manual struct {
	block int64
}

// NewManual new manual clock at block
func NewManual(block int64) *Manual {
	return &Manual{block: block}
}

// Set jump to block
func (m *Manual) Set(block int64) {
	atomic.StoreInt64(&m.block, block)
}

// Advance move forward by n blocks
func (m *Manual) Advance(n int64) int64 {
	return atomic.AddInt64(&m.block, n)
}

// CurrentBlock implements core.BlockService
func (m *Manual) CurrentBlock(ctx context.Context) (int64, error) {
	return atomic.LoadInt64(&m.block), nil
}

// GetBlock implements core.BlockService, every time maps to the current block
func (m *Manual) GetBlock(ctx context.Context, t time.Time) (int64, error) {
	return m.CurrentBlock(ctx)
}
