package core

import (
	"context"
	"time"
)

// BlockService block clock. Blocks are a monotonic counter derived from time.
type BlockService interface {
	GetBlock(ctx context.Context, t time.Time) (int64, error)
	CurrentBlock(ctx context.Context) (int64, error)
}
