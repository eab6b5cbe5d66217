package rate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	for _, msg := range []string{
		`pq: duplicate key value violates unique constraint "idx_rate_snapshots_key"`,
		`ERROR: duplicate key value violates unique constraint "idx_rate_snapshots_key" (SQLSTATE 23505)`,
		`Error 1062: Duplicate entry 'btc-1-7' for key 'idx_rate_snapshots_key'`,
		`UNIQUE constraint failed: rate_snapshots.asset, rate_snapshots.side, rate_snapshots.block_group`,
	} {
		assert.True(t, isUniqueViolation(errors.New(msg)), msg)
		assert.True(t, isUniqueViolation(fmt.Errorf("create snapshot: %w", errors.New(msg))), msg)
	}

	assert.False(t, isUniqueViolation(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")))
	assert.False(t, isUniqueViolation(errors.New(`pq: null value in column "rate" violates not-null constraint`)))
}
