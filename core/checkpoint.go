package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Checkpoint balance of (customer, kind, asset) as of Block, interest excluded
type Checkpoint struct {
	ID        int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"-"`
	Customer  string          `sql:"size:36;unique_index:idx_checkpoints_key" json:"customer"`
	Kind      AccountKind     `sql:"type:varchar(24);unique_index:idx_checkpoints_key" json:"kind"`
	Asset     string          `sql:"size:36;unique_index:idx_checkpoints_key" json:"asset"`
	Balance   decimal.Decimal `sql:"type:decimal(64,0)" json:"balance"`
	Block     int64           `json:"block"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// CheckpointKey identifies a checkpoint
type CheckpointKey struct {
	Customer string
	Kind     AccountKind
	Asset    string
}

// Key checkpoint key
func (c *Checkpoint) Key() CheckpointKey {
	return CheckpointKey{Customer: c.Customer, Kind: c.Kind, Asset: c.Asset}
}

// String lock/cache key
func (k CheckpointKey) String() string {
	return k.Customer + ":" + k.Kind.String() + ":" + k.Asset
}

// Aggregate key of the protocol-aggregate row for the same kind and asset
func (k CheckpointKey) Aggregate() CheckpointKey {
	return CheckpointKey{Customer: ProtocolCustomer, Kind: k.Kind, Asset: k.Asset}
}

// CheckpointStore checkpoint store interface
//
// Find never returns a not-found error: a missing checkpoint is a zero
// balance at block zero with Version 0 and ID 0.
type CheckpointStore interface {
	Find(ctx context.Context, key CheckpointKey) (*Checkpoint, error)
	// Save creates the checkpoint when ID is 0, otherwise updates it if the
	// stored version still equals checkpoint.Version. Version is bumped.
	Save(ctx context.Context, checkpoint *Checkpoint) error
	ListByCustomer(ctx context.Context, customer string) ([]*Checkpoint, error)
}
