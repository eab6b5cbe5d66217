package core

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// Entry one side of a double-entry posting, kept for auditing only
type Entry struct {
	ID        int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id" msgpack:"id"`
	TraceID   string          `sql:"size:36;index:idx_entries_trace_id" json:"trace_id" msgpack:"trace_id"`
	Reason    Reason          `sql:"type:varchar(32)" json:"reason" msgpack:"reason"`
	Side      EntrySide       `json:"side" msgpack:"side"`
	Kind      AccountKind     `sql:"type:varchar(24)" json:"kind" msgpack:"kind"`
	Customer  string          `sql:"size:36;index:idx_entries_customer" json:"customer" msgpack:"customer"`
	Asset     string          `sql:"size:36" json:"asset" msgpack:"asset"`
	Amount    decimal.Decimal `sql:"type:decimal(64,0)" json:"amount" msgpack:"amount"`
	Balance   decimal.Decimal `sql:"type:decimal(64,0)" json:"balance" msgpack:"balance"`
	Block     int64           `json:"block" msgpack:"block"`
	Params    types.JSONText  `sql:"type:varchar(1024)" json:"params,omitempty" msgpack:"params,omitempty"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at" msgpack:"created_at"`
}

// EntryStore entry store interface
type EntryStore interface {
	Create(ctx context.Context, entry *Entry) error
	// List entries with id > fromID ascending
	List(ctx context.Context, fromID int64, limit int) ([]*Entry, error)
	FindByTrace(ctx context.Context, traceID string) ([]*Entry, error)
}

// EntryPublisher ships entries to off-ledger observers
type EntryPublisher interface {
	Publish(ctx context.Context, entries []*Entry) error
}

// Transactor runs fn as one all-or-nothing unit of work.
//
// The transaction travels in the context handed to fn; stores pick it up from
// there. A nested Tx joins the outer transaction.
type Transactor interface {
	Tx(ctx context.Context, fn func(ctx context.Context) error) error
}

type traceKey struct{}

// WithTraceID tag postings made with ctx with traceID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceIDFrom trace id carried by ctx
func TraceIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}
