package publisher

import (
	"context"
	"time"

	"lendledger/core"
	"lendledger/pkg/metrics"
	"lendledger/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
)

const (
	checkpointKey = "publisher_entry_checkpoint"
	batchLimit    = 500

	// DefaultSettle age an entry must reach before it is published
	DefaultSettle = 10 * time.Second
)

// Cursor id of the last published entry
type Cursor interface {
	Load(ctx context.Context) (int64, error)
	Save(ctx context.Context, id int64) error
}

type propertyCursor struct {
	store property.Store
	key   string
}

// PropertyCursor cursor kept in the property store
func PropertyCursor(store property.Store) Cursor {
	return &propertyCursor{store: store, key: checkpointKey}
}

func (c *propertyCursor) Load(ctx context.Context) (int64, error) {
	v, err := c.store.Get(ctx, c.key)
	if err != nil {
		return 0, err
	}

	return v.Int64(), nil
}

func (c *propertyCursor) Save(ctx context.Context, id int64) error {
	return c.store.Save(ctx, c.key, id)
}

// Worker ships new ledger entries to the publisher in id order.
//
// Entry ids are taken when a transaction inserts, not when it commits, so a
// lower id may show up after a higher one. Only entries older than Settle are
// published and the cursor never moves past a younger one. Settle must
// outlast the longest ledger transaction.
type Worker struct {
	worker.TickWorker
	Settle    time.Duration
	entries   core.EntryStore
	publisher core.EntryPublisher
	cursor    Cursor
	now       func() time.Time
}

// New new entry publisher worker
func New(entries core.EntryStore, publisher core.EntryPublisher, cursor Cursor) *Worker {
	return &Worker{
		TickWorker: worker.TickWorker{
			Delay:    time.Second,
			ErrDelay: 5 * time.Second,
		},
		Settle:    DefaultSettle,
		entries:   entries,
		publisher: publisher,
		cursor:    cursor,
		now:       time.Now,
	}
}

// settled leading entries created at or before the settle line
func settled(entries []*core.Entry, line time.Time) []*core.Entry {
	for idx, entry := range entries {
		if entry.CreatedAt.After(line) {
			return entries[:idx]
		}
	}

	return entries
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "publisher")

	from, err := w.cursor.Load(ctx)
	if err != nil {
		log.WithError(err).Errorln("cursor.Load", checkpointKey)
		return err
	}

	entries, err := w.entries.List(ctx, from, batchLimit)
	if err != nil {
		log.WithError(err).Errorln("entries.List")
		return err
	}

	entries = settled(entries, w.now().Add(-w.Settle))

	if len(entries) == 0 {
		return nil
	}

	if err := w.publisher.Publish(ctx, entries); err != nil {
		log.WithError(err).Errorln("publish entries")
		return err
	}

	metrics.Ledger().ObservePublished(len(entries))

	last := entries[len(entries)-1].ID
	if err := w.cursor.Save(ctx, last); err != nil {
		log.WithError(err).Errorln("cursor.Save", checkpointKey)
		return err
	}

	log.Debugf("publisher: %d entries published up to %d", len(entries), last)
	return nil
}
