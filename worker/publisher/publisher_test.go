package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"lendledger/core"
	"lendledger/store/memory"

	"github.com/fox-one/msgpack"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCursor struct {
	id int64
}

func (c *memCursor) Load(ctx context.Context) (int64, error) { return c.id, nil }

func (c *memCursor) Save(ctx context.Context, id int64) error {
	c.id = id
	return nil
}

type recorder struct {
	published []*core.Entry
	err       error
}

func (r *recorder) Publish(ctx context.Context, entries []*core.Entry) error {
	if r.err != nil {
		return r.err
	}

	r.published = append(r.published, entries...)
	return nil
}

func seed(t *testing.T, store *memory.Store, n int) {
	for i := 0; i < n; i++ {
		entry := core.Entry{
			TraceID:  "trace",
			Reason:   core.ReasonCustomerDeposit,
			Side:     core.SideCredit,
			Kind:     core.AccountDeposit,
			Customer: "alice",
			Asset:    "btc",
			Amount:   decimal.NewFromInt(int64(i + 1)),
			Balance:  decimal.NewFromInt(int64(i + 1)),
		}
		require.NoError(t, store.Entries().Create(context.Background(), &entry))
	}
}

// later a clock reading well past the settle window
func later() time.Time {
	return time.Now().Add(time.Minute)
}

func TestPublishFromCursor(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, 3)

	cursor := &memCursor{}
	rec := &recorder{}
	w := New(store.Entries(), rec, cursor)
	w.now = later

	require.NoError(t, w.onWork(ctx))
	require.Len(t, rec.published, 3)
	assert.Equal(t, rec.published[2].ID, cursor.id)

	// nothing new
	require.NoError(t, w.onWork(ctx))
	assert.Len(t, rec.published, 3)

	seed(t, store, 2)
	require.NoError(t, w.onWork(ctx))
	require.Len(t, rec.published, 5)
	for i := 1; i < len(rec.published); i++ {
		assert.Greater(t, rec.published[i].ID, rec.published[i-1].ID)
	}
}

func TestFailedPublishKeepsCursor(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, 2)

	cursor := &memCursor{}
	rec := &recorder{err: errors.New("redis down")}
	w := New(store.Entries(), rec, cursor)
	w.now = later

	assert.Error(t, w.onWork(ctx))
	assert.Equal(t, int64(0), cursor.id)

	rec.err = nil
	require.NoError(t, w.onWork(ctx))
	assert.Len(t, rec.published, 2)
}

func TestMessageEncoding(t *testing.T) {
	entry := &core.Entry{
		ID:       7,
		TraceID:  "trace",
		Reason:   core.ReasonCustomerBorrow,
		Side:     core.SideDebit,
		Kind:     core.AccountBorrow,
		Customer: "bob",
		Asset:    "usd",
		Amount:   decimal.NewFromInt(300),
		Balance:  decimal.NewFromInt(300),
		Block:    42,
	}

	data, err := msgpack.Marshal(NewMessage(entry))
	require.NoError(t, err)

	var msg Message
	require.NoError(t, msgpack.Unmarshal(data, &msg))
	assert.Equal(t, "customer_borrow", msg.Reason)
	assert.Equal(t, "borrow", msg.Kind)
	assert.Equal(t, "300", msg.Amount)
	assert.Equal(t, int64(42), msg.Block)
	assert.Equal(t, NewMessage(entry).MessageID, msg.MessageID)
	assert.NotEmpty(t, msg.MessageID)
}

func TestUnsettledEntriesWait(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, 2)

	cursor := &memCursor{}
	rec := &recorder{}
	w := New(store.Entries(), rec, cursor)

	// entries just written are still inside the window
	require.NoError(t, w.onWork(ctx))
	assert.Empty(t, rec.published)
	assert.Equal(t, int64(0), cursor.id)

	w.now = later
	require.NoError(t, w.onWork(ctx))
	assert.Len(t, rec.published, 2)
}

func TestSettledStopsAtFirstYoungEntry(t *testing.T) {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []*core.Entry{
		{ID: 1, CreatedAt: base},
		{ID: 3, CreatedAt: base.Add(20 * time.Second)},
		// inserted first by a transaction that committed late
		{ID: 2, CreatedAt: base.Add(time.Second)},
	}

	got := settled(entries, base.Add(10*time.Second))
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	assert.Len(t, settled(entries, base.Add(time.Minute)), 3)
	assert.Empty(t, settled(entries, base.Add(-time.Second)))
}

func TestLateCommitIsNotSkipped(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seed(t, store, 1)

	cursor := &memCursor{}
	rec := &recorder{}
	w := New(store.Entries(), rec, cursor)
	w.Settle = time.Hour

	// a transaction that is still open when the worker ticks is younger
	// than the window, so the cursor stays behind it
	require.NoError(t, w.onWork(ctx))
	assert.Equal(t, int64(0), cursor.id)

	seed(t, store, 1)
	w.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	require.NoError(t, w.onWork(ctx))
	assert.Len(t, rec.published, 2)
}
