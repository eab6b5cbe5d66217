// Package memory keeps every ledger store in process memory.
//
// Transactions are serialized. Each one works on a private copy of the state
// that replaces the committed state only when the transaction succeeds.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"lendledger/core"
)

type rateKey struct {
	asset string
	side  core.RateSide
	group int64
}

type state struct {
	seq         int64
	checkpoints map[core.CheckpointKey]core.Checkpoint
	rates       map[rateKey]core.RateSnapshot
	entries     []core.Entry
	prices      map[string][]core.Price
}

func newState() *state {
	return &state{
		checkpoints: map[core.CheckpointKey]core.Checkpoint{},
		rates:       map[rateKey]core.RateSnapshot{},
		prices:      map[string][]core.Price{},
	}
}

func (s *state) clone() *state {
	c := &state{
		seq:         s.seq,
		checkpoints: make(map[core.CheckpointKey]core.Checkpoint, len(s.checkpoints)),
		rates:       make(map[rateKey]core.RateSnapshot, len(s.rates)),
		entries:     make([]core.Entry, len(s.entries)),
		prices:      make(map[string][]core.Price, len(s.prices)),
	}

	for k, v := range s.checkpoints {
		c.checkpoints[k] = v
	}
	for k, v := range s.rates {
		c.rates[k] = v
	}
	copy(c.entries, s.entries)
	for k, v := range s.prices {
		c.prices[k] = append([]core.Price(nil), v...)
	}

	return c
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

// Store in-memory stores sharing one transactional state
type Store struct {
	txMu      sync.Mutex
	mu        sync.RWMutex
	committed *state
}

// New new empty store
func New() *Store {
	return &Store{committed: newState()}
}

type txKey struct {
	store *Store
}

// Tx implements core.Transactor
func (s *Store) Tx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{s}).(*state); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{s}, work)); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

func (s *Store) view(ctx context.Context, fn func(st *state)) {
	if st, ok := ctx.Value(txKey{s}).(*state); ok {
		fn(st)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.committed)
}

func (s *Store) update(ctx context.Context, fn func(st *state) error) error {
	return s.Tx(ctx, func(ctx context.Context) error {
		return fn(ctx.Value(txKey{s}).(*state))
	})
}

// Checkpoints checkpoint store
func (s *Store) Checkpoints() core.CheckpointStore {
	return &checkpointStore{s}
}

// Rates rate snapshot store
func (s *Store) Rates() core.RateStore {
	return &rateStore{s}
}

// Entries entry store
func (s *Store) Entries() core.EntryStore {
	return &entryStore{s}
}

// Prices price store
func (s *Store) Prices() core.PriceStore {
	return &priceStore{s}
}

type checkpointStore struct {
	s *Store
}

func (c *checkpointStore) Find(ctx context.Context, key core.CheckpointKey) (*core.Checkpoint, error) {
	checkpoint := core.Checkpoint{Customer: key.Customer, Kind: key.Kind, Asset: key.Asset}
	c.s.view(ctx, func(st *state) {
		if v, ok := st.checkpoints[key]; ok {
			checkpoint = v
		}
	})

	return &checkpoint, nil
}

func (c *checkpointStore) Save(ctx context.Context, checkpoint *core.Checkpoint) error {
	return c.s.update(ctx, func(st *state) error {
		key := checkpoint.Key()
		stored, ok := st.checkpoints[key]

		now := time.Now()
		switch {
		case checkpoint.ID == 0 && !ok:
			checkpoint.ID = st.nextID()
			checkpoint.Version = 1
			checkpoint.CreatedAt = now
		case checkpoint.ID != 0 && ok && stored.Version == checkpoint.Version:
			checkpoint.Version++
		default:
			return core.NewError(core.ErrConcurrentUpdate, core.Params{
				"checkpoint": key.String(),
				"version":    checkpoint.Version,
			})
		}

		checkpoint.UpdatedAt = now
		st.checkpoints[key] = *checkpoint
		return nil
	})
}

func (c *checkpointStore) ListByCustomer(ctx context.Context, customer string) ([]*core.Checkpoint, error) {
	var checkpoints []*core.Checkpoint
	c.s.view(ctx, func(st *state) {
		for k, v := range st.checkpoints {
			if k.Customer == customer {
				v := v
				checkpoints = append(checkpoints, &v)
			}
		}
	})

	sort.Slice(checkpoints, func(i, j int) bool {
		if checkpoints[i].Kind != checkpoints[j].Kind {
			return checkpoints[i].Kind < checkpoints[j].Kind
		}
		return checkpoints[i].Asset < checkpoints[j].Asset
	})

	return checkpoints, nil
}

type rateStore struct {
	s *Store
}

func (r *rateStore) Create(ctx context.Context, snapshot *core.RateSnapshot) (bool, error) {
	created := false
	err := r.s.update(ctx, func(st *state) error {
		key := rateKey{snapshot.Asset, snapshot.Side, snapshot.Group}
		if _, ok := st.rates[key]; ok {
			return nil
		}

		snapshot.ID = st.nextID()
		if snapshot.CreatedAt.IsZero() {
			snapshot.CreatedAt = time.Now()
		}
		st.rates[key] = *snapshot
		created = true
		return nil
	})

	return created, err
}

func (r *rateStore) Find(ctx context.Context, asset string, side core.RateSide, group int64) (*core.RateSnapshot, bool, error) {
	var (
		snapshot core.RateSnapshot
		found    bool
	)
	r.s.view(ctx, func(st *state) {
		snapshot, found = st.rates[rateKey{asset, side, group}]
	})

	if !found {
		return nil, false, nil
	}

	return &snapshot, true, nil
}

func (r *rateStore) List(ctx context.Context, asset string, side core.RateSide, fromGroup, toGroup int64) ([]*core.RateSnapshot, error) {
	var snapshots []*core.RateSnapshot
	r.s.view(ctx, func(st *state) {
		for k, v := range st.rates {
			if k.asset == asset && k.side == side && k.group > fromGroup && k.group <= toGroup {
				v := v
				snapshots = append(snapshots, &v)
			}
		}
	})

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Group < snapshots[j].Group
	})

	return snapshots, nil
}

func (r *rateStore) Latest(ctx context.Context, asset string, side core.RateSide) (*core.RateSnapshot, bool, error) {
	var latest *core.RateSnapshot
	r.s.view(ctx, func(st *state) {
		for k, v := range st.rates {
			if k.asset == asset && k.side == side && (latest == nil || v.Group > latest.Group) {
				v := v
				latest = &v
			}
		}
	})

	return latest, latest != nil, nil
}

type entryStore struct {
	s *Store
}

func (e *entryStore) Create(ctx context.Context, entry *core.Entry) error {
	return e.s.update(ctx, func(st *state) error {
		entry.ID = st.nextID()
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now()
		}
		st.entries = append(st.entries, *entry)
		return nil
	})
}

func (e *entryStore) List(ctx context.Context, fromID int64, limit int) ([]*core.Entry, error) {
	var entries []*core.Entry
	e.s.view(ctx, func(st *state) {
		for _, v := range st.entries {
			if limit > 0 && len(entries) >= limit {
				break
			}
			if v.ID > fromID {
				v := v
				entries = append(entries, &v)
			}
		}
	})

	return entries, nil
}

func (e *entryStore) FindByTrace(ctx context.Context, traceID string) ([]*core.Entry, error) {
	var entries []*core.Entry
	e.s.view(ctx, func(st *state) {
		for _, v := range st.entries {
			if v.TraceID == traceID {
				v := v
				entries = append(entries, &v)
			}
		}
	})

	return entries, nil
}

type priceStore struct {
	s *Store
}

func (p *priceStore) Create(ctx context.Context, price *core.Price) error {
	return p.s.update(ctx, func(st *state) error {
		for _, v := range st.prices[price.AssetID] {
			if v.Block == price.Block {
				*price = v
				return nil
			}
		}

		price.ID = st.nextID()
		if price.CreatedAt.IsZero() {
			price.CreatedAt = time.Now()
		}
		st.prices[price.AssetID] = append(st.prices[price.AssetID], *price)
		return nil
	})
}

func (p *priceStore) Latest(ctx context.Context, assetID string) (*core.Price, bool, error) {
	var latest *core.Price
	p.s.view(ctx, func(st *state) {
		for _, v := range st.prices[assetID] {
			if latest == nil || v.Block > latest.Block {
				v := v
				latest = &v
			}
		}
	})

	return latest, latest != nil, nil
}

func (p *priceStore) DeleteByTime(ctx context.Context, t time.Time) error {
	return p.s.update(ctx, func(st *state) error {
		for asset, prices := range st.prices {
			kept := prices[:0]
			for _, v := range prices {
				if !v.CreatedAt.Before(t) {
					kept = append(kept, v)
				}
			}
			st.prices[asset] = kept
		}
		return nil
	})
}
