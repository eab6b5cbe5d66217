package rate

import (
	"context"
	"fmt"

	"lendledger/core"
	"lendledger/store/dbtx"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache wrap store with an LRU of recorded snapshots.
// Snapshots never change once written, so entries are never invalidated.
// Rows read inside a transaction are not cached, they may still roll back.
func Cache(store core.RateStore, size int) core.RateStore {
	if size <= 0 {
		size = 4096
	}

	return &cacheRateStore{
		RateStore: store,
		cache:     gcache.New(size).LRU().Build(),
		sf:        &singleflight.Group{},
	}
}

type cacheRateStore struct {
	core.RateStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheRateStore) Find(ctx context.Context, asset string, side core.RateSide, group int64) (*core.RateSnapshot, bool, error) {
	if dbtx.InTx(ctx) {
		return s.RateStore.Find(ctx, asset, side, group)
	}

	key := s.key(asset, side, group)
	if v, err := s.cache.Get(key); err == nil {
		if snapshot, ok := v.(*core.RateSnapshot); ok {
			return snapshot, true, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		snapshot, found, err := s.RateStore.Find(ctx, asset, side, group)
		if err != nil || !found {
			return nil, err
		}

		_ = s.cache.Set(key, snapshot)
		return snapshot, nil
	})
	if err != nil {
		return nil, false, err
	}

	snapshot, ok := v.(*core.RateSnapshot)
	return snapshot, ok, nil
}

func (s *cacheRateStore) List(ctx context.Context, asset string, side core.RateSide, fromGroup, toGroup int64) ([]*core.RateSnapshot, error) {
	snapshots, err := s.RateStore.List(ctx, asset, side, fromGroup, toGroup)
	if err != nil || dbtx.InTx(ctx) {
		return snapshots, err
	}

	for _, snapshot := range snapshots {
		_ = s.cache.Set(s.key(snapshot.Asset, snapshot.Side, snapshot.Group), snapshot)
	}

	return snapshots, nil
}

func (s *cacheRateStore) key(asset string, side core.RateSide, group int64) string {
	return fmt.Sprintf("rate:%s:%s:%d", asset, side, group)
}
