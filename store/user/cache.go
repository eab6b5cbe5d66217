package user

import (
	"context"
	"fmt"
	"time"

	"lendledger/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache users by mixin id for exp
func Cache(store core.UserStore, exp time.Duration) core.UserStore {
	return &cacheUserStore{
		UserStore: store,
		cache:     gcache.New(2048).LRU().Expiration(exp).Build(),
		sf:        &singleflight.Group{},
	}
}

type cacheUserStore struct {
	core.UserStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheUserStore) Save(ctx context.Context, user *core.User) error {
	if err := s.UserStore.Save(ctx, user); err != nil {
		return err
	}

	s.cacheUser(user)
	return nil
}

func (s *cacheUserStore) Find(ctx context.Context, mixinID string) (*core.User, error) {
	if v, err := s.cache.Get(s.userKey(mixinID)); err == nil {
		if user, ok := v.(*core.User); ok {
			return user, nil
		}
	}

	v, err, _ := s.sf.Do(mixinID, func() (interface{}, error) {
		return s.UserStore.Find(ctx, mixinID)
	})
	if err != nil {
		return nil, err
	}

	user := v.(*core.User)
	if user.ID > 0 {
		s.cacheUser(user)
	}

	return user, nil
}

func (s *cacheUserStore) cacheUser(user *core.User) {
	u := *user
	u.AccessToken = ""
	_ = s.cache.Set(s.userKey(user.MixinID), &u)
}

func (s *cacheUserStore) userKey(mixinID string) string {
	return fmt.Sprintf("user:id:%s", mixinID)
}
