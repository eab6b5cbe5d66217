package user

import (
	"context"
	"testing"
	"time"

	"lendledger/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	users map[string]*core.User
	finds int
}

func (s *countingStore) Save(ctx context.Context, user *core.User) error {
	if saved, ok := s.users[user.MixinID]; ok {
		user.ID = saved.ID
	} else {
		user.ID = int64(len(s.users) + 1)
	}

	u := *user
	s.users[user.MixinID] = &u
	return nil
}

func (s *countingStore) Find(ctx context.Context, mixinID string) (*core.User, error) {
	s.finds++
	if user, ok := s.users[mixinID]; ok {
		u := *user
		return &u, nil
	}

	return &core.User{}, nil
}

func (s *countingStore) List(ctx context.Context, from int64, limit int) ([]*core.User, error) {
	return nil, nil
}

func TestCacheUserStore(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{users: map[string]*core.User{}}
	s := Cache(inner, time.Minute)

	user, err := s.Find(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), user.ID)
	assert.Equal(t, 1, inner.finds)

	// unknown users are not cached
	_, _ = s.Find(ctx, "alice")
	assert.Equal(t, 2, inner.finds)

	require.NoError(t, s.Save(ctx, &core.User{MixinID: "alice", Name: "Alice", AccessToken: "secret"}))

	user, err = s.Find(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.finds)
	assert.Equal(t, "Alice", user.Name)
	assert.Empty(t, user.AccessToken)
}
