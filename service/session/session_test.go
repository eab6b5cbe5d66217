package session

import (
	"context"
	"testing"
	"time"

	"lendledger/core"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingUsers struct {
	logins int
}

func (u *countingUsers) Login(ctx context.Context, token string) (*core.User, error) {
	u.logins++
	return &core.User{MixinID: "alice", AccessToken: token}, nil
}

func token(t *testing.T, issuer, scope string) string {
	claims := jwt.MapClaims{"iss": issuer, "scp": scope}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	users := &countingUsers{}
	s := New(users, 16, time.Minute, []string{"app"})

	tk := token(t, "app", "PROFILE:READ")
	for i := 0; i < 3; i++ {
		user, err := s.Login(ctx, tk)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.MixinID)
	}
	assert.Equal(t, 1, users.logins)

	_, err := s.Login(ctx, token(t, "other", "PROFILE:READ"))
	assert.Equal(t, ErrInvalidIssuer, err)

	_, err = s.Login(ctx, token(t, "other", "FULL"))
	assert.NoError(t, err)
}
