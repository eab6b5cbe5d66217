package session

import (
	"context"
	"errors"
	"time"

	"lendledger/core"

	"github.com/asaskevich/govalidator"
	"github.com/bluele/gcache"
	"github.com/fox-one/mixin-sdk-go"
	"github.com/golang-jwt/jwt"
	"golang.org/x/sync/singleflight"
)

// ErrInvalidIssuer token issued for another app
var ErrInvalidIssuer = errors.New("invalid issuer")

// New new session, logins are cached for ttl when capacity > 0
func New(userz core.UserService, capacity int, ttl time.Duration, issuers []string) core.Session {
	var s core.Session = &session{
		userz:   userz,
		issuers: issuers,
		sf:      &singleflight.Group{},
	}

	if capacity > 0 {
		s = &cacheSession{
			Session: s,
			tokens:  gcache.New(capacity).LRU().Expiration(ttl).Build(),
		}
	}

	return s
}

type session struct {
	userz   core.UserService
	sf      *singleflight.Group
	issuers []string
}

func (s *session) Login(ctx context.Context, accessToken string) (*core.User, error) {
	user, err, _ := s.sf.Do(accessToken, func() (interface{}, error) {
		var claim struct {
			jwt.StandardClaims
			Scope string `json:"scp,omitempty"`
		}
		_, _ = jwt.ParseWithClaims(accessToken, &claim, nil)

		if claim.Scope != "FULL" && !govalidator.IsIn(claim.Issuer, s.issuers...) {
			return nil, ErrInvalidIssuer
		}

		if jti := claim.Id; govalidator.IsUUID(jti) {
			ctx = mixin.WithRequestID(ctx, jti)
		}

		return s.userz.Login(ctx, accessToken)
	})

	if err != nil {
		return nil, err
	}

	return user.(*core.User), nil
}

type cacheSession struct {
	core.Session
	tokens gcache.Cache
}

func (s *cacheSession) Login(ctx context.Context, accessToken string) (*core.User, error) {
	if v, err := s.tokens.Get(accessToken); err == nil {
		return v.(*core.User), nil
	}

	user, err := s.Session.Login(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	_ = s.tokens.Set(accessToken, user)
	return user, nil
}
