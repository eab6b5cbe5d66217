package user

import (
	"context"

	"lendledger/core"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/logger"
)

type userService struct {
	users core.UserStore
}

// New new user service, profiles are saved to users when it is set
func New(users core.UserStore) core.UserService {
	return &userService{users: users}
}

// Login resolve the mixin profile behind an oauth access token
func (s *userService) Login(ctx context.Context, token string) (*core.User, error) {
	profile, err := mixin.UserMe(ctx, token)
	if err != nil {
		return nil, err
	}

	user := core.User{
		MixinID:     profile.UserID,
		Name:        profile.FullName,
		Avatar:      profile.AvatarURL,
		AccessToken: token,
	}

	if s.users != nil {
		if err := s.users.Save(ctx, &user); err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("users.Save", user.MixinID)
			return nil, err
		}
	}

	return &user, nil
}
