package user

import (
	"context"

	"lendledger/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type userStore struct {
	db *db.DB
}

// New new user store
func New(db *db.DB) core.UserStore {
	return &userStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.User{})

		if err := tx.AutoMigrate(core.User{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *userStore) Save(ctx context.Context, user *core.User) error {
	return s.db.Tx(func(tx *db.DB) error {
		var saved core.User
		if err := tx.Update().Where("mixin_id = ?", user.MixinID).Attrs(core.User{
			Name:   user.Name,
			Avatar: user.Avatar,
		}).FirstOrCreate(&saved).Error; err != nil {
			return err
		}

		if saved.Name != user.Name || saved.Avatar != user.Avatar {
			if err := tx.Update().Model(&saved).Updates(map[string]interface{}{
				"name":   user.Name,
				"avatar": user.Avatar,
			}).Error; err != nil {
				return err
			}
		}

		user.ID = saved.ID
		user.CreatedAt = saved.CreatedAt
		return nil
	})
}

func (s *userStore) Find(ctx context.Context, mixinID string) (*core.User, error) {
	var user core.User
	if err := s.db.View().Where("mixin_id = ?", mixinID).First(&user).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.User{}, nil
		}

		return nil, err
	}

	return &user, nil
}

func (s *userStore) List(ctx context.Context, from int64, limit int) ([]*core.User, error) {
	var users []*core.User
	if err := s.db.View().Where("id > ?", from).Order("id").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}
