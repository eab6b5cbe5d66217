package core

import (
	"context"
	"time"
)

// User authenticated customer
type User struct {
	ID          int64     `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"-"`
	MixinID     string    `sql:"size:36;unique_index:idx_users_mixin_id" json:"mixin_id,omitempty"`
	Name        string    `sql:"size:64" json:"name,omitempty"`
	Avatar      string    `sql:"size:255" json:"avatar,omitempty"`
	AccessToken string    `sql:"-" json:"-"`
	CreatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// UserStore customers that logged in at least once
type UserStore interface {
	// Save insert user or refresh its profile
	Save(ctx context.Context, user *User) error
	// Find returns an empty user when mixinID never logged in
	Find(ctx context.Context, mixinID string) (*User, error)
	// List users with id > from ascending
	List(ctx context.Context, from int64, limit int) ([]*User, error)
}

// UserService user service interface
type UserService interface {
	Login(ctx context.Context, token string) (*User, error)
}
