package core

import (
	"context"
)

// Session resolves bearer tokens issued by mixin oauth
type Session interface {
	// Login returns the user owning accessToken, or an error when the issuer
	// check or mixin rejects it
	Login(ctx context.Context, accessToken string) (*User, error)
}

// Customer ledger customer id the session user operates as
func (u *User) Customer() string {
	return u.MixinID
}
