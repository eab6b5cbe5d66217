// Package dbtx carries a database transaction through a context.
package dbtx

import (
	"context"

	"lendledger/core"

	"github.com/fox-one/pkg/store/db"
)

type txKey struct{}

// With ctx carrying tx
func With(ctx context.Context, tx *db.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// From the transaction carried by ctx, or database when there is none
func From(ctx context.Context, database *db.DB) *db.DB {
	if tx, ok := ctx.Value(txKey{}).(*db.DB); ok {
		return tx
	}

	return database
}

// InTx whether ctx carries a transaction
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*db.DB)
	return ok
}

type transactor struct {
	db *db.DB
}

// New core.Transactor over database
func New(database *db.DB) core.Transactor {
	return &transactor{db: database}
}

func (t *transactor) Tx(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}

	return t.db.Tx(func(tx *db.DB) error {
		return fn(With(ctx, tx))
	})
}
