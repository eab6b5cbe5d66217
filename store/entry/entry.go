package entry

import (
	"context"

	"lendledger/core"
	"lendledger/store/dbtx"

	"github.com/fox-one/pkg/store/db"
)

type entryStore struct {
	db *db.DB
}

// New new entry store
func New(db *db.DB) core.EntryStore {
	return &entryStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Entry{})
		if err := tx.AutoMigrate(core.Entry{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *entryStore) Create(ctx context.Context, entry *core.Entry) error {
	return dbtx.From(ctx, s.db).Update().Create(entry).Error
}

func (s *entryStore) List(ctx context.Context, fromID int64, limit int) ([]*core.Entry, error) {
	var entries []*core.Entry
	if err := dbtx.From(ctx, s.db).View().
		Where("id > ?", fromID).
		Order("id").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *entryStore) FindByTrace(ctx context.Context, traceID string) ([]*core.Entry, error) {
	var entries []*core.Entry
	if err := dbtx.From(ctx, s.db).View().
		Where("trace_id = ?", traceID).
		Order("id").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
