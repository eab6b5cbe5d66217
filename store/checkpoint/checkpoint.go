package checkpoint

import (
	"context"

	"lendledger/core"
	"lendledger/store/dbtx"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type checkpointStore struct {
	db *db.DB
}

// New new checkpoint store
func New(db *db.DB) core.CheckpointStore {
	return &checkpointStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Checkpoint{})
		if err := tx.AutoMigrate(core.Checkpoint{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *checkpointStore) Find(ctx context.Context, key core.CheckpointKey) (*core.Checkpoint, error) {
	checkpoint := core.Checkpoint{
		Customer: key.Customer,
		Kind:     key.Kind,
		Asset:    key.Asset,
	}

	err := dbtx.From(ctx, s.db).View().
		Where("customer = ? AND kind = ? AND asset = ?", key.Customer, key.Kind, key.Asset).
		First(&checkpoint).Error
	if err != nil && !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	return &checkpoint, nil
}

func (s *checkpointStore) Save(ctx context.Context, checkpoint *core.Checkpoint) error {
	tx := dbtx.From(ctx, s.db).Update()

	if checkpoint.ID == 0 {
		checkpoint.Version = 1
		return tx.Create(checkpoint).Error
	}

	version := checkpoint.Version
	updates := map[string]interface{}{
		"balance": checkpoint.Balance,
		"block":   checkpoint.Block,
		"version": version + 1,
	}

	r := tx.Model(checkpoint).Where("version = ?", version).Updates(updates)
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return core.NewError(core.ErrConcurrentUpdate, core.Params{
			"checkpoint": checkpoint.Key().String(),
			"version":    version,
		})
	}

	checkpoint.Version = version + 1
	return nil
}

func (s *checkpointStore) ListByCustomer(ctx context.Context, customer string) ([]*core.Checkpoint, error) {
	var checkpoints []*core.Checkpoint
	if err := dbtx.From(ctx, s.db).View().
		Where("customer = ?", customer).
		Order("kind, asset").
		Find(&checkpoints).Error; err != nil {
		return nil, err
	}

	return checkpoints, nil
}
