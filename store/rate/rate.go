package rate

import (
	"context"
	"strings"

	"lendledger/core"
	"lendledger/store/dbtx"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type rateStore struct {
	db *db.DB
}

// New new rate snapshot store
func New(db *db.DB) core.RateStore {
	return &rateStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.RateSnapshot{})
		if err := tx.AutoMigrate(core.RateSnapshot{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Create insert the snapshot unless the group is already recorded.
// The unique index on (asset, side, block_group) rejects a racing writer,
// which then reports the group as already recorded. Call it outside of a
// transaction, postgres aborts a transaction on a unique violation.
func (s *rateStore) Create(ctx context.Context, snapshot *core.RateSnapshot) (bool, error) {
	_, found, err := s.Find(ctx, snapshot.Asset, snapshot.Side, snapshot.Group)
	if err != nil || found {
		return false, err
	}

	if err := dbtx.From(ctx, s.db).Update().Create(snapshot).Error; err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

var uniqueViolations = []string{
	"duplicate key value violates unique constraint", // postgres
	"SQLSTATE 23505",
	"Error 1062", // mysql
	"Duplicate entry",
	"UNIQUE constraint failed", // sqlite
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	for _, s := range uniqueViolations {
		if strings.Contains(msg, s) {
			return true
		}
	}

	return false
}

func (s *rateStore) Find(ctx context.Context, asset string, side core.RateSide, group int64) (*core.RateSnapshot, bool, error) {
	var snapshot core.RateSnapshot
	err := dbtx.From(ctx, s.db).View().
		Where("asset = ? AND side = ? AND block_group = ?", asset, side, group).
		First(&snapshot).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return &snapshot, true, nil
}

func (s *rateStore) List(ctx context.Context, asset string, side core.RateSide, fromGroup, toGroup int64) ([]*core.RateSnapshot, error) {
	var snapshots []*core.RateSnapshot
	if err := dbtx.From(ctx, s.db).View().
		Where("asset = ? AND side = ? AND block_group > ? AND block_group <= ?", asset, side, fromGroup, toGroup).
		Order("block_group").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}

	return snapshots, nil
}

func (s *rateStore) Latest(ctx context.Context, asset string, side core.RateSide) (*core.RateSnapshot, bool, error) {
	var snapshot core.RateSnapshot
	err := dbtx.From(ctx, s.db).View().
		Where("asset = ? AND side = ?", asset, side).
		Order("block_group DESC").
		First(&snapshot).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return &snapshot, true, nil
}
