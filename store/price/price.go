package price

import (
	"context"
	"time"

	"lendledger/core"
	"lendledger/store/dbtx"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type priceStore struct {
	db *db.DB
}

// New new price store
func New(db *db.DB) core.PriceStore {
	return &priceStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Price{})

		if err := tx.AutoMigrate(core.Price{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Create record the price of the block, the first price of a block wins
func (s *priceStore) Create(ctx context.Context, price *core.Price) error {
	return dbtx.From(ctx, s.db).Update().
		Where("asset_id = ? AND block = ?", price.AssetID, price.Block).
		FirstOrCreate(price).Error
}

func (s *priceStore) Latest(ctx context.Context, assetID string) (*core.Price, bool, error) {
	var price core.Price
	if err := dbtx.From(ctx, s.db).View().
		Where("asset_id = ?", assetID).
		Order("block DESC").
		First(&price).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return &price, true, nil
}

func (s *priceStore) DeleteByTime(ctx context.Context, t time.Time) error {
	return dbtx.From(ctx, s.db).Update().Where("created_at < ?", t).Delete(core.Price{}).Error
}
