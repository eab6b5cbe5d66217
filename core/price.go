package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Price price of one whole unit of an asset in the valuation unit
type Price struct {
	ID        int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	AssetID   string          `sql:"size:36;unique_index:idx_prices" json:"asset_id,omitempty"`
	Block     int64           `sql:"default:0;unique_index:idx_prices" json:"block,omitempty"`
	Price     decimal.Decimal `sql:"type:decimal(32,16)" json:"price,omitempty"`
	Provider  string          `sql:"size:64" json:"provider,omitempty"`
	Version   int64           `sql:"default:0" json:"version,omitempty"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// PriceTicker price ticker
type PriceTicker struct {
	Provider string          `json:"provider,omitempty"`
	Symbol   string          `json:"symbol,omitempty"`
	Price    decimal.Decimal `json:"price,omitempty"`
}

// PriceStore price store interface
type PriceStore interface {
	Create(ctx context.Context, price *Price) error
	Latest(ctx context.Context, assetID string) (*Price, bool, error)
	DeleteByTime(ctx context.Context, t time.Time) error
}

// PriceTickerService pulls tickers from the upstream price source
type PriceTickerService interface {
	PullPriceTicker(ctx context.Context, assetID string, t time.Time) (*PriceTicker, error)
}
