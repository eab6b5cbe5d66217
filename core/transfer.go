package core

import (
	"github.com/shopspring/decimal"
)

// Transfer transfer issued by a product operation
type Transfer struct {
	TraceID    string          `json:"trace_id,omitempty"`
	OpponentID string          `json:"opponent_id,omitempty"`
	AssetID    string          `json:"asset_id,omitempty"`
	Amount     decimal.Decimal `json:"amount,omitempty"`
	Memo       string          `json:"memo,omitempty"`
}
