package core

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RateSide which side of the market a rate series prices
type RateSide int

const (
	_ RateSide = iota
	// RateSideBorrow borrow rate series
	RateSideBorrow
	// RateSideSupply supply rate series
	RateSideSupply
)

func (s RateSide) String() string {
	switch s {
	case RateSideBorrow:
		return "borrow"
	case RateSideSupply:
		return "supply"
	default:
		return fmt.Sprintf("RateSide(%d)", int(s))
	}
}

// ParseRateSide parse rate side from its name
func ParseRateSide(s string) (RateSide, error) {
	switch s {
	case "borrow":
		return RateSideBorrow, nil
	case "supply":
		return RateSideSupply, nil
	default:
		return 0, fmt.Errorf("unknown rate side %q", s)
	}
}

// Value implements driver.Valuer
func (s RateSide) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner
func (s *RateSide) Scan(src interface{}) error {
	var str string
	switch v := src.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("scan rate side: unsupported type %T", src)
	}

	side, err := ParseRateSide(str)
	if err != nil {
		return err
	}

	*s = side
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (s RateSide) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// RateSnapshot scaled per-group rate recorded for one block group
type RateSnapshot struct {
	ID    int64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"-"`
	Asset string   `sql:"size:36;unique_index:idx_rate_snapshots_key" json:"asset"`
	Side  RateSide `sql:"type:varchar(12);unique_index:idx_rate_snapshots_key" json:"side"`
	Group int64    `gorm:"column:block_group" sql:"unique_index:idx_rate_snapshots_key" json:"group"`
	// Rate per group, scaled by InterestRateScale
	Rate      decimal.Decimal `sql:"type:decimal(40,0)" json:"rate"`
	Block     int64           `json:"block"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// RateStore rate snapshot store interface, append-only per (asset, side, group)
type RateStore interface {
	// Create returns false without touching the stored row when the group is taken
	Create(ctx context.Context, snapshot *RateSnapshot) (bool, error)
	Find(ctx context.Context, asset string, side RateSide, group int64) (*RateSnapshot, bool, error)
	// List snapshots with fromGroup < group <= toGroup, ascending by group
	List(ctx context.Context, asset string, side RateSide, fromGroup, toGroup int64) ([]*RateSnapshot, error)
	Latest(ctx context.Context, asset string, side RateSide) (*RateSnapshot, bool, error)
}

// InterestService interest-rate snapshot engine
type InterestService interface {
	CurrentBlock(ctx context.Context) (int64, error)
	GroupOf(block int64) int64
	SnapshotCurrentRate(ctx context.Context, asset string, side RateSide, rate decimal.Decimal) (bool, error)
	SnapshotMarket(ctx context.Context, asset string) error
	ScaledBorrowRatePerGroup(ctx context.Context, asset string) (decimal.Decimal, error)
	ScaledSupplyRatePerGroup(ctx context.Context, asset string) (decimal.Decimal, error)
	GetCurrentBalance(ctx context.Context, asset string, side RateSide, fromBlock int64, principal decimal.Decimal) (decimal.Decimal, error)
	GetBalanceAt(ctx context.Context, asset string, side RateSide, fromBlock int64, principal decimal.Decimal, atBlock int64) (decimal.Decimal, error)
}

// AccrualService brings a (customer, kind, asset) checkpoint current
type AccrualService interface {
	Kind() AccountKind
	AccrueInterest(ctx context.Context, customer, asset string) (decimal.Decimal, error)
	BalanceWithInterest(ctx context.Context, customer, asset string) (decimal.Decimal, error)
	BalanceAt(ctx context.Context, customer, asset string, block int64) (decimal.Decimal, error)
}
