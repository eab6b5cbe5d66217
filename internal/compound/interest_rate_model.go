package compound

import (
	"github.com/shopspring/decimal"
)

var (
	// InterestRateScale fixed-point scale of stored per-group rates
	InterestRateScale = decimal.New(1, 16)
	// BasisPointMultiplier basis points in one
	BasisPointMultiplier = decimal.NewFromInt(10000)
	// SecondsPerBlock seconds per block
	SecondsPerBlock int64 = 15
	// BlocksPerYear blocks per year
	BlocksPerYear int64 = 2102400
	// BlocksPerGroup blocks per group, one hour of 15s blocks
	BlocksPerGroup int64 = 240
)

// RateModel linear utilization model, every parameter in basis points per year
type RateModel struct {
	MinimumBorrowRateBPS int64
	BorrowRateSlopeBPS   int64
	SupplyRateSlopeBPS   int64
	BlockUnitsPerGroup   int64
	BlockUnitsPerYear    int64
}

// utilizationComplement returns numerator and denominator of 1 - cash/(cash+borrows).
// The denominator floors to 1, so an empty market has a complement of 1.
func utilizationComplement(cash, borrows decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	denom := cash.Add(borrows)
	if denom.LessThan(decimal.New(1, 0)) {
		denom = decimal.New(1, 0)
	}

	return denom.Sub(cash), denom
}

// UtilizationComplement 1 - cash/(cash+borrows), truncated to 16 places
func UtilizationComplement(cash, borrows decimal.Decimal) decimal.Decimal {
	num, denom := utilizationComplement(cash, borrows)
	return num.DivRound(denom, 32).Truncate(16)
}

// ScaledBorrowRatePerGroup borrow rate per group scaled by InterestRateScale
//
//	borrow_bps = minimum + complement * slope
//	per_group  = borrow_bps * scale * units_per_group / (units_per_year * bps)
//
// The complement's division is deferred into the final floor division.
func (m RateModel) ScaledBorrowRatePerGroup(cash, borrows decimal.Decimal) decimal.Decimal {
	num, denom := utilizationComplement(cash, borrows)

	// bps * denom
	bps := decimal.NewFromInt(m.MinimumBorrowRateBPS).Mul(denom).
		Add(num.Mul(decimal.NewFromInt(m.BorrowRateSlopeBPS)))

	return m.scale(bps, denom)
}

// ScaledSupplyRatePerGroup supply rate per group scaled by InterestRateScale
func (m RateModel) ScaledSupplyRatePerGroup(cash, borrows decimal.Decimal) decimal.Decimal {
	num, denom := utilizationComplement(cash, borrows)
	bps := num.Mul(decimal.NewFromInt(m.SupplyRateSlopeBPS))
	return m.scale(bps, denom)
}

// ScaledRatePerGroup convert an annual rate in basis points to a scaled per-group rate
func (m RateModel) ScaledRatePerGroup(bps int64) decimal.Decimal {
	return m.scale(decimal.NewFromInt(bps), decimal.New(1, 0))
}

func (m RateModel) scale(bpsTimesDenom, denom decimal.Decimal) decimal.Decimal {
	num := bpsTimesDenom.Mul(InterestRateScale).Mul(decimal.NewFromInt(m.BlockUnitsPerGroup))
	div := denom.Mul(decimal.NewFromInt(m.BlockUnitsPerYear)).Mul(BasisPointMultiplier)
	if div.IsZero() {
		return decimal.Zero
	}

	return FloorDiv(num, div)
}

// FloorDiv integer division of non-negative a by b
func FloorDiv(a, b decimal.Decimal) decimal.Decimal {
	q, _ := a.QuoRem(b, 0)
	return q
}

// MulDiv floor(a * b / c), multiplying first
func MulDiv(a, b, c decimal.Decimal) decimal.Decimal {
	return FloorDiv(a.Mul(b), c)
}
