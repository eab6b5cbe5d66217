package compound

import (
	"github.com/shopspring/decimal"
)

// Compound multiply principal through every scaled per-group rate in order.
//
// Each step floors to the smallest unit:
//
//	balance = floor(balance * (scale + rate) / scale)
func Compound(principal decimal.Decimal, rates []decimal.Decimal) decimal.Decimal {
	balance := principal
	for _, rate := range rates {
		if rate.IsZero() {
			continue
		}

		balance = MulDiv(balance, InterestRateScale.Add(rate), InterestRateScale)
	}

	return balance
}
