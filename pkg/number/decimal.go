package number

import (
	"github.com/shopspring/decimal"
)

// Decimal parse v, zero on failure
func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// Ceil round d up at precision
func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

// IsIntegral d has no fractional part
func IsIntegral(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}

// ToUnits convert a display amount into smallest units, flooring dust
func ToUnits(amount decimal.Decimal, decimals int32) decimal.Decimal {
	return amount.Shift(decimals).Truncate(0)
}

// FromUnits convert smallest units into a display amount
func FromUnits(units decimal.Decimal, decimals int32) decimal.Decimal {
	return units.Shift(-decimals)
}
