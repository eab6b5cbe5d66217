package compound

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testModel() RateModel {
	return RateModel{
		MinimumBorrowRateBPS: 200,
		BorrowRateSlopeBPS:   1000,
		SupplyRateSlopeBPS:   800,
		BlockUnitsPerGroup:   BlocksPerGroup,
		BlockUnitsPerYear:    BlocksPerYear,
	}
}

func TestScaledRatePerGroup(t *testing.T) {
	m := testModel()

	data := map[int64]string{
		100:  "11415525114",
		200:  "22831050228",
		300:  "34246575342",
		400:  "45662100456",
		1200: "136986301369",
	}

	for bps, want := range data {
		assert.Equal(t, want, m.ScaledRatePerGroup(bps).String(), "bps %d", bps)
	}
}

func TestScaledBorrowRatePerGroup(t *testing.T) {
	m := testModel()
	d := decimal.NewFromInt

	t.Run("empty market floors denominator", func(t *testing.T) {
		// 1 - 0/1 = 1, so the full slope applies
		assert.Equal(t, m.ScaledRatePerGroup(1200).String(), m.ScaledBorrowRatePerGroup(d(0), d(0)).String())
		assert.Equal(t, m.ScaledRatePerGroup(800).String(), m.ScaledSupplyRatePerGroup(d(0), d(0)).String())
	})

	t.Run("no borrows", func(t *testing.T) {
		assert.Equal(t, m.ScaledRatePerGroup(200).String(), m.ScaledBorrowRatePerGroup(d(1000), d(0)).String())
		assert.True(t, m.ScaledSupplyRatePerGroup(d(1000), d(0)).IsZero())
	})

	t.Run("half utilized", func(t *testing.T) {
		assert.Equal(t, "79908675799", m.ScaledBorrowRatePerGroup(d(500), d(500)).String())
		assert.Equal(t, m.ScaledRatePerGroup(400).String(), m.ScaledSupplyRatePerGroup(d(500), d(500)).String())
	})

	t.Run("fully utilized", func(t *testing.T) {
		assert.Equal(t, m.ScaledRatePerGroup(1200).String(), m.ScaledBorrowRatePerGroup(d(0), d(1000)).String())
	})
}

func TestUtilizationComplement(t *testing.T) {
	d := decimal.NewFromInt
	assert.Equal(t, "1", UtilizationComplement(d(0), d(0)).String())
	assert.Equal(t, "0.25", UtilizationComplement(d(300), d(100)).String())
	assert.Equal(t, "0", UtilizationComplement(d(300), d(0)).String())
}

func TestMulDiv(t *testing.T) {
	d := decimal.NewFromInt
	assert.Equal(t, "3", MulDiv(d(7), d(3), d(7)).String())
	assert.Equal(t, "2", MulDiv(d(5), d(3), d(7)).String())
	assert.Equal(t, "0", MulDiv(d(1), d(1), d(2)).String())
}
