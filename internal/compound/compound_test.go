package compound

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCompoundPathExact(t *testing.T) {
	m := testModel()
	r1 := m.ScaledRatePerGroup(100)
	r2 := m.ScaledRatePerGroup(200)
	principal := decimal.NewFromInt(1000000000)

	got := Compound(principal, []decimal.Decimal{r1, r2})

	step := MulDiv(principal, InterestRateScale.Add(r1), InterestRateScale)
	step = MulDiv(step, InterestRateScale.Add(r2), InterestRateScale)
	assert.Equal(t, step.String(), got.String())
	assert.Equal(t, "1000003424", got.String())
}

func TestCompoundFourGroups(t *testing.T) {
	m := testModel()
	rates := []decimal.Decimal{
		m.ScaledRatePerGroup(100),
		m.ScaledRatePerGroup(200),
		m.ScaledRatePerGroup(300),
		m.ScaledRatePerGroup(400),
	}

	assert.Equal(t, "1000", Compound(decimal.NewFromInt(1000), rates).String())
	assert.Equal(t, "1000011415569", Compound(decimal.NewFromInt(1000000000000), rates).String())
	assert.Equal(t, "1000011415570724048", Compound(decimal.New(1, 18), rates).String())
}

func TestCompoundNoRates(t *testing.T) {
	principal := decimal.NewFromInt(42)
	assert.True(t, Compound(principal, nil).Equal(principal))
	assert.True(t, Compound(principal, []decimal.Decimal{decimal.Zero}).Equal(principal))
}
