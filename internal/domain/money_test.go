package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyExactTwoDigits(t *testing.T) {
	a, err := MoneyFromString("0.10")
	require.NoError(t, err)
	b, err := MoneyFromString("0.20")
	require.NoError(t, err)

	// 0.10 + 0.20 is exactly 0.30; no binary-float drift.
	assert.Equal(t, "0.30", a.Add(b).String())

	c, err := MoneyFromString("1234567890123.45")
	require.NoError(t, err)
	assert.Equal(t, "1234567890123.45", c.String())
}

func TestMoneyRejectsNegative(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = MoneyFromString("-0.01")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = MoneyFromString("abc")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMoneyRatio(t *testing.T) {
	big, err := MoneyFromString("600000.00")
	require.NoError(t, err)
	small, err := MoneyFromString("50000.00")
	require.NoError(t, err)

	ratio, ok := big.Ratio(small)
	require.True(t, ok)
	assert.Equal(t, "12", ratio.String())

	_, ok = big.Ratio(Money{})
	assert.False(t, ok, "division by zero yields no ratio")
}

func TestShareBounds(t *testing.T) {
	_, err := ShareFromString("100")
	assert.NoError(t, err)
	_, err = ShareFromString("0")
	assert.NoError(t, err)
	_, err = ShareFromString("100.01")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ShareFromString("-1")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestScoreBreakdownTotalClamp(t *testing.T) {
	b := ScoreBreakdown{}
	for _, k := range IndicatorKinds {
		b.Indicators = append(b.Indicators, Indicator{Kind: k, Weight: IndicatorWeights[k]})
	}
	// All nine weights sum to 105; the total clamps.
	assert.Equal(t, 100, b.Total())
}
