package entities

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFractionArithmetic(t *testing.T) {
	half := NewFractionFromInt64(1, 2)
	third := NewFractionFromInt64(1, 3)

	t.Run("add", func(t *testing.T) {
		assert.Zero(t, half.Add(third).Cmp(NewFractionFromInt64(5, 6)))
	})

	t.Run("subtract", func(t *testing.T) {
		assert.Zero(t, half.Subtract(third).Cmp(NewFractionFromInt64(1, 6)))
	})

	t.Run("multiply", func(t *testing.T) {
		assert.Zero(t, half.Multiply(third).Cmp(NewFractionFromInt64(1, 6)))
	})

	t.Run("divide", func(t *testing.T) {
		assert.Zero(t, half.Divide(third).Cmp(NewFractionFromInt64(3, 2)))
	})

	t.Run("invert", func(t *testing.T) {
		assert.Zero(t, half.Invert().Cmp(NewFractionFromInt64(2, 1)))
	})

	t.Run("results normalize", func(t *testing.T) {
		f := NewFractionFromInt64(2, 4)
		assert.Equal(t, int64(1), f.Numerator().Int64())
		assert.Equal(t, int64(2), f.Denominator().Int64())
	})
}

func TestFractionQuotient(t *testing.T) {
	assert.Equal(t, int64(2), NewFractionFromInt64(5, 2).Quotient().Int64())
	assert.Equal(t, int64(-3), NewFractionFromInt64(-5, 2).Quotient().Int64())
	assert.Equal(t, int64(3), NewFractionFromInt64(3, 1).Quotient().Int64())
}

func TestFractionToSignificant(t *testing.T) {
	cases := []struct {
		name     string
		num, den int64
		digits   int
		expected string
	}{
		{"integer shorter than digits", 5, 1, 4, "5"},
		{"integer rounding", 123456, 1, 4, "123500"},
		{"mixed value", 101, 100, 5, "1.01"},
		{"trims trailing zeros", 3, 2, 5, "1.5"},
		{"below one", 1, 8, 4, "0.125"},
		{"leading zeros preserved", 1, 1000, 3, "0.001"},
		{"small value keeps precision", 123, 10000000, 3, "0.0000123"},
		{"negative", -101, 100, 5, "-1.01"},
		{"zero", 0, 1, 5, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NewFractionFromInt64(tc.num, tc.den).ToSignificant(tc.digits))
		})
	}
}

func TestFractionToFixed(t *testing.T) {
	assert.Equal(t, "0.1000", NewFractionFromInt64(1, 10).ToFixed(4))
	assert.Equal(t, "1.0", NewFractionFromInt64(1, 1).ToFixed(1))
	assert.Equal(t, "0.33", NewFractionFromInt64(1, 3).ToFixed(2))
	assert.Equal(t, "0.67", NewFractionFromInt64(2, 3).ToFixed(2))
}

func TestPercent(t *testing.T) {
	t.Run("formats scaled by one hundred", func(t *testing.T) {
		assert.Equal(t, "0.5", NewPercent(5, 1000).ToSignificant(5))
		assert.Equal(t, "100", NewPercent(1, 1).ToSignificant(5))
	})

	t.Run("wraps an existing fraction", func(t *testing.T) {
		p := NewPercentFromFraction(NewFraction(big.NewInt(1), big.NewInt(4)))
		assert.Equal(t, "25", p.ToSignificant(5))
	})
}
