package entities

import (
	"math/big"
	"strings"
)

var (
	one = big.NewInt(1)
	ten = big.NewInt(10)
)

// Fraction is an immutable arbitrary-precision rational. The zero value is
// not usable; construct values with NewFraction or NewFractionFromInt.
type Fraction struct {
	rat *big.Rat
}

// NewFraction builds a fraction from a numerator and denominator.
func NewFraction(numerator, denominator *big.Int) Fraction {
	return Fraction{rat: new(big.Rat).SetFrac(numerator, denominator)}
}

// NewFractionFromInt builds a whole-number fraction.
func NewFractionFromInt(n *big.Int) Fraction {
	return NewFraction(n, one)
}

// NewFractionFromInt64 builds a fraction from small integers.
func NewFractionFromInt64(numerator, denominator int64) Fraction {
	return Fraction{rat: big.NewRat(numerator, denominator)}
}

// Numerator returns the normalized numerator.
func (f Fraction) Numerator() *big.Int { return new(big.Int).Set(f.rat.Num()) }

// Denominator returns the normalized denominator. It is always positive.
func (f Fraction) Denominator() *big.Int { return new(big.Int).Set(f.rat.Denom()) }

// Rat returns a copy of the underlying rational.
func (f Fraction) Rat() *big.Rat { return new(big.Rat).Set(f.rat) }

func (f Fraction) Add(other Fraction) Fraction {
	return Fraction{rat: new(big.Rat).Add(f.rat, other.rat)}
}

func (f Fraction) Subtract(other Fraction) Fraction {
	return Fraction{rat: new(big.Rat).Sub(f.rat, other.rat)}
}

func (f Fraction) Multiply(other Fraction) Fraction {
	return Fraction{rat: new(big.Rat).Mul(f.rat, other.rat)}
}

func (f Fraction) Divide(other Fraction) Fraction {
	return Fraction{rat: new(big.Rat).Quo(f.rat, other.rat)}
}

// Invert returns the reciprocal of the fraction.
func (f Fraction) Invert() Fraction {
	return Fraction{rat: new(big.Rat).Inv(f.rat)}
}

// Cmp compares two fractions, returning -1, 0 or +1.
func (f Fraction) Cmp(other Fraction) int { return f.rat.Cmp(other.rat) }

// Sign returns the sign of the fraction.
func (f Fraction) Sign() int { return f.rat.Sign() }

// Quotient returns the fraction rounded toward negative infinity.
func (f Fraction) Quotient() *big.Int {
	return new(big.Int).Div(f.rat.Num(), f.rat.Denom())
}

// ToFixed formats the fraction with a fixed number of decimal places,
// rounding to nearest with ties away from zero.
func (f Fraction) ToFixed(places int) string {
	return f.rat.FloatString(places)
}

// ToSignificant formats the fraction with the given number of significant
// digits, trimming trailing fractional zeros.
func (f Fraction) ToSignificant(significantDigits int) string {
	if significantDigits <= 0 {
		significantDigits = 1
	}
	if f.rat.Sign() == 0 {
		return "0"
	}

	abs := new(big.Rat).Abs(f.rat)
	prefix := ""
	if f.rat.Sign() < 0 {
		prefix = "-"
	}

	intPart := new(big.Int).Quo(abs.Num(), abs.Denom())
	if intPart.Sign() > 0 {
		intDigits := len(intPart.String())
		if intDigits >= significantDigits {
			// Round at integer scale: everything past the leading
			// significant digits collapses to zeros.
			scale := new(big.Int).Exp(ten, big.NewInt(int64(intDigits-significantDigits)), nil)
			scaled := new(big.Rat).SetFrac(abs.Num(), new(big.Int).Mul(abs.Denom(), scale))
			rounded := roundRatToInt(scaled)
			return prefix + rounded.Mul(rounded, scale).String()
		}
		return prefix + trimFractionalZeros(abs.FloatString(significantDigits-intDigits))
	}

	// Value in (0, 1): count the zeros between the decimal point and the
	// first significant digit so they don't consume precision.
	leadingZeros := len(abs.Denom().String()) - len(abs.Num().String())
	check := new(big.Int).Exp(ten, big.NewInt(int64(leadingZeros)), nil)
	if check.Mul(check, abs.Num()).Cmp(abs.Denom()) >= 0 {
		leadingZeros--
	}
	return prefix + trimFractionalZeros(abs.FloatString(leadingZeros+significantDigits))
}

// roundRatToInt rounds a non-negative rational to the nearest integer, ties
// away from zero.
func roundRatToInt(r *big.Rat) *big.Int {
	q, rem := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	rem.Lsh(rem, 1)
	if rem.Cmp(r.Denom()) >= 0 {
		q.Add(q, one)
	}
	return q
}

func trimFractionalZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Percent is a fraction interpreted as a ratio out of one, used for slippage
// tolerances and price impact.
type Percent struct {
	Fraction
}

// NewPercent builds a percent from a numerator and denominator, e.g.
// NewPercent(5, 1000) is 0.5%.
func NewPercent(numerator, denominator int64) Percent {
	return Percent{NewFractionFromInt64(numerator, denominator)}
}

// NewPercentFromFraction wraps an existing fraction as a percent.
func NewPercentFromFraction(f Fraction) Percent {
	return Percent{f}
}

// ToSignificant formats the percent scaled by 100, i.e. "0.5" for 0.5%.
func (p Percent) ToSignificant(significantDigits int) string {
	return p.Multiply(NewFractionFromInt64(100, 1)).ToSignificant(significantDigits)
}
