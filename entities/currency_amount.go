package entities

import "math/big"

// CurrencyAmount pairs a currency with a rational amount of its raw units.
type CurrencyAmount struct {
	Currency Currency
	Fraction
}

// NewCurrencyAmount builds an amount from raw units.
func NewCurrencyAmount(currency Currency, raw *big.Int) CurrencyAmount {
	return CurrencyAmount{Currency: currency, Fraction: NewFractionFromInt(raw)}
}

// NewFractionalCurrencyAmount builds an amount from a raw-unit fraction.
func NewFractionalCurrencyAmount(currency Currency, numerator, denominator *big.Int) CurrencyAmount {
	return CurrencyAmount{Currency: currency, Fraction: NewFraction(numerator, denominator)}
}

// Add sums two amounts of the same currency.
func (a CurrencyAmount) Add(other CurrencyAmount) (CurrencyAmount, error) {
	if !a.Currency.Equals(other.Currency) {
		return CurrencyAmount{}, ErrCurrencyMismatch
	}
	return CurrencyAmount{Currency: a.Currency, Fraction: a.Fraction.Add(other.Fraction)}, nil
}

// Subtract computes the difference of two amounts of the same currency.
func (a CurrencyAmount) Subtract(other CurrencyAmount) (CurrencyAmount, error) {
	if !a.Currency.Equals(other.Currency) {
		return CurrencyAmount{}, ErrCurrencyMismatch
	}
	return CurrencyAmount{Currency: a.Currency, Fraction: a.Fraction.Subtract(other.Fraction)}, nil
}

// MultiplyFraction scales the amount by a fraction, keeping the currency.
func (a CurrencyAmount) MultiplyFraction(f Fraction) CurrencyAmount {
	return CurrencyAmount{Currency: a.Currency, Fraction: a.Fraction.Multiply(f)}
}

// Wrapped returns the same amount denominated in the currency's token form.
func (a CurrencyAmount) Wrapped() CurrencyAmount {
	return CurrencyAmount{Currency: a.Currency.Wrapped(), Fraction: a.Fraction}
}

// ToExactSignificant formats the amount in whole-currency units with the
// given number of significant digits.
func (a CurrencyAmount) ToExactSignificant(significantDigits int) string {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(a.Currency.Decimals())), nil)
	return a.Fraction.Divide(NewFractionFromInt(scale)).ToSignificant(significantDigits)
}
