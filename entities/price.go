package entities

import "math/big"

// Price is an exchange rate between two currencies, held as a fraction of
// raw quote units per raw base unit.
type Price struct {
	Base  Currency
	Quote Currency
	Fraction
}

// NewPrice builds a price from raw-unit amounts: denominator base units buy
// numerator quote units.
func NewPrice(base, quote Currency, denominator, numerator *big.Int) Price {
	return Price{Base: base, Quote: quote, Fraction: NewFraction(numerator, denominator)}
}

// NewPriceFromFraction builds a price from an existing raw-unit fraction.
func NewPriceFromFraction(base, quote Currency, f Fraction) Price {
	return Price{Base: base, Quote: quote, Fraction: f}
}

// Invert flips the price's orientation.
func (p Price) Invert() Price {
	return Price{Base: p.Quote, Quote: p.Base, Fraction: p.Fraction.Invert()}
}

// Multiply chains two prices; the receiver's quote currency must be the
// other's base.
func (p Price) Multiply(other Price) (Price, error) {
	if !p.Quote.Equals(other.Base) {
		return Price{}, ErrCurrencyMismatch
	}
	return Price{Base: p.Base, Quote: other.Quote, Fraction: p.Fraction.Multiply(other.Fraction)}, nil
}

// QuoteAmount converts an amount of the base currency into the quote
// currency at this price.
func (p Price) QuoteAmount(amount CurrencyAmount) (CurrencyAmount, error) {
	if !amount.Currency.Equals(p.Base) {
		return CurrencyAmount{}, ErrCurrencyMismatch
	}
	return CurrencyAmount{Currency: p.Quote, Fraction: p.Fraction.Multiply(amount.Fraction)}, nil
}

// adjustedForDecimals rescales the raw-unit fraction into whole-currency
// terms.
func (p Price) adjustedForDecimals() Fraction {
	scalar := NewFraction(
		new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(p.Base.Decimals())), nil),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(p.Quote.Decimals())), nil),
	)
	return p.Fraction.Multiply(scalar)
}

// ToSignificant formats the decimal-adjusted price with the given number of
// significant digits.
func (p Price) ToSignificant(significantDigits int) string {
	return p.adjustedForDecimals().ToSignificant(significantDigits)
}

// ToFixed formats the decimal-adjusted price with a fixed number of decimal
// places.
func (p Price) ToFixed(places int) string {
	return p.adjustedForDecimals().ToFixed(places)
}
