package entities

import (
	"fmt"
	"math/big"

	"github.com/defistate/uniswapv4-client-go/calculator/sqrtpricemath"
	"github.com/defistate/uniswapv4-client-go/calculator/tickmath"
)

// TickToPrice returns the price of the base currency in terms of the quote
// currency at the given tick.
func TickToPrice(base, quote Currency, tick int) (Price, error) {
	sqrtRatioX96 := new(big.Int)
	if err := tickmath.GetSqrtRatioAtTick(sqrtRatioX96, tick); err != nil {
		return Price{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	ratioX192 := new(big.Int).Mul(sqrtRatioX96, sqrtRatioX96)

	sorted, err := base.Wrapped().SortsBefore(quote.Wrapped())
	if err != nil {
		return Price{}, err
	}
	if sorted {
		return NewPrice(base, quote, q192, ratioX192), nil
	}
	return NewPrice(base, quote, ratioX192, q192), nil
}

// PriceToClosestTick returns the tick whose price is closest to, without
// exceeding in the base-sorted orientation, the given price. The tie-break
// compares against the price one tick up, in the price's own orientation.
func PriceToClosestTick(price Price) (int, error) {
	sorted, err := price.Base.Wrapped().SortsBefore(price.Quote.Wrapped())
	if err != nil {
		return 0, err
	}

	var sqrtRatioX96 *big.Int
	if sorted {
		sqrtRatioX96 = sqrtpricemath.EncodeSqrtRatioX96(price.Numerator(), price.Denominator())
	} else {
		sqrtRatioX96 = sqrtpricemath.EncodeSqrtRatioX96(price.Denominator(), price.Numerator())
	}

	tick, err := tickmath.GetTickAtSqrtRatio(sqrtRatioX96)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	nextTickPrice, err := TickToPrice(price.Base, price.Quote, tick+1)
	if err != nil {
		return 0, err
	}
	if sorted {
		if price.Fraction.Cmp(nextTickPrice.Fraction) >= 0 {
			tick++
		}
	} else {
		if price.Fraction.Cmp(nextTickPrice.Fraction) <= 0 {
			tick++
		}
	}
	return tick, nil
}
