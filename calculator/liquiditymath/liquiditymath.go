package liquiditymath

import (
	"errors"
	"math/big"

	"github.com/defistate/uniswapv4-client-go/calculator/sqrtpricemath"
)

var (
	// maxUint128 is the maximum value for a uint128 (2^128 - 1).
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	ErrLiquidityOverflow  = errors.New("liquidity overflow")
	ErrLiquidityUnderflow = errors.New("liquidity underflow")
)

// AddDelta adds a signed liquidity delta to an unsigned liquidity value,
// returning an error if the operation results in an overflow or underflow.
func AddDelta(dest *big.Int, x *big.Int, y *big.Int) error {
	// Perform the addition/subtraction.
	dest.Add(x, y)

	// Check for underflow (result is negative).
	if dest.Sign() < 0 {
		return ErrLiquidityUnderflow
	}

	// Check for overflow (result is greater than the max value for a uint128).
	if dest.Cmp(maxUint128) > 0 {
		return ErrLiquidityOverflow
	}

	return nil
}

// MaxLiquidityForAmount0Imprecise computes the maximum liquidity a token0
// amount can support between two prices, shedding precision the way the
// pool contract does. None of these helpers sit on the swap hot path, so
// they allocate their results.
func MaxLiquidityForAmount0Imprecise(sqrtRatioAX96, sqrtRatioBX96, amount0 *big.Int) *big.Int {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}
	intermediate := new(big.Int).Mul(sqrtRatioAX96, sqrtRatioBX96)
	intermediate.Div(intermediate, sqrtpricemath.Q96)
	numerator := new(big.Int).Mul(amount0, intermediate)
	return numerator.Div(numerator, new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96))
}

// MaxLiquidityForAmount0Precise computes the same quantity without the
// intermediate precision loss. The result can exceed what the pool itself
// would compute, so it must not feed a mint that has to match on-chain
// rounding exactly.
func MaxLiquidityForAmount0Precise(sqrtRatioAX96, sqrtRatioBX96, amount0 *big.Int) *big.Int {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}
	numerator := new(big.Int).Mul(amount0, sqrtRatioAX96)
	numerator.Mul(numerator, sqrtRatioBX96)
	denominator := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)
	denominator.Mul(denominator, sqrtpricemath.Q96)
	return numerator.Div(numerator, denominator)
}

// MaxLiquidityForAmount1 computes the maximum liquidity a token1 amount can
// support between two prices.
func MaxLiquidityForAmount1(sqrtRatioAX96, sqrtRatioBX96, amount1 *big.Int) *big.Int {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}
	numerator := new(big.Int).Mul(amount1, sqrtpricemath.Q96)
	return numerator.Div(numerator, new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96))
}

// MaxLiquidityForAmounts computes the maximum liquidity that both token
// amounts can support at the current price within a tick range. With the
// current price below the range only token0 matters, above it only token1,
// inside it the smaller of the two bounds wins.
func MaxLiquidityForAmounts(sqrtRatioCurrentX96, sqrtRatioAX96, sqrtRatioBX96, amount0, amount1 *big.Int, useFullPrecision bool) *big.Int {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}

	maxLiquidityForAmount0 := MaxLiquidityForAmount0Imprecise
	if useFullPrecision {
		maxLiquidityForAmount0 = MaxLiquidityForAmount0Precise
	}

	switch {
	case sqrtRatioCurrentX96.Cmp(sqrtRatioAX96) <= 0:
		return maxLiquidityForAmount0(sqrtRatioAX96, sqrtRatioBX96, amount0)
	case sqrtRatioCurrentX96.Cmp(sqrtRatioBX96) < 0:
		liquidity0 := maxLiquidityForAmount0(sqrtRatioCurrentX96, sqrtRatioBX96, amount0)
		liquidity1 := MaxLiquidityForAmount1(sqrtRatioAX96, sqrtRatioCurrentX96, amount1)
		if liquidity0.Cmp(liquidity1) < 0 {
			return liquidity0
		}
		return liquidity1
	default:
		return MaxLiquidityForAmount1(sqrtRatioAX96, sqrtRatioBX96, amount1)
	}
}
