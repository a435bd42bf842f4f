package entities

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// symmetricPosition is a ±100 tick range around parity on a DAI/USDC pool.
func symmetricPosition(t *testing.T, liquidity *big.Int) *Position {
	t.Helper()
	pool := newLiquidPool(t, testUSDC, testDAI, feeMedium, sqrtRatio11, oneEther)
	return NewPosition(pool, liquidity, -100, 100)
}

func TestNewPositionPanics(t *testing.T) {
	pool := newLiquidPool(t, testUSDC, testDAI, feeMedium, sqrtRatio11, oneEther)

	assert.Panics(t, func() { NewPosition(pool, oneEther, 100, 100) }, "unordered range")
	assert.Panics(t, func() { NewPosition(pool, oneEther, -5, 100) }, "unaligned lower tick")
	assert.Panics(t, func() { NewPosition(pool, oneEther, -100, 105) }, "unaligned upper tick")
	assert.Panics(t, func() { NewPosition(pool, oneEther, -887280, 100) }, "lower tick out of bounds")
	assert.Panics(t, func() { NewPosition(pool, oneEther, -100, 887280) }, "upper tick out of bounds")
}

func TestPositionAmounts(t *testing.T) {
	pool := newLiquidPool(t, testUSDC, testDAI, feeMedium, sqrtRatio11, oneEther)

	t.Run("below the range only currency0 remains", func(t *testing.T) {
		position := NewPosition(pool, oneEther, 100, 200)
		amount0, err := position.Amount0()
		require.NoError(t, err)
		amount1, err := position.Amount1()
		require.NoError(t, err)
		assert.Positive(t, amount0.Quotient().Sign())
		assert.Zero(t, amount1.Quotient().Sign())
	})

	t.Run("above the range only currency1 remains", func(t *testing.T) {
		position := NewPosition(pool, oneEther, -200, -100)
		amount0, err := position.Amount0()
		require.NoError(t, err)
		amount1, err := position.Amount1()
		require.NoError(t, err)
		assert.Zero(t, amount0.Quotient().Sign())
		assert.Positive(t, amount1.Quotient().Sign())
	})

	t.Run("a symmetric in-range position splits evenly", func(t *testing.T) {
		position := symmetricPosition(t, oneEther)
		amount0, err := position.Amount0()
		require.NoError(t, err)
		amount1, err := position.Amount1()
		require.NoError(t, err)
		assert.Positive(t, amount0.Quotient().Sign())
		// At parity the two sides of a symmetric range hold the same value,
		// up to independent rounding of each side.
		diff := new(big.Int).Sub(amount0.Quotient(), amount1.Quotient())
		assert.True(t, diff.CmpAbs(bigOne) <= 0, "amount0 %s vs amount1 %s", amount0.Quotient(), amount1.Quotient())
	})

	t.Run("cached accessors agree with the plain ones", func(t *testing.T) {
		position := symmetricPosition(t, oneEther)
		plain, err := position.Amount0()
		require.NoError(t, err)
		cached, err := position.Amount0Cached()
		require.NoError(t, err)
		again, err := position.Amount0Cached()
		require.NoError(t, err)
		assert.Zero(t, plain.Fraction.Cmp(cached.Fraction))
		assert.Zero(t, plain.Fraction.Cmp(again.Fraction))
	})
}

func TestPositionMintAmounts(t *testing.T) {
	position := symmetricPosition(t, oneEther)

	amount0, err := position.Amount0()
	require.NoError(t, err)
	amount1, err := position.Amount1()
	require.NoError(t, err)
	mint0, mint1, err := position.MintAmounts()
	require.NoError(t, err)

	// Minting rounds in the pool's favor, holdings round in the holder's.
	assert.True(t, mint0.Cmp(amount0.Quotient()) >= 0)
	assert.True(t, mint1.Cmp(amount1.Quotient()) >= 0)
	assert.True(t, new(big.Int).Sub(mint0, amount0.Quotient()).Cmp(bigOne) <= 0)
	assert.True(t, new(big.Int).Sub(mint1, amount1.Quotient()).Cmp(bigOne) <= 0)

	cached0, cached1, err := position.MintAmountsCached()
	require.NoError(t, err)
	assert.Zero(t, mint0.Cmp(cached0))
	assert.Zero(t, mint1.Cmp(cached1))
}

func TestMintAmountsWithSlippage(t *testing.T) {
	position := symmetricPosition(t, oneEther)
	mint0, mint1, err := position.MintAmounts()
	require.NoError(t, err)

	zero0, zero1, err := position.MintAmountsWithSlippage(NewPercent(0, 100))
	require.NoError(t, err)
	small0, small1, err := position.MintAmountsWithSlippage(NewPercent(5, 1000))
	require.NoError(t, err)
	large0, large1, err := position.MintAmountsWithSlippage(NewPercent(5, 100))
	require.NoError(t, err)

	// Wider tolerance can only raise the amounts a mint may owe.
	assert.True(t, small0.Cmp(zero0) >= 0)
	assert.True(t, small1.Cmp(zero1) >= 0)
	assert.True(t, large0.Cmp(small0) >= 0)
	assert.True(t, large1.Cmp(small1) >= 0)

	// And never below what the mint itself pulls at the current price, less
	// the re-derivation's truncation.
	assert.True(t, large0.Cmp(mint0) >= 0 || new(big.Int).Sub(mint0, large0).Cmp(big.NewInt(10)) <= 0)
	assert.True(t, large1.Cmp(mint1) >= 0 || new(big.Int).Sub(mint1, large1).Cmp(big.NewInt(10)) <= 0)
}

func TestBurnAmountsWithSlippage(t *testing.T) {
	position := symmetricPosition(t, oneEther)
	amount0, err := position.Amount0()
	require.NoError(t, err)
	amount1, err := position.Amount1()
	require.NoError(t, err)

	zero0, zero1, err := position.BurnAmountsWithSlippage(NewPercent(0, 100))
	require.NoError(t, err)
	assert.Zero(t, zero0.Cmp(amount0.Quotient()))
	assert.Zero(t, zero1.Cmp(amount1.Quotient()))

	small0, small1, err := position.BurnAmountsWithSlippage(NewPercent(5, 1000))
	require.NoError(t, err)
	large0, large1, err := position.BurnAmountsWithSlippage(NewPercent(5, 100))
	require.NoError(t, err)

	// Wider tolerance can only lower the guaranteed floor.
	assert.True(t, small0.Cmp(zero0) <= 0)
	assert.True(t, small1.Cmp(zero1) <= 0)
	assert.True(t, large0.Cmp(small0) <= 0)
	assert.True(t, large1.Cmp(small1) <= 0)
}

func TestFromAmounts(t *testing.T) {
	position := symmetricPosition(t, oneEther)
	mint0, mint1, err := position.MintAmounts()
	require.NoError(t, err)

	t.Run("recovers the funding liquidity", func(t *testing.T) {
		rebuilt := FromAmounts(position.Pool, position.TickLower, position.TickUpper, mint0, mint1, false)
		diff := new(big.Int).Sub(rebuilt.Liquidity, position.Liquidity)
		assert.True(t, diff.CmpAbs(big.NewInt(10_000)) <= 0, "rebuilt liquidity %s vs %s", rebuilt.Liquidity, position.Liquidity)
	})

	t.Run("single-sided builders bind on their amount", func(t *testing.T) {
		from0 := FromAmount0(position.Pool, position.TickLower, position.TickUpper, mint0, true)
		from1 := FromAmount1(position.Pool, position.TickLower, position.TickUpper, mint1)
		got0, _, err := from0.MintAmounts()
		require.NoError(t, err)
		_, got1, err := from1.MintAmounts()
		require.NoError(t, err)
		assert.True(t, got0.Cmp(mint0) <= 0)
		assert.True(t, got1.Cmp(mint1) <= 0)
	})
}

func TestPositionPriceBounds(t *testing.T) {
	position := symmetricPosition(t, oneEther)
	lower, err := position.Token0PriceLower()
	require.NoError(t, err)
	upper, err := position.Token0PriceUpper()
	require.NoError(t, err)

	wantLower, err := TickToPrice(position.Pool.Currency0, position.Pool.Currency1, -100)
	require.NoError(t, err)
	wantUpper, err := TickToPrice(position.Pool.Currency0, position.Pool.Currency1, 100)
	require.NoError(t, err)
	assert.Zero(t, lower.Fraction.Cmp(wantLower.Fraction))
	assert.Zero(t, upper.Fraction.Cmp(wantUpper.Fraction))
	assert.Equal(t, -1, lower.Fraction.Cmp(upper.Fraction))
}

func TestCalculatePositionKey(t *testing.T) {
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	salt := common.HexToHash("0x0000000000000000000000000000000000000000000000000000000000000001")

	key := CalculatePositionKey(owner, -100, 100, salt)
	assert.Equal(t, key, CalculatePositionKey(owner, -100, 100, salt))

	assert.NotEqual(t, key, CalculatePositionKey(owner, -100, 100, common.Hash{}))
	assert.NotEqual(t, key, CalculatePositionKey(owner, -200, 100, salt))
	assert.NotEqual(t, key, CalculatePositionKey(owner, -100, 200, salt))
	other := common.HexToAddress("0x2222222222222222222222222222222222222222")
	assert.NotEqual(t, key, CalculatePositionKey(other, -100, 100, salt))

	// Negative ticks pack as two's complement, so sign flips change the key.
	assert.NotEqual(t, CalculatePositionKey(owner, -100, 100, salt), CalculatePositionKey(owner, 100, 200, salt))
}
