package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/defistate/uniswapv4-client-go/calculator/liquiditymath"
	"github.com/defistate/uniswapv4-client-go/calculator/sqrtpricemath"
	"github.com/defistate/uniswapv4-client-go/calculator/tickmath"
)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 256), bigOne)

// Position is a liquidity range on a pool. Amount accessors with a Cached
// suffix memoize on the receiver and are not safe for concurrent use.
type Position struct {
	Pool      *Pool
	TickLower int
	TickUpper int
	Liquidity *big.Int

	token0Amount *CurrencyAmount
	token1Amount *CurrencyAmount
	mintAmounts  *[2]*big.Int
}

// NewPosition builds a position. Tick preconditions are caller bugs and
// panic: the range must be ordered, aligned to the pool's tick spacing and
// inside the usable tick range.
func NewPosition(pool *Pool, liquidity *big.Int, tickLower, tickUpper int) *Position {
	if tickLower >= tickUpper {
		panic("position tick range is not ordered")
	}
	if tickLower < tickmath.MIN_TICK || tickLower%pool.TickSpacing != 0 {
		panic("position lower tick below minimum or not aligned to spacing")
	}
	if tickUpper > tickmath.MAX_TICK || tickUpper%pool.TickSpacing != 0 {
		panic("position upper tick above maximum or not aligned to spacing")
	}

	return &Position{
		Pool:      pool,
		TickLower: tickLower,
		TickUpper: tickUpper,
		Liquidity: new(big.Int).Set(liquidity),
	}
}

// Token0PriceLower returns the pool price at the lower tick.
func (p *Position) Token0PriceLower() (Price, error) {
	return TickToPrice(p.Pool.Currency0, p.Pool.Currency1, p.TickLower)
}

// Token0PriceUpper returns the pool price at the upper tick.
func (p *Position) Token0PriceUpper() (Price, error) {
	return TickToPrice(p.Pool.Currency0, p.Pool.Currency1, p.TickUpper)
}

func (p *Position) tickRatios() (lower, upper *big.Int, err error) {
	lower, upper = new(big.Int), new(big.Int)
	if err = tickmath.GetSqrtRatioAtTick(lower, p.TickLower); err != nil {
		return nil, nil, err
	}
	if err = tickmath.GetSqrtRatioAtTick(upper, p.TickUpper); err != nil {
		return nil, nil, err
	}
	return lower, upper, nil
}

// Amount0 returns the currency0 the position's liquidity currently
// represents. Below the range the whole value sits in currency0, above it
// none does, inside it only the span from the current price to the upper
// tick counts.
func (p *Position) Amount0() (CurrencyAmount, error) {
	lower, upper, err := p.tickRatios()
	if err != nil {
		return CurrencyAmount{}, err
	}

	amount := new(big.Int)
	switch {
	case p.Pool.TickCurrent < p.TickLower:
		err = sqrtpricemath.GetAmount0Delta(amount, lower, upper, p.Liquidity, false)
	case p.Pool.TickCurrent < p.TickUpper:
		err = sqrtpricemath.GetAmount0Delta(amount, p.Pool.SqrtRatioX96, upper, p.Liquidity, false)
	}
	if err != nil {
		return CurrencyAmount{}, err
	}
	return NewCurrencyAmount(p.Pool.Currency0, amount), nil
}

// Amount0Cached memoizes Amount0 on the receiver.
func (p *Position) Amount0Cached() (CurrencyAmount, error) {
	if p.token0Amount != nil {
		return *p.token0Amount, nil
	}
	amount, err := p.Amount0()
	if err != nil {
		return CurrencyAmount{}, err
	}
	p.token0Amount = &amount
	return amount, nil
}

// Amount1 returns the currency1 the position's liquidity currently
// represents.
func (p *Position) Amount1() (CurrencyAmount, error) {
	lower, upper, err := p.tickRatios()
	if err != nil {
		return CurrencyAmount{}, err
	}

	amount := new(big.Int)
	switch {
	case p.Pool.TickCurrent < p.TickLower:
		// all value in currency0
	case p.Pool.TickCurrent < p.TickUpper:
		sqrtpricemath.GetAmount1Delta(amount, lower, p.Pool.SqrtRatioX96, p.Liquidity, false)
	default:
		sqrtpricemath.GetAmount1Delta(amount, lower, upper, p.Liquidity, false)
	}
	return NewCurrencyAmount(p.Pool.Currency1, amount), nil
}

// Amount1Cached memoizes Amount1 on the receiver.
func (p *Position) Amount1Cached() (CurrencyAmount, error) {
	if p.token1Amount != nil {
		return *p.token1Amount, nil
	}
	amount, err := p.Amount1()
	if err != nil {
		return CurrencyAmount{}, err
	}
	p.token1Amount = &amount
	return amount, nil
}

// MintAmounts returns the raw amounts the pool manager would pull to mint
// the position's liquidity, rounding up in the protocol's favor.
func (p *Position) MintAmounts() (amount0, amount1 *big.Int, err error) {
	lower, upper, err := p.tickRatios()
	if err != nil {
		return nil, nil, err
	}

	amount0, amount1 = new(big.Int), new(big.Int)
	switch {
	case p.Pool.TickCurrent < p.TickLower:
		err = sqrtpricemath.GetAmount0Delta(amount0, lower, upper, p.Liquidity, true)
	case p.Pool.TickCurrent < p.TickUpper:
		if err = sqrtpricemath.GetAmount0Delta(amount0, p.Pool.SqrtRatioX96, upper, p.Liquidity, true); err != nil {
			return nil, nil, err
		}
		sqrtpricemath.GetAmount1Delta(amount1, lower, p.Pool.SqrtRatioX96, p.Liquidity, true)
	default:
		sqrtpricemath.GetAmount1Delta(amount1, lower, upper, p.Liquidity, true)
	}
	if err != nil {
		return nil, nil, err
	}
	return amount0, amount1, nil
}

// MintAmountsCached memoizes MintAmounts on the receiver.
func (p *Position) MintAmountsCached() (amount0, amount1 *big.Int, err error) {
	if p.mintAmounts != nil {
		return p.mintAmounts[0], p.mintAmounts[1], nil
	}
	amount0, amount1, err = p.MintAmounts()
	if err != nil {
		return nil, nil, err
	}
	p.mintAmounts = &[2]*big.Int{amount0, amount1}
	return amount0, amount1, nil
}

// ratiosAfterSlippage bounds the pool price by the slippage tolerance in
// both directions, clamped to stay inside the usable sqrt price range.
func (p *Position) ratiosAfterSlippage(slippageTolerance Percent) (sqrtRatioX96Lower, sqrtRatioX96Upper *big.Int) {
	price := p.Pool.Currency0Price().Fraction
	unit := NewFractionFromInt64(1, 1)

	priceLower := price.Multiply(unit.Subtract(slippageTolerance.Fraction))
	priceUpper := price.Multiply(unit.Add(slippageTolerance.Fraction))

	sqrtRatioX96Lower = sqrtpricemath.EncodeSqrtRatioX96(priceLower.Numerator(), priceLower.Denominator())
	if sqrtRatioX96Lower.Cmp(tickmath.MIN_SQRT_RATIO) <= 0 {
		sqrtRatioX96Lower = new(big.Int).Add(tickmath.MIN_SQRT_RATIO, bigOne)
	}
	sqrtRatioX96Upper = sqrtpricemath.EncodeSqrtRatioX96(priceUpper.Numerator(), priceUpper.Denominator())
	if sqrtRatioX96Upper.Cmp(tickmath.MAX_SQRT_RATIO) >= 0 {
		sqrtRatioX96Upper = new(big.Int).Sub(tickmath.MAX_SQRT_RATIO, bigOne)
	}
	return sqrtRatioX96Lower, sqrtRatioX96Upper
}

// counterfactualPool rebuilds the pool at a shifted price, keeping its pair
// and parameters.
func (p *Position) counterfactualPool(sqrtRatioX96 *big.Int) (*Pool, error) {
	return NewPool(p.Pool.Currency0, p.Pool.Currency1, p.Pool.Fee, p.Pool.TickSpacing, p.Pool.Hooks, sqrtRatioX96, new(big.Int))
}

// MintAmountsWithSlippage returns the maximum raw amounts a mint can owe if
// the price moves by at most the slippage tolerance before execution. The
// price slipping down maximizes the currency0 owed and slipping up maximizes
// currency1, so amount0 comes from the lower-price pool and amount1 from the
// upper.
func (p *Position) MintAmountsWithSlippage(slippageTolerance Percent) (amount0, amount1 *big.Int, err error) {
	sqrtRatioX96Lower, sqrtRatioX96Upper := p.ratiosAfterSlippage(slippageTolerance)

	poolLower, err := p.counterfactualPool(sqrtRatioX96Lower)
	if err != nil {
		return nil, nil, err
	}
	poolUpper, err := p.counterfactualPool(sqrtRatioX96Upper)
	if err != nil {
		return nil, nil, err
	}

	// Re-derive the liquidity the mint amounts actually buy, matching the
	// truncation the pool manager applies.
	mintAmount0, mintAmount1, err := p.MintAmounts()
	if err != nil {
		return nil, nil, err
	}
	created := FromAmounts(p.Pool, p.TickLower, p.TickUpper, mintAmount0, mintAmount1, false)

	amount0, _, err = NewPosition(poolLower, created.Liquidity, p.TickLower, p.TickUpper).MintAmounts()
	if err != nil {
		return nil, nil, err
	}
	_, amount1, err = NewPosition(poolUpper, created.Liquidity, p.TickLower, p.TickUpper).MintAmounts()
	if err != nil {
		return nil, nil, err
	}
	return amount0, amount1, nil
}

// BurnAmountsWithSlippage returns the minimum raw amounts a burn is
// guaranteed to return if the price moves by at most the slippage tolerance.
// The pairing is the opposite of minting: amount0 comes from the upper-price
// pool and amount1 from the lower.
func (p *Position) BurnAmountsWithSlippage(slippageTolerance Percent) (amount0, amount1 *big.Int, err error) {
	sqrtRatioX96Lower, sqrtRatioX96Upper := p.ratiosAfterSlippage(slippageTolerance)

	poolLower, err := p.counterfactualPool(sqrtRatioX96Lower)
	if err != nil {
		return nil, nil, err
	}
	poolUpper, err := p.counterfactualPool(sqrtRatioX96Upper)
	if err != nil {
		return nil, nil, err
	}

	upperAmount0, err := NewPosition(poolUpper, p.Liquidity, p.TickLower, p.TickUpper).Amount0()
	if err != nil {
		return nil, nil, err
	}
	lowerAmount1, err := NewPosition(poolLower, p.Liquidity, p.TickLower, p.TickUpper).Amount1()
	if err != nil {
		return nil, nil, err
	}
	return upperAmount0.Quotient(), lowerAmount1.Quotient(), nil
}

// FromAmounts builds the largest position the given raw amounts can fund at
// the pool's current price.
func FromAmounts(pool *Pool, tickLower, tickUpper int, amount0, amount1 *big.Int, useFullPrecision bool) *Position {
	lower, upper := new(big.Int), new(big.Int)
	// NewPosition re-checks the range; ignore errors here and let it panic.
	_ = tickmath.GetSqrtRatioAtTick(lower, tickLower)
	_ = tickmath.GetSqrtRatioAtTick(upper, tickUpper)

	liquidity := liquiditymath.MaxLiquidityForAmounts(pool.SqrtRatioX96, lower, upper, amount0, amount1, useFullPrecision)
	return NewPosition(pool, liquidity, tickLower, tickUpper)
}

// FromAmount0 builds the largest position amount0 alone can fund.
func FromAmount0(pool *Pool, tickLower, tickUpper int, amount0 *big.Int, useFullPrecision bool) *Position {
	return FromAmounts(pool, tickLower, tickUpper, amount0, maxUint256, useFullPrecision)
}

// FromAmount1 builds the largest position amount1 alone can fund. Amount1
// math is always precise, so there is no precision knob.
func FromAmount1(pool *Pool, tickLower, tickUpper int, amount1 *big.Int) *Position {
	return FromAmounts(pool, tickLower, tickUpper, maxUint256, amount1, true)
}

// CalculatePositionKey derives the pool manager's position key: the
// keccak256 hash of the packed owner, tick range and salt.
func CalculatePositionKey(owner common.Address, tickLower, tickUpper int, salt common.Hash) common.Hash {
	var buf [58]byte
	copy(buf[0:20], owner[:])
	putInt24(buf[20:23], tickLower)
	putInt24(buf[23:26], tickUpper)
	copy(buf[26:58], salt[:])
	return crypto.Keccak256Hash(buf[:])
}

// putInt24 writes a tick as a big-endian 3-byte two's complement value.
func putInt24(dst []byte, v int) {
	u := uint32(int32(v)) & 0xffffff
	dst[0] = byte(u >> 16)
	dst[1] = byte(u >> 8)
	dst[2] = byte(u)
}
