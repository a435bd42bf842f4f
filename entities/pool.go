package entities

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/defistate/uniswapv4-client-go/calculator/liquiditymath"
	"github.com/defistate/uniswapv4-client-go/calculator/swapmath"
	"github.com/defistate/uniswapv4-client-go/calculator/tickmath"
	"github.com/defistate/uniswapv4-client-go/hooks"
)

const (
	// DynamicFeeFlag is the fee sentinel marking a pool whose fee is set by
	// its hook.
	DynamicFeeFlag uint32 = 0x800000
	// MaxPoolFee is the fee denominator, 100% in pips.
	MaxPoolFee uint32 = 1_000_000
)

var (
	bigOne = big.NewInt(1)
	// q192 is 2^192, the square of the Q64.96 scaling factor.
	q192 = new(big.Int).Lsh(bigOne, 192)

	// defaultSwapLimits are the widest usable price limits, one past the
	// hard bounds of the sqrt price range.
	minSwapLimit = new(big.Int).Add(tickmath.MIN_SQRT_RATIO, bigOne)
	maxSwapLimit = new(big.Int).Sub(tickmath.MAX_SQRT_RATIO, bigOne)
)

// PoolKey identifies a v4 pool: the sorted currency pair plus fee, tick
// spacing and hook address.
type PoolKey struct {
	Currency0   common.Address
	Currency1   common.Address
	Fee         uint32
	TickSpacing int
	Hooks       common.Address
}

// GetPoolKey sorts the currency pair and assembles the pool key.
func GetPoolKey(currencyA, currencyB Currency, fee uint32, tickSpacing int, hooks common.Address) (PoolKey, error) {
	aFirst, err := currencyA.SortsBefore(currencyB)
	if err != nil {
		return PoolKey{}, err
	}
	currency0, currency1 := currencyA, currencyB
	if !aFirst {
		currency0, currency1 = currencyB, currencyA
	}
	return PoolKey{
		Currency0:   currency0.ProtocolAddress(),
		Currency1:   currency1.ProtocolAddress(),
		Fee:         fee,
		TickSpacing: tickSpacing,
		Hooks:       hooks,
	}, nil
}

// ID returns the pool id: the keccak256 hash of the key's padded ABI
// encoding, five 32-byte words.
func (k PoolKey) ID() common.Hash {
	var buf [160]byte
	copy(buf[12:32], k.Currency0[:])
	copy(buf[44:64], k.Currency1[:])
	copy(buf[64:96], math.U256Bytes(new(big.Int).SetUint64(uint64(k.Fee))))
	copy(buf[96:128], math.U256Bytes(big.NewInt(int64(k.TickSpacing))))
	copy(buf[140:160], k.Hooks[:])
	return crypto.Keccak256Hash(buf[:])
}

// GetPoolID derives the pool id for an unsorted currency pair.
func GetPoolID(currencyA, currencyB Currency, fee uint32, tickSpacing int, hooks common.Address) (common.Hash, error) {
	key, err := GetPoolKey(currencyA, currencyB, fee, tickSpacing, hooks)
	if err != nil {
		return common.Hash{}, err
	}
	return key.ID(), nil
}

// Pool is an immutable snapshot of a v4 pool. Swap simulations return a
// successor pool rather than mutating the receiver.
type Pool struct {
	Currency0    Currency
	Currency1    Currency
	Fee          uint32
	TickSpacing  int
	Hooks        common.Address
	SqrtRatioX96 *big.Int
	Liquidity    *big.Int
	TickCurrent  int

	PoolKey PoolKey
	PoolID  common.Hash

	tickDataProvider TickDataProvider
}

// NewPool builds a pool without tick data; swaps on it fail once a tick word
// must be consulted.
func NewPool(currencyA, currencyB Currency, fee uint32, tickSpacing int, hooks common.Address, sqrtRatioX96, liquidity *big.Int) (*Pool, error) {
	return NewPoolWithTickDataProvider(currencyA, currencyB, fee, tickSpacing, hooks, sqrtRatioX96, liquidity, nil)
}

// NewPoolWithTickDataProvider builds a pool whose swaps read tick data from
// the given provider. Fee, tick spacing and hook preconditions are caller
// bugs and panic; a sqrt price outside the representable range is reported
// as an error.
func NewPoolWithTickDataProvider(currencyA, currencyB Currency, fee uint32, tickSpacing int, hooks common.Address, sqrtRatioX96, liquidity *big.Int, provider TickDataProvider) (*Pool, error) {
	if fee >= MaxPoolFee && fee != DynamicFeeFlag {
		panic("pool fee must be below 1000000 pips or the dynamic fee flag")
	}
	if fee == DynamicFeeFlag && hooks == (common.Address{}) {
		panic("dynamic fee pools require a hook")
	}
	if tickSpacing <= 0 {
		panic("tick spacing must be greater than zero")
	}

	aFirst, err := currencyA.SortsBefore(currencyB)
	if err != nil {
		return nil, err
	}
	currency0, currency1 := currencyA, currencyB
	if !aFirst {
		currency0, currency1 = currencyB, currencyA
	}
	key := PoolKey{
		Currency0:   currency0.ProtocolAddress(),
		Currency1:   currency1.ProtocolAddress(),
		Fee:         fee,
		TickSpacing: tickSpacing,
		Hooks:       hooks,
	}

	tickCurrent, err := tickmath.GetTickAtSqrtRatio(sqrtRatioX96)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	return &Pool{
		Currency0:        currency0,
		Currency1:        currency1,
		Fee:              fee,
		TickSpacing:      tickSpacing,
		Hooks:            hooks,
		SqrtRatioX96:     new(big.Int).Set(sqrtRatioX96),
		Liquidity:        new(big.Int).Set(liquidity),
		TickCurrent:      tickCurrent,
		PoolKey:          key,
		PoolID:           key.ID(),
		tickDataProvider: provider,
	}, nil
}

// ChainID returns the chain the pool lives on.
func (p *Pool) ChainID() uint64 { return p.Currency0.ChainID() }

// InvolvesCurrency reports whether the currency is exactly one of the pool's
// pair.
func (p *Pool) InvolvesCurrency(currency Currency) bool {
	return p.Currency0.Equals(currency) || p.Currency1.Equals(currency)
}

// InvolvesToken reports whether the currency or its wrapped equivalent
// matches either side of the pool.
func (p *Pool) InvolvesToken(currency Currency) bool {
	if p.InvolvesCurrency(currency) {
		return true
	}
	wrapped := currency.Wrapped()
	return p.Currency0.Wrapped().Equals(wrapped) || p.Currency1.Wrapped().Equals(wrapped)
}

// Currency0Price returns the price of currency0 denominated in currency1.
func (p *Pool) Currency0Price() Price {
	ratioX192 := new(big.Int).Mul(p.SqrtRatioX96, p.SqrtRatioX96)
	return NewPrice(p.Currency0, p.Currency1, q192, ratioX192)
}

// Currency1Price returns the price of currency1 denominated in currency0.
func (p *Pool) Currency1Price() Price {
	ratioX192 := new(big.Int).Mul(p.SqrtRatioX96, p.SqrtRatioX96)
	return NewPrice(p.Currency1, p.Currency0, ratioX192, q192)
}

// PriceOf returns the pool price of the given currency in terms of the other.
func (p *Pool) PriceOf(currency Currency) (Price, error) {
	switch {
	case p.Currency0.Equals(currency):
		return p.Currency0Price(), nil
	case p.Currency1.Equals(currency):
		return p.Currency1Price(), nil
	default:
		return Price{}, ErrInvalidCurrency
	}
}

// SwapResult is the outcome of a raw swap simulation.
type SwapResult struct {
	// AmountCalculated is the unspecified side of the swap: negative output
	// for exact input, positive input for exact output.
	AmountCalculated *big.Int
	// AmountSpecifiedRemaining is whatever part of the specified amount the
	// available liquidity could not absorb before hitting the price limit.
	AmountSpecifiedRemaining *big.Int
	SqrtRatioX96             *big.Int
	Liquidity                *big.Int
	TickCurrent              int
}

// swapState holds the loop state of one simulation plus reusable temporaries
// to avoid allocations.
type swapState struct {
	amountSpecifiedRemaining *big.Int
	amountCalculated         *big.Int
	sqrtPriceX96             *big.Int
	tick                     int
	liquidity                *big.Int

	// --- Reusable temporary variables for the loop ---
	sqrtPriceStartX96 *big.Int
	sqrtPriceNextX96  *big.Int
	targetPrice       *big.Int
	stepAmountIn      *big.Int
	stepAmountOut     *big.Int
	stepFeeAmount     *big.Int
	tempAmount        *big.Int
	liquidityNet      *big.Int
}

// swapStatePool manages a pool of swapState objects for safe concurrent use.
var swapStatePool = sync.Pool{
	New: func() any {
		return &swapState{
			amountSpecifiedRemaining: new(big.Int),
			amountCalculated:         new(big.Int),
			sqrtPriceX96:             new(big.Int),
			liquidity:                new(big.Int),
			sqrtPriceStartX96:        new(big.Int),
			sqrtPriceNextX96:         new(big.Int),
			targetPrice:              new(big.Int),
			stepAmountIn:             new(big.Int),
			stepAmountOut:            new(big.Int),
			stepFeeAmount:            new(big.Int),
			tempAmount:               new(big.Int),
			liquidityNet:             new(big.Int),
		}
	},
}

// Swap simulates a swap against the pool snapshot. A nil sqrtPriceLimitX96
// selects the widest usable limit for the direction. The specified amount is
// positive for exact input and negative for exact output.
func (p *Pool) Swap(ctx context.Context, zeroForOne bool, amountSpecified, sqrtPriceLimitX96 *big.Int) (SwapResult, error) {
	if hooks.HasSwapPermissions(p.Hooks) {
		return SwapResult{}, ErrUnsupportedHook
	}
	if p.tickDataProvider == nil {
		return SwapResult{}, ErrNoTickDataProvider
	}

	if sqrtPriceLimitX96 == nil {
		if zeroForOne {
			sqrtPriceLimitX96 = minSwapLimit
		} else {
			sqrtPriceLimitX96 = maxSwapLimit
		}
	}

	if zeroForOne {
		if sqrtPriceLimitX96.Cmp(tickmath.MIN_SQRT_RATIO) <= 0 || sqrtPriceLimitX96.Cmp(p.SqrtRatioX96) >= 0 {
			return SwapResult{}, fmt.Errorf("%w: price limit %s out of range", ErrInvalidRange, sqrtPriceLimitX96)
		}
	} else {
		if sqrtPriceLimitX96.Cmp(tickmath.MAX_SQRT_RATIO) >= 0 || sqrtPriceLimitX96.Cmp(p.SqrtRatioX96) <= 0 {
			return SwapResult{}, fmt.Errorf("%w: price limit %s out of range", ErrInvalidRange, sqrtPriceLimitX96)
		}
	}

	state := swapStatePool.Get().(*swapState)
	defer swapStatePool.Put(state)

	state.amountSpecifiedRemaining.Set(amountSpecified)
	state.amountCalculated.SetInt64(0)
	state.sqrtPriceX96.Set(p.SqrtRatioX96)
	state.tick = p.TickCurrent
	state.liquidity.Set(p.Liquidity)

	if err := p.swapLoop(ctx, state, sqrtPriceLimitX96, zeroForOne); err != nil {
		return SwapResult{}, err
	}

	return SwapResult{
		AmountCalculated:         new(big.Int).Set(state.amountCalculated),
		AmountSpecifiedRemaining: new(big.Int).Set(state.amountSpecifiedRemaining),
		SqrtRatioX96:             new(big.Int).Set(state.sqrtPriceX96),
		Liquidity:                new(big.Int).Set(state.liquidity),
		TickCurrent:              state.tick,
	}, nil
}

// swapLoop is the internal, core simulation engine. It crosses initialized
// ticks until the specified amount is consumed or the price limit is hit.
func (p *Pool) swapLoop(ctx context.Context, state *swapState, sqrtPriceLimitX96 *big.Int, zeroForOne bool) error {
	exactInput := state.amountSpecifiedRemaining.Sign() >= 0

	for state.amountSpecifiedRemaining.Sign() != 0 && state.sqrtPriceX96.Cmp(sqrtPriceLimitX96) != 0 {
		state.sqrtPriceStartX96.Set(state.sqrtPriceX96)

		tickNext, initialized, err := p.tickDataProvider.NextInitializedTickWithinOneWord(ctx, state.tick, zeroForOne, p.TickSpacing)
		if err != nil {
			return err
		}
		if tickNext < tickmath.MIN_TICK {
			tickNext = tickmath.MIN_TICK
		} else if tickNext > tickmath.MAX_TICK {
			tickNext = tickmath.MAX_TICK
		}

		if err := tickmath.GetSqrtRatioAtTick(state.sqrtPriceNextX96, tickNext); err != nil {
			return err
		}

		if (zeroForOne && state.sqrtPriceNextX96.Cmp(sqrtPriceLimitX96) < 0) ||
			(!zeroForOne && state.sqrtPriceNextX96.Cmp(sqrtPriceLimitX96) > 0) {
			state.targetPrice.Set(sqrtPriceLimitX96)
		} else {
			state.targetPrice.Set(state.sqrtPriceNextX96)
		}

		err = swapmath.ComputeSwapStep(
			state.sqrtPriceX96, state.stepAmountIn, state.stepAmountOut, state.stepFeeAmount, // Destination pointers
			state.sqrtPriceStartX96,
			state.targetPrice,
			state.liquidity,
			state.amountSpecifiedRemaining,
			state.tempAmount.SetUint64(uint64(p.Fee)),
		)
		if err != nil {
			return err
		}

		if exactInput {
			state.amountSpecifiedRemaining.Sub(state.amountSpecifiedRemaining, state.tempAmount.Add(state.stepAmountIn, state.stepFeeAmount))
			state.amountCalculated.Sub(state.amountCalculated, state.stepAmountOut)
		} else {
			state.amountSpecifiedRemaining.Add(state.amountSpecifiedRemaining, state.stepAmountOut)
			state.amountCalculated.Add(state.amountCalculated, state.tempAmount.Add(state.stepAmountIn, state.stepFeeAmount))
		}

		if state.sqrtPriceX96.Cmp(state.sqrtPriceNextX96) == 0 {
			if initialized {
				tick, err := p.tickDataProvider.Tick(ctx, tickNext)
				if err != nil {
					return err
				}
				state.liquidityNet.Set(tick.LiquidityNet)
				if zeroForOne {
					state.liquidityNet.Neg(state.liquidityNet)
				}
				if err := liquiditymath.AddDelta(state.liquidity, state.liquidity, state.liquidityNet); err != nil {
					return err
				}
			}

			if zeroForOne {
				state.tick = tickNext - 1
			} else {
				state.tick = tickNext
			}
		} else if state.sqrtPriceX96.Cmp(state.sqrtPriceStartX96) != 0 {
			state.tick, err = tickmath.GetTickAtSqrtRatio(state.sqrtPriceX96)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// GetOutputAmount simulates an exact-input swap and returns the output
// amount together with the post-swap pool. With no explicit price limit the
// whole input must be consumed, otherwise the pool's liquidity was
// insufficient.
func (p *Pool) GetOutputAmount(ctx context.Context, inputAmount CurrencyAmount, sqrtPriceLimitX96 *big.Int) (CurrencyAmount, *Pool, error) {
	if !p.InvolvesToken(inputAmount.Currency) {
		return CurrencyAmount{}, nil, ErrInvalidCurrency
	}

	zeroForOne := inputAmount.Currency.Wrapped().Equals(p.Currency0.Wrapped())

	result, err := p.Swap(ctx, zeroForOne, inputAmount.Quotient(), sqrtPriceLimitX96)
	if err != nil {
		return CurrencyAmount{}, nil, err
	}
	if sqrtPriceLimitX96 == nil && result.AmountSpecifiedRemaining.Sign() != 0 {
		return CurrencyAmount{}, nil, ErrInsufficientLiquidity
	}

	outputCurrency := p.Currency1
	if !zeroForOne {
		outputCurrency = p.Currency0
	}
	outputAmount := NewCurrencyAmount(outputCurrency, new(big.Int).Neg(result.AmountCalculated))
	return outputAmount, p.successor(result), nil
}

// GetInputAmount simulates an exact-output swap and returns the required
// input amount together with the post-swap pool.
func (p *Pool) GetInputAmount(ctx context.Context, outputAmount CurrencyAmount, sqrtPriceLimitX96 *big.Int) (CurrencyAmount, *Pool, error) {
	if !p.InvolvesToken(outputAmount.Currency) {
		return CurrencyAmount{}, nil, ErrInvalidCurrency
	}

	zeroForOne := outputAmount.Currency.Wrapped().Equals(p.Currency1.Wrapped())

	result, err := p.Swap(ctx, zeroForOne, new(big.Int).Neg(outputAmount.Quotient()), sqrtPriceLimitX96)
	if err != nil {
		return CurrencyAmount{}, nil, err
	}
	if sqrtPriceLimitX96 == nil && result.AmountSpecifiedRemaining.Sign() != 0 {
		return CurrencyAmount{}, nil, ErrInsufficientLiquidity
	}

	inputCurrency := p.Currency0
	if !zeroForOne {
		inputCurrency = p.Currency1
	}
	inputAmount := NewCurrencyAmount(inputCurrency, result.AmountCalculated)
	return inputAmount, p.successor(result), nil
}

// successor returns the pool snapshot after a swap result is applied.
func (p *Pool) successor(result SwapResult) *Pool {
	next := *p
	next.SqrtRatioX96 = result.SqrtRatioX96
	next.Liquidity = result.Liquidity
	next.TickCurrent = result.TickCurrent
	return &next
}
