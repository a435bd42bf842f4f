package positionmanager

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/defistate/uniswapv4-client-go/entities"
	"github.com/defistate/uniswapv4-client-go/planner"
)

var (
	bigZero     = new(big.Int)
	fractionOne = entities.NewFractionFromInt64(1, 1)
)

// CreateCallParameters builds the call that initializes a pool at the given
// starting price.
func CreateCallParameters(key entities.PoolKey, sqrtPriceX96 *big.Int) (MethodParameters, error) {
	calldata, err := EncodeInitializePool(key, sqrtPriceX96)
	if err != nil {
		return MethodParameters{}, err
	}
	return MethodParameters{Calldata: calldata, Value: new(big.Int)}, nil
}

// AddCallParameters builds the call that mints a new position or increases
// the liquidity of an existing one. Exactly one of opts.Mint and
// opts.Increase must be set; violating that, or setting UseNative on a pool
// without a native currency, is a caller bug and panics.
func AddCallParameters(position *entities.Position, opts AddLiquidityOptions) (MethodParameters, error) {
	if (opts.Mint == nil) == (opts.Increase == nil) {
		panic("exactly one of the mint and increase options must be set")
	}
	pool := position.Pool

	var calls [][]byte
	if opts.Mint != nil && opts.Mint.CreatePool {
		if opts.Mint.SqrtPriceX96 == nil {
			panic("creating a pool requires an initial sqrt price")
		}
		call, err := EncodeInitializePool(pool.PoolKey, opts.Mint.SqrtPriceX96)
		if err != nil {
			return MethodParameters{}, err
		}
		calls = append(calls, call)
	}

	amount0Max, amount1Max, err := position.MintAmountsWithSlippage(opts.SlippageTolerance)
	if err != nil {
		return MethodParameters{}, err
	}

	if opts.BatchPermit != nil {
		call, err := EncodePermitBatch(opts.BatchPermit.Owner, opts.BatchPermit.PermitBatch, opts.BatchPermit.Signature)
		if err != nil {
			return MethodParameters{}, err
		}
		calls = append(calls, call)
	}

	p := planner.NewV4PositionPlanner()
	if opts.Mint != nil {
		err = p.AddMint(pool, position.TickLower, position.TickUpper, position.Liquidity, amount0Max, amount1Max, opts.Mint.Recipient, opts.HookData)
	} else {
		err = p.AddIncrease(opts.Increase.TokenID, position.Liquidity, amount0Max, amount1Max, opts.HookData)
	}
	if err != nil {
		return MethodParameters{}, err
	}

	migrating := opts.Mint != nil && opts.Mint.Migrate
	if migrating {
		// The v3 position's proceeds already sit on the position manager, so
		// it pays, and anything left over is swept back to the caller.
		if err = p.AddSettle(pool.Currency0, false, nil); err != nil {
			return MethodParameters{}, err
		}
		if err = p.AddSettle(pool.Currency1, false, nil); err != nil {
			return MethodParameters{}, err
		}
		if err = p.AddSweep(pool.Currency0, planner.MsgSender); err != nil {
			return MethodParameters{}, err
		}
		if err = p.AddSweep(pool.Currency1, planner.MsgSender); err != nil {
			return MethodParameters{}, err
		}
	} else if err = p.AddSettlePair(pool.Currency0, pool.Currency1); err != nil {
		return MethodParameters{}, err
	}

	value := new(big.Int)
	if opts.UseNative {
		if !pool.Currency0.IsNative() {
			panic("pool has no native currency to spend")
		}
		value.Set(amount0Max)
		// Sweeping must come after settling.
		if !migrating {
			if err = p.AddSweep(pool.Currency0, planner.MsgSender); err != nil {
				return MethodParameters{}, err
			}
		}
	}

	unlockData, err := p.Finalize()
	if err != nil {
		return MethodParameters{}, err
	}
	call, err := EncodeModifyLiquidities(unlockData, opts.Deadline)
	if err != nil {
		return MethodParameters{}, err
	}
	calls = append(calls, call)

	calldata, err := encodeCalls(calls)
	if err != nil {
		return MethodParameters{}, err
	}
	return MethodParameters{Calldata: calldata, Value: value}, nil
}

// RemoveCallParameters builds the call that withdraws some or all of a
// position's liquidity, burning the position token when opts.BurnToken is
// set. Burning with a partial liquidity percentage, or a percentage that
// rounds the withdrawn liquidity to zero, is a caller bug and panics.
func RemoveCallParameters(position *entities.Position, opts RemoveLiquidityOptions) (MethodParameters, error) {
	pool := position.Pool

	var calls [][]byte
	if opts.Permit != nil {
		call, err := EncodeERC721Permit(opts.Permit.Spender, opts.TokenID, opts.Permit.Deadline, opts.Permit.Nonce, opts.Permit.Signature)
		if err != nil {
			return MethodParameters{}, err
		}
		calls = append(calls, call)
	}

	p := planner.NewV4PositionPlanner()
	if opts.BurnToken {
		if opts.LiquidityPercentage.Cmp(fractionOne) != 0 {
			panic("burning the position token requires withdrawing all liquidity")
		}
		amount0Min, amount1Min, err := position.BurnAmountsWithSlippage(opts.SlippageTolerance)
		if err != nil {
			return MethodParameters{}, err
		}
		if err = p.AddBurn(opts.TokenID, amount0Min, amount1Min, opts.HookData); err != nil {
			return MethodParameters{}, err
		}
	} else {
		liquidity := opts.LiquidityPercentage.Multiply(entities.NewFractionFromInt(position.Liquidity)).Quotient()
		if liquidity.Sign() == 0 {
			panic("liquidity percentage withdraws zero liquidity")
		}
		partial := entities.NewPosition(pool, liquidity, position.TickLower, position.TickUpper)
		amount0Min, amount1Min, err := partial.BurnAmountsWithSlippage(opts.SlippageTolerance)
		if err != nil {
			return MethodParameters{}, err
		}
		if err = p.AddDecrease(opts.TokenID, liquidity, amount0Min, amount1Min, opts.HookData); err != nil {
			return MethodParameters{}, err
		}
	}
	if err := p.AddTakePair(pool.Currency0, pool.Currency1, planner.MsgSender); err != nil {
		return MethodParameters{}, err
	}

	unlockData, err := p.Finalize()
	if err != nil {
		return MethodParameters{}, err
	}
	call, err := EncodeModifyLiquidities(unlockData, opts.Deadline)
	if err != nil {
		return MethodParameters{}, err
	}
	calls = append(calls, call)

	calldata, err := encodeCalls(calls)
	if err != nil {
		return MethodParameters{}, err
	}
	return MethodParameters{Calldata: calldata, Value: new(big.Int)}, nil
}

// CollectCallParameters builds the call that collects a position's accrued
// fees: a zero-liquidity decrease to trigger fee settlement, then a
// take-pair to the recipient.
func CollectCallParameters(position *entities.Position, opts CollectOptions) (MethodParameters, error) {
	pool := position.Pool

	p := planner.NewV4PositionPlanner()
	if err := p.AddDecrease(opts.TokenID, bigZero, bigZero, bigZero, opts.HookData); err != nil {
		return MethodParameters{}, err
	}
	if err := p.AddTakePair(pool.Currency0, pool.Currency1, opts.Recipient); err != nil {
		return MethodParameters{}, err
	}

	unlockData, err := p.Finalize()
	if err != nil {
		return MethodParameters{}, err
	}
	calldata, err := EncodeModifyLiquidities(unlockData, opts.Deadline)
	if err != nil {
		return MethodParameters{}, err
	}
	return MethodParameters{Calldata: calldata, Value: new(big.Int)}, nil
}

// EncodeInitializePool encodes initializePool(key, sqrtPriceX96).
func EncodeInitializePool(key entities.PoolKey, sqrtPriceX96 *big.Int) ([]byte, error) {
	return encodeCall(initializePoolMethod, planner.WirePoolKey(key), sqrtPriceX96)
}

// EncodeModifyLiquidities encodes modifyLiquidities(unlockData, deadline)
// around an already-finalized action envelope.
func EncodeModifyLiquidities(unlockData []byte, deadline *big.Int) ([]byte, error) {
	return encodeCall(modifyLiquiditiesMethod, unlockData, deadline)
}

// EncodePermitBatch encodes a permit2 batch permit call.
func EncodePermitBatch(owner common.Address, batch AllowanceTransferPermitBatch, signature []byte) ([]byte, error) {
	return encodeCall(permitBatchMethod, owner, batch, signature)
}

// EncodeERC721Permit encodes the position token permit call.
func EncodeERC721Permit(spender common.Address, tokenID, deadline, nonce *big.Int, signature []byte) ([]byte, error) {
	return encodeCall(erc721PermitMethod, spender, tokenID, deadline, nonce, signature)
}

// encodeCalls wraps multiple calls in a multicall; a single call passes
// through unchanged.
func encodeCalls(calls [][]byte) ([]byte, error) {
	if len(calls) == 1 {
		return calls[0], nil
	}
	return encodeCall(multicallMethod, calls)
}
