package planner

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/defistate/uniswapv4-client-go/entities"
)

// PoolKey is the wire form of a pool key, with the widths the ABI codec
// expects.
type PoolKey struct {
	Currency0   common.Address
	Currency1   common.Address
	Fee         *big.Int
	TickSpacing *big.Int
	Hooks       common.Address
}

// WirePoolKey converts an entities pool key to its wire form.
func WirePoolKey(key entities.PoolKey) PoolKey {
	return PoolKey{
		Currency0:   key.Currency0,
		Currency1:   key.Currency1,
		Fee:         new(big.Int).SetUint64(uint64(key.Fee)),
		TickSpacing: big.NewInt(int64(key.TickSpacing)),
		Hooks:       key.Hooks,
	}
}

// PathKey is one hop of a multi-hop swap path: the currency reached plus the
// parameters of the pool crossed to reach it.
type PathKey struct {
	IntermediateCurrency common.Address
	Fee                  *big.Int
	TickSpacing          *big.Int
	Hooks                common.Address
	HookData             []byte
}

func mustNewType(t string, components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType(t, "", components)
	if err != nil {
		panic(err)
	}
	return typ
}

var poolKeyComponents = []abi.ArgumentMarshaling{
	{Name: "currency0", Type: "address"},
	{Name: "currency1", Type: "address"},
	{Name: "fee", Type: "uint24"},
	{Name: "tickSpacing", Type: "int24"},
	{Name: "hooks", Type: "address"},
}

var pathKeyComponents = []abi.ArgumentMarshaling{
	{Name: "intermediateCurrency", Type: "address"},
	{Name: "fee", Type: "uint256"},
	{Name: "tickSpacing", Type: "int24"},
	{Name: "hooks", Type: "address"},
	{Name: "hookData", Type: "bytes"},
}

// singleTuple wraps a component list as the argument set of one tuple, the
// layout every router action parameter block uses.
func singleTuple(components []abi.ArgumentMarshaling) abi.Arguments {
	return abi.Arguments{{Type: mustNewType("tuple", components), Name: "params"}}
}

var (
	increaseLiquidityArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "tokenId", Type: "uint256"},
		{Name: "liquidity", Type: "uint256"},
		{Name: "amount0Max", Type: "uint128"},
		{Name: "amount1Max", Type: "uint128"},
		{Name: "hookData", Type: "bytes"},
	})
	decreaseLiquidityArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "tokenId", Type: "uint256"},
		{Name: "liquidity", Type: "uint256"},
		{Name: "amount0Min", Type: "uint128"},
		{Name: "amount1Min", Type: "uint128"},
		{Name: "hookData", Type: "bytes"},
	})
	mintPositionArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "poolKey", Type: "tuple", Components: poolKeyComponents},
		{Name: "tickLower", Type: "int24"},
		{Name: "tickUpper", Type: "int24"},
		{Name: "liquidity", Type: "uint256"},
		{Name: "amount0Max", Type: "uint128"},
		{Name: "amount1Max", Type: "uint128"},
		{Name: "owner", Type: "address"},
		{Name: "hookData", Type: "bytes"},
	})
	burnPositionArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "tokenId", Type: "uint256"},
		{Name: "amount0Min", Type: "uint128"},
		{Name: "amount1Min", Type: "uint128"},
		{Name: "hookData", Type: "bytes"},
	})
	swapExactInSingleArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "poolKey", Type: "tuple", Components: poolKeyComponents},
		{Name: "zeroForOne", Type: "bool"},
		{Name: "amountIn", Type: "uint128"},
		{Name: "amountOutMinimum", Type: "uint128"},
		{Name: "hookData", Type: "bytes"},
	})
	swapExactInArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "currencyIn", Type: "address"},
		{Name: "path", Type: "tuple[]", Components: pathKeyComponents},
		{Name: "amountIn", Type: "uint128"},
		{Name: "amountOutMinimum", Type: "uint128"},
	})
	swapExactOutSingleArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "poolKey", Type: "tuple", Components: poolKeyComponents},
		{Name: "zeroForOne", Type: "bool"},
		{Name: "amountOut", Type: "uint128"},
		{Name: "amountInMaximum", Type: "uint128"},
		{Name: "hookData", Type: "bytes"},
	})
	swapExactOutArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "currencyOut", Type: "address"},
		{Name: "path", Type: "tuple[]", Components: pathKeyComponents},
		{Name: "amountOut", Type: "uint128"},
		{Name: "amountInMaximum", Type: "uint128"},
	})
	settleArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "currency", Type: "address"},
		{Name: "amount", Type: "uint256"},
		{Name: "payerIsUser", Type: "bool"},
	})
	settleAllArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "currency", Type: "address"},
		{Name: "maxAmount", Type: "uint256"},
	})
	settlePairArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "currency0", Type: "address"},
		{Name: "currency1", Type: "address"},
	})
	takeArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "currency", Type: "address"},
		{Name: "recipient", Type: "address"},
		{Name: "amount", Type: "uint256"},
	})
	takeAllArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "currency", Type: "address"},
		{Name: "minAmount", Type: "uint256"},
	})
	takePortionArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "currency", Type: "address"},
		{Name: "recipient", Type: "address"},
		{Name: "bips", Type: "uint256"},
	})
	takePairArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "currency0", Type: "address"},
		{Name: "currency1", Type: "address"},
		{Name: "recipient", Type: "address"},
	})
	closeCurrencyArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "currency", Type: "address"},
	})
	sweepArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "currency", Type: "address"},
		{Name: "to", Type: "address"},
	})

	// envelopeArgs is the outer (bytes actions, bytes[] params) tuple every
	// planner output and router payload is wrapped in.
	envelopeArgs = singleTuple([]abi.ArgumentMarshaling{
		{Name: "actions", Type: "bytes"},
		{Name: "params", Type: "bytes[]"},
	})
)

// envelope mirrors the outer router payload tuple.
type envelope struct {
	Actions []byte
	Params  [][]byte
}
