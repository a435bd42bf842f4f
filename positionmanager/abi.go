// Package positionmanager builds calldata for the v4 position manager
// contract: pool initialization, liquidity modification envelopes and the
// permit calls that may precede them in a multicall.
package positionmanager

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// AllowanceTransferPermitDetails is one token allowance inside a permit2
// batch permit.
type AllowanceTransferPermitDetails struct {
	Token      common.Address
	Amount     *big.Int
	Expiration *big.Int
	Nonce      *big.Int
}

// AllowanceTransferPermitBatch is the permit2 PermitBatch message.
type AllowanceTransferPermitBatch struct {
	Details     []AllowanceTransferPermitDetails
	Spender     common.Address
	SigDeadline *big.Int
}

// NFTPermitValues is the ERC-721 permit message signed to let a spender
// operate on a position token.
type NFTPermitValues struct {
	Spender  common.Address
	TokenId  *big.Int
	Nonce    *big.Int
	Deadline *big.Int
}

func mustType(t string, components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType(t, "", components)
	if err != nil {
		panic(fmt.Sprintf("abi type %s: %v", t, err))
	}
	return typ
}

var (
	addressType    = mustType("address", nil)
	uint160Type    = mustType("uint160", nil)
	uint256Type    = mustType("uint256", nil)
	bytesType      = mustType("bytes", nil)
	bytesSliceType = mustType("bytes[]", nil)

	poolKeyType = mustType("tuple", []abi.ArgumentMarshaling{
		{Name: "currency0", Type: "address"},
		{Name: "currency1", Type: "address"},
		{Name: "fee", Type: "uint24"},
		{Name: "tickSpacing", Type: "int24"},
		{Name: "hooks", Type: "address"},
	})

	permitBatchType = mustType("tuple", []abi.ArgumentMarshaling{
		{Name: "details", Type: "tuple[]", Components: []abi.ArgumentMarshaling{
			{Name: "token", Type: "address"},
			{Name: "amount", Type: "uint160"},
			{Name: "expiration", Type: "uint48"},
			{Name: "nonce", Type: "uint48"},
		}},
		{Name: "spender", Type: "address"},
		{Name: "sigDeadline", Type: "uint256"},
	})
)

var (
	initializePoolMethod = abi.NewMethod("initializePool", "initializePool", abi.Function, "payable", false, true,
		abi.Arguments{
			{Name: "key", Type: poolKeyType},
			{Name: "sqrtPriceX96", Type: uint160Type},
		}, nil)

	modifyLiquiditiesMethod = abi.NewMethod("modifyLiquidities", "modifyLiquidities", abi.Function, "payable", false, true,
		abi.Arguments{
			{Name: "unlockData", Type: bytesType},
			{Name: "deadline", Type: uint256Type},
		}, nil)

	permitBatchMethod = abi.NewMethod("permitBatch", "permitBatch", abi.Function, "payable", false, true,
		abi.Arguments{
			{Name: "owner", Type: addressType},
			{Name: "_permitBatch", Type: permitBatchType},
			{Name: "signature", Type: bytesType},
		}, nil)

	erc721PermitMethod = abi.NewMethod("permit", "permit", abi.Function, "payable", false, true,
		abi.Arguments{
			{Name: "spender", Type: addressType},
			{Name: "tokenId", Type: uint256Type},
			{Name: "deadline", Type: uint256Type},
			{Name: "nonce", Type: uint256Type},
			{Name: "signature", Type: bytesType},
		}, nil)

	multicallMethod = abi.NewMethod("multicall", "multicall", abi.Function, "payable", false, true,
		abi.Arguments{
			{Name: "data", Type: bytesSliceType},
		}, nil)
)

func encodeCall(method abi.Method, args ...interface{}) ([]byte, error) {
	packed, err := method.Inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method.RawName, err)
	}
	return append(append([]byte{}, method.ID...), packed...), nil
}
