package positionmanager

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/defistate/uniswapv4-client-go/entities"
)

// MethodParameters is a contract call ready to submit: the calldata and the
// native value to attach.
type MethodParameters struct {
	Calldata []byte
	Value    *big.Int
}

// CommonOptions applies to every liquidity-modifying call.
type CommonOptions struct {
	// SlippageTolerance bounds how far the pool price may move against the
	// caller before the call reverts.
	SlippageTolerance entities.Percent
	// Deadline is when the call expires, in epoch seconds.
	Deadline *big.Int
	// HookData is forwarded to the pool's hooks, if any.
	HookData []byte
}

// MintSpecificOptions configures a mint of a new position token.
type MintSpecificOptions struct {
	// Recipient receives the minted position token.
	Recipient common.Address
	// CreatePool initializes the pool before minting into it.
	CreatePool bool
	// SqrtPriceX96 is the initial pool price when CreatePool is set.
	SqrtPriceX96 *big.Int
	// Migrate marks the mint as part of a v3-to-v4 migration, which changes
	// who pays for the settled currencies.
	Migrate bool
}

// IncreaseSpecificOptions configures adding liquidity to an existing
// position token.
type IncreaseSpecificOptions struct {
	TokenID *big.Int
}

// AddLiquidityOptions configures AddCallParameters. Exactly one of Mint or
// Increase must be set.
type AddLiquidityOptions struct {
	CommonOptions
	// UseNative pays the native side of the pool as the call's value.
	UseNative bool
	// BatchPermit, when set, prepends a permit2 batch permit call.
	BatchPermit *BatchPermitOptions

	Mint     *MintSpecificOptions
	Increase *IncreaseSpecificOptions
}

// RemoveLiquidityOptions configures RemoveCallParameters.
type RemoveLiquidityOptions struct {
	CommonOptions
	TokenID *big.Int
	// LiquidityPercentage is the share of the position's liquidity to
	// withdraw. Must be 100% when BurnToken is set.
	LiquidityPercentage entities.Percent
	// BurnToken burns the position token after withdrawing all liquidity.
	BurnToken bool
	// Permit authorizes the caller when it does not own the position token.
	Permit *NFTPermitOptions
}

// CollectOptions configures CollectCallParameters.
type CollectOptions struct {
	CommonOptions
	TokenID   *big.Int
	Recipient common.Address
}

// BatchPermitOptions is a signed permit2 batch permit.
type BatchPermitOptions struct {
	Owner       common.Address
	PermitBatch AllowanceTransferPermitBatch
	Signature   []byte
}

// NFTPermitOptions is a signed ERC-721 permit for a position token.
type NFTPermitOptions struct {
	NFTPermitValues
	Signature []byte
}
