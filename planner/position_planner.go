package planner

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/defistate/uniswapv4-client-go/entities"
)

// V4PositionPlanner is a V4Planner with helpers for the position manager's
// liquidity actions.
type V4PositionPlanner struct {
	V4Planner
}

// NewV4PositionPlanner returns a position planner targeting the released
// command set.
func NewV4PositionPlanner() *V4PositionPlanner {
	return &V4PositionPlanner{V4Planner{commands: V4RouterCommands}}
}

// AddMint appends a position mint.
func (p *V4PositionPlanner) AddMint(pool *entities.Pool, tickLower, tickUpper int, liquidity, amount0Max, amount1Max *big.Int, owner common.Address, hookData []byte) error {
	if hookData == nil {
		hookData = []byte{}
	}
	return p.AddAction(MintPositionParams{
		PoolKey:    WirePoolKey(pool.PoolKey),
		TickLower:  big.NewInt(int64(tickLower)),
		TickUpper:  big.NewInt(int64(tickUpper)),
		Liquidity:  liquidity,
		Amount0Max: amount0Max,
		Amount1Max: amount1Max,
		Owner:      owner,
		HookData:   hookData,
	})
}

// AddIncrease appends a liquidity increase on an existing position.
func (p *V4PositionPlanner) AddIncrease(tokenID, liquidity, amount0Max, amount1Max *big.Int, hookData []byte) error {
	if hookData == nil {
		hookData = []byte{}
	}
	return p.AddAction(IncreaseLiquidityParams{
		TokenId:    tokenID,
		Liquidity:  liquidity,
		Amount0Max: amount0Max,
		Amount1Max: amount1Max,
		HookData:   hookData,
	})
}

// AddDecrease appends a liquidity decrease on an existing position.
func (p *V4PositionPlanner) AddDecrease(tokenID, liquidity, amount0Min, amount1Min *big.Int, hookData []byte) error {
	if hookData == nil {
		hookData = []byte{}
	}
	return p.AddAction(DecreaseLiquidityParams{
		TokenId:    tokenID,
		Liquidity:  liquidity,
		Amount0Min: amount0Min,
		Amount1Min: amount1Min,
		HookData:   hookData,
	})
}

// AddBurn appends a position burn.
func (p *V4PositionPlanner) AddBurn(tokenID, amount0Min, amount1Min *big.Int, hookData []byte) error {
	if hookData == nil {
		hookData = []byte{}
	}
	return p.AddAction(BurnPositionParams{
		TokenId:    tokenID,
		Amount0Min: amount0Min,
		Amount1Min: amount1Min,
		HookData:   hookData,
	})
}

// AddSettlePair appends a pair settle, pulling both owed currencies from the
// caller.
func (p *V4PositionPlanner) AddSettlePair(currency0, currency1 entities.Currency) error {
	return p.AddAction(SettlePairParams{
		Currency0: currency0.ProtocolAddress(),
		Currency1: currency1.ProtocolAddress(),
	})
}

// AddTakePair appends a pair take to the recipient.
func (p *V4PositionPlanner) AddTakePair(currency0, currency1 entities.Currency, recipient common.Address) error {
	return p.AddAction(TakePairParams{
		Currency0: currency0.ProtocolAddress(),
		Currency1: currency1.ProtocolAddress(),
		Recipient: recipient,
	})
}

// AddSweep appends a sweep of leftover balance to the recipient.
func (p *V4PositionPlanner) AddSweep(currency entities.Currency, to common.Address) error {
	return p.AddAction(SweepParams{
		Currency: currency.ProtocolAddress(),
		To:       to,
	})
}
