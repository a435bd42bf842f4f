package entities

import (
	"context"
	"math/big"
)

// Tick is the liquidity bookkeeping entry at an initialized tick index.
type Tick struct {
	Index          int
	LiquidityGross *big.Int
	LiquidityNet   *big.Int
}

// TickDataProvider supplies tick data to the swap simulation. Implementations
// may be backed by an in-memory list or by remote chain state, so both
// methods take a context.
type TickDataProvider interface {
	// Tick returns the tick entry at the given index.
	Tick(ctx context.Context, index int) (Tick, error)

	// NextInitializedTickWithinOneWord returns the next initialized tick at
	// or before (lte) or strictly after the given tick, clamped to the
	// 256-entry bitmap word the tick falls in. The boolean reports whether
	// the returned tick is initialized; a word-boundary clamp is not.
	NextInitializedTickWithinOneWord(ctx context.Context, tick int, lte bool, tickSpacing int) (int, bool, error)
}
