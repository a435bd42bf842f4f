package extensions

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/defistate/uniswapv4-client-go/bitset"
	"github.com/defistate/uniswapv4-client-go/entities"
)

// RPCTickDataProvider feeds swap simulation with live tick data fetched
// through a PoolManagerLens. Fetched bitmap words and ticks are cached on
// the provider for its lifetime, so one provider should not outlive the
// block it was created for. A nil blockNumber pins every read to the latest
// state at call time instead.
type RPCTickDataProvider struct {
	lens        *PoolManagerLens
	poolID      common.Hash
	blockNumber *big.Int

	mu    sync.Mutex
	words map[int]bitset.BitSet
	ticks map[int]entities.Tick
}

var _ entities.TickDataProvider = (*RPCTickDataProvider)(nil)

func NewRPCTickDataProvider(lens *PoolManagerLens, poolID common.Hash, blockNumber *big.Int) *RPCTickDataProvider {
	return &RPCTickDataProvider{
		lens:        lens,
		poolID:      poolID,
		blockNumber: blockNumber,
		words:       make(map[int]bitset.BitSet),
		ticks:       make(map[int]entities.Tick),
	}
}

// Tick returns the liquidity stored at the given tick index.
func (p *RPCTickDataProvider) Tick(ctx context.Context, index int) (entities.Tick, error) {
	p.mu.Lock()
	tick, ok := p.ticks[index]
	p.mu.Unlock()
	if ok {
		return tick, nil
	}

	gross, net, err := p.lens.GetTickLiquidity(ctx, p.poolID, index, p.blockNumber)
	if err != nil {
		return entities.Tick{}, err
	}
	tick = entities.Tick{Index: index, LiquidityGross: gross, LiquidityNet: net}

	p.mu.Lock()
	p.ticks[index] = tick
	p.mu.Unlock()
	return tick, nil
}

// NextInitializedTickWithinOneWord scans the 256-tick bitmap word containing
// the given tick for the nearest initialized tick at or beyond it in the
// direction of travel. When the word holds none, the word's boundary tick is
// returned with initialized = false.
func (p *RPCTickDataProvider) NextInitializedTickWithinOneWord(ctx context.Context, tick int, lte bool, tickSpacing int) (int, bool, error) {
	compressed := floorDiv(tick, tickSpacing)

	if lte {
		wordPos := compressed >> 8
		bitPos := compressed - (wordPos << 8)

		word, err := p.word(ctx, wordPos)
		if err != nil {
			return 0, false, err
		}
		if index, ok := word.NextSetAtOrBelow(uint64(bitPos)); ok {
			return ((wordPos << 8) + int(index)) * tickSpacing, true, nil
		}
		return (wordPos << 8) * tickSpacing, false, nil
	}

	// Start from the next tick: a swap moving up never returns its own tick.
	compressed++
	wordPos := compressed >> 8
	bitPos := compressed - (wordPos << 8)

	word, err := p.word(ctx, wordPos)
	if err != nil {
		return 0, false, err
	}
	if index, ok := word.NextSetAtOrAbove(uint64(bitPos)); ok {
		return ((wordPos << 8) + int(index)) * tickSpacing, true, nil
	}
	return ((wordPos<<8)+255)*tickSpacing, false, nil
}

func (p *RPCTickDataProvider) word(ctx context.Context, wordPos int) (bitset.BitSet, error) {
	p.mu.Lock()
	word, ok := p.words[wordPos]
	p.mu.Unlock()
	if ok {
		return word, nil
	}

	raw, err := p.lens.GetTickBitmap(ctx, p.poolID, wordPos, p.blockNumber)
	if err != nil {
		return nil, err
	}
	// A uint256 is four little-endian 64-bit limbs, which is exactly the
	// bitset layout.
	word = bitset.BitSet(raw[:])

	p.mu.Lock()
	p.words[wordPos] = word
	p.mu.Unlock()
	return word, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
