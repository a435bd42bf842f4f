package entities

import (
	"context"
	"errors"
	"math/big"
	"sort"
)

var (
	ErrEmptyTickList      = errors.New("tick list must not be empty")
	ErrUnsortedTickList   = errors.New("tick list must be sorted by index")
	ErrTickSpacingZero    = errors.New("tick spacing must be greater than zero")
	ErrTickNotSpaced      = errors.New("tick index not a multiple of tick spacing")
	ErrNonZeroNet         = errors.New("tick net liquidity must sum to zero")
	ErrTickNotFound       = errors.New("tick not found in list")
	ErrTickBelowSmallest  = errors.New("tick is below the smallest initialized tick")
	ErrTickAtOrAboveLimit = errors.New("tick is at or above the largest initialized tick")
)

// TickListDataProvider serves tick data from a complete in-memory list of
// initialized ticks, typically assembled off chain or by a chain reader.
type TickListDataProvider struct {
	ticks []Tick
}

// NewTickListDataProvider validates the list and wraps it as a provider. The
// list must be sorted, aligned to the tick spacing, and balanced so that all
// net liquidity cancels out.
func NewTickListDataProvider(ticks []Tick, tickSpacing int) (*TickListDataProvider, error) {
	if tickSpacing <= 0 {
		return nil, ErrTickSpacingZero
	}
	if len(ticks) == 0 {
		return nil, ErrEmptyTickList
	}

	netSum := new(big.Int)
	for i, t := range ticks {
		if t.Index%tickSpacing != 0 {
			return nil, ErrTickNotSpaced
		}
		if i > 0 && ticks[i-1].Index >= t.Index {
			return nil, ErrUnsortedTickList
		}
		netSum.Add(netSum, t.LiquidityNet)
	}
	if netSum.Sign() != 0 {
		return nil, ErrNonZeroNet
	}

	return &TickListDataProvider{ticks: ticks}, nil
}

// Tick returns the entry at the given index.
func (p *TickListDataProvider) Tick(_ context.Context, index int) (Tick, error) {
	i := sort.Search(len(p.ticks), func(i int) bool { return p.ticks[i].Index >= index })
	if i == len(p.ticks) || p.ticks[i].Index != index {
		return Tick{}, ErrTickNotFound
	}
	return p.ticks[i], nil
}

// NextInitializedTickWithinOneWord scans for the next initialized tick within
// the bitmap word containing the compressed tick, clamping to the word
// boundary when the word holds no further initialized ticks.
func (p *TickListDataProvider) NextInitializedTickWithinOneWord(_ context.Context, tick int, lte bool, tickSpacing int) (int, bool, error) {
	compressed := floorDiv(tick, tickSpacing)

	if lte {
		wordPos := compressed >> 8
		minimum := (wordPos << 8) * tickSpacing
		if p.isBelowSmallest(tick) {
			return minimum, false, nil
		}
		index, err := p.nextInitializedTick(tick, true)
		if err != nil {
			return 0, false, err
		}
		if minimum > index {
			return minimum, false, nil
		}
		return index, true, nil
	}

	wordPos := (compressed + 1) >> 8
	maximum := ((wordPos+1)<<8)*tickSpacing - 1
	if p.isAtOrAboveLargest(tick) {
		return maximum, false, nil
	}
	index, err := p.nextInitializedTick(tick, false)
	if err != nil {
		return 0, false, err
	}
	if maximum < index {
		return maximum, false, nil
	}
	return index, true, nil
}

func (p *TickListDataProvider) isBelowSmallest(tick int) bool {
	return tick < p.ticks[0].Index
}

func (p *TickListDataProvider) isAtOrAboveLargest(tick int) bool {
	return tick >= p.ticks[len(p.ticks)-1].Index
}

// nextInitializedTick returns the index of the largest initialized tick at or
// below the given tick (lte), or the smallest strictly above it.
func (p *TickListDataProvider) nextInitializedTick(tick int, lte bool) (int, error) {
	if lte {
		if p.isBelowSmallest(tick) {
			return 0, ErrTickBelowSmallest
		}
		// First index with ticks[i].Index > tick; the answer sits just
		// before it.
		i := sort.Search(len(p.ticks), func(i int) bool { return p.ticks[i].Index > tick })
		return p.ticks[i-1].Index, nil
	}

	if p.isAtOrAboveLargest(tick) {
		return 0, ErrTickAtOrAboveLimit
	}
	i := sort.Search(len(p.ticks), func(i int) bool { return p.ticks[i].Index > tick })
	return p.ticks[i].Index, nil
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
