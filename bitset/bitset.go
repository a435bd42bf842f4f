package bitset

import (
	"fmt"
	"math/bits"
)

func NewBitSet(len uint64) BitSet {
	words := (len + 63) / 64
	bits := make([]uint64, words)
	return bits
}

// BitSet is a little-endian bit vector: bit i lives in word i/64 at position
// i%64. A 256-bit tick bitmap word maps onto a 4-word BitSet with the same
// bit numbering.
type BitSet []uint64

func (b BitSet) IsSet(index uint64) bool {
	wordPosition := index / 64
	bitPosition := index % 64
	mask := uint64(1) << bitPosition

	return (b[wordPosition] & mask) != 0
}

func (b BitSet) Set(index uint64) {
	wordPosition := index / 64
	bitPosition := index % 64
	mask := uint64(1) << bitPosition

	b[wordPosition] |= mask
}

func (b BitSet) Unset(index uint64) {
	wordPosition := index / 64
	bitPosition := index % 64
	mask := uint64(1) << bitPosition

	b[wordPosition] = b[wordPosition] &^ mask

}

func (b BitSet) Clear() {
	for i := range b {
		b[i] = 0
	}
}

func (b BitSet) SetFrom(o BitSet) {
	if len(b) != len(o) {
		panic(fmt.Sprintf("bitsets must be same size: got %d vs %d", len(b), len(o)))
	}
	copy(b, o)
}

// NextSetAtOrBelow returns the highest set index at or below index, scanning
// downward. The second return is false when no such bit exists.
func (b BitSet) NextSetAtOrBelow(index uint64) (uint64, bool) {
	wordPosition := index / 64
	bitPosition := index % 64

	masked := b[wordPosition] & (^uint64(0) >> (63 - bitPosition))
	for {
		if masked != 0 {
			return wordPosition*64 + 63 - uint64(bits.LeadingZeros64(masked)), true
		}
		if wordPosition == 0 {
			return 0, false
		}
		wordPosition--
		masked = b[wordPosition]
	}
}

// NextSetAtOrAbove returns the lowest set index at or above index, scanning
// upward. The second return is false when no such bit exists.
func (b BitSet) NextSetAtOrAbove(index uint64) (uint64, bool) {
	wordPosition := index / 64
	bitPosition := index % 64

	masked := b[wordPosition] &^ ((uint64(1) << bitPosition) - 1)
	for {
		if masked != 0 {
			return wordPosition*64 + uint64(bits.TrailingZeros64(masked)), true
		}
		wordPosition++
		if wordPosition >= uint64(len(b)) {
			return 0, false
		}
		masked = b[wordPosition]
	}
}
