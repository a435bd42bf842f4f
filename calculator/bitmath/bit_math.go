package bitmath

import (
	"errors"
	"math/big"
	"math/bits"
)

var (
	// ErrInputIsZero is returned when a function requires a non-zero input but receives zero.
	ErrInputIsZero = errors.New("input must be greater than zero")
	// ErrInputIsNil is returned when a function receives a nil pointer.
	ErrInputIsNil = errors.New("input cannot be nil")
)

// MostSignificantBit returns the index of the most significant bit of the number,
// where the least significant bit is at index 0.
//
// The function satisfies the property: x >= 2**msb(x) and x < 2**(msb(x)+1)
func MostSignificantBit(x *big.Int) (uint8, error) {
	if x == nil {
		return 0, ErrInputIsNil
	}
	if x.Sign() <= 0 {
		return 0, ErrInputIsZero
	}

	// BitLen is the number of bits required to represent x, so the index of
	// the most significant bit is always BitLen() - 1.
	return uint8(x.BitLen() - 1), nil
}

// LeastSignificantBit returns the index of the least significant bit of the number,
// where the least significant bit is at index 0.
//
// The function satisfies the property: (x & 2**lsb(x)) != 0
func LeastSignificantBit(x *big.Int) (uint8, error) {
	if x == nil {
		return 0, ErrInputIsNil
	}
	if x.Sign() <= 0 {
		return 0, ErrInputIsZero
	}

	// Scan the internal words for the first non-zero one; the LSB lives there.
	words := x.Bits()
	for i, word := range words {
		if word > 0 {
			lsbInWord := bits.TrailingZeros64(uint64(word))
			return uint8(i*64 + lsbInWord), nil
		}
	}

	// Unreachable: x > 0 was already checked.
	return 0, ErrInputIsZero
}
