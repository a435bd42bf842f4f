package entities

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
)

// wrappedNativeByChain maps chain ids to the canonical wrapped-native token
// address, used when a native currency needs a token-form equivalent.
var wrappedNativeByChain = map[uint64]common.Address{
	1:        common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), // mainnet WETH9
	10:       common.HexToAddress("0x4200000000000000000000000000000000000006"), // optimism WETH
	8453:     common.HexToAddress("0x4200000000000000000000000000000000000006"), // base WETH
	42161:    common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"), // arbitrum WETH
	11155111: common.HexToAddress("0x7b79995e5f793A07Bc00c21412e50Ecae098E7f9"), // sepolia WETH
}

// Currency identifies a native coin or an ERC-20 token on a specific chain.
// The zero value is not a valid currency; construct values with NewToken,
// NativeOnChain or NewNative.
type Currency struct {
	isNative bool
	chainID  uint64
	address  common.Address // token address, or the wrapped equivalent for native
	decimals uint8
	symbol   string
	name     string
}

// NewToken builds a token currency.
func NewToken(chainID uint64, address common.Address, decimals uint8, symbol, name string) Currency {
	return Currency{
		chainID:  chainID,
		address:  address,
		decimals: decimals,
		symbol:   symbol,
		name:     name,
	}
}

// NewNative builds a native currency with an explicit wrapped-token address.
func NewNative(chainID uint64, decimals uint8, symbol, name string, wrapped common.Address) Currency {
	return Currency{
		isNative: true,
		chainID:  chainID,
		address:  wrapped,
		decimals: decimals,
		symbol:   symbol,
		name:     name,
	}
}

// NativeOnChain returns the native currency of a known chain, falling back to
// an ether-like currency with a zero wrapped address for unknown chains.
func NativeOnChain(chainID uint64) Currency {
	return NewNative(chainID, 18, "ETH", "Ether", wrappedNativeByChain[chainID])
}

// IsNative reports whether the currency is the chain's native coin.
func (c Currency) IsNative() bool { return c.isNative }

// IsToken reports whether the currency is an ERC-20 token.
func (c Currency) IsToken() bool { return !c.isNative }

// ChainID returns the chain the currency lives on.
func (c Currency) ChainID() uint64 { return c.chainID }

// Decimals returns the currency's decimal precision.
func (c Currency) Decimals() uint8 { return c.decimals }

// Symbol returns the currency's ticker symbol.
func (c Currency) Symbol() string { return c.symbol }

// Name returns the currency's display name.
func (c Currency) Name() string { return c.name }

// Address returns the token address, or the wrapped-token address for native
// currencies.
func (c Currency) Address() common.Address { return c.address }

// ProtocolAddress returns the address the v4 protocol uses for the currency:
// the zero address for native, the token address otherwise.
func (c Currency) ProtocolAddress() common.Address {
	if c.isNative {
		return common.Address{}
	}
	return c.address
}

// Wrapped returns the token-form equivalent of the currency. Tokens return
// themselves.
func (c Currency) Wrapped() Currency {
	if !c.isNative {
		return c
	}
	return NewToken(c.chainID, c.address, c.decimals, "W"+c.symbol, "Wrapped "+c.name)
}

// Equals reports whether two currencies identify the same asset.
func (c Currency) Equals(other Currency) bool {
	if c.chainID != other.chainID {
		return false
	}
	if c.isNative || other.isNative {
		return c.isNative == other.isNative
	}
	return c.address == other.address
}

// SortsBefore reports whether the currency orders before the other under the
// protocol's canonical ordering: native sorts before every token, tokens
// order by wrapped address bytes.
func (c Currency) SortsBefore(other Currency) (bool, error) {
	if c.chainID != other.chainID {
		return false, ErrChainMismatch
	}
	if c.isNative {
		return true, nil
	}
	if other.isNative {
		return false, nil
	}
	addrA := c.Wrapped().address
	addrB := other.Wrapped().address
	switch bytes.Compare(addrA[:], addrB[:]) {
	case -1:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, ErrEqualAddresses
	}
}
