// Package hooks decodes the permission flags a v4 hook contract encodes in
// the low bits of its own address.
package hooks

import "github.com/ethereum/go-ethereum/common"

// Option is the bit index of a single hook permission within the address.
type Option uint

const (
	AfterRemoveLiquidityReturnsDelta Option = iota
	AfterAddLiquidityReturnsDelta
	AfterSwapReturnsDelta
	BeforeSwapReturnsDelta
	AfterDonate
	BeforeDonate
	AfterSwap
	BeforeSwap
	AfterRemoveLiquidity
	BeforeRemoveLiquidity
	AfterAddLiquidity
	BeforeAddLiquidity
	AfterInitialize
	BeforeInitialize
)

// Permissions is the full set of flags carried by a hook address.
type Permissions struct {
	AfterRemoveLiquidityReturnsDelta bool
	AfterAddLiquidityReturnsDelta    bool
	AfterSwapReturnsDelta            bool
	BeforeSwapReturnsDelta           bool
	AfterDonate                      bool
	BeforeDonate                     bool
	AfterSwap                        bool
	BeforeSwap                       bool
	AfterRemoveLiquidity             bool
	BeforeRemoveLiquidity            bool
	AfterAddLiquidity                bool
	BeforeAddLiquidity               bool
	AfterInitialize                  bool
	BeforeInitialize                 bool
}

// flags returns the low two address bytes, which carry the permission bits.
func flags(address common.Address) uint16 {
	return uint16(address[18])<<8 | uint16(address[19])
}

// HasPermission reports whether the address carries the given permission bit.
func HasPermission(address common.Address, option Option) bool {
	return flags(address)&(1<<option) != 0
}

// PermissionsOf expands all permission bits of the address.
func PermissionsOf(address common.Address) Permissions {
	return Permissions{
		AfterRemoveLiquidityReturnsDelta: HasPermission(address, AfterRemoveLiquidityReturnsDelta),
		AfterAddLiquidityReturnsDelta:    HasPermission(address, AfterAddLiquidityReturnsDelta),
		AfterSwapReturnsDelta:            HasPermission(address, AfterSwapReturnsDelta),
		BeforeSwapReturnsDelta:           HasPermission(address, BeforeSwapReturnsDelta),
		AfterDonate:                      HasPermission(address, AfterDonate),
		BeforeDonate:                     HasPermission(address, BeforeDonate),
		AfterSwap:                        HasPermission(address, AfterSwap),
		BeforeSwap:                       HasPermission(address, BeforeSwap),
		AfterRemoveLiquidity:             HasPermission(address, AfterRemoveLiquidity),
		BeforeRemoveLiquidity:            HasPermission(address, BeforeRemoveLiquidity),
		AfterAddLiquidity:                HasPermission(address, AfterAddLiquidity),
		BeforeAddLiquidity:               HasPermission(address, BeforeAddLiquidity),
		AfterInitialize:                  HasPermission(address, AfterInitialize),
		BeforeInitialize:                 HasPermission(address, BeforeInitialize),
	}
}

// HasInitializePermissions reports whether the hook runs on pool
// initialization.
func HasInitializePermissions(address common.Address) bool {
	return HasPermission(address, BeforeInitialize) || HasPermission(address, AfterInitialize)
}

// HasLiquidityPermissions reports whether the hook runs on liquidity
// modification.
func HasLiquidityPermissions(address common.Address) bool {
	return HasPermission(address, BeforeAddLiquidity) ||
		HasPermission(address, AfterAddLiquidity) ||
		HasPermission(address, BeforeRemoveLiquidity) ||
		HasPermission(address, AfterRemoveLiquidity)
}

// HasSwapPermissions reports whether the hook runs on swaps. Pools with such
// hooks cannot be simulated off chain.
func HasSwapPermissions(address common.Address) bool {
	return HasPermission(address, BeforeSwap) || HasPermission(address, AfterSwap)
}

// HasDonatePermissions reports whether the hook runs on donations.
func HasDonatePermissions(address common.Address) bool {
	return HasPermission(address, BeforeDonate) || HasPermission(address, AfterDonate)
}
