package entities

import "errors"

var (
	// ErrChainMismatch is returned when two currencies live on different chains.
	ErrChainMismatch = errors.New("currencies are on different chains")
	// ErrEqualAddresses is returned when two distinct currencies share an address.
	ErrEqualAddresses = errors.New("currency addresses are equal")
	// ErrCurrencyMismatch is returned when an operation combines amounts or
	// prices of unrelated currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrInvalidCurrency is returned when a currency does not belong to a pool
	// or route it is used with.
	ErrInvalidCurrency = errors.New("invalid currency")
	// ErrInsufficientLiquidity is returned when a swap exhausts the available
	// liquidity before the requested amount is satisfied.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrNoTickDataProvider is returned when simulating a swap on a pool that
	// was constructed without a tick data provider.
	ErrNoTickDataProvider = errors.New("no tick data provider")
	// ErrUnsupportedHook is returned when simulating a swap on a pool whose
	// hook can alter swap behavior on chain.
	ErrUnsupportedHook = errors.New("unsupported hook")
	// ErrInvalidRange is returned when a price is outside a representable range.
	ErrInvalidRange = errors.New("value out of range")
)
