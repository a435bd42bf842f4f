package entities

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPools = errors.New("route must contain at least one pool")
)

// GetPathCurrency resolves the currency a route hop actually trades through
// a pool: the currency itself when the pool holds it, otherwise the pool
// side whose wrapped form matches.
func GetPathCurrency(currency Currency, pool *Pool) (Currency, error) {
	if pool.InvolvesCurrency(currency) {
		return currency, nil
	}
	if !pool.InvolvesToken(currency) {
		return Currency{}, fmt.Errorf("%w: %s not in pool", ErrInvalidCurrency, currency.Symbol())
	}
	wrapped := currency.Wrapped()
	if pool.Currency0.Wrapped().Equals(wrapped) {
		return pool.Currency0, nil
	}
	return pool.Currency1, nil
}

// AmountWithPathCurrency re-denominates an amount in the currency the pool
// trades it as.
func AmountWithPathCurrency(amount CurrencyAmount, pool *Pool) (CurrencyAmount, error) {
	pathCurrency, err := GetPathCurrency(amount.Currency, pool)
	if err != nil {
		return CurrencyAmount{}, err
	}
	return CurrencyAmount{Currency: pathCurrency, Fraction: amount.Fraction}, nil
}

// Route is an ordered chain of pools joining an input currency to an output
// currency. PathInput and PathOutput are the pool-side forms of the
// endpoints; Input and Output keep the caller's original denomination.
type Route struct {
	Pools      []*Pool
	Input      Currency
	Output     Currency
	PathInput  Currency
	PathOutput Currency

	currencyPath []Currency
	midPrice     *Price
}

// NewRoute validates pool chaining and builds the route.
func NewRoute(pools []*Pool, input, output Currency) (*Route, error) {
	if len(pools) == 0 {
		return nil, ErrEmptyPools
	}

	chainID := pools[0].ChainID()
	for _, pool := range pools {
		if pool.ChainID() != chainID {
			return nil, ErrChainMismatch
		}
	}

	pathInput, err := GetPathCurrency(input, pools[0])
	if err != nil {
		return nil, err
	}
	pathOutput, err := GetPathCurrency(output, pools[len(pools)-1])
	if err != nil {
		return nil, err
	}

	currencyPath := make([]Currency, 0, len(pools)+1)
	currencyPath = append(currencyPath, pathInput)
	current := pathInput
	for _, pool := range pools {
		switch {
		case current.Equals(pool.Currency0):
			current = pool.Currency1
		case current.Equals(pool.Currency1):
			current = pool.Currency0
		default:
			panic("route path is not continuous")
		}
		currencyPath = append(currencyPath, current)
	}
	if !current.Equals(pathOutput) {
		panic("route path does not end in the output currency")
	}

	return &Route{
		Pools:        pools,
		Input:        input,
		Output:       output,
		PathInput:    pathInput,
		PathOutput:   pathOutput,
		currencyPath: currencyPath,
	}, nil
}

// ChainID returns the chain the route lives on.
func (r *Route) ChainID() uint64 { return r.Pools[0].ChainID() }

// CurrencyPath returns the currencies visited along the route, endpoints
// included.
func (r *Route) CurrencyPath() []Currency { return r.currencyPath }

// MidPrice returns the spot price of the route's output in terms of its
// input, chaining every pool's current price.
func (r *Route) MidPrice() (Price, error) {
	price := NewFractionFromInt64(1, 1)
	current := r.PathInput
	for _, pool := range r.Pools {
		if current.Equals(pool.Currency0) {
			price = price.Multiply(pool.Currency0Price().Fraction)
			current = pool.Currency1
		} else {
			price = price.Multiply(pool.Currency1Price().Fraction)
			current = pool.Currency0
		}
	}
	return NewPriceFromFraction(r.Input, r.Output, price), nil
}

// MidPriceCached memoizes MidPrice on the receiver.
func (r *Route) MidPriceCached() (Price, error) {
	if r.midPrice != nil {
		return *r.midPrice, nil
	}
	price, err := r.MidPrice()
	if err != nil {
		return Price{}, err
	}
	r.midPrice = &price
	return price, nil
}
