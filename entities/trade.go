package entities

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// TradeType distinguishes swaps quoted from a fixed input from those quoted
// toward a fixed output.
type TradeType int

const (
	ExactInput TradeType = iota
	ExactOutput
)

// Swap is one route of a trade together with the amounts it moves.
type Swap struct {
	Route        *Route
	InputAmount  CurrencyAmount
	OutputAmount CurrencyAmount
}

// Trade is a quoted trade across one or more routes. Accessors with a
// Cached suffix memoize on the receiver and are not safe for concurrent use.
type Trade struct {
	Swaps     []Swap
	TradeType TradeType

	inputAmount    *CurrencyAmount
	outputAmount   *CurrencyAmount
	executionPrice *Price
	priceImpact    *Percent
}

// newTrade validates cross-route consistency: every route must share the
// trade's endpoint currencies, and no pool may appear twice.
func newTrade(swaps []Swap, tradeType TradeType) (*Trade, error) {
	if len(swaps) == 0 {
		return nil, errors.New("trade must contain at least one swap")
	}

	inputCurrency := swaps[0].InputAmount.Currency
	outputCurrency := swaps[0].OutputAmount.Currency
	for _, swap := range swaps {
		if !inputCurrency.Equals(swap.Route.Input) || !swap.InputAmount.Currency.Equals(swap.Route.Input) {
			return nil, ErrCurrencyMismatch
		}
		if !outputCurrency.Equals(swap.Route.Output) || !swap.OutputAmount.Currency.Equals(swap.Route.Output) {
			return nil, ErrCurrencyMismatch
		}
	}

	numPools := 0
	poolIDs := make(map[common.Hash]struct{})
	for _, swap := range swaps {
		numPools += len(swap.Route.Pools)
		for _, pool := range swap.Route.Pools {
			poolIDs[pool.PoolID] = struct{}{}
		}
	}
	if len(poolIDs) != numPools {
		return nil, errors.New("trade routes share a pool")
	}

	return &Trade{Swaps: swaps, TradeType: tradeType}, nil
}

// CreateUncheckedTrade builds a trade from amounts the caller has already
// computed, skipping simulation but not consistency validation.
func CreateUncheckedTrade(route *Route, inputAmount, outputAmount CurrencyAmount, tradeType TradeType) (*Trade, error) {
	return newTrade([]Swap{{Route: route, InputAmount: inputAmount, OutputAmount: outputAmount}}, tradeType)
}

// CreateUncheckedTradeWithMultipleRoutes is CreateUncheckedTrade for a
// multi-route split trade.
func CreateUncheckedTradeWithMultipleRoutes(swaps []Swap, tradeType TradeType) (*Trade, error) {
	return newTrade(swaps, tradeType)
}

// FromRoute simulates a route hop by hop and builds the resulting trade.
func FromRoute(ctx context.Context, route *Route, amount CurrencyAmount, tradeType TradeType) (*Trade, error) {
	var inputAmount, outputAmount CurrencyAmount

	if tradeType == ExactInput {
		if !amount.Currency.Equals(route.Input) {
			return nil, ErrCurrencyMismatch
		}
		tokenAmount := CurrencyAmount{Currency: route.PathInput, Fraction: amount.Fraction}
		for _, pool := range route.Pools {
			hopAmount, err := AmountWithPathCurrency(tokenAmount, pool)
			if err != nil {
				return nil, err
			}
			tokenAmount, _, err = pool.GetOutputAmount(ctx, hopAmount, nil)
			if err != nil {
				return nil, err
			}
		}
		inputAmount = CurrencyAmount{Currency: route.Input, Fraction: amount.Fraction}
		outputAmount = CurrencyAmount{Currency: route.Output, Fraction: tokenAmount.Fraction}
	} else {
		if !amount.Currency.Equals(route.Output) {
			return nil, ErrCurrencyMismatch
		}
		tokenAmount := CurrencyAmount{Currency: route.PathOutput, Fraction: amount.Fraction}
		for i := len(route.Pools) - 1; i >= 0; i-- {
			hopAmount, err := AmountWithPathCurrency(tokenAmount, route.Pools[i])
			if err != nil {
				return nil, err
			}
			tokenAmount, _, err = route.Pools[i].GetInputAmount(ctx, hopAmount, nil)
			if err != nil {
				return nil, err
			}
		}
		inputAmount = CurrencyAmount{Currency: route.Input, Fraction: tokenAmount.Fraction}
		outputAmount = CurrencyAmount{Currency: route.Output, Fraction: amount.Fraction}
	}

	return newTrade([]Swap{{Route: route, InputAmount: inputAmount, OutputAmount: outputAmount}}, tradeType)
}

// RouteAmount pairs a route with the amount to quote it at.
type RouteAmount struct {
	Route  *Route
	Amount CurrencyAmount
}

// FromRoutes simulates several routes and combines them into one split
// trade.
func FromRoutes(ctx context.Context, routes []RouteAmount, tradeType TradeType) (*Trade, error) {
	swaps := make([]Swap, 0, len(routes))
	for _, ra := range routes {
		trade, err := FromRoute(ctx, ra.Route, ra.Amount, tradeType)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, trade.Swaps...)
	}
	return newTrade(swaps, tradeType)
}

// ExactIn quotes a route from a fixed input amount.
func ExactIn(ctx context.Context, route *Route, amountIn CurrencyAmount) (*Trade, error) {
	return FromRoute(ctx, route, amountIn, ExactInput)
}

// ExactOut quotes a route toward a fixed output amount.
func ExactOut(ctx context.Context, route *Route, amountOut CurrencyAmount) (*Trade, error) {
	return FromRoute(ctx, route, amountOut, ExactOutput)
}

// InputAmount sums the input over all routes.
func (t *Trade) InputAmount() CurrencyAmount {
	total := CurrencyAmount{Currency: t.Swaps[0].InputAmount.Currency, Fraction: NewFractionFromInt64(0, 1)}
	for _, swap := range t.Swaps {
		total.Fraction = total.Fraction.Add(swap.InputAmount.Fraction)
	}
	return total
}

// InputAmountCached memoizes InputAmount on the receiver.
func (t *Trade) InputAmountCached() CurrencyAmount {
	if t.inputAmount == nil {
		amount := t.InputAmount()
		t.inputAmount = &amount
	}
	return *t.inputAmount
}

// OutputAmount sums the output over all routes.
func (t *Trade) OutputAmount() CurrencyAmount {
	total := CurrencyAmount{Currency: t.Swaps[0].OutputAmount.Currency, Fraction: NewFractionFromInt64(0, 1)}
	for _, swap := range t.Swaps {
		total.Fraction = total.Fraction.Add(swap.OutputAmount.Fraction)
	}
	return total
}

// OutputAmountCached memoizes OutputAmount on the receiver.
func (t *Trade) OutputAmountCached() CurrencyAmount {
	if t.outputAmount == nil {
		amount := t.OutputAmount()
		t.outputAmount = &amount
	}
	return *t.outputAmount
}

// ExecutionPrice is the realized price of the whole trade, output per input.
func (t *Trade) ExecutionPrice() Price {
	input := t.InputAmountCached()
	output := t.OutputAmountCached()
	return NewPrice(input.Currency, output.Currency, input.Quotient(), output.Quotient())
}

// ExecutionPriceCached memoizes ExecutionPrice on the receiver.
func (t *Trade) ExecutionPriceCached() Price {
	if t.executionPrice == nil {
		price := t.ExecutionPrice()
		t.executionPrice = &price
	}
	return *t.executionPrice
}

// PriceImpact is the drop of the realized output below the mid-price spot
// output, as a fraction of the spot output.
func (t *Trade) PriceImpact() (Percent, error) {
	spotOutput := CurrencyAmount{Currency: t.Swaps[0].OutputAmount.Currency, Fraction: NewFractionFromInt64(0, 1)}
	for _, swap := range t.Swaps {
		midPrice, err := swap.Route.MidPriceCached()
		if err != nil {
			return Percent{}, err
		}
		quoted, err := midPrice.QuoteAmount(swap.InputAmount)
		if err != nil {
			return Percent{}, err
		}
		spotOutput.Fraction = spotOutput.Fraction.Add(quoted.Fraction)
	}

	impact := spotOutput.Fraction.Subtract(t.OutputAmountCached().Fraction).Divide(spotOutput.Fraction)
	return NewPercentFromFraction(impact), nil
}

// PriceImpactCached memoizes PriceImpact on the receiver.
func (t *Trade) PriceImpactCached() (Percent, error) {
	if t.priceImpact != nil {
		return *t.priceImpact, nil
	}
	impact, err := t.PriceImpact()
	if err != nil {
		return Percent{}, err
	}
	t.priceImpact = &impact
	return impact, nil
}

// MinimumAmountOut bounds the output from below under a slippage tolerance.
// Exact-output trades already fix their output.
func (t *Trade) MinimumAmountOut(slippageTolerance Percent) CurrencyAmount {
	if slippageTolerance.Sign() < 0 {
		panic("slippage tolerance must not be negative")
	}
	output := t.OutputAmountCached()
	if t.TradeType == ExactOutput {
		return output
	}
	unit := NewFractionFromInt64(1, 1)
	adjusted := unit.Divide(unit.Add(slippageTolerance.Fraction)).Multiply(output.Fraction)
	return CurrencyAmount{Currency: output.Currency, Fraction: adjusted}
}

// MaximumAmountIn bounds the input from above under a slippage tolerance.
// Exact-input trades already fix their input.
func (t *Trade) MaximumAmountIn(slippageTolerance Percent) CurrencyAmount {
	if slippageTolerance.Sign() < 0 {
		panic("slippage tolerance must not be negative")
	}
	input := t.InputAmountCached()
	if t.TradeType == ExactInput {
		return input
	}
	unit := NewFractionFromInt64(1, 1)
	adjusted := unit.Add(slippageTolerance.Fraction).Multiply(input.Fraction)
	return CurrencyAmount{Currency: input.Currency, Fraction: adjusted}
}

// WorstExecutionPrice is the execution price at the slippage bounds.
func (t *Trade) WorstExecutionPrice(slippageTolerance Percent) Price {
	input := t.MaximumAmountIn(slippageTolerance)
	output := t.MinimumAmountOut(slippageTolerance)
	return NewPrice(input.Currency, output.Currency, input.Quotient(), output.Quotient())
}

// TradeComparator orders trades best first: more output, then less input,
// then fewer total hops. Comparing trades over different currency pairs is a
// caller bug and panics.
func TradeComparator(a, b *Trade) int {
	if !a.InputAmountCached().Currency.Equals(b.InputAmountCached().Currency) ||
		!a.OutputAmountCached().Currency.Equals(b.OutputAmountCached().Currency) {
		panic("comparing trades over different currency pairs")
	}

	outCmp := a.OutputAmountCached().Fraction.Cmp(b.OutputAmountCached().Fraction)
	if outCmp != 0 {
		// more output first
		return -outCmp
	}
	inCmp := a.InputAmountCached().Fraction.Cmp(b.InputAmountCached().Fraction)
	if inCmp != 0 {
		// less input first
		return inCmp
	}

	aHops, bHops := 0, 0
	for _, swap := range a.Swaps {
		aHops += len(swap.Route.Pools) + 1
	}
	for _, swap := range b.Swaps {
		bHops += len(swap.Route.Pools) + 1
	}
	return aHops - bHops
}

// BestTradeOptions bounds the route search.
type BestTradeOptions struct {
	// MaxNumResults caps how many trades are kept, best first.
	MaxNumResults int
	// MaxHops caps the number of pools a single route may cross.
	MaxHops int
}

func (o *BestTradeOptions) withDefaults() BestTradeOptions {
	opts := BestTradeOptions{MaxNumResults: 3, MaxHops: 3}
	if o != nil {
		if o.MaxNumResults > 0 {
			opts.MaxNumResults = o.MaxNumResults
		}
		if o.MaxHops > 0 {
			opts.MaxHops = o.MaxHops
		}
	}
	return opts
}

// sortedInsert keeps trades ordered by the comparator, capped at maxResults.
func sortedInsert(trades *[]*Trade, trade *Trade, maxResults int) {
	i := 0
	for ; i < len(*trades); i++ {
		if TradeComparator(trade, (*trades)[i]) < 0 {
			break
		}
	}
	*trades = append(*trades, nil)
	copy((*trades)[i+1:], (*trades)[i:])
	(*trades)[i] = trade
	if len(*trades) > maxResults {
		*trades = (*trades)[:maxResults]
	}
}

// BestTradeExactIn searches the pool set for the best ways to swap a fixed
// input amount to the output currency, crossing at most MaxHops pools.
// Routes that run out of liquidity are skipped, not reported.
func BestTradeExactIn(ctx context.Context, pools []*Pool, currencyAmountIn CurrencyAmount, currencyOut Currency, opts *BestTradeOptions) ([]*Trade, error) {
	if len(pools) == 0 {
		panic("best trade search needs at least one pool")
	}
	options := opts.withDefaults()

	var bestTrades []*Trade
	err := bestTradeExactIn(ctx, pools, currencyAmountIn, currencyOut, options, nil, currencyAmountIn, &bestTrades)
	return bestTrades, err
}

func bestTradeExactIn(ctx context.Context, pools []*Pool, currencyAmountIn CurrencyAmount, currencyOut Currency, opts BestTradeOptions, currentPools []*Pool, nextAmountIn CurrencyAmount, bestTrades *[]*Trade) error {
	if opts.MaxHops == 0 {
		panic("best trade search needs at least one hop")
	}

	for i, pool := range pools {
		if !pool.InvolvesToken(nextAmountIn.Currency) {
			continue
		}

		hopAmount, err := AmountWithPathCurrency(nextAmountIn, pool)
		if err != nil {
			continue
		}
		amountOut, _, err := pool.GetOutputAmount(ctx, hopAmount, nil)
		if errors.Is(err, ErrInsufficientLiquidity) {
			continue
		}
		if err != nil {
			return err
		}

		if amountOut.Currency.Wrapped().Equals(currencyOut.Wrapped()) {
			route, err := NewRoute(append(append([]*Pool{}, currentPools...), pool), currencyAmountIn.Currency, currencyOut)
			if err != nil {
				return err
			}
			trade, err := FromRoute(ctx, route, currencyAmountIn, ExactInput)
			if err != nil {
				return err
			}
			sortedInsert(bestTrades, trade, opts.MaxNumResults)
		} else if opts.MaxHops > 1 && len(pools) > 1 {
			poolsExcludingThisPool := make([]*Pool, 0, len(pools)-1)
			poolsExcludingThisPool = append(poolsExcludingThisPool, pools[:i]...)
			poolsExcludingThisPool = append(poolsExcludingThisPool, pools[i+1:]...)

			nextOpts := opts
			nextOpts.MaxHops--
			err = bestTradeExactIn(ctx, poolsExcludingThisPool, currencyAmountIn, currencyOut, nextOpts,
				append(append([]*Pool{}, currentPools...), pool), amountOut, bestTrades)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// BestTradeExactOut searches the pool set for the best ways to obtain a
// fixed output amount from the input currency.
func BestTradeExactOut(ctx context.Context, pools []*Pool, currencyIn Currency, currencyAmountOut CurrencyAmount, opts *BestTradeOptions) ([]*Trade, error) {
	if len(pools) == 0 {
		panic("best trade search needs at least one pool")
	}
	options := opts.withDefaults()

	var bestTrades []*Trade
	err := bestTradeExactOut(ctx, pools, currencyIn, currencyAmountOut, options, nil, currencyAmountOut, &bestTrades)
	return bestTrades, err
}

func bestTradeExactOut(ctx context.Context, pools []*Pool, currencyIn Currency, currencyAmountOut CurrencyAmount, opts BestTradeOptions, currentPools []*Pool, nextAmountOut CurrencyAmount, bestTrades *[]*Trade) error {
	if opts.MaxHops == 0 {
		panic("best trade search needs at least one hop")
	}

	for i, pool := range pools {
		if !pool.InvolvesToken(nextAmountOut.Currency) {
			continue
		}

		hopAmount, err := AmountWithPathCurrency(nextAmountOut, pool)
		if err != nil {
			continue
		}
		amountIn, _, err := pool.GetInputAmount(ctx, hopAmount, nil)
		if errors.Is(err, ErrInsufficientLiquidity) {
			continue
		}
		if err != nil {
			return err
		}

		if amountIn.Currency.Wrapped().Equals(currencyIn.Wrapped()) {
			route, err := NewRoute(append([]*Pool{pool}, currentPools...), currencyIn, currencyAmountOut.Currency)
			if err != nil {
				return err
			}
			trade, err := FromRoute(ctx, route, currencyAmountOut, ExactOutput)
			if err != nil {
				return err
			}
			sortedInsert(bestTrades, trade, opts.MaxNumResults)
		} else if opts.MaxHops > 1 && len(pools) > 1 {
			poolsExcludingThisPool := make([]*Pool, 0, len(pools)-1)
			poolsExcludingThisPool = append(poolsExcludingThisPool, pools[:i]...)
			poolsExcludingThisPool = append(poolsExcludingThisPool, pools[i+1:]...)

			nextOpts := opts
			nextOpts.MaxHops--
			err = bestTradeExactOut(ctx, poolsExcludingThisPool, currencyIn, currencyAmountOut, nextOpts,
				append([]*Pool{pool}, currentPools...), amountIn, bestTrades)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
