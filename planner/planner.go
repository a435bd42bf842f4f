package planner

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/defistate/uniswapv4-client-go/entities"
)

// V4Planner accumulates router actions and their encoded parameters, then
// finalizes them into the router's calldata payload.
type V4Planner struct {
	// Actions is the accumulated command byte string.
	Actions []byte
	// Params holds one ABI-encoded parameter block per command.
	Params [][]byte

	commands *CommandSet
}

// NewV4Planner returns a planner targeting the released router command set.
func NewV4Planner() *V4Planner {
	return NewV4PlannerWithCommands(V4RouterCommands)
}

// NewV4PlannerWithCommands returns a planner targeting a specific command
// set revision.
func NewV4PlannerWithCommands(commands *CommandSet) *V4Planner {
	return &V4Planner{commands: commands}
}

// AddAction encodes one action and appends it to the plan.
func (p *V4Planner) AddAction(action Action) error {
	command, data, err := p.commandSet().EncodeAction(action)
	if err != nil {
		return err
	}
	p.Actions = append(p.Actions, command)
	p.Params = append(p.Params, data)
	return nil
}

// AddTrade appends the swap actions for a trade. The trade must hold exactly
// one swap; splitting across routes is planned per route. Exact-output
// trades need a slippage tolerance to bound their input; exact-input trades
// without one get a zero output minimum.
func (p *V4Planner) AddTrade(trade *entities.Trade, slippageTolerance *entities.Percent) error {
	if len(trade.Swaps) != 1 {
		panic("planner only accepts trades with exactly one swap, plan multi-route trades per route")
	}
	exactOutput := trade.TradeType == entities.ExactOutput
	if exactOutput && slippageTolerance == nil {
		panic("exact-output trades need a slippage tolerance")
	}

	route := trade.Swaps[0].Route
	pool := route.Pools[0]

	if len(route.Pools) == 1 {
		if exactOutput {
			return p.AddAction(SwapExactOutSingleParams{
				PoolKey:         WirePoolKey(pool.PoolKey),
				ZeroForOne:      route.PathInput.Equals(pool.Currency0),
				AmountOut:       trade.OutputAmountCached().Quotient(),
				AmountInMaximum: trade.MaximumAmountIn(*slippageTolerance).Quotient(),
				HookData:        []byte{},
			})
		}
		amountOutMinimum := new(big.Int)
		if slippageTolerance != nil {
			amountOutMinimum = trade.MinimumAmountOut(*slippageTolerance).Quotient()
		}
		return p.AddAction(SwapExactInSingleParams{
			PoolKey:          WirePoolKey(pool.PoolKey),
			ZeroForOne:       route.PathInput.Equals(pool.Currency0),
			AmountIn:         trade.InputAmountCached().Quotient(),
			AmountOutMinimum: amountOutMinimum,
			HookData:         []byte{},
		})
	}

	if exactOutput {
		return p.AddAction(SwapExactOutParams{
			CurrencyOut:     route.PathOutput.ProtocolAddress(),
			Path:            EncodeRouteToPath(route, true),
			AmountOut:       trade.OutputAmountCached().Quotient(),
			AmountInMaximum: trade.MaximumAmountIn(*slippageTolerance).Quotient(),
		})
	}
	amountOutMinimum := new(big.Int)
	if slippageTolerance != nil {
		amountOutMinimum = trade.MinimumAmountOut(*slippageTolerance).Quotient()
	}
	return p.AddAction(SwapExactInParams{
		CurrencyIn:       route.PathInput.ProtocolAddress(),
		Path:             EncodeRouteToPath(route, false),
		AmountIn:         trade.InputAmountCached().Quotient(),
		AmountOutMinimum: amountOutMinimum,
	})
}

// AddSettle appends a settle of the currency's open delta, or of an explicit
// amount when one is given.
func (p *V4Planner) AddSettle(currency entities.Currency, payerIsUser bool, amount *big.Int) error {
	if amount == nil {
		amount = OpenDelta
	}
	return p.AddAction(SettleParams{
		Currency:    currency.ProtocolAddress(),
		Amount:      amount,
		PayerIsUser: payerIsUser,
	})
}

// AddTake appends a take of the currency's open delta to the recipient, or
// of an explicit amount when one is given.
func (p *V4Planner) AddTake(currency entities.Currency, recipient common.Address, amount *big.Int) error {
	if amount == nil {
		amount = OpenDelta
	}
	return p.AddAction(TakeParams{
		Currency:  currency.ProtocolAddress(),
		Recipient: recipient,
		Amount:    amount,
	})
}

// Finalize encodes the accumulated plan as the router's payload tuple.
func (p *V4Planner) Finalize() ([]byte, error) {
	actions := p.Actions
	if actions == nil {
		actions = []byte{}
	}
	params := p.Params
	if params == nil {
		params = [][]byte{}
	}
	return envelopeArgs.Pack(envelope{Actions: actions, Params: params})
}

func (p *V4Planner) commandSet() *CommandSet {
	if p.commands == nil {
		return V4RouterCommands
	}
	return p.commands
}
