// Package planner builds and parses the binary action protocol the v4
// router and position manager consume: a byte string of commands paired with
// an ABI-encoded parameter block per command.
package planner

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInvalidAction is returned when a command byte has no meaning in the
	// selected command set.
	ErrInvalidAction = errors.New("invalid action")
	// ErrNonCanonical is returned when a parameter block decodes but does
	// not re-encode to the same bytes.
	ErrNonCanonical = errors.New("parameter encoding is not canonical")
	// ErrLengthMismatch is returned when the action string and the parameter
	// list disagree in length.
	ErrLengthMismatch = errors.New("actions and params length mismatch")
)

// Router sentinel addresses and amounts understood by action parameters.
var (
	// MsgSender directs an output to the caller of the router.
	MsgSender = common.HexToAddress("0x0000000000000000000000000000000000000001")
	// AddressThis directs an output to the router itself.
	AddressThis = common.HexToAddress("0x0000000000000000000000000000000000000002")
	// OpenDelta settles or takes whatever delta is currently open.
	OpenDelta = new(big.Int)
	// ContractBalance settles the contract's whole balance of a currency.
	ContractBalance = new(big.Int).Lsh(big.NewInt(1), 255)
)

// ActionKind identifies a router operation independently of the command byte
// a protocol revision assigns to it.
type ActionKind uint8

const (
	KindIncreaseLiquidity ActionKind = iota
	KindDecreaseLiquidity
	KindMintPosition
	KindBurnPosition
	KindSwapExactInSingle
	KindSwapExactIn
	KindSwapExactOutSingle
	KindSwapExactOut
	KindSettle
	KindSettleAll
	KindSettlePair
	KindTake
	KindTakeAll
	KindTakePortion
	KindTakePair
	KindCloseCurrency
	KindSweep
)

var kindNames = map[ActionKind]string{
	KindIncreaseLiquidity:  "INCREASE_LIQUIDITY",
	KindDecreaseLiquidity:  "DECREASE_LIQUIDITY",
	KindMintPosition:       "MINT_POSITION",
	KindBurnPosition:       "BURN_POSITION",
	KindSwapExactInSingle:  "SWAP_EXACT_IN_SINGLE",
	KindSwapExactIn:        "SWAP_EXACT_IN",
	KindSwapExactOutSingle: "SWAP_EXACT_OUT_SINGLE",
	KindSwapExactOut:       "SWAP_EXACT_OUT",
	KindSettle:             "SETTLE",
	KindSettleAll:          "SETTLE_ALL",
	KindSettlePair:         "SETTLE_PAIR",
	KindTake:               "TAKE",
	KindTakeAll:            "TAKE_ALL",
	KindTakePortion:        "TAKE_PORTION",
	KindTakePair:           "TAKE_PAIR",
	KindCloseCurrency:      "CLOSE_CURRENCY",
	KindSweep:              "SWEEP",
}

func (k ActionKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ActionKind(%d)", uint8(k))
}

// Action is one router command with its decoded parameters.
type Action interface {
	Kind() ActionKind
}

// --- Action parameter structs. Field names and widths mirror the router's
// calldata ABI so the codec can map tuples onto them directly. ---

type IncreaseLiquidityParams struct {
	TokenId    *big.Int
	Liquidity  *big.Int
	Amount0Max *big.Int
	Amount1Max *big.Int
	HookData   []byte
}

func (IncreaseLiquidityParams) Kind() ActionKind { return KindIncreaseLiquidity }

type DecreaseLiquidityParams struct {
	TokenId    *big.Int
	Liquidity  *big.Int
	Amount0Min *big.Int
	Amount1Min *big.Int
	HookData   []byte
}

func (DecreaseLiquidityParams) Kind() ActionKind { return KindDecreaseLiquidity }

type MintPositionParams struct {
	PoolKey    PoolKey
	TickLower  *big.Int
	TickUpper  *big.Int
	Liquidity  *big.Int
	Amount0Max *big.Int
	Amount1Max *big.Int
	Owner      common.Address
	HookData   []byte
}

func (MintPositionParams) Kind() ActionKind { return KindMintPosition }

type BurnPositionParams struct {
	TokenId    *big.Int
	Amount0Min *big.Int
	Amount1Min *big.Int
	HookData   []byte
}

func (BurnPositionParams) Kind() ActionKind { return KindBurnPosition }

type SwapExactInSingleParams struct {
	PoolKey          PoolKey
	ZeroForOne       bool
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
	HookData         []byte
}

func (SwapExactInSingleParams) Kind() ActionKind { return KindSwapExactInSingle }

type SwapExactInParams struct {
	CurrencyIn       common.Address
	Path             []PathKey
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
}

func (SwapExactInParams) Kind() ActionKind { return KindSwapExactIn }

type SwapExactOutSingleParams struct {
	PoolKey         PoolKey
	ZeroForOne      bool
	AmountOut       *big.Int
	AmountInMaximum *big.Int
	HookData        []byte
}

func (SwapExactOutSingleParams) Kind() ActionKind { return KindSwapExactOutSingle }

type SwapExactOutParams struct {
	CurrencyOut     common.Address
	Path            []PathKey
	AmountOut       *big.Int
	AmountInMaximum *big.Int
}

func (SwapExactOutParams) Kind() ActionKind { return KindSwapExactOut }

type SettleParams struct {
	Currency    common.Address
	Amount      *big.Int
	PayerIsUser bool
}

func (SettleParams) Kind() ActionKind { return KindSettle }

type SettleAllParams struct {
	Currency  common.Address
	MaxAmount *big.Int
}

func (SettleAllParams) Kind() ActionKind { return KindSettleAll }

type SettlePairParams struct {
	Currency0 common.Address
	Currency1 common.Address
}

func (SettlePairParams) Kind() ActionKind { return KindSettlePair }

type TakeParams struct {
	Currency  common.Address
	Recipient common.Address
	Amount    *big.Int
}

func (TakeParams) Kind() ActionKind { return KindTake }

type TakeAllParams struct {
	Currency  common.Address
	MinAmount *big.Int
}

func (TakeAllParams) Kind() ActionKind { return KindTakeAll }

type TakePortionParams struct {
	Currency  common.Address
	Recipient common.Address
	Bips      *big.Int
}

func (TakePortionParams) Kind() ActionKind { return KindTakePortion }

type TakePairParams struct {
	Currency0 common.Address
	Currency1 common.Address
	Recipient common.Address
}

func (TakePairParams) Kind() ActionKind { return KindTakePair }

type CloseCurrencyParams struct {
	Currency common.Address
}

func (CloseCurrencyParams) Kind() ActionKind { return KindCloseCurrency }

type SweepParams struct {
	Currency common.Address
	To       common.Address
}

func (SweepParams) Kind() ActionKind { return KindSweep }

// actionArgs maps every action kind to its parameter tuple layout.
var actionArgs = map[ActionKind]abi.Arguments{
	KindIncreaseLiquidity:  increaseLiquidityArgs,
	KindDecreaseLiquidity:  decreaseLiquidityArgs,
	KindMintPosition:       mintPositionArgs,
	KindBurnPosition:       burnPositionArgs,
	KindSwapExactInSingle:  swapExactInSingleArgs,
	KindSwapExactIn:        swapExactInArgs,
	KindSwapExactOutSingle: swapExactOutSingleArgs,
	KindSwapExactOut:       swapExactOutArgs,
	KindSettle:             settleArgs,
	KindSettleAll:          settleAllArgs,
	KindSettlePair:         settlePairArgs,
	KindTake:               takeArgs,
	KindTakeAll:            takeAllArgs,
	KindTakePortion:        takePortionArgs,
	KindTakePair:           takePairArgs,
	KindCloseCurrency:      closeCurrencyArgs,
	KindSweep:              sweepArgs,
}

// CommandSet maps action kinds to the command bytes of one protocol
// revision. The byte assignment is data, so targeting a different router
// release is a table swap, not a code change.
type CommandSet struct {
	name   string
	toByte map[ActionKind]byte
	toKind map[byte]ActionKind
}

func newCommandSet(name string, commands map[ActionKind]byte) *CommandSet {
	set := &CommandSet{
		name:   name,
		toByte: commands,
		toKind: make(map[byte]ActionKind, len(commands)),
	}
	for kind, b := range commands {
		set.toKind[b] = kind
	}
	return set
}

// V4RouterCommands is the command assignment of the released v4 router.
var V4RouterCommands = newCommandSet("v4-router", map[ActionKind]byte{
	KindIncreaseLiquidity:  0x00,
	KindDecreaseLiquidity:  0x01,
	KindMintPosition:       0x02,
	KindBurnPosition:       0x03,
	KindSwapExactInSingle:  0x06,
	KindSwapExactIn:        0x07,
	KindSwapExactOutSingle: 0x08,
	KindSwapExactOut:       0x09,
	KindSettle:             0x0b,
	KindSettleAll:          0x0c,
	KindSettlePair:         0x0d,
	KindTake:               0x0e,
	KindTakeAll:            0x0f,
	KindTakePortion:        0x10,
	KindTakePair:           0x11,
	KindCloseCurrency:      0x12,
	KindSweep:              0x14,
})

// Name returns the revision name of the command set.
func (s *CommandSet) Name() string { return s.name }

// CommandByte returns the byte the set assigns to a kind.
func (s *CommandSet) CommandByte(kind ActionKind) (byte, error) {
	b, ok := s.toByte[kind]
	if !ok {
		return 0, fmt.Errorf("%w: %s not in command set %s", ErrInvalidAction, kind, s.name)
	}
	return b, nil
}

// KindOf returns the action kind a command byte stands for.
func (s *CommandSet) KindOf(command byte) (ActionKind, error) {
	kind, ok := s.toKind[command]
	if !ok {
		return 0, fmt.Errorf("%w: unknown command 0x%02x in command set %s", ErrInvalidAction, command, s.name)
	}
	return kind, nil
}

// EncodeAction returns the command byte and ABI-encoded parameter block of
// an action.
func (s *CommandSet) EncodeAction(action Action) (byte, []byte, error) {
	command, err := s.CommandByte(action.Kind())
	if err != nil {
		return 0, nil, err
	}
	data, err := actionArgs[action.Kind()].Pack(action)
	if err != nil {
		return 0, nil, fmt.Errorf("encode %s params: %w", action.Kind(), err)
	}
	return command, data, nil
}

// DecodeAction decodes one command byte and parameter block. The block must
// be canonical: decoding is validated by re-encoding and comparing bytes, so
// trailing garbage and non-minimal offsets are rejected.
func (s *CommandSet) DecodeAction(command byte, data []byte) (Action, error) {
	kind, err := s.KindOf(command)
	if err != nil {
		return nil, err
	}

	args := actionArgs[kind]
	vals, err := args.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s params: %w", kind, err)
	}

	var action Action
	switch kind {
	case KindIncreaseLiquidity:
		action = *abi.ConvertType(vals[0], new(IncreaseLiquidityParams)).(*IncreaseLiquidityParams)
	case KindDecreaseLiquidity:
		action = *abi.ConvertType(vals[0], new(DecreaseLiquidityParams)).(*DecreaseLiquidityParams)
	case KindMintPosition:
		action = *abi.ConvertType(vals[0], new(MintPositionParams)).(*MintPositionParams)
	case KindBurnPosition:
		action = *abi.ConvertType(vals[0], new(BurnPositionParams)).(*BurnPositionParams)
	case KindSwapExactInSingle:
		action = *abi.ConvertType(vals[0], new(SwapExactInSingleParams)).(*SwapExactInSingleParams)
	case KindSwapExactIn:
		action = *abi.ConvertType(vals[0], new(SwapExactInParams)).(*SwapExactInParams)
	case KindSwapExactOutSingle:
		action = *abi.ConvertType(vals[0], new(SwapExactOutSingleParams)).(*SwapExactOutSingleParams)
	case KindSwapExactOut:
		action = *abi.ConvertType(vals[0], new(SwapExactOutParams)).(*SwapExactOutParams)
	case KindSettle:
		action = *abi.ConvertType(vals[0], new(SettleParams)).(*SettleParams)
	case KindSettleAll:
		action = *abi.ConvertType(vals[0], new(SettleAllParams)).(*SettleAllParams)
	case KindSettlePair:
		action = *abi.ConvertType(vals[0], new(SettlePairParams)).(*SettlePairParams)
	case KindTake:
		action = *abi.ConvertType(vals[0], new(TakeParams)).(*TakeParams)
	case KindTakeAll:
		action = *abi.ConvertType(vals[0], new(TakeAllParams)).(*TakeAllParams)
	case KindTakePortion:
		action = *abi.ConvertType(vals[0], new(TakePortionParams)).(*TakePortionParams)
	case KindTakePair:
		action = *abi.ConvertType(vals[0], new(TakePairParams)).(*TakePairParams)
	case KindCloseCurrency:
		action = *abi.ConvertType(vals[0], new(CloseCurrencyParams)).(*CloseCurrencyParams)
	case KindSweep:
		action = *abi.ConvertType(vals[0], new(SweepParams)).(*SweepParams)
	}

	reencoded, err := args.Pack(action)
	if err != nil {
		return nil, fmt.Errorf("re-encode %s params: %w", kind, err)
	}
	if !bytes.Equal(reencoded, data) {
		return nil, fmt.Errorf("%w: %s", ErrNonCanonical, kind)
	}
	return action, nil
}
