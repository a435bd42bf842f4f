package planner

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ParsedAction pairs a decoded action with the command byte it arrived as.
type ParsedAction struct {
	Command byte
	Action  Action
}

// V4RouterCall is a fully decoded router payload, actions in calldata order.
type V4RouterCall struct {
	Actions []ParsedAction
}

// ParseCalldata decodes a router payload against the released command set.
func ParseCalldata(data []byte) (*V4RouterCall, error) {
	return V4RouterCommands.ParseCalldata(data)
}

// ParseCalldata decodes the payload envelope and every action in it,
// validating that the whole input is canonically encoded.
func (s *CommandSet) ParseCalldata(data []byte) (*V4RouterCall, error) {
	vals, err := envelopeArgs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("decode payload envelope: %w", err)
	}
	env := *abi.ConvertType(vals[0], new(envelope)).(*envelope)

	reencoded, err := envelopeArgs.Pack(env)
	if err != nil {
		return nil, fmt.Errorf("re-encode payload envelope: %w", err)
	}
	if !bytes.Equal(reencoded, data) {
		return nil, fmt.Errorf("%w: payload envelope", ErrNonCanonical)
	}

	if len(env.Actions) != len(env.Params) {
		return nil, fmt.Errorf("%w: %d actions, %d params", ErrLengthMismatch, len(env.Actions), len(env.Params))
	}

	call := &V4RouterCall{Actions: make([]ParsedAction, 0, len(env.Actions))}
	for i, command := range env.Actions {
		action, err := s.DecodeAction(command, env.Params[i])
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		call.Actions = append(call.Actions, ParsedAction{Command: command, Action: action})
	}
	return call, nil
}
