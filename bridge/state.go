// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import "fmt"

type State uint8

const (
	StateUnknown State = iota
	StateInitialized
	StateLocked
	StateCompleted
	StateRefunded
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "Initialized"
	case StateLocked:
		return "Locked"
	case StateCompleted:
		return "Completed"
	case StateRefunded:
		return "Refunded"
	case StateAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// Terminal states accept no further role operations.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateRefunded || s == StateAborted
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for candidate := StateUnknown; candidate <= StateAborted; candidate++ {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return &ConversionFailedError{Field: "state", Err: fmt.Errorf("unknown state %q", text)}
}

// Side is the role a chain plays for a transfer.
type Side uint8

const (
	SideInitiator Side = iota + 1
	SideCounterparty
)

func (s Side) String() string {
	switch s {
	case SideInitiator:
		return "initiator"
	case SideCounterparty:
		return "counterparty"
	default:
		return "unknown"
	}
}

type Operation string

const (
	OpInitiate Operation = "initiate"
	OpLock     Operation = "lock"
	OpComplete Operation = "complete"
	OpRefund   Operation = "refund"
	OpAbort    Operation = "abort"
)

// Err returns the role error kind reported when op fails.
func (op Operation) Err() error {
	switch op {
	case OpInitiate:
		return ErrInitiateTransfer
	case OpLock:
		return ErrLockTransfer
	case OpComplete:
		return ErrCompleteTransfer
	case OpRefund:
		return ErrRefundTransfer
	case OpAbort:
		return ErrAbortTransfer
	default:
		return ErrInvalidTransition
	}
}

type edge struct {
	from State
	to   State
}

var transitions = map[Side]map[Operation]edge{
	SideInitiator: {
		OpInitiate: {from: StateUnknown, to: StateInitialized},
		OpComplete: {from: StateInitialized, to: StateCompleted},
		OpRefund:   {from: StateInitialized, to: StateRefunded},
	},
	SideCounterparty: {
		OpLock:     {from: StateUnknown, to: StateLocked},
		OpComplete: {from: StateLocked, to: StateCompleted},
		OpAbort:    {from: StateLocked, to: StateAborted},
	},
}

// Target returns the state op moves a transfer to on side.
func (op Operation) Target(side Side) (State, error) {
	e, ok := transitions[side][op]
	if !ok {
		return StateUnknown, fmt.Errorf("%w: %s is not a %s operation", ErrInvalidTransition, op, side)
	}
	return e.to, nil
}

// CheckTransition validates applying op on side to a transfer currently in
// state current. Every operation on a terminal transfer fails with
// ErrTransferTerminal. A retry of an operation whose non-terminal target is
// already visible returns ErrAlreadyApplied.
func CheckTransition(side Side, current State, op Operation) error {
	e, ok := transitions[side][op]
	if !ok {
		return fmt.Errorf("%w: %s is not a %s operation", ErrInvalidTransition, op, side)
	}

	switch {
	case current.Terminal():
		return fmt.Errorf("%w: %s", ErrTransferTerminal, current)
	case current == e.to:
		return ErrAlreadyApplied
	case current == e.from:
		return nil
	case current == StateUnknown:
		return ErrTransferNotFound
	default:
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, op, current)
	}
}
