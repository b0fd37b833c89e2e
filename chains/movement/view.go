// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package movement

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aptos-labs/aptos-go-sdk"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/executor"
)

const (
	INITIATOR_MODULE    = "atomic_bridge_initiator"
	COUNTERPARTY_MODULE = "atomic_bridge_counterparty"
)

// DETAILS_FIELDS is the number of values returned by bridge_transfers.
const DETAILS_FIELDS = 6

var initiatorStates = map[uint8]bridge.State{
	1: bridge.StateInitialized,
	2: bridge.StateCompleted,
	3: bridge.StateRefunded,
}

var counterpartyStates = map[uint8]bridge.State{
	1: bridge.StateLocked,
	2: bridge.StateCompleted,
	3: bridge.StateAborted,
}

// Module is a published bridge module.
type Module struct {
	Address AccountAddress
	Name    string
	states  map[uint8]bridge.State
	asset   bridge.AssetType
}

func NewInitiatorModule(address AccountAddress, asset bridge.AssetType) *Module {
	return &Module{Address: address, Name: INITIATOR_MODULE, states: initiatorStates, asset: asset}
}

func NewCounterpartyModule(address AccountAddress, asset bridge.AssetType) *Module {
	return &Module{Address: address, Name: COUNTERPARTY_MODULE, states: counterpartyStates, asset: asset}
}

// Function returns the fully qualified identifier of function.
func (m *Module) Function(function string) (string, error) {
	if !isIdentifier(m.Name) || !isIdentifier(function) {
		return "", fmt.Errorf("%w: invalid function %s::%s", bridge.ErrFunctionView, m.Name, function)
	}
	return fmt.Sprintf("%s::%s::%s", m.Address.Hex(), m.Name, function), nil
}

// EventsResource returns the fully qualified type of the module's events
// resource called name.
func (m *Module) EventsResource(name string) string {
	return fmt.Sprintf("%s::%s::%s", m.Address.Hex(), m.Name, name)
}

// NOT_FOUND_ABORT is the abort code of the bridge modules' transfer lookup
// for an unknown id: the not_found category of smart_table's ENOT_FOUND.
const NOT_FOUND_ABORT = 0x60001

// BridgeTransfer returns the details of id or nil when the module does not
// know the transfer.
func (m *Module) BridgeTransfer(ctx context.Context, node Node, id bridge.TransferID) (*bridge.TransferDetails, error) {
	if _, err := m.Function("bridge_transfers"); err != nil {
		return nil, err
	}
	args, err := EncodeArgs([]executor.Arg{executor.Bytes(id[:])})
	if err != nil {
		return nil, err
	}

	values, err := node.View(ctx, &aptos.ViewPayload{
		Module: aptos.ModuleId{
			Address: m.Address.sdk(),
			Name:    m.Name,
		},
		Function: "bridge_transfers",
		ArgTypes: []aptos.TypeTag{},
		Args:     args,
	})
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if code, ok := apiErr.AbortCode(); ok && code == NOT_FOUND_ABORT {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", bridge.ErrFunctionView, err)
	}
	if err != nil {
		return nil, err
	}

	return m.parseDetails(values)
}

func (m *Module) parseDetails(values []any) (*bridge.TransferDetails, error) {
	if len(values) != DETAILS_FIELDS {
		return nil, fmt.Errorf("%w: expected %d values, got %d", bridge.ErrInvalidResponseLength, DETAILS_FIELDS, len(values))
	}

	code, err := parseU8(values[5], "state")
	if err != nil {
		return nil, err
	}
	if code == 0 {
		return nil, nil
	}
	state, ok := m.states[code]
	if !ok {
		return nil, fmt.Errorf("%w: unknown state %d", bridge.ErrSerialization, code)
	}

	originator, err := parseHex(values[0], "originator")
	if err != nil {
		return nil, err
	}
	recipient, err := parseHex(values[1], "recipient")
	if err != nil {
		return nil, err
	}
	amount, err := parseU64(values[2], "amount")
	if err != nil {
		return nil, err
	}
	hashLockBytes, err := parseHex(values[3], "hash_lock")
	if err != nil {
		return nil, err
	}
	hashLock, err := bridge.HashLockFromBytes(hashLockBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
	}
	timeLock, err := parseU64(values[4], "time_lock")
	if err != nil {
		return nil, err
	}

	return &bridge.TransferDetails{
		Originator: bridge.Address(originator),
		Recipient:  bridge.Address(recipient),
		Amount:     bridge.NewAmount(m.asset, amount),
		HashLock:   hashLock,
		TimeLock:   bridge.TimeLock(timeLock),
		State:      state,
	}, nil
}

func parseString(value any, field string) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s: unexpected value %v", bridge.ErrSerialization, field, value)
	}
	return s, nil
}

func parseHex(value any, field string) ([]byte, error) {
	s, err := parseString(value, field)
	if err != nil {
		return nil, err
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", bridge.ErrSerialization, field, err)
	}
	return b, nil
}

func parseU64(value any, field string) (uint64, error) {
	s, err := parseString(value, field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", bridge.ErrSerialization, field, err)
	}
	return v, nil
}

// parseU8 accepts both a JSON number and a decimal string.
func parseU8(value any, field string) (uint8, error) {
	if n, ok := value.(float64); ok {
		if n < 0 || n > math.MaxUint8 || n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %s: value %v out of range", bridge.ErrSerialization, field, n)
		}
		return uint8(n), nil
	}
	s, err := parseString(value, field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", bridge.ErrSerialization, field, err)
	}
	return uint8(v), nil
}
