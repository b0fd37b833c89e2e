// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/sprintertech/atomic-bridge/bridge"
)

// DETAILS_FIELDS is the number of values returned by bridgeTransfers.
const DETAILS_FIELDS = 6

type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type Contract struct {
	abi     abi.ABI
	address common.Address
	caller  ContractCaller
}

func (c *Contract) Address() common.Address {
	return c.address
}

func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// CallContract runs a view function and returns its unpacked outputs.
func (c *Contract) CallContract(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	input, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrFunctionView, err)
	}

	out, err := c.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &c.address,
		Data: input,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrCall, err)
	}

	res, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
	}
	return res, nil
}

func (c *Contract) transferDetails(ctx context.Context, id bridge.TransferID) ([]interface{}, error) {
	res, err := c.CallContract(ctx, "bridgeTransfers", [32]byte(id))
	if err != nil {
		return nil, err
	}
	if len(res) != DETAILS_FIELDS {
		return nil, fmt.Errorf("%w: expected %d values, got %d", bridge.ErrInvalidResponseLength, DETAILS_FIELDS, len(res))
	}
	return res, nil
}

func convertBytes32(value interface{}, field string) ([32]byte, error) {
	out, ok := value.([32]byte)
	if !ok {
		return out, &bridge.ConversionFailedError{Field: field, Err: fmt.Errorf("unexpected type %T", value)}
	}
	return out, nil
}

func convertUint64(value interface{}, field string) (uint64, error) {
	out, ok := value.(*big.Int)
	if !ok || out == nil || !out.IsUint64() {
		return 0, &bridge.ConversionFailedError{Field: field, Err: fmt.Errorf("invalid value %v", value)}
	}
	return out.Uint64(), nil
}

func convertAddress(value interface{}, field string) (common.Address, error) {
	out, ok := value.(common.Address)
	if !ok {
		return out, &bridge.ConversionFailedError{Field: field, Err: fmt.Errorf("unexpected type %T", value)}
	}
	return out, nil
}

func convertState(value interface{}, states map[uint8]bridge.State) (bridge.State, error) {
	code, ok := value.(uint8)
	if !ok {
		return bridge.StateUnknown, &bridge.ConversionFailedError{Field: "state", Err: fmt.Errorf("unexpected type %T", value)}
	}
	if code == 0 {
		return bridge.StateUnknown, nil
	}

	state, ok := states[code]
	if !ok {
		return bridge.StateUnknown, &bridge.ConversionFailedError{Field: "state", Err: fmt.Errorf("unknown state %d", code)}
	}
	return state, nil
}

// PadBytes32 left pads b to 32 bytes.
func PadBytes32(b []byte, field string) ([32]byte, error) {
	var out [32]byte
	if len(b) > len(out) {
		return out, &bridge.ConversionFailedError{Field: field, Err: fmt.Errorf("%d bytes do not fit bytes32", len(b))}
	}
	copy(out[len(out)-len(b):], b)
	return out, nil
}
