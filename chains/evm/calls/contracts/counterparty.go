// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package contracts

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/chains/evm/calls/consts"
	"github.com/sprintertech/atomic-bridge/executor"
)

var counterpartyStates = map[uint8]bridge.State{
	1: bridge.StateLocked,
	2: bridge.StateCompleted,
	3: bridge.StateAborted,
}

type CounterpartyContract struct {
	Contract
	asset bridge.AssetType
}

func NewCounterpartyContract(caller ContractCaller, address common.Address, asset bridge.AssetType) *CounterpartyContract {
	return &CounterpartyContract{
		Contract: Contract{
			abi:     consts.AtomicBridgeCounterpartyABI,
			address: address,
			caller:  caller,
		},
		asset: asset,
	}
}

// BridgeTransfer returns the on-chain details of id or nil for an unknown
// transfer.
func (c *CounterpartyContract) BridgeTransfer(ctx context.Context, id bridge.TransferID) (*bridge.TransferDetails, error) {
	res, err := c.transferDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	state, err := convertState(res[5], counterpartyStates)
	if err != nil {
		return nil, err
	}
	if state == bridge.StateUnknown {
		return nil, nil
	}

	originator, err := convertBytes32(res[0], "originator")
	if err != nil {
		return nil, err
	}
	recipient, err := convertAddress(res[1], "recipient")
	if err != nil {
		return nil, err
	}
	amount, err := convertUint64(res[2], "amount")
	if err != nil {
		return nil, err
	}
	hashLock, err := convertBytes32(res[3], "hash_lock")
	if err != nil {
		return nil, err
	}
	timeLock, err := convertUint64(res[4], "time_lock")
	if err != nil {
		return nil, err
	}

	return &bridge.TransferDetails{
		Originator: bridge.Address(originator[:]),
		Recipient:  bridge.Address(recipient.Bytes()),
		Amount:     bridge.NewAmount(c.asset, amount),
		HashLock:   hashLock,
		TimeLock:   bridge.TimeLock(timeLock),
		State:      state,
	}, nil
}

func (c *CounterpartyContract) LockCall(
	id bridge.TransferID,
	hashLock bridge.HashLock,
	timeLock bridge.TimeLock,
	originator [32]byte,
	recipient common.Address,
	amount bridge.Amount,
) *executor.Call {
	return &executor.Call{
		Key:       executor.SubmissionKey(id, bridge.OpLock),
		Operation: bridge.OpLock,
		Contract:  c.address.Hex(),
		Function:  "lockBridgeTransfer",
		Args: []executor.Arg{
			executor.Hash32(originator),
			executor.Hash32(id),
			executor.Hash32(hashLock),
			executor.U64(uint64(timeLock)),
			executor.Address(recipient.Bytes()),
			executor.U64(amount.Value),
		},
	}
}

func (c *CounterpartyContract) CompleteCall(id bridge.TransferID, preImage [32]byte) *executor.Call {
	return &executor.Call{
		Key:       executor.SubmissionKey(id, bridge.OpComplete),
		Operation: bridge.OpComplete,
		Contract:  c.address.Hex(),
		Function:  "completeBridgeTransfer",
		Args:      []executor.Arg{executor.Hash32(id), executor.Hash32(preImage)},
	}
}

func (c *CounterpartyContract) AbortCall(id bridge.TransferID) *executor.Call {
	return &executor.Call{
		Key:       executor.SubmissionKey(id, bridge.OpAbort),
		Operation: bridge.OpAbort,
		Contract:  c.address.Hex(),
		Function:  "abortBridgeTransfer",
		Args:      []executor.Arg{executor.Hash32(id)},
	}
}
