// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/chains/evm/calls/consts"
	"github.com/sprintertech/atomic-bridge/chains/evm/calls/events"
	"github.com/sprintertech/atomic-bridge/executor"
)

var initiatorStates = map[uint8]bridge.State{
	1: bridge.StateInitialized,
	2: bridge.StateCompleted,
	3: bridge.StateRefunded,
}

type LogFilterer interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]ethTypes.Log, error)
}

type InitiatorContract struct {
	Contract
	asset bridge.AssetType
}

func NewInitiatorContract(caller ContractCaller, address common.Address, asset bridge.AssetType) *InitiatorContract {
	return &InitiatorContract{
		Contract: Contract{
			abi:     consts.AtomicBridgeInitiatorABI,
			address: address,
			caller:  caller,
		},
		asset: asset,
	}
}

// BridgeTransfer returns the on-chain details of id or nil for an unknown
// transfer.
func (c *InitiatorContract) BridgeTransfer(ctx context.Context, id bridge.TransferID) (*bridge.TransferDetails, error) {
	res, err := c.transferDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	state, err := convertState(res[5], initiatorStates)
	if err != nil {
		return nil, err
	}
	if state == bridge.StateUnknown {
		return nil, nil
	}

	originator, err := convertAddress(res[0], "originator")
	if err != nil {
		return nil, err
	}
	recipient, err := convertBytes32(res[1], "recipient")
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
		Originator: bridge.Address(originator.Bytes()),
		Recipient:  bridge.Address(recipient[:]),
		Amount:     bridge.NewAmount(c.asset, amount),
		HashLock:   hashLock,
		TimeLock:   bridge.TimeLock(timeLock),
		State:      state,
	}, nil
}

func (c *InitiatorContract) InitiateCall(recipient [32]byte, hashLock bridge.HashLock, timeLock bridge.TimeLock, amount bridge.Amount) *executor.Call {
	call := &executor.Call{
		Key:       executor.SubmissionKey(hashLock, bridge.OpInitiate),
		Operation: bridge.OpInitiate,
		Contract:  c.address.Hex(),
		Function:  "initiateBridgeTransfer",
		Args: []executor.Arg{
			executor.U64(amount.Value),
			executor.Hash32(recipient),
			executor.Hash32(hashLock),
			executor.U64(uint64(timeLock)),
		},
	}
	if amount.Asset == bridge.AssetEth {
		call.Value = amount.Value
	}
	return call
}

func (c *InitiatorContract) CompleteCall(id bridge.TransferID, preImage [32]byte) *executor.Call {
	return &executor.Call{
		Key:       executor.SubmissionKey(id, bridge.OpComplete),
		Operation: bridge.OpComplete,
		Contract:  c.address.Hex(),
		Function:  "completeBridgeTransfer",
		Args:      []executor.Arg{executor.Hash32(id), executor.Hash32(preImage)},
	}
}

func (c *InitiatorContract) RefundCall(id bridge.TransferID) *executor.Call {
	return &executor.Call{
		Key:       executor.SubmissionKey(id, bridge.OpRefund),
		Operation: bridge.OpRefund,
		Contract:  c.address.Hex(),
		Function:  "refundBridgeTransfer",
		Args:      []executor.Arg{executor.Hash32(id)},
	}
}

// InitiatedTransferID reads the id assigned by the contract from the
// BridgeTransferInitiated log of receipt.
func (c *InitiatorContract) InitiatedTransferID(receipt *ethTypes.Receipt) (bridge.TransferID, error) {
	for _, l := range receipt.Logs {
		if l.Address != c.address || len(l.Topics) < 2 {
			continue
		}
		if l.Topics[0] == events.BridgeTransferInitiatedSig.GetTopic() {
			return bridge.TransferID(l.Topics[1]), nil
		}
	}
	return bridge.TransferID{}, fmt.Errorf("%w: no BridgeTransferInitiated log in %s", bridge.ErrSerialization, receipt.TxHash)
}

// FindInitiated searches BridgeTransferInitiated logs from block from for a
// transfer of originator with exactly these parameters. It returns nil when
// no such transfer was initiated.
func (c *InitiatorContract) FindInitiated(
	ctx context.Context,
	filterer LogFilterer,
	from uint64,
	originator common.Address,
	recipient [32]byte,
	hashLock bridge.HashLock,
	timeLock bridge.TimeLock,
	amount uint64,
) (*bridge.TransferID, error) {
	logs, err := filterer.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		Addresses: []common.Address{c.address},
		Topics: [][]common.Hash{
			{events.BridgeTransferInitiatedSig.GetTopic()},
			nil,
			{common.BytesToHash(originator.Bytes())},
			{common.Hash(recipient)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrCall, err)
	}

	for _, l := range logs {
		if len(l.Topics) < 2 {
			continue
		}
		var initiated events.Initiated
		err := c.abi.UnpackIntoInterface(&initiated, "BridgeTransferInitiated", l.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
		}
		if bridge.HashLock(initiated.HashLock) != hashLock ||
			initiated.TimeLock == nil || !initiated.TimeLock.IsUint64() || initiated.TimeLock.Uint64() != uint64(timeLock) ||
			initiated.Amount == nil || !initiated.Amount.IsUint64() || initiated.Amount.Uint64() != amount {
			continue
		}

		id := bridge.TransferID(l.Topics[1])
		return &id, nil
	}
	return nil, nil
}
