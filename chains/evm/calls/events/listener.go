// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package events

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog/log"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/chains/evm/calls/consts"
)

type ChainClient interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]ethTypes.Log, error)
}

// Listener fetches bridge contract logs and normalizes them into bridge
// events.
type Listener struct {
	client       ChainClient
	chain        string
	initiator    common.Address
	counterparty common.Address
	asset        bridge.AssetType
}

func NewListener(
	client ChainClient,
	chain string,
	initiator common.Address,
	counterparty common.Address,
	asset bridge.AssetType,
) *Listener {
	return &Listener{
		client:       client,
		chain:        chain,
		initiator:    initiator,
		counterparty: counterparty,
		asset:        asset,
	}
}

// FetchBridgeEvents returns bridge events emitted between startBlock and
// endBlock inclusive. Logs that can not be decoded are skipped.
func (l *Listener) FetchBridgeEvents(ctx context.Context, startBlock *big.Int, endBlock *big.Int) ([]*bridge.Event, error) {
	addresses := make([]common.Address, 0, 2)
	if l.initiator != (common.Address{}) {
		addresses = append(addresses, l.initiator)
	}
	if l.counterparty != (common.Address{}) {
		addresses = append(addresses, l.counterparty)
	}

	logs, err := l.client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: startBlock,
		ToBlock:   endBlock,
		Addresses: addresses,
		Topics: [][]common.Hash{{
			BridgeTransferInitiatedSig.GetTopic(),
			BridgeTransferCompletedSig.GetTopic(),
			BridgeTransferRefundedSig.GetTopic(),
			BridgeTransferLockedSig.GetTopic(),
			BridgeTransferAbortedSig.GetTopic(),
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrCall, err)
	}

	events := make([]*bridge.Event, 0, len(logs))
	for _, eventLog := range logs {
		if eventLog.Removed {
			continue
		}

		event, err := l.ParseLog(eventLog)
		if err != nil {
			log.Warn().Str("chain", l.chain).Msgf("Failed parsing bridge log %s: %s", eventLog.TxHash, err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// ParseLog decodes a single bridge contract log.
func (l *Listener) ParseLog(eventLog ethTypes.Log) (*bridge.Event, error) {
	if len(eventLog.Topics) < 2 {
		return nil, fmt.Errorf("%w: missing topics", bridge.ErrSerialization)
	}

	event := &bridge.Event{
		Chain:      l.chain,
		Height:     eventLog.BlockNumber,
		Index:      uint64(eventLog.Index),
		TransferID: bridge.TransferID(eventLog.Topics[1]),
	}

	isInitiator := eventLog.Address == l.initiator
	switch eventLog.Topics[0] {
	case BridgeTransferInitiatedSig.GetTopic():
		{
			if len(eventLog.Topics) != 4 {
				return nil, fmt.Errorf("%w: invalid topics", bridge.ErrSerialization)
			}

			var initiated Initiated
			err := unpack(consts.AtomicBridgeInitiatorABI, &initiated, "BridgeTransferInitiated", eventLog.Data)
			if err != nil {
				return nil, err
			}
			amount, err := toAmount(l.asset, initiated.Amount)
			if err != nil {
				return nil, err
			}
			timeLock, err := toTimeLock(initiated.TimeLock)
			if err != nil {
				return nil, err
			}

			event.Kind = bridge.EventInitiated
			event.Initiator = bridge.Address(common.BytesToAddress(eventLog.Topics[2].Bytes()).Bytes())
			event.Recipient = bridge.Address(eventLog.Topics[3].Bytes())
			event.HashLock = initiated.HashLock
			event.TimeLock = timeLock
			event.Amount = amount
		}
	case BridgeTransferLockedSig.GetTopic():
		{
			if len(eventLog.Topics) != 4 {
				return nil, fmt.Errorf("%w: invalid topics", bridge.ErrSerialization)
			}

			var locked Locked
			err := unpack(consts.AtomicBridgeCounterpartyABI, &locked, "BridgeTransferLocked", eventLog.Data)
			if err != nil {
				return nil, err
			}
			amount, err := toAmount(l.asset, locked.Amount)
			if err != nil {
				return nil, err
			}
			timeLock, err := toTimeLock(locked.TimeLock)
			if err != nil {
				return nil, err
			}

			event.Kind = bridge.EventLocked
			event.Initiator = bridge.Address(eventLog.Topics[2].Bytes())
			event.Recipient = bridge.Address(common.BytesToAddress(eventLog.Topics[3].Bytes()).Bytes())
			event.HashLock = locked.HashLock
			event.TimeLock = timeLock
			event.Amount = amount
		}
	case BridgeTransferCompletedSig.GetTopic():
		{
			contractABI := consts.AtomicBridgeCounterpartyABI
			event.Kind = bridge.EventCounterpartyCompleted
			if isInitiator {
				contractABI = consts.AtomicBridgeInitiatorABI
				event.Kind = bridge.EventInitiatorCompleted
			}

			var completed Completed
			err := unpack(contractABI, &completed, "BridgeTransferCompleted", eventLog.Data)
			if err != nil {
				return nil, err
			}
			event.PreImage = bridge.PreImage(completed.PreImage[:])
		}
	case BridgeTransferRefundedSig.GetTopic():
		event.Kind = bridge.EventRefunded
	case BridgeTransferAbortedSig.GetTopic():
		event.Kind = bridge.EventCancelled
	default:
		return nil, fmt.Errorf("%w: unknown event %s", bridge.ErrSerialization, eventLog.Topics[0])
	}

	return event, nil
}

func unpack(contractABI abi.ABI, out interface{}, event string, data []byte) error {
	err := contractABI.UnpackIntoInterface(out, event, data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", bridge.ErrSerialization, event, err)
	}
	return nil
}

func toAmount(asset bridge.AssetType, value *big.Int) (bridge.Amount, error) {
	if value == nil || !value.IsUint64() {
		return bridge.Amount{}, &bridge.ConversionFailedError{Field: "amount", Err: fmt.Errorf("value %s out of range", value)}
	}
	return bridge.NewAmount(asset, value.Uint64()), nil
}

func toTimeLock(value *big.Int) (bridge.TimeLock, error) {
	if value == nil || !value.IsUint64() {
		return 0, &bridge.ConversionFailedError{Field: "time_lock", Err: fmt.Errorf("value %s out of range", value)}
	}
	return bridge.TimeLock(value.Uint64()), nil
}
