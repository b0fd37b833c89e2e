// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type EventSig string

func (es EventSig) GetTopic() common.Hash {
	return crypto.Keccak256Hash([]byte(es))
}

const (
	BridgeTransferInitiatedSig EventSig = "BridgeTransferInitiated(bytes32,address,bytes32,uint256,bytes32,uint256)"
	BridgeTransferCompletedSig EventSig = "BridgeTransferCompleted(bytes32,bytes32)"
	BridgeTransferRefundedSig  EventSig = "BridgeTransferRefunded(bytes32)"
	BridgeTransferLockedSig    EventSig = "BridgeTransferLocked(bytes32,bytes32,address,uint256,bytes32,uint256)"
	BridgeTransferAbortedSig   EventSig = "BridgeTransferAborted(bytes32)"
)

// Initiated holds the non-indexed fields of BridgeTransferInitiated
type Initiated struct {
	Amount   *big.Int
	HashLock [32]byte
	TimeLock *big.Int
}

// Locked holds the non-indexed fields of BridgeTransferLocked
type Locked struct {
	Amount   *big.Int
	HashLock [32]byte
	TimeLock *big.Int
}

type Completed struct {
	PreImage [32]byte
}
