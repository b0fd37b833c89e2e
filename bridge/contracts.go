// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import "context"

// InitiatorContract is the role of the chain where a transfer starts.
type InitiatorContract interface {
	InitiateBridgeTransfer(
		ctx context.Context,
		initiator Address,
		recipient Address,
		hashLock HashLock,
		timeLock TimeLock,
		amount Amount,
	) (TransferID, error)
	CompleteBridgeTransfer(ctx context.Context, id TransferID, preImage PreImage) error
	RefundBridgeTransfer(ctx context.Context, id TransferID) error
	// GetBridgeTransferDetails returns nil details when the transfer is unknown.
	GetBridgeTransferDetails(ctx context.Context, id TransferID) (*TransferDetails, error)
}

// CounterpartyContract is the role of the chain where a transfer ends.
type CounterpartyContract interface {
	LockBridgeTransfer(
		ctx context.Context,
		id TransferID,
		hashLock HashLock,
		timeLock TimeLock,
		initiator Address,
		recipient Address,
		amount Amount,
	) error
	CompleteBridgeTransfer(ctx context.Context, id TransferID, preImage PreImage) error
	AbortBridgeTransfer(ctx context.Context, id TransferID) error
	// GetBridgeTransferDetails returns nil details when the transfer is unknown.
	GetBridgeTransferDetails(ctx context.Context, id TransferID) (*TransferDetails, error)
}

// Chain is a configured chain adapter exposing both roles.
type Chain interface {
	Name() string
	// Address is the account the adapter signs as.
	Address(ctx context.Context) (Address, error)
	// Now returns the chain time TimeLocks are compared against.
	Now(ctx context.Context) (uint64, error)
	Initiator() InitiatorContract
	Counterparty() CounterpartyContract
}
