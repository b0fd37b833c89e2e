// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package indexer

import (
	"context"
	"time"

	"github.com/sprintertech/atomic-bridge/bridge"
)

// Completion records that the preimage of a transfer was revealed on the
// counterparty chain and the initiator side is being completed with it.
type Completion struct {
	TransferID bridge.TransferID
	PreImage   bridge.PreImage
	Timestamp  time.Time
}

// LockRecord records a lock issued by this relayer on the counterparty chain.
type LockRecord struct {
	TransferID bridge.TransferID
	HashLock   bridge.HashLock
	Initiator  bridge.Address
	Recipient  bridge.Address
	Amount     bridge.Amount
}

// Store persists indexed events. Rows are never updated; appending an event
// that is already stored is a no-op.
type Store interface {
	Append(ctx context.Context, events []*bridge.Event) error
	// Events returns every event of id ordered by chain sequence.
	Events(ctx context.Context, id bridge.TransferID) ([]*bridge.Event, error)
	// OpenTransfers returns the transfers with a side that has not reached a
	// terminal state.
	OpenTransfers(ctx context.Context) ([]bridge.TransferID, error)
	// Cursor returns the last indexed height of chain.
	Cursor(ctx context.Context, chain string) (uint64, bool, error)
	SetCursor(ctx context.Context, chain string, height uint64) error
	RecordCompletion(ctx context.Context, completion Completion) error
	RecordLock(ctx context.Context, lock LockRecord) error
}

func isOpen(events []*bridge.Event) bool {
	var initiated, locked, initiatorDone, counterpartyDone bool
	for _, e := range events {
		switch e.Kind {
		case bridge.EventInitiated:
			initiated = true
		case bridge.EventLocked:
			locked = true
		case bridge.EventInitiatorCompleted, bridge.EventRefunded:
			initiatorDone = true
		case bridge.EventCounterpartyCompleted, bridge.EventCancelled:
			counterpartyDone = true
		}
	}
	return (initiated && !initiatorDone) || (locked && !counterpartyDone)
}
