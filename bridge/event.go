// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

type EventKind string

const (
	EventInitiated             EventKind = "initiated"
	EventLocked                EventKind = "locked"
	EventInitiatorCompleted    EventKind = "initiator_completed"
	EventCounterpartyCompleted EventKind = "counterparty_completed"
	EventCancelled             EventKind = "cancelled"
	EventRefunded              EventKind = "refunded"
)

// Side reports which role emits events of kind k.
func (k EventKind) Side() Side {
	switch k {
	case EventInitiated, EventInitiatorCompleted, EventRefunded:
		return SideInitiator
	default:
		return SideCounterparty
	}
}

// State is the side state after an event of kind k is observed.
func (k EventKind) State() State {
	switch k {
	case EventInitiated:
		return StateInitialized
	case EventLocked:
		return StateLocked
	case EventInitiatorCompleted, EventCounterpartyCompleted:
		return StateCompleted
	case EventRefunded:
		return StateRefunded
	case EventCancelled:
		return StateAborted
	default:
		return StateUnknown
	}
}

// Event is a chain event normalized to the transfer model. Fields not
// carried by a kind are left zero.
type Event struct {
	Kind   EventKind
	Chain  string
	Height uint64
	Index  uint64

	TransferID TransferID
	Initiator  Address
	Recipient  Address
	HashLock   HashLock
	TimeLock   TimeLock
	Amount     Amount
	PreImage   PreImage
}

// Before orders events in chain sequence.
func (e *Event) Before(other *Event) bool {
	if e.Height != other.Height {
		return e.Height < other.Height
	}
	return e.Index < other.Index
}
