// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package reconciler

import (
	"sort"

	"github.com/sprintertech/atomic-bridge/bridge"
)

// Status is the state of one transfer folded from its indexed events.
type Status struct {
	TransferID   bridge.TransferID `json:"transferId"`
	Route        string            `json:"route"`
	Initiator    bridge.State      `json:"initiator"`
	Counterparty bridge.State      `json:"counterparty"`
	State        bridge.State      `json:"state"`

	// Initiated and Locked are the events that opened each side.
	Initiated *bridge.Event   `json:"-"`
	Locked    *bridge.Event   `json:"-"`
	PreImage  bridge.PreImage `json:"-"`
}

// Fold sorts events by chain sequence and folds them into the state of each
// side. A terminal side state is never replaced.
func Fold(events []*bridge.Event) Status {
	sorted := make([]*bridge.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	var status Status
	for _, e := range sorted {
		status.TransferID = e.TransferID

		side := &status.Initiator
		if e.Kind.Side() == bridge.SideCounterparty {
			side = &status.Counterparty
		}
		if side.Terminal() {
			continue
		}
		*side = e.Kind.State()

		switch e.Kind {
		case bridge.EventInitiated:
			status.Initiated = e
		case bridge.EventLocked:
			status.Locked = e
		case bridge.EventInitiatorCompleted, bridge.EventCounterpartyCompleted:
			if len(e.PreImage) > 0 {
				status.PreImage = e.PreImage
			}
		}
	}
	status.State = aggregate(status.Initiator, status.Counterparty)
	return status
}

func aggregate(initiator bridge.State, counterparty bridge.State) bridge.State {
	switch {
	case initiator.Terminal():
		return initiator
	case counterparty == bridge.StateCompleted, counterparty == bridge.StateAborted:
		return counterparty
	case counterparty == bridge.StateLocked:
		return bridge.StateLocked
	default:
		return initiator
	}
}
