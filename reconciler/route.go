// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package reconciler

import (
	"fmt"

	"github.com/sprintertech/atomic-bridge/bridge"
)

// Route pairs the chain transfers start on with the chain they are mirrored
// to.
type Route struct {
	Initiator    bridge.Chain
	Counterparty bridge.Chain
	Assets       bridge.AssetPair
}

func (r Route) Name() string {
	return fmt.Sprintf("%s->%s", r.Initiator.Name(), r.Counterparty.Name())
}

// Events keeps the initiator events of the initiator chain and the
// counterparty events of the counterparty chain.
func (r Route) Events(events []*bridge.Event) []*bridge.Event {
	filtered := make([]*bridge.Event, 0, len(events))
	for _, e := range events {
		switch e.Kind.Side() {
		case bridge.SideInitiator:
			if e.Chain == r.Initiator.Name() {
				filtered = append(filtered, e)
			}
		case bridge.SideCounterparty:
			if e.Chain == r.Counterparty.Name() {
				filtered = append(filtered, e)
			}
		}
	}
	return filtered
}

// Fold folds the events of id that belong to the route. It returns false
// when the transfer was not initiated on the route's initiator chain.
func (r Route) Fold(events []*bridge.Event) (Status, bool) {
	status := Fold(r.Events(events))
	if status.Initiator == bridge.StateUnknown {
		return status, false
	}
	status.Route = r.Name()
	return status, true
}
