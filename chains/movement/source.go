// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package movement

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/sprintertech/atomic-bridge/bridge"
)

const (
	INITIATOR_EVENTS    = "BridgeInitiatorEvents"
	COUNTERPARTY_EVENTS = "BridgeCounterpartyEvents"
)

type eventHandle struct {
	address  AccountAddress
	resource string
	field    string
	kind     bridge.EventKind
	next     uint64
}

type eventData struct {
	BridgeTransferID string `json:"bridge_transfer_id"`
	Initiator        string `json:"initiator"`
	Recipient        string `json:"recipient"`
	Amount           string `json:"amount"`
	HashLock         string `json:"hash_lock"`
	TimeLock         string `json:"time_lock"`
	PreImage         string `json:"pre_image"`
}

// EventSource feeds bridge module events of one Movement chain to the
// indexer. Heights are ledger versions.
type EventSource struct {
	log      zerolog.Logger
	name     string
	node     Node
	asset    bridge.AssetType
	pageSize int
	handles  []*eventHandle
}

func NewEventSource(
	logC zerolog.Context,
	name string,
	node Node,
	initiator *Module,
	counterparty *Module,
	asset bridge.AssetType,
	pageSize int,
) *EventSource {
	handles := make([]*eventHandle, 0, 6)
	if initiator != nil {
		resource := initiator.EventsResource(INITIATOR_EVENTS)
		handles = append(handles,
			&eventHandle{address: initiator.Address, resource: resource, field: INITIATED_EVENTS_FIELD, kind: bridge.EventInitiated},
			&eventHandle{address: initiator.Address, resource: resource, field: "bridge_transfer_completed_events", kind: bridge.EventInitiatorCompleted},
			&eventHandle{address: initiator.Address, resource: resource, field: "bridge_transfer_refunded_events", kind: bridge.EventRefunded},
		)
	}
	if counterparty != nil {
		resource := counterparty.EventsResource(COUNTERPARTY_EVENTS)
		handles = append(handles,
			&eventHandle{address: counterparty.Address, resource: resource, field: "bridge_transfer_locked_events", kind: bridge.EventLocked},
			&eventHandle{address: counterparty.Address, resource: resource, field: "bridge_transfer_completed_events", kind: bridge.EventCounterpartyCompleted},
			&eventHandle{address: counterparty.Address, resource: resource, field: "bridge_transfer_cancelled_events", kind: bridge.EventCancelled},
		)
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	return &EventSource{
		log:      logC.Logger(),
		name:     name,
		node:     node,
		asset:    asset,
		pageSize: pageSize,
		handles:  handles,
	}
}

func (s *EventSource) Name() string {
	return s.name
}

func (s *EventSource) LatestHeight(ctx context.Context) (uint64, error) {
	info, err := s.node.LedgerInfo(ctx)
	if err != nil {
		return 0, err
	}
	return info.LedgerVersion, nil
}

// FetchEvents returns bridge events emitted between ledger versions from and
// to inclusive. Handle cursors only advance when every handle was read.
func (s *EventSource) FetchEvents(ctx context.Context, from uint64, to uint64) ([]*bridge.Event, error) {
	events := make([]*bridge.Event, 0)
	cursors := make([]uint64, len(s.handles))
	for i, h := range s.handles {
		batch, next, err := s.fetchHandle(ctx, h, from, to)
		if err != nil {
			return nil, fmt.Errorf("unable to fetch %s events for versions %d-%d: %w", h.field, from, to, err)
		}
		cursors[i] = next
		events = append(events, batch...)
	}

	for i, h := range s.handles {
		h.next = cursors[i]
	}
	if len(events) > 0 {
		s.log.Debug().Msgf("Fetched %d bridge events for versions %d-%d", len(events), from, to)
	}
	return events, nil
}

func (s *EventSource) fetchHandle(ctx context.Context, h *eventHandle, from uint64, to uint64) ([]*bridge.Event, uint64, error) {
	events := make([]*bridge.Event, 0)
	next := h.next
	for {
		page, err := s.node.EventsByHandle(ctx, h.address, h.resource, h.field, next, s.pageSize)
		if err != nil {
			return nil, h.next, err
		}

		for _, e := range page {
			if uint64(e.Version) > to {
				return events, next, nil
			}
			next = uint64(e.SequenceNumber) + 1
			if uint64(e.Version) < from {
				continue
			}

			event, err := parseEventData(h.kind, s.asset, e)
			if err != nil {
				s.log.Warn().Err(err).Msgf("Skipping invalid %s event %d", h.field, e.SequenceNumber)
				continue
			}
			event.Chain = s.name
			events = append(events, event)
		}

		if len(page) < s.pageSize {
			return events, next, nil
		}
	}
}

// parseEventData decodes a bridge module event of kind. The chain name is
// left to the caller.
func parseEventData(kind bridge.EventKind, asset bridge.AssetType, e Event) (*bridge.Event, error) {
	var data eventData
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: %w", bridge.ErrSerialization, err)
	}
	id, err := bridge.ParseTransferID(data.BridgeTransferID)
	if err != nil {
		return nil, err
	}

	event := &bridge.Event{
		Kind:       kind,
		Height:     uint64(e.Version),
		Index:      uint64(e.SequenceNumber),
		TransferID: id,
	}

	switch kind {
	case bridge.EventInitiated, bridge.EventLocked:
		if event.Initiator, err = bridge.ParseAddress(data.Initiator); err != nil {
			return nil, err
		}
		if event.Recipient, err = bridge.ParseAddress(data.Recipient); err != nil {
			return nil, err
		}
		if event.HashLock, err = bridge.ParseHashLock(data.HashLock); err != nil {
			return nil, err
		}
		timeLock, err := strconv.ParseUint(data.TimeLock, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: time_lock: %w", bridge.ErrSerialization, err)
		}
		amount, err := strconv.ParseUint(data.Amount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: amount: %w", bridge.ErrSerialization, err)
		}
		event.TimeLock = bridge.TimeLock(timeLock)
		event.Amount = bridge.NewAmount(asset, amount)
	case bridge.EventInitiatorCompleted, bridge.EventCounterpartyCompleted:
		preImage, err := bridge.ParseAddress(data.PreImage)
		if err != nil {
			return nil, err
		}
		event.PreImage = bridge.PreImage(preImage)
	}
	return event, nil
}
