// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package listener

import (
	"context"
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/sprintertech/atomic-bridge/bridge"
)

type EventListener interface {
	FetchBridgeEvents(ctx context.Context, startBlock *big.Int, endBlock *big.Int) ([]*bridge.Event, error)
}

type BlockClient interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// BridgeEventSource feeds bridge contract events of one EVM chain to the
// indexer.
type BridgeEventSource struct {
	log           zerolog.Logger
	name          string
	client        BlockClient
	eventListener EventListener
	blockInterval uint64
}

func NewBridgeEventSource(
	logC zerolog.Context,
	name string,
	client BlockClient,
	eventListener EventListener,
	blockInterval *big.Int,
) *BridgeEventSource {
	interval := uint64(1)
	if blockInterval != nil && blockInterval.Sign() > 0 {
		interval = blockInterval.Uint64()
	}
	return &BridgeEventSource{
		log:           logC.Logger(),
		name:          name,
		client:        client,
		eventListener: eventListener,
		blockInterval: interval,
	}
}

func (s *BridgeEventSource) Name() string {
	return s.name
}

func (s *BridgeEventSource) LatestHeight(ctx context.Context) (uint64, error) {
	head, err := s.client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", bridge.ErrCall, err)
	}
	return head, nil
}

// FetchEvents returns bridge events between from and to inclusive, querying
// at most blockInterval blocks per request.
func (s *BridgeEventSource) FetchEvents(ctx context.Context, from uint64, to uint64) ([]*bridge.Event, error) {
	events := make([]*bridge.Event, 0)
	for start := from; start <= to; start += s.blockInterval {
		end := start + s.blockInterval - 1
		if end > to {
			end = to
		}

		batch, err := s.eventListener.FetchBridgeEvents(ctx, new(big.Int).SetUint64(start), new(big.Int).SetUint64(end))
		if err != nil {
			return nil, fmt.Errorf("unable to fetch bridge events for blocks %d-%d: %w", start, end, err)
		}
		if len(batch) > 0 {
			s.log.Debug().Msgf("Fetched %d bridge events for blocks %d-%d", len(batch), start, end)
		}
		events = append(events, batch...)
	}
	return events, nil
}
