// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package indexer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/sprintertech/atomic-bridge/bridge"
)

// Source reads normalized bridge events of one chain.
type Source interface {
	Name() string
	LatestHeight(ctx context.Context) (uint64, error)
	// FetchEvents returns events between from and to inclusive.
	FetchEvents(ctx context.Context, from uint64, to uint64) ([]*bridge.Event, error)
}

type ChainConfig struct {
	Source Source
	// Confirmations is the finality depth events must reach before they are
	// indexed.
	Confirmations uint64
	// StartHeight is used when no cursor is stored. Zero starts at the
	// current final height.
	StartHeight        uint64
	BatchSize          uint64
	BlockRetryInterval time.Duration
}

type Metrics interface {
	TrackIndexedHeight(chain string, height uint64)
}

// Indexer persists finalized bridge events of every configured chain and
// notifies subscribers of the transfers they touched.
type Indexer struct {
	store   Store
	chains  []ChainConfig
	metrics Metrics

	subscribersLock sync.RWMutex
	subscribers     []chan []bridge.TransferID
}

func NewIndexer(store Store, metrics Metrics, chains ...ChainConfig) *Indexer {
	return &Indexer{
		store:   store,
		chains:  chains,
		metrics: metrics,
	}
}

// Subscribe returns a channel receiving the ids of transfers with newly
// indexed events. Notifications are dropped for subscribers that fall behind.
func (i *Indexer) Subscribe() <-chan []bridge.TransferID {
	i.subscribersLock.Lock()
	defer i.subscribersLock.Unlock()

	ch := make(chan []bridge.TransferID, 64)
	i.subscribers = append(i.subscribers, ch)
	return ch
}

// Confirmations returns the finality depth of chain.
func (i *Indexer) Confirmations(chain string) (uint64, bool) {
	for _, c := range i.chains {
		if c.Source.Name() == chain {
			return c.Confirmations, true
		}
	}
	return 0, false
}

// Run indexes every chain until ctx is cancelled.
func (i *Indexer) Run(ctx context.Context) error {
	p := pool.New().WithContext(ctx)
	for _, c := range i.chains {
		p.Go(func(ctx context.Context) error {
			return i.index(ctx, c)
		})
	}
	return p.Wait()
}

func (i *Indexer) index(ctx context.Context, c ChainConfig) error {
	l := log.With().Str("chain", c.Source.Name()).Logger()

	var from uint64
	for {
		var err error
		from, err = i.startHeight(ctx, c)
		if err == nil {
			break
		}
		l.Warn().Err(err).Msgf("Unable to determine start height")
		if !sleep(ctx, c.BlockRetryInterval) {
			return nil
		}
	}
	l.Info().Msgf("Indexing bridge events from height %d", from)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			next, err := i.Poll(ctx, c, from)
			if err != nil {
				l.Warn().Err(err).Msgf("Unable to index events from height %d", from)
			}
			if next == from && !sleep(ctx, c.BlockRetryInterval) {
				return nil
			}
			from = next
		}
	}
}

// Poll indexes the finalized events of c from height from in a single
// batch and returns the next height to index.
func (i *Indexer) Poll(ctx context.Context, c ChainConfig, from uint64) (uint64, error) {
	name := c.Source.Name()
	head, err := c.Source.LatestHeight(ctx)
	if err != nil {
		return from, err
	}
	if head < c.Confirmations || head-c.Confirmations < from {
		return from, nil
	}

	to := head - c.Confirmations
	if c.BatchSize > 0 && to-from+1 > c.BatchSize {
		to = from + c.BatchSize - 1
	}

	events, err := c.Source.FetchEvents(ctx, from, to)
	if err != nil {
		return from, err
	}
	err = i.store.Append(ctx, events)
	if err != nil {
		return from, fmt.Errorf("unable to store events: %w", err)
	}
	err = i.store.SetCursor(ctx, name, to)
	if err != nil {
		return from, fmt.Errorf("unable to store cursor: %w", err)
	}

	if i.metrics != nil {
		i.metrics.TrackIndexedHeight(name, to)
	}
	if len(events) > 0 {
		log.Debug().Str("chain", name).Msgf("Indexed %d events for heights %d-%d", len(events), from, to)
		i.notify(events)
	}
	return to + 1, nil
}

func (i *Indexer) startHeight(ctx context.Context, c ChainConfig) (uint64, error) {
	cursor, ok, err := i.store.Cursor(ctx, c.Source.Name())
	if err != nil {
		return 0, err
	}
	if ok {
		return cursor + 1, nil
	}
	if c.StartHeight != 0 {
		return c.StartHeight, nil
	}

	head, err := c.Source.LatestHeight(ctx)
	if err != nil {
		return 0, err
	}
	if head < c.Confirmations {
		return 0, nil
	}
	return head - c.Confirmations, nil
}

func (i *Indexer) notify(events []*bridge.Event) {
	seen := make(map[bridge.TransferID]struct{})
	ids := make([]bridge.TransferID, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.TransferID]; ok {
			continue
		}
		seen[e.TransferID] = struct{}{}
		ids = append(ids, e.TransferID)
	}

	i.subscribersLock.RLock()
	defer i.subscribersLock.RUnlock()
	for _, ch := range i.subscribers {
		select {
		case ch <- ids:
		default:
			log.Warn().Msgf("Dropped notification of %d transfers", len(ids))
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
