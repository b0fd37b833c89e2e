// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package indexer

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/sprintertech/atomic-bridge/bridge"
)

type eventKey struct {
	kind   bridge.EventKind
	chain  string
	height uint64
	index  uint64
}

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	seen        map[eventKey]struct{}
	events      map[bridge.TransferID][]*bridge.Event
	cursors     map[string]uint64
	completions map[bridge.TransferID]Completion
	locks       map[bridge.TransferID]LockRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seen:        make(map[eventKey]struct{}),
		events:      make(map[bridge.TransferID][]*bridge.Event),
		cursors:     make(map[string]uint64),
		completions: make(map[bridge.TransferID]Completion),
		locks:       make(map[bridge.TransferID]LockRecord),
	}
}

func (s *MemoryStore) Append(ctx context.Context, events []*bridge.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		key := eventKey{kind: e.Kind, chain: e.Chain, height: e.Height, index: e.Index}
		if _, ok := s.seen[key]; ok {
			continue
		}
		s.seen[key] = struct{}{}
		stored := *e
		s.events[e.TransferID] = append(s.events[e.TransferID], &stored)
	}
	return nil
}

func (s *MemoryStore) Events(ctx context.Context, id bridge.TransferID) ([]*bridge.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]*bridge.Event, len(s.events[id]))
	copy(events, s.events[id])
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Chain != events[j].Chain {
			return events[i].Chain < events[j].Chain
		}
		return events[i].Before(events[j])
	})
	return events, nil
}

func (s *MemoryStore) OpenTransfers(ctx context.Context) ([]bridge.TransferID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]bridge.TransferID, 0)
	for id, events := range s.events {
		if isOpen(events) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids, nil
}

func (s *MemoryStore) Cursor(ctx context.Context, chain string) (uint64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	height, ok := s.cursors[chain]
	return height, ok, nil
}

func (s *MemoryStore) SetCursor(ctx context.Context, chain string, height uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursors[chain] = height
	return nil
}

func (s *MemoryStore) RecordCompletion(ctx context.Context, completion Completion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.completions[completion.TransferID]; !ok {
		s.completions[completion.TransferID] = completion
	}
	return nil
}

func (s *MemoryStore) RecordLock(ctx context.Context, lock LockRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locks[lock.TransferID]; !ok {
		s.locks[lock.TransferID] = lock
	}
	return nil
}

// Completion returns the recorded completion of id.
func (s *MemoryStore) Completion(id bridge.TransferID) (Completion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.completions[id]
	return c, ok
}

// Lock returns the recorded lock of id.
func (s *MemoryStore) Lock(id bridge.TransferID) (LockRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.locks[id]
	return l, ok
}
