// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package indexer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/indexer"
)

type MemoryStoreTestSuite struct {
	suite.Suite

	store *indexer.MemoryStore
}

func TestRunMemoryStoreTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreTestSuite))
}

func (s *MemoryStoreTestSuite) SetupTest() {
	s.store = indexer.NewMemoryStore()
}

func (s *MemoryStoreTestSuite) Test_Events_OrderedByChainSequence() {
	id := bridge.TransferID{1}
	_ = s.store.Append(context.Background(), []*bridge.Event{
		{Kind: bridge.EventInitiatorCompleted, Chain: "evm1", Height: 20, TransferID: id},
		{Kind: bridge.EventInitiated, Chain: "evm1", Height: 10, Index: 2, TransferID: id},
		{Kind: bridge.EventLocked, Chain: "movement", Height: 5, TransferID: id},
	})

	events, err := s.store.Events(context.Background(), id)

	s.Nil(err)
	s.Len(events, 3)
	s.Equal(bridge.EventInitiated, events[0].Kind)
	s.Equal(bridge.EventInitiatorCompleted, events[1].Kind)
	s.Equal(bridge.EventLocked, events[2].Kind)
}

func (s *MemoryStoreTestSuite) Test_OpenTransfers() {
	_ = s.store.Append(context.Background(), []*bridge.Event{
		{Kind: bridge.EventInitiated, Chain: "evm1", Height: 1, TransferID: bridge.TransferID{1}},
		{Kind: bridge.EventInitiated, Chain: "evm1", Height: 2, TransferID: bridge.TransferID{2}},
		{Kind: bridge.EventRefunded, Chain: "evm1", Height: 3, TransferID: bridge.TransferID{2}},
		{Kind: bridge.EventInitiated, Chain: "evm1", Height: 4, TransferID: bridge.TransferID{3}},
		{Kind: bridge.EventInitiatorCompleted, Chain: "evm1", Height: 5, TransferID: bridge.TransferID{3}},
		{Kind: bridge.EventLocked, Chain: "movement", Height: 1, TransferID: bridge.TransferID{3}},
	})

	ids, err := s.store.OpenTransfers(context.Background())

	s.Nil(err)
	s.Equal([]bridge.TransferID{{1}, {3}}, ids)
}

func (s *MemoryStoreTestSuite) Test_RecordCompletion_KeepsFirst() {
	id := bridge.TransferID{1}
	first := time.Unix(100, 0)
	_ = s.store.RecordCompletion(context.Background(), indexer.Completion{TransferID: id, PreImage: bridge.PreImage("a"), Timestamp: first})
	_ = s.store.RecordCompletion(context.Background(), indexer.Completion{TransferID: id, PreImage: bridge.PreImage("b"), Timestamp: time.Unix(200, 0)})

	completion, ok := s.store.Completion(id)

	s.True(ok)
	s.Equal(first, completion.Timestamp)
}

func (s *MemoryStoreTestSuite) Test_RecordLock() {
	lock := indexer.LockRecord{TransferID: bridge.TransferID{1}, Amount: bridge.NewAmount(bridge.AssetMovETH, 1)}
	_ = s.store.RecordLock(context.Background(), lock)

	stored, ok := s.store.Lock(bridge.TransferID{1})

	s.True(ok)
	s.Equal(lock, stored)
}
