// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package reconciler_test

import (
	"testing"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/reconciler"
	"github.com/stretchr/testify/suite"
)

var (
	transferID = bridge.TransferID{7}
	preImage   = bridge.PreImage("secret")
	hashLock   = bridge.NewHashLock(preImage)
)

func initiated(chain string, height uint64, timeLock bridge.TimeLock) *bridge.Event {
	return &bridge.Event{
		Kind:       bridge.EventInitiated,
		Chain:      chain,
		Height:     height,
		TransferID: transferID,
		Initiator:  bridge.Address{1, 2, 3},
		Recipient:  bridge.Address{4, 5, 6},
		HashLock:   hashLock,
		TimeLock:   timeLock,
		Amount:     bridge.NewAmount(bridge.AssetWeth, 100),
	}
}

func event(kind bridge.EventKind, chain string, height uint64) *bridge.Event {
	return &bridge.Event{
		Kind:       kind,
		Chain:      chain,
		Height:     height,
		TransferID: transferID,
		HashLock:   hashLock,
		TimeLock:   2000,
	}
}

type FoldTestSuite struct {
	suite.Suite
}

func TestRunFoldTestSuite(t *testing.T) {
	suite.Run(t, new(FoldTestSuite))
}

func (s *FoldTestSuite) Test_NoEvents() {
	status := reconciler.Fold(nil)

	s.Equal(bridge.StateUnknown, status.State)
	s.Nil(status.Initiated)
}

func (s *FoldTestSuite) Test_Initiated() {
	status := reconciler.Fold([]*bridge.Event{initiated("eth", 10, 2000)})

	s.Equal(transferID, status.TransferID)
	s.Equal(bridge.StateInitialized, status.Initiator)
	s.Equal(bridge.StateUnknown, status.Counterparty)
	s.Equal(bridge.StateInitialized, status.State)
	s.NotNil(status.Initiated)
}

func (s *FoldTestSuite) Test_LockedAggregatesToLocked() {
	status := reconciler.Fold([]*bridge.Event{
		event(bridge.EventLocked, "movement", 5),
		initiated("eth", 10, 2000),
	})

	s.Equal(bridge.StateLocked, status.State)
	s.NotNil(status.Locked)
}

func (s *FoldTestSuite) Test_CounterpartyCompletedCarriesPreImage() {
	completed := event(bridge.EventCounterpartyCompleted, "movement", 7)
	completed.PreImage = preImage

	status := reconciler.Fold([]*bridge.Event{
		initiated("eth", 10, 2000),
		event(bridge.EventLocked, "movement", 5),
		completed,
	})

	s.Equal(bridge.StateCompleted, status.Counterparty)
	s.Equal(bridge.StateInitialized, status.Initiator)
	s.Equal(bridge.StateCompleted, status.State)
	s.Equal(preImage, status.PreImage)
}

func (s *FoldTestSuite) Test_TerminalStateNotReplaced() {
	status := reconciler.Fold([]*bridge.Event{
		initiated("eth", 10, 2000),
		event(bridge.EventRefunded, "eth", 11),
		event(bridge.EventInitiatorCompleted, "eth", 12),
	})

	s.Equal(bridge.StateRefunded, status.Initiator)
	s.Equal(bridge.StateRefunded, status.State)
}

func (s *FoldTestSuite) Test_EventsSortedBeforeFolding() {
	status := reconciler.Fold([]*bridge.Event{
		event(bridge.EventRefunded, "eth", 11),
		initiated("eth", 10, 2000),
	})

	s.Equal(bridge.StateRefunded, status.Initiator)
}

func (s *FoldTestSuite) Test_AbortedCounterpartyWithOpenInitiator() {
	status := reconciler.Fold([]*bridge.Event{
		initiated("eth", 10, 2000),
		event(bridge.EventLocked, "movement", 5),
		event(bridge.EventCancelled, "movement", 9),
	})

	s.Equal(bridge.StateAborted, status.Counterparty)
	s.Equal(bridge.StateAborted, status.State)
}
