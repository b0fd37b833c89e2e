// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package movement_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/sprintertech/atomic-bridge/bridge"
	mock_chains "github.com/sprintertech/atomic-bridge/chains/mock"
	"github.com/sprintertech/atomic-bridge/chains/movement"
	mock_movement "github.com/sprintertech/atomic-bridge/chains/movement/mock"
	"github.com/sprintertech/atomic-bridge/executor"
)

var (
	moduleAddress, _ = movement.ParseAccountAddress("0xb07")
	senderAddress, _ = movement.ParseAccountAddress("0x5e4d")
	preImage         = bridge.PreImage("secret")
	hashLock         = bridge.NewHashLock(preImage)
	transferID       = bridge.TransferID{9}
)

const now = 1000

// detailsView mirrors the JSON decoded return values of bridge_transfers.
// Numeric states decode as float64.
func detailsView(state any, timeLock uint64) []any {
	if n, ok := state.(int); ok {
		state = float64(n)
	}
	return []any{
		"0x01",
		"0x02",
		"100",
		hashLock.Hex(),
		fmt.Sprint(timeLock),
		state,
	}
}

func initiatedEvent(sequence uint64, id bridge.TransferID, lock bridge.HashLock) movement.Event {
	data, _ := json.Marshal(map[string]string{
		"bridge_transfer_id": id.Hex(),
		"initiator":          senderAddress.Hex(),
		"recipient":          "0x02",
		"amount":             "100",
		"hash_lock":          lock.Hex(),
		"time_lock":          "2000",
	})
	return movement.Event{Version: 40, SequenceNumber: movement.U64(sequence), Data: data}
}

type MovementChainTestSuite struct {
	suite.Suite

	ctrl         *gomock.Controller
	mockNode     *mock_movement.MockNode
	mockExecutor *mock_chains.MockExecutor
	chain        *movement.MovementChain
}

func TestRunMovementChainTestSuite(t *testing.T) {
	suite.Run(t, new(MovementChainTestSuite))
}

func (s *MovementChainTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockNode = mock_movement.NewMockNode(s.ctrl)
	s.mockExecutor = mock_chains.NewMockExecutor(s.ctrl)

	s.chain = movement.NewMovementChain(
		"movement",
		s.mockNode,
		senderAddress,
		s.mockExecutor,
		movement.NewInitiatorModule(moduleAddress, bridge.AssetMovETH),
		movement.NewCounterpartyModule(moduleAddress, bridge.AssetMovETH),
		bridge.AssetMovETH,
	)
}

func (s *MovementChainTestSuite) expectNow() {
	s.mockNode.EXPECT().LedgerInfo(gomock.Any()).Return(&movement.LedgerInfo{LedgerTimestamp: now * 1_000_000}, nil).AnyTimes()
}

func (s *MovementChainTestSuite) expectDetails(module string, values []any) {
	s.mockNode.EXPECT().View(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, payload *aptos.ViewPayload) ([]any, error) {
		s.Equal(moduleAddress, movement.AccountAddress(payload.Module.Address))
		s.Equal(module, payload.Module.Name)
		s.Equal("bridge_transfers", payload.Function)
		s.Equal([][]byte{append([]byte{32}, transferID[:]...)}, payload.Args)
		return values, nil
	})
}

func (s *MovementChainTestSuite) expectEventCount(count uint64) {
	s.mockNode.EXPECT().EventCount(
		gomock.Any(), moduleAddress, moduleAddress.Hex()+"::atomic_bridge_initiator::BridgeInitiatorEvents", "bridge_transfer_initiated_events",
	).Return(count, nil)
}

func (s *MovementChainTestSuite) Test_Now_ConvertsMicroseconds() {
	s.expectNow()

	t, err := s.chain.Now(context.Background())

	s.Nil(err)
	s.Equal(uint64(now), t)
}

func (s *MovementChainTestSuite) Test_GetDetails_UnknownTransfer() {
	s.expectDetails(movement.INITIATOR_MODULE, detailsView(0, 0))

	details, err := s.chain.Initiator().GetBridgeTransferDetails(context.Background(), transferID)

	s.Nil(err)
	s.Nil(details)
}

func (s *MovementChainTestSuite) Test_GetDetails_NotFoundAbort() {
	code := 4016
	s.mockNode.EXPECT().View(gomock.Any(), gomock.Any()).Return(nil, &movement.APIError{
		Status:      400,
		Message:     "Move abort in 0x1::smart_table: ENOT_FOUND(0x60001): ",
		ErrorCode:   "vm_error",
		VMErrorCode: &code,
	})

	details, err := s.chain.Counterparty().GetBridgeTransferDetails(context.Background(), transferID)

	s.Nil(err)
	s.Nil(details)
}

func (s *MovementChainTestSuite) Test_GetDetails_OtherAbortIsError() {
	code := 4016
	s.mockNode.EXPECT().View(gomock.Any(), gomock.Any()).Return(nil, &movement.APIError{
		Status:      400,
		Message:     "Move abort in 0xb07::atomic_bridge_counterparty: 0x10002",
		ErrorCode:   "vm_error",
		VMErrorCode: &code,
	})

	_, err := s.chain.Counterparty().GetBridgeTransferDetails(context.Background(), transferID)

	s.ErrorIs(err, bridge.ErrFunctionView)
}

func (s *MovementChainTestSuite) Test_GetDetails_MissingFunctionIsError() {
	code := 4008
	s.mockNode.EXPECT().View(gomock.Any(), gomock.Any()).Return(nil, &movement.APIError{
		Status:      400,
		Message:     "FUNCTION_RESOLUTION_FAILURE",
		ErrorCode:   "vm_error",
		VMErrorCode: &code,
	})

	details, err := s.chain.Initiator().GetBridgeTransferDetails(context.Background(), transferID)

	s.Nil(details)
	s.ErrorIs(err, bridge.ErrFunctionView)
	s.ErrorIs(err, bridge.ErrCall)
}

func (s *MovementChainTestSuite) Test_GetDetails_NodeUnavailable() {
	s.mockNode.EXPECT().View(gomock.Any(), gomock.Any()).Return(nil, &movement.APIError{Status: 503, Message: "unavailable"})

	_, err := s.chain.Counterparty().GetBridgeTransferDetails(context.Background(), transferID)

	s.ErrorIs(err, bridge.ErrCall)
}

func (s *MovementChainTestSuite) Test_GetDetails_InvalidLength() {
	s.expectDetails(movement.INITIATOR_MODULE, detailsView(1, 2000)[:5])

	_, err := s.chain.Initiator().GetBridgeTransferDetails(context.Background(), transferID)

	s.ErrorIs(err, bridge.ErrInvalidResponseLength)
}

func (s *MovementChainTestSuite) Test_GetDetails_InvalidField() {
	values := detailsView(1, 2000)
	values[2] = "not a number"
	s.expectDetails(movement.INITIATOR_MODULE, values)

	_, err := s.chain.Initiator().GetBridgeTransferDetails(context.Background(), transferID)

	s.ErrorIs(err, bridge.ErrSerialization)
}

func (s *MovementChainTestSuite) Test_GetDetails_Counterparty() {
	s.expectDetails(movement.COUNTERPARTY_MODULE, detailsView("3", 2000))

	details, err := s.chain.Counterparty().GetBridgeTransferDetails(context.Background(), transferID)

	s.Nil(err)
	s.Equal(&bridge.TransferDetails{
		Originator: bridge.Address{1},
		Recipient:  bridge.Address{2},
		Amount:     bridge.NewAmount(bridge.AssetMovETH, 100),
		HashLock:   hashLock,
		TimeLock:   2000,
		State:      bridge.StateAborted,
	}, details)
}

func (s *MovementChainTestSuite) Test_Complete_Submits() {
	s.expectNow()
	s.expectDetails(movement.INITIATOR_MODULE, detailsView(1, 2000))
	s.mockExecutor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, call *executor.Call) (*executor.Receipt, error) {
		s.Equal(moduleAddress.Hex(), call.Contract)
		s.Equal(movement.INITIATOR_MODULE, call.Module)
		s.Equal("complete_bridge_transfer", call.Function)
		s.Equal(executor.SubmissionKey(transferID, bridge.OpComplete), call.Key)
		s.Equal([]executor.Arg{executor.Bytes(transferID[:]), executor.Bytes(preImage)}, call.Args)
		s.NotNil(call.Applied)
		return &executor.Receipt{TxHash: "0xabc"}, nil
	})

	err := s.chain.Initiator().CompleteBridgeTransfer(context.Background(), transferID, preImage)

	s.Nil(err)
}

func (s *MovementChainTestSuite) Test_Complete_AlreadyCompleted() {
	s.expectNow()
	s.expectDetails(movement.COUNTERPARTY_MODULE, detailsView(2, 2000))

	err := s.chain.Counterparty().CompleteBridgeTransfer(context.Background(), transferID, preImage)

	s.ErrorIs(err, bridge.ErrCompleteTransfer)
	s.ErrorIs(err, bridge.ErrTransferTerminal)
}

func (s *MovementChainTestSuite) Test_Lock_CompletedTransfer() {
	s.expectDetails(movement.COUNTERPARTY_MODULE, detailsView(2, 2000))

	err := s.chain.Counterparty().LockBridgeTransfer(
		context.Background(), transferID, hashLock, 2000, bridge.Address{1}, bridge.Address(senderAddress[:]), bridge.NewAmount(bridge.AssetMovETH, 100),
	)

	s.ErrorIs(err, bridge.ErrLockTransfer)
	s.ErrorIs(err, bridge.ErrTransferTerminal)
}

func (s *MovementChainTestSuite) Test_Complete_WrongPreImage() {
	s.expectNow()
	s.expectDetails(movement.COUNTERPARTY_MODULE, detailsView(1, 2000))

	err := s.chain.Counterparty().CompleteBridgeTransfer(context.Background(), transferID, bridge.PreImage("other"))

	s.ErrorIs(err, bridge.ErrCompleteTransfer)
	s.ErrorIs(err, bridge.ErrPreImageMismatch)
}

func (s *MovementChainTestSuite) Test_Refund_NotExpired() {
	s.expectNow()
	s.expectDetails(movement.INITIATOR_MODULE, detailsView(1, 2000))

	err := s.chain.Initiator().RefundBridgeTransfer(context.Background(), transferID)

	s.ErrorIs(err, bridge.ErrRefundTransfer)
	s.ErrorIs(err, bridge.ErrTimeLockNotExpired)
}

func (s *MovementChainTestSuite) Test_Abort_Expired() {
	s.expectNow()
	s.expectDetails(movement.COUNTERPARTY_MODULE, detailsView(1, 500))
	s.mockExecutor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, call *executor.Call) (*executor.Receipt, error) {
		s.Equal(movement.COUNTERPARTY_MODULE, call.Module)
		s.Equal("abort_bridge_transfer", call.Function)
		return &executor.Receipt{TxHash: "0xabc"}, nil
	})

	err := s.chain.Counterparty().AbortBridgeTransfer(context.Background(), transferID)

	s.Nil(err)
}

func (s *MovementChainTestSuite) Test_Lock_Submits() {
	recipient := bridge.Address(senderAddress[:])
	s.expectNow()
	s.expectDetails(movement.COUNTERPARTY_MODULE, detailsView(0, 0))
	s.mockExecutor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, call *executor.Call) (*executor.Receipt, error) {
		s.Equal("lock_bridge_transfer", call.Function)
		s.Equal([]executor.Arg{
			executor.Bytes(bridge.Address{1}),
			executor.Bytes(transferID[:]),
			executor.Bytes(hashLock[:]),
			executor.U64(2000),
			executor.Address(recipient),
			executor.U64(100),
		}, call.Args)
		return &executor.Receipt{TxHash: "0xabc"}, nil
	})

	err := s.chain.Counterparty().LockBridgeTransfer(
		context.Background(), transferID, hashLock, 2000, bridge.Address{1}, recipient, bridge.NewAmount(bridge.AssetMovETH, 100),
	)

	s.Nil(err)
}

func (s *MovementChainTestSuite) Test_Lock_InvalidRecipient() {
	err := s.chain.Counterparty().LockBridgeTransfer(
		context.Background(), transferID, hashLock, 2000, bridge.Address{1}, bridge.Address{2}, bridge.NewAmount(bridge.AssetMovETH, 100),
	)

	s.ErrorIs(err, bridge.ErrLockTransfer)
	var conversionErr *bridge.ConversionFailedError
	s.ErrorAs(err, &conversionErr)
}

func (s *MovementChainTestSuite) Test_Lock_WrongAsset() {
	err := s.chain.Counterparty().LockBridgeTransfer(
		context.Background(), transferID, hashLock, 2000, bridge.Address{1}, bridge.Address(senderAddress[:]), bridge.NewAmount(bridge.AssetWeth, 100),
	)

	s.ErrorIs(err, bridge.ErrLockTransfer)
}

func (s *MovementChainTestSuite) Test_Initiate_ReadsIDFromEvents() {
	s.expectNow()
	s.expectEventCount(4)
	data, _ := json.Marshal(map[string]string{"bridge_transfer_id": transferID.Hex()})
	s.mockExecutor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, call *executor.Call) (*executor.Receipt, error) {
		s.Equal("initiate_bridge_transfer", call.Function)
		s.Equal(executor.SubmissionKey(hashLock, bridge.OpInitiate), call.Key)
		s.NotNil(call.Applied)
		return &executor.Receipt{
			TxHash: "0xabc",
			Raw: &movement.Transaction{
				Hash: "0xabc",
				Events: []movement.Event{
					{Type: "0x1::coin::WithdrawEvent", Data: json.RawMessage(`{}`)},
					{Type: moduleAddress.Hex() + "::atomic_bridge_initiator::BridgeTransferInitiatedEvent", Data: data},
				},
			},
		}, nil
	})

	id, err := s.chain.Initiator().InitiateBridgeTransfer(
		context.Background(), bridge.Address(senderAddress[:]), bridge.Address{2}, hashLock, 2000, bridge.NewAmount(bridge.AssetMovETH, 100),
	)

	s.Nil(err)
	s.Equal(transferID, id)
}

func (s *MovementChainTestSuite) Test_Initiate_FetchesTransaction() {
	s.expectNow()
	s.expectEventCount(4)
	s.mockExecutor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&executor.Receipt{TxHash: "0xabc"}, nil)
	s.mockNode.EXPECT().TransactionByHash(gomock.Any(), "0xabc").Return(&movement.Transaction{Hash: "0xabc"}, nil)

	_, err := s.chain.Initiator().InitiateBridgeTransfer(
		context.Background(), bridge.Address(senderAddress[:]), bridge.Address{2}, hashLock, 2000, bridge.NewAmount(bridge.AssetMovETH, 100),
	)

	s.ErrorIs(err, bridge.ErrInitiateTransfer)
	s.ErrorIs(err, bridge.ErrSerialization)
}

func (s *MovementChainTestSuite) Test_Initiate_AppliedFindsInitiatedEvent() {
	s.expectNow()
	s.expectEventCount(4)
	s.mockNode.EXPECT().EventsByHandle(
		gomock.Any(), moduleAddress, gomock.Any(), "bridge_transfer_initiated_events", uint64(4), movement.INITIATED_PAGE_SIZE,
	).Return([]movement.Event{
		initiatedEvent(4, bridge.TransferID{1}, bridge.HashLock{1}),
		initiatedEvent(5, transferID, hashLock),
	}, nil)
	s.mockExecutor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, call *executor.Call) (*executor.Receipt, error) {
		applied, err := call.Applied(ctx)
		s.Nil(err)
		s.True(applied)
		return &executor.Receipt{AlreadyApplied: true}, nil
	})

	id, err := s.chain.Initiator().InitiateBridgeTransfer(
		context.Background(), bridge.Address(senderAddress[:]), bridge.Address{2}, hashLock, 2000, bridge.NewAmount(bridge.AssetMovETH, 100),
	)

	s.Nil(err)
	s.Equal(transferID, id)
}

func (s *MovementChainTestSuite) Test_Initiate_AppliedIgnoresOtherTransfers() {
	s.expectNow()
	s.expectEventCount(4)
	s.mockNode.EXPECT().EventsByHandle(
		gomock.Any(), moduleAddress, gomock.Any(), "bridge_transfer_initiated_events", uint64(4), movement.INITIATED_PAGE_SIZE,
	).Return([]movement.Event{initiatedEvent(4, transferID, bridge.HashLock{1})}, nil)
	s.mockExecutor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, call *executor.Call) (*executor.Receipt, error) {
		applied, err := call.Applied(ctx)
		s.Nil(err)
		s.False(applied)
		return nil, executor.ErrConfirmationTimeout
	})

	_, err := s.chain.Initiator().InitiateBridgeTransfer(
		context.Background(), bridge.Address(senderAddress[:]), bridge.Address{2}, hashLock, 2000, bridge.NewAmount(bridge.AssetMovETH, 100),
	)

	s.ErrorIs(err, bridge.ErrInitiateTransfer)
}

func (s *MovementChainTestSuite) Test_Initiate_NotSender() {
	_, err := s.chain.Initiator().InitiateBridgeTransfer(
		context.Background(), bridge.Address{1}, bridge.Address{2}, hashLock, 2000, bridge.NewAmount(bridge.AssetMovETH, 100),
	)

	s.ErrorIs(err, bridge.ErrInitiateTransfer)
}

func (s *MovementChainTestSuite) Test_Initiate_ExpiredTimeLock() {
	s.expectNow()

	_, err := s.chain.Initiator().InitiateBridgeTransfer(
		context.Background(), bridge.Address(senderAddress[:]), bridge.Address{2}, hashLock, now, bridge.NewAmount(bridge.AssetMovETH, 100),
	)

	s.ErrorIs(err, bridge.ErrTimeLockExpired)
}

func (s *MovementChainTestSuite) Test_MissingModule() {
	chain := movement.NewMovementChain("movement", s.mockNode, senderAddress, s.mockExecutor, nil, nil, bridge.AssetMovETH)

	_, err := chain.Initiator().GetBridgeTransferDetails(context.Background(), transferID)
	s.ErrorIs(err, bridge.ErrFunctionView)

	err = chain.Counterparty().AbortBridgeTransfer(context.Background(), transferID)
	s.ErrorIs(err, bridge.ErrAbortTransfer)
	s.True(errors.Is(err, bridge.ErrFunctionView))
}
