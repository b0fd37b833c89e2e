// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package reconciler_test

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/sprintertech/atomic-bridge/bridge"
	mock_chains "github.com/sprintertech/atomic-bridge/chains/mock"
	"github.com/sprintertech/atomic-bridge/chains/evm"
	"github.com/sprintertech/atomic-bridge/chains/evm/calls/consts"
	"github.com/sprintertech/atomic-bridge/chains/evm/calls/contracts"
	"github.com/sprintertech/atomic-bridge/chains/evm/calls/events"
	mock_evm "github.com/sprintertech/atomic-bridge/chains/evm/mock"
	"github.com/sprintertech/atomic-bridge/chains/movement"
	mock_movement "github.com/sprintertech/atomic-bridge/chains/movement/mock"
	"github.com/sprintertech/atomic-bridge/executor"
	"github.com/sprintertech/atomic-bridge/indexer"
	"github.com/sprintertech/atomic-bridge/reconciler"
	"github.com/sprintertech/atomic-bridge/signer"
)

const (
	chainTime    = 1000
	lockedEvents = "bridge_transfer_locked_events"
	doneEvents   = "bridge_transfer_completed_events"
)

var (
	initiatorAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	moduleAddress    = movement.AccountAddress{31: 0x0b}
	lifecyclePre     = bridge.PreImage(common.LeftPadBytes([]byte("lifecycle secret"), 32))
	lifecycleLock    = bridge.NewHashLock(lifecyclePre)
	lifecycleID      = bridge.TransferID{0xaa, 0x01}
)

// htlc is a transfer record of one of the fake contracts.
type htlc struct {
	originator []byte
	recipient  []byte
	amount     uint64
	hashLock   bridge.HashLock
	timeLock   uint64
	state      uint8
}

// ledger backs the EVM initiator contract and the Movement counterparty
// module. It is mutated by the executors and read through the chain clients.
type ledger struct {
	initiator    map[bridge.TransferID]*htlc
	counterparty map[bridge.TransferID]*htlc
	logs         []types.Log
	block        uint64
	events       map[string][]movement.Event
	version      uint64
}

func newLedger() *ledger {
	return &ledger{
		initiator:    make(map[bridge.TransferID]*htlc),
		counterparty: make(map[bridge.TransferID]*htlc),
		events:       make(map[string][]movement.Event),
		block:        1,
		version:      1,
	}
}

func hex0x(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

type LifecycleTestSuite struct {
	suite.Suite

	ledger       *ledger
	executed     []string
	store        *indexer.MemoryStore
	evmSigner    *signer.LocalSigner
	evmChain     *evm.EVMChain
	moveChain    *movement.MovementChain
	listener     *events.Listener
	source       *movement.EventSource
	indexedBlock uint64
	reconciler   *reconciler.Reconciler
}

func TestRunLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleTestSuite))
}

func (s *LifecycleTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.ledger = newLedger()
	s.executed = nil
	s.indexedBlock = 0
	s.store = indexer.NewMemoryStore()
	s.evmSigner, _ = signer.GenerateLocalSigner()

	evmClient := mock_evm.NewMockChainClient(ctrl)
	evmExecutor := mock_chains.NewMockExecutor(ctrl)
	s.mockEVM(evmClient, evmExecutor)
	s.evmChain = evm.NewEVMChain(
		"evm",
		evmClient,
		s.evmSigner,
		evmExecutor,
		contracts.NewInitiatorContract(evmClient, initiatorAddress, bridge.AssetWeth),
		nil,
		bridge.AssetWeth,
	)
	s.listener = events.NewListener(evmClient, "evm", initiatorAddress, common.Address{}, bridge.AssetWeth)

	node := mock_movement.NewMockNode(ctrl)
	moveExecutor := mock_chains.NewMockExecutor(ctrl)
	s.mockMovement(node, moveExecutor)
	counterparty := movement.NewCounterpartyModule(moduleAddress, bridge.AssetMovETH)
	s.moveChain = movement.NewMovementChain("movement", node, movement.AccountAddress{31: 0x5e}, moveExecutor, nil, counterparty, bridge.AssetMovETH)
	s.source = movement.NewEventSource(log.With(), "movement", node, nil, counterparty, bridge.AssetMovETH, 10)

	s.reconciler = reconciler.NewReconciler(
		s.store,
		[]reconciler.Route{{
			Initiator:    s.evmChain,
			Counterparty: s.moveChain,
			Assets:       bridge.AssetPair{Source: bridge.AssetWeth, Destination: bridge.AssetMovETH},
		}},
		nil,
		reconciler.Config{Interval: time.Second, MaxParallel: 1},
	)
}

func (s *LifecycleTestSuite) mockEVM(client *mock_evm.MockChainClient, exec *mock_chains.MockExecutor) {
	client.EXPECT().HeaderByNumber(gomock.Any(), nil).Return(&types.Header{Time: chainTime}, nil).AnyTimes()
	client.EXPECT().BlockNumber(gomock.Any()).DoAndReturn(func(ctx context.Context) (uint64, error) {
		return s.ledger.block, nil
	}).AnyTimes()
	client.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).DoAndReturn(func(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
		method, err := consts.AtomicBridgeInitiatorABI.MethodById(msg.Data[:4])
		s.Nil(err)
		args, err := method.Inputs.Unpack(msg.Data[4:])
		s.Nil(err)
		record, ok := s.ledger.initiator[bridge.TransferID(args[0].([32]byte))]
		if !ok {
			record = &htlc{recipient: make([]byte, 32)}
		}
		return method.Outputs.Pack(
			common.BytesToAddress(record.originator),
			[32]byte(record.recipient),
			new(big.Int).SetUint64(record.amount),
			[32]byte(record.hashLock),
			new(big.Int).SetUint64(record.timeLock),
			record.state,
		)
	}).AnyTimes()
	client.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
		logs := make([]types.Log, 0)
		for _, l := range s.ledger.logs {
			if q.FromBlock != nil && l.BlockNumber < q.FromBlock.Uint64() {
				continue
			}
			if q.ToBlock != nil && l.BlockNumber > q.ToBlock.Uint64() {
				continue
			}
			logs = append(logs, l)
		}
		return logs, nil
	}).AnyTimes()

	exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, call *executor.Call) (*executor.Receipt, error) {
		s.executed = append(s.executed, "evm "+call.Function)
		l := s.ledger
		switch call.Function {
		case "initiateBridgeTransfer":
			sender, _ := s.evmChain.Address(ctx)
			l.initiator[lifecycleID] = &htlc{
				originator: sender,
				recipient:  call.Args[1].Bytes,
				amount:     call.Args[0].U64,
				hashLock:   bridge.HashLock(call.Args[2].Bytes),
				timeLock:   call.Args[3].U64,
				state:      1,
			}
			data, err := consts.AtomicBridgeInitiatorABI.Events["BridgeTransferInitiated"].Inputs.NonIndexed().Pack(
				new(big.Int).SetUint64(call.Args[0].U64), [32]byte(call.Args[2].Bytes), new(big.Int).SetUint64(call.Args[3].U64),
			)
			s.Nil(err)
			receipt := &types.Receipt{Logs: []*types.Log{s.emitLog(types.Log{
				Topics: []common.Hash{
					events.BridgeTransferInitiatedSig.GetTopic(),
					common.Hash(lifecycleID),
					common.BytesToHash(sender),
					common.BytesToHash(call.Args[1].Bytes),
				},
				Data: data,
			})}}
			return &executor.Receipt{TxHash: "0x01", Raw: receipt}, nil
		case "completeBridgeTransfer":
			id := bridge.TransferID(call.Args[0].Bytes)
			record := l.initiator[id]
			if record == nil || record.state != 1 || !record.hashLock.Matches(call.Args[1].Bytes) {
				return nil, fmt.Errorf("execution reverted")
			}
			record.state = 2
			data, err := consts.AtomicBridgeInitiatorABI.Events["BridgeTransferCompleted"].Inputs.NonIndexed().Pack([32]byte(call.Args[1].Bytes))
			s.Nil(err)
			s.emitLog(types.Log{
				Topics: []common.Hash{events.BridgeTransferCompletedSig.GetTopic(), common.Hash(id)},
				Data:   data,
			})
			return &executor.Receipt{TxHash: "0x02"}, nil
		default:
			return nil, fmt.Errorf("unexpected evm call %s", call.Function)
		}
	}).AnyTimes()
}

func (s *LifecycleTestSuite) emitLog(l types.Log) *types.Log {
	s.ledger.block++
	l.Address = initiatorAddress
	l.BlockNumber = s.ledger.block
	s.ledger.logs = append(s.ledger.logs, l)
	return &s.ledger.logs[len(s.ledger.logs)-1]
}

func (s *LifecycleTestSuite) mockMovement(node *mock_movement.MockNode, exec *mock_chains.MockExecutor) {
	node.EXPECT().LedgerInfo(gomock.Any()).DoAndReturn(func(ctx context.Context) (*movement.LedgerInfo, error) {
		return &movement.LedgerInfo{LedgerTimestamp: chainTime * 1_000_000, LedgerVersion: s.ledger.version}, nil
	}).AnyTimes()
	node.EXPECT().View(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, payload *aptos.ViewPayload) ([]any, error) {
		s.Equal(movement.COUNTERPARTY_MODULE, payload.Module.Name)
		record, ok := s.ledger.counterparty[bridge.TransferID(payload.Args[0][1:])]
		if !ok {
			return nil, &movement.APIError{
				Status:  400,
				Message: fmt.Sprintf("Move abort in %s::%s: ENOT_FOUND(0x60001): ", moduleAddress.Hex(), movement.COUNTERPARTY_MODULE),
			}
		}
		return []any{
			hex0x(record.originator),
			hex0x(record.recipient),
			fmt.Sprint(record.amount),
			record.hashLock.Hex(),
			fmt.Sprint(record.timeLock),
			float64(record.state),
		}, nil
	}).AnyTimes()
	node.EXPECT().EventsByHandle(gomock.Any(), moduleAddress, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, address movement.AccountAddress, handle string, field string, start uint64, limit int) ([]movement.Event, error) {
			all := s.ledger.events[field]
			if start >= uint64(len(all)) {
				return []movement.Event{}, nil
			}
			end := min(int(start)+limit, len(all))
			return all[start:end], nil
		}).AnyTimes()

	exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, call *executor.Call) (*executor.Receipt, error) {
		s.executed = append(s.executed, "movement "+call.Function)
		l := s.ledger
		switch call.Function {
		case "lock_bridge_transfer":
			id := bridge.TransferID(call.Args[1].Bytes)
			record := &htlc{
				originator: call.Args[0].Bytes,
				recipient:  call.Args[4].Bytes,
				amount:     call.Args[5].U64,
				hashLock:   bridge.HashLock(call.Args[2].Bytes),
				timeLock:   call.Args[3].U64,
				state:      1,
			}
			l.counterparty[id] = record
			s.emitEvent(lockedEvents, map[string]string{
				"bridge_transfer_id": id.Hex(),
				"initiator":          hex0x(record.originator),
				"recipient":          hex0x(record.recipient),
				"amount":             fmt.Sprint(record.amount),
				"hash_lock":          record.hashLock.Hex(),
				"time_lock":          fmt.Sprint(record.timeLock),
			})
			return &executor.Receipt{TxHash: "0x0a"}, nil
		case "complete_bridge_transfer":
			id := bridge.TransferID(call.Args[0].Bytes)
			record := l.counterparty[id]
			if record == nil || record.state != 1 || !record.hashLock.Matches(call.Args[1].Bytes) {
				return nil, fmt.Errorf("Move abort")
			}
			record.state = 2
			s.emitEvent(doneEvents, map[string]string{
				"bridge_transfer_id": id.Hex(),
				"pre_image":          hex0x(call.Args[1].Bytes),
			})
			return &executor.Receipt{TxHash: "0x0b"}, nil
		default:
			return nil, fmt.Errorf("unexpected movement call %s", call.Function)
		}
	}).AnyTimes()
}

func (s *LifecycleTestSuite) emitEvent(field string, fields map[string]string) {
	data, err := json.Marshal(fields)
	s.Nil(err)
	s.ledger.version++
	s.ledger.events[field] = append(s.ledger.events[field], movement.Event{
		Version:        movement.U64(s.ledger.version),
		SequenceNumber: movement.U64(len(s.ledger.events[field])),
		Data:           data,
	})
}

// index feeds the events emitted since the last call to the store.
func (s *LifecycleTestSuite) index() {
	evmEvents, err := s.listener.FetchBridgeEvents(
		context.Background(), new(big.Int).SetUint64(s.indexedBlock+1), new(big.Int).SetUint64(s.ledger.block),
	)
	s.Nil(err)
	s.indexedBlock = s.ledger.block
	moveEvents, err := s.source.FetchEvents(context.Background(), 0, s.ledger.version)
	s.Nil(err)

	s.Nil(s.store.Append(context.Background(), evmEvents))
	s.Nil(s.store.Append(context.Background(), moveEvents))
}

func (s *LifecycleTestSuite) Test_TransferCompletesOnBothChains() {
	ctx := context.Background()
	originator, err := s.evmChain.Address(ctx)
	s.Nil(err)
	recipient := bridge.Address(common.LeftPadBytes([]byte{0x0c}, 32))
	timeLock := bridge.TimeLock(chainTime + 3600)

	id, err := s.evmChain.Initiator().InitiateBridgeTransfer(ctx, originator, recipient, lifecycleLock, timeLock, bridge.NewAmount(bridge.AssetWeth, 100))
	s.Nil(err)
	s.Equal(lifecycleID, id)

	initiated, err := s.evmChain.Initiator().GetBridgeTransferDetails(ctx, id)
	s.Nil(err)
	s.Equal(&bridge.TransferDetails{
		Originator: originator,
		Recipient:  recipient,
		Amount:     bridge.NewAmount(bridge.AssetWeth, 100),
		HashLock:   lifecycleLock,
		TimeLock:   timeLock,
		State:      bridge.StateInitialized,
	}, initiated)

	s.index()
	s.Nil(s.reconciler.Reconcile(ctx, id))

	locked, err := s.moveChain.Counterparty().GetBridgeTransferDetails(ctx, id)
	s.Nil(err)
	s.Equal(bridge.StateLocked, locked.State)
	s.Equal(originator, locked.Originator)
	s.Equal(recipient, locked.Recipient)
	s.Equal(bridge.NewAmount(bridge.AssetMovETH, 100), locked.Amount)
	s.Equal(lifecycleLock, locked.HashLock)
	s.Equal(timeLock, locked.TimeLock)

	err = s.moveChain.Counterparty().CompleteBridgeTransfer(ctx, id, lifecyclePre)
	s.Nil(err)

	s.index()
	recorded, err := s.store.Events(ctx, id)
	s.Nil(err)
	var counterpartyCompleted *bridge.Event
	for _, e := range recorded {
		if e.Kind == bridge.EventCounterpartyCompleted {
			counterpartyCompleted = e
		}
	}
	s.NotNil(counterpartyCompleted)
	s.Equal(id, counterpartyCompleted.TransferID)
	s.Equal(lifecyclePre, counterpartyCompleted.PreImage)
	s.Equal("movement", counterpartyCompleted.Chain)

	s.Nil(s.reconciler.Reconcile(ctx, id))

	initiatorSide, err := s.evmChain.Initiator().GetBridgeTransferDetails(ctx, id)
	s.Nil(err)
	s.Equal(bridge.StateCompleted, initiatorSide.State)
	counterpartySide, err := s.moveChain.Counterparty().GetBridgeTransferDetails(ctx, id)
	s.Nil(err)
	s.Equal(bridge.StateCompleted, counterpartySide.State)
	completion, ok := s.store.Completion(id)
	s.True(ok)
	s.Equal(lifecyclePre, completion.PreImage)

	err = s.evmChain.Initiator().RefundBridgeTransfer(ctx, id)
	s.ErrorIs(err, bridge.ErrRefundTransfer)
	s.ErrorIs(err, bridge.ErrTransferTerminal)

	s.index()
	s.Nil(s.reconciler.Reconcile(ctx, id))
	s.Equal([]string{
		"evm initiateBridgeTransfer",
		"movement lock_bridge_transfer",
		"movement complete_bridge_transfer",
		"evm completeBridgeTransfer",
	}, s.executed)
}

func (s *LifecycleTestSuite) Test_EveryOperationOnTerminalTransferFails() {
	ctx := context.Background()
	record := func(state uint8) *htlc {
		return &htlc{
			originator: common.HexToAddress("0x01").Bytes(),
			recipient:  common.LeftPadBytes([]byte{0x0c}, 32),
			amount:     100,
			hashLock:   lifecycleLock,
			timeLock:   chainTime + 3600,
			state:      state,
		}
	}
	recipient := bridge.Address(common.LeftPadBytes([]byte{0x0c}, 32))
	initiator := bridge.Address(common.HexToAddress("0x01").Bytes())

	for _, state := range []uint8{2, 3} {
		s.ledger.initiator[lifecycleID] = record(state)
		s.ledger.counterparty[lifecycleID] = record(state)

		err := s.evmChain.Initiator().CompleteBridgeTransfer(ctx, lifecycleID, lifecyclePre)
		s.ErrorIs(err, bridge.ErrCompleteTransfer)
		s.ErrorIs(err, bridge.ErrTransferTerminal)

		err = s.evmChain.Initiator().RefundBridgeTransfer(ctx, lifecycleID)
		s.ErrorIs(err, bridge.ErrRefundTransfer)
		s.ErrorIs(err, bridge.ErrTransferTerminal)

		err = s.moveChain.Counterparty().LockBridgeTransfer(
			ctx, lifecycleID, lifecycleLock, bridge.TimeLock(chainTime+3600), initiator, recipient, bridge.NewAmount(bridge.AssetMovETH, 100),
		)
		s.ErrorIs(err, bridge.ErrLockTransfer)
		s.ErrorIs(err, bridge.ErrTransferTerminal)

		err = s.moveChain.Counterparty().CompleteBridgeTransfer(ctx, lifecycleID, lifecyclePre)
		s.ErrorIs(err, bridge.ErrCompleteTransfer)
		s.ErrorIs(err, bridge.ErrTransferTerminal)

		err = s.moveChain.Counterparty().AbortBridgeTransfer(ctx, lifecycleID)
		s.ErrorIs(err, bridge.ErrAbortTransfer)
		s.ErrorIs(err, bridge.ErrTransferTerminal)
	}

	s.Empty(s.executed)
}
