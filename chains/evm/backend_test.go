// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package evm_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/chains/evm"
	"github.com/sprintertech/atomic-bridge/chains/evm/calls/consts"
	mock_evm "github.com/sprintertech/atomic-bridge/chains/evm/mock"
	"github.com/sprintertech/atomic-bridge/executor"
	"github.com/sprintertech/atomic-bridge/signer"
)

type BackendTestSuite struct {
	suite.Suite

	ctrl       *gomock.Controller
	mockClient *mock_evm.MockChainClient
	signer     *signer.LocalSigner
	backend    *evm.Backend
	call       *executor.Call
}

func TestRunBackendTestSuite(t *testing.T) {
	suite.Run(t, new(BackendTestSuite))
}

func (s *BackendTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClient = mock_evm.NewMockChainClient(s.ctrl)
	s.signer, _ = signer.GenerateLocalSigner()
	s.backend = evm.NewBackend(s.mockClient, s.signer, big.NewInt(1), map[common.Address]abi.ABI{
		initiatorAddress: consts.AtomicBridgeInitiatorABI,
	}, 100000)

	s.call = &executor.Call{
		Key:       executor.SubmissionKey(transferID, bridge.OpRefund),
		Operation: bridge.OpRefund,
		Contract:  initiatorAddress.Hex(),
		Function:  "refundBridgeTransfer",
		Args:      []executor.Arg{executor.Hash32(transferID)},
	}
}

func (s *BackendTestSuite) expectFees() {
	s.mockClient.EXPECT().SuggestGasTipCap(gomock.Any()).Return(big.NewInt(2), nil)
	s.mockClient.EXPECT().HeaderByNumber(gomock.Any(), nil).Return(&types.Header{BaseFee: big.NewInt(10)}, nil)
}

func (s *BackendTestSuite) Test_Prepare_UnknownContract() {
	s.call.Contract = common.HexToAddress("0x03").Hex()

	_, err := s.backend.Prepare(context.Background(), s.call)

	s.ErrorIs(err, bridge.ErrSerialization)
}

func (s *BackendTestSuite) Test_Prepare_InvalidArgs() {
	s.call.Args = []executor.Arg{executor.Address([]byte{1})}

	_, err := s.backend.Prepare(context.Background(), s.call)

	var convErr *bridge.ConversionFailedError
	s.ErrorAs(err, &convErr)
}

func (s *BackendTestSuite) Test_Prepare_EstimateReverts() {
	s.expectFees()
	s.mockClient.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(0), errors.New("execution reverted: not expired"))

	_, err := s.backend.Prepare(context.Background(), s.call)

	var onChainErr *bridge.OnChainError
	s.ErrorAs(err, &onChainErr)
}

func (s *BackendTestSuite) Test_Prepare_BuildsTransaction() {
	s.expectFees()
	s.mockClient.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
		s.Equal(big.NewInt(22), msg.GasFeeCap)
		s.Equal(initiatorAddress, *msg.To)
		return 50000, nil
	})
	s.mockClient.EXPECT().PendingNonceAt(gomock.Any(), gomock.Any()).Return(uint64(7), nil)

	tx, err := s.backend.Prepare(context.Background(), s.call)

	s.Nil(err)
	s.Len(tx.Digest(), 32)
}

func (s *BackendTestSuite) Test_Prepare_ConsecutiveNonces() {
	s.mockClient.EXPECT().SuggestGasTipCap(gomock.Any()).Return(big.NewInt(2), nil).Times(2)
	s.mockClient.EXPECT().HeaderByNumber(gomock.Any(), nil).Return(&types.Header{BaseFee: big.NewInt(10)}, nil).Times(2)
	s.mockClient.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(50000), nil).Times(2)
	s.mockClient.EXPECT().PendingNonceAt(gomock.Any(), gomock.Any()).Return(uint64(7), nil).Times(2)

	tx1, err := s.backend.Prepare(context.Background(), s.call)
	s.Nil(err)
	tx2, err := s.backend.Prepare(context.Background(), s.call)
	s.Nil(err)

	var sent []*types.Transaction
	s.mockClient.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, tx *types.Transaction) error {
		sent = append(sent, tx)
		return nil
	}).Times(2)
	for _, tx := range []executor.Transaction{tx1, tx2} {
		sig, err := s.signer.Sign(context.Background(), tx.Digest())
		s.Nil(err)
		_, err = s.backend.Submit(context.Background(), tx, sig)
		s.Nil(err)
	}

	s.Equal(uint64(7), sent[0].Nonce())
	s.Equal(uint64(8), sent[1].Nonce())
}

func (s *BackendTestSuite) Test_Submit_SignsTransaction() {
	s.expectFees()
	s.mockClient.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(500000), nil)
	s.mockClient.EXPECT().PendingNonceAt(gomock.Any(), gomock.Any()).Return(uint64(0), nil)
	tx, err := s.backend.Prepare(context.Background(), s.call)
	s.Nil(err)
	sig, _ := s.signer.Sign(context.Background(), tx.Digest())

	var sent *types.Transaction
	s.mockClient.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, tx *types.Transaction) error {
		sent = tx
		return nil
	})
	hash, err := s.backend.Submit(context.Background(), tx, sig)

	s.Nil(err)
	s.Equal(sent.Hash().Hex(), hash)
	s.Equal(uint64(100000), sent.Gas())
	from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(1)), sent)
	s.Nil(err)
	pub, _ := s.signer.PublicKey(context.Background())
	s.Equal(crypto.PubkeyToAddress(*pub), from)
}

func (s *BackendTestSuite) Test_Submit_AlreadyKnown() {
	s.expectFees()
	s.mockClient.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(50000), nil)
	s.mockClient.EXPECT().PendingNonceAt(gomock.Any(), gomock.Any()).Return(uint64(0), nil)
	tx, _ := s.backend.Prepare(context.Background(), s.call)
	sig, _ := s.signer.Sign(context.Background(), tx.Digest())
	s.mockClient.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(errors.New("already known"))

	hash, err := s.backend.Submit(context.Background(), tx, sig)

	s.Nil(err)
	s.NotEmpty(hash)
}

func (s *BackendTestSuite) Test_Receipt_Pending() {
	s.mockClient.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(nil, ethereum.NotFound)

	receipt, err := s.backend.Receipt(context.Background(), "0x01")

	s.Nil(err)
	s.Nil(receipt)
}

func (s *BackendTestSuite) Test_Receipt_Reverted() {
	s.mockClient.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(&types.Receipt{
		Status:      types.ReceiptStatusFailed,
		BlockNumber: big.NewInt(12),
	}, nil)

	receipt, err := s.backend.Receipt(context.Background(), "0x01")

	s.Nil(err)
	s.True(receipt.Failed)
	s.Equal(uint64(12), receipt.Height)
}

func (s *BackendTestSuite) Test_Receipt_Success() {
	raw := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(12),
	}
	s.mockClient.EXPECT().TransactionReceipt(gomock.Any(), gomock.Any()).Return(raw, nil)

	receipt, err := s.backend.Receipt(context.Background(), "0x01")

	s.Nil(err)
	s.False(receipt.Failed)
	s.Equal(raw, receipt.Raw)
}

func (s *BackendTestSuite) Test_Known_Dropped() {
	s.mockClient.EXPECT().TransactionByHash(gomock.Any(), common.HexToHash("0x01")).Return(nil, false, ethereum.NotFound)

	known, err := s.backend.Known(context.Background(), "0x01")

	s.Nil(err)
	s.False(known)
}

func (s *BackendTestSuite) Test_Known_Pending() {
	s.mockClient.EXPECT().TransactionByHash(gomock.Any(), common.HexToHash("0x01")).Return(&types.Transaction{}, true, nil)

	known, err := s.backend.Known(context.Background(), "0x01")

	s.Nil(err)
	s.True(known)
}
