// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package movement_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/chains/movement"
	"github.com/sprintertech/atomic-bridge/signer"
)

const initiatorEvents = "0x1::atomic_bridge_initiator::BridgeInitiatorEvents"

type NodeClientTestSuite struct {
	suite.Suite

	mux     *http.ServeMux
	server  *httptest.Server
	client  *movement.NodeClient
	address movement.AccountAddress
}

func TestRunNodeClientTestSuite(t *testing.T) {
	suite.Run(t, new(NodeClientTestSuite))
}

func (s *NodeClientTestSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)
	client, err := movement.NewNodeClient(s.server.URL+"/", 27, s.server.Client())
	s.Nil(err)
	s.client = client
	s.address = movement.AccountAddress{31: 1}
}

func (s *NodeClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *NodeClientTestSuite) Test_LedgerInfo() {
	s.mux.HandleFunc("/v1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chain_id":27,"epoch":"3","ledger_version":"1234","oldest_ledger_version":"0","ledger_timestamp":"1700000000123456","node_role":"full_node","oldest_block_height":"0","block_height":"99","git_hash":"abc"}`))
	})

	info, err := s.client.LedgerInfo(context.Background())

	s.Nil(err)
	s.Equal(uint8(27), info.ChainID)
	s.Equal(uint64(1234), info.LedgerVersion)
	s.Equal(uint64(1700000000123456), info.LedgerTimestamp)
	s.Equal(uint64(99), info.BlockHeight)
}

func (s *NodeClientTestSuite) Test_SequenceNumber() {
	s.mux.HandleFunc("/v1/accounts/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sequence_number":"7","authentication_key":"0x0000000000000000000000000000000000000000000000000000000000000001"}`))
	})

	sequence, err := s.client.SequenceNumber(context.Background(), s.address)

	s.Nil(err)
	s.Equal(uint64(7), sequence)
}

func (s *NodeClientTestSuite) Test_View_ReturnsValues() {
	s.mux.HandleFunc("/v1/view", func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`["0x01","0x02","100","0x03","2000",1]`))
	})

	values, err := s.client.View(context.Background(), &aptos.ViewPayload{
		Module:   aptos.ModuleId{Address: aptos.AccountAddress(s.address), Name: "atomic_bridge_initiator"},
		Function: "bridge_transfers",
		ArgTypes: []aptos.TypeTag{},
		Args:     [][]byte{{1, 9}},
	})

	s.Nil(err)
	s.Len(values, 6)
	s.Equal("100", values[2])
	s.Equal(float64(1), values[5])
}

func (s *NodeClientTestSuite) Test_View_Aborted() {
	s.mux.HandleFunc("/v1/view", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Move abort in 0x1::smart_table: ENOT_FOUND(0x60001): ","error_code":"invalid_input","vm_error_code":4016}`))
	})

	_, err := s.client.View(context.Background(), &aptos.ViewPayload{
		Module:   aptos.ModuleId{Address: aptos.AccountAddress(s.address), Name: "atomic_bridge_initiator"},
		Function: "bridge_transfers",
		ArgTypes: []aptos.TypeTag{},
		Args:     [][]byte{},
	})

	s.ErrorIs(err, bridge.ErrCall)
	var apiErr *movement.APIError
	s.ErrorAs(err, &apiErr)
	s.Equal(http.StatusBadRequest, apiErr.Status)
	s.Equal(4016, *apiErr.VMErrorCode)
	code, ok := apiErr.AbortCode()
	s.True(ok)
	s.Equal(uint64(movement.NOT_FOUND_ABORT), code)
}

func (s *NodeClientTestSuite) Test_SubmitTransaction_Rejected() {
	s.mux.HandleFunc("/v1/transactions", func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`not json`))
	})
	key, _ := crypto.GenerateKey()
	raw := (&movement.EntryFunctionTransaction{
		Sender:       s.address,
		Module:       s.address,
		ModuleName:   "m",
		Function:     "f",
		Args:         [][]byte{},
		MaxGasAmount: 100000,
		GasUnitPrice: 100,
		Expiration:   60,
		ChainID:      27,
	}).Raw()
	digest, _ := movement.SigningDigest(raw)
	sig, _ := signer.NewLocalSigner(key).Sign(context.Background(), digest)
	signed, err := movement.SignTransaction(raw, &key.PublicKey, sig)
	s.Nil(err)

	_, err = s.client.SubmitTransaction(context.Background(), signed)

	var apiErr *movement.APIError
	s.ErrorAs(err, &apiErr)
	s.Equal("not json", apiErr.Message)
}

func (s *NodeClientTestSuite) Test_TransactionByHash_Pending() {
	s.mux.HandleFunc("/v1/transactions/by_hash/0xabc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"pending_transaction","hash":"0xabc","sender":"0x1","sequence_number":"0","max_gas_amount":"100000","gas_unit_price":"100","expiration_timestamp_secs":"60","payload":{"type":"entry_function_payload","function":"0x1::m::f","type_arguments":[],"arguments":[]}}`))
	})

	tx, err := s.client.TransactionByHash(context.Background(), "0xabc")

	s.Nil(err)
	s.Equal(movement.PendingTransaction, tx.Type)
	s.Equal("0xabc", tx.Hash)
}

func (s *NodeClientTestSuite) Test_TransactionByHash_NotFound() {
	s.mux.HandleFunc("/v1/transactions/by_hash/0xabc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found","error_code":"transaction_not_found"}`))
	})

	tx, err := s.client.TransactionByHash(context.Background(), "0xabc")

	s.Nil(err)
	s.Nil(tx)
}

func (s *NodeClientTestSuite) Test_EventsByHandle() {
	s.mux.HandleFunc("/v1/accounts/"+s.address.Hex()+"/events/"+initiatorEvents+"/bridge_transfer_initiated_events", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("5", r.URL.Query().Get("start"))
		s.Equal("25", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"version":"3","sequence_number":"5","type":"0x1::atomic_bridge_initiator::BridgeTransferInitiatedEvent","data":{"bridge_transfer_id":"0x09"}}]`))
	})

	events, err := s.client.EventsByHandle(context.Background(), s.address, initiatorEvents, "bridge_transfer_initiated_events", 5, 25)

	s.Nil(err)
	s.Len(events, 1)
	s.Equal(movement.U64(3), events[0].Version)
	s.Equal(movement.U64(5), events[0].SequenceNumber)
	s.JSONEq(`{"bridge_transfer_id":"0x09"}`, string(events[0].Data))
}

func (s *NodeClientTestSuite) Test_EventsByHandle_MissingResource() {
	events, err := s.client.EventsByHandle(context.Background(), s.address, "0x1::m::R", "field", 0, 25)

	s.Nil(err)
	s.Empty(events)
}

func (s *NodeClientTestSuite) Test_EventCount() {
	s.mux.HandleFunc("/v1/accounts/"+s.address.Hex()+"/resource/"+initiatorEvents, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"` + initiatorEvents + `","data":{"bridge_transfer_initiated_events":{"counter":"4","guid":{"id":{"addr":"0x1","creation_num":"2"}}}}}`))
	})

	count, err := s.client.EventCount(context.Background(), s.address, initiatorEvents, "bridge_transfer_initiated_events")

	s.Nil(err)
	s.Equal(uint64(4), count)
}

func (s *NodeClientTestSuite) Test_EventCount_MissingResource() {
	count, err := s.client.EventCount(context.Background(), s.address, initiatorEvents, "bridge_transfer_initiated_events")

	s.Nil(err)
	s.Equal(uint64(0), count)
}

func (s *NodeClientTestSuite) Test_Unreachable() {
	s.server.Close()

	_, err := s.client.LedgerInfo(context.Background())

	s.ErrorIs(err, bridge.ErrCall)
}
