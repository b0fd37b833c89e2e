// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package transfer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/cli/transfer"
)

type TransferHelpersTestSuite struct {
	suite.Suite
}

func TestRunTransferHelpersTestSuite(t *testing.T) {
	suite.Run(t, new(TransferHelpersTestSuite))
}

func (s *TransferHelpersTestSuite) Test_ParseRole() {
	r, err := transfer.ParseRole("Counterparty")
	s.Nil(err)
	s.Equal(transfer.RoleCounterparty, r)

	_, err = transfer.ParseRole("relayer")
	s.NotNil(err)
}

func (s *TransferHelpersTestSuite) Test_ParsePreImage_InvalidHex() {
	_, err := transfer.ParsePreImage("0xzz")

	var convErr *bridge.ConversionFailedError
	s.True(errors.As(err, &convErr))
	s.Equal("pre_image", convErr.Field)
}

func (s *TransferHelpersTestSuite) Test_ParsePreImage_Empty() {
	_, err := transfer.ParsePreImage("0x")

	s.NotNil(err)
}

func (s *TransferHelpersTestSuite) Test_PreImageOrRandom_Provided() {
	p, err := transfer.PreImageOrRandom("0x736563726574")

	s.Nil(err)
	s.Equal(bridge.PreImage("secret"), p)
}

func (s *TransferHelpersTestSuite) Test_PreImageOrRandom_Generated() {
	p1, err := transfer.PreImageOrRandom("")
	s.Nil(err)
	p2, err := transfer.PreImageOrRandom("")
	s.Nil(err)

	s.Len(p1, 32)
	s.NotEqual(p1, p2)
}

func (s *TransferHelpersTestSuite) Test_FormatDetails() {
	id := bridge.TransferID{1}
	d := &bridge.TransferDetails{
		Originator: bridge.Address{0xaa},
		Recipient:  bridge.Address{0xbb},
		Amount:     bridge.NewAmount(bridge.AssetEth, 10),
		HashLock:   bridge.NewHashLock(bridge.PreImage("secret")),
		TimeLock:   100,
		State:      bridge.StateInitialized,
	}

	out := transfer.FormatDetails(id, d)

	s.Contains(out, "Transfer ID: "+id.String())
	s.Contains(out, "Amount: 10 eth")
	s.Contains(out, "TimeLock: 100")
}
