// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package listener_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/suite"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/chains/evm/listener"
)

type rangeListener struct {
	ranges [][2]uint64
	err    error
}

func (l *rangeListener) FetchBridgeEvents(ctx context.Context, startBlock *big.Int, endBlock *big.Int) ([]*bridge.Event, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.ranges = append(l.ranges, [2]uint64{startBlock.Uint64(), endBlock.Uint64()})
	return []*bridge.Event{{Height: startBlock.Uint64()}}, nil
}

type headClient struct {
	head uint64
}

func (c *headClient) BlockNumber(ctx context.Context) (uint64, error) {
	return c.head, nil
}

type BridgeEventSourceTestSuite struct {
	suite.Suite

	eventListener *rangeListener
	source        *listener.BridgeEventSource
}

func TestRunBridgeEventSourceTestSuite(t *testing.T) {
	suite.Run(t, new(BridgeEventSourceTestSuite))
}

func (s *BridgeEventSourceTestSuite) SetupTest() {
	s.eventListener = &rangeListener{}
	s.source = listener.NewBridgeEventSource(log.With(), "evm1", &headClient{head: 42}, s.eventListener, big.NewInt(5))
}

func (s *BridgeEventSourceTestSuite) Test_FetchEvents_SplitsIntoIntervals() {
	events, err := s.source.FetchEvents(context.Background(), 10, 21)

	s.Nil(err)
	s.Len(events, 3)
	s.Equal([][2]uint64{{10, 14}, {15, 19}, {20, 21}}, s.eventListener.ranges)
}

func (s *BridgeEventSourceTestSuite) Test_FetchEvents_SingleBlock() {
	events, err := s.source.FetchEvents(context.Background(), 10, 10)

	s.Nil(err)
	s.Len(events, 1)
}

func (s *BridgeEventSourceTestSuite) Test_FetchEvents_Error() {
	s.eventListener.err = errors.New("rpc down")

	_, err := s.source.FetchEvents(context.Background(), 10, 21)

	s.NotNil(err)
}

func (s *BridgeEventSourceTestSuite) Test_LatestHeight() {
	head, err := s.source.LatestHeight(context.Background())

	s.Nil(err)
	s.Equal(uint64(42), head)
	s.Equal("evm1", s.source.Name())
}
