// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge_test

import (
	"math"
	"testing"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/stretchr/testify/suite"
)

type AmountTestSuite struct {
	suite.Suite
}

func TestRunAmountTestSuite(t *testing.T) {
	suite.Run(t, new(AmountTestSuite))
}

func (s *AmountTestSuite) Test_MixedAssetsRejected() {
	_, err := bridge.NewAmount(bridge.AssetWeth, 1).Add(bridge.NewAmount(bridge.AssetMovETH, 1))

	var convErr *bridge.ConversionFailedError
	s.ErrorAs(err, &convErr)
	s.Equal("asset", convErr.Field)

	_, err = bridge.NewAmount(bridge.AssetEth, 1).Cmp(bridge.NewAmount(bridge.AssetWeth, 1))
	s.NotNil(err)
}

func (s *AmountTestSuite) Test_Arithmetic() {
	sum, err := bridge.NewAmount(bridge.AssetWeth, 1).Add(bridge.NewAmount(bridge.AssetWeth, 2))
	s.Nil(err)
	s.Equal(bridge.NewAmount(bridge.AssetWeth, 3), sum)

	diff, err := sum.Sub(bridge.NewAmount(bridge.AssetWeth, 3))
	s.Nil(err)
	s.Equal(uint64(0), diff.Value)

	_, err = diff.Sub(bridge.NewAmount(bridge.AssetWeth, 1))
	s.NotNil(err)

	_, err = bridge.NewAmount(bridge.AssetWeth, math.MaxUint64).Add(bridge.NewAmount(bridge.AssetWeth, 1))
	s.NotNil(err)
}

func (s *AmountTestSuite) Test_AssetPairConvert() {
	pair := bridge.AssetPair{Source: bridge.AssetWeth, Destination: bridge.AssetMovETH}

	converted, err := pair.Convert(bridge.NewAmount(bridge.AssetWeth, 42))
	s.Nil(err)
	s.Equal(bridge.NewAmount(bridge.AssetMovETH, 42), converted)

	_, err = pair.Convert(bridge.NewAmount(bridge.AssetEth, 42))
	s.NotNil(err)
}

func (s *AmountTestSuite) Test_ParseAssetType() {
	asset, err := bridge.ParseAssetType("MovETH")
	s.Nil(err)
	s.Equal(bridge.AssetMovETH, asset)

	_, err = bridge.ParseAssetType("btc")
	s.NotNil(err)
}
