// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package evm

import (
	"fmt"
	"math/big"
	"time"

	"github.com/creasty/defaults"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mitchellh/mapstructure"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/config/chain"
)

type EVMConfig struct {
	GeneralChainConfig chain.GeneralChainConfig

	Initiator    common.Address
	Counterparty common.Address
	Asset        bridge.AssetType
	GasLimit     uint64

	BlockInterval      *big.Int
	BlockRetryInterval time.Duration
	// BatchSize is the most blocks indexed in one poll.
	BatchSize uint64
}

type RawEVMConfig struct {
	chain.GeneralChainConfig `mapstructure:",squash"`
	Initiator                string `mapstructure:"initiator"`
	Counterparty             string `mapstructure:"counterparty"`
	GasLimit                 uint64 `mapstructure:"gasLimit" default:"500000"`

	BlockInterval      int64  `mapstructure:"blockInterval" default:"5"`
	BlockRetryInterval uint64 `mapstructure:"blockRetryInterval" default:"5"`
	BatchSize          uint64 `mapstructure:"batchSize" default:"2000"`
}

func (c *RawEVMConfig) Validate() error {
	if err := c.GeneralChainConfig.Validate(); err != nil {
		return err
	}
	if c.Initiator == "" && c.Counterparty == "" {
		return fmt.Errorf("chain %s has neither an initiator nor a counterparty contract", c.Name)
	}
	if c.Initiator != "" && !common.IsHexAddress(c.Initiator) {
		return fmt.Errorf("invalid initiator address %s", c.Initiator)
	}
	if c.Counterparty != "" && !common.IsHexAddress(c.Counterparty) {
		return fmt.Errorf("invalid counterparty address %s", c.Counterparty)
	}
	return nil
}

// NewEVMConfig decodes and validates an instance of an EVMConfig from
// raw chain config
func NewEVMConfig(chainConfig map[string]interface{}) (*EVMConfig, error) {
	var c RawEVMConfig
	err := mapstructure.Decode(chainConfig, &c)
	if err != nil {
		return nil, err
	}

	err = defaults.Set(&c)
	if err != nil {
		return nil, err
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	asset, err := bridge.ParseAssetType(c.Asset)
	if err != nil {
		return nil, err
	}
	if asset != bridge.AssetEth && asset != bridge.AssetWeth {
		return nil, fmt.Errorf("asset %s is not bridged on evm chains", asset)
	}

	c.ParseFlags()
	config := &EVMConfig{
		GeneralChainConfig: c.GeneralChainConfig,
		Initiator:          common.HexToAddress(c.Initiator),
		Counterparty:       common.HexToAddress(c.Counterparty),
		Asset:              asset,
		GasLimit:           c.GasLimit,

		// nolint:gosec
		BlockRetryInterval: time.Duration(c.BlockRetryInterval) * time.Second,
		BlockInterval:      big.NewInt(c.BlockInterval),
		BatchSize:          c.BatchSize,
	}

	return config, nil
}
