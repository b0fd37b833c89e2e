// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package movement

import (
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/mitchellh/mapstructure"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/config/chain"
)

type MovementConfig struct {
	GeneralChainConfig chain.GeneralChainConfig

	// Initiator and Counterparty are the addresses the bridge modules are
	// published at.
	Initiator    *AccountAddress
	Counterparty *AccountAddress
	// Account overrides the sender address derived from the signer key.
	Account      *AccountAddress
	Asset        bridge.AssetType
	MaxGasAmount uint64
	GasUnitPrice uint64
	Expiration   time.Duration

	EventPageSize      int
	BlockRetryInterval time.Duration
}

type RawMovementConfig struct {
	chain.GeneralChainConfig `mapstructure:",squash"`
	Initiator                string `mapstructure:"initiator"`
	Counterparty             string `mapstructure:"counterparty"`
	Account                  string `mapstructure:"account"`
	MaxGasAmount             uint64 `mapstructure:"maxGasAmount" default:"100000"`
	GasUnitPrice             uint64 `mapstructure:"gasUnitPrice" default:"100"`
	Expiration               uint64 `mapstructure:"expiration" default:"60"`

	EventPageSize      int    `mapstructure:"eventPageSize" default:"100"`
	BlockRetryInterval uint64 `mapstructure:"blockRetryInterval" default:"2"`
}

func (c *RawMovementConfig) Validate() error {
	if err := c.GeneralChainConfig.Validate(); err != nil {
		return err
	}
	if c.Initiator == "" && c.Counterparty == "" {
		return fmt.Errorf("chain %s has neither an initiator nor a counterparty module", c.Name)
	}
	if *c.Id > 255 {
		return fmt.Errorf("chain id %d does not fit u8", *c.Id)
	}
	if c.EventPageSize <= 0 {
		return fmt.Errorf("eventPageSize must be positive")
	}
	return nil
}

// NewMovementConfig decodes and validates an instance of a MovementConfig
// from raw chain config
func NewMovementConfig(chainConfig map[string]interface{}) (*MovementConfig, error) {
	var c RawMovementConfig
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
	if asset != bridge.AssetMovETH {
		return nil, fmt.Errorf("asset %s is not bridged on movement chains", asset)
	}

	initiator, err := optionalAddress(c.Initiator)
	if err != nil {
		return nil, err
	}
	counterparty, err := optionalAddress(c.Counterparty)
	if err != nil {
		return nil, err
	}
	account, err := optionalAddress(c.Account)
	if err != nil {
		return nil, err
	}

	c.ParseFlags()
	return &MovementConfig{
		GeneralChainConfig: c.GeneralChainConfig,
		Initiator:          initiator,
		Counterparty:       counterparty,
		Account:            account,
		Asset:              asset,
		MaxGasAmount:       c.MaxGasAmount,
		GasUnitPrice:       c.GasUnitPrice,
		// nolint:gosec
		Expiration:    time.Duration(c.Expiration) * time.Second,
		EventPageSize: c.EventPageSize,
		// nolint:gosec
		BlockRetryInterval: time.Duration(c.BlockRetryInterval) * time.Second,
	}, nil
}

func optionalAddress(s string) (*AccountAddress, error) {
	if s == "" {
		return nil, nil
	}
	address, err := ParseAccountAddress(s)
	if err != nil {
		return nil, err
	}
	return &address, nil
}
