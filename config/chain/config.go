// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package chain

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/sprintertech/atomic-bridge/config"
)

const (
	SignerLocal = "local"
	SignerKMS   = "kms"
)

type SignerConfig struct {
	Type string `mapstructure:"type" default:"local"`
	// Key is the hex encoded secp256k1 key of a local signer.
	Key       string `mapstructure:"key"`
	KmsKeyID  string `mapstructure:"kmsKeyId"`
	KmsRegion string `mapstructure:"kmsRegion"`
	// RateLimit is the number of remote sign requests per second.
	RateLimit float64 `mapstructure:"rateLimit" default:"10"`
}

func (c *SignerConfig) Validate() error {
	switch c.Type {
	case SignerLocal:
		if c.Key == "" {
			return fmt.Errorf("required field signer.key empty for local signer")
		}
	case SignerKMS:
		if c.KmsKeyID == "" {
			return fmt.Errorf("required field signer.kmsKeyId empty for kms signer")
		}
	default:
		return fmt.Errorf("unknown signer type %s", c.Type)
	}
	return nil
}

type GeneralChainConfig struct {
	Name               string       `mapstructure:"name"`
	Id                 *uint64      `mapstructure:"id"`
	Endpoint           string       `mapstructure:"endpoint"`
	Type               string       `mapstructure:"type"`
	Asset              string       `mapstructure:"asset"`
	Blocktime          uint64       `mapstructure:"blocktime" default:"12"`
	BlockConfirmations uint64       `mapstructure:"blockConfirmations" default:"5"`
	StartBlock         uint64       `mapstructure:"startBlock"`
	Signer             SignerConfig `mapstructure:"signer"`
	Insecure           bool
}

func (c *GeneralChainConfig) Validate() error {
	// viper defaults to 0 for not specified ints
	if c.Id == nil {
		return fmt.Errorf("required field domain.Id empty for chain %v", c.Id)
	}
	if c.Endpoint == "" {
		return fmt.Errorf("required field chain.Endpoint empty for chain %v", *c.Id)
	}
	if c.Name == "" {
		return fmt.Errorf("required field chain.Name empty for chain %v", *c.Id)
	}
	if c.Asset == "" {
		return fmt.Errorf("required field chain.Asset empty for chain %v", *c.Id)
	}
	return c.Signer.Validate()
}

// ParseFlags overrides the signer key with the --key flag when one is set.
func (c *GeneralChainConfig) ParseFlags() {
	key := viper.GetString(config.KeyFlagName)
	if key != "" && c.Signer.Type == SignerLocal {
		c.Signer.Key = key
	}
}
