// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/imdario/mergo"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	RelayerConfig RelayerConfig
	ChainConfigs  []map[string]interface{}
}

type RawConfig struct {
	RelayerConfig RawRelayerConfig         `mapstructure:"relayer" json:"relayer"`
	ChainConfigs  []map[string]interface{} `mapstructure:"chains" json:"chains"`
}

// GetConfigFromENV reads the relayer config from ABR_RELAYER_* variables and
// the chain configs from the JSON array in ABR_CHAINS. Values already present
// in config are kept where the environment does not override them.
func GetConfigFromENV(config *Config) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	rawConfig := RawConfig{}
	keys := []string{
		"id", "env", "logLevel", "openTelemetryCollectorURL", "healthPort", "apiAddr",
		"databaseURL", "autoRefund", "reconcileInterval", "maxParallel", "pollInterval",
		"confirmationTimeout", "maxRetries",
	}
	relayer := make(map[string]interface{})
	for _, k := range keys {
		if value := v.Get("relayer." + strings.ToLower(k)); value != nil {
			relayer[k] = value
		}
	}
	if routes := v.GetString("routes"); routes != "" {
		var r []map[string]interface{}
		if err := json.Unmarshal([]byte(routes), &r); err != nil {
			return nil, fmt.Errorf("unable to parse routes: %w", err)
		}
		relayer["routes"] = r
	}
	if network := v.GetString("network"); network != "" {
		var n map[string]interface{}
		if err := json.Unmarshal([]byte(network), &n); err != nil {
			return nil, fmt.Errorf("unable to parse network: %w", err)
		}
		relayer["network"] = n
	}
	if err := mapstructure.WeakDecode(relayer, &rawConfig.RelayerConfig); err != nil {
		return nil, err
	}

	if chains := v.GetString("chains"); chains != "" {
		if err := json.Unmarshal([]byte(chains), &rawConfig.ChainConfigs); err != nil {
			return nil, fmt.Errorf("unable to parse chains: %w", err)
		}
	}

	return processRawConfig(rawConfig, config)
}

// GetConfigFromFile reads a JSON configuration file.
func GetConfigFromFile(path string, config *Config) (*Config, error) {
	rawConfig := RawConfig{}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&rawConfig)
	if err != nil {
		return nil, err
	}

	return processRawConfig(rawConfig, config)
}

func processRawConfig(rawConfig RawConfig, config *Config) (*Config, error) {
	if config == nil {
		config = &Config{}
	}

	if err := defaults.Set(&rawConfig.RelayerConfig); err != nil {
		return nil, err
	}

	relayerConfig, err := NewRelayerConfig(rawConfig.RelayerConfig)
	if err != nil {
		return nil, err
	}

	chainConfigs := make([]map[string]interface{}, 0, len(rawConfig.ChainConfigs))
	for i, chain := range rawConfig.ChainConfigs {
		if chain["type"] == "" || chain["type"] == nil {
			return nil, fmt.Errorf("chain 'type' must be provided for every configured chain")
		}
		if i < len(config.ChainConfigs) {
			err := mergo.Merge(&chain, config.ChainConfigs[i])
			if err != nil {
				return nil, err
			}
		}
		chainConfigs = append(chainConfigs, chain)
	}

	config.RelayerConfig = relayerConfig
	config.ChainConfigs = chainConfigs
	return config, nil
}
