// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type RouteConfig struct {
	Initiator    string `mapstructure:"initiator" json:"initiator"`
	Counterparty string `mapstructure:"counterparty" json:"counterparty"`
}

// NetworkConfig points at a network descriptor published to an S3 bucket.
// Endpoints and contract addresses missing from chain configs are filled
// from it.
type NetworkConfig struct {
	Bucket   string `mapstructure:"bucket" json:"bucket"`
	Key      string `mapstructure:"key" json:"key" default:"network.json"`
	Region   string `mapstructure:"region" json:"region" default:"us-east-1"`
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	Hash     string `mapstructure:"hash" json:"hash"`
}

type RelayerConfig struct {
	Id                        string
	Env                       string
	LogLevel                  zerolog.Level
	OpenTelemetryCollectorURL string
	HealthPort                uint16
	ApiAddr                   string
	DatabaseURL               string
	Network                   NetworkConfig

	Routes            []RouteConfig
	AutoRefund        bool
	ReconcileInterval time.Duration
	MaxParallel       int

	PollInterval        time.Duration
	ConfirmationTimeout time.Duration
	MaxRetries          uint64
}

type RawRelayerConfig struct {
	Id                        string        `mapstructure:"id" json:"id"`
	Env                       string        `mapstructure:"env" json:"env" default:"local"`
	LogLevel                  string        `mapstructure:"logLevel" json:"logLevel" default:"info"`
	OpenTelemetryCollectorURL string        `mapstructure:"openTelemetryCollectorURL" json:"openTelemetryCollectorURL"`
	HealthPort                uint16        `mapstructure:"healthPort" json:"healthPort" default:"9001"`
	ApiAddr                   string        `mapstructure:"apiAddr" json:"apiAddr" default:":3000"`
	DatabaseURL               string        `mapstructure:"databaseURL" json:"databaseURL"`
	Network                   NetworkConfig `mapstructure:"network" json:"network"`
	Routes                    []RouteConfig `mapstructure:"routes" json:"routes"`
	AutoRefund                bool          `mapstructure:"autoRefund" json:"autoRefund"`
	ReconcileInterval         uint64        `mapstructure:"reconcileInterval" json:"reconcileInterval" default:"15"`
	MaxParallel               int           `mapstructure:"maxParallel" json:"maxParallel" default:"8"`
	PollInterval              uint64        `mapstructure:"pollInterval" json:"pollInterval" default:"3"`
	ConfirmationTimeout       uint64        `mapstructure:"confirmationTimeout" json:"confirmationTimeout" default:"300"`
	MaxRetries                uint64        `mapstructure:"maxRetries" json:"maxRetries" default:"5"`
}

func (c *RawRelayerConfig) Validate() error {
	for _, r := range c.Routes {
		if r.Initiator == "" || r.Counterparty == "" {
			return fmt.Errorf("route %+v needs both an initiator and a counterparty chain", r)
		}
		if r.Initiator == r.Counterparty {
			return fmt.Errorf("route %s cannot bridge to itself", r.Initiator)
		}
	}
	if c.MaxParallel <= 0 {
		return fmt.Errorf("maxParallel must be positive")
	}
	return nil
}

func NewRelayerConfig(rawConfig RawRelayerConfig) (RelayerConfig, error) {
	config := RelayerConfig{}
	err := rawConfig.Validate()
	if err != nil {
		return config, err
	}

	logLevel, err := zerolog.ParseLevel(rawConfig.LogLevel)
	if err != nil {
		return config, fmt.Errorf("unable to parse log level: %w", err)
	}

	config.Id = rawConfig.Id
	config.Env = rawConfig.Env
	config.LogLevel = logLevel
	config.OpenTelemetryCollectorURL = rawConfig.OpenTelemetryCollectorURL
	config.HealthPort = rawConfig.HealthPort
	config.ApiAddr = rawConfig.ApiAddr
	config.DatabaseURL = rawConfig.DatabaseURL
	config.Network = rawConfig.Network
	config.Routes = rawConfig.Routes
	config.AutoRefund = rawConfig.AutoRefund
	config.MaxParallel = rawConfig.MaxParallel
	config.MaxRetries = rawConfig.MaxRetries
	// nolint:gosec
	config.ReconcileInterval = time.Duration(rawConfig.ReconcileInterval) * time.Second
	// nolint:gosec
	config.PollInterval = time.Duration(rawConfig.PollInterval) * time.Second
	// nolint:gosec
	config.ConfirmationTimeout = time.Duration(rawConfig.ConfirmationTimeout) * time.Second
	return config, nil
}
