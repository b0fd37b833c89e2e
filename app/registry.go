// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package app

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/sprintertech/atomic-bridge/bridge"
	"github.com/sprintertech/atomic-bridge/cache"
	"github.com/sprintertech/atomic-bridge/chains/evm"
	"github.com/sprintertech/atomic-bridge/chains/evm/calls/consts"
	"github.com/sprintertech/atomic-bridge/chains/evm/calls/contracts"
	"github.com/sprintertech/atomic-bridge/chains/evm/calls/events"
	"github.com/sprintertech/atomic-bridge/chains/evm/listener"
	"github.com/sprintertech/atomic-bridge/chains/movement"
	"github.com/sprintertech/atomic-bridge/config"
	"github.com/sprintertech/atomic-bridge/config/chain"
	"github.com/sprintertech/atomic-bridge/executor"
	"github.com/sprintertech/atomic-bridge/indexer"
	"github.com/sprintertech/atomic-bridge/reconciler"
	"github.com/sprintertech/atomic-bridge/signer"
	"github.com/sprintertech/atomic-bridge/signer/kms"
)

// Registry owns the chain adapters built from configuration and the
// resources they share. Adapters only hold handles to those resources;
// Close releases them once no adapter is in use.
type Registry struct {
	Chains  map[string]bridge.Chain
	Assets  map[string]bridge.AssetType
	Sources []indexer.ChainConfig

	clients []*ethclient.Client
}

func NewRegistry(ctx context.Context, configuration *config.Config, metrics executor.Metrics) (*Registry, error) {
	r := &Registry{
		Chains:  make(map[string]bridge.Chain),
		Assets:  make(map[string]bridge.AssetType),
		Sources: make([]indexer.ChainConfig, 0),
		clients: make([]*ethclient.Client, 0),
	}

	submissions := cache.NewSubmissionCache(ctx, cache.SUBMISSION_TTL)
	relayerConfig := configuration.RelayerConfig
	for _, chainConfig := range configuration.ChainConfigs {
		var err error
		switch chainConfig["type"] {
		case "evm":
			err = r.registerEVM(ctx, chainConfig, relayerConfig, submissions, metrics)
		case "movement":
			err = r.registerMovement(ctx, chainConfig, relayerConfig, submissions, metrics)
		default:
			err = fmt.Errorf("type '%s' not recognized", chainConfig["type"])
		}
		if err != nil {
			r.Close()
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Chain(name string) (bridge.Chain, error) {
	c, ok := r.Chains[name]
	if !ok {
		return nil, fmt.Errorf("chain %s not configured", name)
	}
	return c, nil
}

// Routes resolves configured routes to chain pairs.
func (r *Registry) Routes(routes []config.RouteConfig) ([]reconciler.Route, error) {
	resolved := make([]reconciler.Route, 0, len(routes))
	for _, route := range routes {
		initiator, err := r.Chain(route.Initiator)
		if err != nil {
			return nil, err
		}
		counterparty, err := r.Chain(route.Counterparty)
		if err != nil {
			return nil, err
		}

		resolved = append(resolved, reconciler.Route{
			Initiator:    initiator,
			Counterparty: counterparty,
			Assets: bridge.AssetPair{
				Source:      r.Assets[route.Initiator],
				Destination: r.Assets[route.Counterparty],
			},
		})
	}
	return resolved, nil
}

func (r *Registry) Close() {
	for _, client := range r.clients {
		client.Close()
	}
	r.clients = nil
}

func (r *Registry) register(name string, c bridge.Chain, asset bridge.AssetType, source indexer.ChainConfig) error {
	if _, ok := r.Chains[name]; ok {
		return fmt.Errorf("duplicate chain name %s", name)
	}
	r.Chains[name] = c
	r.Assets[name] = asset
	r.Sources = append(r.Sources, source)
	return nil
}

func (r *Registry) registerEVM(
	ctx context.Context,
	chainConfig map[string]interface{},
	relayerConfig config.RelayerConfig,
	submissions *cache.SubmissionCache,
	metrics executor.Metrics,
) error {
	cfg, err := evm.NewEVMConfig(chainConfig)
	if err != nil {
		return err
	}
	name := cfg.GeneralChainConfig.Name

	client, err := evm.NewChainClient(ctx, cfg.GeneralChainConfig.Endpoint)
	if err != nil {
		return err
	}
	r.clients = append(r.clients, client)

	s, err := newSigner(ctx, cfg.GeneralChainConfig.Signer)
	if err != nil {
		return err
	}

	log.Info().Str("chain", name).Uint64("chainID", *cfg.GeneralChainConfig.Id).Msgf("Registering EVM chain")

	abis := make(map[common.Address]abi.ABI)
	var initiator *contracts.InitiatorContract
	if cfg.Initiator != (common.Address{}) {
		initiator = contracts.NewInitiatorContract(client, cfg.Initiator, cfg.Asset)
		abis[cfg.Initiator] = consts.AtomicBridgeInitiatorABI
	}
	var counterparty *contracts.CounterpartyContract
	if cfg.Counterparty != (common.Address{}) {
		counterparty = contracts.NewCounterpartyContract(client, cfg.Counterparty, cfg.Asset)
		abis[cfg.Counterparty] = consts.AtomicBridgeCounterpartyABI
	}

	chainID := new(big.Int).SetUint64(*cfg.GeneralChainConfig.Id)
	backend := evm.NewBackend(client, s, chainID, abis, cfg.GasLimit)
	exec := executor.NewExecutor(name, backend, s, submissions, metrics, executorConfig(relayerConfig, cfg.GeneralChainConfig))

	l := log.With().Str("chain", name).Uint64("chainID", *cfg.GeneralChainConfig.Id)
	source := listener.NewBridgeEventSource(
		l,
		name,
		client,
		events.NewListener(client, name, cfg.Initiator, cfg.Counterparty, cfg.Asset),
		cfg.BlockInterval,
	)

	return r.register(
		name,
		evm.NewEVMChain(name, client, s, exec, initiator, counterparty, cfg.Asset),
		cfg.Asset,
		indexer.ChainConfig{
			Source:             source,
			Confirmations:      cfg.GeneralChainConfig.BlockConfirmations,
			StartHeight:        cfg.GeneralChainConfig.StartBlock,
			BatchSize:          cfg.BatchSize,
			BlockRetryInterval: cfg.BlockRetryInterval,
		},
	)
}

func (r *Registry) registerMovement(
	ctx context.Context,
	chainConfig map[string]interface{},
	relayerConfig config.RelayerConfig,
	submissions *cache.SubmissionCache,
	metrics executor.Metrics,
) error {
	cfg, err := movement.NewMovementConfig(chainConfig)
	if err != nil {
		return err
	}
	name := cfg.GeneralChainConfig.Name

	s, err := newSigner(ctx, cfg.GeneralChainConfig.Signer)
	if err != nil {
		return err
	}
	sender := cfg.Account
	if sender == nil {
		pub, err := s.PublicKey(ctx)
		if err != nil {
			return err
		}
		address, err := movement.SingleKeyAddress(pub)
		if err != nil {
			return err
		}
		sender = &address
	}

	log.Info().Str("chain", name).Str("account", sender.Hex()).Msgf("Registering Movement chain")

	// nolint:gosec
	chainID := uint8(*cfg.GeneralChainConfig.Id)
	node, err := movement.NewNodeClient(cfg.GeneralChainConfig.Endpoint, chainID, nil)
	if err != nil {
		return err
	}
	var initiator *movement.Module
	if cfg.Initiator != nil {
		initiator = movement.NewInitiatorModule(*cfg.Initiator, cfg.Asset)
	}
	var counterparty *movement.Module
	if cfg.Counterparty != nil {
		counterparty = movement.NewCounterpartyModule(*cfg.Counterparty, cfg.Asset)
	}

	backend := movement.NewBackend(node, s, *sender, chainID, cfg.MaxGasAmount, cfg.GasUnitPrice, cfg.Expiration)
	exec := executor.NewExecutor(name, backend, s, submissions, metrics, executorConfig(relayerConfig, cfg.GeneralChainConfig))

	l := log.With().Str("chain", name)
	return r.register(
		name,
		movement.NewMovementChain(name, node, *sender, exec, initiator, counterparty, cfg.Asset),
		cfg.Asset,
		indexer.ChainConfig{
			Source:             movement.NewEventSource(l, name, node, initiator, counterparty, cfg.Asset, cfg.EventPageSize),
			Confirmations:      cfg.GeneralChainConfig.BlockConfirmations,
			StartHeight:        cfg.GeneralChainConfig.StartBlock,
			BlockRetryInterval: cfg.BlockRetryInterval,
		},
	)
}

func executorConfig(relayerConfig config.RelayerConfig, chainConfig chain.GeneralChainConfig) executor.Config {
	return executor.Config{
		Confirmations:       chainConfig.BlockConfirmations,
		PollInterval:        relayerConfig.PollInterval,
		ConfirmationTimeout: relayerConfig.ConfirmationTimeout,
		MaxRetries:          relayerConfig.MaxRetries,
		// nolint:gosec
		MaxBackoff: time.Duration(chainConfig.Blocktime) * time.Second * 4,
	}
}

func newSigner(ctx context.Context, cfg chain.SignerConfig) (signer.Signer, error) {
	switch cfg.Type {
	case chain.SignerLocal:
		s, err := signer.NewLocalSignerFromHex(cfg.Key)
		if err != nil {
			return nil, err
		}
		return s, nil
	case chain.SignerKMS:
		client, err := kms.NewClient(ctx, cfg.KmsRegion)
		if err != nil {
			return nil, err
		}
		var limiter *rate.Limiter
		if cfg.RateLimit > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
		}
		s, err := kms.NewSigner(ctx, client, cfg.KmsKeyID, kms.Secp256k1, limiter)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown signer type %s", cfg.Type)
	}
}
