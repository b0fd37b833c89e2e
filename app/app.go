// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package app

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/viper"

	"github.com/sprintertech/atomic-bridge/api"
	"github.com/sprintertech/atomic-bridge/api/handlers"
	"github.com/sprintertech/atomic-bridge/config"
	"github.com/sprintertech/atomic-bridge/health"
	"github.com/sprintertech/atomic-bridge/indexer"
	"github.com/sprintertech/atomic-bridge/metrics"
	"github.com/sprintertech/atomic-bridge/provisioning"
	"github.com/sprintertech/atomic-bridge/reconciler"
)

var Version string

// ConfigureLogger sets the global zerolog logger to write JSON lines at level
// to out.
func ConfigureLogger(level zerolog.Level, out io.Writer) {
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// LoadConfig reads the configuration selected by the --config flag and
// fills chain endpoints and contract addresses from the provisioned network.
func LoadConfig(ctx context.Context) (*config.Config, error) {
	var configuration *config.Config
	var err error

	configFlag := viper.GetString(config.ConfigFlagName)
	if strings.ToLower(configFlag) == "env" {
		configuration, err = config.GetConfigFromENV(nil)
	} else {
		configuration, err = config.GetConfigFromFile(configFlag, nil)
	}
	if err != nil {
		return nil, err
	}

	var provisioner provisioning.Provisioner
	networkConfig := configuration.RelayerConfig.Network
	if networkConfig.Bucket != "" {
		s3Client, err := provisioning.NewS3Client(ctx, networkConfig.Region, networkConfig.Endpoint)
		if err != nil {
			return nil, err
		}
		provisioner = provisioning.NewS3Provisioner(s3Client, networkConfig.Bucket, networkConfig.Key, networkConfig.Hash)
	} else {
		provisioner, err = provisioning.NewStaticProvisioner(configuration.ChainConfigs)
		if err != nil {
			return nil, err
		}
	}

	network, err := provisioner.Network(ctx)
	if err != nil {
		return nil, err
	}
	provisioning.Apply(network, configuration.ChainConfigs)
	return configuration, nil
}

func Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configuration, err := LoadConfig(ctx)
	panicOnError(err)
	relayerConfig := configuration.RelayerConfig

	ConfigureLogger(relayerConfig.LogLevel, os.Stdout)
	log.Info().Msg("Successfully loaded configuration")

	mp, err := metrics.InitMetricProvider(ctx, relayerConfig.OpenTelemetryCollectorURL)
	panicOnError(err)
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Error().Msgf("Error shutting down meter provider: %v", err)
		}
	}()

	bridgeMetrics, err := metrics.NewBridgeMetrics(ctx, mp.Meter("bridge-metric-provider"), relayerConfig.Env, relayerConfig.Id, Version)
	panicOnError(err)
	defer func() {
		_ = bridgeMetrics.Unregister()
	}()

	registry, err := NewRegistry(ctx, configuration, bridgeMetrics)
	panicOnError(err)
	defer registry.Close()

	routes, err := registry.Routes(relayerConfig.Routes)
	panicOnError(err)

	var store indexer.Store
	checks := make([]health.Check, 0)
	if relayerConfig.DatabaseURL != "" {
		db, err := indexer.ConnectPostgres(ctx, relayerConfig.DatabaseURL)
		panicOnError(err)
		defer func(db *sqlx.DB) {
			_ = db.Close()
		}(db)

		postgresStore := indexer.NewPostgresStore(db)
		panicOnError(postgresStore.EnsureSchema(ctx))
		store = postgresStore
		checks = append(checks, db.PingContext)
	} else {
		log.Warn().Msg("No database configured, indexed events are kept in memory")
		store = indexer.NewMemoryStore()
	}

	idx := indexer.NewIndexer(store, bridgeMetrics, registry.Sources...)
	rec := reconciler.NewReconciler(store, routes, bridgeMetrics, reconciler.Config{
		Interval:    relayerConfig.ReconcileInterval,
		MaxParallel: relayerConfig.MaxParallel,
		AutoRefund:  relayerConfig.AutoRefund,
	})
	notifications := idx.Subscribe()

	go health.StartHealthEndpoint(relayerConfig.HealthPort, checks...)
	go api.Serve(ctx, relayerConfig.ApiAddr, handlers.NewTransfersHandler(rec), handlers.NewConfirmationsHandler(idx))

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(idx.Run)
	p.Go(func(ctx context.Context) error {
		return rec.Run(ctx, notifications)
	})

	sysErr := make(chan os.Signal, 1)
	signal.Notify(sysErr,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGQUIT)

	relayerName := viper.GetString(config.NameFlagName)
	log.Info().Msgf("Started bridge relayer: %s with %d routes. Version: v%s", relayerName, len(routes), Version)

	done := make(chan error, 1)
	go func() {
		done <- p.Wait()
	}()

	select {
	case sig := <-sysErr:
		log.Info().Msgf("terminating got [%v] signal", sig)
		cancel()
		return <-done
	case err := <-done:
		log.Error().Err(err).Msg("Bridge relayer stopped")
		return err
	}
}

func panicOnError(err error) {
	if err != nil {
		panic(err)
	}
}
