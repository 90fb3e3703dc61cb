package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dondinetwork/go-dondi/buildinfo"
	"github.com/dondinetwork/go-dondi/internal/chains"
	"github.com/dondinetwork/go-dondi/internal/dashboard"
	dashboardimpl "github.com/dondinetwork/go-dondi/internal/dashboard/impl"
	"github.com/dondinetwork/go-dondi/internal/router"
	"github.com/dondinetwork/go-dondi/internal/router/middlewares"
	"github.com/dondinetwork/go-dondi/pkg/backup"
	"github.com/dondinetwork/go-dondi/pkg/chainsource"
	"github.com/dondinetwork/go-dondi/pkg/chainsource/impl/ethereum"
	"github.com/dondinetwork/go-dondi/pkg/explorer/impl/etherscan"
	"github.com/dondinetwork/go-dondi/pkg/links"
	linksimpl "github.com/dondinetwork/go-dondi/pkg/links/impl"
	"github.com/dondinetwork/go-dondi/pkg/logging"
	"github.com/dondinetwork/go-dondi/pkg/metrics"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

func main() {
	cfg := setupConfig()
	logging.SetupLogger(buildinfo.GitCommit, cfg.Log.Debug, cfg.Log.Human)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	network, err := cfg.network()
	if err != nil {
		log.Fatal().Err(err).Msg("resolving network")
	}

	metricsServer, err := metrics.SetupInstrumentation(
		":"+cfg.Metrics.Port,
		"dondi",
		attribute.String("network", network.Name),
		attribute.String("version", buildinfo.GitSummary),
	)
	if err != nil {
		log.Fatal().Err(err).Str("port", cfg.Metrics.Port).Msg("could not setup instrumentation")
	}

	stack, err := createChainStack(cfg, network)
	if err != nil {
		log.Fatal().Err(err).Str("network", network.Name).Msg("creating chain stack")
	}

	explorerTimeout, err := parseDuration("explorer timeout", cfg.Explorer.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("parsing explorer timeout")
	}
	explorer := etherscan.NewClient(network.ExplorerURL, cfg.Explorer.APIKey, explorerTimeout)

	linkStore, err := linksimpl.New(cfg.Links.DBURI, links.NewGenerator(cfg.Links.BaseURL))
	if err != nil {
		log.Fatal().Err(err).Msg("creating link store")
	}

	if cfg.Links.Backup.Enabled {
		scheduler, err := createBackupScheduler(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("creating backup scheduler")
		}
		go scheduler.Run(ctx)
	}

	dash, err := dashboardimpl.NewDashboard(
		stack.Chain,
		explorer,
		linkStore,
		dashboard.WithStartBlock(network.StartBlock),
		dashboard.WithContractAddress(network.ContractAddress),
		dashboard.WithMaxConcurrentCalls(cfg.Chain.MaxConcurrentCalls),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("creating dashboard")
	}

	rateLimInterval, err := parseDuration("rate limit interval", cfg.HTTP.RateLimInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("parsing rate limit interval")
	}
	rtr, err := router.ConfiguredRouter(router.Config{
		APIPrefix:         cfg.HTTP.APIPrefix,
		MaxRPI:            cfg.HTTP.MaxRequestPerInterval,
		RateLimInterval:   rateLimInterval,
		LegacyStatusCodes: cfg.HTTP.LegacyStatusCodes,
		AllowedOrigins:    splitList(cfg.HTTP.AllowedOrigins),
		PathLimits: map[string]middlewares.RateLimiterRouteConfig{
			"/registrationext": {MaxRPI: cfg.HTTP.TxMaxRequestPerInterval, Interval: rateLimInterval},
			"/buynewlevel":     {MaxRPI: cfg.HTTP.TxMaxRequestPerInterval, Interval: rateLimInterval},
		},
	}, dash, stack.Chain, stack.Chain, linkStore)
	if err != nil {
		log.Fatal().Err(err).Msg("configuring router")
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           rtr.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
	go func() {
		log.Info().
			Str("port", cfg.HTTP.Port).
			Str("network", network.Name).
			Str("contract", network.ContractAddress.Hex()).
			Msg("serving dondi api")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("port", cfg.HTTP.Port).Msg("could not start server")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutting down http server")
	}
	if err := linkStore.Close(); err != nil {
		log.Error().Err(err).Msg("closing link store")
	}
	if err := stack.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("closing chain stack")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutting down metrics server")
	}
	log.Info().Msg("daemon closed")
}

func createBackupScheduler(cfg *config) (*backup.Scheduler, error) {
	frequency, err := parseDuration("backup frequency", cfg.Links.Backup.Frequency)
	if err != nil {
		return nil, err
	}
	backuper, err := backup.NewBackuper(
		cfg.Links.DBURI,
		cfg.Links.Backup.Dir,
		backup.WithCompression(cfg.Links.Backup.Compression),
		backup.WithVacuum(cfg.Links.Backup.Vacuum),
		backup.WithPruning(true, cfg.Links.Backup.KeepFiles),
	)
	if err != nil {
		return nil, fmt.Errorf("creating backuper: %s", err)
	}
	return backup.NewScheduler(frequency, backuper), nil
}

func createChainStack(cfg *config, network chains.Network) (chains.ChainStack, error) {
	callTimeout, err := parseDuration("call timeout", cfg.Chain.CallTimeout)
	if err != nil {
		return chains.ChainStack{}, err
	}

	conn, err := ethclient.Dial(cfg.Chain.EthEndpoint)
	if err != nil {
		return chains.ChainStack{}, fmt.Errorf("dialing eth endpoint: %s", err)
	}

	client, err := ethereum.NewClient(
		conn,
		network.ChainID,
		network.ContractAddress,
		chainsource.WithMaxBlocksFetchSize(cfg.Chain.MaxBlocksFetchSize),
		chainsource.WithCallTimeout(callTimeout),
		chainsource.WithGasLimit(cfg.Chain.GasLimit),
	)
	if err != nil {
		conn.Close()
		return chains.ChainStack{}, fmt.Errorf("creating chain client: %s", err)
	}

	return chains.ChainStack{
		Network: network,
		Chain:   client,
		Close: func(ctx context.Context) error {
			conn.Close()
			return nil
		},
	}, nil
}
