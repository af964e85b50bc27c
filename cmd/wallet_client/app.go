package main

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"wallet_client/internal/app/port"
	"wallet_client/internal/app/provider"
	"wallet_client/internal/app/service"
	"wallet_client/internal/app/session"
	"wallet_client/internal/config"
	"wallet_client/internal/infrastructure/display"
	"wallet_client/internal/infrastructure/httpclient"
	"wallet_client/internal/infrastructure/metrics"
	clientprovider "wallet_client/internal/infrastructure/network/client"
	networkdefinition "wallet_client/internal/infrastructure/network/definition"
	"wallet_client/internal/infrastructure/tokenloader"
	"wallet_client/internal/infrastructure/wallet"
	"wallet_client/internal/pkg/logger"
)

// application holds every wired component of the client.
type application struct {
	cfg       *config.Config
	zapLogger *zap.Logger
	logger    port.Logger

	store          *session.Store
	surface        *display.Surface
	networks       *networkdefinition.NetworkDefinitionProvider
	walletProvider port.WalletProvider
	tokens         port.TokenProvider
	wallets        *service.WalletServiceImpl
	reader         *service.TokenReaderImpl
	transfers      *service.TransferServiceImpl
	tracker        port.TransferTracker
	refresher      *service.BalanceRefresher
}

func newApplication(cfgPath string) (*application, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	zapLogger, err := logger.Init(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return nil, err
	}
	appLogger := logger.NewSlogAdapter()
	appLogger.Info("Wallet client starting", "config", cfgPath, "wallets", len(cfg.Wallets))

	m := metrics.Default()
	store := session.NewStore()
	surface := display.NewSurface()
	netDefProvider := networkdefinition.NewNetworkDefinitionProvider(appLogger, cfg.Networks...)

	clientProvider := clientprovider.NewEVMClientProvider(cfg, appLogger)
	chainPoll := time.Duration(cfg.Refresh.ChainPollSeconds) * time.Second
	walletFactory := wallet.NewFactory(clientProvider, chainPoll, appLogger)
	walletProvider := provider.NewWalletProvider(cfg.Wallets, walletFactory, appLogger)

	tokenProvider := provider.NewTokenProvider(tokenloader.NewTokenLoader(cfg.Tokens.SamplesDir, appLogger), appLogger)

	var priceSvc port.TokenPriceService
	if cfg.DEXScreener.Enabled {
		dexClient := httpclient.NewDEXScreenerClient(
			cfg.DEXScreener.BaseURL,
			time.Duration(cfg.DEXScreener.RequestTimeoutMillis)*time.Millisecond,
			zapLogger.Named("DEXScreenerAPIClient"),
			0,
		)
		priceSvc = service.NewTokenPriceService(dexClient, appLogger, time.Duration(cfg.TokenPriceSvc.CacheTTLMinutes)*time.Minute)
		appLogger.Info("USD valuation enabled", "base_url", cfg.DEXScreener.BaseURL)
	}

	clients := service.NewClientFactory(
		time.Duration(cfg.RpcClient.CallTimeoutMs)*time.Millisecond,
		time.Duration(cfg.Transfers.ConfirmPollMs)*time.Millisecond,
	)
	reader := service.NewTokenReader(store, surface, clients, netDefProvider, priceSvc, m, appLogger)
	tracker := service.NewTransferTracker(time.Duration(cfg.Transfers.TrackerTTLMinutes) * time.Minute)
	transfers := service.NewTransferService(store, surface, clients, reader, tracker, m, appLogger,
		time.Duration(cfg.Transfers.ConfirmTimeoutSeconds)*time.Second)
	wallets := service.NewWalletService(walletProvider, store, surface, reader, netDefProvider, m, appLogger)
	refresher := service.NewBalanceRefresher(store, reader, time.Duration(cfg.Refresh.BalanceIntervalSeconds)*time.Second, appLogger)

	return &application{
		cfg:            cfg,
		zapLogger:      zapLogger,
		logger:         appLogger,
		store:          store,
		surface:        surface,
		networks:       netDefProvider,
		walletProvider: walletProvider,
		tokens:         tokenProvider,
		wallets:        wallets,
		reader:         reader,
		transfers:      transfers,
		tracker:        tracker,
		refresher:      refresher,
	}, nil
}

// Close stops the event bridge and releases every wallet.
func (a *application) Close() {
	a.wallets.Close()
	if closer, ok := a.walletProvider.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("Failed to close wallet provider", "error", err)
		}
	}
	_ = a.zapLogger.Sync()
}

func printFields(out io.Writer, f display.Fields) {
	rows := [][2]string{
		{"Address", f.Address},
		{"Network", f.Network},
		{"Balance", f.NativeBalance},
		{"Balance (USD)", f.NativeBalanceUSD},
		{"Token", f.TokenAddress},
		{"Token name", f.TokenName},
		{"Token symbol", f.TokenSymbol},
		{"Token balance", f.TokenBalance},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(out, "%-14s %s\n", row[0]+":", row[1])
	}
	if f.Status != "" {
		prefix := "Status:"
		if f.StatusIsError {
			prefix = "Error:"
		}
		fmt.Fprintf(out, "%-14s %s\n", prefix, f.Status)
	}
}
