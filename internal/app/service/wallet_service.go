package service

import (
	"context"
	"fmt"

	"wallet_client/internal/app/port"
	"wallet_client/internal/app/session"
	"wallet_client/internal/domain/entity"
	"wallet_client/internal/infrastructure/metrics"
	networkdefinition "wallet_client/internal/infrastructure/network/definition"
)

// WalletServiceImpl implements port.WalletService.
type WalletServiceImpl struct {
	provider        port.WalletProvider
	store           *session.Store
	display         port.Display
	reader          port.TokenReader
	networkProvider port.NetworkDefinitionProvider
	bridge          *EventBridge
	metrics         *metrics.Metrics
	logger          port.Logger
}

// NewWalletService creates the connect/reload workflow together with its event bridge.
func NewWalletService(
	wp port.WalletProvider,
	store *session.Store,
	display port.Display,
	reader port.TokenReader,
	np port.NetworkDefinitionProvider,
	m *metrics.Metrics,
	l port.Logger,
) *WalletServiceImpl {
	s := &WalletServiceImpl{
		provider:        wp,
		store:           store,
		display:         display,
		reader:          reader,
		networkProvider: np,
		metrics:         m,
		logger:          l,
	}
	s.bridge = NewEventBridge(store, display, reader, s.Reload, m, l)
	return s
}

// Connect discovers the wallet, requests its accounts and establishes the session.
func (s *WalletServiceImpl) Connect(ctx context.Context) (entity.NetworkInfo, error) {
	wallet, err := s.provider.Discover(ctx)
	if err != nil {
		s.logger.Warn("Wallet discovery failed", "error", err)
		s.metrics.ObserveConnect(metrics.ResultError)
		s.display.ShowError(err)
		return entity.NetworkInfo{}, err
	}

	network, err := s.connect(ctx, wallet)
	if err != nil {
		s.logger.Warn("Wallet connection failed", "wallet", wallet.Name(), "error", err)
		s.metrics.ObserveConnect(metrics.ResultError)
		s.display.ShowError(err)
		return entity.NetworkInfo{}, err
	}

	s.metrics.ObserveConnect(metrics.ResultOK)
	return network, nil
}

func (s *WalletServiceImpl) connect(ctx context.Context, wallet port.InjectedWallet) (entity.NetworkInfo, error) {
	accounts, err := wallet.RequestAccounts(ctx)
	if err != nil {
		return entity.NetworkInfo{}, fmt.Errorf("%w: %w", entity.ErrConnectionRejected, err)
	}
	if len(accounts) == 0 {
		return entity.NetworkInfo{}, fmt.Errorf("%w: wallet exposed no accounts", entity.ErrConnectionRejected)
	}

	signer, err := wallet.Signer(accounts[0])
	if err != nil {
		return entity.NetworkInfo{}, fmt.Errorf("%w: %w", entity.ErrConnectionRejected, err)
	}

	chainID, err := wallet.Backend().ChainID(ctx)
	if err != nil {
		return entity.NetworkInfo{}, fmt.Errorf("%w: failed to fetch chain id: %w", entity.ErrConnectionRejected, err)
	}
	network, _ := networkdefinition.Resolve(s.networkProvider, chainID.Uint64())

	s.store.Set(session.Session{Wallet: wallet, Signer: signer, Network: network})
	s.display.ShowAccount(signer.Address().Hex(), network)
	s.reader.RefreshNativeBalance(ctx)
	s.display.ShowStatus(fmt.Sprintf("Wallet connected (%s)", wallet.Name()), false)
	s.bridge.Attach(context.WithoutCancel(ctx), wallet)

	s.logger.Info("Wallet connected", "wallet", wallet.Name(), "address", signer.Address().Hex(), "network", network.Label())
	return network, nil
}

// Reload drops all client state and connects again. The wallet provider hands back
// the same wallet, so the session is rebuilt against its current network.
func (s *WalletServiceImpl) Reload(ctx context.Context) error {
	s.bridge.Detach()
	s.store.Reset()
	s.display.Reset()

	if _, err := s.Connect(ctx); err != nil {
		return fmt.Errorf("reconnect after reload: %w", err)
	}
	return nil
}

// Close detaches the event bridge.
func (s *WalletServiceImpl) Close() {
	s.bridge.Detach()
}

var _ port.WalletService = (*WalletServiceImpl)(nil)
