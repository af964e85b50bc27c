package provider

import (
	"context"
	"fmt"
	"sync"

	"wallet_client/internal/app/port"
	"wallet_client/internal/config"
	"wallet_client/internal/domain/entity"
)

// WalletBuilder creates an injected wallet from its declaration.
type WalletBuilder interface {
	Build(ctx context.Context, wc config.WalletConfig) (port.InjectedWallet, error)
}

type walletProviderImpl struct {
	declared []config.WalletConfig
	builder  WalletBuilder
	logger   port.Logger

	mu    sync.Mutex
	built map[string]port.InjectedWallet
}

// NewWalletProvider creates a WalletProvider over the declared wallets.
func NewWalletProvider(declared []config.WalletConfig, builder WalletBuilder, logger port.Logger) port.WalletProvider {
	return &walletProviderImpl{
		declared: declared,
		builder:  builder,
		logger:   logger,
		built:    make(map[string]port.InjectedWallet),
	}
}

// SelectWallet picks among competing wallet declarations: the first canonical one, else the first.
func SelectWallet(declared []config.WalletConfig) (config.WalletConfig, bool) {
	if len(declared) == 0 {
		return config.WalletConfig{}, false
	}
	for _, wc := range declared {
		if wc.Canonical {
			return wc, true
		}
	}
	return declared[0], true
}

// Discover returns the wallet the client should connect to. The same instance is returned
// on every call so that reconnects keep their notification feed.
func (p *walletProviderImpl) Discover(ctx context.Context) (port.InjectedWallet, error) {
	wc, ok := SelectWallet(p.declared)
	if !ok {
		p.logger.Warn("No wallets declared in configuration")
		return nil, entity.ErrNoWalletDetected
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if w, exists := p.built[wc.Name]; exists {
		return w, nil
	}

	p.logger.Debug("Building wallet", "wallet", wc.Name, "kind", wc.Kind, "candidates", len(p.declared))
	w, err := p.builder.Build(ctx, wc)
	if err != nil {
		p.logger.Error("Failed to build wallet", "wallet", wc.Name, "error", err)
		return nil, fmt.Errorf("wallet %s: %w", wc.Name, err)
	}
	p.built[wc.Name] = w
	return w, nil
}

// Close releases every wallet built so far.
func (p *walletProviderImpl) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for name, w := range p.built {
		if err := w.Close(); err != nil {
			p.logger.Warn("Failed to close wallet", "wallet", name, "error", err)
		}
	}
	p.built = make(map[string]port.InjectedWallet)
	return nil
}
