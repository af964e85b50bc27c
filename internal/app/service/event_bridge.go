package service

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/event"

	"wallet_client/internal/app/port"
	"wallet_client/internal/app/session"
	"wallet_client/internal/domain/entity"
	"wallet_client/internal/infrastructure/display"
	"wallet_client/internal/infrastructure/metrics"
)

// ReloadFunc rebuilds client state from scratch after the wallet switched networks.
type ReloadFunc func(ctx context.Context) error

// EventBridge translates wallet notifications into session and display updates.
// It listens to one wallet at a time.
type EventBridge struct {
	store   *session.Store
	display port.Display
	reader  port.TokenReader
	reload  ReloadFunc
	metrics *metrics.Metrics
	logger  port.Logger

	mu     sync.Mutex
	sub    event.Subscription
	cancel context.CancelFunc
}

// NewEventBridge creates a detached bridge.
func NewEventBridge(store *session.Store, d port.Display, reader port.TokenReader, reload ReloadFunc, m *metrics.Metrics, l port.Logger) *EventBridge {
	return &EventBridge{
		store:   store,
		display: d,
		reader:  reader,
		reload:  reload,
		metrics: m,
		logger:  l,
	}
}

// Attach starts draining wallet's notifications, replacing any previous attachment.
func (b *EventBridge) Attach(ctx context.Context, wallet port.InjectedWallet) {
	b.Detach()

	ch := make(chan entity.WalletEvent, 16)
	ctx, cancel := context.WithCancel(ctx)
	sub := wallet.SubscribeEvents(ch)

	b.mu.Lock()
	b.sub, b.cancel = sub, cancel
	b.mu.Unlock()

	go func() {
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				if err != nil {
					b.logger.Warn("Wallet event subscription failed", "wallet", wallet.Name(), "error", err)
				}
				return
			case ev := <-ch:
				if ctx.Err() != nil {
					return
				}
				b.Handle(ctx, wallet, ev)
			}
		}
	}()
	b.logger.Debug("Event bridge attached", "wallet", wallet.Name())
}

// Detach stops listening. It does not wait for an in-flight handler, so handlers may call it.
func (b *EventBridge) Detach() {
	b.mu.Lock()
	sub, cancel := b.sub, b.cancel
	b.sub, b.cancel = nil, nil
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sub != nil {
		sub.Unsubscribe()
	}
}

// Handle applies a single notification from wallet.
func (b *EventBridge) Handle(ctx context.Context, wallet port.InjectedWallet, ev entity.WalletEvent) {
	b.metrics.ObserveWalletEvent(ev.Kind.String())

	switch ev.Kind {
	case entity.AccountsChanged:
		b.accountsChanged(ctx, wallet, ev)
	case entity.ChainChanged:
		b.logger.Info("Wallet switched network, reloading", "wallet", wallet.Name(), "chain_id", ev.ChainID)
		// The reload detaches this bridge, so it must outlive the bridge context.
		if err := b.reload(context.WithoutCancel(ctx)); err != nil {
			b.logger.Warn("Reload after network change failed", "wallet", wallet.Name(), "error", err)
		}
	default:
		b.logger.Debug("Ignoring unknown wallet event", "kind", ev.Kind)
	}
}

func (b *EventBridge) accountsChanged(ctx context.Context, wallet port.InjectedWallet, ev entity.WalletEvent) {
	if len(ev.Accounts) == 0 {
		b.store.Clear()
		b.display.ClearAccount()
		b.display.ShowStatus(display.StatusWalletDisconnected, false)
		b.logger.Info("Wallet disconnected", "wallet", wallet.Name())
		return
	}

	next := ev.Accounts[0]
	sess := b.store.Current()
	if current, ok := sess.Address(); ok && current == next {
		return
	}

	signer, err := wallet.Signer(next)
	if err != nil {
		b.logger.Warn("Cannot sign for new account", "wallet", wallet.Name(), "account", next.Hex(), "error", err)
		return
	}
	b.store.SetSigner(signer)
	b.display.ShowAccount(next.Hex(), sess.Network)
	b.reader.RefreshNativeBalance(ctx)
	b.display.ShowStatus(display.StatusAccountChanged, false)
	b.logger.Info("Account changed", "wallet", wallet.Name(), "account", next.Hex())
}
