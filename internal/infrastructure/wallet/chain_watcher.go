package wallet

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"

	"wallet_client/internal/app/port"
	"wallet_client/internal/domain/entity"
)

// walletBase carries what every injected wallet shares: its backend, the notification feed
// and the chain id watcher.
type walletBase struct {
	name      string
	canonical bool
	backend   port.ChainBackend
	logger    port.Logger

	feed      event.Feed
	pollEvery time.Duration

	startOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func newWalletBase(name string, canonical bool, backend port.ChainBackend, pollEvery time.Duration, logger port.Logger) *walletBase {
	ctx, cancel := context.WithCancel(context.Background())
	return &walletBase{
		name:      name,
		canonical: canonical,
		backend:   backend,
		logger:    logger,
		pollEvery: pollEvery,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (w *walletBase) Name() string                   { return w.name }
func (w *walletBase) IsCanonical() bool              { return w.canonical }
func (w *walletBase) Backend() port.ChainBackend     { return w.backend }
func (w *walletBase) emit(ev entity.WalletEvent) int { return w.feed.Send(ev) }

// SubscribeEvents registers ch for account and network notifications and starts the chain watcher.
func (w *walletBase) SubscribeEvents(ch chan<- entity.WalletEvent) event.Subscription {
	sub := w.feed.Subscribe(ch)
	w.startOnce.Do(func() {
		if w.pollEvery <= 0 {
			return
		}
		w.wg.Add(1)
		go w.watchChain()
	})
	return sub
}

func (w *walletBase) watchChain() {
	defer w.wg.Done()

	var last *big.Int
	if id, err := w.backend.ChainID(w.ctx); err == nil {
		last = id
	}

	ticker := time.NewTicker(w.pollEvery)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
		}

		id, err := w.backend.ChainID(w.ctx)
		if err != nil {
			w.logger.Debug("Chain id poll failed", "wallet", w.name, "error", err)
			continue
		}
		if last != nil && last.Cmp(id) != 0 {
			w.logger.Info("Wallet network changed", "wallet", w.name, "from", last, "to", id)
			w.emit(entity.WalletEvent{Kind: entity.ChainChanged, ChainID: id})
		}
		last = id
	}
}

// Close stops background watchers.
func (w *walletBase) Close() error {
	w.cancel()
	w.wg.Wait()
	return nil
}
