package service

import (
	"context"
	"time"

	"wallet_client/internal/app/port"
	"wallet_client/internal/app/session"
)

// BalanceRefresher periodically re-reads the native balance of the connected account.
// It only writes to the display.
type BalanceRefresher struct {
	store    *session.Store
	reader   port.TokenReader
	interval time.Duration
	logger   port.Logger
}

func NewBalanceRefresher(store *session.Store, reader port.TokenReader, interval time.Duration, l port.Logger) *BalanceRefresher {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &BalanceRefresher{store: store, reader: reader, interval: interval, logger: l}
}

// Run blocks until ctx is done.
func (r *BalanceRefresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug("Balance refresher started", "interval", r.interval)
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("Balance refresher stopped")
			return
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick refreshes once if an account is connected.
func (r *BalanceRefresher) Tick(ctx context.Context) {
	if _, ok := r.store.Current().Address(); !ok {
		return
	}
	r.reader.RefreshNativeBalance(ctx)
}
