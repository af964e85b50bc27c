package service

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"wallet_client/internal/app/session"
	"wallet_client/internal/pkg/chaintest"
	"wallet_client/internal/pkg/logger"
)

func TestRefresherPicksUpBalanceChanges(t *testing.T) {
	key := newKey(t)
	addr := crypto.PubkeyToAddress(key.PublicKey)
	backend := chaintest.NewBackend(11155111)
	backend.Native[addr] = milliEther(1000)

	h := newHarness(t, newTestWallet("test", backend, key))
	_, err := h.wallets.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1.0 ETH", h.display.Snapshot().NativeBalance)

	backend.SetNativeBalance(addr, milliEther(1500))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	refresher := NewBalanceRefresher(h.store, h.reader, 10*time.Millisecond, logger.NewNopLogger())
	go refresher.Run(ctx)

	eventually(t, func() bool { return h.display.Snapshot().NativeBalance == "1.5 ETH" })
	require.Equal(t, "Wallet connected (test)", h.display.Snapshot().Status)
}

func TestRefresherSkipsWithoutAccount(t *testing.T) {
	backend := chaintest.NewBackend(11155111)
	h := newHarness(t, nil)
	h.store.Set(session.Session{Wallet: newTestWallet("test", backend)})
	refresher := NewBalanceRefresher(h.store, h.reader, time.Second, logger.NewNopLogger())

	refresher.Tick(context.Background())
	require.Zero(t, backend.Calls())
	require.Empty(t, h.display.Snapshot().NativeBalance)
}
