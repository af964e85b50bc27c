package service

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
	"github.com/stretchr/testify/require"

	"wallet_client/internal/app/port"
	"wallet_client/internal/app/session"
	"wallet_client/internal/domain/entity"
	"wallet_client/internal/infrastructure/display"
	networkdefinition "wallet_client/internal/infrastructure/network/definition"
	"wallet_client/internal/infrastructure/wallet"
	"wallet_client/internal/pkg/logger"
)

// testWallet is an injected wallet driven by the test.
type testWallet struct {
	name    string
	backend port.ChainBackend
	feed    event.Feed

	mu          sync.Mutex
	signers     map[common.Address]port.Signer
	accounts    []common.Address
	rejectErr   error
	accountReqs int
}

func newTestWallet(name string, backend port.ChainBackend, keys ...*ecdsa.PrivateKey) *testWallet {
	w := &testWallet{name: name, backend: backend, signers: make(map[common.Address]port.Signer)}
	for _, key := range keys {
		s := wallet.NewKeySigner(key)
		w.signers[s.Address()] = s
		w.accounts = append(w.accounts, s.Address())
	}
	return w
}

func (w *testWallet) Name() string               { return w.name }
func (w *testWallet) IsCanonical() bool          { return true }
func (w *testWallet) Backend() port.ChainBackend { return w.backend }
func (w *testWallet) Close() error               { return nil }

func (w *testWallet) SubscribeEvents(ch chan<- entity.WalletEvent) event.Subscription {
	return w.feed.Subscribe(ch)
}

// emit delivers ev and reports how many subscribers received it.
func (w *testWallet) emit(ev entity.WalletEvent) int {
	return w.feed.Send(ev)
}

func (w *testWallet) setRejectErr(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rejectErr = err
}

func (w *testWallet) requests() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.accountReqs
}

func (w *testWallet) RequestAccounts(context.Context) ([]common.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.accountReqs++
	if w.rejectErr != nil {
		return nil, w.rejectErr
	}
	return append([]common.Address(nil), w.accounts...), nil
}

func (w *testWallet) Signer(account common.Address) (port.Signer, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.signers[account]
	if !ok {
		return nil, fmt.Errorf("unknown account %s", account.Hex())
	}
	return s, nil
}

type testProvider struct {
	wallet port.InjectedWallet
}

func (p testProvider) Discover(context.Context) (port.InjectedWallet, error) {
	if p.wallet == nil {
		return nil, entity.ErrNoWalletDetected
	}
	return p.wallet, nil
}

// harness wires the services the way the application does.
type harness struct {
	store    *session.Store
	display  *display.Surface
	reader   *TokenReaderImpl
	wallets  *WalletServiceImpl
	transfer *TransferServiceImpl
	tracker  port.TransferTracker
}

func newHarness(t *testing.T, w port.InjectedWallet) *harness {
	t.Helper()
	log := logger.NewNopLogger()
	store := session.NewStore()
	surface := display.NewSurface()
	clients := NewClientFactory(time.Second, 10*time.Millisecond)
	networks := networkdefinition.NewNetworkDefinitionProvider(log)

	reader := NewTokenReader(store, surface, clients, networks, nil, nil, log)
	tracker := NewTransferTracker(time.Minute)
	h := &harness{
		store:    store,
		display:  surface,
		reader:   reader,
		wallets:  NewWalletService(testProvider{wallet: w}, store, surface, reader, networks, nil, log),
		transfer: NewTransferService(store, surface, clients, reader, tracker, nil, log, 5*time.Second),
		tracker:  tracker,
	}
	t.Cleanup(h.wallets.Close)
	return h
}

func newKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key
}

// milliEther returns n * 10^15 wei.
func milliEther(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e15))
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}
