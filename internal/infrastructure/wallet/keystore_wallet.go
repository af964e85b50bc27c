package wallet

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"

	"wallet_client/internal/app/port"
	"wallet_client/internal/domain/entity"
)

// KeystoreWallet exposes accounts from a go-ethereum keystore directory.
// Accounts become visible to the client once unlocked by RequestAccounts. If the exposed
// account leaves the keystore, the next account (the hinted one, else the first) takes its place.
type KeystoreWallet struct {
	*walletBase
	ks          *keystore.KeyStore
	accountHint common.Address
	passphrase  string

	mu       sync.Mutex
	exposed  []common.Address
	pumpOnce sync.Once
}

// NewKeystoreWallet creates a wallet over ks. A zero accountHint selects the first keystore account.
func NewKeystoreWallet(name string, canonical bool, ks *keystore.KeyStore, accountHint common.Address, passphrase string, backend port.ChainBackend, chainPoll time.Duration, logger port.Logger) *KeystoreWallet {
	return &KeystoreWallet{
		walletBase:  newWalletBase(name, canonical, backend, chainPoll, logger),
		ks:          ks,
		accountHint: accountHint,
		passphrase:  passphrase,
	}
}

// RequestAccounts unlocks the selected account and exposes it to the client.
func (w *KeystoreWallet) RequestAccounts(context.Context) ([]common.Address, error) {
	account, err := w.selectAccount()
	if err != nil {
		return nil, err
	}
	if err := w.ks.Unlock(account, w.passphrase); err != nil {
		return nil, fmt.Errorf("unlock %s: %w", account.Address.Hex(), err)
	}

	w.mu.Lock()
	if !slices.Contains(w.exposed, account.Address) {
		w.exposed = append(w.exposed, account.Address)
	}
	exposed := slices.Clone(w.exposed)
	w.mu.Unlock()

	w.pumpOnce.Do(w.startKeystorePump)
	return exposed, nil
}

func (w *KeystoreWallet) selectAccount() (accounts.Account, error) {
	all := w.ks.Accounts()
	if len(all) == 0 {
		return accounts.Account{}, errors.New("keystore has no accounts")
	}
	if w.accountHint == (common.Address{}) {
		return all[0], nil
	}
	for _, a := range all {
		if a.Address == w.accountHint {
			return a, nil
		}
	}
	return accounts.Account{}, fmt.Errorf("account %s not found in keystore", w.accountHint.Hex())
}

// Signer returns a signer for an exposed account.
func (w *KeystoreWallet) Signer(account common.Address) (port.Signer, error) {
	if !w.ks.HasAddress(account) {
		return nil, fmt.Errorf("account %s is not managed by wallet %s", account.Hex(), w.name)
	}
	return &keystoreSigner{ks: w.ks, account: accounts.Account{Address: account}}, nil
}

// startKeystorePump turns keystore wallet arrivals and drops into account-set notifications.
func (w *KeystoreWallet) startKeystorePump() {
	events := make(chan accounts.WalletEvent, 16)
	sub := w.ks.Subscribe(events)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer sub.Unsubscribe()
		for {
			select {
			case <-w.ctx.Done():
				return
			case err := <-sub.Err():
				if err != nil {
					w.logger.Warn("Keystore subscription failed", "wallet", w.name, "error", err)
				}
				return
			case ev := <-events:
				w.logger.Debug("Keystore wallet event", "wallet", w.name, "kind", ev.Kind, "url", ev.Wallet.URL().String())
				w.syncExposed()
			}
		}
	}()
}

// syncExposed recomputes the exposed account set after the keystore changed. When the exposed
// account is gone the next selectable account is unlocked and exposed in its place.
func (w *KeystoreWallet) syncExposed() {
	w.mu.Lock()
	remaining := make([]common.Address, 0, len(w.exposed))
	for _, addr := range w.exposed {
		if w.ks.HasAddress(addr) {
			remaining = append(remaining, addr)
		}
	}
	if len(remaining) == 0 {
		if next, ok := w.unlockNext(); ok {
			remaining = append(remaining, next)
		}
	}
	changed := !slices.Equal(remaining, w.exposed)
	w.exposed = remaining
	w.mu.Unlock()

	if changed {
		w.logger.Info("Keystore accounts changed", "wallet", w.name, "accounts", len(remaining))
		w.emit(entity.WalletEvent{Kind: entity.AccountsChanged, Accounts: slices.Clone(remaining)})
	}
}

func (w *KeystoreWallet) unlockNext() (common.Address, bool) {
	account, err := w.selectAccount()
	if err != nil {
		w.logger.Debug("No keystore account to expose", "wallet", w.name, "error", err)
		return common.Address{}, false
	}
	if err := w.ks.Unlock(account, w.passphrase); err != nil {
		w.logger.Warn("Failed to unlock keystore account", "wallet", w.name, "account", account.Address.Hex(), "error", err)
		return common.Address{}, false
	}
	return account.Address, true
}

// Close locks exposed accounts and stops background watchers.
func (w *KeystoreWallet) Close() error {
	w.mu.Lock()
	for _, addr := range w.exposed {
		_ = w.ks.Lock(addr)
	}
	w.exposed = nil
	w.mu.Unlock()
	return w.walletBase.Close()
}

var _ port.InjectedWallet = (*KeystoreWallet)(nil)
