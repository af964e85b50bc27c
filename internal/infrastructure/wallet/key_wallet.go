package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"wallet_client/internal/app/port"
)

// KeyWallet exposes a single account backed by a raw private key.
type KeyWallet struct {
	*walletBase
	signer *KeySigner
}

// NewKeyWallet creates a wallet for key over backend.
func NewKeyWallet(name string, canonical bool, key *ecdsa.PrivateKey, backend port.ChainBackend, chainPoll time.Duration, logger port.Logger) *KeyWallet {
	return &KeyWallet{
		walletBase: newWalletBase(name, canonical, backend, chainPoll, logger),
		signer:     NewKeySigner(key),
	}
}

// RequestAccounts returns the wallet's only account.
func (w *KeyWallet) RequestAccounts(context.Context) ([]common.Address, error) {
	return []common.Address{w.signer.Address()}, nil
}

// Signer returns the signer for account.
func (w *KeyWallet) Signer(account common.Address) (port.Signer, error) {
	if account != w.signer.Address() {
		return nil, fmt.Errorf("account %s is not managed by wallet %s", account.Hex(), w.name)
	}
	return w.signer, nil
}

var _ port.InjectedWallet = (*KeyWallet)(nil)
