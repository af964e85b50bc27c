package wallet

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"wallet_client/internal/app/port"
	"wallet_client/internal/config"
	"wallet_client/internal/domain/entity"
)

// Factory builds injected wallets from their configuration.
type Factory struct {
	clients   port.BlockchainClientProvider
	chainPoll time.Duration
	logger    port.Logger
	getenv    func(string) string
}

// NewFactory creates a wallet factory dialing backends through clients.
func NewFactory(clients port.BlockchainClientProvider, chainPoll time.Duration, logger port.Logger) *Factory {
	return &Factory{clients: clients, chainPoll: chainPoll, logger: logger, getenv: os.Getenv}
}

// Build creates the wallet described by wc. Missing key material is reported as
// entity.ErrNoWalletDetected, an unreachable RPC endpoint as entity.ErrConnectionRejected.
func (f *Factory) Build(ctx context.Context, wc config.WalletConfig) (port.InjectedWallet, error) {
	switch wc.Kind {
	case config.WalletKindPrivateKey:
		raw := strings.TrimPrefix(strings.TrimSpace(f.getenv(wc.PrivateKeyEnv)), "0x")
		if raw == "" {
			return nil, fmt.Errorf("%w: %s is not set", entity.ErrNoWalletDetected, wc.PrivateKeyEnv)
		}
		key, err := crypto.HexToECDSA(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s does not hold a valid key", entity.ErrNoWalletDetected, wc.PrivateKeyEnv)
		}
		backend, err := f.backend(ctx, wc)
		if err != nil {
			return nil, err
		}
		f.logger.Info("Private key wallet ready", "wallet", wc.Name)
		return NewKeyWallet(wc.Name, wc.Canonical, key, backend, f.chainPoll, f.logger), nil

	case config.WalletKindKeystore:
		if _, err := os.Stat(wc.KeystoreDir); err != nil {
			return nil, fmt.Errorf("%w: keystore %s: %v", entity.ErrNoWalletDetected, wc.KeystoreDir, err)
		}
		backend, err := f.backend(ctx, wc)
		if err != nil {
			return nil, err
		}
		ks := keystore.NewKeyStore(wc.KeystoreDir, keystore.StandardScryptN, keystore.StandardScryptP)
		var hint common.Address
		if wc.Account != "" {
			hint = common.HexToAddress(wc.Account)
		}
		f.logger.Info("Keystore wallet ready", "wallet", wc.Name, "dir", wc.KeystoreDir, "accounts", len(ks.Accounts()))
		return NewKeystoreWallet(wc.Name, wc.Canonical, ks, hint, f.getenv(wc.PassphraseEnv), backend, f.chainPoll, f.logger), nil

	default:
		return nil, fmt.Errorf("%w: unknown wallet kind %q", entity.ErrNoWalletDetected, wc.Kind)
	}
}

func (f *Factory) backend(ctx context.Context, wc config.WalletConfig) (port.ChainBackend, error) {
	backend, err := f.clients.GetBackend(ctx, wc.RPCURLs)
	if err != nil {
		return nil, fmt.Errorf("%w: wallet %s: %v", entity.ErrConnectionRejected, wc.Name, err)
	}
	return backend, nil
}
