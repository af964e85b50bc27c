package port

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"

	"wallet_client/internal/domain/entity"
)

// Signer signs transactions for a single account.
type Signer interface {
	Address() common.Address
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// InjectedWallet is a wallet capability made available to the client: account access,
// signing, and account/network change notifications over its own RPC transport.
type InjectedWallet interface {
	Name() string
	IsCanonical() bool
	Backend() ChainBackend
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	Signer(account common.Address) (Signer, error)
	SubscribeEvents(ch chan<- entity.WalletEvent) event.Subscription
	Close() error
}

// WalletProvider discovers the wallet the client should talk to.
type WalletProvider interface {
	Discover(ctx context.Context) (InjectedWallet, error)
}
