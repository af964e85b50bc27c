package port

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"wallet_client/internal/domain/entity"
)

// WalletService connects the client to a wallet and keeps the session in sync.
type WalletService interface {
	Connect(ctx context.Context) (entity.NetworkInfo, error)
	Reload(ctx context.Context) error
}

// TokenReader reads native balances and token views and renders them.
type TokenReader interface {
	ReadNativeBalance(ctx context.Context, address common.Address) entity.Reading[string]
	ReadToken(ctx context.Context, tokenAddress string) entity.Reading[entity.TokenView]
	RefreshNativeBalance(ctx context.Context) entity.Reading[string]
	LookupToken(ctx context.Context, tokenAddress string) entity.Reading[entity.TokenView]
}

// TransferService runs the transfer workflow.
type TransferService interface {
	Submit(ctx context.Context, req entity.TransferRequest) (*entity.PendingTransfer, error)
	Await(ctx context.Context, pending *entity.PendingTransfer) entity.TransactionOutcome
	Execute(ctx context.Context, req entity.TransferRequest) entity.TransactionOutcome
	State() entity.TransferState
}

// TransferTracker remembers the latest outcome of each submitted transfer.
type TransferTracker interface {
	Record(outcome entity.TransactionOutcome)
	Lookup(hash common.Hash) (entity.TransactionOutcome, bool)
}
