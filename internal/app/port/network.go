package port

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"wallet_client/internal/domain/entity"
)

// ChainBackend is the RPC surface the client needs from a chain provider.
// *ethclient.Client and the simulated backend client both satisfy it.
type ChainBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// BlockchainClient reads balances and token metadata and submits transfers over a ChainBackend.
type BlockchainClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	GetNativeBalance(ctx context.Context, walletAddress common.Address) (*big.Int, error)
	GetTokenName(ctx context.Context, token common.Address) (string, error)
	GetTokenSymbol(ctx context.Context, token common.Address) (string, error)
	GetTokenDecimals(ctx context.Context, token common.Address) (uint8, error)
	GetTokenBalance(ctx context.Context, token common.Address, walletAddress common.Address) (*big.Int, error)
	SendValue(ctx context.Context, signer Signer, to common.Address, value *big.Int) (*types.Transaction, error)
	SendTokenTransfer(ctx context.Context, signer Signer, token common.Address, to common.Address, amount *big.Int) (*types.Transaction, error)
	WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// BlockchainClientProvider dials and caches backends for RPC endpoint sets.
type BlockchainClientProvider interface {
	GetBackend(ctx context.Context, rpcURLs []string) (ChainBackend, error)
}

// NetworkDefinitionProvider resolves chain ids into network definitions.
type NetworkDefinitionProvider interface {
	GetAllNetworkDefinitions() []entity.NetworkDefinition
	GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool)
	GetNetworkDefinitionByName(nameOrIdentifier string) (entity.NetworkDefinition, bool)
}
