package client

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/time/rate"

	"wallet_client/internal/app/port"
)

// RateLimitedBackend throttles every RPC call through a token bucket.
type RateLimitedBackend struct {
	next    port.ChainBackend
	limiter *rate.Limiter
}

// NewRateLimitedBackend wraps next with limiter.
func NewRateLimitedBackend(next port.ChainBackend, limiter *rate.Limiter) *RateLimitedBackend {
	return &RateLimitedBackend{next: next, limiter: limiter}
}

func (b *RateLimitedBackend) ChainID(ctx context.Context) (*big.Int, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return b.next.ChainID(ctx)
}

func (b *RateLimitedBackend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return b.next.BalanceAt(ctx, account, blockNumber)
}

func (b *RateLimitedBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return b.next.CallContract(ctx, call, blockNumber)
}

func (b *RateLimitedBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return b.next.PendingNonceAt(ctx, account)
}

func (b *RateLimitedBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return b.next.SuggestGasPrice(ctx)
}

func (b *RateLimitedBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return b.next.EstimateGas(ctx, call)
}

func (b *RateLimitedBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	return b.next.SendTransaction(ctx, tx)
}

func (b *RateLimitedBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return b.next.TransactionReceipt(ctx, txHash)
}

var _ port.ChainBackend = (*RateLimitedBackend)(nil)
