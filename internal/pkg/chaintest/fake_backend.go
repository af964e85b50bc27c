// Package chaintest provides an in-memory chain backend with ERC-20 token emulation for tests.
package chaintest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"wallet_client/internal/app/port"
	"wallet_client/internal/infrastructure/network/client"
)

// Token is an emulated ERC-20 contract.
type Token struct {
	Name     string
	Symbol   string
	Decimals uint8
	Balances map[common.Address]*big.Int
	// Broken makes every call to the token fail.
	Broken bool
	// Revert makes transfers mine with a failed receipt.
	Revert bool
}

// Backend is an in-memory port.ChainBackend.
type Backend struct {
	mu sync.Mutex

	ChainIDValue *big.Int
	Native       map[common.Address]*big.Int
	Tokens       map[common.Address]*Token
	GasPrice     *big.Int

	// AutoMine makes receipts available as soon as a transaction is sent.
	AutoMine   bool
	BalanceErr error
	SendErr    error
	ChainIDErr error

	Sent     []*types.Transaction
	calls    int
	pending  map[common.Hash]*types.Receipt
	receipts map[common.Hash]*types.Receipt
}

// NewBackend returns an empty backend on the given chain id.
func NewBackend(chainID int64) *Backend {
	return &Backend{
		ChainIDValue: big.NewInt(chainID),
		Native:       make(map[common.Address]*big.Int),
		Tokens:       make(map[common.Address]*Token),
		GasPrice:     big.NewInt(1_000_000_000),
		AutoMine:     true,
		pending:      make(map[common.Hash]*types.Receipt),
		receipts:     make(map[common.Hash]*types.Receipt),
	}
}

// AddToken registers an emulated token at addr.
func (b *Backend) AddToken(addr common.Address, token *Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if token.Balances == nil {
		token.Balances = make(map[common.Address]*big.Int)
	}
	b.Tokens[addr] = token
}

// SetChainID changes the chain id reported by the backend.
func (b *Backend) SetChainID(chainID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ChainIDValue = big.NewInt(chainID)
}

// SetNativeBalance overrides the native balance of account.
func (b *Backend) SetNativeBalance(account common.Address, balance *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Native[account] = new(big.Int).Set(balance)
}

// Calls returns the number of RPC calls served so far.
func (b *Backend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// SentTransactions returns a copy of the submitted transactions.
func (b *Backend) SentTransactions() []*types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*types.Transaction, len(b.Sent))
	copy(out, b.Sent)
	return out
}

// Mine makes every pending receipt available.
func (b *Backend) Mine() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for h, r := range b.pending {
		b.receipts[h] = r
		delete(b.pending, h)
	}
}

// TokenBalance returns the emulated token balance of holder.
func (b *Backend) TokenBalance(token, holder common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.Tokens[token]
	if !ok || t.Balances[holder] == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(t.Balances[holder])
}

func (b *Backend) ChainID(context.Context) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.ChainIDErr != nil {
		return nil, b.ChainIDErr
	}
	return new(big.Int).Set(b.ChainIDValue), nil
}

func (b *Backend) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.BalanceErr != nil {
		return nil, b.BalanceErr
	}
	if bal, ok := b.Native[account]; ok {
		return new(big.Int).Set(bal), nil
	}
	return new(big.Int), nil
}

func (b *Backend) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if call.To == nil {
		return nil, errors.New("call without target")
	}
	token, ok := b.Tokens[*call.To]
	if !ok {
		return nil, nil
	}
	if token.Broken {
		return nil, errors.New("execution reverted")
	}
	if len(call.Data) < 4 {
		return nil, errors.New("short calldata")
	}

	parsed := client.ERC20ABI()
	method, err := parsed.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case "name":
		return method.Outputs.Pack(token.Name)
	case "symbol":
		return method.Outputs.Pack(token.Symbol)
	case "decimals":
		return method.Outputs.Pack(token.Decimals)
	case "balanceOf":
		holder := args[0].(common.Address)
		bal := token.Balances[holder]
		if bal == nil {
			bal = new(big.Int)
		}
		return method.Outputs.Pack(bal)
	default:
		return nil, fmt.Errorf("unsupported call %s", method.Name)
	}
}

func (b *Backend) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	signer := types.LatestSignerForChainID(b.ChainIDValue)
	var nonce uint64
	for _, tx := range b.Sent {
		if from, err := types.Sender(signer, tx); err == nil && from == account {
			nonce++
		}
	}
	return nonce, nil
}

func (b *Backend) SuggestGasPrice(context.Context) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return new(big.Int).Set(b.GasPrice), nil
}

func (b *Backend) EstimateGas(_ context.Context, call ethereum.CallMsg) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if len(call.Data) == 0 {
		return 21000, nil
	}
	return 60000, nil
}

func (b *Backend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.SendErr != nil {
		return b.SendErr
	}

	from, err := types.Sender(types.LatestSignerForChainID(b.ChainIDValue), tx)
	if err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}

	status := types.ReceiptStatusSuccessful
	if token, ok := b.Tokens[*tx.To()]; ok && len(tx.Data()) > 0 {
		status = b.applyTokenTransfer(token, from, tx.Data())
	} else {
		b.applyValueTransfer(from, *tx.To(), tx.Value())
	}

	b.Sent = append(b.Sent, tx)
	receipt := &types.Receipt{Status: status, TxHash: tx.Hash(), GasUsed: tx.Gas()}
	if b.AutoMine {
		b.receipts[tx.Hash()] = receipt
	} else {
		b.pending[tx.Hash()] = receipt
	}
	return nil
}

func (b *Backend) applyValueTransfer(from, to common.Address, value *big.Int) {
	if value == nil || value.Sign() == 0 {
		return
	}
	if b.Native[from] == nil {
		b.Native[from] = new(big.Int)
	}
	if b.Native[to] == nil {
		b.Native[to] = new(big.Int)
	}
	b.Native[from] = new(big.Int).Sub(b.Native[from], value)
	b.Native[to] = new(big.Int).Add(b.Native[to], value)
}

func (b *Backend) applyTokenTransfer(token *Token, from common.Address, data []byte) uint64 {
	if token.Revert || token.Broken || len(data) < 4 {
		return types.ReceiptStatusFailed
	}
	parsed := client.ERC20ABI()
	method, err := parsed.MethodById(data[:4])
	if err != nil || method.Name != "transfer" {
		return types.ReceiptStatusFailed
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return types.ReceiptStatusFailed
	}
	to := args[0].(common.Address)
	amount := args[1].(*big.Int)

	have := token.Balances[from]
	if have == nil || have.Cmp(amount) < 0 {
		return types.ReceiptStatusFailed
	}
	token.Balances[from] = new(big.Int).Sub(have, amount)
	if token.Balances[to] == nil {
		token.Balances[to] = new(big.Int)
	}
	token.Balances[to] = new(big.Int).Add(token.Balances[to], amount)
	return types.ReceiptStatusSuccessful
}

func (b *Backend) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if r, ok := b.receipts[txHash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

var _ port.ChainBackend = (*Backend)(nil)
