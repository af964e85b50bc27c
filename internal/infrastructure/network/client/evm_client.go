package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"wallet_client/internal/app/port"
)

// EVMClient implements port.BlockchainClient for EVM-compatible chains.
type EVMClient struct {
	backend        port.ChainBackend
	rpcCallTimeout time.Duration
	pollInterval   time.Duration
}

// ERC20 ABI minimal part: name, symbol, decimals, balanceOf, transfer
const erc20ABI = `[
{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"stateMutability":"view","type":"function"},
{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
)

// ERC20ABI returns the parsed minimal ERC-20 ABI.
func ERC20ABI() abi.ABI {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
	})
	return parsedERC20ABI
}

// NewEVMClient creates a client over an already dialed backend.
func NewEVMClient(backend port.ChainBackend, rpcCallTimeout, pollInterval time.Duration) *EVMClient {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &EVMClient{backend: backend, rpcCallTimeout: rpcCallTimeout, pollInterval: pollInterval}
}

func (c *EVMClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.rpcCallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.rpcCallTimeout)
}

// ChainID returns the chain id reported by the backend.
func (c *EVMClient) ChainID(ctx context.Context) (*big.Int, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	id, err := c.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain id: %w", err)
	}
	return id, nil
}

// GetNativeBalance fetches the native currency balance for a wallet.
func (c *EVMClient) GetNativeBalance(ctx context.Context, walletAddress common.Address) (*big.Int, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	balance, err := c.backend.BalanceAt(ctx, walletAddress, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch native balance for %s: %w", walletAddress.Hex(), err)
	}
	return balance, nil
}

func (c *EVMClient) callERC20(ctx context.Context, token common.Address, method string, args ...any) ([]any, error) {
	parsed := ERC20ABI()
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()
	raw, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call to %s failed: %w", method, token.Hex(), err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s call to %s returned no data", method, token.Hex())
	}

	unpacked, err := parsed.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result from %s: %w", method, token.Hex(), err)
	}
	if len(unpacked) == 0 {
		return nil, fmt.Errorf("%s unpack returned no data for %s", method, token.Hex())
	}
	return unpacked, nil
}

// GetTokenName reads the token's name().
func (c *EVMClient) GetTokenName(ctx context.Context, token common.Address) (string, error) {
	out, err := c.callERC20(ctx, token, "name")
	if err != nil {
		return "", err
	}
	name, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected name() result type %T", out[0])
	}
	return name, nil
}

// GetTokenSymbol reads the token's symbol().
func (c *EVMClient) GetTokenSymbol(ctx context.Context, token common.Address) (string, error) {
	out, err := c.callERC20(ctx, token, "symbol")
	if err != nil {
		return "", err
	}
	symbol, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected symbol() result type %T", out[0])
	}
	return symbol, nil
}

// GetTokenDecimals reads the token's decimals().
func (c *EVMClient) GetTokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	out, err := c.callERC20(ctx, token, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals() result type %T", out[0])
	}
	return decimals, nil
}

// GetTokenBalance fetches the balance of a specific token for a wallet.
func (c *EVMClient) GetTokenBalance(ctx context.Context, token common.Address, walletAddress common.Address) (*big.Int, error) {
	out, err := c.callERC20(ctx, token, "balanceOf", walletAddress)
	if err != nil {
		return nil, err
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf() result type %T", out[0])
	}
	return balance, nil
}

// SendValue signs and submits a native value transfer.
func (c *EVMClient) SendValue(ctx context.Context, signer port.Signer, to common.Address, value *big.Int) (*types.Transaction, error) {
	return c.send(ctx, signer, to, value, nil)
}

// SendTokenTransfer signs and submits an ERC-20 transfer(to, amount) call.
func (c *EVMClient) SendTokenTransfer(ctx context.Context, signer port.Signer, token common.Address, to common.Address, amount *big.Int) (*types.Transaction, error) {
	data, err := ERC20ABI().Pack("transfer", to, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack transfer call: %w", err)
	}
	return c.send(ctx, signer, token, nil, data)
}

func (c *EVMClient) send(ctx context.Context, signer port.Signer, to common.Address, value *big.Int, data []byte) (*types.Transaction, error) {
	if value == nil {
		value = new(big.Int)
	}
	from := signer.Address()

	chainID, err := c.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	nonce, err := c.backend.PendingNonceAt(callCtx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	gasPrice, err := c.backend.SuggestGasPrice(callCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	gasLimit, err := c.backend.EstimateGas(callCtx, ethereum.CallMsg{
		From:     from,
		To:       &to,
		Value:    value,
		Data:     data,
		GasPrice: gasPrice,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)
	signedTx, err := signer.SignTx(ctx, tx, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.backend.SendTransaction(callCtx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	return signedTx, nil
}

// WaitMined polls for the receipt of txHash until it is available or ctx is done.
// RPC errors other than "not found" are retried; the last one is reported if ctx expires.
func (c *EVMClient) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		callCtx, cancel := c.callContext(ctx)
		receipt, err := c.backend.TransactionReceipt(callCtx, txHash)
		cancel()
		switch {
		case err == nil && receipt != nil:
			return receipt, nil
		case err != nil && !errors.Is(err, ethereum.NotFound):
			lastErr = err
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, fmt.Errorf("waiting for transaction %s: %w (last rpc error: %v)", txHash.Hex(), ctx.Err(), lastErr)
			}
			return nil, fmt.Errorf("waiting for transaction %s: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

var _ port.BlockchainClient = (*EVMClient)(nil)
