package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"

	"wallet_client/internal/app/port"
	"wallet_client/internal/config"
)

const (
	defaultProviderConnectionTimeout = 10 * time.Second
)

// DialFunc opens a backend for a single RPC URL.
type DialFunc func(ctx context.Context, rpcURL string) (port.ChainBackend, error)

func dialEthClient(ctx context.Context, rpcURL string) (port.ChainBackend, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// evmClientProvider implements port.BlockchainClientProvider.
type evmClientProvider struct {
	backends          map[string]port.ChainBackend
	mu                sync.Mutex
	logger            port.Logger
	dial              DialFunc
	connectionTimeout time.Duration
	rateLimit         rate.Limit
	burst             int
}

// NewEVMClientProvider creates a provider dialing with go-ethereum's ethclient.
func NewEVMClientProvider(cfg *config.Config, logger port.Logger) port.BlockchainClientProvider {
	return NewEVMClientProviderWithDialer(cfg, logger, dialEthClient)
}

// NewEVMClientProviderWithDialer creates a provider with a custom dial function.
func NewEVMClientProviderWithDialer(cfg *config.Config, logger port.Logger, dial DialFunc) port.BlockchainClientProvider {
	p := &evmClientProvider{
		backends:          make(map[string]port.ChainBackend),
		logger:            logger,
		dial:              dial,
		connectionTimeout: defaultProviderConnectionTimeout,
	}
	if cfg != nil {
		if cfg.RpcClient.ConnectTimeoutMs > 0 {
			p.connectionTimeout = time.Duration(cfg.RpcClient.ConnectTimeoutMs) * time.Millisecond
		}
		if cfg.RpcClient.RateLimit > 0 {
			p.rateLimit = rate.Limit(cfg.RpcClient.RateLimit)
			p.burst = cfg.RpcClient.BurstLimit
		}
	}
	return p
}

// GetBackend returns a backend for the endpoint set, dialing the primary URL first and the
// fallbacks in order. Backends are cached per endpoint set.
func (p *evmClientProvider) GetBackend(ctx context.Context, rpcURLs []string) (port.ChainBackend, error) {
	if len(rpcURLs) == 0 {
		return nil, errors.New("no RPC endpoints configured")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	key := strings.Join(rpcURLs, ",")
	if backend, exists := p.backends[key]; exists {
		p.logger.Debug("Returning cached RPC backend", "rpc_primary", rpcURLs[0])
		return backend, nil
	}

	var lastErr error
	for _, rpcURL := range rpcURLs {
		dialCtx, cancel := context.WithTimeout(ctx, p.connectionTimeout)
		backend, err := p.dial(dialCtx, rpcURL)
		cancel()
		if err != nil {
			lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
			p.logger.Warn("RPC endpoint unavailable, trying next", "rpc", rpcURL, "error", err)
			continue
		}

		if p.rateLimit > 0 {
			backend = NewRateLimitedBackend(backend, rate.NewLimiter(p.rateLimit, p.burst))
		}
		p.backends[key] = backend
		p.logger.Info("Connected to RPC endpoint", "rpc", rpcURL)
		return backend, nil
	}

	p.logger.Error("All RPC connection attempts failed", "endpoints", len(rpcURLs), "error", lastErr)
	return nil, fmt.Errorf("all RPC connection attempts failed: %w", lastErr)
}
