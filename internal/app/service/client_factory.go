package service

import (
	"time"

	"wallet_client/internal/app/port"
	"wallet_client/internal/infrastructure/network/client"
)

// ClientFactory wraps the session's backend into a BlockchainClient.
type ClientFactory func(backend port.ChainBackend) port.BlockchainClient

// NewClientFactory returns a factory building EVM clients with the given per-call timeout
// and receipt poll interval.
func NewClientFactory(callTimeout, pollInterval time.Duration) ClientFactory {
	return func(backend port.ChainBackend) port.BlockchainClient {
		return client.NewEVMClient(backend, callTimeout, pollInterval)
	}
}
