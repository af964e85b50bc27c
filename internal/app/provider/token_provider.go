package provider

import (
	"sync"

	"wallet_client/internal/app/port"
	"wallet_client/internal/domain/entity"
)

// TokenLoader reads the sample token list of one network.
type TokenLoader interface {
	LoadTokens(netDef entity.NetworkDefinition) ([]entity.TokenInfo, error)
}

type tokenProviderImpl struct {
	logger port.Logger
	source TokenLoader

	mu          sync.Mutex
	tokensCache map[uint64][]entity.TokenInfo
}

// NewTokenProvider creates a TokenProvider that caches sample lists per chain.
func NewTokenProvider(source TokenLoader, logger port.Logger) port.TokenProvider {
	return &tokenProviderImpl{
		logger:      logger,
		source:      source,
		tokensCache: make(map[uint64][]entity.TokenInfo),
	}
}

// GetTokensByNetwork returns the sample tokens for netDef, loading them on first use.
func (p *tokenProviderImpl) GetTokensByNetwork(netDef entity.NetworkDefinition) ([]entity.TokenInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tokens, ok := p.tokensCache[netDef.ChainID]; ok {
		p.logger.Debug("Returning cached sample tokens", "network", netDef.Identifier)
		return tokens, nil
	}

	tokens, err := p.source.LoadTokens(netDef)
	if err != nil {
		p.logger.Error("Failed to load sample tokens", "network", netDef.Identifier, "error", err)
		return nil, err
	}

	p.tokensCache[netDef.ChainID] = tokens
	p.logger.Info("Sample tokens loaded and cached", "network", netDef.Identifier, "count", len(tokens))
	return tokens, nil
}
