package port

import (
	"context"

	"wallet_client/internal/domain/entity"
)

// TokenProvider supplies sample token lists per network.
type TokenProvider interface {
	GetTokensByNetwork(netDef entity.NetworkDefinition) ([]entity.TokenInfo, error)
}

// TokenPriceService prices tokens in USD.
type TokenPriceService interface {
	GetNativePriceUSD(ctx context.Context, netDef entity.NetworkDefinition) (float64, bool)
}
