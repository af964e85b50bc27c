package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"wallet_client/internal/app/port"
	"wallet_client/internal/domain/entity"
	"wallet_client/internal/infrastructure/httpclient"
)

var stablecoinSymbols = map[string]struct{}{
	"USDC": {},
	"USDT": {},
	"DAI":  {},
}

// tokenPriceServiceImpl implements port.TokenPriceService
type tokenPriceServiceImpl struct {
	dexscreenerClient httpclient.DEXScreenerClient
	logger            port.Logger
	prices            *cache.Cache
}

// NewTokenPriceService creates a price service caching DEX Screener quotes for ttl.
func NewTokenPriceService(dsc httpclient.DEXScreenerClient, l port.Logger, ttl time.Duration) port.TokenPriceService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	s := &tokenPriceServiceImpl{
		dexscreenerClient: dsc,
		logger:            l,
		prices:            cache.New(ttl, 2*ttl),
	}
	l.Info("TokenPriceService initialized", "cache_ttl", ttl)
	return s
}

// GetNativePriceUSD prices the network's native currency through its wrapped token.
func (s *tokenPriceServiceImpl) GetNativePriceUSD(ctx context.Context, netDef entity.NetworkDefinition) (float64, bool) {
	dexID := netDef.DEXScreenerChainID
	tokenAddress := netDef.WrappedNativeTokenAddress
	if dexID == "" || tokenAddress == "" {
		s.logger.Debug("Network has no DEX Screener pricing", "network", netDef.Name)
		return 0, false
	}

	key := dexID + ":" + strings.ToLower(tokenAddress)
	if cached, ok := s.prices.Get(key); ok {
		return cached.(float64), true
	}

	pairs, err := s.dexscreenerClient.GetTokenPairsByAddresses(ctx, dexID, []string{tokenAddress})
	if err != nil {
		s.logger.Warn("Failed to get token pairs from DEXScreener", "dexScreenerID", dexID, "tokenAddress", tokenAddress, "error", err)
		return 0, false
	}

	priceStr := s.selectBestPriceFromPairs(pairs, tokenAddress)
	if priceStr == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price <= 0 {
		s.logger.Warn("Failed to parse token price from DEXScreener", "tokenAddress", tokenAddress, "price_string", priceStr, "error", err)
		return 0, false
	}

	s.prices.SetDefault(key, price)
	s.logger.Debug("Cached native price", "network", netDef.Name, "priceUSD", price)
	return price, true
}

// selectBestPriceFromPairs prefers the most liquid stablecoin-quoted pair, then the most liquid pair.
func (s *tokenPriceServiceImpl) selectBestPriceFromPairs(pairs []entity.PairData, baseTokenAddress string) string {
	var bestOverallPair *entity.PairData
	var bestStablecoinPair *entity.PairData

	for i := range pairs {
		pair := &pairs[i]
		if !strings.EqualFold(pair.BaseToken.Address, baseTokenAddress) {
			continue
		}
		if pair.PriceUsd == "" || pair.PriceUsd == "0" {
			continue
		}

		if _, isStablecoin := stablecoinSymbols[strings.ToUpper(pair.QuoteToken.Symbol)]; isStablecoin {
			if bestStablecoinPair == nil || liquidityUSD(pair) > liquidityUSD(bestStablecoinPair) {
				bestStablecoinPair = pair
			}
		}
		if bestOverallPair == nil || liquidityUSD(pair) > liquidityUSD(bestOverallPair) {
			bestOverallPair = pair
		}
	}

	switch {
	case bestStablecoinPair != nil:
		return bestStablecoinPair.PriceUsd
	case bestOverallPair != nil:
		return bestOverallPair.PriceUsd
	default:
		s.logger.Warn("No suitable price found from pairs", "baseTokenAddress", baseTokenAddress, "evaluatedPairCount", len(pairs))
		return ""
	}
}

func liquidityUSD(pair *entity.PairData) float64 {
	if pair.Liquidity == nil {
		return 0
	}
	return pair.Liquidity.Usd
}
