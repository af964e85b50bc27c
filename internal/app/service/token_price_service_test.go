package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wallet_client/internal/domain/entity"
	"wallet_client/internal/pkg/logger"
)

type stubDEXClient struct {
	pairs []entity.PairData
	err   error
	calls int
}

func (c *stubDEXClient) GetTokenPairsByAddresses(context.Context, string, []string) ([]entity.PairData, error) {
	c.calls++
	return c.pairs, c.err
}

var pricedNetwork = entity.NetworkDefinition{
	ChainID:                   1,
	Name:                      "Ethereum",
	DEXScreenerChainID:        "ethereum",
	WrappedNativeTokenAddress: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
}

func pair(quote, price string, liquidity float64) entity.PairData {
	return entity.PairData{
		BaseToken:  entity.DEXToken{Address: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"},
		QuoteToken: entity.DEXToken{Symbol: quote},
		PriceUsd:   price,
		Liquidity:  &entity.DEXLiquidity{Usd: liquidity},
	}
}

func TestNativePricePrefersStablecoinPairs(t *testing.T) {
	dex := &stubDEXClient{pairs: []entity.PairData{
		pair("WBTC", "2990", 9_000_000),
		pair("USDC", "3000", 1_000_000),
		pair("USDT", "3001", 2_000_000),
	}}
	svc := NewTokenPriceService(dex, logger.NewNopLogger(), time.Minute)

	price, ok := svc.GetNativePriceUSD(context.Background(), pricedNetwork)
	require.True(t, ok)
	require.InDelta(t, 3001.0, price, 1e-9)

	_, ok = svc.GetNativePriceUSD(context.Background(), pricedNetwork)
	require.True(t, ok)
	require.Equal(t, 1, dex.calls)
}

func TestNativePriceFallsBackToMostLiquidPair(t *testing.T) {
	dex := &stubDEXClient{pairs: []entity.PairData{
		pair("WBTC", "2990", 9_000_000),
		pair("LINK", "2950", 10),
		pair("USDC", "0", 5_000_000),
	}}
	svc := NewTokenPriceService(dex, logger.NewNopLogger(), time.Minute)

	price, ok := svc.GetNativePriceUSD(context.Background(), pricedNetwork)
	require.True(t, ok)
	require.InDelta(t, 2990.0, price, 1e-9)
}

func TestNativePriceUnavailable(t *testing.T) {
	dex := &stubDEXClient{err: errors.New("boom")}
	svc := NewTokenPriceService(dex, logger.NewNopLogger(), time.Minute)

	_, ok := svc.GetNativePriceUSD(context.Background(), pricedNetwork)
	require.False(t, ok)

	_, ok = svc.GetNativePriceUSD(context.Background(), entity.NetworkDefinition{Name: "Sepolia"})
	require.False(t, ok)
	require.Equal(t, 1, dex.calls)
}
