package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetTokenPairsByAddresses(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"chainId":"ethereum","pairAddress":"0xpair","baseToken":{"address":"0xweth","symbol":"WETH"},"quoteToken":{"symbol":"USDC"},"priceUsd":"3000.5","liquidity":{"usd":1000}}]`))
	}))
	defer srv.Close()

	c := NewDEXScreenerClient(srv.URL+"/", time.Second, zap.NewNop(), 0)
	pairs, err := c.GetTokenPairsByAddresses(context.Background(), "ethereum", []string{"0xweth"})
	require.NoError(t, err)
	require.Equal(t, "/tokens/v1/ethereum/0xweth", gotPath)
	require.Len(t, pairs, 1)
	require.Equal(t, "3000.5", pairs[0].PriceUsd)
	require.Equal(t, "USDC", pairs[0].QuoteToken.Symbol)
	require.InDelta(t, 1000.0, pairs[0].Liquidity.Usd, 0.001)
}

func TestGetTokenPairsWrappedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"schemaVersion":"1.0.0","pairs":[{"baseToken":{"address":"0xweth"},"priceUsd":"2.0"}]}`))
	}))
	defer srv.Close()

	c := NewDEXScreenerClient(srv.URL, time.Second, zap.NewNop(), 0)
	pairs, err := c.GetTokenPairsByAddresses(context.Background(), "ethereum", []string{"0xweth"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	require.Nil(t, pairs[0].Liquidity)
}

func TestGetTokenPairsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewDEXScreenerClient(srv.URL, time.Second, zap.NewNop(), 1)

	_, err := c.GetTokenPairsByAddresses(context.Background(), "ethereum", nil)
	require.Error(t, err)

	_, err = c.GetTokenPairsByAddresses(context.Background(), "ethereum", []string{"0xa", "0xb"})
	require.ErrorContains(t, err, "exceeds max tokens")

	_, err = c.GetTokenPairsByAddresses(context.Background(), "ethereum", []string{"0xa"})
	require.ErrorContains(t, err, "status 429")
}
