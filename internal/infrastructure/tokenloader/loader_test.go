package tokenloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"wallet_client/internal/domain/entity"
	"wallet_client/internal/pkg/logger"
)

func TestLoadTokensFiltersInvalidEntries(t *testing.T) {
	dir := t.TempDir()
	content := `[
  {"chainId": 11155111, "address": "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238", "name": "USD Coin", "symbol": "USDC", "decimals": 6},
  {"chainId": 1, "address": "0xdAC17F958D2ee523a2206206994597C13D831ec7", "name": "Tether", "symbol": "USDT", "decimals": 6},
  {"chainId": 11155111, "address": "not-an-address", "name": "Broken", "symbol": "BRK", "decimals": 18}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sepolia.json"), []byte(content), 0o600))

	l := NewTokenLoader(dir, logger.NewNopLogger())
	tokens, err := l.LoadTokens(entity.NetworkDefinition{ChainID: 11155111, Identifier: "sepolia"})
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	require.Equal(t, "USDC", tokens[0].Symbol)
	require.Equal(t, uint8(6), tokens[0].Decimals)
}

func TestLoadTokensMissingFile(t *testing.T) {
	l := NewTokenLoader(t.TempDir(), logger.NewNopLogger())
	tokens, err := l.LoadTokens(entity.NetworkDefinition{ChainID: 1, Identifier: "mainnet"})
	require.NoError(t, err)
	require.Empty(t, tokens)
}

func TestLoadTokensMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mainnet.json"), []byte("{"), 0o600))

	l := NewTokenLoader(dir, logger.NewNopLogger())
	_, err := l.LoadTokens(entity.NetworkDefinition{ChainID: 1, Identifier: "mainnet"})
	require.Error(t, err)
}
