package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
network:
  rpcURLs: ["http://localhost:8545"]
wallets:
  - kind: privateKey
    privateKeyEnv: DEV_KEY
`))
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.EqualValues(t, 10000, cfg.RpcClient.CallTimeoutMs)
	require.Equal(t, 15, cfg.Refresh.BalanceIntervalSeconds)
	require.Equal(t, 5, cfg.Refresh.ChainPollSeconds)
	require.Equal(t, 600, cfg.Transfers.ConfirmTimeoutSeconds)
	require.Equal(t, "data/tokens", cfg.Tokens.SamplesDir)
	require.Equal(t, "https://api.dexscreener.com", cfg.DEXScreener.BaseURL)
	require.Equal(t, "/swagger", cfg.Swagger.Path)

	require.Len(t, cfg.Wallets, 1)
	require.Equal(t, "privateKey-0", cfg.Wallets[0].Name)
	require.Equal(t, []string{"http://localhost:8545"}, cfg.Wallets[0].RPCURLs)
}

func TestParseKeepsExplicitValues(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  port: "9090"
rpcClient:
  rateLimit: 4
wallets:
  - name: dev
    kind: keystore
    keystoreDir: ./keys
    rpcURLs: ["http://node:8545"]
`))
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, 4, cfg.RpcClient.BurstLimit)
	require.Equal(t, "dev", cfg.Wallets[0].Name)
	require.Equal(t, []string{"http://node:8545"}, cfg.Wallets[0].RPCURLs)
}

func TestParseRejectsBadWallets(t *testing.T) {
	tests := map[string]string{
		"unknown kind":       "wallets: [{name: x, kind: ledger}]",
		"missing keystore":   "wallets: [{name: x, kind: keystore}]",
		"missing key env":    "wallets: [{name: x, kind: privateKey}]",
		"malformed account":  "wallets: [{name: x, kind: keystore, keystoreDir: k, account: abc}]",
		"malformed document": "wallets: {",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"7000\"\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "7000", cfg.Server.Port)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
