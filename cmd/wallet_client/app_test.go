package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"wallet_client/internal/infrastructure/display"
)

func TestPrintFields(t *testing.T) {
	var out bytes.Buffer
	printFields(&out, display.Fields{
		Address:       "0xabc",
		Network:       "sepolia (11155111)",
		NativeBalance: "1.5 ETH",
		Status:        display.StatusNotConnected,
		StatusIsError: true,
	})

	text := out.String()
	require.Contains(t, text, "Network:       sepolia (11155111)\n")
	require.Contains(t, text, "Balance:       1.5 ETH\n")
	require.Contains(t, text, "Error:         Please connect wallet first\n")
	require.NotContains(t, text, "Token")
}

func TestCommandTree(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	require.Subset(t, names, []string{"serve", "balance", "token", "send"})
	require.NotNil(t, sendCmd.Flags().Lookup("token"))
}
