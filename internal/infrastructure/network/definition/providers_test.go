package networkdefinition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wallet_client/internal/domain/entity"
	"wallet_client/internal/pkg/logger"
)

func TestResolveKnownChain(t *testing.T) {
	p := NewNetworkDefinitionProvider(logger.NewNopLogger())

	info, def := Resolve(p, 11155111)
	require.Equal(t, "sepolia (11155111)", info.Label())
	require.Equal(t, "ETH", info.NativeSymbol)
	require.Equal(t, Sepolia.Name, def.Name)
}

func TestResolveUnknownChain(t *testing.T) {
	p := NewNetworkDefinitionProvider(logger.NewNopLogger())

	info, _ := Resolve(p, 1337)
	require.Equal(t, "unknown (1337)", info.Label())
	require.Equal(t, "ETH", info.NativeSymbol)
}

func TestExtraDefinitionOverridesBuiltIn(t *testing.T) {
	custom := entity.NetworkDefinition{ChainID: 56, Identifier: "bnb", Name: "BNB", NativeSymbol: "tBNB", Decimals: 18}
	p := NewNetworkDefinitionProvider(logger.NewNopLogger(), custom)

	def, ok := p.GetNetworkDefinitionByChainID(56)
	require.True(t, ok)
	require.Equal(t, "tBNB", def.NativeSymbol)

	byName, ok := p.GetNetworkDefinitionByName("BNB")
	require.True(t, ok)
	require.Equal(t, uint64(56), byName.ChainID)
	require.Len(t, p.GetAllNetworkDefinitions(), len(knownNetworks))
}
