package networkdefinition

import (
	"strings"

	"wallet_client/internal/app/port"
	"wallet_client/internal/domain/entity"
)

// UnknownNetworkName labels chains missing from the definition table.
const UnknownNetworkName = "unknown"

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger         port.Logger
	allNetworkDefs []entity.NetworkDefinition
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:                   1,
		Name:                      "Ethereum Mainnet",
		Identifier:                "mainnet",
		NativeSymbol:              "ETH",
		Decimals:                  18,
		DEXScreenerChainID:        "ethereum",
		WrappedNativeTokenAddress: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", // WETH
	}
	Sepolia = entity.NetworkDefinition{
		ChainID:      11155111,
		Name:         "Sepolia Testnet",
		Identifier:   "sepolia",
		NativeSymbol: "ETH",
		Decimals:     18,
	}
	Holesky = entity.NetworkDefinition{
		ChainID:      17000,
		Name:         "Holesky Testnet",
		Identifier:   "holesky",
		NativeSymbol: "ETH",
		Decimals:     18,
	}
	BSC = entity.NetworkDefinition{
		ChainID:                   56,
		Name:                      "BNB Smart Chain",
		Identifier:                "bsc",
		NativeSymbol:              "BNB",
		Decimals:                  18,
		DEXScreenerChainID:        "bsc",
		WrappedNativeTokenAddress: "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", // WBNB
	}
	Polygon = entity.NetworkDefinition{
		ChainID:                   137,
		Name:                      "Polygon PoS",
		Identifier:                "matic",
		NativeSymbol:              "POL",
		Decimals:                  18,
		DEXScreenerChainID:        "polygon",
		WrappedNativeTokenAddress: "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", // WMATIC
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:                   42161,
		Name:                      "Arbitrum One",
		Identifier:                "arbitrum",
		NativeSymbol:              "ETH",
		Decimals:                  18,
		DEXScreenerChainID:        "arbitrum",
		WrappedNativeTokenAddress: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", // WETH on Arbitrum
	}
	Optimism = entity.NetworkDefinition{
		ChainID:                   10,
		Name:                      "OP Mainnet",
		Identifier:                "optimism",
		NativeSymbol:              "ETH",
		Decimals:                  18,
		DEXScreenerChainID:        "optimism",
		WrappedNativeTokenAddress: "0x4200000000000000000000000000000000000006", // WETH on Optimism
	}
	Base = entity.NetworkDefinition{
		ChainID:                   8453,
		Name:                      "Base Mainnet",
		Identifier:                "base",
		NativeSymbol:              "ETH",
		Decimals:                  18,
		DEXScreenerChainID:        "base",
		WrappedNativeTokenAddress: "0x4200000000000000000000000000000000000006", // WETH on Base
	}
	Avalanche = entity.NetworkDefinition{
		ChainID:                   43114,
		Name:                      "Avalanche C-Chain",
		Identifier:                "avalanche",
		NativeSymbol:              "AVAX",
		Decimals:                  18,
		DEXScreenerChainID:        "avalanche",
		WrappedNativeTokenAddress: "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7", // WAVAX
	}
	Gnosis = entity.NetworkDefinition{
		ChainID:                   100,
		Name:                      "Gnosis Chain",
		Identifier:                "gnosis",
		NativeSymbol:              "xDAI",
		Decimals:                  18,
		DEXScreenerChainID:        "gnosis",
		WrappedNativeTokenAddress: "0xe91D153E0b41518A2Ce8Dd3D7944Fa863463a97d", // WXDAI
	}
	Linea = entity.NetworkDefinition{
		ChainID:                   59144,
		Name:                      "Linea Mainnet",
		Identifier:                "linea",
		NativeSymbol:              "ETH",
		Decimals:                  18,
		DEXScreenerChainID:        "linea",
		WrappedNativeTokenAddress: "0xe5D7C2a44FfDDf6b295A15c148167daaAf5Cf34f", // WETH on Linea
	}
)

var knownNetworks = []entity.NetworkDefinition{ //nolint:gochecknoglobals
	Ethereum, Sepolia, Holesky, BSC, Polygon, Arbitrum, Optimism, Base, Avalanche, Gnosis, Linea,
}

// NewNetworkDefinitionProvider creates a provider over the built-in table plus any extra definitions.
// Extra definitions override built-in ones with the same chain id.
func NewNetworkDefinitionProvider(log port.Logger, extra ...entity.NetworkDefinition) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{logger: log}

	overridden := make(map[uint64]struct{}, len(extra))
	for _, def := range extra {
		overridden[def.ChainID] = struct{}{}
	}
	for _, def := range knownNetworks {
		if _, ok := overridden[def.ChainID]; ok {
			log.Debug("Built-in network definition overridden by configuration", "chain_id", def.ChainID, "identifier", def.Identifier)
			continue
		}
		p.allNetworkDefs = append(p.allNetworkDefs, def)
	}
	p.allNetworkDefs = append(p.allNetworkDefs, extra...)

	log.Debug("NetworkDefinitionProvider initialized", "networks", len(p.allNetworkDefs))
	return p
}

// GetAllNetworkDefinitions returns every known network definition.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defsCopy := make([]entity.NetworkDefinition, len(p.allNetworkDefs))
	copy(defsCopy, p.allNetworkDefs)
	return defsCopy
}

// GetNetworkDefinitionByName returns a network definition by its identifier or display name.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(nameOrIdentifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.allNetworkDefs {
		if strings.EqualFold(def.Identifier, nameOrIdentifier) || strings.EqualFold(def.Name, nameOrIdentifier) {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// GetNetworkDefinitionByChainID returns a network definition by its chain ID.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.allNetworkDefs {
		if def.ChainID == chainID {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// Resolve names a chain id for display. Unknown chains are labelled "unknown" with an ETH native symbol.
func Resolve(p port.NetworkDefinitionProvider, chainID uint64) (entity.NetworkInfo, entity.NetworkDefinition) {
	def, ok := p.GetNetworkDefinitionByChainID(chainID)
	if !ok {
		def = entity.NetworkDefinition{
			ChainID:      chainID,
			Name:         UnknownNetworkName,
			Identifier:   UnknownNetworkName,
			NativeSymbol: "ETH",
			Decimals:     18,
		}
	}
	return entity.NetworkInfo{Name: def.Identifier, ChainID: chainID, NativeSymbol: def.NativeSymbol}, def
}
