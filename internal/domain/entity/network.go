package entity

import "fmt"

// NetworkDefinition holds static facts about a known chain.
type NetworkDefinition struct {
	ChainID                   uint64 `json:"chainId" yaml:"chainId"`
	Name                      string `json:"name" yaml:"name"`
	Identifier                string `json:"identifier" yaml:"identifier"`
	NativeSymbol              string `json:"nativeSymbol" yaml:"nativeSymbol"`
	Decimals                  uint8  `json:"decimals" yaml:"decimals"`
	DEXScreenerChainID        string `json:"dexScreenerChainId,omitempty" yaml:"dexScreenerChainId,omitempty"`
	WrappedNativeTokenAddress string `json:"wrappedNativeTokenAddress,omitempty" yaml:"wrappedNativeTokenAddress,omitempty"`
}

// NetworkInfo is the network a session is connected to.
type NetworkInfo struct {
	Name         string `json:"name"`
	ChainID      uint64 `json:"chainId"`
	NativeSymbol string `json:"nativeSymbol"`
}

// Label renders the network the way the client shows it, e.g. "sepolia (11155111)".
func (n NetworkInfo) Label() string {
	return fmt.Sprintf("%s (%d)", n.Name, n.ChainID)
}
