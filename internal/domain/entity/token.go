package entity

import "github.com/ethereum/go-ethereum/common"

// Token reader fallbacks.
const (
	MarkerInvalidAddress = "invalid address"
	MarkerTokenError     = "error reading token"
	MarkerConnectWallet  = "connect wallet"
)

// TokenView is the metadata and holder balance of an ERC-20 token. It is recomputed on every lookup.
type TokenView struct {
	Address  common.Address  `json:"address"`
	Name     string          `json:"name"`
	Symbol   string          `json:"symbol"`
	Decimals uint8           `json:"decimals"`
	Balance  Reading[string] `json:"-"`
}

// TokenInfo is a known token entry from the sample token lists.
type TokenInfo struct {
	ChainID  uint64 `json:"chainId"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}
