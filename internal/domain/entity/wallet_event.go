package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// WalletEventKind distinguishes wallet notifications.
type WalletEventKind int

const (
	// AccountsChanged is emitted when the set of accounts exposed by the wallet changes.
	AccountsChanged WalletEventKind = iota
	// ChainChanged is emitted when the wallet's active network changes.
	ChainChanged
)

func (k WalletEventKind) String() string {
	switch k {
	case AccountsChanged:
		return "accountsChanged"
	case ChainChanged:
		return "chainChanged"
	default:
		return "unknown"
	}
}

// WalletEvent is a notification delivered by an injected wallet.
type WalletEvent struct {
	Kind     WalletEventKind
	Accounts []common.Address
	ChainID  *big.Int
}
