package entity

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AssetKind selects between a native value transfer and a token contract call.
type AssetKind int

const (
	NativeAsset AssetKind = iota
	TokenAsset
)

// ParseAssetKind maps the selector values used by the client ("ETH", "ERC20").
func ParseAssetKind(s string) (AssetKind, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ETH", "NATIVE":
		return NativeAsset, true
	case "ERC20", "TOKEN":
		return TokenAsset, true
	default:
		return NativeAsset, false
	}
}

func (k AssetKind) String() string {
	if k == TokenAsset {
		return "ERC20"
	}
	return "ETH"
}

// TransferRequest is a user-initiated transfer. It is validated before submission and never persisted.
type TransferRequest struct {
	Asset     AssetKind
	Token     string
	Recipient string
	Amount    string
}

// TransferState is a step of the transfer workflow.
type TransferState int

const (
	StateIdle TransferState = iota
	StateValidating
	StateSubmitting
	StatePending
	StateConfirmed
	StateFailed
)

var transferStateNames = map[TransferState]string{
	StateIdle:       "idle",
	StateValidating: "validating",
	StateSubmitting: "submitting",
	StatePending:    "pending",
	StateConfirmed:  "confirmed",
	StateFailed:     "failed",
}

func (s TransferState) String() string {
	if name, ok := transferStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// OutcomeKind is the progression reported for a submitted transfer.
type OutcomeKind int

const (
	OutcomeSubmitted OutcomeKind = iota
	OutcomeConfirmed
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSubmitted:
		return "submitted"
	case OutcomeConfirmed:
		return "confirmed"
	default:
		return "failed"
	}
}

// TransactionOutcome is one step of a transfer's lifecycle.
type TransactionOutcome struct {
	Kind   OutcomeKind
	Asset  AssetKind
	TxHash common.Hash
	Err    error
}

// Submitted reports a transaction accepted by the wallet and waiting for confirmation.
func Submitted(asset AssetKind, hash common.Hash) TransactionOutcome {
	return TransactionOutcome{Kind: OutcomeSubmitted, Asset: asset, TxHash: hash}
}

// Confirmed reports a mined, successful transaction.
func Confirmed(asset AssetKind, hash common.Hash) TransactionOutcome {
	return TransactionOutcome{Kind: OutcomeConfirmed, Asset: asset, TxHash: hash}
}

// Failed reports a rejected or reverted transaction. hash is zero when nothing was submitted.
func Failed(asset AssetKind, hash common.Hash, err error) TransactionOutcome {
	return TransactionOutcome{Kind: OutcomeFailed, Asset: asset, TxHash: hash, Err: err}
}

// PendingTransfer is a submitted transfer waiting for network confirmation.
type PendingTransfer struct {
	Asset     AssetKind
	Token     common.Address
	Recipient common.Address
	TxHash    common.Hash
}
