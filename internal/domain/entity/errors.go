package entity

import "errors"

// Error kinds surfaced by user actions. None of them is fatal to the client.
var (
	ErrNoWalletDetected    = errors.New("no injected wallet detected")
	ErrConnectionRejected  = errors.New("connection rejected")
	ErrNotConnected        = errors.New("wallet not connected")
	ErrInvalidRecipient    = errors.New("invalid recipient address")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidToken        = errors.New("invalid token address")
	ErrTokenQueryFailed    = errors.New("token query failed")
	ErrTransactionRejected = errors.New("transaction rejected")
	ErrTransactionReverted = errors.New("transaction reverted")
)
