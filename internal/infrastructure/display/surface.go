// Package display implements the client's output surface: a fixed set of named text
// fields rendered from session, reader and transfer results.
package display

import (
	"errors"
	"fmt"
	"sync"

	"wallet_client/internal/app/port"
	"wallet_client/internal/domain/entity"
)

// Status messages.
const (
	StatusNoWallet           = "No injected wallet found. Configure a wallet provider."
	StatusConnectionRejected = "Connection rejected or failed"
	StatusNotConnected       = "Please connect wallet first"
	StatusInvalidRecipient   = "Invalid recipient address"
	StatusInvalidAmount      = "Invalid amount"
	StatusInvalidToken       = "Invalid token address"
	StatusTransactionFailed  = "Transaction failed or rejected"
	StatusWalletDisconnected = "Wallet disconnected"
	StatusAccountChanged     = "Account changed"
	StatusNativeConfirmed    = "ETH transfer confirmed"
	StatusTokenConfirmed     = "Token transfer confirmed"
)

// Fields is a snapshot of every display field.
type Fields struct {
	Connected        bool   `json:"connected"`
	Address          string `json:"address"`
	Network          string `json:"network"`
	NativeBalance    string `json:"nativeBalance"`
	NativeBalanceUSD string `json:"nativeBalanceUsd,omitempty"`
	TokenAddress     string `json:"tokenAddress,omitempty"`
	TokenName        string `json:"tokenName"`
	TokenSymbol      string `json:"tokenSymbol"`
	TokenBalance     string `json:"tokenBalance"`
	Status           string `json:"status"`
	StatusIsError    bool   `json:"statusIsError"`
}

// Surface is the in-process display. Safe for concurrent use.
type Surface struct {
	mu     sync.RWMutex
	fields Fields
}

// NewSurface returns an empty display.
func NewSurface() *Surface {
	return &Surface{}
}

// Snapshot returns a copy of the current fields.
func (s *Surface) Snapshot() Fields {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields
}

func (s *Surface) set(fn func(f *Fields)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.fields)
}

func (s *Surface) ShowAccount(address string, network entity.NetworkInfo) {
	s.set(func(f *Fields) {
		f.Connected = true
		f.Address = address
		f.Network = network.Label()
	})
}

// ClearAccount empties the account fields and keeps token and status fields.
func (s *Surface) ClearAccount() {
	s.set(func(f *Fields) {
		f.Connected = false
		f.Address = ""
		f.Network = ""
		f.NativeBalance = ""
		f.NativeBalanceUSD = ""
	})
}

func (s *Surface) ShowNativeBalance(reading entity.Reading[string], symbol string) {
	text := RenderAmount(reading, symbol)
	s.set(func(f *Fields) {
		f.NativeBalance = text
		if !reading.OK() {
			f.NativeBalanceUSD = ""
		}
	})
}

func (s *Surface) ShowNativeBalanceUSD(value string) {
	s.set(func(f *Fields) { f.NativeBalanceUSD = value })
}

func (s *Surface) ShowToken(reading entity.Reading[entity.TokenView]) {
	name, symbol, balance := RenderToken(reading)
	s.set(func(f *Fields) {
		f.TokenAddress = ""
		if reading.OK() {
			f.TokenAddress = reading.Value.Address.Hex()
		}
		f.TokenName = name
		f.TokenSymbol = symbol
		f.TokenBalance = balance
	})
}

func (s *Surface) ShowOutcome(outcome entity.TransactionOutcome) {
	msg, isError := RenderOutcome(outcome)
	s.ShowStatus(msg, isError)
}

func (s *Surface) ShowStatus(msg string, isError bool) {
	s.set(func(f *Fields) {
		f.Status = msg
		f.StatusIsError = isError
	})
}

func (s *Surface) ShowError(err error) {
	if err == nil {
		return
	}
	s.ShowStatus(StatusFor(err), true)
}

// Reset clears every field.
func (s *Surface) Reset() {
	s.set(func(f *Fields) { *f = Fields{} })
}

// RenderAmount renders a balance reading as "<value> <symbol>", or the fallback text.
func RenderAmount(reading entity.Reading[string], symbol string) string {
	if !reading.OK() {
		return fallbackText(reading.Fallback)
	}
	if symbol == "" {
		return reading.Value
	}
	return reading.Value + " " + symbol
}

// RenderToken renders a token reading into name, symbol and balance fields.
// Read failures put their marker in the name field and placeholders elsewhere.
func RenderToken(reading entity.Reading[entity.TokenView]) (name, symbol, balance string) {
	if !reading.OK() {
		return fallbackText(reading.Fallback), entity.Placeholder, entity.Placeholder
	}
	view := reading.Value
	return view.Name, view.Symbol, RenderAmount(view.Balance, view.Symbol)
}

// RenderOutcome renders a transfer outcome as a status line.
func RenderOutcome(outcome entity.TransactionOutcome) (msg string, isError bool) {
	switch outcome.Kind {
	case entity.OutcomeSubmitted:
		return fmt.Sprintf("TX sent: %s. waiting...", outcome.TxHash.Hex()), false
	case entity.OutcomeConfirmed:
		if outcome.Asset == entity.TokenAsset {
			return StatusTokenConfirmed, false
		}
		return StatusNativeConfirmed, false
	default:
		if outcome.Err != nil {
			return StatusFor(outcome.Err), true
		}
		return StatusTransactionFailed, true
	}
}

// StatusFor maps an error kind to its status message.
func StatusFor(err error) string {
	switch {
	case errors.Is(err, entity.ErrNoWalletDetected):
		return StatusNoWallet
	case errors.Is(err, entity.ErrConnectionRejected):
		return StatusConnectionRejected
	case errors.Is(err, entity.ErrNotConnected):
		return StatusNotConnected
	case errors.Is(err, entity.ErrInvalidRecipient):
		return StatusInvalidRecipient
	case errors.Is(err, entity.ErrInvalidAmount):
		return StatusInvalidAmount
	case errors.Is(err, entity.ErrInvalidToken):
		return StatusInvalidToken
	case errors.Is(err, entity.ErrTokenQueryFailed):
		return entity.MarkerTokenError
	case errors.Is(err, entity.ErrTransactionRejected), errors.Is(err, entity.ErrTransactionReverted):
		return StatusTransactionFailed
	default:
		return err.Error()
	}
}

func fallbackText(fallback string) string {
	if fallback == "" {
		return entity.Placeholder
	}
	return fallback
}

var _ port.Display = (*Surface)(nil)
