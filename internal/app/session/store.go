// Package session holds the client's connection state: the wallet (provider handle),
// the signer for the connected account, and the resolved network.
package session

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"

	"wallet_client/internal/app/port"
	"wallet_client/internal/domain/entity"
)

// Session is a snapshot of the connection. The address is derived from the signer, so the
// two are present or absent together; the wallet may be present on its own.
type Session struct {
	Wallet  port.InjectedWallet
	Signer  port.Signer
	Network entity.NetworkInfo
}

// Address returns the connected address, if any.
func (s Session) Address() (common.Address, bool) {
	if s.Signer == nil {
		return common.Address{}, false
	}
	return s.Signer.Address(), true
}

// Connected reports whether an account is available for signing.
func (s Session) Connected() bool {
	return s.Signer != nil
}

// Backend returns the wallet's RPC backend, or nil without a wallet.
func (s Session) Backend() port.ChainBackend {
	if s.Wallet == nil {
		return nil
	}
	return s.Wallet.Backend()
}

// Store is the single owner of the current Session.
type Store struct {
	mu      sync.RWMutex
	current Session
	feed    event.Feed
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the current session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the whole session.
func (s *Store) Set(sess Session) {
	s.update(func(*Session) Session { return sess })
}

// SetSigner switches the connected account, keeping wallet and network.
func (s *Store) SetSigner(signer port.Signer) {
	s.update(func(cur *Session) Session {
		next := *cur
		next.Signer = signer
		return next
	})
}

// Clear drops the account (signer and address) and keeps the wallet and its network.
func (s *Store) Clear() {
	s.update(func(cur *Session) Session {
		return Session{Wallet: cur.Wallet, Network: cur.Network}
	})
}

// Reset drops everything.
func (s *Store) Reset() {
	s.update(func(*Session) Session { return Session{} })
}

// Subscribe delivers every new session to ch.
func (s *Store) Subscribe(ch chan<- Session) event.Subscription {
	return s.feed.Subscribe(ch)
}

func (s *Store) update(fn func(cur *Session) Session) {
	s.mu.Lock()
	s.current = fn(&s.current)
	next := s.current
	s.mu.Unlock()

	s.feed.Send(next)
}
