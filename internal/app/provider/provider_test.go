package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"wallet_client/internal/app/port"
	"wallet_client/internal/config"
	"wallet_client/internal/domain/entity"
	"wallet_client/internal/infrastructure/wallet"
	"wallet_client/internal/pkg/chaintest"
	"wallet_client/internal/pkg/logger"
)

type countingBuilder struct {
	calls []string
	err   error
}

func (b *countingBuilder) Build(_ context.Context, wc config.WalletConfig) (port.InjectedWallet, error) {
	b.calls = append(b.calls, wc.Name)
	if b.err != nil {
		return nil, b.err
	}
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return wallet.NewKeyWallet(wc.Name, wc.Canonical, key, chaintest.NewBackend(1), 0, logger.NewNopLogger()), nil
}

type staticLoader struct {
	tokens []entity.TokenInfo
	loads  int
	err    error
}

func (l *staticLoader) LoadTokens(entity.NetworkDefinition) ([]entity.TokenInfo, error) {
	l.loads++
	return l.tokens, l.err
}

func TestSelectWallet(t *testing.T) {
	_, ok := SelectWallet(nil)
	require.False(t, ok)

	wc, ok := SelectWallet([]config.WalletConfig{{Name: "a"}, {Name: "b"}})
	require.True(t, ok)
	require.Equal(t, "a", wc.Name)

	wc, ok = SelectWallet([]config.WalletConfig{{Name: "a"}, {Name: "b", Canonical: true}, {Name: "c", Canonical: true}})
	require.True(t, ok)
	require.Equal(t, "b", wc.Name)
}

func TestDiscoverCachesWallet(t *testing.T) {
	builder := &countingBuilder{}
	p := NewWalletProvider([]config.WalletConfig{{Name: "a"}, {Name: "b", Canonical: true}}, builder, logger.NewNopLogger())

	first, err := p.Discover(context.Background())
	require.NoError(t, err)
	second, err := p.Discover(context.Background())
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Equal(t, "b", first.Name())
	require.Equal(t, []string{"b"}, builder.calls)
	require.NoError(t, p.(*walletProviderImpl).Close())
}

func TestDiscoverWithoutWallets(t *testing.T) {
	builder := &countingBuilder{}
	p := NewWalletProvider(nil, builder, logger.NewNopLogger())
	_, err := p.Discover(context.Background())
	require.ErrorIs(t, err, entity.ErrNoWalletDetected)
	require.Empty(t, builder.calls)
}

func TestDiscoverBuildFailure(t *testing.T) {
	builder := &countingBuilder{err: entity.ErrConnectionRejected}
	p := NewWalletProvider([]config.WalletConfig{{Name: "a"}}, builder, logger.NewNopLogger())

	_, err := p.Discover(context.Background())
	require.ErrorIs(t, err, entity.ErrConnectionRejected)
	_, err = p.Discover(context.Background())
	require.Error(t, err)
	require.Len(t, builder.calls, 2)
}

func TestTokenProviderCaches(t *testing.T) {
	loader := &staticLoader{tokens: []entity.TokenInfo{{Symbol: "USDC"}}}
	p := NewTokenProvider(loader, logger.NewNopLogger())
	def := entity.NetworkDefinition{Identifier: "sepolia", ChainID: 11155111}

	for range 3 {
		tokens, err := p.GetTokensByNetwork(def)
		require.NoError(t, err)
		require.Len(t, tokens, 1)
	}
	require.Equal(t, 1, loader.loads)

	failing := NewTokenProvider(&staticLoader{err: errors.New("boom")}, logger.NewNopLogger())
	_, err := failing.GetTokensByNetwork(def)
	require.Error(t, err)
}
