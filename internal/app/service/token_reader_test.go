package service

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"wallet_client/internal/app/session"
	"wallet_client/internal/domain/entity"
	"wallet_client/internal/pkg/chaintest"
)

var testTokenAddr = common.HexToAddress("0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238")

func TestReadTokenWithConnectedAccount(t *testing.T) {
	key := newKey(t)
	holder := crypto.PubkeyToAddress(key.PublicKey)
	backend := chaintest.NewBackend(11155111)
	backend.AddToken(testTokenAddr, &chaintest.Token{
		Name:     "Test Token",
		Symbol:   "TKN",
		Decimals: 6,
		Balances: map[common.Address]*big.Int{holder: big.NewInt(2_500_000)},
	})
	h := newHarness(t, newTestWallet("test", backend, key))
	_, err := h.wallets.Connect(context.Background())
	require.NoError(t, err)

	reading := h.reader.LookupToken(context.Background(), testTokenAddr.Hex())
	require.True(t, reading.OK())
	require.Equal(t, "Test Token", reading.Value.Name)
	require.Equal(t, uint8(6), reading.Value.Decimals)
	require.Equal(t, "2.5", reading.Value.Balance.Value)

	f := h.display.Snapshot()
	require.Equal(t, "Test Token", f.TokenName)
	require.Equal(t, "TKN", f.TokenSymbol)
	require.Equal(t, "2.5 TKN", f.TokenBalance)
}

func TestReadTokenWithoutAccount(t *testing.T) {
	backend := chaintest.NewBackend(11155111)
	backend.AddToken(testTokenAddr, &chaintest.Token{Name: "Test Token", Symbol: "TKN", Decimals: 18})
	h := newHarness(t, nil)
	h.store.Set(session.Session{Wallet: newTestWallet("test", backend)})

	reading := h.reader.LookupToken(context.Background(), testTokenAddr.Hex())
	require.True(t, reading.OK())
	require.False(t, reading.Value.Balance.OK())
	require.Equal(t, entity.MarkerConnectWallet, h.display.Snapshot().TokenBalance)
}

func TestReadTokenInvalidAddressIssuesNoQuery(t *testing.T) {
	backend := chaintest.NewBackend(11155111)
	h := newHarness(t, nil)
	h.store.Set(session.Session{Wallet: newTestWallet("test", backend)})

	for _, addr := range []string{"", "0x123", "not an address", "0x1C7D4B196CB0C7B01D743FBC6116A902379C7238zz"} {
		reading := h.reader.LookupToken(context.Background(), addr)
		require.False(t, reading.OK())
		require.ErrorIs(t, reading.Err, entity.ErrInvalidToken)

		f := h.display.Snapshot()
		require.Equal(t, entity.MarkerInvalidAddress, f.TokenName)
		require.Equal(t, entity.Placeholder, f.TokenSymbol)
		require.Equal(t, entity.Placeholder, f.TokenBalance)
	}
	require.Zero(t, backend.Calls())
}

func TestReadTokenQueryFailure(t *testing.T) {
	backend := chaintest.NewBackend(11155111)
	backend.AddToken(testTokenAddr, &chaintest.Token{Broken: true})
	h := newHarness(t, nil)
	h.store.Set(session.Session{Wallet: newTestWallet("test", backend)})

	reading := h.reader.LookupToken(context.Background(), testTokenAddr.Hex())
	require.ErrorIs(t, reading.Err, entity.ErrTokenQueryFailed)

	f := h.display.Snapshot()
	require.Equal(t, entity.MarkerTokenError, f.TokenName)
	require.Equal(t, entity.Placeholder, f.TokenSymbol)
	require.Equal(t, entity.Placeholder, f.TokenBalance)

	// an address without a contract behaves the same
	reading = h.reader.ReadToken(context.Background(), "0x0000000000000000000000000000000000000001")
	require.ErrorIs(t, reading.Err, entity.ErrTokenQueryFailed)
	require.Equal(t, entity.MarkerTokenError, reading.Fallback)
}

func TestReadTokenWithoutWallet(t *testing.T) {
	h := newHarness(t, nil)
	reading := h.reader.ReadToken(context.Background(), testTokenAddr.Hex())
	require.ErrorIs(t, reading.Err, entity.ErrTokenQueryFailed)
	require.ErrorIs(t, reading.Err, entity.ErrNotConnected)
}

func TestRefreshWithoutAccountReadsNothing(t *testing.T) {
	backend := chaintest.NewBackend(11155111)
	h := newHarness(t, nil)
	h.store.Set(session.Session{Wallet: newTestWallet("test", backend)})

	reading := h.reader.RefreshNativeBalance(context.Background())
	require.False(t, reading.OK())
	require.Zero(t, backend.Calls())
	require.Empty(t, h.display.Snapshot().NativeBalance)
}

type fixedPrice float64

func (p fixedPrice) GetNativePriceUSD(context.Context, entity.NetworkDefinition) (float64, bool) {
	return float64(p), p > 0
}

func TestRefreshShowsUSDValue(t *testing.T) {
	key := newKey(t)
	backend := chaintest.NewBackend(1)
	backend.Native[crypto.PubkeyToAddress(key.PublicKey)] = milliEther(1500)
	h := newHarness(t, newTestWallet("test", backend, key))
	h.reader.priceSvc = fixedPrice(2000)

	_, err := h.wallets.Connect(context.Background())
	require.NoError(t, err)

	f := h.display.Snapshot()
	require.Equal(t, "1.5 ETH", f.NativeBalance)
	require.Equal(t, "$3000.00", f.NativeBalanceUSD)
}
