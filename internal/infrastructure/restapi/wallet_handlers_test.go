package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wallet_client/internal/app/port"
	"wallet_client/internal/app/provider"
	"wallet_client/internal/app/service"
	"wallet_client/internal/app/session"
	"wallet_client/internal/config"
	"wallet_client/internal/domain/entity"
	"wallet_client/internal/infrastructure/display"
	networkdefinition "wallet_client/internal/infrastructure/network/definition"
	"wallet_client/internal/infrastructure/wallet"
	"wallet_client/internal/pkg/chaintest"
	"wallet_client/internal/pkg/logger"
)

var usdc = common.HexToAddress("0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238")

type staticBuilder struct{ wallet port.InjectedWallet }

func (b staticBuilder) Build(context.Context, config.WalletConfig) (port.InjectedWallet, error) {
	return b.wallet, nil
}

type staticTokens []entity.TokenInfo

func (s staticTokens) GetTokensByNetwork(entity.NetworkDefinition) ([]entity.TokenInfo, error) {
	return s, nil
}

type apiFixture struct {
	router  *gin.Engine
	backend *chaintest.Backend
	holder  common.Address
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNopLogger()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	holder := crypto.PubkeyToAddress(key.PublicKey)

	backend := chaintest.NewBackend(11155111)
	backend.Native[holder] = new(big.Int).Mul(big.NewInt(3), big.NewInt(1e18))
	backend.AddToken(usdc, &chaintest.Token{
		Name:     "USD Coin",
		Symbol:   "USDC",
		Decimals: 6,
		Balances: map[common.Address]*big.Int{holder: big.NewInt(2_500_000)},
	})

	w := wallet.NewKeyWallet("dev-key", true, key, backend, 0, log)
	wallets := provider.NewWalletProvider([]config.WalletConfig{{Name: "dev-key", Kind: config.WalletKindPrivateKey}}, staticBuilder{w}, log)

	store := session.NewStore()
	surface := display.NewSurface()
	networks := networkdefinition.NewNetworkDefinitionProvider(log)
	clients := service.NewClientFactory(time.Second, 5*time.Millisecond)
	reader := service.NewTokenReader(store, surface, clients, networks, nil, nil, log)
	tracker := service.NewTransferTracker(time.Minute)
	transfers := service.NewTransferService(store, surface, clients, reader, tracker, nil, log, 5*time.Second)
	walletSvc := service.NewWalletService(wallets, store, surface, reader, networks, nil, log)
	t.Cleanup(walletSvc.Close)

	samples := staticTokens{{ChainID: 11155111, Address: usdc.Hex(), Name: "USD Coin", Symbol: "USDC", Decimals: 6}}
	handler := NewWalletHandler(walletSvc, reader, transfers, tracker, samples, networks, store, surface, log)
	router := SetupRouter(handler, config.SwaggerConfig{}, zap.NewNop())

	return &apiFixture{router: router, backend: backend, holder: holder}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec, decoded
}

func data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	d, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", resp)
	return d
}

func TestConnectAndState(t *testing.T) {
	f := newAPIFixture(t)

	rec, resp := f.do(t, http.MethodGet, "/api/v1/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, data(t, resp)["connected"])

	rec, resp = f.do(t, http.MethodPost, "/api/v1/connect", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Wallet connected (dev-key)", resp["status_message"])

	state := data(t, resp)
	require.Equal(t, true, state["connected"])
	require.Equal(t, f.holder.Hex(), state["address"])
	require.Equal(t, "sepolia (11155111)", state["network"])
	require.Equal(t, "3.0 ETH", state["nativeBalance"])
	require.Equal(t, "idle", state["transferState"])
}

func TestRefreshRequiresConnection(t *testing.T) {
	f := newAPIFixture(t)

	rec, resp := f.do(t, http.MethodPost, "/api/v1/balance/refresh", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, display.StatusNotConnected, resp["status_message"])

	f.do(t, http.MethodPost, "/api/v1/connect", nil)
	f.backend.SetNativeBalance(f.holder, big.NewInt(5e17))

	rec, resp = f.do(t, http.MethodPost, "/api/v1/balance/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "0.5 ETH", data(t, resp)["nativeBalance"])
}

func TestTokenLookup(t *testing.T) {
	f := newAPIFixture(t)

	rec, resp := f.do(t, http.MethodGet, "/api/v1/tokens/not-an-address", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, entity.MarkerInvalidAddress, data(t, resp)["name"])
	require.Equal(t, entity.Placeholder, data(t, resp)["balance"])

	f.do(t, http.MethodPost, "/api/v1/connect", nil)
	rec, resp = f.do(t, http.MethodGet, "/api/v1/tokens/"+usdc.Hex(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token := data(t, resp)
	require.Equal(t, "USD Coin", token["name"])
	require.Equal(t, "2.5 USDC", token["balance"])
	require.EqualValues(t, 6, token["decimals"])
}

func TestSampleTokens(t *testing.T) {
	f := newAPIFixture(t)

	rec, resp := f.do(t, http.MethodGet, "/api/v1/tokens/samples", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, resp["data"])

	rec, resp = f.do(t, http.MethodGet, "/api/v1/tokens/samples?network=sepolia", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list, ok := resp["data"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
}

func TestTransferLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	body := map[string]string{"asset": "ETH", "recipient": "0x00000000000000000000000000000000000000aa", "amount": "1.5"}
	rec, resp := f.do(t, http.MethodPost, "/api/v1/transfers", body)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, display.StatusNotConnected, resp["status_message"])

	f.do(t, http.MethodPost, "/api/v1/connect", nil)

	rec, resp = f.do(t, http.MethodPost, "/api/v1/transfers", map[string]string{"recipient": "0x00000000000000000000000000000000000000aa", "amount": "abc"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, display.StatusInvalidAmount, resp["status_message"])

	rec, resp = f.do(t, http.MethodPost, "/api/v1/transfers", body)
	require.Equal(t, http.StatusAccepted, rec.Code)
	hash, ok := data(t, resp)["txHash"].(string)
	require.True(t, ok)
	require.Contains(t, resp["status_message"], "TX sent: "+hash)

	require.Eventually(t, func() bool {
		rec, resp := f.do(t, http.MethodGet, "/api/v1/transfers/"+hash, nil)
		return rec.Code == http.StatusOK && data(t, resp)["outcome"] == "confirmed"
	}, 2*time.Second, 10*time.Millisecond)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/transfers/0x01", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = f.do(t, http.MethodGet, "/api/v1/transfers/"+common.HexToHash("0xdead").Hex(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownAsset(t *testing.T) {
	f := newAPIFixture(t)
	rec, _ := f.do(t, http.MethodPost, "/api/v1/transfers", map[string]string{"asset": "BTC"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
