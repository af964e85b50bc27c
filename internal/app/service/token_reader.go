package service

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"wallet_client/internal/app/port"
	"wallet_client/internal/app/session"
	"wallet_client/internal/domain/entity"
	"wallet_client/internal/infrastructure/metrics"
	"wallet_client/internal/pkg/utils"
)

const nativeDecimals = 18

// TokenReaderImpl implements port.TokenReader.
type TokenReaderImpl struct {
	store           *session.Store
	display         port.Display
	clients         ClientFactory
	networkProvider port.NetworkDefinitionProvider
	priceSvc        port.TokenPriceService
	metrics         *metrics.Metrics
	logger          port.Logger
}

// NewTokenReader creates a reader over the session's backend. priceSvc may be nil.
func NewTokenReader(
	store *session.Store,
	display port.Display,
	clients ClientFactory,
	np port.NetworkDefinitionProvider,
	priceSvc port.TokenPriceService,
	m *metrics.Metrics,
	l port.Logger,
) *TokenReaderImpl {
	return &TokenReaderImpl{
		store:           store,
		display:         display,
		clients:         clients,
		networkProvider: np,
		priceSvc:        priceSvc,
		metrics:         m,
		logger:          l,
	}
}

func (r *TokenReaderImpl) clientFor(sess session.Session) (port.BlockchainClient, bool) {
	backend := sess.Backend()
	if backend == nil {
		return nil, false
	}
	return r.clients(backend), true
}

// ReadNativeBalance reads and formats the native balance of address. Errors degrade to the placeholder.
func (r *TokenReaderImpl) ReadNativeBalance(ctx context.Context, address common.Address) entity.Reading[string] {
	c, ok := r.clientFor(r.store.Current())
	if !ok {
		r.metrics.ObserveBalanceRead(metrics.ResultError)
		return entity.FallbackOf[string](entity.Placeholder, entity.ErrNotConnected)
	}

	balance, err := c.GetNativeBalance(ctx, address)
	if err != nil {
		r.logger.Warn("Failed to read native balance", "address", address.Hex(), "error", err)
		r.metrics.ObserveBalanceRead(metrics.ResultError)
		return entity.FallbackOf[string](entity.Placeholder, err)
	}
	r.metrics.ObserveBalanceRead(metrics.ResultOK)
	return entity.ValueOf(utils.FormatUnits(balance, nativeDecimals))
}

// RefreshNativeBalance re-reads the connected account's balance and shows it.
// Without an address nothing is read or shown.
func (r *TokenReaderImpl) RefreshNativeBalance(ctx context.Context) entity.Reading[string] {
	sess := r.store.Current()
	address, ok := sess.Address()
	if !ok {
		return entity.FallbackOf[string](entity.Placeholder, entity.ErrNotConnected)
	}

	reading := r.ReadNativeBalance(ctx, address)
	r.display.ShowNativeBalance(reading, sess.Network.NativeSymbol)
	if reading.OK() {
		r.showNativeValueUSD(ctx, sess.Network, reading.Value)
	}
	return reading
}

func (r *TokenReaderImpl) showNativeValueUSD(ctx context.Context, network entity.NetworkInfo, balance string) {
	if r.priceSvc == nil || r.networkProvider == nil {
		return
	}
	netDef, ok := r.networkProvider.GetNetworkDefinitionByChainID(network.ChainID)
	if !ok {
		return
	}
	price, ok := r.priceSvc.GetNativePriceUSD(ctx, netDef)
	if !ok {
		r.metrics.ObservePriceRequest(metrics.ResultError)
		r.display.ShowNativeBalanceUSD("")
		return
	}
	r.metrics.ObservePriceRequest(metrics.ResultOK)

	amount, ok := new(big.Float).SetString(balance)
	if !ok {
		return
	}
	value, _ := new(big.Float).Mul(amount, big.NewFloat(price)).Float64()
	r.display.ShowNativeBalanceUSD(fmt.Sprintf("$%.2f", value))
}

// ReadToken reads a token's metadata and, when an account is connected, its balance.
// A malformed address issues no query.
func (r *TokenReaderImpl) ReadToken(ctx context.Context, tokenAddress string) entity.Reading[entity.TokenView] {
	token, ok := utils.ParseAddress(tokenAddress)
	if !ok {
		r.metrics.ObserveTokenRead(metrics.ResultInvalid)
		return entity.FallbackOf[entity.TokenView](entity.MarkerInvalidAddress, entity.ErrInvalidToken)
	}

	sess := r.store.Current()
	c, ok := r.clientFor(sess)
	if !ok {
		r.metrics.ObserveTokenRead(metrics.ResultError)
		return entity.FallbackOf[entity.TokenView](entity.MarkerTokenError,
			fmt.Errorf("%w: %w", entity.ErrTokenQueryFailed, entity.ErrNotConnected))
	}

	view, err := r.readMetadata(ctx, c, token)
	if err != nil {
		r.logger.Warn("Failed to read token metadata", "token", token.Hex(), "error", err)
		r.metrics.ObserveTokenRead(metrics.ResultError)
		return entity.FallbackOf[entity.TokenView](entity.MarkerTokenError, fmt.Errorf("%w: %w", entity.ErrTokenQueryFailed, err))
	}

	holder, connected := sess.Address()
	if !connected {
		view.Balance = entity.FallbackOf[string](entity.MarkerConnectWallet, entity.ErrNotConnected)
		r.metrics.ObserveTokenRead(metrics.ResultOK)
		return entity.ValueOf(view)
	}

	raw, err := c.GetTokenBalance(ctx, token, holder)
	if err != nil {
		r.logger.Warn("Failed to read token balance", "token", token.Hex(), "holder", holder.Hex(), "error", err)
		r.metrics.ObserveTokenRead(metrics.ResultError)
		return entity.FallbackOf[entity.TokenView](entity.MarkerTokenError, fmt.Errorf("%w: %w", entity.ErrTokenQueryFailed, err))
	}
	view.Balance = entity.ValueOf(utils.FormatUnits(raw, view.Decimals))
	r.metrics.ObserveTokenRead(metrics.ResultOK)
	return entity.ValueOf(view)
}

// readMetadata queries name, symbol and decimals concurrently and waits for all three.
func (r *TokenReaderImpl) readMetadata(ctx context.Context, c port.BlockchainClient, token common.Address) (entity.TokenView, error) {
	view := entity.TokenView{Address: token}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		name, err := c.GetTokenName(egCtx, token)
		view.Name = name
		return err
	})
	eg.Go(func() error {
		symbol, err := c.GetTokenSymbol(egCtx, token)
		view.Symbol = symbol
		return err
	})
	eg.Go(func() error {
		decimals, err := c.GetTokenDecimals(egCtx, token)
		view.Decimals = decimals
		return err
	})
	if err := eg.Wait(); err != nil {
		return entity.TokenView{}, err
	}
	return view, nil
}

// LookupToken reads a token and shows it.
func (r *TokenReaderImpl) LookupToken(ctx context.Context, tokenAddress string) entity.Reading[entity.TokenView] {
	reading := r.ReadToken(ctx, tokenAddress)
	r.display.ShowToken(reading)
	return reading
}

var _ port.TokenReader = (*TokenReaderImpl)(nil)
