package restapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"wallet_client/internal/app/port"
	"wallet_client/internal/app/session"
	"wallet_client/internal/domain/entity"
	"wallet_client/internal/infrastructure/display"
)

// StateSource exposes the current display fields.
type StateSource interface {
	Snapshot() display.Fields
}

// APIResponse is the envelope of every API response.
type APIResponse struct {
	Data          any    `json:"data,omitempty"`
	StatusMessage string `json:"status_message"`
	Error         string `json:"error,omitempty"`
}

// StateResponse is the display surface plus the progress of the latest transfer.
type StateResponse struct {
	display.Fields
	TransferState string `json:"transferState"`
}

// TokenResponse is a token lookup result.
type TokenResponse struct {
	Address  string `json:"address,omitempty"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals,omitempty"`
	Balance  string `json:"balance"`
}

// TransferRequestBody is the payload of POST /transfers.
type TransferRequestBody struct {
	Asset     string `json:"asset" example:"ETH"`
	Token     string `json:"token,omitempty"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

// OutcomeResponse describes a tracked transfer.
type OutcomeResponse struct {
	TxHash  string `json:"txHash"`
	Asset   string `json:"asset"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

// WalletHandler serves the wallet client API.
type WalletHandler struct {
	wallets   port.WalletService
	reader    port.TokenReader
	transfers port.TransferService
	tracker   port.TransferTracker
	tokens    port.TokenProvider
	networks  port.NetworkDefinitionProvider
	store     *session.Store
	state     StateSource
	logger    port.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(
	ws port.WalletService,
	tr port.TokenReader,
	ts port.TransferService,
	tt port.TransferTracker,
	tp port.TokenProvider,
	np port.NetworkDefinitionProvider,
	store *session.Store,
	state StateSource,
	l port.Logger,
) *WalletHandler {
	return &WalletHandler{
		wallets:   ws,
		reader:    tr,
		transfers: ts,
		tracker:   tt,
		tokens:    tp,
		networks:  np,
		store:     store,
		state:     state,
		logger:    l,
	}
}

func (h *WalletHandler) stateResponse() StateResponse {
	return StateResponse{Fields: h.state.Snapshot(), TransferState: h.transfers.State().String()}
}

func (h *WalletHandler) respondError(c *gin.Context, err error) {
	c.JSON(httpStatusFor(err), APIResponse{
		Data:          h.stateResponse(),
		StatusMessage: display.StatusFor(err),
		Error:         err.Error(),
	})
}

// GetStateHandler returns every display field.
func (h *WalletHandler) GetStateHandler(c *gin.Context) {
	state := h.stateResponse()
	c.JSON(http.StatusOK, APIResponse{Data: state, StatusMessage: state.Status})
}

// ConnectHandler connects the configured wallet.
func (h *WalletHandler) ConnectHandler(c *gin.Context) {
	if _, err := h.wallets.Connect(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	state := h.stateResponse()
	c.JSON(http.StatusOK, APIResponse{Data: state, StatusMessage: state.Status})
}

// RefreshBalanceHandler re-reads the native balance of the connected account.
func (h *WalletHandler) RefreshBalanceHandler(c *gin.Context) {
	if !h.store.Current().Connected() {
		h.respondError(c, entity.ErrNotConnected)
		return
	}
	h.reader.RefreshNativeBalance(c.Request.Context())
	state := h.stateResponse()
	c.JSON(http.StatusOK, APIResponse{Data: state, StatusMessage: state.Status})
}

// GetSampleTokensHandler lists the quick-fill tokens of the connected network,
// or of the network named by the "network" query parameter.
func (h *WalletHandler) GetSampleTokensHandler(c *gin.Context) {
	var (
		netDef entity.NetworkDefinition
		ok     bool
	)
	if name := c.Query("network"); name != "" {
		netDef, ok = h.networks.GetNetworkDefinitionByName(name)
	} else if network := h.store.Current().Network; network.ChainID != 0 {
		netDef, ok = h.networks.GetNetworkDefinitionByChainID(network.ChainID)
	}
	if !ok {
		c.JSON(http.StatusOK, APIResponse{Data: []entity.TokenInfo{}, StatusMessage: "No sample tokens for this network."})
		return
	}

	tokens, err := h.tokens.GetTokensByNetwork(netDef)
	if err != nil {
		h.logger.Error("Failed to load sample tokens", "network", netDef.Identifier, "error", err)
		c.JSON(http.StatusInternalServerError, APIResponse{StatusMessage: "Failed to load sample tokens.", Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, APIResponse{Data: tokens, StatusMessage: "Sample tokens retrieved successfully."})
}

// GetTokenHandler looks up a token's metadata and the connected account's balance.
func (h *WalletHandler) GetTokenHandler(c *gin.Context) {
	reading := h.reader.LookupToken(c.Request.Context(), c.Param("address"))
	name, symbol, balance := display.RenderToken(reading)
	resp := TokenResponse{Name: name, Symbol: symbol, Balance: balance}
	if !reading.OK() {
		c.JSON(httpStatusFor(reading.Err), APIResponse{Data: resp, StatusMessage: name, Error: reading.Err.Error()})
		return
	}
	resp.Address = reading.Value.Address.Hex()
	resp.Decimals = reading.Value.Decimals
	c.JSON(http.StatusOK, APIResponse{Data: resp, StatusMessage: "Token retrieved successfully."})
}

// CreateTransferHandler submits a transfer and waits for its confirmation in the background.
// The response carries the transaction hash as soon as the network accepted it.
func (h *WalletHandler) CreateTransferHandler(c *gin.Context) {
	var body TransferRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{StatusMessage: "Malformed transfer request.", Error: err.Error()})
		return
	}
	asset, ok := entity.ParseAssetKind(body.Asset)
	if !ok {
		c.JSON(http.StatusBadRequest, APIResponse{StatusMessage: "Unknown asset type.", Error: "asset must be ETH or ERC20"})
		return
	}

	req := entity.TransferRequest{Asset: asset, Token: body.Token, Recipient: body.Recipient, Amount: body.Amount}
	pending, err := h.transfers.Submit(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	status := h.state.Snapshot().Status
	go h.transfers.Await(context.WithoutCancel(c.Request.Context()), pending)

	c.JSON(http.StatusAccepted, APIResponse{
		Data:          OutcomeResponse{TxHash: pending.TxHash.Hex(), Asset: asset.String(), Outcome: entity.OutcomeSubmitted.String()},
		StatusMessage: status,
	})
}

// GetTransferHandler reports the latest known outcome of a transfer.
func (h *WalletHandler) GetTransferHandler(c *gin.Context) {
	raw := c.Param("hash")
	if len(common.FromHex(raw)) != common.HashLength {
		c.JSON(http.StatusBadRequest, APIResponse{StatusMessage: "Invalid transaction hash."})
		return
	}

	outcome, ok := h.tracker.Lookup(common.HexToHash(raw))
	if !ok {
		c.JSON(http.StatusNotFound, APIResponse{StatusMessage: "Transfer not found."})
		return
	}

	resp := OutcomeResponse{TxHash: outcome.TxHash.Hex(), Asset: outcome.Asset.String(), Outcome: outcome.Kind.String()}
	if outcome.Err != nil {
		resp.Error = outcome.Err.Error()
	}
	msg, _ := display.RenderOutcome(outcome)
	c.JSON(http.StatusOK, APIResponse{Data: resp, StatusMessage: msg})
}

func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidRecipient),
		errors.Is(err, entity.ErrInvalidAmount),
		errors.Is(err, entity.ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotConnected):
		return http.StatusConflict
	case errors.Is(err, entity.ErrNoWalletDetected):
		return http.StatusServiceUnavailable
	case errors.Is(err, entity.ErrConnectionRejected),
		errors.Is(err, entity.ErrTokenQueryFailed),
		errors.Is(err, entity.ErrTransactionRejected),
		errors.Is(err, entity.ErrTransactionReverted):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
