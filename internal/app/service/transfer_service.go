package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"wallet_client/internal/app/port"
	"wallet_client/internal/app/session"
	"wallet_client/internal/domain/entity"
	"wallet_client/internal/infrastructure/metrics"
	"wallet_client/internal/pkg/utils"
)

// Progress messages shown while a transfer is being built.
const (
	statusSendingNative = "Sending ETH: creating tx ..."
	statusSendingToken  = "Sending token tx ..."
)

// TransferServiceImpl implements port.TransferService.
type TransferServiceImpl struct {
	store          *session.Store
	display        port.Display
	clients        ClientFactory
	reader         port.TokenReader
	tracker        port.TransferTracker
	metrics        *metrics.Metrics
	logger         port.Logger
	confirmTimeout time.Duration

	mu    sync.Mutex
	state entity.TransferState
}

// NewTransferService creates the transfer workflow. A zero confirmTimeout waits until ctx is done.
func NewTransferService(
	store *session.Store,
	display port.Display,
	clients ClientFactory,
	reader port.TokenReader,
	tracker port.TransferTracker,
	m *metrics.Metrics,
	l port.Logger,
	confirmTimeout time.Duration,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		store:          store,
		display:        display,
		clients:        clients,
		reader:         reader,
		tracker:        tracker,
		metrics:        m,
		logger:         l,
		confirmTimeout: confirmTimeout,
	}
}

// State returns the step the most recent transfer reached.
func (s *TransferServiceImpl) State() entity.TransferState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *TransferServiceImpl) setState(state entity.TransferState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

type validatedTransfer struct {
	signer    port.Signer
	backend   port.ChainBackend
	recipient common.Address
	token     common.Address
}

// validate checks the request in order and stops at the first failure. It issues no network calls.
func validate(sess session.Session, req entity.TransferRequest) (validatedTransfer, error) {
	if !sess.Connected() || sess.Backend() == nil {
		return validatedTransfer{}, entity.ErrNotConnected
	}
	recipient, ok := utils.ParseAddress(req.Recipient)
	if !ok {
		return validatedTransfer{}, entity.ErrInvalidRecipient
	}
	if !utils.IsPositiveDecimal(req.Amount) {
		return validatedTransfer{}, entity.ErrInvalidAmount
	}

	v := validatedTransfer{signer: sess.Signer, backend: sess.Backend(), recipient: recipient}
	if req.Asset == entity.TokenAsset {
		token, ok := utils.ParseAddress(req.Token)
		if !ok {
			return validatedTransfer{}, entity.ErrInvalidToken
		}
		v.token = token
	}
	return v, nil
}

// Submit validates the request, builds and signs the transaction and hands it to the network.
// The returned transfer is pending; use Await for its confirmation.
func (s *TransferServiceImpl) Submit(ctx context.Context, req entity.TransferRequest) (*entity.PendingTransfer, error) {
	s.display.ShowStatus("", false)
	s.setState(entity.StateValidating)

	v, err := validate(s.store.Current(), req)
	if err != nil {
		s.fail(req.Asset, common.Hash{}, err)
		return nil, err
	}

	s.setState(entity.StateSubmitting)
	c := s.clients(v.backend)

	var tx *types.Transaction
	switch req.Asset {
	case entity.TokenAsset:
		tx, err = s.submitToken(ctx, c, v, req.Amount)
	default:
		tx, err = s.submitNative(ctx, c, v, req.Amount)
	}
	if err != nil {
		s.logger.Warn("Transfer submission failed", "asset", req.Asset.String(), "recipient", v.recipient.Hex(), "error", err)
		s.fail(req.Asset, common.Hash{}, err)
		return nil, err
	}

	pending := &entity.PendingTransfer{Asset: req.Asset, Token: v.token, Recipient: v.recipient, TxHash: tx.Hash()}
	s.setState(entity.StatePending)
	outcome := entity.Submitted(req.Asset, pending.TxHash)
	s.tracker.Record(outcome)
	s.display.ShowOutcome(outcome)
	s.metrics.ObserveTransfer(req.Asset.String(), outcome.Kind.String())
	s.logger.Info("Transfer submitted", "asset", req.Asset.String(), "tx_hash", pending.TxHash.Hex(), "recipient", v.recipient.Hex())
	return pending, nil
}

func (s *TransferServiceImpl) submitNative(ctx context.Context, c port.BlockchainClient, v validatedTransfer, amount string) (*types.Transaction, error) {
	value, err := utils.ParseUnits(amount, nativeDecimals)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidAmount, err)
	}
	s.display.ShowStatus(statusSendingNative, false)
	tx, err := c.SendValue(ctx, v.signer, v.recipient, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrTransactionRejected, err)
	}
	return tx, nil
}

// submitToken converts the amount with the token's own decimals before sending transfer(to, amount).
func (s *TransferServiceImpl) submitToken(ctx context.Context, c port.BlockchainClient, v validatedTransfer, amount string) (*types.Transaction, error) {
	decimals, err := c.GetTokenDecimals(ctx, v.token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrTransactionRejected, err)
	}
	value, err := utils.ParseUnits(amount, decimals)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrInvalidAmount, err)
	}
	s.display.ShowStatus(statusSendingToken, false)
	tx, err := c.SendTokenTransfer(ctx, v.signer, v.token, v.recipient, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrTransactionRejected, err)
	}
	return tx, nil
}

// Await waits for the pending transfer to be mined and refreshes the affected balance on success.
func (s *TransferServiceImpl) Await(ctx context.Context, pending *entity.PendingTransfer) entity.TransactionOutcome {
	if s.confirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.confirmTimeout)
		defer cancel()
	}

	backend := s.store.Current().Backend()
	if backend == nil {
		return s.fail(pending.Asset, pending.TxHash, fmt.Errorf("%w: wallet closed while waiting", entity.ErrTransactionRejected))
	}

	receipt, err := s.clients(backend).WaitMined(ctx, pending.TxHash)
	if err != nil {
		return s.fail(pending.Asset, pending.TxHash, fmt.Errorf("%w: %w", entity.ErrTransactionRejected, err))
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return s.fail(pending.Asset, pending.TxHash, entity.ErrTransactionReverted)
	}

	s.setState(entity.StateConfirmed)
	outcome := entity.Confirmed(pending.Asset, pending.TxHash)
	s.tracker.Record(outcome)
	s.display.ShowOutcome(outcome)
	s.metrics.ObserveTransfer(pending.Asset.String(), outcome.Kind.String())
	s.logger.Info("Transfer confirmed", "asset", pending.Asset.String(), "tx_hash", pending.TxHash.Hex(), "block", receipt.BlockNumber)

	if pending.Asset == entity.TokenAsset {
		s.reader.LookupToken(ctx, pending.Token.Hex())
	} else {
		s.reader.RefreshNativeBalance(ctx)
	}
	return outcome
}

// Execute runs the whole workflow: Submit followed by Await.
func (s *TransferServiceImpl) Execute(ctx context.Context, req entity.TransferRequest) entity.TransactionOutcome {
	pending, err := s.Submit(ctx, req)
	if err != nil {
		return entity.Failed(req.Asset, common.Hash{}, err)
	}
	return s.Await(ctx, pending)
}

func (s *TransferServiceImpl) fail(asset entity.AssetKind, hash common.Hash, err error) entity.TransactionOutcome {
	s.setState(entity.StateFailed)
	outcome := entity.Failed(asset, hash, err)
	s.tracker.Record(outcome)
	s.display.ShowOutcome(outcome)

	result := outcome.Kind.String()
	if isValidationError(err) {
		result = metrics.ResultInvalid
	}
	s.metrics.ObserveTransfer(asset.String(), result)
	return outcome
}

func isValidationError(err error) bool {
	return errors.Is(err, entity.ErrNotConnected) ||
		errors.Is(err, entity.ErrInvalidRecipient) ||
		errors.Is(err, entity.ErrInvalidAmount) ||
		errors.Is(err, entity.ErrInvalidToken)
}

var _ port.TransferService = (*TransferServiceImpl)(nil)
