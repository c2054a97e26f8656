/**
 * @description
 * This file contains the transfer intake logic of the transactions-service.
 * The Service validates incoming transfer requests against the clients-service
 * account data, persists the audit record, and announces the transfer on the
 * message exchange. Settlement happens elsewhere; a transfer leaves intake in
 * PENDING and only a confirmation event moves it to a terminal status.
 *
 * @dependencies
 * - pkg/clientsapi: Read-only account lookups against the clients-service.
 * - pkg/rabbitmq: Event publishing.
 * - golang.org/x/sync/errgroup: Parallel account reads.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/thauan01/project-bank/internal/event"
	"github.com/thauan01/project-bank/internal/transactions/domain"
	"github.com/thauan01/project-bank/internal/transactions/store"
	"github.com/thauan01/project-bank/pkg/clientsapi"
	"github.com/thauan01/project-bank/pkg/rabbitmq"
)

const maxDescriptionLength = 500

// Validation and lookup failures surfaced to the API layer.
var (
	ErrMissingFields        = errors.New("senderUserId, receiverUserId, amount and description are required")
	ErrNonPositiveAmount    = errors.New("amount must be greater than zero")
	ErrSameAccount          = errors.New("sender and receiver must be different accounts")
	ErrDescriptionTooLong   = fmt.Errorf("description must be at most %d characters", maxDescriptionLength)
	ErrSenderNotFound       = errors.New("sender account not found")
	ErrReceiverNotFound     = errors.New("receiver account not found")
	ErrInsufficientBalance  = errors.New("sender has insufficient balance")
	ErrUserNotFound         = errors.New("user not found")
	ErrClientsUnavailable   = errors.New("clients service unavailable")
	ErrInvalidTransactionID = errors.New("invalid transaction id")
)

// Service orchestrates transfer intake and read operations.
type Service struct {
	repo      store.Repository
	accounts  clientsapi.Reader
	publisher rabbitmq.Publisher
}

// NewService creates a new transactions Service.
func NewService(repo store.Repository, accounts clientsapi.Reader, publisher rabbitmq.Publisher) *Service {
	return &Service{
		repo:      repo,
		accounts:  accounts,
		publisher: publisher,
	}
}

// CreateTransfer validates and records a transfer request, then publishes the
// transfer event for the clients-service to settle. The returned record is
// PENDING; callers observe the outcome through the transfer's status.
//
// Validation short-circuits in a fixed order: field presence, amount sign,
// distinct accounts, account existence, then sender balance. No record is
// written and no event is published unless every check passes.
func (s *Service) CreateTransfer(ctx context.Context, req domain.CreateTransferRequest) (*domain.Transfer, error) {
	// An omitted amount unmarshals to the decimal zero value, so a zero
	// amount counts as missing here.
	if strings.TrimSpace(req.SenderUserID) == "" ||
		strings.TrimSpace(req.ReceiverUserID) == "" ||
		req.Amount.IsZero() ||
		strings.TrimSpace(req.Description) == "" {
		return nil, ErrMissingFields
	}
	if !req.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if req.SenderUserID == req.ReceiverUserID {
		return nil, ErrSameAccount
	}
	if len(req.Description) > maxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	sender, _, err := s.lookupAccounts(ctx, req.SenderUserID, req.ReceiverUserID)
	if err != nil {
		return nil, err
	}
	if sender.Balance.LessThan(req.Amount) {
		return nil, ErrInsufficientBalance
	}

	transfer := &domain.Transfer{
		TransactionID:  uuid.New(),
		SenderUserID:   req.SenderUserID,
		ReceiverUserID: req.ReceiverUserID,
		Amount:         req.Amount,
		Description:    req.Description,
		Status:         domain.StatusPending,
	}
	if err := s.repo.CreateTransfer(ctx, transfer); err != nil {
		return nil, fmt.Errorf("failed to persist transfer: %w", err)
	}

	evt := event.TransferCreated{
		SenderUserID:   transfer.SenderUserID,
		ReceiverUserID: transfer.ReceiverUserID,
		Amount:         transfer.Amount,
		TransactionID:  transfer.TransactionID.String(),
		Status:         event.StatusSuccess,
		Timestamp:      event.Now(),
	}
	if err := s.publisher.Publish(ctx, event.Exchange, event.RoutingKeyTransferCreated, evt); err != nil {
		// The record already exists in PENDING; reconciliation will not see a
		// confirmation until the event is retried or replayed operationally.
		log.Printf("Failed to publish transfer event for %s: %v", transfer.TransactionID, err)
		return nil, fmt.Errorf("failed to publish transfer event: %w", err)
	}

	log.Printf("Transfer %s registered: %s -> %s amount=%s",
		transfer.TransactionID, transfer.SenderUserID, transfer.ReceiverUserID, transfer.Amount.String())
	return transfer, nil
}

// GetTransfer returns a single transfer by id.
func (s *Service) GetTransfer(ctx context.Context, rawID string) (*domain.Transfer, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, ErrInvalidTransactionID
	}
	return s.repo.FindTransferByID(ctx, id)
}

// ListTransfersForUser returns the transfer history of a user, newest first.
// The user must exist in the clients-service; unknown users get a not-found
// error rather than an empty list.
func (s *Service) ListTransfersForUser(ctx context.Context, userID string) ([]domain.Transfer, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserNotFound
	}
	if _, err := s.accounts.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, clientsapi.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrClientsUnavailable, err)
	}

	transfers, err := s.repo.FindTransfersByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if transfers == nil {
		transfers = []domain.Transfer{}
	}
	return transfers, nil
}

// lookupAccounts fetches both parties concurrently and maps missing accounts
// to side-specific errors.
func (s *Service) lookupAccounts(ctx context.Context, senderID, receiverID string) (sender, receiver *clientsapi.Account, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		acc, err := s.accounts.GetUserByID(gctx, senderID)
		if err != nil {
			if errors.Is(err, clientsapi.ErrUserNotFound) {
				return ErrSenderNotFound
			}
			return fmt.Errorf("%w: %v", ErrClientsUnavailable, err)
		}
		sender = acc
		return nil
	})
	g.Go(func() error {
		acc, err := s.accounts.GetUserByID(gctx, receiverID)
		if err != nil {
			if errors.Is(err, clientsapi.ErrUserNotFound) {
				return ErrReceiverNotFound
			}
			return fmt.Errorf("%w: %v", ErrClientsUnavailable, err)
		}
		receiver = acc
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return sender, receiver, nil
}
