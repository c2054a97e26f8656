package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thauan01/project-bank/internal/clients/domain"
	"github.com/thauan01/project-bank/internal/clients/store"
	"github.com/thauan01/project-bank/internal/event"
	"github.com/thauan01/project-bank/pkg/rabbitmq"
)

// DefaultMaxDeliveryAttempts is the retry ceiling for transiently failing
// messages. A message whose retry count reaches the ceiling is dead-lettered
// instead of being retried indefinitely.
const DefaultMaxDeliveryAttempts = 3

// TransferConsumer applies transfer.created events to account balances and
// reports terminal outcomes back on the event channel.
type TransferConsumer struct {
	repo        store.Repository
	publisher   rabbitmq.Publisher
	dedupe      *DedupeCache
	maxAttempts int
}

// NewTransferConsumer creates a consumer with the given retry ceiling.
// A non-positive ceiling falls back to the default.
func NewTransferConsumer(repo store.Repository, publisher rabbitmq.Publisher, maxAttempts int) *TransferConsumer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxDeliveryAttempts
	}
	return &TransferConsumer{repo: repo, publisher: publisher, maxAttempts: maxAttempts}
}

// SetDedupeCache attaches an optional fast-path cache of applied transfer ids.
// The database unique constraint remains the authority; the cache only short
// circuits redeliveries that have already settled.
func (c *TransferConsumer) SetDedupeCache(cache *DedupeCache) {
	c.dedupe = cache
}

// HandleTransferCreated is the per-message state machine. The decision it
// returns is a pure function of the payload and the delivery's retry count.
func (c *TransferConsumer) HandleTransferCreated(body []byte, retryCount int) rabbitmq.Decision {
	var evt event.TransferCreated
	if err := json.Unmarshal(body, &evt); err != nil {
		log.Printf("transfer-consumer: failed to unmarshal payload: %v", err)
		return rabbitmq.Reject
	}

	if err := evt.Validate(); err != nil {
		log.Printf("transfer-consumer: invalid payload for transfer %q: %v", evt.TransactionID, err)
		return rabbitmq.Reject
	}

	// Non-successful transfers are informational only; no balance change.
	if evt.Status != event.StatusSuccess {
		log.Printf("transfer-consumer: transfer %s has status %q; dropping without balance change", evt.TransactionID, evt.Status)
		return rabbitmq.Ack
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if c.dedupe.SeenApplied(ctx, evt.TransactionID) {
		log.Printf("transfer-consumer: transfer %s already applied (cache hit); re-confirming", evt.TransactionID)
		c.confirmApplied(ctx, evt)
		return rabbitmq.Ack
	}

	err := c.applyTransfer(ctx, evt)
	switch {
	case err == nil:
		c.dedupe.MarkApplied(ctx, evt.TransactionID)
		c.confirmApplied(ctx, evt)
		return rabbitmq.Ack

	case errors.Is(err, store.ErrTransferAlreadyApplied):
		// Redelivery after a successful apply. Re-confirm so the
		// transactions-service converges even if the first confirmation
		// was lost, then drop the duplicate.
		log.Printf("transfer-consumer: transfer %s already applied; acknowledging duplicate", evt.TransactionID)
		c.dedupe.MarkApplied(ctx, evt.TransactionID)
		c.confirmApplied(ctx, evt)
		return rabbitmq.Ack

	default:
		log.Printf("transfer-consumer: processing error for transfer %s (attempt %d of %d): %v", evt.TransactionID, retryCount+1, c.maxAttempts+1, err)
		if retryCount >= c.maxAttempts {
			c.confirmFailed(ctx, evt, err)
			return rabbitmq.DeadLetter
		}
		return rabbitmq.Retry
	}
}

// applyTransfer resolves both accounts, checks solvency, and commits the
// balance movement. Every error it returns is treated as transient by the
// caller: a missing account may just not be visible yet, and insufficient
// funds at consumption time may resolve once an inbound credit lands.
func (c *TransferConsumer) applyTransfer(ctx context.Context, evt event.TransferCreated) error {
	var sender, receiver *domain.Account

	// The two reads have no ordering dependency.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		account, err := c.repo.FindAccountByID(gctx, evt.SenderUserID)
		if err != nil {
			return fmt.Errorf("resolve sender %s: %w", evt.SenderUserID, err)
		}
		sender = account
		return nil
	})
	g.Go(func() error {
		account, err := c.repo.FindAccountByID(gctx, evt.ReceiverUserID)
		if err != nil {
			return fmt.Errorf("resolve receiver %s: %w", evt.ReceiverUserID, err)
		}
		receiver = account
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	newSenderBalance := sender.Balance.Sub(evt.Amount)
	newReceiverBalance := receiver.Balance.Add(evt.Amount)
	if newSenderBalance.IsNegative() {
		return fmt.Errorf("sender %s balance %s below amount %s: %w", sender.ID, sender.Balance, evt.Amount, store.ErrInsufficientFunds)
	}

	if err := c.repo.ApplyTransfer(ctx, evt.TransactionID, sender.ID, receiver.ID, evt.Amount); err != nil {
		return err
	}

	log.Printf("transfer-consumer: transfer %s applied; sender %s: %s -> %s, receiver %s: %s -> %s",
		evt.TransactionID,
		sender.ID, sender.Balance, newSenderBalance,
		receiver.ID, receiver.Balance, newReceiverBalance,
	)
	return nil
}

func (c *TransferConsumer) confirmApplied(ctx context.Context, evt event.TransferCreated) {
	c.publishResolution(ctx, evt, event.ResolutionApplied, event.RoutingKeyTransferApplied, "")
}

func (c *TransferConsumer) confirmFailed(ctx context.Context, evt event.TransferCreated, cause error) {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	c.publishResolution(ctx, evt, event.ResolutionFailed, event.RoutingKeyTransferFailed, reason)
}

func (c *TransferConsumer) publishResolution(ctx context.Context, evt event.TransferCreated, status, routingKey, reason string) {
	if c.publisher == nil {
		return
	}
	resolution := event.TransferResolved{
		TransactionID:  evt.TransactionID,
		SenderUserID:   evt.SenderUserID,
		ReceiverUserID: evt.ReceiverUserID,
		Amount:         evt.Amount,
		Status:         status,
		Reason:         reason,
		Timestamp:      event.Now(),
	}
	if err := c.publisher.Publish(ctx, event.Exchange, routingKey, resolution); err != nil {
		// The applied record is durable; a redelivery will re-confirm.
		log.Printf("transfer-consumer: failed to publish %s confirmation for transfer %s: %v", status, evt.TransactionID, err)
	}
}
