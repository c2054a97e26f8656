package app

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/thauan01/project-bank/internal/event"
	"github.com/thauan01/project-bank/internal/transactions/domain"
	"github.com/thauan01/project-bank/internal/transactions/store"
	"github.com/thauan01/project-bank/pkg/rabbitmq"
)

// DefaultMaxDeliveryAttempts caps how many times a failed confirmation is
// retried before it is dead-lettered.
const DefaultMaxDeliveryAttempts = 3

// TransferStatusConsumer applies settlement confirmations from the
// clients-service to the transfer records owned by this service.
type TransferStatusConsumer struct {
	repo        store.Repository
	maxAttempts int
}

// NewTransferStatusConsumer creates a consumer bound to the given repository.
func NewTransferStatusConsumer(repo store.Repository, maxAttempts int) *TransferStatusConsumer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxDeliveryAttempts
	}
	return &TransferStatusConsumer{repo: repo, maxAttempts: maxAttempts}
}

// HandleTransferResolved processes one settlement confirmation. The transport
// redelivers on failure, so the handler is idempotent: a transfer already in a
// terminal status is left as is and the message is acknowledged.
func (c *TransferStatusConsumer) HandleTransferResolved(body []byte, retryCount int) rabbitmq.Decision {
	var evt event.TransferResolved
	if err := json.Unmarshal(body, &evt); err != nil {
		log.Printf("Rejecting malformed confirmation payload: %v", err)
		return rabbitmq.Reject
	}
	if err := evt.Validate(); err != nil {
		log.Printf("Rejecting invalid confirmation payload: %v", err)
		return rabbitmq.Reject
	}

	transactionID, err := uuid.Parse(evt.TransactionID)
	if err != nil {
		log.Printf("Rejecting confirmation with malformed transaction id %q: %v", evt.TransactionID, err)
		return rabbitmq.Reject
	}

	status := domain.StatusCompleted
	if evt.Status == event.ResolutionFailed {
		status = domain.StatusFailed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := c.repo.UpdateTransferStatus(ctx, transactionID, status); err != nil {
		if errors.Is(err, store.ErrTransferNotFound) {
			// A confirmation for a transfer this service never recorded.
			// Retrying cannot make the record appear.
			log.Printf("Dropping confirmation for unknown transfer %s", transactionID)
			return rabbitmq.Ack
		}
		log.Printf("Failed to update transfer %s to %s (attempt %d): %v", transactionID, status, retryCount+1, err)
		if retryCount >= c.maxAttempts {
			return rabbitmq.DeadLetter
		}
		return rabbitmq.Retry
	}

	log.Printf("Transfer %s marked %s", transactionID, status)
	return rabbitmq.Ack
}
