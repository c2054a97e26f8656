package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thauan01/project-bank/internal/event"
	"github.com/thauan01/project-bank/internal/transactions/domain"
	"github.com/thauan01/project-bank/internal/transactions/store"
	"github.com/thauan01/project-bank/pkg/rabbitmq"
)

type statusRepoStub struct {
	store.Repository

	updateErr     error
	updatedID     uuid.UUID
	updatedStatus domain.TransferStatus
	updateCalls   int
}

func (s *statusRepoStub) UpdateTransferStatus(ctx context.Context, transactionID uuid.UUID, status domain.TransferStatus) error {
	s.updateCalls++
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedID = transactionID
	s.updatedStatus = status
	return nil
}

func resolvedBody(t *testing.T, transactionID uuid.UUID, status string) []byte {
	t.Helper()
	body, err := json.Marshal(event.TransferResolved{
		TransactionID:  transactionID.String(),
		SenderUserID:   "alice",
		ReceiverUserID: "bob",
		Amount:         decimal.RequireFromString("25.00"),
		Status:         status,
		Timestamp:      event.Now(),
	})
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return body
}

func TestHandleTransferResolved_AppliedCompletesTransfer(t *testing.T) {
	repo := &statusRepoStub{}
	consumer := NewTransferStatusConsumer(repo, 3)
	transactionID := uuid.New()

	decision := consumer.HandleTransferResolved(resolvedBody(t, transactionID, event.ResolutionApplied), 0)

	if decision != rabbitmq.Ack {
		t.Fatalf("expected Ack, got %v", decision)
	}
	if repo.updatedID != transactionID {
		t.Fatalf("expected update for %s, got %s", transactionID, repo.updatedID)
	}
	if repo.updatedStatus != domain.StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", repo.updatedStatus)
	}
}

func TestHandleTransferResolved_FailedMarksTransferFailed(t *testing.T) {
	repo := &statusRepoStub{}
	consumer := NewTransferStatusConsumer(repo, 3)
	transactionID := uuid.New()

	decision := consumer.HandleTransferResolved(resolvedBody(t, transactionID, event.ResolutionFailed), 0)

	if decision != rabbitmq.Ack {
		t.Fatalf("expected Ack, got %v", decision)
	}
	if repo.updatedStatus != domain.StatusFailed {
		t.Fatalf("expected FAILED, got %s", repo.updatedStatus)
	}
}

func TestHandleTransferResolved_RejectsMalformedPayload(t *testing.T) {
	repo := &statusRepoStub{}
	consumer := NewTransferStatusConsumer(repo, 3)

	if decision := consumer.HandleTransferResolved([]byte("{oops"), 0); decision != rabbitmq.Reject {
		t.Fatalf("expected Reject, got %v", decision)
	}
	if repo.updateCalls != 0 {
		t.Fatal("did not expect a status update for a malformed payload")
	}
}

func TestHandleTransferResolved_RejectsUnknownResolution(t *testing.T) {
	repo := &statusRepoStub{}
	consumer := NewTransferStatusConsumer(repo, 3)

	body, _ := json.Marshal(event.TransferResolved{
		TransactionID: uuid.NewString(),
		Status:        "maybe",
	})
	if decision := consumer.HandleTransferResolved(body, 0); decision != rabbitmq.Reject {
		t.Fatalf("expected Reject for unrecognized resolution, got %v", decision)
	}
}

func TestHandleTransferResolved_UnknownTransferIsDropped(t *testing.T) {
	repo := &statusRepoStub{updateErr: store.ErrTransferNotFound}
	consumer := NewTransferStatusConsumer(repo, 3)

	decision := consumer.HandleTransferResolved(resolvedBody(t, uuid.New(), event.ResolutionApplied), 0)

	if decision != rabbitmq.Ack {
		t.Fatalf("expected unknown transfer confirmations to be dropped, got %v", decision)
	}
}

func TestHandleTransferResolved_StoreErrorRetriesThenDeadLetters(t *testing.T) {
	repo := &statusRepoStub{updateErr: errors.New("connection reset")}
	consumer := NewTransferStatusConsumer(repo, 3)
	body := resolvedBody(t, uuid.New(), event.ResolutionApplied)

	for retryCount := 0; retryCount < 3; retryCount++ {
		if decision := consumer.HandleTransferResolved(body, retryCount); decision != rabbitmq.Retry {
			t.Fatalf("expected Retry at retry count %d, got %v", retryCount, decision)
		}
	}
	if decision := consumer.HandleTransferResolved(body, 3); decision != rabbitmq.DeadLetter {
		t.Fatalf("expected DeadLetter at the retry ceiling, got %v", decision)
	}
}
