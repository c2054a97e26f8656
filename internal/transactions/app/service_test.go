package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thauan01/project-bank/internal/event"
	"github.com/thauan01/project-bank/internal/transactions/domain"
	"github.com/thauan01/project-bank/internal/transactions/store"
	"github.com/thauan01/project-bank/pkg/clientsapi"
)

type serviceRepoStub struct {
	store.Repository

	created      []*domain.Transfer
	createErr    error
	transfers    map[uuid.UUID]*domain.Transfer
	byUser       []domain.Transfer
	findByUserID string
}

func (s *serviceRepoStub) CreateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, transfer)
	return nil
}

func (s *serviceRepoStub) FindTransferByID(ctx context.Context, transactionID uuid.UUID) (*domain.Transfer, error) {
	transfer, ok := s.transfers[transactionID]
	if !ok {
		return nil, store.ErrTransferNotFound
	}
	return transfer, nil
}

func (s *serviceRepoStub) FindTransfersByUserID(ctx context.Context, userID string) ([]domain.Transfer, error) {
	s.findByUserID = userID
	return s.byUser, nil
}

type publisherStub struct {
	publishErr  error
	routingKeys []string
	payloads    []interface{}
}

func (p *publisherStub) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	p.payloads = append(p.payloads, body)
	return p.publishErr
}

func (p *publisherStub) Close() {}

type accountsStub struct {
	accounts map[string]*clientsapi.Account
	err      error
}

func (s *accountsStub) GetUserByID(ctx context.Context, userID string) (*clientsapi.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	account, ok := s.accounts[userID]
	if !ok {
		return nil, clientsapi.ErrUserNotFound
	}
	return account, nil
}

func validRequest() domain.CreateTransferRequest {
	return domain.CreateTransferRequest{
		SenderUserID:   "alice",
		ReceiverUserID: "bob",
		Amount:         decimal.RequireFromString("25.00"),
		Description:    "rent split",
	}
}

func newIntakeFixture() (*Service, *serviceRepoStub, *accountsStub, *publisherStub) {
	repo := &serviceRepoStub{}
	accounts := &accountsStub{accounts: map[string]*clientsapi.Account{
		"alice": {ID: "alice", Balance: decimal.RequireFromString("100.00"), IsActive: true},
		"bob":   {ID: "bob", Balance: decimal.RequireFromString("5.00"), IsActive: true},
	}}
	pub := &publisherStub{}
	return NewService(repo, accounts, pub), repo, accounts, pub
}

func TestCreateTransfer_HappyPathStaysPending(t *testing.T) {
	service, repo, _, pub := newIntakeFixture()

	transfer, err := service.CreateTransfer(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if transfer.Status != domain.StatusPending {
		t.Fatalf("expected transfer to stay PENDING until settlement confirms, got %s", transfer.Status)
	}
	if transfer.TransactionID == uuid.Nil {
		t.Fatal("expected a generated transaction id")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one persisted transfer, got %d", len(repo.created))
	}
	if len(pub.routingKeys) != 1 || pub.routingKeys[0] != event.RoutingKeyTransferCreated {
		t.Fatalf("expected one transfer.created event, got %v", pub.routingKeys)
	}
	evt, ok := pub.payloads[0].(event.TransferCreated)
	if !ok {
		t.Fatalf("expected a TransferCreated payload, got %T", pub.payloads[0])
	}
	if evt.Status != event.StatusSuccess {
		t.Fatalf("expected event status success, got %q", evt.Status)
	}
	if evt.TransactionID != transfer.TransactionID.String() {
		t.Fatalf("expected event to carry the persisted transaction id %s, got %s", transfer.TransactionID, evt.TransactionID)
	}
}

func TestCreateTransfer_NegativeAmountLeavesNoTrace(t *testing.T) {
	service, repo, _, pub := newIntakeFixture()

	req := validRequest()
	req.Amount = decimal.RequireFromString("-5.00")

	if _, err := service.CreateTransfer(context.Background(), req); !errors.Is(err, ErrNonPositiveAmount) {
		t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("did not expect a persisted record for a rejected request")
	}
	if len(pub.routingKeys) != 0 {
		t.Fatal("did not expect an event for a rejected request")
	}
}

func TestCreateTransfer_MissingFields(t *testing.T) {
	service, _, _, _ := newIntakeFixture()

	cases := map[string]domain.CreateTransferRequest{
		"no sender": {
			ReceiverUserID: "bob",
			Amount:         decimal.RequireFromString("5"),
			Description:    "x",
		},
		"no receiver": {
			SenderUserID: "alice",
			Amount:       decimal.RequireFromString("5"),
			Description:  "x",
		},
		"no amount": {
			SenderUserID:   "alice",
			ReceiverUserID: "bob",
			Description:    "x",
		},
		"no description": {
			SenderUserID:   "alice",
			ReceiverUserID: "bob",
			Amount:         decimal.RequireFromString("5"),
		},
	}

	for name, req := range cases {
		if _, err := service.CreateTransfer(context.Background(), req); !errors.Is(err, ErrMissingFields) {
			t.Errorf("%s: expected ErrMissingFields, got %v", name, err)
		}
	}
}

func TestCreateTransfer_SameAccount(t *testing.T) {
	service, _, _, _ := newIntakeFixture()

	req := validRequest()
	req.ReceiverUserID = req.SenderUserID

	if _, err := service.CreateTransfer(context.Background(), req); !errors.Is(err, ErrSameAccount) {
		t.Fatalf("expected ErrSameAccount, got %v", err)
	}
}

func TestCreateTransfer_UnknownParties(t *testing.T) {
	service, _, accounts, _ := newIntakeFixture()

	delete(accounts.accounts, "bob")
	if _, err := service.CreateTransfer(context.Background(), validRequest()); !errors.Is(err, ErrReceiverNotFound) {
		t.Fatalf("expected ErrReceiverNotFound, got %v", err)
	}

	delete(accounts.accounts, "alice")
	if _, err := service.CreateTransfer(context.Background(), validRequest()); !errors.Is(err, ErrSenderNotFound) {
		t.Fatalf("expected ErrSenderNotFound, got %v", err)
	}
}

func TestCreateTransfer_InsufficientBalance(t *testing.T) {
	service, repo, _, pub := newIntakeFixture()

	req := validRequest()
	req.Amount = decimal.RequireFromString("100.01")

	if _, err := service.CreateTransfer(context.Background(), req); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if len(repo.created) != 0 || len(pub.routingKeys) != 0 {
		t.Fatal("did not expect a record or event for an underfunded request")
	}
}

func TestCreateTransfer_ClientsServiceDown(t *testing.T) {
	service, _, accounts, _ := newIntakeFixture()

	accounts.err = errors.New("dial tcp: connection refused")
	if _, err := service.CreateTransfer(context.Background(), validRequest()); !errors.Is(err, ErrClientsUnavailable) {
		t.Fatalf("expected ErrClientsUnavailable, got %v", err)
	}
}

func TestCreateTransfer_PublishFailureSurfaces(t *testing.T) {
	service, repo, _, pub := newIntakeFixture()

	pub.publishErr = errors.New("channel closed")
	if _, err := service.CreateTransfer(context.Background(), validRequest()); err == nil {
		t.Fatal("expected an error when the event cannot be published")
	}
	// The PENDING record survives so operators can replay it.
	if len(repo.created) != 1 {
		t.Fatalf("expected the persisted record to remain, got %d", len(repo.created))
	}
}

func TestGetTransfer_InvalidID(t *testing.T) {
	service, _, _, _ := newIntakeFixture()

	if _, err := service.GetTransfer(context.Background(), "not-a-uuid"); !errors.Is(err, ErrInvalidTransactionID) {
		t.Fatalf("expected ErrInvalidTransactionID, got %v", err)
	}
}

func TestListTransfersForUser_UnknownUser(t *testing.T) {
	service, _, _, _ := newIntakeFixture()

	if _, err := service.ListTransfersForUser(context.Background(), "mallory"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListTransfersForUser_EmptyHistoryIsNotNil(t *testing.T) {
	service, repo, _, _ := newIntakeFixture()

	transfers, err := service.ListTransfersForUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if transfers == nil {
		t.Fatal("expected an empty slice, not nil")
	}
	if repo.findByUserID != "alice" {
		t.Fatalf("expected repository lookup for alice, got %q", repo.findByUserID)
	}
}
