package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thauan01/project-bank/internal/transactions/app"
	"github.com/thauan01/project-bank/internal/transactions/domain"
	"github.com/thauan01/project-bank/internal/transactions/store"
	"github.com/thauan01/project-bank/pkg/clientsapi"
)

type handlerRepoStub struct {
	store.Repository

	transfer *domain.Transfer
}

func (s *handlerRepoStub) CreateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	s.transfer = transfer
	return nil
}

func (s *handlerRepoStub) FindTransferByID(ctx context.Context, transactionID uuid.UUID) (*domain.Transfer, error) {
	if s.transfer == nil || s.transfer.TransactionID != transactionID {
		return nil, store.ErrTransferNotFound
	}
	return s.transfer, nil
}

type handlerAccountsStub struct {
	accounts map[string]*clientsapi.Account
}

func (s *handlerAccountsStub) GetUserByID(ctx context.Context, userID string) (*clientsapi.Account, error) {
	account, ok := s.accounts[userID]
	if !ok {
		return nil, clientsapi.ErrUserNotFound
	}
	return account, nil
}

type handlerPublisherStub struct{}

func (p *handlerPublisherStub) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	return nil
}

func (p *handlerPublisherStub) Close() {}

func newTestRouter(repo *handlerRepoStub) http.Handler {
	accounts := &handlerAccountsStub{accounts: map[string]*clientsapi.Account{
		"alice": {ID: "alice", Balance: decimal.RequireFromString("100.00"), IsActive: true},
		"bob":   {ID: "bob", Balance: decimal.RequireFromString("0.00"), IsActive: true},
	}}
	service := app.NewService(repo, accounts, &handlerPublisherStub{})
	return TransferRoutes(NewTransferHandlers(service))
}

func TestCreateTransferHandler_Success(t *testing.T) {
	repo := &handlerRepoStub{}
	router := newTestRouter(repo)

	body := `{"senderUserId":"alice","receiverUserId":"bob","amount":25.50,"description":"dinner"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var transfer domain.Transfer
	if err := json.NewDecoder(rec.Body).Decode(&transfer); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if transfer.Status != domain.StatusPending {
		t.Fatalf("expected PENDING status in response, got %s", transfer.Status)
	}
}

func TestCreateTransferHandler_ValidationErrorShape(t *testing.T) {
	router := newTestRouter(&handlerRepoStub{})

	body := `{"senderUserId":"alice","receiverUserId":"bob","amount":-5,"description":"nope"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Status != "error" || resp.Message == "" {
		t.Fatalf("expected {status: error, message: ...}, got %+v", resp)
	}
}

func TestGetTransferHandler_NotFound(t *testing.T) {
	router := newTestRouter(&handlerRepoStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/transactions/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListUserTransfersHandler_UnknownUser(t *testing.T) {
	router := newTestRouter(&handlerRepoStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/mallory/transactions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown user, got %d", rec.Code)
	}
}
