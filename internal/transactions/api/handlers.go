/**
 * @description
 * This file contains the HTTP handlers for the transactions-service's transfer
 * API. Handlers parse requests, call the application service, and translate
 * service sentinels into HTTP status codes.
 *
 * @dependencies
 * - encoding/json, errors, net/http: Standard Go libraries.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 * - internal/transactions/app, internal/transactions/domain, internal/transactions/store.
 */
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thauan01/project-bank/internal/transactions/app"
	"github.com/thauan01/project-bank/internal/transactions/domain"
	"github.com/thauan01/project-bank/internal/transactions/store"
)

// TransferHandlers holds the application service that handlers will use.
type TransferHandlers struct {
	service *app.Service
}

// NewTransferHandlers creates the handler set for the transfer API.
func NewTransferHandlers(service *app.Service) *TransferHandlers {
	return &TransferHandlers{service: service}
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("level=error component=api msg=\"response encode failed\" err=%v", err)
		}
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Status: "error", Message: message})
}

// CreateTransferHandler handles POST /api/transactions.
func (h *TransferHandlers) CreateTransferHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	transfer, err := h.service.CreateTransfer(r.Context(), req)
	if err != nil {
		writeTransferError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, transfer)
}

// GetTransferHandler handles GET /api/transactions/{transactionID}.
func (h *TransferHandlers) GetTransferHandler(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")

	transfer, err := h.service.GetTransfer(r.Context(), transactionID)
	if err != nil {
		writeTransferError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, transfer)
}

// ListUserTransfersHandler handles GET /api/users/{userID}/transactions.
func (h *TransferHandlers) ListUserTransfersHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	transfers, err := h.service.ListTransfersForUser(r.Context(), userID)
	if err != nil {
		writeTransferError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, transfers)
}

func writeTransferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrMissingFields),
		errors.Is(err, app.ErrNonPositiveAmount),
		errors.Is(err, app.ErrSameAccount),
		errors.Is(err, app.ErrDescriptionTooLong),
		errors.Is(err, app.ErrInvalidTransactionID):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrSenderNotFound),
		errors.Is(err, app.ErrReceiverNotFound),
		errors.Is(err, app.ErrUserNotFound),
		errors.Is(err, store.ErrTransferNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrInsufficientBalance):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, app.ErrClientsUnavailable):
		respondWithError(w, http.StatusBadGateway, "clients service unavailable")
	default:
		log.Printf("level=error component=api msg=\"transfer operation failed\" err=%v", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
