/**
 * @description
 * This file contains the HTTP handlers for the clients-service's account API.
 * Handlers parse requests, call the application service, and translate store
 * sentinels into HTTP status codes.
 *
 * @dependencies
 * - encoding/json, errors, net/http: Standard Go libraries.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 * - internal/clients/app, internal/clients/domain, internal/clients/store.
 */
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thauan01/project-bank/internal/clients/app"
	"github.com/thauan01/project-bank/internal/clients/domain"
	"github.com/thauan01/project-bank/internal/clients/store"
)

// AccountHandlers holds the application service that handlers will use.
type AccountHandlers struct {
	service *app.Service
}

// NewAccountHandlers creates the handler set for the account API.
func NewAccountHandlers(service *app.Service) *AccountHandlers {
	return &AccountHandlers{service: service}
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

// GetAccountHandler handles GET /api/users/{userID}.
func (h *AccountHandlers) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	account, err := h.service.GetAccount(r.Context(), userID)
	if err != nil {
		writeAccountError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, account)
}

// UpdateAccountHandler handles PATCH /api/users/{userID}.
func (h *AccountHandlers) UpdateAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var data domain.UpdateAccountData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.service.UpdateAccount(r.Context(), userID, data)
	if err != nil {
		writeAccountError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, account)
}

// DeactivateAccountHandler handles DELETE /api/users/{userID} (soft delete).
func (h *AccountHandlers) DeactivateAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := h.service.DeactivateAccount(r.Context(), userID); err != nil {
		writeAccountError(w, err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

func writeAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrAccountNotFound):
		respondWithError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, app.ErrInvalidAccountID),
		errors.Is(err, app.ErrInvalidName),
		errors.Is(err, app.ErrInvalidEmail),
		errors.Is(err, app.ErrInvalidAddress),
		errors.Is(err, store.ErrNoFieldsToUpdate):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrEmailTaken):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("level=error component=api msg=\"account operation failed\" err=%v", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
