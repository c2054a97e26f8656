package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// TransferRoutes creates and returns the router for the transactions-service.
func TransferRoutes(h *TransferHandlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/transactions", h.CreateTransferHandler)
		r.Get("/transactions/{transactionID}", h.GetTransferHandler)
		r.Get("/users/{userID}/transactions", h.ListUserTransfersHandler)
	})

	return r
}
