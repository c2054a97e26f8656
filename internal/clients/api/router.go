package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// AccountRoutes creates and returns the router for the clients-service.
func AccountRoutes(h *AccountHandlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/{userID}", h.GetAccountHandler)
		r.Patch("/{userID}", h.UpdateAccountHandler)
		r.Delete("/{userID}", h.DeactivateAccountHandler)
	})

	return r
}
