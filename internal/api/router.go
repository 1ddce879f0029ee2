/**
 * @description
 * This file sets up the HTTP router for the invest-service using the
 * go-chi/chi router. It defines the API routes, applies middleware for
 * logging, CORS, and authentication, and maps the routes to their
 * corresponding handler functions.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new Chi router and registers the invest-service routes.
func NewRouter(h *Handlers, jwtSecret, adminAPIKey string) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Api-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Invest service is healthy"))
	})

	// Public catalog
	r.Get("/api/plans", h.ListPlansHandler)

	// Protected routes that require authentication
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSecret))

		r.Post("/api/subscriptions", h.CreateSubscriptionHandler)
		r.Get("/api/subscriptions", h.ListSubscriptionsHandler)
		r.Post("/api/deposits", h.DepositHandler)
		r.Post("/api/withdrawals", h.WithdrawHandler)
		r.Get("/api/balance", h.BalanceHandler)
		r.Get("/api/transactions", h.TransactionsHandler)
	})

	// Operational endpoints guarded by the shared admin key
	r.Group(func(r chi.Router) {
		r.Use(AdminKeyMiddleware(adminAPIKey))

		r.Post("/api/admin/earnings/run", h.TriggerEarningsRunHandler)
	})

	return r
}
