/**
 * @description
 * This file contains the HTTP handlers for the invest-service API endpoints.
 * Handlers are responsible for parsing incoming requests, calling the
 * appropriate methods on the application service, and writing the HTTP
 * response. They act as the bridge between the web layer and the business
 * logic layer.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - internal/app, internal/store: For service logic and custom errors.
 */
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gazoduc/invest-service/internal/app"
	"github.com/gazoduc/invest-service/internal/store"
)

// Handlers holds the application services that handlers will use.
type Handlers struct {
	service  *app.Service
	earnings *app.Earnings
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(service *app.Service, earnings *app.Earnings) *Handlers {
	return &Handlers{service: service, earnings: earnings}
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type subscribeRequest struct {
	PlanID string `json:"plan_id"`
	Amount int64  `json:"amount"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("level=error component=api msg=\"failed to encode response\" err=%v", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message})
}

// ListPlansHandler returns the investment plan catalog.
func (h *Handlers) ListPlansHandler(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.ListPlans(r.Context())
	if err != nil {
		log.Printf("level=error component=api msg=\"failed to list plans\" err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "Unable to load plans")
		return
	}
	h.writeJSON(w, http.StatusOK, plans)
}

// CreateSubscriptionHandler purchases a plan for the authenticated user.
func (h *Handlers) CreateSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid plan id")
		return
	}

	sub, err := h.service.Subscribe(r.Context(), userID, planID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidAmount):
			h.writeError(w, http.StatusBadRequest, "Amount must be positive")
		case errors.Is(err, store.ErrPlanNotFound):
			h.writeError(w, http.StatusNotFound, "Plan not found")
		case errors.Is(err, store.ErrInsufficientFunds), errors.Is(err, store.ErrAccountNotFound):
			h.writeError(w, http.StatusUnprocessableEntity, "Insufficient balance")
		default:
			log.Printf("level=error component=api msg=\"subscription purchase failed\" user_id=%s err=%v", userID, err)
			h.writeError(w, http.StatusInternalServerError, "Unable to create subscription")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, sub)
}

// ListSubscriptionsHandler returns the authenticated user's subscriptions
// with derived dashboard figures.
func (h *Handlers) ListSubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	views, err := h.service.GetSubscriptions(r.Context(), userID)
	if err != nil {
		log.Printf("level=error component=api msg=\"failed to list subscriptions\" user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Unable to load subscriptions")
		return
	}
	h.writeJSON(w, http.StatusOK, views)
}

// DepositHandler credits the authenticated user's balance.
func (h *Handlers) DepositHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.service.Deposit(r.Context(), userID, req.Amount)
	if err != nil {
		if errors.Is(err, app.ErrInvalidAmount) {
			h.writeError(w, http.StatusBadRequest, "Amount must be positive")
			return
		}
		log.Printf("level=error component=api msg=\"deposit failed\" user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Unable to process deposit")
		return
	}

	h.writeJSON(w, http.StatusCreated, entry)
}

// WithdrawHandler debits the authenticated user's balance.
func (h *Handlers) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.service.Withdraw(r.Context(), userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidAmount):
			h.writeError(w, http.StatusBadRequest, "Amount must be positive")
		case errors.Is(err, store.ErrInsufficientFunds), errors.Is(err, store.ErrAccountNotFound):
			h.writeError(w, http.StatusUnprocessableEntity, "Insufficient balance")
		default:
			log.Printf("level=error component=api msg=\"withdrawal failed\" user_id=%s err=%v", userID, err)
			h.writeError(w, http.StatusInternalServerError, "Unable to process withdrawal")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, entry)
}

// BalanceHandler returns the authenticated user's balance.
func (h *Handlers) BalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		log.Printf("level=error component=api msg=\"failed to get balance\" user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Unable to load balance")
		return
	}
	h.writeJSON(w, http.StatusOK, balance)
}

// TransactionsHandler returns the authenticated user's ledger history.
func (h *Handlers) TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	transactions, err := h.service.GetTransactions(r.Context(), userID)
	if err != nil {
		log.Printf("level=error component=api msg=\"failed to list transactions\" user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Unable to load transactions")
		return
	}
	h.writeJSON(w, http.StatusOK, transactions)
}

// TriggerEarningsRunHandler starts an earnings run for today, or for the date
// given in the `date` query parameter (YYYY-MM-DD) when backfilling.
func (h *Handlers) TriggerEarningsRunHandler(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	report, err := h.earnings.Run(r.Context(), asOf)
	if err != nil {
		log.Printf("level=error component=api msg=\"manual earnings run failed\" err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "Earnings run failed")
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}
