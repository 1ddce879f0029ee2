/**
 * @description
 * This file defines the Repository interface for the invest-service data
 * access layer, along with the sentinel errors the service layer branches on.
 * The PostgreSQL implementation lives in postgres_repository.go.
 */
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gazoduc/invest-service/internal/domain"
)

var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrAlreadyCredited      = errors.New("subscription already credited for this date")
)

// Repository defines all database operations used by the service and the
// earnings run.
type Repository interface {
	// Plan catalog (read-only; plans are immutable once referenced).
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	FindPlanByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error)

	// Subscriptions.
	ListEligibleSubscriptions(ctx context.Context, asOf time.Time) ([]domain.Subscription, error)
	ListSubscriptionsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Subscription, error)
	PurchaseSubscription(ctx context.Context, sub *domain.Subscription, planName string) (*domain.Transaction, error)
	CompleteExpiredSubscriptions(ctx context.Context, asOf time.Time) (int64, error)

	// Earnings application (atomic: balance credit + ledger append + date advance).
	ApplyEarning(ctx context.Context, earning domain.EarningsResult, runDate time.Time) error

	// Ledger and balances.
	Deposit(ctx context.Context, userID uuid.UUID, amount int64, description string) (*domain.Transaction, error)
	Withdraw(ctx context.Context, userID uuid.UUID, amount int64, description string) (*domain.Transaction, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (*domain.Balance, error)
	FindTransactionsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error)
}
