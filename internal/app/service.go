/**
 * @description
 * This file contains the business logic for the customer-facing platform
 * operations: the plan catalog, subscription purchases, deposits, withdrawals,
 * balances and transaction history. The Service layer validates input,
 * delegates persistence to the repository, and publishes events for committed
 * money movements.
 *
 * @dependencies
 * - internal/domain, internal/store: For domain models and data access.
 * - pkg/rabbitmq: For publishing transaction events.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gazoduc/invest-service/internal/domain"
	"github.com/gazoduc/invest-service/internal/store"
	"github.com/gazoduc/invest-service/pkg/rabbitmq"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Service provides the business logic for the customer-facing platform operations.
type Service struct {
	repo   store.Repository
	events rabbitmq.Publisher
	logger *slog.Logger
}

// NewService creates a new platform service instance.
func NewService(repo store.Repository, events rabbitmq.Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, events: events, logger: logger}
}

// ListPlans returns the investment plan catalog.
func (s *Service) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return s.repo.ListPlans(ctx)
}

// Subscribe purchases a plan for the user with the given principal. The
// principal is debited from the user's balance; the subscription window runs
// from today for the plan's full duration.
func (s *Service) Subscribe(ctx context.Context, userID, planID uuid.UUID, amount int64) (*domain.Subscription, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	plan, err := s.repo.FindPlanByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	start := domain.NormalizeDate(time.Now().UTC())
	sub := &domain.Subscription{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    plan.ID,
		Amount:    amount,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, plan.DurationDays),
		Status:    domain.SubscriptionStatusActive,
	}

	entry, err := s.repo.PurchaseSubscription(ctx, sub, plan.Name)
	if err != nil {
		return nil, fmt.Errorf("purchase subscription: %w", err)
	}

	s.publishTransactionEvent(ctx, entry)
	return sub, nil
}

// GetSubscriptions returns the user's subscriptions enriched with the derived
// figures the dashboard displays.
func (s *Service) GetSubscriptions(ctx context.Context, userID uuid.UUID) ([]domain.SubscriptionView, error) {
	subs, err := s.repo.ListSubscriptionsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	views := make([]domain.SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		view := domain.SubscriptionView{
			Subscription:  sub,
			DaysRemaining: domain.DaysRemaining(sub.EndDate, now),
		}

		plan, err := s.repo.FindPlanByID(ctx, sub.PlanID)
		if err != nil {
			// A missing plan must not hide the subscription itself.
			s.logger.Warn("plan lookup failed for subscription view",
				"subscription_id", sub.ID, "plan_id", sub.PlanID, "error", err)
		} else {
			view.PlanName = plan.Name
			view.EstimatedTotalEarnings = domain.EstimatedTotalEarnings(sub.Amount, plan.DailyRateBp, plan.DurationDays)
			view.ROIBasisPoints = domain.ROIBasisPoints(sub.Amount, view.EstimatedTotalEarnings)
		}

		views = append(views, view)
	}
	return views, nil
}

// Deposit credits the user's balance and records the ledger entry.
func (s *Service) Deposit(ctx context.Context, userID uuid.UUID, amount int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	entry, err := s.repo.Deposit(ctx, userID, amount, "Account deposit")
	if err != nil {
		return nil, fmt.Errorf("deposit: %w", err)
	}

	s.publishTransactionEvent(ctx, entry)
	return entry, nil
}

// Withdraw debits the user's balance and records the ledger entry. Returns
// store.ErrInsufficientFunds when the balance cannot cover the amount.
func (s *Service) Withdraw(ctx context.Context, userID uuid.UUID, amount int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	entry, err := s.repo.Withdraw(ctx, userID, amount, "Account withdrawal")
	if err != nil {
		return nil, err
	}

	s.publishTransactionEvent(ctx, entry)
	return entry, nil
}

// GetBalance returns the user's cached balance and ledger sum.
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (*domain.Balance, error) {
	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance.Current != balance.LedgerSum {
		s.logger.Error("cached balance diverged from ledger sum",
			"user_id", userID, "current", balance.Current, "ledger_sum", balance.LedgerSum)
	}
	return balance, nil
}

// GetTransactions returns the user's ledger history, newest first.
func (s *Service) GetTransactions(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	return s.repo.FindTransactionsByUserID(ctx, userID)
}

func (s *Service) publishTransactionEvent(ctx context.Context, entry *domain.Transaction) {
	event := rabbitmq.TransactionRecordedEvent{
		UserID:        entry.UserID,
		TransactionID: entry.ID,
		Type:          entry.Type,
		Amount:        entry.Amount,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, rabbitmq.RoutingKeyTransactionRecorded, event); err != nil {
		s.logger.Warn("failed to publish transaction event",
			"transaction_id", entry.ID, "error", err)
	}
}
