/**
 * @description
 * This file contains the daily earnings accrual core. One run scans the
 * subscriptions due for a credit on the run date, computes each day's profit
 * from the owning plan's rate, and applies each earning as an atomic balance
 * credit + ledger append + last_profit_date advance.
 *
 * The run is re-entrant: the scanner excludes subscriptions already credited
 * for the run date, and the store re-checks that guard under a row lock, so
 * running twice on the same calendar day never double-credits.
 *
 * @dependencies
 * - internal/domain, internal/store: For domain models, money math and data access.
 * - pkg/rabbitmq: For publishing earnings events.
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

// EarningsStore defines the database operations the earnings run needs.
type EarningsStore interface {
	ListEligibleSubscriptions(ctx context.Context, asOf time.Time) ([]domain.Subscription, error)
	FindPlanByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error)
	ApplyEarning(ctx context.Context, earning domain.EarningsResult, runDate time.Time) error
}

// RunReport summarizes one earnings run.
type RunReport struct {
	RunDate       time.Time `json:"run_date"`
	Eligible      int       `json:"eligible"`
	Applied       int       `json:"applied"`
	Skipped       int       `json:"skipped"`
	Failed        int       `json:"failed"`
	TotalCredited int64     `json:"total_credited"`
}

// Earnings runs the daily profit accrual over all eligible subscriptions.
type Earnings struct {
	store      EarningsStore
	events     rabbitmq.Publisher
	logger     *slog.Logger
	runTimeout time.Duration
}

// NewEarnings creates a new earnings runner.
func NewEarnings(store EarningsStore, events rabbitmq.Publisher, logger *slog.Logger, runTimeout time.Duration) *Earnings {
	return &Earnings{
		store:      store,
		events:     events,
		logger:     logger,
		runTimeout: runTimeout,
	}
}

// Run executes one earnings run for the given date. The date is normalized to
// a UTC calendar day; passing a past date performs a backfill for that day.
//
// A subscription with a missing plan is skipped and logged, and a failure to
// apply one earning does not stop the rest of the batch. Only a scanner
// failure aborts the run.
func (e *Earnings) Run(ctx context.Context, asOf time.Time) (*RunReport, error) {
	runDate := domain.NormalizeDate(asOf)

	if e.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.runTimeout)
		defer cancel()
	}

	subs, err := e.store.ListEligibleSubscriptions(ctx, runDate)
	if err != nil {
		return nil, fmt.Errorf("list eligible subscriptions: %w", err)
	}

	report := &RunReport{RunDate: runDate, Eligible: len(subs)}

	if len(subs) == 0 {
		e.logger.Info("earnings run found no eligible subscriptions", "run_date", runDate.Format(time.DateOnly))
		return report, nil
	}

	for _, sub := range subs {
		// The SQL filter already enforced the window; re-checking with the
		// shared predicate keeps the two from drifting apart.
		if !sub.IsActiveOn(runDate) || sub.CreditedOn(runDate) {
			report.Skipped++
			continue
		}

		plan, err := e.store.FindPlanByID(ctx, sub.PlanID)
		if err != nil {
			if errors.Is(err, store.ErrPlanNotFound) {
				e.logger.Warn("subscription references missing plan, skipping",
					"subscription_id", sub.ID, "plan_id", sub.PlanID)
				report.Skipped++
				continue
			}
			e.logger.Error("plan lookup failed",
				"subscription_id", sub.ID, "plan_id", sub.PlanID, "error", err)
			report.Failed++
			continue
		}

		earning := domain.EarningsResult{
			SubscriptionID: sub.ID,
			UserID:         sub.UserID,
			Amount:         domain.ComputeDailyProfit(sub.Amount, plan.DailyRateBp),
			Description:    fmt.Sprintf("Daily profit for plan %s", plan.Name),
		}

		if err := e.store.ApplyEarning(ctx, earning, runDate); err != nil {
			if errors.Is(err, store.ErrAlreadyCredited) {
				// A concurrent run got there first; nothing to replay.
				report.Skipped++
				continue
			}
			e.logger.Error("failed to apply earning",
				"subscription_id", sub.ID, "user_id", sub.UserID,
				"amount", earning.Amount, "run_date", runDate.Format(time.DateOnly), "error", err)
			report.Failed++
			continue
		}

		report.Applied++
		report.TotalCredited += earning.Amount

		event := rabbitmq.EarningsCreditedEvent{
			UserID:         sub.UserID,
			SubscriptionID: sub.ID,
			Amount:         earning.Amount,
			RunDate:        runDate,
			Timestamp:      time.Now().UTC(),
		}
		if err := e.events.Publish(ctx, rabbitmq.RoutingKeyEarningsCredited, event); err != nil {
			e.logger.Warn("failed to publish earnings event",
				"subscription_id", sub.ID, "error", err)
		}
	}

	e.logger.Info("earnings run finished",
		"run_date", runDate.Format(time.DateOnly),
		"eligible", report.Eligible,
		"applied", report.Applied,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"total_credited", report.TotalCredited)

	return report, nil
}
