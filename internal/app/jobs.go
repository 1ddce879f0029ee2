/**
 * @description
 * Scheduled job implementations for the invest-service.
 */
package app

import (
	"context"
	"log/slog"
	"time"
)

// SubscriptionCompleter defines the database operation the completion job needs.
type SubscriptionCompleter interface {
	CompleteExpiredSubscriptions(ctx context.Context, asOf time.Time) (int64, error)
}

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	earnings  *Earnings
	completer SubscriptionCompleter
	logger    *slog.Logger
}

// NewJobs creates a new Jobs runner.
func NewJobs(earnings *Earnings, completer SubscriptionCompleter, logger *slog.Logger) *Jobs {
	return &Jobs{
		earnings:  earnings,
		completer: completer,
		logger:    logger,
	}
}

// RunDailyEarnings triggers the daily profit accrual run for today.
func (j *Jobs) RunDailyEarnings() {
	j.logger.Info("starting daily earnings job")
	ctx := context.Background()

	if _, err := j.earnings.Run(ctx, time.Now().UTC()); err != nil {
		// The run is idempotent; the next trigger retries safely.
		j.logger.Error("daily earnings job failed", "error", err)
		return
	}

	j.logger.Info("daily earnings job finished")
}

// CompleteExpiredSubscriptions transitions active subscriptions whose end date
// has passed to 'completed'.
func (j *Jobs) CompleteExpiredSubscriptions() {
	j.logger.Info("starting subscription completion job")
	ctx := context.Background()

	count, err := j.completer.CompleteExpiredSubscriptions(ctx, time.Now().UTC())
	if err != nil {
		j.logger.Error("subscription completion job failed", "error", err)
		return
	}

	j.logger.Info("subscription completion job finished", "completed", count)
}
