/**
 * @description
 * This file defines the investment plan catalog model. Plans are static catalog
 * entries: once a subscription references a plan, the plan's rate and duration
 * must never change, so past accruals stay reproducible.
 */
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plan represents an investment pack offered on the platform. Rates are stored
// in basis points (1.5% per day = 150 bp) so all profit math stays in integers.
type Plan struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	DailyRateBp  int64     `json:"daily_rate_bp"`
	DurationDays int       `json:"duration_days"`
	CreatedAt    time.Time `json:"created_at"`
}
