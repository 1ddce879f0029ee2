/**
 * @description
 * This file defines the subscription model: a user's purchase of an investment
 * plan with a fixed principal and a fixed date window. The daily earnings run
 * advances LastProfitDate as it credits profit, which is what makes the run
 * idempotent per calendar day.
 */
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription statuses.
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCompleted = "completed"
	SubscriptionStatusCancelled = "cancelled"
)

// Subscription represents a user's purchase of a plan.
type Subscription struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	PlanID         uuid.UUID  `json:"plan_id"`
	Amount         int64      `json:"amount"` // principal in minor units, fixed at purchase
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Status         string     `json:"status"`
	LastProfitDate *time.Time `json:"last_profit_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IsActiveOn reports whether the subscription is active and inside its date
// window on the given day. This is the single eligibility predicate shared by
// the earnings run and by reporting; the scanner's SQL filter mirrors it.
func (s Subscription) IsActiveOn(asOf time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	day := NormalizeDate(asOf)
	return !day.Before(NormalizeDate(s.StartDate)) && !day.After(NormalizeDate(s.EndDate))
}

// CreditedOn reports whether the subscription has already received its profit
// for the given day.
func (s Subscription) CreditedOn(asOf time.Time) bool {
	if s.LastProfitDate == nil {
		return false
	}
	return NormalizeDate(*s.LastProfitDate).Equal(NormalizeDate(asOf))
}

// SubscriptionView is the DTO returned to clients, enriching a subscription
// with the derived figures the dashboard displays.
type SubscriptionView struct {
	Subscription
	PlanName               string `json:"plan_name"`
	DaysRemaining          int    `json:"days_remaining"`
	EstimatedTotalEarnings int64  `json:"estimated_total_earnings"`
	ROIBasisPoints         int64  `json:"roi_bp"`
}
