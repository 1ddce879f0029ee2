/**
 * @description
 * Pure money math for the earnings engine and the dashboard projections.
 * All amounts are int64 minor units and all rates are int64 basis points, so
 * repeated daily accruals cannot drift the way floating point would.
 */
package domain

import "time"

// NormalizeDate truncates a timestamp to midnight UTC. The earnings run works
// at date-only granularity; time of day is ignored everywhere.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComputeDailyProfit returns one day's profit for the given principal and
// daily rate: principal * rateBp / 10000, rounded half up. A zero or negative
// rate yields zero profit; the subscription still gets marked as credited for
// the day so the idempotency guard holds.
func ComputeDailyProfit(principal, rateBp int64) int64 {
	if principal <= 0 || rateBp <= 0 {
		return 0
	}
	return (principal*rateBp + 5000) / 10000
}

// EstimatedTotalEarnings projects the total profit over a plan's full
// duration. It is defined as durationDays times the rounded daily profit so
// the projection always agrees with what the daily run will actually credit.
func EstimatedTotalEarnings(principal, rateBp int64, durationDays int) int64 {
	if durationDays <= 0 {
		return 0
	}
	return int64(durationDays) * ComputeDailyProfit(principal, rateBp)
}

// ROIBasisPoints returns total earnings relative to principal in basis points
// (10000 bp = 100%).
func ROIBasisPoints(principal, totalEarnings int64) int64 {
	if principal <= 0 {
		return 0
	}
	return totalEarnings * 10000 / principal
}

// DaysRemaining returns the whole days left until endDate, never negative.
// endDate equal to asOf (or in the past) yields 0.
func DaysRemaining(endDate, asOf time.Time) int {
	days := int(NormalizeDate(endDate).Sub(NormalizeDate(asOf)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
