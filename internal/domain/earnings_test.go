package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeDailyProfit(t *testing.T) {
	tests := []struct {
		name      string
		principal int64
		rateBp    int64
		want      int64
	}{
		{name: "5000.00 at 1.5 percent", principal: 500000, rateBp: 150, want: 7500},
		{name: "5000.00 at 2 percent", principal: 500000, rateBp: 200, want: 10000},
		{name: "zero rate", principal: 500000, rateBp: 0, want: 0},
		{name: "zero principal", principal: 0, rateBp: 150, want: 0},
		{name: "negative principal", principal: -100, rateBp: 150, want: 0},
		{name: "rounds half up", principal: 333, rateBp: 150, want: 5}, // 4.995 -> 5
		{name: "rounds down below half", principal: 100, rateBp: 33, want: 0}, // 0.33 -> 0
		{name: "one cent principal", principal: 1, rateBp: 10000, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDailyProfit(tt.principal, tt.rateBp)
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestEstimatedTotalEarnings(t *testing.T) {
	// 5000.00 at 2% over 120 days must project exactly 12000.00.
	got := EstimatedTotalEarnings(500000, 200, 120)
	if got != 1200000 {
		t.Fatalf("expected 1200000, got %d", got)
	}

	if got := EstimatedTotalEarnings(500000, 200, 0); got != 0 {
		t.Fatalf("expected 0 for zero duration, got %d", got)
	}
}

func TestEstimatedTotalEarningsMatchesDailyProfit(t *testing.T) {
	// The projection must always equal durationDays times the daily credit,
	// including for principals where the daily amount gets rounded.
	principals := []int64{1, 99, 333, 500000, 1234567}
	rates := []int64{0, 1, 33, 150, 200, 10000}

	for _, p := range principals {
		for _, r := range rates {
			days := 90
			want := int64(days) * ComputeDailyProfit(p, r)
			got := EstimatedTotalEarnings(p, r, days)
			if got != want {
				t.Fatalf("principal=%d rate=%d: expected %d, got %d", p, r, want, got)
			}
		}
	}
}

func TestROIBasisPoints(t *testing.T) {
	tests := []struct {
		name          string
		principal     int64
		totalEarnings int64
		want          int64
	}{
		{name: "240 percent", principal: 500000, totalEarnings: 1200000, want: 24000},
		{name: "break even", principal: 500000, totalEarnings: 500000, want: 10000},
		{name: "zero principal", principal: 0, totalEarnings: 100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ROIBasisPoints(tt.principal, tt.totalEarnings)
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestDaysRemaining(t *testing.T) {
	today := date(2024, time.March, 10)

	tests := []struct {
		name    string
		endDate time.Time
		want    int
	}{
		{name: "ends today", endDate: today, want: 0},
		{name: "ends in five days", endDate: today.AddDate(0, 0, 5), want: 5},
		{name: "ended yesterday", endDate: today.AddDate(0, 0, -1), want: 0},
		{name: "ended long ago", endDate: today.AddDate(0, -2, 0), want: 0},
		{name: "ignores time of day", endDate: today.AddDate(0, 0, 5).Add(23 * time.Hour), want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysRemaining(tt.endDate, today)
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestSubscriptionIsActiveOn(t *testing.T) {
	start := date(2024, time.March, 1)
	end := date(2024, time.March, 31)

	tests := []struct {
		name   string
		status string
		asOf   time.Time
		want   bool
	}{
		{name: "inside window", status: SubscriptionStatusActive, asOf: date(2024, time.March, 10), want: true},
		{name: "first day", status: SubscriptionStatusActive, asOf: start, want: true},
		{name: "last day", status: SubscriptionStatusActive, asOf: end, want: true},
		{name: "day after end", status: SubscriptionStatusActive, asOf: date(2024, time.April, 1), want: false},
		{name: "day before start", status: SubscriptionStatusActive, asOf: date(2024, time.February, 29), want: false},
		{name: "completed status", status: SubscriptionStatusCompleted, asOf: date(2024, time.March, 10), want: false},
		{name: "cancelled status", status: SubscriptionStatusCancelled, asOf: date(2024, time.March, 10), want: false},
		{name: "time of day ignored", status: SubscriptionStatusActive, asOf: end.Add(22 * time.Hour), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := Subscription{StartDate: start, EndDate: end, Status: tt.status}
			got := sub.IsActiveOn(tt.asOf)
			if got != tt.want {
				t.Fatalf("expected %t, got %t", tt.want, got)
			}
		})
	}
}

func TestSubscriptionCreditedOn(t *testing.T) {
	day := date(2024, time.March, 10)

	sub := Subscription{}
	if sub.CreditedOn(day) {
		t.Fatal("expected never-credited subscription to report false")
	}

	credited := day
	sub.LastProfitDate = &credited
	if !sub.CreditedOn(day) {
		t.Fatal("expected subscription credited today to report true")
	}
	if !sub.CreditedOn(day.Add(14 * time.Hour)) {
		t.Fatal("expected same calendar day with different time to report true")
	}
	if sub.CreditedOn(day.AddDate(0, 0, 1)) {
		t.Fatal("expected next day to report false")
	}
}
