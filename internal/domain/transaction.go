/**
 * @description
 * This file defines the ledger entry model. The transactions table is an
 * append-only audit trail: entries are never updated or deleted, and a user's
 * balance is always reconcilable as the sum of their entries.
 */
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types.
const (
	TransactionTypeDeposit      = "deposit"
	TransactionTypeWithdrawal   = "withdrawal"
	TransactionTypeProfit       = "profit"
	TransactionTypeSubscription = "subscription"
)

// Transaction represents a single append-only ledger entry. Amount is signed:
// positive for deposits and profit, negative for withdrawals and subscription
// purchases.
type Transaction struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Amount      int64      `json:"amount"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	ReferenceID *uuid.UUID `json:"reference_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Balance reports a user's cached account balance alongside the sum of their
// ledger entries. The two are written in the same database transaction
// everywhere, so a mismatch indicates corruption worth surfacing.
type Balance struct {
	Current   int64 `json:"current"`
	LedgerSum int64 `json:"ledger_sum"`
}

// EarningsResult is the batch-internal specification of one day's profit for
// one subscription, produced by the calculator and consumed by the applier.
// It is never persisted as its own entity.
type EarningsResult struct {
	SubscriptionID uuid.UUID
	UserID         uuid.UUID
	Amount         int64
	Description    string
}
