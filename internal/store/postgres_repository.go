/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository`
 * interface. It contains all the SQL for plans, subscriptions, accounts and
 * the append-only transactions ledger.
 *
 * The three writes that make up one earning (balance credit, ledger append,
 * last_profit_date advance) are executed inside a single database transaction
 * with the subscription row locked FOR UPDATE, so overlapping runs cannot
 * credit the same subscription twice for one calendar day.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gazoduc/invest-service/internal/domain"
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListPlans returns the full plan catalog, cheapest first.
func (r *PostgresRepository) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	query := `
        SELECT id, name, daily_rate_bp, duration_days, created_at
        FROM plans
        ORDER BY daily_rate_bp, name
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		var p domain.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.DailyRateBp, &p.DurationDays, &p.CreatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// FindPlanByID retrieves a single plan from the catalog.
func (r *PostgresRepository) FindPlanByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	var p domain.Plan
	query := `SELECT id, name, daily_rate_bp, duration_days, created_at FROM plans WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.DailyRateBp, &p.DurationDays, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListEligibleSubscriptions fetches all subscriptions due for an earnings
// credit on the given date: active, inside their date window, and not yet
// credited for that day. The filter mirrors domain.Subscription.IsActiveOn.
func (r *PostgresRepository) ListEligibleSubscriptions(ctx context.Context, asOf time.Time) ([]domain.Subscription, error) {
	day := domain.NormalizeDate(asOf)
	query := `
        SELECT id, user_id, plan_id, amount, start_date, end_date, status, last_profit_date, created_at
        FROM subscriptions
        WHERE status = 'active'
          AND start_date <= $1
          AND end_date >= $1
          AND (last_profit_date IS NULL OR last_profit_date < $1)
    `
	rows, err := r.db.Query(ctx, query, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubscriptions(rows)
}

// ListSubscriptionsByUserID retrieves all subscriptions for a user, newest first.
func (r *PostgresRepository) ListSubscriptionsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Subscription, error) {
	query := `
        SELECT id, user_id, plan_id, amount, start_date, end_date, status, last_profit_date, created_at
        FROM subscriptions
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubscriptions(rows)
}

func scanSubscriptions(rows pgx.Rows) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		err := rows.Scan(
			&sub.ID, &sub.UserID, &sub.PlanID, &sub.Amount,
			&sub.StartDate, &sub.EndDate, &sub.Status, &sub.LastProfitDate, &sub.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// PurchaseSubscription debits the principal from the user's balance, creates
// the subscription row and appends the negative 'subscription' ledger entry,
// all in one transaction.
func (r *PostgresRepository) PurchaseSubscription(ctx context.Context, sub *domain.Subscription, planName string) (*domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := debitBalance(ctx, tx, sub.UserID, sub.Amount); err != nil {
		return nil, err
	}

	insertSub := `
        INSERT INTO subscriptions (id, user_id, plan_id, amount, start_date, end_date, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING created_at
    `
	err = tx.QueryRow(ctx, insertSub,
		sub.ID, sub.UserID, sub.PlanID, sub.Amount,
		domain.NormalizeDate(sub.StartDate), domain.NormalizeDate(sub.EndDate), sub.Status,
	).Scan(&sub.CreatedAt)
	if err != nil {
		return nil, err
	}

	entry := &domain.Transaction{
		ID:          uuid.New(),
		UserID:      sub.UserID,
		Amount:      -sub.Amount,
		Type:        domain.TransactionTypeSubscription,
		Description: fmt.Sprintf("Subscription to plan %s", planName),
		ReferenceID: &sub.ID,
	}
	if err := appendLedgerEntry(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

// CompleteExpiredSubscriptions flips every active subscription whose end date
// has passed to 'completed' and returns how many rows were transitioned.
func (r *PostgresRepository) CompleteExpiredSubscriptions(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
        UPDATE subscriptions
        SET status = 'completed'
        WHERE status = 'active'
          AND end_date < $1
    `
	commandTag, err := r.db.Exec(ctx, query, domain.NormalizeDate(asOf))
	if err != nil {
		return 0, err
	}
	return commandTag.RowsAffected(), nil
}

// ApplyEarning credits one day's profit for one subscription. The subscription
// row is locked for the duration of the transaction and the date guard is
// re-checked under that lock, so two overlapping runs that both scanned the
// subscription as eligible cannot both commit a credit for the same day.
func (r *PostgresRepository) ApplyEarning(ctx context.Context, earning domain.EarningsResult, runDate time.Time) error {
	day := domain.NormalizeDate(runDate)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var lastProfitDate *time.Time
	lockQuery := `SELECT last_profit_date FROM subscriptions WHERE id = $1 FOR UPDATE`
	err = tx.QueryRow(ctx, lockQuery, earning.SubscriptionID).Scan(&lastProfitDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSubscriptionNotFound
		}
		return err
	}
	if lastProfitDate != nil && !domain.NormalizeDate(*lastProfitDate).Before(day) {
		return ErrAlreadyCredited
	}

	advance := `UPDATE subscriptions SET last_profit_date = $1 WHERE id = $2`
	if _, err := tx.Exec(ctx, advance, day, earning.SubscriptionID); err != nil {
		return err
	}

	if err := creditBalance(ctx, tx, earning.UserID, earning.Amount); err != nil {
		return err
	}

	entry := &domain.Transaction{
		ID:          uuid.New(),
		UserID:      earning.UserID,
		Amount:      earning.Amount,
		Type:        domain.TransactionTypeProfit,
		Description: earning.Description,
		ReferenceID: &earning.SubscriptionID,
	}
	if err := appendLedgerEntry(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Deposit credits the user's balance and appends the 'deposit' ledger entry
// in one transaction.
func (r *PostgresRepository) Deposit(ctx context.Context, userID uuid.UUID, amount int64, description string) (*domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := creditBalance(ctx, tx, userID, amount); err != nil {
		return nil, err
	}

	entry := &domain.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Type:        domain.TransactionTypeDeposit,
		Description: description,
	}
	if err := appendLedgerEntry(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

// Withdraw debits the user's balance and appends the negative 'withdrawal'
// ledger entry in one transaction. Returns ErrInsufficientFunds when the
// balance cannot cover the amount.
func (r *PostgresRepository) Withdraw(ctx context.Context, userID uuid.UUID, amount int64, description string) (*domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := debitBalance(ctx, tx, userID, amount); err != nil {
		return nil, err
	}

	entry := &domain.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      -amount,
		Type:        domain.TransactionTypeWithdrawal,
		Description: description,
	}
	if err := appendLedgerEntry(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetBalance returns the cached account balance alongside the sum of the
// user's ledger entries. A user with no account yet has a zero balance.
func (r *PostgresRepository) GetBalance(ctx context.Context, userID uuid.UUID) (*domain.Balance, error) {
	var balance domain.Balance
	query := `SELECT balance FROM accounts WHERE user_id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance.Current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	sumQuery := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1`
	if err := r.db.QueryRow(ctx, sumQuery, userID).Scan(&balance.LedgerSum); err != nil {
		return nil, err
	}
	return &balance, nil
}

// FindTransactionsByUserID retrieves all ledger entries for a user, newest first.
func (r *PostgresRepository) FindTransactionsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	query := `
        SELECT id, user_id, amount, type, description, reference_id, created_at
        FROM transactions
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var entry domain.Transaction
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Amount, &entry.Type,
			&entry.Description, &entry.ReferenceID, &entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, entry)
	}
	return transactions, rows.Err()
}

// creditBalance adds to the user's cached balance, creating the account row
// on first credit.
func creditBalance(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int64) error {
	query := `
        INSERT INTO accounts (user_id, balance)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE
        SET balance = accounts.balance + EXCLUDED.balance
    `
	_, err := tx.Exec(ctx, query, userID, amount)
	return err
}

// debitBalance subtracts from the user's cached balance. The balance check is
// part of the UPDATE itself so a concurrent debit cannot overdraw.
func debitBalance(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int64) error {
	query := `
        UPDATE accounts
        SET balance = balance - $2
        WHERE user_id = $1 AND balance >= $2
    `
	commandTag, err := tx.Exec(ctx, query, userID, amount)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE user_id = $1)`, userID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrAccountNotFound
		}
		return ErrInsufficientFunds
	}
	return nil
}

// appendLedgerEntry inserts one row into the append-only transactions table.
func appendLedgerEntry(ctx context.Context, tx pgx.Tx, entry *domain.Transaction) error {
	query := `
        INSERT INTO transactions (id, user_id, amount, type, description, reference_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING created_at
    `
	return tx.QueryRow(ctx, query,
		entry.ID, entry.UserID, entry.Amount, entry.Type, entry.Description, entry.ReferenceID,
	).Scan(&entry.CreatedAt)
}
