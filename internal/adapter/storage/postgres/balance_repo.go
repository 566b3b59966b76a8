package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// BalanceRepo implements ports.BalanceRepository. Balance rows are created
// lazily; a key that was never written reads as zero.
type BalanceRepo struct {
	pool Pool
}

// NewBalanceRepo creates a new BalanceRepo.
func NewBalanceRepo(pool Pool) *BalanceRepo {
	return &BalanceRepo{pool: pool}
}

// Get fetches a balance without locking.
func (r *BalanceRepo) Get(ctx context.Context, appID, currency string) (int64, error) {
	query := `SELECT amount FROM balances WHERE app_id = $1 AND currency = $2`

	var amount int64
	err := r.pool.QueryRow(ctx, query, appID, currency).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return amount, nil
}

// GetAll fetches every balance held for an application, keyed by currency.
func (r *BalanceRepo) GetAll(ctx context.Context, appID string) (map[string]int64, error) {
	query := `SELECT currency, amount FROM balances WHERE app_id = $1`

	rows, err := r.pool.Query(ctx, query, appID)
	if err != nil {
		return nil, fmt.Errorf("get balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]int64)
	for rows.Next() {
		var currency string
		var amount int64
		if err := rows.Scan(&currency, &amount); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		balances[currency] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate balances: %w", err)
	}
	return balances, nil
}

// GetForUpdate fetches a balance with pessimistic locking. A missing row
// reads as zero; the subsequent Set upserts it. This MUST be called within
// a transaction.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, appID, currency string) (int64, error) {
	query := `SELECT amount FROM balances WHERE app_id = $1 AND currency = $2 FOR UPDATE`

	var amount int64
	err := tx.QueryRow(ctx, query, appID, currency).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance for update: %w", err)
	}
	return amount, nil
}

// Set upserts the balance row within a transaction.
func (r *BalanceRepo) Set(ctx context.Context, tx pgx.Tx, appID, currency string, amount int64) error {
	query := `INSERT INTO balances (app_id, currency, amount) VALUES ($1, $2, $3)
		ON CONFLICT (app_id, currency) DO UPDATE SET amount = EXCLUDED.amount`

	if _, err := tx.Exec(ctx, query, appID, currency, amount); err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}
