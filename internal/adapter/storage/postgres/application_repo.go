package postgres

import (
	"context"
	"errors"
	"fmt"

	"escrow-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ApplicationRepo implements ports.ApplicationRepository.
type ApplicationRepo struct {
	pool Pool
}

// NewApplicationRepo creates a new ApplicationRepo.
func NewApplicationRepo(pool Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

// Create inserts a new application.
func (r *ApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `INSERT INTO applications (id, owner, enabled, order_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		app.ID, app.Owner, app.Enabled, app.OrderCount, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// GetByID fetches an application by id (without locking).
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	query := `SELECT id, owner, enabled, order_count, created_at, updated_at
		FROM applications WHERE id = $1`

	app := &domain.Application{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.Owner, &app.Enabled, &app.OrderCount, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get application by id: %w", err)
	}
	return app, nil
}

// GetByIDForUpdate fetches an application by id with pessimistic locking.
// This MUST be called within a transaction.
func (r *ApplicationRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Application, error) {
	query := `SELECT id, owner, enabled, order_count, created_at, updated_at
		FROM applications WHERE id = $1 FOR UPDATE`

	app := &domain.Application{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.Owner, &app.Enabled, &app.OrderCount, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get application for update: %w", err)
	}
	return app, nil
}

// SetEnabled flips the enabled flag.
func (r *ApplicationRepo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	query := `UPDATE applications SET enabled = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, enabled, id)
	if err != nil {
		return fmt.Errorf("set application enabled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", id)
	}
	return nil
}

// IncrementOrderCount bumps the per-application order counter and returns
// the new value. Must run inside the transaction that holds the row lock.
func (r *ApplicationRepo) IncrementOrderCount(ctx context.Context, tx pgx.Tx, id string) (int64, error) {
	query := `UPDATE applications SET order_count = order_count + 1, updated_at = NOW()
		WHERE id = $1 RETURNING order_count`

	var count int64
	if err := tx.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("increment order count: %w", err)
	}
	return count, nil
}

// Count returns the number of registered applications.
func (r *ApplicationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return n, nil
}

// OrderCounts returns the order counter for each given id. Missing ids are
// absent from the result map.
func (r *ApplicationRepo) OrderCounts(ctx context.Context, ids []string) (map[string]int64, error) {
	query := `SELECT id, order_count FROM applications WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get order counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64, len(ids))
	for rows.Next() {
		var id string
		var count int64
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan order count: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order counts: %w", err)
	}
	return counts, nil
}
