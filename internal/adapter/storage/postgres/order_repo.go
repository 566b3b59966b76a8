package postgres

import (
	"context"
	"errors"
	"fmt"

	"escrow-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// OrderRepo implements ports.OrderRepository over the append-only order log.
type OrderRepo struct {
	pool Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(pool Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create appends the order and fills in its global sequence number.
func (r *OrderRepo) Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	query := `INSERT INTO orders (app_id, order_no, currency, requested_total, paid_total, payer, app_seq, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING seq`

	err := tx.QueryRow(ctx, query,
		order.AppID, order.OrderNo, order.Currency, order.RequestedTotal,
		order.PaidTotal, order.Payer, order.AppSeq, order.CreatedAt,
	).Scan(&order.Seq)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Get fetches one order. Returns nil, nil when it was never paid.
func (r *OrderRepo) Get(ctx context.Context, appID, orderNo string) (*domain.Order, error) {
	query := `SELECT app_id, order_no, currency, requested_total, paid_total, payer, seq, app_seq, created_at
		FROM orders WHERE app_id = $1 AND order_no = $2`

	order := &domain.Order{}
	err := r.pool.QueryRow(ctx, query, appID, orderNo).Scan(
		&order.AppID, &order.OrderNo, &order.Currency, &order.RequestedTotal,
		&order.PaidTotal, &order.Payer, &order.Seq, &order.AppSeq, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// Exists reports whether the (app, orderNo) key has been consumed. Runs
// inside the payment transaction so the check and the insert are atomic.
func (r *OrderRepo) Exists(ctx context.Context, tx pgx.Tx, appID, orderNo string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM orders WHERE app_id = $1 AND order_no = $2)`

	var exists bool
	if err := tx.QueryRow(ctx, query, appID, orderNo).Scan(&exists); err != nil {
		return false, fmt.Errorf("check order exists: %w", err)
	}
	return exists, nil
}

// GetMulti returns the found orders keyed by order number.
func (r *OrderRepo) GetMulti(ctx context.Context, appID string, orderNos []string) (map[string]domain.Order, error) {
	query := `SELECT app_id, order_no, currency, requested_total, paid_total, payer, seq, app_seq, created_at
		FROM orders WHERE app_id = $1 AND order_no = ANY($2)`

	rows, err := r.pool.Query(ctx, query, appID, orderNos)
	if err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}
	defer rows.Close()

	found := make(map[string]domain.Order, len(orderNos))
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.AppID, &order.OrderNo, &order.Currency, &order.RequestedTotal,
			&order.PaidTotal, &order.Payer, &order.Seq, &order.AppSeq, &order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		found[order.OrderNo] = order
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return found, nil
}

// ListByApp pages through an application's orders in insertion order.
func (r *OrderRepo) ListByApp(ctx context.Context, appID string, offset, limit int) ([]domain.Order, error) {
	query := `SELECT app_id, order_no, currency, requested_total, paid_total, payer, seq, app_seq, created_at
		FROM orders WHERE app_id = $1 ORDER BY app_seq ASC OFFSET $2 LIMIT $3`

	rows, err := r.pool.Query(ctx, query, appID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, limit)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.AppID, &order.OrderNo, &order.Currency, &order.RequestedTotal,
			&order.PaidTotal, &order.Payer, &order.Seq, &order.AppSeq, &order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// TotalCount returns the number of orders across all applications.
func (r *OrderRepo) TotalCount(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}
