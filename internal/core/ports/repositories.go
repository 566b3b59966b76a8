package ports

import (
	"context"

	"escrow-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// IdentityRepository defines persistence operations for caller identities.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByName(ctx context.Context, name string) (*domain.Identity, error)
}

// ApplicationRepository defines persistence operations for applications.
// Methods accepting pgx.Tx run inside transaction blocks; GetByIDForUpdate
// takes a row lock that serializes all order bookkeeping for one application.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Application, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
	// IncrementOrderCount bumps the per-application order counter and returns
	// the new value, which becomes the order's position in the per-application
	// index.
	IncrementOrderCount(ctx context.Context, tx pgx.Tx, id string) (int64, error)
	Count(ctx context.Context) (int64, error)
	// OrderCounts returns the order counter for each given id. Missing ids are
	// absent from the result map.
	OrderCounts(ctx context.Context, ids []string) (map[string]int64, error)
}

// TokenRepository defines persistence for the token registry.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.Token) error
	// GetBySymbol returns nil, nil when the symbol is not registered.
	GetBySymbol(ctx context.Context, symbol string) (*domain.Token, error)
}

// BalanceRepository defines persistence for per-(application, currency)
// balances. Unseen keys read as zero.
type BalanceRepository interface {
	Get(ctx context.Context, appID, currency string) (int64, error)
	GetAll(ctx context.Context, appID string) (map[string]int64, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, appID, currency string) (int64, error)
	// Set upserts the balance row within a transaction.
	Set(ctx context.Context, tx pgx.Tx, appID, currency string, amount int64) error
}

// OrderRepository defines persistence for the append-only order log.
type OrderRepository interface {
	// Create inserts the order and fills in its global sequence number.
	Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	// Get returns nil, nil when the order does not exist.
	Get(ctx context.Context, appID, orderNo string) (*domain.Order, error)
	Exists(ctx context.Context, tx pgx.Tx, appID, orderNo string) (bool, error)
	// GetMulti returns the found orders keyed by order number.
	GetMulti(ctx context.Context, appID string, orderNos []string) (map[string]domain.Order, error)
	// ListByApp pages through an application's orders in insertion order.
	ListByApp(ctx context.Context, appID string, offset, limit int) ([]domain.Order, error)
	TotalCount(ctx context.Context) (int64, error)
}

// WithdrawalRepository persists the payout log.
type WithdrawalRepository interface {
	Create(ctx context.Context, tx pgx.Tx, withdrawal *domain.Withdrawal) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
