package postgres

import (
	"context"
	"errors"
	"fmt"

	"escrow-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TokenRepo implements ports.TokenRepository.
type TokenRepo struct {
	pool Pool
}

// NewTokenRepo creates a new TokenRepo.
func NewTokenRepo(pool Pool) *TokenRepo {
	return &TokenRepo{pool: pool}
}

// Create inserts a new token registry entry.
func (r *TokenRepo) Create(ctx context.Context, token *domain.Token) error {
	query := `INSERT INTO tokens (symbol, ledger_address, created_at) VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, token.Symbol, token.LedgerAddress, token.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// GetBySymbol fetches a registry entry. Returns nil, nil when unregistered.
func (r *TokenRepo) GetBySymbol(ctx context.Context, symbol string) (*domain.Token, error) {
	query := `SELECT symbol, ledger_address, created_at FROM tokens WHERE symbol = $1`

	token := &domain.Token{}
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&token.Symbol, &token.LedgerAddress, &token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get token by symbol: %w", err)
	}
	return token, nil
}
