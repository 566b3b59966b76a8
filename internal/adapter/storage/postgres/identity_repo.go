package postgres

import (
	"context"
	"errors"
	"fmt"

	"escrow-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// IdentityRepo implements ports.IdentityRepository.
type IdentityRepo struct {
	pool Pool
}

// NewIdentityRepo creates a new IdentityRepo.
func NewIdentityRepo(pool Pool) *IdentityRepo {
	return &IdentityRepo{pool: pool}
}

// Create inserts a new identity.
func (r *IdentityRepo) Create(ctx context.Context, identity *domain.Identity) error {
	query := `INSERT INTO identities (name, password_hash, created_at) VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, identity.Name, identity.PasswordHash, identity.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

// GetByName fetches an identity by name. Returns nil, nil when absent.
func (r *IdentityRepo) GetByName(ctx context.Context, name string) (*domain.Identity, error) {
	query := `SELECT name, password_hash, created_at FROM identities WHERE name = $1`

	identity := &domain.Identity{}
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&identity.Name, &identity.PasswordHash, &identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get identity by name: %w", err)
	}
	return identity, nil
}
