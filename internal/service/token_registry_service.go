package service

import (
	"context"
	"fmt"
	"time"

	"escrow-ledger/internal/core/domain"
	"escrow-ledger/internal/core/ports"
	"escrow-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// TokenRegistryServiceImpl implements ports.TokenRegistryService.
type TokenRegistryServiceImpl struct {
	tokenRepo ports.TokenRepository
	auth      Authorizer
	log       zerolog.Logger
}

// NewTokenRegistryService creates a new TokenRegistryServiceImpl.
func NewTokenRegistryService(tokenRepo ports.TokenRepository, auth Authorizer, log zerolog.Logger) *TokenRegistryServiceImpl {
	return &TokenRegistryServiceImpl{
		tokenRepo: tokenRepo,
		auth:      auth,
		log:       log,
	}
}

// Register maps a currency symbol to an external ledger address. Admin only;
// first registration wins and the mapping is immutable afterwards. The empty
// symbol is reserved for the native currency.
func (s *TokenRegistryServiceImpl) Register(ctx context.Context, req ports.RegisterTokenRequest) (*domain.Token, error) {
	if !s.auth.IsAdmin(req.Caller) {
		return nil, apperror.ErrUnauthorized()
	}
	if req.Symbol == "" {
		return nil, apperror.Validation("the empty symbol is reserved for the native currency")
	}
	if req.LedgerAddress == "" {
		return nil, apperror.Validation("ledger address must not be empty")
	}

	existing, err := s.tokenRepo.GetBySymbol(ctx, req.Symbol)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check token: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateToken()
	}

	token := &domain.Token{
		Symbol:        req.Symbol,
		LedgerAddress: req.LedgerAddress,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create token: %w", err))
	}

	s.log.Info().
		Str("symbol", token.Symbol).
		Str("ledger", token.LedgerAddress).
		Msg("token registered")

	return token, nil
}

// Resolve returns the registry entry for a symbol, or nil, nil when the
// symbol is not registered. The native currency must never be looked up here.
func (s *TokenRegistryServiceImpl) Resolve(ctx context.Context, symbol string) (*domain.Token, error) {
	if symbol == "" {
		return nil, nil
	}
	token, err := s.tokenRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve token: %w", err))
	}
	return token, nil
}
