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

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	identityRepo ports.IdentityRepository
	hashSvc      ports.HashService
	tokenSvc     ports.AuthTokenService
	log          zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	identityRepo ports.IdentityRepository,
	hashSvc ports.HashService,
	tokenSvc ports.AuthTokenService,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		identityRepo: identityRepo,
		hashSvc:      hashSvc,
		tokenSvc:     tokenSvc,
		log:          log,
	}
}

// Register creates a new caller identity.
func (s *AuthServiceImpl) Register(ctx context.Context, name, password string) (*domain.Identity, error) {
	if name == "" {
		return nil, apperror.Validation("name must not be empty")
	}
	if len(password) < 8 {
		return nil, apperror.Validation("password must be at least 8 characters")
	}

	existing, err := s.identityRepo.GetByName(ctx, name)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check identity: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrIdentityExists()
	}

	passwordHash, err := s.hashSvc.Hash(password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	identity := &domain.Identity{
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.identityRepo.Create(ctx, identity); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create identity: %w", err))
	}

	s.log.Info().Str("identity", name).Msg("identity registered")
	return identity, nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, name, password string) (string, time.Time, error) {
	identity, err := s.identityRepo.GetByName(ctx, name)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find identity: %w", err))
	}
	if identity == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, identity.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(identity.Name)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}
