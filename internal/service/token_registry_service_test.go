package service

import (
	"context"
	"testing"

	"escrow-ledger/internal/core/domain"
	"escrow-ledger/internal/core/ports"
	"escrow-ledger/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupTokenRegistry(t *testing.T) (*TokenRegistryServiceImpl, *mocks.MockTokenRepository, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	tokenRepo := mocks.NewMockTokenRepository(ctrl)
	svc := NewTokenRegistryService(tokenRepo, NewAuthorizer("admin"), zerolog.Nop())
	return svc, tokenRepo, ctrl
}

func TestTokenRegistry_Register_Success(t *testing.T) {
	svc, tokenRepo, ctrl := setupTokenRegistry(t)
	defer ctrl.Finish()

	ctx := context.Background()

	tokenRepo.EXPECT().GetBySymbol(ctx, "GLD").Return(nil, nil)
	tokenRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	token, err := svc.Register(ctx, ports.RegisterTokenRequest{
		Symbol: "GLD", LedgerAddress: "http://gld-ledger:9000", Caller: "admin",
	})
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "GLD", token.Symbol)
	assert.Equal(t, "http://gld-ledger:9000", token.LedgerAddress)
}

func TestTokenRegistry_Register_NonAdminDenied(t *testing.T) {
	svc, _, ctrl := setupTokenRegistry(t)
	defer ctrl.Finish()

	token, err := svc.Register(context.Background(), ports.RegisterTokenRequest{
		Symbol: "GLD", LedgerAddress: "http://gld-ledger:9000", Caller: "bob",
	})
	assert.Nil(t, token)
	assertAppError(t, err, "ESC_001")
}

func TestTokenRegistry_Register_EmptySymbolReserved(t *testing.T) {
	svc, _, ctrl := setupTokenRegistry(t)
	defer ctrl.Finish()

	token, err := svc.Register(context.Background(), ports.RegisterTokenRequest{
		Symbol: "", LedgerAddress: "http://x", Caller: "admin",
	})
	assert.Nil(t, token)
	assertAppError(t, err, "ESC_000")
}

func TestTokenRegistry_Register_FirstMappingWins(t *testing.T) {
	svc, tokenRepo, ctrl := setupTokenRegistry(t)
	defer ctrl.Finish()

	ctx := context.Background()

	tokenRepo.EXPECT().GetBySymbol(ctx, "GLD").Return(&domain.Token{
		Symbol: "GLD", LedgerAddress: "http://original",
	}, nil)

	token, err := svc.Register(ctx, ports.RegisterTokenRequest{
		Symbol: "GLD", LedgerAddress: "http://other", Caller: "admin",
	})
	assert.Nil(t, token)
	assertAppError(t, err, "ESC_004")
}

func TestTokenRegistry_Resolve_Miss(t *testing.T) {
	svc, tokenRepo, ctrl := setupTokenRegistry(t)
	defer ctrl.Finish()

	ctx := context.Background()

	tokenRepo.EXPECT().GetBySymbol(ctx, "TT").Return(nil, nil)

	token, err := svc.Resolve(ctx, "TT")
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestTokenRegistry_Resolve_EmptySymbolNeverHitsRepo(t *testing.T) {
	svc, _, ctrl := setupTokenRegistry(t)
	defer ctrl.Finish()

	token, err := svc.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, token)
}
