package service

import (
	"context"
	"testing"
	"time"

	"escrow-ledger/internal/core/domain"
	"escrow-ledger/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authTestDeps struct {
	svc          *AuthServiceImpl
	identityRepo *mocks.MockIdentityRepository
	hashSvc      *mocks.MockHashService
	tokenSvc     *mocks.MockAuthTokenService
	ctrl         *gomock.Controller
}

func setupAuthService(t *testing.T) *authTestDeps {
	ctrl := gomock.NewController(t)
	d := &authTestDeps{
		identityRepo: mocks.NewMockIdentityRepository(ctrl),
		hashSvc:      mocks.NewMockHashService(ctrl),
		tokenSvc:     mocks.NewMockAuthTokenService(ctrl),
		ctrl:         ctrl,
	}
	d.svc = NewAuthService(d.identityRepo, d.hashSvc, d.tokenSvc, zerolog.Nop())
	return d
}

func TestAuthService_Register_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.identityRepo.EXPECT().GetByName(ctx, "alice").Return(nil, nil)
	d.hashSvc.EXPECT().Hash("s3cret-pass").Return("$argon2id$hash", nil)
	d.identityRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	identity, err := d.svc.Register(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "alice", identity.Name)
	assert.Equal(t, "$argon2id$hash", identity.PasswordHash)
}

func TestAuthService_Register_NameTaken(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.identityRepo.EXPECT().GetByName(ctx, "alice").Return(&domain.Identity{Name: "alice"}, nil)

	identity, err := d.svc.Register(ctx, "alice", "s3cret-pass")
	assert.Nil(t, identity)
	assertAppError(t, err, "AUTH_002")
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	identity, err := d.svc.Register(context.Background(), "alice", "short")
	assert.Nil(t, identity)
	assertAppError(t, err, "ESC_000")
}

func TestAuthService_Login_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)

	d.identityRepo.EXPECT().GetByName(ctx, "alice").Return(&domain.Identity{
		Name: "alice", PasswordHash: "$argon2id$hash",
	}, nil)
	d.hashSvc.EXPECT().Verify("s3cret-pass", "$argon2id$hash").Return(true, nil)
	d.tokenSvc.EXPECT().Generate("alice").Return("jwt-token", expiry, nil)

	token, exp, err := d.svc.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, expiry, exp)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.identityRepo.EXPECT().GetByName(ctx, "alice").Return(&domain.Identity{
		Name: "alice", PasswordHash: "$argon2id$hash",
	}, nil)
	d.hashSvc.EXPECT().Verify("wrong", "$argon2id$hash").Return(false, nil)

	token, _, err := d.svc.Login(ctx, "alice", "wrong")
	assert.Empty(t, token)
	assertAppError(t, err, "AUTH_001")
}

func TestAuthService_Login_UnknownIdentity(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.identityRepo.EXPECT().GetByName(ctx, "nobody").Return(nil, nil)

	token, _, err := d.svc.Login(ctx, "nobody", "whatever-pass")
	assert.Empty(t, token)
	assertAppError(t, err, "AUTH_001")
}
