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

type applicationTestDeps struct {
	svc      *ApplicationServiceImpl
	appRepo  *mocks.MockApplicationRepository
	notifier *mocks.MockNotifier
	ctrl     *gomock.Controller
}

func setupApplicationService(t *testing.T) *applicationTestDeps {
	ctrl := gomock.NewController(t)
	d := &applicationTestDeps{
		appRepo:  mocks.NewMockApplicationRepository(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
		ctrl:     ctrl,
	}
	d.svc = NewApplicationService(d.appRepo, NewAuthorizer("admin"), d.notifier, zerolog.Nop())
	return d
}

func TestApplicationService_Register_SelfRegistration(t *testing.T) {
	d := setupApplicationService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.appRepo.EXPECT().GetByID(ctx, "shop").Return(nil, nil)
	d.appRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.notifier.EXPECT().ApplicationCreated(ctx, gomock.Any())

	app, err := d.svc.Register(ctx, ports.RegisterApplicationRequest{
		ID: "shop", Owner: "bob", Caller: "bob",
	})
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "shop", app.ID)
	assert.Equal(t, "bob", app.Owner)
	assert.False(t, app.Enabled) // applications start disabled
}

func TestApplicationService_Register_AdminOnBehalf(t *testing.T) {
	d := setupApplicationService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.appRepo.EXPECT().GetByID(ctx, "shop").Return(nil, nil)
	d.appRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.notifier.EXPECT().ApplicationCreated(ctx, gomock.Any())

	app, err := d.svc.Register(ctx, ports.RegisterApplicationRequest{
		ID: "shop", Owner: "bob", Caller: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", app.Owner)
}

func TestApplicationService_Register_ForeignCallerDenied(t *testing.T) {
	d := setupApplicationService(t)
	defer d.ctrl.Finish()

	app, err := d.svc.Register(context.Background(), ports.RegisterApplicationRequest{
		ID: "shop", Owner: "bob", Caller: "mallory",
	})
	assert.Nil(t, app)
	assertAppError(t, err, "ESC_001")
}

func TestApplicationService_Register_Duplicate(t *testing.T) {
	d := setupApplicationService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.appRepo.EXPECT().GetByID(ctx, "shop").Return(&domain.Application{ID: "shop", Owner: "carol"}, nil)

	app, err := d.svc.Register(ctx, ports.RegisterApplicationRequest{
		ID: "shop", Owner: "bob", Caller: "bob",
	})
	assert.Nil(t, app)
	assertAppError(t, err, "ESC_002")
}

func TestApplicationService_SetStatus_OwnerEnables(t *testing.T) {
	d := setupApplicationService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.appRepo.EXPECT().GetByID(ctx, "shop").Return(&domain.Application{ID: "shop", Owner: "bob"}, nil)
	d.appRepo.EXPECT().SetEnabled(ctx, "shop", true).Return(nil)

	err := d.svc.SetStatus(ctx, "shop", true, "bob")
	require.NoError(t, err)
}

func TestApplicationService_SetStatus_AdminDenied(t *testing.T) {
	d := setupApplicationService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.appRepo.EXPECT().GetByID(ctx, "shop").Return(&domain.Application{ID: "shop", Owner: "bob"}, nil)

	// Status changes are owner-only; the administrator has no special power
	// here.
	err := d.svc.SetStatus(ctx, "shop", true, "admin")
	assertAppError(t, err, "ESC_001")
}

func TestApplicationService_SetStatus_UnknownApp(t *testing.T) {
	d := setupApplicationService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.appRepo.EXPECT().GetByID(ctx, "ghost").Return(nil, nil)

	err := d.svc.SetStatus(ctx, "ghost", true, "bob")
	assertAppError(t, err, "ESC_003")
}

func TestApplicationService_ResolveOwner_UnknownReturnsSentinel(t *testing.T) {
	d := setupApplicationService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.appRepo.EXPECT().GetByID(ctx, "ghost").Return(nil, nil)

	owner, err := d.svc.ResolveOwner(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, domain.NoOwner, owner)
}

func TestApplicationService_GetStatus_UnknownReadsDisabled(t *testing.T) {
	d := setupApplicationService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.appRepo.EXPECT().GetByID(ctx, "ghost").Return(nil, nil)

	enabled, err := d.svc.GetStatus(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestApplicationService_Count(t *testing.T) {
	d := setupApplicationService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.appRepo.EXPECT().Count(ctx).Return(int64(7), nil)

	n, err := d.svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}
