package service

import (
	"context"
	"fmt"
	"time"

	"escrow-ledger/internal/app/metrics"
	"escrow-ledger/internal/core/domain"
	"escrow-ledger/internal/core/ports"
	"escrow-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// ApplicationServiceImpl implements ports.ApplicationService.
type ApplicationServiceImpl struct {
	appRepo  ports.ApplicationRepository
	auth     Authorizer
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewApplicationService creates a new ApplicationServiceImpl.
func NewApplicationService(
	appRepo ports.ApplicationRepository,
	auth Authorizer,
	notifier ports.Notifier,
	log zerolog.Logger,
) *ApplicationServiceImpl {
	return &ApplicationServiceImpl{
		appRepo:  appRepo,
		auth:     auth,
		notifier: notifier,
		log:      log,
	}
}

// Register creates an application. The caller must be the owner
// (self-registration) or the privileged administrator. Applications start
// disabled and the owner is immutable from here on.
func (s *ApplicationServiceImpl) Register(ctx context.Context, req ports.RegisterApplicationRequest) (*domain.Application, error) {
	if req.ID == "" {
		return nil, apperror.Validation("application id must not be empty")
	}
	if req.Owner == "" {
		return nil, apperror.Validation("owner must not be empty")
	}
	if !s.auth.CanRegisterApplication(req.Caller, req.Owner) {
		return nil, apperror.ErrUnauthorized()
	}

	existing, err := s.appRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check application: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateApplication()
	}

	now := time.Now().UTC()
	app := &domain.Application{
		ID:        req.ID,
		Owner:     req.Owner,
		Enabled:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create application: %w", err))
	}

	metrics.RecordApplicationCreated()
	s.notifier.ApplicationCreated(ctx, domain.ApplicationCreatedEvent{
		AppID:     app.ID,
		Owner:     app.Owner,
		CreatedAt: now,
	})

	s.log.Info().
		Str("app", app.ID).
		Str("owner", app.Owner).
		Msg("application registered")

	return app, nil
}

// SetStatus flips the enabled flag. Owner only.
func (s *ApplicationServiceImpl) SetStatus(ctx context.Context, id string, enabled bool, caller string) error {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get application: %w", err))
	}
	if app == nil {
		return apperror.ErrApplicationNotFound()
	}
	if !s.auth.CanManageApplication(caller, app.Owner) {
		return apperror.ErrUnauthorized()
	}

	if err := s.appRepo.SetEnabled(ctx, id, enabled); err != nil {
		return apperror.InternalError(fmt.Errorf("set application status: %w", err))
	}

	s.log.Info().Str("app", id).Bool("enabled", enabled).Msg("application status changed")
	return nil
}

// ResolveOwner returns the owning identity, or domain.NoOwner for unknown
// applications. Callers rely on the sentinel to detect non-existence
// without an error path.
func (s *ApplicationServiceImpl) ResolveOwner(ctx context.Context, id string) (string, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return domain.NoOwner, apperror.InternalError(fmt.Errorf("get application: %w", err))
	}
	if app == nil {
		return domain.NoOwner, nil
	}
	return app.Owner, nil
}

// GetStatus returns the enabled flag; unknown applications read as disabled.
func (s *ApplicationServiceImpl) GetStatus(ctx context.Context, id string) (bool, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("get application: %w", err))
	}
	if app == nil {
		return false, nil
	}
	return app.Enabled, nil
}

// Count returns the number of registered applications.
func (s *ApplicationServiceImpl) Count(ctx context.Context) (int64, error) {
	n, err := s.appRepo.Count(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("count applications: %w", err))
	}
	return n, nil
}
